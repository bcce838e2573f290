// Package aligner implements M2MFstAligner: the many-to-many EM aligner
// that learns a joint subsequence probability table from a pronunciation
// dictionary by running Expectation-Maximization over per-pair alignment
// FSTs in the log semiring.
package aligner

import "github.com/neurlang/g2pfst/internal/symtab"

// Config is the aligner's construction-time parameter set.
type Config struct {
	Seq1Del, Seq2Del bool
	Seq1Max, Seq2Max int
	Restrict         bool
	Penalize         bool
	PenalizeEM       bool
	Symbols          symtab.Config
}

// DefaultConfig returns the aligner's default parameters.
func DefaultConfig() Config {
	return Config{
		Seq1Del: true, Seq2Del: true,
		Seq1Max: 2, Seq2Max: 2,
		Restrict: true,
		Symbols:  symtab.DefaultConfig(),
	}
}
