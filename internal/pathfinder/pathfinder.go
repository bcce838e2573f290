// Package pathfinder implements FstPathFinder: enumeration of every
// distinct accepting (cost, token-sequence) path of an acyclic WFST.
package pathfinder

import (
	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/symtab"
)

// Path is one accepting path: its total cost (tropical-sum of arc weights
// plus the final weight) and its output token sequence with skip symbols
// omitted.
type Path struct {
	Cost   float64
	Tokens []string
}

// Finder enumerates paths of an acyclic Fst, rendering output labels
// through isyms and omitting any label id in skipIDs.
type Finder struct {
	isyms   *symtab.Table
	skipIDs map[int]struct{}
}

// New builds a Finder that skips skipIDs when rendering tokens.
func New(isyms *symtab.Table, skipIDs map[int]struct{}) *Finder {
	return &Finder{isyms: isyms, skipIDs: skipIDs}
}

// FindAllStrings performs a depth-first traversal from f's start state,
// recording one Path per accepting arc path. De-duplication of identical
// token sequences across different underlying arc paths (e.g. after
// ShortestPath's one-chain-per-path construction) is left to the caller.
func (pf *Finder) FindAllStrings(f *fst.Fst) ([]Path, error) {
	var paths []Path
	if f.Empty() {
		return paths, nil
	}

	onStack := make([]bool, f.NumStates())
	var tokens []string

	var visit func(state int, cost float64) error
	visit = func(state int, cost float64) error {
		if onStack[state] {
			return fst.CyclicLatticeError{}
		}
		onStack[state] = true
		defer func() { onStack[state] = false }()

		if f.IsFinal(state) {
			final := f.Semiring.Times(cost, f.States[state].Final)
			out := make([]string, len(tokens))
			copy(out, tokens)
			paths = append(paths, Path{Cost: final, Tokens: out})
		}

		for _, a := range f.States[state].Arcs {
			appended := false
			if _, skip := pf.skipIDs[a.OLabel]; !skip {
				tokens = append(tokens, pf.isyms.Symbol(a.OLabel))
				appended = true
			}
			next := f.Semiring.Times(cost, a.Weight)
			if err := visit(a.NextState, next); err != nil {
				return err
			}
			if appended {
				tokens = tokens[:len(tokens)-1]
			}
		}
		return nil
	}

	if err := visit(f.Start, f.Semiring.One()); err != nil {
		return nil, err
	}
	return paths, nil
}
