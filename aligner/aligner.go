package aligner

import (
	"math"

	"github.com/pkg/errors"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/penalty"
	"github.com/neurlang/g2pfst/internal/semiring"
	"github.com/neurlang/g2pfst/internal/symtab"
)

// Aligner is M2MFstAligner: owns the shared joint-symbol table, the
// per-pair alignment FSTs, and the EM iterate.
type Aligner struct {
	cfg   Config
	Isyms *symtab.Table
	Fsas  []*fst.Fst

	AlignmentModel     map[int]float64
	PrevAlignmentModel map[int]float64
	Total              float64 // Σ α(final) across the corpus, tracked for EM monotonicity
	Penalties          penalty.Table

	expected map[int]float64
}

// New constructs an Aligner with an empty symbol table seeded with eps.
func New(cfg Config) *Aligner {
	return &Aligner{
		cfg:                cfg,
		Isyms:              symtab.New(cfg.Symbols),
		AlignmentModel:     make(map[int]float64),
		PrevAlignmentModel: make(map[int]float64),
		Total:              math.Inf(1),
		expected:           make(map[int]float64),
	}
}

// SkipIDs resolves the configured skip set to this aligner's symbol table.
func (a *Aligner) SkipIDs() map[int]struct{} { return a.Isyms.SkipIDs() }

func gridState(i, j, cols int) int { return i*cols + j }

// Entry2AlignFST builds the grid alignment FST for one training pair (§3)
// and appends it to Fsas. Returns the new FST's index.
func (a *Aligner) Entry2AlignFST(s1, s2 []string) (int, error) {
	rows, cols := len(s1)+1, len(s2)+1
	f := fst.New(semiring.Log{})
	for s := 0; s < rows*cols; s++ {
		f.AddState()
	}
	f.SetStart(gridState(0, 0, cols))
	f.SetFinal(gridState(len(s1), len(s2), cols), f.Semiring.One())

	for i := 0; i <= len(s1); i++ {
		for j := 0; j <= len(s2); j++ {
			s := gridState(i, j, cols)
			degree := 0

			maxM := a.cfg.Seq1Max
			if len(s1)-i < maxM {
				maxM = len(s1) - i
			}
			maxN := a.cfg.Seq2Max
			if len(s2)-j < maxN {
				maxN = len(s2) - j
			}
			for m := 1; m <= maxM; m++ {
				for n := 1; n <= maxN; n++ {
					if a.cfg.Restrict && m > 1 && n > 1 {
						continue
					}
					degree++
				}
			}
			if a.cfg.Seq1Del && len(s2)-j >= 1 {
				n := a.cfg.Seq2Max
				if len(s2)-j < n {
					n = len(s2) - j
				}
				degree += n
			}
			if a.cfg.Seq2Del && len(s1)-i >= 1 {
				m := a.cfg.Seq1Max
				if len(s1)-i < m {
					m = len(s1) - i
				}
				degree += m
			}
			if degree == 0 {
				continue
			}
			weight := math.Log(float64(degree))

			for m := 1; m <= maxM; m++ {
				for n := 1; n <= maxN; n++ {
					if a.cfg.Restrict && m > 1 && n > 1 {
						continue
					}
					sym, err := a.cfg.Symbols.JointSymbol(s1[i:i+m], s2[j:j+n])
					if err != nil {
						return -1, err
					}
					id := a.Isyms.Find(sym)
					dst := gridState(i+m, j+n, cols)
					f.AddArc(s, fst.Arc{ILabel: id, OLabel: id, Weight: weight, NextState: dst})
				}
			}
			if a.cfg.Seq1Del {
				for n := 1; n <= maxN; n++ {
					sym, err := a.cfg.Symbols.JointSymbol(nil, s2[j:j+n])
					if err != nil {
						return -1, err
					}
					id := a.Isyms.Find(sym)
					dst := gridState(i, j+n, cols)
					f.AddArc(s, fst.Arc{ILabel: id, OLabel: id, Weight: weight, NextState: dst})
				}
			}
			if a.cfg.Seq2Del {
				for m := 1; m <= maxM; m++ {
					sym, err := a.cfg.Symbols.JointSymbol(s1[i:i+m], nil)
					if err != nil {
						return -1, err
					}
					id := a.Isyms.Find(sym)
					dst := gridState(i+m, j, cols)
					f.AddArc(s, fst.Arc{ILabel: id, OLabel: id, Weight: weight, NextState: dst})
				}
			}
		}
	}

	a.Fsas = append(a.Fsas, f)
	return len(a.Fsas) - 1, nil
}

// IsEmptyAlignment reports whether the i'th pair's FST has no path from
// start to final: an unreachable final state, typically because a
// required deletion flag was off.
func (a *Aligner) IsEmptyAlignment(i int) bool {
	return fst.Connect(a.Fsas[i]).Empty()
}

// EmptyAlignmentError reports a training pair whose allowed operations
// can't cover both sequences.
type EmptyAlignmentError struct{ PairIndex int }

func (e *EmptyAlignmentError) Error() string {
	return errors.Errorf("empty alignment for pair %d", e.PairIndex).Error()
}
