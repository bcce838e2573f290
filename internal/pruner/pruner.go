// Package pruner implements LatticePruner: n-best restriction and
// forward-backward posterior pruning of a tropical-weight alignment
// lattice.
package pruner

import (
	"math"

	"github.com/neurlang/g2pfst/internal/fst"
)

// Pruner holds the penalty table, pruning threshold, n-best cap and the
// forward-backward/penalize switches that together define one prune policy.
type Pruner struct {
	Penalties map[int]float64
	Threshold float64 // interpreted as a tropical-semiring distance; +Inf disables threshold pruning
	N         int     // N>1 restricts to the N shortest distinct paths; N<=1 disables this step
	FB        bool    // forward-backward posterior pruning
	Penalize  bool    // apply Penalties to arc weights before pruning
}

// New builds a Pruner. threshold should be math.Inf(1) to disable
// threshold-based pruning (the CLI's pthresh default of -99 maps to +Inf
// at the flag-parsing boundary).
func New(penalties map[int]float64, threshold float64, n int, fb, penalize bool) *Pruner {
	return &Pruner{Penalties: penalties, Threshold: threshold, N: n, FB: fb, Penalize: penalize}
}

// Prune transforms f in place (by replacing its states/start) following a
// fixed policy order: penalize, then n-best, then forward-backward, then
// threshold pruning. Pruning an empty or disconnected lattice yields an
// empty lattice, not an error.
func (p *Pruner) Prune(f *fst.Fst) error {
	if f.Empty() {
		return nil
	}

	if p.Penalize {
		for i := range f.States {
			for j, a := range f.States[i].Arcs {
				f.States[i].Arcs[j].Weight = a.Weight + p.Penalties[a.OLabel]
			}
		}
	}

	if p.N > 1 {
		shortest, err := fst.ShortestPath(f, p.N)
		if err != nil {
			return err
		}
		replace(f, shortest)
	}

	if f.Empty() {
		return nil
	}

	if p.FB || !math.IsInf(p.Threshold, 1) {
		alpha, beta, err := fst.ForwardBackward(f)
		if err != nil {
			return err
		}
		bestFinal := fst.FinalCost(f, alpha)
		if math.IsInf(bestFinal, 1) {
			// No path reaches a final state at finite cost.
			replace(f, fst.New(f.Semiring))
			return nil
		}

		pruned := fst.New(f.Semiring)
		keepState := make([]int, f.NumStates())
		for i := range keepState {
			keepState[i] = -1
		}
		ensure := func(s int) int {
			if keepState[s] < 0 {
				keepState[s] = pruned.AddState()
				pruned.SetFinal(keepState[s], f.States[s].Final)
			}
			return keepState[s]
		}
		for s := range f.States {
			for _, a := range f.States[s].Arcs {
				posterior := f.Semiring.Times(f.Semiring.Times(alpha[s], a.Weight), beta[a.NextState]) - bestFinal
				if posterior <= p.Threshold {
					ps := ensure(s)
					pd := ensure(a.NextState)
					pruned.AddArc(ps, fst.Arc{ILabel: a.ILabel, OLabel: a.OLabel, Weight: a.Weight, NextState: pd})
				}
			}
		}
		if keepState[f.Start] >= 0 {
			pruned.SetStart(keepState[f.Start])
		}
		replace(f, fst.Connect(pruned))
	}

	return nil
}

// replace overwrites dst's contents with src's, the in-place mutation
// Prune's contract calls for.
func replace(dst, src *fst.Fst) {
	dst.States = src.States
	dst.Start = src.Start
}
