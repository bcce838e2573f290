package aligner

import (
	"math"
	"sync"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/parallel"
	"github.com/neurlang/g2pfst/internal/penalty"
	"github.com/neurlang/g2pfst/internal/semiring"
)

// Seed runs the zeroth maximization(false) the training loop calls before
// any expectation(): it reads the uniform arc weights entry2alignfst wrote
// at construction time directly (rather than a posterior over the lattice)
// to produce an initial alignment_model, seeding EM from the construction
// FSTs' own uniform distribution.
func (a *Aligner) Seed() {
	byLabel := make(map[int][]float64)
	for _, f := range a.Fsas {
		for _, s := range f.States {
			for _, arc := range s.Arcs {
				byLabel[arc.ILabel] = append(byLabel[arc.ILabel], arc.Weight)
			}
		}
	}
	a.expected = foldByLabel(byLabel)
	a.normalize(false)
}

// foldByLabel reduces each label's slice of accumulated weights with a
// single LogAddSlice call instead of a running per-value LogAdd, so the
// batched (and, on amd64, AVX2-folded) kernel carries the reduction instead
// of the scalar one.
func foldByLabel(byLabel map[int][]float64) map[int]float64 {
	out := make(map[int]float64, len(byLabel))
	for l, vs := range byLabel {
		out[l] = semiring.LogAddSlice(vs)
	}
	return out
}

// Expectation runs one E-step over every alignment FST: re-weight arcs from
// the current alignment_model (plus penalties, if PenalizeEM), compute
// forward/backward in the log semiring, and accumulate each arc's
// posterior into the per-label expected-count table. Total accumulates
// Σ α(final) across pairs, tracking overall training likelihood.
//
// Per-pair forward/backward is independent given the read-only
// alignment_model, so pairs run concurrently; each goroutine accumulates
// into a local table, and local tables are merged with log-add at the
// barrier before maximization ever reads them.
func (a *Aligner) Expectation() error {
	totals := make([]float64, len(a.Fsas))
	for i := range totals {
		totals[i] = math.Inf(1)
	}
	locals := make([]map[int]float64, len(a.Fsas))
	var firstErr error
	var mu sync.Mutex

	parallel.ForEach(len(a.Fsas), parallel.Limit(len(a.Fsas)), func(i int) {
		f := a.Fsas[i]
		for s := range f.States {
			for j, arc := range f.States[s].Arcs {
				w := a.AlignmentModel[arc.ILabel]
				if a.cfg.PenalizeEM {
					w += a.Penalties[arc.ILabel]
				}
				f.States[s].Arcs[j].Weight = w
			}
		}

		alpha, beta, err := fst.ForwardBackward(f)
		if err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = err
			}
			mu.Unlock()
			return
		}
		final := fst.FinalCost(f, alpha)
		totals[i] = final
		if math.IsInf(final, 1) {
			return // empty alignment: no posterior mass to distribute
		}

		byLabel := make(map[int][]float64)
		for s := range f.States {
			for _, arc := range f.States[s].Arcs {
				posterior := alpha[s] + arc.Weight + beta[arc.NextState] - final
				byLabel[arc.ILabel] = append(byLabel[arc.ILabel], posterior)
			}
		}
		locals[i] = foldByLabel(byLabel)
	})
	if firstErr != nil {
		return firstErr
	}

	perLabel := make(map[int][]float64)
	for _, local := range locals {
		for l, v := range local {
			perLabel[l] = append(perLabel[l], v)
		}
	}
	a.expected = foldByLabel(perLabel)
	a.Total = semiring.LogAddSlice(totals)
	return nil
}

// Maximization normalizes the accumulated expected counts into the next
// alignment_model iterate, optionally computing penalties when last is
// true, and returns the convergence delta Σ|new-prev|.
func (a *Aligner) Maximization(last bool) float64 {
	return a.normalize(last)
}

// normalize computes new_model[l] = expected[l] - normalizer, where the
// normalizer is logAdd over all accumulated expected counts. This is kept
// distinct from the Total field: Total tracks Σ α(final) for monitoring
// training likelihood, while the M-step's normalizer must equal the
// logsumexp of the expected counts themselves so that
// log_sum_exp(alignment_model.values()) == 0 after every M-step. See
// DESIGN.md for the rationale behind keeping the two separate.
func (a *Aligner) normalize(last bool) float64 {
	values := make([]float64, 0, len(a.expected))
	for _, v := range a.expected {
		values = append(values, v)
	}
	normalizer := semiring.LogAddSlice(values)

	newModel := make(map[int]float64, len(a.expected))
	for l, v := range a.expected {
		newModel[l] = v - normalizer
	}

	delta := 0.0
	for l, v := range newModel {
		delta += math.Abs(v - a.AlignmentModel[l])
	}
	for l, v := range a.AlignmentModel {
		if _, ok := newModel[l]; !ok {
			delta += math.Abs(v)
		}
	}

	if last && a.cfg.Penalize {
		a.Penalties = penalty.Compute(a.Isyms, a.cfg.Symbols, 1.0)
	}

	a.PrevAlignmentModel = a.AlignmentModel
	a.AlignmentModel = newModel
	a.expected = make(map[int]float64)
	return delta
}

// Train runs the full training loop: seed, then iter rounds of
// expectation/maximization(false), then a final
// expectation/maximization(true) to compute penalties. Stops early once the
// M-step delta drops below thresh.
func (a *Aligner) Train(iter int, thresh float64) error {
	a.Seed()
	for i := 0; i < iter; i++ {
		if err := a.Expectation(); err != nil {
			return err
		}
		delta := a.Maximization(false)
		if delta < thresh {
			break
		}
	}
	if err := a.Expectation(); err != nil {
		return err
	}
	a.Maximization(true)
	return nil
}
