package fst

import "github.com/neurlang/g2pfst/internal/semiring"

// ForwardBackward computes the semiring shortest-distance from the start
// state (alpha) and from every state to any final state (beta), generic
// over f.Semiring: tropical Plus=min gives shortest-path distances (used
// by the pruner), log Plus=log-sum-exp gives the standard forward/backward
// probabilities the EM E-step needs.
//
// f must be acyclic; returns CyclicLatticeError otherwise.
func ForwardBackward(f *Fst) (alpha, beta []float64, err error) {
	n := f.NumStates()
	sr := f.Semiring
	alpha = make([]float64, n)
	beta = make([]float64, n)
	for i := 0; i < n; i++ {
		alpha[i] = sr.Zero()
		beta[i] = sr.Zero()
	}
	if f.Empty() {
		return alpha, beta, nil
	}

	order, terr := topologicalOrder(f)
	if terr != nil {
		return nil, nil, terr
	}

	// incoming[d] lists every (source, weight) pair landing on d, gathered
	// once so alpha can be computed pull-style: every incoming contribution
	// to a state is folded in a single batched call instead of one sr.Plus
	// per arc as sources are visited.
	type incomingArc struct {
		src    int
		weight float64
	}
	incoming := make([][]incomingArc, n)
	for s := range f.States {
		for _, a := range f.States[s].Arcs {
			incoming[a.NextState] = append(incoming[a.NextState], incomingArc{src: s, weight: a.Weight})
		}
	}

	alpha[f.Start] = sr.One()
	for _, d := range order {
		ins := incoming[d]
		if len(ins) == 0 {
			continue
		}
		contribs := make([]float64, 0, len(ins)+1)
		contribs = append(contribs, alpha[d])
		for _, in := range ins {
			contribs = append(contribs, sr.Times(alpha[in.src], in.weight))
		}
		alpha[d] = fold(sr, contribs)
	}

	for s := 0; s < n; s++ {
		if f.IsFinal(s) {
			beta[s] = f.States[s].Final
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		s := order[i]
		arcs := f.States[s].Arcs
		if len(arcs) == 0 {
			continue
		}
		contribs := make([]float64, 0, len(arcs)+1)
		contribs = append(contribs, beta[s])
		for _, a := range arcs {
			contribs = append(contribs, sr.Times(a.Weight, beta[a.NextState]))
		}
		beta[s] = fold(sr, contribs)
	}

	return alpha, beta, nil
}

// fold reduces values with sr.Plus. In the log semiring it routes through
// semiring.LogAddSlice, the batched (AVX2-dispatched on amd64) kernel,
// instead of chaining single-pair Plus calls.
func fold(sr semiring.Semiring, values []float64) float64 {
	if _, ok := sr.(semiring.Log); ok {
		return semiring.LogAddSlice(values)
	}
	acc := sr.Zero()
	for _, v := range values {
		acc = sr.Plus(acc, v)
	}
	return acc
}

// FinalCost returns the semiring-total cost of all accepting paths:
// alpha(final), combined over every final state via Plus.
func FinalCost(f *Fst, alpha []float64) float64 {
	sr := f.Semiring
	total := sr.Zero()
	for s := range f.States {
		if f.IsFinal(s) {
			total = sr.Plus(total, sr.Times(alpha[s], f.States[s].Final))
		}
	}
	return total
}
