package fst

import "sort"

// ShortestPath extracts the n best-cost distinct paths of an acyclic Fst
// and returns them as a new Fst: one linear chain per accepted path, all
// branching from a shared start state and each ending in the original
// path's final weight, so downstream RmEpsilon + path enumeration recovers
// them unchanged. This is a bounded k-shortest-paths DP over a topological order
// rather than OpenFST's generic shortest-distance algorithm, since every
// lattice this module builds is already acyclic by construction.
//
// Returns a CyclicLatticeError if the graph isn't acyclic; the caller is
// expected to only ever hand ShortestPath an acyclic lattice.
func ShortestPath(f *Fst, n int) (*Fst, error) {
	out := New(f.Semiring)
	if f.Empty() || n <= 0 {
		return out, nil
	}

	order, err := topologicalOrder(f)
	if err != nil {
		return nil, err
	}

	sr := f.Semiring

	best := make([][]pathCandidate, len(f.States))
	best[f.Start] = []pathCandidate{{cost: sr.One()}}

	for _, s := range order {
		if len(best[s]) == 0 {
			continue
		}
		for _, a := range f.States[s].Arcs {
			for _, p := range best[s] {
				np := pathCandidate{
					cost: sr.Times(p.cost, a.Weight),
					arcs: appendArc(p.arcs, a),
				}
				best[a.NextState] = insertBounded(best[a.NextState], np, n)
			}
		}
	}

	var finalists []pathCandidate
	for s := range f.States {
		if !f.IsFinal(s) {
			continue
		}
		for _, p := range best[s] {
			finalists = append(finalists, pathCandidate{
				cost: sr.Times(p.cost, f.States[s].Final),
				arcs: p.arcs,
			})
		}
	}
	sort.Slice(finalists, func(i, j int) bool { return finalists[i].cost < finalists[j].cost })
	if len(finalists) > n {
		finalists = finalists[:n]
	}

	if len(finalists) > 0 {
		out.SetStart(out.AddState())
	}
	for _, p := range finalists {
		cur := out.Start
		end := f.Start
		for _, a := range p.arcs {
			next := out.AddState()
			out.AddArc(cur, Arc{ILabel: a.ILabel, OLabel: a.OLabel, Weight: a.Weight, NextState: next})
			cur = next
			end = a.NextState
		}
		out.SetFinal(cur, f.States[end].Final)
	}
	return out, nil
}

// pathCandidate is a partial path's accumulated cost and the arc sequence
// taken to reach it.
type pathCandidate struct {
	cost float64
	arcs []Arc
}

func appendArc(arcs []Arc, a Arc) []Arc {
	next := make([]Arc, len(arcs)+1)
	copy(next, arcs)
	next[len(arcs)] = a
	return next
}

// insertBounded inserts p into the sorted-by-cost list xs, keeping at most
// limit entries: the per-state beam of the k-shortest-paths DP.
func insertBounded(xs []pathCandidate, p pathCandidate, limit int) []pathCandidate {
	i := sort.Search(len(xs), func(i int) bool { return xs[i].cost >= p.cost })
	xs = append(xs, p)
	copy(xs[i+1:], xs[i:len(xs)-1])
	xs[i] = p
	if len(xs) > limit {
		xs = xs[:limit]
	}
	return xs
}

// CyclicLatticeError is returned when an operation that assumes an acyclic lattice
// (ShortestPath, the path enumerator) detects a cycle.
type CyclicLatticeError struct{}

func (CyclicLatticeError) Error() string { return "cyclic lattice" }

// topologicalOrder returns states in a valid topological order via Kahn's
// algorithm, or a CyclicLatticeError if the graph has a cycle.
func topologicalOrder(f *Fst) ([]int, error) {
	n := len(f.States)
	indeg := make([]int, n)
	for _, s := range f.States {
		for _, a := range s.Arcs {
			indeg[a.NextState]++
		}
	}
	var queue []int
	for s := 0; s < n; s++ {
		if indeg[s] == 0 {
			queue = append(queue, s)
		}
	}
	order := make([]int, 0, n)
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		order = append(order, s)
		for _, a := range f.States[s].Arcs {
			indeg[a.NextState]--
			if indeg[a.NextState] == 0 {
				queue = append(queue, a.NextState)
			}
		}
	}
	if len(order) != n {
		return nil, CyclicLatticeError{}
	}
	return order, nil
}
