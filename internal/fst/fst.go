// Package fst implements a minimal weighted finite-state transducer: states
// and arcs, composition, shortest-path, projection, epsilon removal and
// arc-sort, and the semiring mapper between the log and tropical weight
// algebras.
//
// No general-purpose OpenFST-equivalent library exists to depend on, so
// this package is the in-module stand-in for it; see DESIGN.md for the
// grounding of each operation.
package fst

import (
	"sort"

	"github.com/neurlang/g2pfst/internal/semiring"
)

// Arc is a weighted transition. ILabel and OLabel are symbol ids; for every
// arc built by this module they are equal, since the joint alignment
// symbols serve as both input and output labels (projection is a no-op).
type Arc struct {
	ILabel, OLabel int
	Weight         float64
	NextState      int
}

// State holds its outgoing arcs and final weight. A non-final state's Final
// is the semiring's Zero.
type State struct {
	Arcs  []Arc
	Final float64
}

// Fst is a weighted automaton over a fixed Semiring. States are referenced
// by dense index; Start is the index of the start state, or -1 if empty.
type Fst struct {
	Semiring semiring.Semiring
	States   []State
	Start    int
}

// New creates an empty Fst over sr with no states.
func New(sr semiring.Semiring) *Fst {
	return &Fst{Semiring: sr, Start: -1}
}

// AddState appends a non-final state and returns its index.
func (f *Fst) AddState() int {
	f.States = append(f.States, State{Final: f.Semiring.Zero()})
	return len(f.States) - 1
}

// SetStart sets the start state.
func (f *Fst) SetStart(s int) { f.Start = s }

// SetFinal sets state s's final weight.
func (f *Fst) SetFinal(s int, w float64) { f.States[s].Final = w }

// IsFinal reports whether s carries a non-Zero final weight.
func (f *Fst) IsFinal(s int) bool { return f.States[s].Final != f.Semiring.Zero() }

// AddArc appends an arc leaving state s.
func (f *Fst) AddArc(s int, a Arc) {
	f.States[s].Arcs = append(f.States[s].Arcs, a)
}

// NumStates returns the number of states.
func (f *Fst) NumStates() int { return len(f.States) }

// Empty reports whether the Fst has no start state or no states at all.
func (f *Fst) Empty() bool { return f.Start < 0 || len(f.States) == 0 }

// ArcSort sorts each state's outgoing arcs by input label. Compose does not
// depend on it: it compares every pair of outgoing arcs.
func (f *Fst) ArcSort() {
	for i := range f.States {
		arcs := f.States[i].Arcs
		sort.Slice(arcs, func(a, b int) bool { return arcs[a].ILabel < arcs[b].ILabel })
	}
}

// Project replaces every arc's input label with its output label (or vice
// versa), matching OpenFST's Project(PROJECT_OUTPUT/PROJECT_INPUT). Since
// every arc in this module already carries ILabel == OLabel, Project is
// informational here; it is kept because the decode pipeline names the step
// explicitly.
type ProjectType int

const (
	ProjectInput ProjectType = iota
	ProjectOutput
)

func (f *Fst) Project(which ProjectType) {
	for i := range f.States {
		for j, a := range f.States[i].Arcs {
			if which == ProjectOutput {
				f.States[i].Arcs[j].ILabel = a.OLabel
			} else {
				f.States[i].Arcs[j].OLabel = a.ILabel
			}
		}
	}
}

// Map converts f to an equivalent Fst over a different semiring. The
// original C++ LogToStdMapper/StdToLogMapper reinterpret the same float
// weight under a different ⊕; no arithmetic is performed here either.
func Map(f *Fst, sr semiring.Semiring) *Fst {
	out := &Fst{Semiring: sr, Start: f.Start}
	out.States = make([]State, len(f.States))
	for i, s := range f.States {
		out.States[i] = State{Final: s.Final, Arcs: append([]Arc(nil), s.Arcs...)}
	}
	return out
}

// Clone deep-copies f.
func Clone(f *Fst) *Fst {
	return Map(f, f.Semiring)
}

// connect removes states unreachable from Start or unable to reach any
// final state, and reindexes the survivors contiguously starting at 0.
// Returns a new empty Fst when nothing survives, per the "pruning an
// empty or disconnected lattice yields an empty lattice" contract.
func connect(f *Fst) *Fst {
	n := len(f.States)
	if f.Empty() {
		return &Fst{Semiring: f.Semiring, Start: -1}
	}

	reachable := make([]bool, n)
	var stack []int
	reachable[f.Start] = true
	stack = append(stack, f.Start)
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, a := range f.States[s].Arcs {
			if !reachable[a.NextState] {
				reachable[a.NextState] = true
				stack = append(stack, a.NextState)
			}
		}
	}

	coreach := make([]bool, n)
	adj := make([][]int, n) // reverse adjacency, filled in the loop below
	for s := 0; s < n; s++ {
		for _, a := range f.States[s].Arcs {
			adj[a.NextState] = append(adj[a.NextState], s)
		}
		if f.IsFinal(s) {
			coreach[s] = true
			stack = append(stack, s)
		}
	}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, p := range adj[s] {
			if !coreach[p] {
				coreach[p] = true
				stack = append(stack, p)
			}
		}
	}

	keep := make([]bool, n)
	newIndex := make([]int, n)
	for s := 0; s < n; s++ {
		keep[s] = reachable[s] && coreach[s]
	}
	if f.Start < 0 || !keep[f.Start] {
		return &Fst{Semiring: f.Semiring, Start: -1}
	}

	out := &Fst{Semiring: f.Semiring}
	for s := 0; s < n; s++ {
		if keep[s] {
			newIndex[s] = len(out.States)
			out.States = append(out.States, State{Final: f.States[s].Final})
		}
	}
	for s := 0; s < n; s++ {
		if !keep[s] {
			continue
		}
		ni := newIndex[s]
		for _, a := range f.States[s].Arcs {
			if keep[a.NextState] {
				out.States[ni].Arcs = append(out.States[ni].Arcs, Arc{
					ILabel: a.ILabel, OLabel: a.OLabel, Weight: a.Weight,
					NextState: newIndex[a.NextState],
				})
			}
		}
	}
	out.Start = newIndex[f.Start]
	return out
}

// Connect trims unreachable/dead states and reindexes the result,
// exported for callers (the pruner) that need it directly.
func Connect(f *Fst) *Fst { return connect(f) }
