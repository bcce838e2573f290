package fst

import (
	"math"
	"testing"

	"github.com/neurlang/g2pfst/internal/semiring"
)

func linearChain(weights []float64, sr semiring.Semiring) *Fst {
	f := New(sr)
	s := f.AddState()
	f.SetStart(s)
	for _, w := range weights {
		next := f.AddState()
		f.AddArc(s, Arc{ILabel: 1, OLabel: 1, Weight: w, NextState: next})
		s = next
	}
	f.SetFinal(s, sr.One())
	return f
}

func TestConnectTrimsDeadStates(t *testing.T) {
	f := New(semiring.Tropical{})
	s0 := f.AddState()
	s1 := f.AddState()
	dead := f.AddState()
	_ = dead
	f.SetStart(s0)
	f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Weight: 0, NextState: s1})
	f.SetFinal(s1, 0)

	c := Connect(f)
	if c.NumStates() != 2 {
		t.Fatalf("Connect left %d states, want 2", c.NumStates())
	}
}

func TestConnectEmptyWhenDisconnected(t *testing.T) {
	f := New(semiring.Tropical{})
	s0 := f.AddState()
	f.AddState() // unreachable, never made final
	f.SetStart(s0)

	c := Connect(f)
	if !c.Empty() {
		t.Errorf("Connect of a lattice with no final state should be empty")
	}
}

func TestRmEpsilonMergesParallelEpsilonPaths(t *testing.T) {
	f := New(semiring.Log{})
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc{ILabel: epsilonID, OLabel: epsilonID, Weight: 1, NextState: s1})
	f.AddArc(s0, Arc{ILabel: epsilonID, OLabel: epsilonID, Weight: 2, NextState: s1})
	f.AddArc(s1, Arc{ILabel: 5, OLabel: 5, Weight: 0, NextState: s2})
	f.SetFinal(s2, f.Semiring.One())

	out := RmEpsilon(f)
	if out.NumStates() != 2 {
		t.Fatalf("RmEpsilon produced %d states, want 2", out.NumStates())
	}
	arcs := out.States[out.Start].Arcs
	if len(arcs) != 1 {
		t.Fatalf("RmEpsilon produced %d outgoing arcs, want 1 merged arc", len(arcs))
	}
	want := semiring.LogAdd(1, 2)
	if math.Abs(arcs[0].Weight-want) > 1e-12 {
		t.Errorf("merged epsilon weight = %v, want %v", arcs[0].Weight, want)
	}
}

func TestComposeMatchesSharedLabels(t *testing.T) {
	a := New(semiring.Tropical{})
	as0 := a.AddState()
	as1 := a.AddState()
	a.SetStart(as0)
	a.AddArc(as0, Arc{ILabel: 1, OLabel: 2, Weight: 1, NextState: as1})
	a.SetFinal(as1, 0)

	b := New(semiring.Tropical{})
	bs0 := b.AddState()
	bs1 := b.AddState()
	b.SetStart(bs0)
	b.AddArc(bs0, Arc{ILabel: 2, OLabel: 3, Weight: 4, NextState: bs1})
	b.SetFinal(bs1, 0)

	c := Compose(a, b)
	if c.Empty() {
		t.Fatal("compose of matching-label FSTs should not be empty")
	}
	if c.States[c.Start].Arcs[0].OLabel != 3 {
		t.Errorf("composed output label = %d, want 3", c.States[c.Start].Arcs[0].OLabel)
	}
	if c.States[c.Start].Arcs[0].Weight != 5 {
		t.Errorf("composed weight = %v, want 5", c.States[c.Start].Arcs[0].Weight)
	}
}

func TestShortestPathOrdersByCost(t *testing.T) {
	f := New(semiring.Tropical{})
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Weight: 5, NextState: s1})
	f.AddArc(s0, Arc{ILabel: 2, OLabel: 2, Weight: 1, NextState: s2})
	f.SetFinal(s1, 0)
	f.SetFinal(s2, 0)

	out, err := ShortestPath(f, 1)
	if err != nil {
		t.Fatal(err)
	}
	if out.NumStates() != 2 {
		t.Fatalf("ShortestPath(1) kept %d states, want one 2-state chain", out.NumStates())
	}
	if out.States[out.Start].Arcs[0].OLabel != 2 {
		t.Errorf("ShortestPath(1) picked the wrong arc: %+v", out.States[out.Start].Arcs[0])
	}
}

func TestShortestPathDetectsCycle(t *testing.T) {
	f := New(semiring.Tropical{})
	s0 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, Arc{ILabel: 1, OLabel: 1, Weight: 0, NextState: s0})
	f.SetFinal(s0, 0)

	if _, err := ShortestPath(f, 1); err == nil {
		t.Error("expected CyclicLatticeError for a self-looping lattice")
	} else if _, ok := err.(CyclicLatticeError); !ok {
		t.Errorf("got %T, want CyclicLatticeError", err)
	}
}

func TestForwardBackwardFinalCostMatchesTropicalShortestDistance(t *testing.T) {
	f := linearChain([]float64{2, 3, 4}, semiring.Tropical{})
	alpha, _, err := ForwardBackward(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := FinalCost(f, alpha); got != 9 {
		t.Errorf("FinalCost = %v, want 9", got)
	}
}

func TestPushMakesBetaOneEverywhere(t *testing.T) {
	f := linearChain([]float64{1, 2, 3}, semiring.Log{})
	pushed, err := Push(f)
	if err != nil {
		t.Fatal(err)
	}
	_, beta, err := ForwardBackward(pushed)
	if err != nil {
		t.Fatal(err)
	}
	for s, b := range beta {
		if math.IsInf(b, 1) {
			continue
		}
		if math.Abs(b) > 1e-9 {
			t.Errorf("state %d: beta after Push = %v, want ~0", s, b)
		}
	}
}
