package pathfinder

import (
	"testing"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/semiring"
	"github.com/neurlang/g2pfst/internal/symtab"
)

func TestFindAllStringsOneEntryPerPath(t *testing.T) {
	isyms := symtab.New(symtab.DefaultConfig())
	idA := isyms.Find("a}a")
	idB := isyms.Find("b}b")
	idSkip := isyms.Find(isyms.Config().Skip)

	f := fst.New(semiring.Tropical{})
	s0 := f.AddState()
	s1 := f.AddState()
	s2 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fst.Arc{ILabel: idA, OLabel: idA, Weight: 1, NextState: s1})
	f.AddArc(s0, fst.Arc{ILabel: idSkip, OLabel: idSkip, Weight: 1, NextState: s1})
	f.AddArc(s1, fst.Arc{ILabel: idB, OLabel: idB, Weight: 2, NextState: s2})
	f.SetFinal(s2, 0)

	finder := New(isyms, isyms.SkipIDs())
	paths, err := finder.FindAllStrings(f)
	if err != nil {
		t.Fatal(err)
	}
	if len(paths) != 2 {
		t.Fatalf("got %d paths, want 2", len(paths))
	}
	for _, p := range paths {
		for _, tok := range p.Tokens {
			if tok == isyms.Config().Skip {
				t.Errorf("skip symbol leaked into rendered tokens: %v", p.Tokens)
			}
		}
	}
}

func TestFindAllStringsDetectsCycle(t *testing.T) {
	isyms := symtab.New(symtab.DefaultConfig())
	id := isyms.Find("a}a")

	f := fst.New(semiring.Tropical{})
	s0 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fst.Arc{ILabel: id, OLabel: id, Weight: 0, NextState: s0})
	f.SetFinal(s0, 0)

	finder := New(isyms, isyms.SkipIDs())
	if _, err := finder.FindAllStrings(f); err == nil {
		t.Error("expected CyclicLatticeError")
	}
}
