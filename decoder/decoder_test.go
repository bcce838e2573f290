package decoder

import (
	"bytes"
	"testing"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/semiring"
	"github.com/neurlang/g2pfst/internal/symtab"
)

// buildTestModel constructs a tiny joint model: isyms with a two-token
// cluster "t|h" plus single-token symbols, and a model FST that accepts
// <s> t h e </s> (or <s> (t|h) e </s> through the cluster arc) and emits a
// single pronunciation.
func buildTestModel(t *testing.T) (*Decoder, *symtab.Table) {
	t.Helper()
	cfg := symtab.DefaultConfig()
	isyms := symtab.New(cfg)

	sb := isyms.Find(cfg.Sb)
	se := isyms.Find(cfg.Se)
	tID := isyms.Find("t")
	hID := isyms.Find("h")
	eID := isyms.Find("e")
	clusterID := isyms.Find("t|h")

	m := fst.New(semiring.Tropical{})
	s0 := m.AddState()
	s1 := m.AddState()
	s2 := m.AddState()
	s3 := m.AddState()
	s4 := m.AddState()
	m.SetStart(s0)
	m.AddArc(s0, fst.Arc{ILabel: sb, OLabel: sb, Weight: 0, NextState: s1})
	m.AddArc(s1, fst.Arc{ILabel: tID, OLabel: tID, Weight: 1, NextState: s2})
	m.AddArc(s1, fst.Arc{ILabel: clusterID, OLabel: clusterID, Weight: 1, NextState: s2})
	m.AddArc(s2, fst.Arc{ILabel: hID, OLabel: hID, Weight: 1, NextState: s2})
	m.AddArc(s2, fst.Arc{ILabel: eID, OLabel: eID, Weight: 1, NextState: s3})
	m.AddArc(s3, fst.Arc{ILabel: se, OLabel: se, Weight: 0, NextState: s4})
	m.SetFinal(s4, 0)

	var buf bytes.Buffer
	if err := SaveModel(&buf, isyms, m); err != nil {
		t.Fatal(err)
	}
	d, err := New(&buf)
	if err != nil {
		t.Fatal(err)
	}
	return d, isyms
}

func TestEntryToFSAHasClusterArcPerOccurrence(t *testing.T) {
	d, _ := buildTestModel(t)
	f, err := d.EntryToFSA([]string{"t", "h", "e"})
	if err != nil {
		t.Fatal(err)
	}
	clusterID, _ := d.Isyms().FindExisting("t|h")
	count := 0
	for _, s := range f.States {
		for _, a := range s.Arcs {
			if a.ILabel == clusterID {
				count++
			}
		}
	}
	if count != 1 {
		t.Errorf("cluster t|h occurs once in [t h e], got %d arcs", count)
	}
}

func TestEntryToFSAUnknownSymbol(t *testing.T) {
	d, _ := buildTestModel(t)
	_, err := d.EntryToFSA([]string{"q"})
	if err == nil {
		t.Fatal("expected an error for an unknown input symbol")
	}
	if _, ok := err.(*UnknownInputSymbolError); !ok {
		t.Errorf("expected UnknownInputSymbolError, got %T", err)
	}
}

func TestPhoneticizeReturnsSoundPath(t *testing.T) {
	d, _ := buildTestModel(t)
	prons, err := d.Phoneticize([]string{"t", "h", "e"}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(prons) == 0 {
		t.Fatal("expected at least one pronunciation")
	}
	for _, p := range prons {
		if p.Text == "" {
			t.Error("pronunciation text should not be empty")
		}
	}
}
