package far

import (
	"bytes"
	"io"
	"testing"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/semiring"
)

func smallFst() *fst.Fst {
	f := fst.New(semiring.Tropical{})
	s0 := f.AddState()
	s1 := f.AddState()
	f.SetStart(s0)
	f.AddArc(s0, fst.Arc{ILabel: 1, OLabel: 1, Weight: 2, NextState: s1})
	f.SetFinal(s1, 0)
	return f
}

func TestWriteReadRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	key1, err := w.Add(smallFst())
	if err != nil {
		t.Fatal(err)
	}
	if key1 != "0000001" {
		t.Errorf("first key = %q, want 0000001", key1)
	}
	key2, err := w.Add(smallFst())
	if err != nil {
		t.Fatal(err)
	}
	if key2 != "0000002" {
		t.Errorf("second key = %q, want 0000002", key2)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if r.Header.Count != 2 {
		t.Errorf("header count = %d, want 2", r.Header.Count)
	}

	var keys []string
	for {
		k, f, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if f.Semiring.Name() != "tropical" {
			t.Errorf("round-tripped semiring = %q, want tropical", f.Semiring.Name())
		}
		keys = append(keys, k)
	}
	if len(keys) != 2 {
		t.Fatalf("read %d entries, want 2", len(keys))
	}
}
