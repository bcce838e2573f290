package penalty

import (
	"bytes"
	"testing"

	"github.com/neurlang/g2pfst/internal/symtab"
)

func TestComputeZeroForOneToOneSymbols(t *testing.T) {
	cfg := symtab.DefaultConfig()
	tab := symtab.New(cfg)
	id := tab.Find("a}x")

	table := Compute(tab, cfg, 1.0)
	if table[id] != 0 {
		t.Errorf("penalty for a 1:1 symbol = %v, want 0", table[id])
	}
}

func TestComputeScalesWithLength(t *testing.T) {
	cfg := symtab.DefaultConfig()
	tab := symtab.New(cfg)
	id := tab.Find("a|b}x")

	table := Compute(tab, cfg, 2.0)
	if table[id] != 2.0 {
		t.Errorf("penalty for a 2:1 symbol with alpha=2 = %v, want 2.0", table[id])
	}
}

func TestComputeZeroForDistinguishedSymbols(t *testing.T) {
	cfg := symtab.DefaultConfig()
	tab := symtab.New(cfg)
	id := tab.Find(cfg.Eps)

	table := Compute(tab, cfg, 5.0)
	if table[id] != 0 {
		t.Errorf("penalty for eps = %v, want 0", table[id])
	}
}

func TestEncodeQuantizedEmptyTable(t *testing.T) {
	sets, levels := EncodeQuantized(Table{})
	if sets != nil || levels != nil {
		t.Error("EncodeQuantized of an empty table should return nil, nil")
	}
}

func TestEncodeQuantizedNonEmpty(t *testing.T) {
	table := Table{1: 1.0, 2: 2.0, 3: 4.0}
	sets, levels := EncodeQuantized(table)
	if len(levels) != quantLevels {
		t.Fatalf("levelValue has %d entries, want %d", len(levels), quantLevels)
	}
	anyNonNil := false
	for _, s := range sets {
		if s != nil {
			anyNonNil = true
		}
	}
	if !anyNonNil {
		t.Error("expected at least one non-empty quantized level")
	}
}

func TestSaveQuantizedWritesNonEmptyStream(t *testing.T) {
	table := Table{1: 1.0, 2: 2.0, 3: 4.0}
	var buf bytes.Buffer
	if err := SaveQuantized(&buf, table); err != nil {
		t.Fatal(err)
	}
	if buf.Len() == 0 {
		t.Error("SaveQuantized wrote no bytes")
	}
}
