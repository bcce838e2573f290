package decoder

import (
	"encoding/gob"
	"io"

	"github.com/pkg/errors"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/semiring"
	"github.com/neurlang/g2pfst/internal/symtab"
)

// Model is the joint n-gram model WFST plus its attached symbol table: a
// standard binary WFST with attached input/output symbol tables identical
// to isyms. The model is always read in the tropical semiring: decoding is
// shortest-path extraction, not EM.
type Model struct {
	Isyms *symtab.Table
	Fst   *fst.Fst
}

type modelRecord struct {
	Cfg     symtab.Config
	Symbols []string
	Start   int
	States  []fst.State
}

// SaveModel writes a trained joint model WFST, for the align CLI's
// write_model option.
func SaveModel(w io.Writer, isyms *symtab.Table, f *fst.Fst) error {
	cfg, symbols := isyms.Export()
	rec := modelRecord{Cfg: cfg, Symbols: symbols, Start: f.Start, States: f.States}
	if err := gob.NewEncoder(w).Encode(rec); err != nil {
		return errors.Wrap(err, "write model")
	}
	return nil
}

// LoadModel reads a joint model WFST previously written by SaveModel.
func LoadModel(r io.Reader) (*Model, error) {
	var rec modelRecord
	if err := gob.NewDecoder(r).Decode(&rec); err != nil {
		return nil, errors.Wrap(err, "read model")
	}
	isyms := symtab.Import(rec.Cfg, rec.Symbols)
	f := &fst.Fst{Semiring: semiring.Tropical{}, Start: rec.Start, States: rec.States}
	f.ArcSort()
	return &Model{Isyms: isyms, Fst: f}, nil
}
