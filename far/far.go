// Package far implements a FAR (finite-state archive) writer and reader:
// a keyed container of serialized WFSTs, keyed by zero-padded decimal index
// starting at 1 with width 7 (`generate_keys=7` in the original C++ source).
//
// No off-the-shelf FAR archive library exists to depend on, so it is
// implemented here in-module, the same way internal/fst stands in for the
// WFST library proper. See DESIGN.md.
package far

import (
	"encoding/gob"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/semiring"
)

const keyWidth = 7

// Header stamps a run id into every archive, so repeated training runs
// against the same ofile path are distinguishable after the fact.
type Header struct {
	RunID uuid.UUID
	Count int
}

// record is the on-disk encoding of one archive entry.
type record struct {
	Key      string
	Semiring string
	Start    int
	States   []fst.State
}

// Writer buffers Fsts under successive zero-padded keys and writes the
// archive on Close, once the final entry count is known. The header must
// precede every record in the stream, and Count isn't known until the
// caller stops calling Add, so nothing reaches w until Close.
type Writer struct {
	w       io.Writer
	header  Header
	records []record
	next    int
}

// NewWriter stamps a fresh run id for a new archive. Nothing is written to
// w until Close.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, header: Header{RunID: uuid.New()}, next: 1}
}

// Add buffers f under the next zero-padded key and returns the key used.
func (w *Writer) Add(f *fst.Fst) (string, error) {
	key := fmt.Sprintf("%0*d", keyWidth, w.next)
	w.next++
	w.records = append(w.records, record{Key: key, Semiring: f.Semiring.Name(), Start: f.Start, States: f.States})
	return key, nil
}

// RunID returns the archive's stamped run identifier.
func (w *Writer) RunID() uuid.UUID { return w.header.RunID }

// Close writes the header, with its final Count, followed by every
// buffered record in Add order. The Writer must not be used afterward.
func (w *Writer) Close() error {
	w.header.Count = len(w.records)
	enc := gob.NewEncoder(w.w)
	if err := enc.Encode(w.header); err != nil {
		return errors.Wrap(err, "write far header")
	}
	for _, rec := range w.records {
		if err := enc.Encode(rec); err != nil {
			return errors.Wrapf(err, "write far entry %s", rec.Key)
		}
	}
	return nil
}

// Reader iterates the (key, Fst) entries of an archive in write order.
type Reader struct {
	dec    *gob.Decoder
	Header Header
}

// NewReader reads the archive header and returns a Reader positioned at the
// first entry.
func NewReader(r io.Reader) (*Reader, error) {
	dec := gob.NewDecoder(r)
	rd := &Reader{dec: dec}
	if err := dec.Decode(&rd.Header); err != nil {
		return nil, errors.Wrap(err, "read far header")
	}
	return rd, nil
}

// Next returns the next (key, Fst) pair, or io.EOF when the archive is
// exhausted.
func (r *Reader) Next() (string, *fst.Fst, error) {
	var rec record
	if err := r.dec.Decode(&rec); err != nil {
		if err == io.EOF {
			return "", nil, io.EOF
		}
		return "", nil, errors.Wrap(err, "read far entry")
	}
	sr, err := semiringByName(rec.Semiring)
	if err != nil {
		return "", nil, err
	}
	f := &fst.Fst{Semiring: sr, Start: rec.Start, States: rec.States}
	return rec.Key, f, nil
}

func semiringByName(name string) (semiring.Semiring, error) {
	switch name {
	case "log":
		return semiring.Log{}, nil
	case "tropical":
		return semiring.Tropical{}, nil
	default:
		return nil, errors.Errorf("unknown semiring %q in far entry", name)
	}
}
