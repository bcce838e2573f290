// Package decoder implements Phonetisaurus: the G2P decoder that composes
// an input token FSA (with cluster arcs) against a trained joint model and
// extracts n-best phonemic hypotheses.
package decoder

import (
	"io"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/pathfinder"
	"github.com/neurlang/g2pfst/internal/symtab"
)

// Over-generation constants for n-best shortest-path extraction: the
// original decoder always asks for 500 paths; this implementation scales
// it as max(nbest*K, NMin) instead.
const (
	overgenerateK    = 50
	overgenerateNMin = 100
)

// Decoder holds the loaded joint model, its symbol table and the cluster
// map built from it, all read-only once constructed.
type Decoder struct {
	model    *Model
	clusters []symtab.Cluster
	skipIDs  map[int]struct{}
}

// New loads a joint model WFST from r, arc-sorts it, and builds the
// cluster map and skip set.
func New(r io.Reader) (*Decoder, error) {
	model, err := LoadModel(r)
	if err != nil {
		return nil, err
	}
	model.Fst.ArcSort()
	return &Decoder{
		model:    model,
		clusters: model.Isyms.Clusters(),
		skipIDs:  model.Isyms.SkipIDs(),
	}, nil
}

// Isyms exposes the decoder's symbol table, e.g. so a caller can validate
// input tokens before calling Phoneticize.
func (d *Decoder) Isyms() *symtab.Table { return d.model.Isyms }

// UnknownInputSymbolError reports a decode-time token absent from isyms.
type UnknownInputSymbolError struct{ Token string }

func (e *UnknownInputSymbolError) Error() string {
	return errors.Errorf("unknown input symbol %q", e.Token).Error()
}

// EntryToFSA builds the input FSA for tokens: states 0..len(tokens)+2,
// sentence markers at the ends, one arc per token, plus one arc per
// contiguous occurrence of every known cluster.
func (d *Decoder) EntryToFSA(tokens []string) (*fst.Fst, error) {
	cfg := d.model.Isyms.Config()
	sbID, ok := d.model.Isyms.FindExisting(cfg.Sb)
	if !ok {
		return nil, errors.New("model symbol table missing sentence-begin symbol")
	}
	seID, ok := d.model.Isyms.FindExisting(cfg.Se)
	if !ok {
		return nil, errors.New("model symbol table missing sentence-end symbol")
	}

	n := len(tokens)
	f := fst.New(d.model.Fst.Semiring)
	for s := 0; s <= n+2; s++ {
		f.AddState()
	}
	f.SetStart(0)
	f.SetFinal(n+2, f.Semiring.One())

	f.AddArc(0, fst.Arc{ILabel: sbID, OLabel: sbID, Weight: f.Semiring.One(), NextState: 1})
	for i := 0; i < n; i++ {
		id, ok := d.model.Isyms.FindExisting(tokens[i])
		if !ok {
			return nil, &UnknownInputSymbolError{Token: tokens[i]}
		}
		f.AddArc(i+1, fst.Arc{ILabel: id, OLabel: id, Weight: f.Semiring.One(), NextState: i + 2})
	}
	f.AddArc(n+1, fst.Arc{ILabel: seID, OLabel: seID, Weight: f.Semiring.One(), NextState: n + 2})

	for _, c := range d.clusters {
		m := len(c.Tokens)
		if m == 0 || m > n {
			continue
		}
		for p := 0; p+m <= n; p++ {
			if matches(tokens[p:p+m], c.Tokens) {
				f.AddArc(p+1, fst.Arc{ILabel: c.ID, OLabel: c.ID, Weight: f.Semiring.One(), NextState: p + 1 + m})
			}
		}
	}

	return f, nil
}

func matches(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Pronunciation is one ranked decode result: its cost and rendered string.
type Pronunciation struct {
	Cost float64
	Text string
}

// Phoneticize runs the decode pipeline: build the input FSA, compose with
// the model, project to output labels, extract n-best shortest paths,
// remove epsilons, enumerate paths, and return up to nbest unique
// renderings in ascending cost order.
func (d *Decoder) Phoneticize(tokens []string, nbest int) ([]Pronunciation, error) {
	fsa, err := d.EntryToFSA(tokens)
	if err != nil {
		return nil, err
	}

	composed := fst.Compose(fsa, d.model.Fst)
	composed.Project(fst.ProjectOutput)

	if composed.Empty() {
		return nil, nil
	}

	n := 1
	if nbest > 1 {
		n = nbest * overgenerateK
		if n < overgenerateNMin {
			n = overgenerateNMin
		}
	}
	shortest, err := fst.ShortestPath(composed, n)
	if err != nil {
		return nil, err
	}
	shortest = fst.RmEpsilon(shortest)

	finder := pathfinder.New(d.model.Isyms, d.skipIDs)
	paths, err := finder.FindAllStrings(shortest)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(paths, func(i, j int) bool { return paths[i].Cost < paths[j].Cost })

	cfg := d.model.Isyms.Config()
	var out []Pronunciation
	seen := make(map[string]struct{})
	for _, p := range paths {
		text := render(p.Tokens, cfg.Tie)
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		out = append(out, Pronunciation{Cost: p.Cost, Text: text})
		if len(out) == nbest {
			break
		}
	}
	return out, nil
}

// render replaces the tie character with a space within each token, then
// joins tokens with spaces.
func render(tokens []string, tie string) string {
	rendered := make([]string, len(tokens))
	for i, t := range tokens {
		rendered[i] = strings.ReplaceAll(t, tie, " ")
	}
	return strings.Join(rendered, " ")
}
