// Package symtab implements the joint-subsequence symbol table and the
// distinguished-symbol configuration shared by the aligner and the decoder.
//
// The distinguished symbols (eps, sentence markers, skip, the tie and
// separator characters) are a configuration value object threaded through
// the aligner and decoder rather than process-global state, per the
// original source's design notes.
package symtab

import (
	"strings"

	"github.com/jbarham/primegen"
	"github.com/pkg/errors"
)

// Config holds the distinguished symbols and separators used to build and
// parse joint subsequence symbols of the form "X}Y".
type Config struct {
	Eps  string // epsilon, conventionally id 0
	Sb   string // sentence-begin <s>
	Se   string // sentence-end </s>
	Skip string // skip/deletion marker _
	Tie  string // cluster tie character |, used inside multi-token symbols a|b

	Seq1Sep string // joiner for multi-token symbols on side 1
	Seq2Sep string // joiner for multi-token symbols on side 2
	S1S2Sep string // joiner between side 1 and side 2, default "}"
}

// DefaultConfig returns the symbol table's default distinguished symbols.
func DefaultConfig() Config {
	return Config{
		Eps:     "<eps>",
		Sb:      "<s>",
		Se:      "</s>",
		Skip:    "_",
		Tie:     "|",
		Seq1Sep: "|",
		Seq2Sep: "|",
		S1S2Sep: "}",
	}
}

// SkipSet returns the set of symbols filtered from all user-visible output:
// {eps, sb, se, skip, "-"}.
func (c Config) SkipSet() map[string]struct{} {
	return map[string]struct{}{
		c.Eps:  {},
		c.Sb:   {},
		c.Se:   {},
		c.Skip: {},
		"-":    {},
	}
}

// JointSymbol renders a joint subsequence symbol "X}Y" from the side-1 and
// side-2 token subsequences. An empty subsequence on a side is rendered as
// the skip marker. At least one side must be non-empty.
func (c Config) JointSymbol(side1, side2 []string) (string, error) {
	if len(side1) == 0 && len(side2) == 0 {
		return "", errors.New("joint symbol requires a non-skip subsequence on at least one side")
	}
	left := c.Skip
	if len(side1) > 0 {
		left = strings.Join(side1, c.Seq1Sep)
	}
	right := c.Skip
	if len(side2) > 0 {
		right = strings.Join(side2, c.Seq2Sep)
	}
	return left + c.S1S2Sep + right, nil
}

// SplitJointSymbol parses "X}Y" back into its side-1 and side-2 token
// subsequences, returning nil for a skipped side. Round-trips with
// JointSymbol for any symbol it produced.
func (c Config) SplitJointSymbol(sym string) (side1, side2 []string, err error) {
	idx := strings.Index(sym, c.S1S2Sep)
	if idx < 0 {
		return nil, nil, errors.Errorf("not a joint symbol: %q", sym)
	}
	left, right := sym[:idx], sym[idx+len(c.S1S2Sep):]
	if left != c.Skip {
		side1 = strings.Split(left, c.Seq1Sep)
	}
	if right != c.Skip {
		side2 = strings.Split(right, c.Seq2Sep)
	}
	return side1, side2, nil
}

// IsCluster reports whether a joint symbol's isyms table entry contains the
// tie character anywhere in the string; which side of the joint symbol it
// appears on is not checked.
func (c Config) IsCluster(sym string) bool {
	return strings.Contains(sym, c.Tie)
}

// Table is a bijection between string symbols and dense integer ids. Id 0 is
// reserved for Config.Eps by convention, matching OpenFST symbol tables.
type Table struct {
	cfg      Config
	toID     map[string]int
	toSymbol []string
}

// New creates a table pre-populated with eps at id 0.
func New(cfg Config) *Table {
	t := &Table{
		cfg:      cfg,
		toID:     make(map[string]int, nextPrime(64)),
		toSymbol: make([]string, 0, 64),
	}
	t.intern(cfg.Eps)
	return t
}

// nextPrime sizes the initial bucket count of the symbol table's backing map
// to a prime, the same modular-arithmetic rationale the classifier's own
// hashing (hash.Hash) relies on to avoid pathological clustering as the
// table grows past its initial capacity.
func nextPrime(n int) int {
	gen := primegen.New()
	var p uint64
	for p = gen.Next(); p < uint64(n); p = gen.Next() {
	}
	return int(p)
}

// Find returns the id for sym, interning it if new.
func (t *Table) Find(sym string) int {
	return t.intern(sym)
}

func (t *Table) intern(sym string) int {
	if id, ok := t.toID[sym]; ok {
		return id
	}
	id := len(t.toSymbol)
	t.toID[sym] = id
	t.toSymbol = append(t.toSymbol, sym)
	return id
}

// FindExisting returns the id for sym without interning it.
func (t *Table) FindExisting(sym string) (int, bool) {
	id, ok := t.toID[sym]
	return id, ok
}

// Symbol returns the string for id. Panics on an out-of-range id, an
// internal invariant violation.
func (t *Table) Symbol(id int) string {
	return t.toSymbol[id]
}

// NumSymbols returns the number of interned symbols.
func (t *Table) NumSymbols() int {
	return len(t.toSymbol)
}

// Symbols returns the slice of interned symbols. The caller must not mutate it.
func (t *Table) Symbols() []string {
	return t.toSymbol
}

// Config returns the distinguished-symbol configuration this table was built with.
func (t *Table) Config() Config {
	return t.cfg
}

// SkipIDs resolves Config.SkipSet() to the ids present in this table.
func (t *Table) SkipIDs() map[int]struct{} {
	out := make(map[int]struct{})
	for sym := range t.cfg.SkipSet() {
		if id, ok := t.toID[sym]; ok {
			out[id] = struct{}{}
		}
	}
	return out
}

// Cluster is one multi-token input symbol learned during alignment: an
// ordered token subsequence paired with the id of the symbol that spans it.
type Cluster struct {
	Tokens []string
	ID     int
}

// Export returns the table's configuration and its interned symbols in id
// order, sufficient to reconstruct an identical table with Import. Used by
// model serialization (§6 "Model WFST: ... with attached input/output
// symbol tables identical to isyms").
func (t *Table) Export() (Config, []string) {
	out := make([]string, len(t.toSymbol))
	copy(out, t.toSymbol)
	return t.cfg, out
}

// Import rebuilds a Table from a configuration and an ordered symbol list
// produced by Export, preserving ids.
func Import(cfg Config, symbols []string) *Table {
	t := &Table{
		cfg:      cfg,
		toID:     make(map[string]int, nextPrime(len(symbols)+1)),
		toSymbol: make([]string, 0, len(symbols)),
	}
	for _, sym := range symbols {
		t.intern(sym)
	}
	return t
}

// Clusters builds the set of clusters: every interned symbol containing the
// tie character, paired with the token sequence it spans. Built from every
// entry in the table, independent of training data, matching the original
// loadClusters behavior.
func (t *Table) Clusters() []Cluster {
	var out []Cluster
	for id, sym := range t.toSymbol {
		if t.cfg.IsCluster(sym) {
			out = append(out, Cluster{Tokens: strings.Split(sym, t.cfg.Tie), ID: id})
		}
	}
	return out
}
