package aligner

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"

	"github.com/neurlang/g2pfst/internal/fst"
	"github.com/neurlang/g2pfst/internal/pathfinder"
	"github.com/neurlang/g2pfst/internal/semiring"

	"github.com/neurlang/g2pfst/far"
)

// WriteAlignments writes the flat corpus: one retained path per pair,
// tokens joined by a single space (not the joint symbol's own separator).
// When a pair's lattice has more than one surviving path after pruning,
// every surviving path is written on its own line.
func (a *Aligner) WriteAlignments(w io.Writer, pruned []*fst.Fst) error {
	bw := bufio.NewWriter(w)
	finder := pathfinder.New(a.Isyms, a.SkipIDs())
	for i, f := range pruned {
		paths, err := finder.FindAllStrings(f)
		if err != nil {
			return errors.Wrapf(err, "enumerate paths for pair %d", i)
		}
		for _, p := range paths {
			if _, err := bw.WriteString(strings.Join(p.Tokens, " ") + "\n"); err != nil {
				return errors.Wrap(err, "write alignment")
			}
		}
	}
	return bw.Flush()
}

// CompileNBestFarArchive performs the full semiring round-trip: each pruned
// (tropical) lattice is mapped to the log semiring, Push-normalized toward
// its final state, clamped so true final states carry exactly One(), mapped
// back to tropical, and then written to the FAR archive.
func (a *Aligner) CompileNBestFarArchive(w io.Writer, pruned []*fst.Fst) error {
	fw := far.NewWriter(w)
	for i, f := range pruned {
		logFst := fst.Map(f, semiring.Log{})
		pushed, err := fst.Push(logFst)
		if err != nil {
			return errors.Wrapf(err, "push pair %d", i)
		}
		for s := range pushed.States {
			if pushed.IsFinal(s) {
				pushed.States[s].Final = pushed.Semiring.One()
			}
		}
		tropical := fst.Map(pushed, semiring.Tropical{})
		if _, err := fw.Add(tropical); err != nil {
			return errors.Wrapf(err, "write pair %d", i)
		}
	}
	return fw.Close()
}
