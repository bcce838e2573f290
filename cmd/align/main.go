package main

import "bufio"
import "flag"
import "math"
import "os"

import "github.com/neurlang/g2pfst/aligner"
import "github.com/neurlang/g2pfst/decoder"
import "github.com/neurlang/g2pfst/internal/fst"
import "github.com/neurlang/g2pfst/internal/penalty"
import "github.com/neurlang/g2pfst/internal/pruner"
import "github.com/neurlang/g2pfst/internal/semiring"
import "github.com/neurlang/g2pfst/internal/symtab"
import "github.com/neurlang/g2pfst/internal/tokenize"

func main() {
	input := flag.String("input", "", "path to dictionary file")
	delim := flag.String("delim", "\t", "field separator between s1 and s2")
	s1CharDelim := flag.String("s1_char_delim", "", "splits s1 into tokens (empty = per Unicode codepoint)")
	s2CharDelim := flag.String("s2_char_delim", " ", "splits s2 into tokens")
	seq1Del := flag.Bool("seq1_del", true, "allow deletions on side 1")
	seq2Del := flag.Bool("seq2_del", true, "allow deletions on side 2")
	seq1Max := flag.Int("seq1_max", 2, "max subsequence length on side 1")
	seq2Max := flag.Int("seq2_max", 2, "max subsequence length on side 2")
	seq1Sep := flag.String("seq1_sep", "|", "joiner for multi-token symbols on side 1")
	seq2Sep := flag.String("seq2_sep", "|", "joiner for multi-token symbols on side 2")
	s1s2Sep := flag.String("s1s2_sep", "}", "joiner between sides")
	eps := flag.String("eps", "<eps>", "epsilon symbol")
	skip := flag.String("skip", "_", "skip/deletion marker")
	restrict := flag.Bool("restrict", true, "forbid m>1 and n>1 arcs")
	penalize := flag.Bool("penalize", true, "apply penalties post-training")
	penalizeEM := flag.Bool("penalize_em", false, "apply penalties during EM")
	iter := flag.Int("iter", 11, "EM iterations after the seeding M-step")
	thresh := flag.Float64("thresh", 1e-10, "EM convergence delta")
	nbest := flag.Int("nbest", 1, "paths per pair on output")
	pthresh := flag.Float64("pthresh", -99, "posterior pruning threshold (-99 disables)")
	fb := flag.Bool("fb", false, "enable forward-backward pruning")
	lattice := flag.Bool("lattice", false, "emit FST archive instead of flat corpus")
	ofile := flag.String("ofile", "", "output path")
	writeModel := flag.String("write_model", "", "if set, serialize the joint-symbol model WFST")
	flag.Parse()

	if *input == "" {
		println("input is mandatory")
		os.Exit(1)
	}
	if *ofile == "" {
		println("ofile is mandatory")
		os.Exit(1)
	}

	cfg := aligner.DefaultConfig()
	cfg.Seq1Del, cfg.Seq2Del = *seq1Del, *seq2Del
	cfg.Seq1Max, cfg.Seq2Max = *seq1Max, *seq2Max
	cfg.Restrict = *restrict
	cfg.Penalize = *penalize
	cfg.PenalizeEM = *penalizeEM
	cfg.Symbols = symtab.Config{
		Eps: *eps, Sb: "<s>", Se: "</s>", Skip: *skip, Tie: "|",
		Seq1Sep: *seq1Sep, Seq2Sep: *seq2Sep, S1S2Sep: *s1s2Sep,
	}

	a := aligner.New(cfg)

	f, err := os.Open(*input)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	defer f.Close()

	var kept []int
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		s1raw, s2raw, err := tokenize.Fields(line, *delim)
		if err != nil {
			println("skipping malformed line", lineNo, ":", err.Error())
			continue
		}
		s1 := tokenize.Tokens(s1raw, *s1CharDelim)
		s2 := tokenize.Tokens(s2raw, *s2CharDelim)

		idx, err := a.Entry2AlignFST(s1, s2)
		if err != nil {
			println("skipping pair at line", lineNo, ":", err.Error())
			continue
		}
		if a.IsEmptyAlignment(idx) {
			println("empty alignment for pair at line", lineNo)
			continue
		}
		kept = append(kept, idx)
	}
	if err := sc.Err(); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	if err := a.Train(*iter, *thresh); err != nil {
		println(err.Error())
		os.Exit(1)
	}

	pth := *pthresh
	if pth <= -99 {
		pth = math.Inf(1)
	}
	p := pruner.New(a.Penalties, pth, *nbest, *fb, *penalize)

	var pruned []*fst.Fst
	for _, idx := range kept {
		tf := fst.Map(a.Fsas[idx], semiring.Tropical{})
		if err := p.Prune(tf); err != nil {
			println(err.Error())
			os.Exit(1)
		}
		tf = fst.RmEpsilon(tf)
		pruned = append(pruned, tf)
	}

	out, err := os.Create(*ofile)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	defer out.Close()

	if *lattice {
		err = a.CompileNBestFarArchive(out, pruned)
	} else {
		err = a.WriteAlignments(out, pruned)
	}
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}

	if *writeModel != "" {
		mf, err := os.Create(*writeModel)
		if err != nil {
			println(err.Error())
			os.Exit(1)
		}
		defer mf.Close()
		if err := decoder.SaveModel(mf, a.Isyms, unigramModel(a)); err != nil {
			println(err.Error())
			os.Exit(1)
		}

		if *penalize {
			pf, err := os.Create(*writeModel + ".penalties")
			if err != nil {
				println(err.Error())
				os.Exit(1)
			}
			defer pf.Close()
			if err := penalty.SaveQuantized(pf, a.Penalties); err != nil {
				println(err.Error())
				os.Exit(1)
			}
		}
	}
}

// unigramModel builds the single-state joint-symbol model WFST an external
// n-gram estimator consumes: one final state with a self-loop arc per
// interned symbol weighted by its trained alignment_model probability.
// Training the n-gram model itself is out of scope here; this is only the
// handoff point to that external toolkit. Unlike every other WFST this
// module builds, it is intentionally cyclic, and is never passed to
// ShortestPath, Compose or the path finder.
func unigramModel(a *aligner.Aligner) *fst.Fst {
	f := fst.New(semiring.Log{})
	s := f.AddState()
	f.SetStart(s)
	f.SetFinal(s, f.Semiring.One())
	for id, w := range a.AlignmentModel {
		f.AddArc(s, fst.Arc{ILabel: id, OLabel: id, Weight: w, NextState: s})
	}
	return f
}
