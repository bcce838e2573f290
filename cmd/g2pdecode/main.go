package main

import "bufio"
import "flag"
import "fmt"
import "os"
import "strings"

import "github.com/neurlang/g2pfst/decoder"
import "github.com/neurlang/g2pfst/internal/tokenize"

func main() {
	model := flag.String("model", "", "path to joint model WFST")
	nbest := flag.Int("nbest", 1, "pronunciations per input line")
	delim := flag.String("delim", " ", "token delimiter for input words")
	refDelim := flag.String("ref_delim", "\t", "separates an optional reference pronunciation from the input word")
	flag.Parse()

	if *model == "" {
		println("model is mandatory")
		os.Exit(1)
	}

	mf, err := os.Open(*model)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}
	defer mf.Close()

	d, err := decoder.New(mf)
	if err != nil {
		println(err.Error())
		os.Exit(1)
	}

	args := flag.Args()
	var lines []string
	if len(args) > 0 {
		lines = args
	} else {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if l := sc.Text(); l != "" {
				lines = append(lines, l)
			}
		}
	}

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	for _, line := range lines {
		word, ref := line, ""
		if idx := strings.Index(line, *refDelim); idx >= 0 {
			word, ref = line[:idx], line[idx+len(*refDelim):]
		}

		tokens := tokenize.Tokens(word, *delim)
		prons, err := d.Phoneticize(tokens, *nbest)
		if err != nil {
			if unk, ok := err.(*decoder.UnknownInputSymbolError); ok {
				fmt.Fprintf(w, "%s\t%s\n", word, unk.Error())
				continue
			}
			println(err.Error())
			os.Exit(1)
		}
		for _, p := range prons {
			if ref != "" {
				fmt.Fprintf(w, "%g\t%s\t%s\n", p.Cost, p.Text, ref)
			} else {
				fmt.Fprintf(w, "%g\t%s\n", p.Cost, p.Text)
			}
		}
	}
}
