// Package penalty derives and stores the penalty table used to re-weight
// alignment arcs so that short, high-probability alignments are preferred
// over long ones before pruning.
package penalty

import (
	"github.com/neurlang/g2pfst/internal/symtab"
)

// Table maps a joint-symbol id to its penalty weight.
type Table map[int]float64

// Compute derives penalties from the interned joint symbols alone, not from
// their probabilities: a monotone function of how many tokens the symbol
// consumes on either side, biasing
// longer multi-token alignments. Token-count above one is used, so that 1:1
// alignments are unpenalized and every extra token consumed on either side
// costs one unit of alpha.
func Compute(isyms *symtab.Table, cfg symtab.Config, alpha float64) Table {
	out := make(Table, isyms.NumSymbols())
	for id, sym := range isyms.Symbols() {
		side1, side2, err := cfg.SplitJointSymbol(sym)
		if err != nil {
			// Distinguished symbols (<eps>, <s>, </s>, skip) aren't joint
			// symbols and carry no penalty.
			out[id] = 0
			continue
		}
		n := len(side1)
		if n == 0 {
			n = 1 // the skip side still counts as one unit for length purposes
		}
		m := len(side2)
		if m == 0 {
			m = 1
		}
		length := n + m - 2 // 0 for a 1:1 symbol
		if length < 0 {
			length = 0
		}
		out[id] = alpha * float64(length)
	}
	return out
}
