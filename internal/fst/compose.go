package fst

// Compose builds the product of a (the input FSA) and b (the joint model)
// eagerly, expanding only state pairs reachable from the start pair and
// matching arcs where a's output label equals b's input label. Every arc
// this module constructs carries ILabel == OLabel, so no epsilon-filter
// state machine is used; epsilon labels are matched like any other label.
func Compose(a, b *Fst) *Fst {
	out := New(a.Semiring)
	if a.Empty() || b.Empty() {
		return out
	}

	type pair struct{ as, bs int }
	index := map[pair]int{}
	newState := func(as, bs int) int {
		p := pair{as, bs}
		if id, ok := index[p]; ok {
			return id
		}
		id := out.AddState()
		index[p] = id
		return id
	}

	start := newState(a.Start, b.Start)
	out.SetStart(start)

	sr := a.Semiring
	queue := []pair{{a.Start, b.Start}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		curID := index[cur]

		if a.IsFinal(cur.as) && b.IsFinal(cur.bs) {
			out.SetFinal(curID, sr.Times(a.States[cur.as].Final, b.States[cur.bs].Final))
		}

		for _, aArc := range a.States[cur.as].Arcs {
			for _, bArc := range b.States[cur.bs].Arcs {
				if aArc.OLabel != bArc.ILabel {
					continue
				}
				next := pair{aArc.NextState, bArc.NextState}
				_, existed := index[next]
				nextID := newState(next.as, next.bs)
				if !existed {
					queue = append(queue, next)
				}
				out.AddArc(curID, Arc{
					ILabel:    aArc.ILabel,
					OLabel:    bArc.OLabel,
					Weight:    sr.Times(aArc.Weight, bArc.Weight),
					NextState: nextID,
				})
			}
		}
	}

	return out
}
