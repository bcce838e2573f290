package fst

// epsilonID is the convention-fixed id of the distinguished epsilon symbol
// (symtab.Config.Eps interns to id 0 as the table's very first entry).
const epsilonID = 0

// RmEpsilon removes epsilon-labeled arcs, folding their weight into the
// non-epsilon arcs reachable through them (semiring Times along the chain,
// Plus across parallel survivors landing on the same destination+label) and
// then discarding states left unreachable, mirroring OpenFST's RmEpsilon
// composed with Connect.
func RmEpsilon(f *Fst) *Fst {
	if f.Empty() {
		return &Fst{Semiring: f.Semiring, Start: -1}
	}
	sr := f.Semiring
	out := &Fst{Semiring: sr, Start: f.Start}
	out.States = make([]State, len(f.States))
	for i, s := range f.States {
		out.States[i].Final = s.Final
	}

	for s := range f.States {
		// epsilonClosure(s) visits every state reachable from s via a chain of
		// epsilon arcs only, each paired with the accumulated Times-weight,
		// including s itself at weight One.
		type frontier struct {
			state  int
			weight float64
		}
		seen := map[int]float64{s: sr.One()}
		stack := []frontier{{s, sr.One()}}
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			for _, a := range f.States[cur.state].Arcs {
				if a.ILabel != epsilonID || a.OLabel != epsilonID {
					continue
				}
				w := sr.Times(cur.weight, a.Weight)
				if prev, ok := seen[a.NextState]; ok {
					seen[a.NextState] = sr.Plus(prev, w)
				} else {
					seen[a.NextState] = w
					stack = append(stack, frontier{a.NextState, w})
				}
			}
		}

		out.States[s].Final = sr.Zero()
		for st, w := range seen {
			if f.IsFinal(st) {
				out.States[s].Final = sr.Plus(out.States[s].Final, sr.Times(w, f.States[st].Final))
			}
		}

		merged := map[[2]int]float64{} // (olabel,dest) -> weight
		var order [][2]int
		for st, w := range seen {
			for _, a := range f.States[st].Arcs {
				if a.ILabel == epsilonID && a.OLabel == epsilonID {
					continue
				}
				key := [2]int{a.OLabel, a.NextState}
				total := sr.Times(w, a.Weight)
				if prior, ok := merged[key]; ok {
					merged[key] = sr.Plus(prior, total)
				} else {
					merged[key] = total
					order = append(order, key)
				}
			}
		}
		for _, key := range order {
			out.States[s].Arcs = append(out.States[s].Arcs, Arc{
				ILabel: key[0], OLabel: key[0], Weight: merged[key], NextState: key[1],
			})
		}
	}

	return connect(out)
}
