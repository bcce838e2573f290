package fst

import "math"

// Push reweights f toward its final states: every state's outgoing mass is
// shifted by its backward distance so that beta becomes One() everywhere,
// turning f into an unnormalized-but-Push-equivalent stochastic FST, the
// same effect as OpenFST's Push(..., PUSH_WEIGHTS | PUSH_TO_FINAL). This
// assumes an invertible Times (w ⊗ x ⊗ x⁻¹ == w), true of the log
// semiring's Times = +; it is not meaningful for the tropical semiring and
// is only ever called on a log-semiring f.
func Push(f *Fst) (*Fst, error) {
	if f.Empty() {
		return Clone(f), nil
	}
	_, beta, err := ForwardBackward(f)
	if err != nil {
		return nil, err
	}

	out := Clone(f)
	for s := range out.States {
		b := beta[s]
		if math.IsInf(b, 1) {
			continue // unreachable-to-final state: nothing to normalize
		}
		for j, a := range out.States[s].Arcs {
			db := beta[a.NextState]
			if math.IsInf(db, 1) {
				continue
			}
			out.States[s].Arcs[j].Weight = a.Weight + db - b
		}
		if out.IsFinal(s) {
			out.States[s].Final = out.States[s].Final - b
		}
	}
	return out, nil
}
