package semiring

import (
	"math"
	"testing"
)

func TestLogAddIdentities(t *testing.T) {
	if v := LogAdd(3.5, math.Inf(1)); v != 3.5 {
		t.Errorf("LogAdd(a, +Inf) = %v, want 3.5", v)
	}
	if v := LogAdd(math.Inf(1), 3.5); v != 3.5 {
		t.Errorf("LogAdd(+Inf, a) = %v, want 3.5", v)
	}
}

func TestLogAddMatchesProbabilitySpace(t *testing.T) {
	a, b := 1.0, 2.0
	got := LogAdd(a, b)
	want := -math.Log(math.Exp(-a) + math.Exp(-b))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("LogAdd(1,2) = %v, want %v", got, want)
	}
}

func TestLogAddSliceMatchesFold(t *testing.T) {
	values := []float64{0.3, 1.2, 5.0, 0.9}
	acc := math.Inf(1)
	for _, v := range values {
		acc = LogAdd(acc, v)
	}
	if got := LogAddSlice(values); math.Abs(got-acc) > 1e-12 {
		t.Errorf("LogAddSlice = %v, want %v", got, acc)
	}
}

func TestTropicalPlusIsMin(t *testing.T) {
	var tr Tropical
	if v := tr.Plus(4, 2); v != 2 {
		t.Errorf("Tropical.Plus(4,2) = %v, want 2", v)
	}
}

func TestSemiringIdentities(t *testing.T) {
	for _, sr := range []Semiring{Log{}, Tropical{}} {
		if sr.Times(sr.One(), 7) != 7 {
			t.Errorf("%s: One is not a Times identity", sr.Name())
		}
		if v := sr.Plus(sr.Zero(), 7); v != 7 {
			t.Errorf("%s: Zero is not a Plus identity, got %v", sr.Name(), v)
		}
	}
}
