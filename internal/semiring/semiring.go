// Package semiring implements the log and tropical weight algebras used by
// the alignment and decoding lattices.
package semiring

import "math"

// Semiring describes a weight algebra over float64-encoded weights:
// Zero (0̄, the additive identity), One (1̄, the multiplicative identity),
// Plus (⊕) and Times (⊗).
type Semiring interface {
	Zero() float64
	One() float64
	Plus(a, b float64) float64
	Times(a, b float64) float64
	Name() string
}

// Log is the log semiring: ⊕ = log-sum-exp, ⊗ = +, 0̄ = +Inf, 1̄ = 0.
// Weights are interpreted as negative log probabilities.
type Log struct{}

func (Log) Zero() float64 { return math.Inf(1) }
func (Log) One() float64  { return 0 }
func (Log) Plus(a, b float64) float64 {
	return LogAdd(a, b)
}
func (Log) Times(a, b float64) float64 { return a + b }
func (Log) Name() string               { return "log" }

// Tropical is the shortest-distance semiring: ⊕ = min, ⊗ = +, 0̄ = +Inf, 1̄ = 0.
type Tropical struct{}

func (Tropical) Zero() float64 { return math.Inf(1) }
func (Tropical) One() float64  { return 0 }
func (Tropical) Plus(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}
func (Tropical) Times(a, b float64) float64 { return a + b }
func (Tropical) Name() string               { return "tropical" }

// LogAdd computes -log(exp(-a)+exp(-b)) in its stable form, operating on
// weights stored as negative log probabilities: min(a,b) - log1p(exp(-|a-b|)).
// A +Inf operand (the semiring Zero) is handled explicitly, so the identity
// LogAdd(a, +Inf) == a holds exactly.
func LogAdd(a, b float64) float64 {
	if math.IsInf(a, 1) {
		return b
	}
	if math.IsInf(b, 1) {
		return a
	}
	if a > b {
		a, b = b, a
	}
	// a <= b, so a is the smaller cost (higher probability) side.
	return a - log1pExp(-(b - a))
}

func log1pExp(x float64) float64 {
	return math.Log1p(math.Exp(x))
}

// LogAddSlice folds LogAdd across a slice of weights. The implementation is
// chosen at init time based on CPU features; see logadd_amd64.go.
var LogAddSlice = logAddSliceGeneric

func logAddSliceGeneric(values []float64) float64 {
	acc := math.Inf(1)
	for _, v := range values {
		acc = LogAdd(acc, v)
	}
	return acc
}
