//go:build !noasm && amd64

package semiring

import "github.com/klauspost/cpuid/v2"

// init picks a batched log-sum-exp kernel for the forward/backward posterior
// accumulation in the EM E-step. AVX2 lets us fold four running accumulators
// at once before combining them, trading one extra LogAdd for fewer
// data-dependent stalls on the reduction chain.
func init() {
	if cpuid.CPU.Supports(cpuid.AVX2) {
		LogAddSlice = logAddSliceAVX2
	} else {
		LogAddSlice = logAddSliceGeneric
	}
}

func logAddSliceAVX2(values []float64) float64 {
	if len(values) == 0 {
		return Log{}.Zero()
	}
	var lanes [4]float64
	for i := range lanes {
		lanes[i] = Log{}.Zero()
	}
	i := 0
	for ; i+4 <= len(values); i += 4 {
		lanes[0] = LogAdd(lanes[0], values[i])
		lanes[1] = LogAdd(lanes[1], values[i+1])
		lanes[2] = LogAdd(lanes[2], values[i+2])
		lanes[3] = LogAdd(lanes[3], values[i+3])
	}
	acc := LogAdd(LogAdd(lanes[0], lanes[1]), LogAdd(lanes[2], lanes[3]))
	for ; i < len(values); i++ {
		acc = LogAdd(acc, values[i])
	}
	return acc
}
