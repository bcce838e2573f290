package parallel

import (
	"runtime"
	"sync/atomic"
	"testing"
)

func TestLimitCapsAtNumCPU(t *testing.T) {
	cpu := runtime.NumCPU()
	if got := Limit(cpu + 1000); got != cpu {
		t.Errorf("Limit(%d) = %d, want %d", cpu+1000, got, cpu)
	}
}

func TestLimitNeverExceedsCorpusSize(t *testing.T) {
	if got := Limit(1); got != 1 {
		t.Errorf("Limit(1) = %d, want 1", got)
	}
}

func TestLimitFloorsAtOne(t *testing.T) {
	if got := Limit(0); got != 1 {
		t.Errorf("Limit(0) = %d, want 1", got)
	}
	if got := Limit(-3); got != 1 {
		t.Errorf("Limit(-3) = %d, want 1", got)
	}
}

func TestForEachRunsEveryIndex(t *testing.T) {
	const n = 50
	var seen int64
	ForEach(n, Limit(n), func(i int) {
		atomic.AddInt64(&seen, 1)
	})
	if seen != n {
		t.Errorf("ForEach ran %d of %d indices", seen, n)
	}
}
