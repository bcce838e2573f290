// Package parallel provides a bounded-concurrency fan-out helper used to
// drive per-pair E-step computation: each pair's forward/backward is
// independent given a read-only alignment_model, so pairs can run
// concurrently with their local contributions merged at the barrier
// between expectation() and maximization().
package parallel

import (
	"runtime"
	"sync"
)

// Limit derives a worker cap for a corpus of n independent units of work:
// never more goroutines than the machine has CPUs, and never more than n
// itself — a training run over a handful of pairs gains nothing from a
// semaphore sized for a multi-core machine, and only pays for the unused
// channel slots and goroutine scheduling overhead.
func Limit(n int) int {
	if cpu := runtime.NumCPU(); n > cpu {
		return cpu
	}
	if n < 1 {
		return 1
	}
	return n
}

// ForEach executes body(i) for i in [0,length) across at most limit
// concurrent goroutines, blocking until every call returns.
func ForEach(length, limit int, body func(i int)) {
	if limit <= 0 {
		limit = 1
	}
	if length <= 0 {
		return
	}

	sem := make(chan struct{}, limit)
	var wg sync.WaitGroup
	wg.Add(length)

	for i := 0; i < length; i++ {
		i := i
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			body(i)
		}(i)
	}

	wg.Wait()
}
