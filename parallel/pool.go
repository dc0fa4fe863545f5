// Package parallel runs independent units of work on a fixed set of
// goroutines.
package parallel

import (
	"runtime"
	"sync"
)

type (
	WorkerFunc func(func())
	WaitFunc   func(done bool)
	CancelFunc func()
)

// Pool hands work to its workers through Do. With a single worker Do runs
// the work inline and Wait returns immediately.
type Pool struct {
	wg      sync.WaitGroup
	Workers int
	Do      WorkerFunc
	Wait    WaitFunc
	Cancel  CancelFunc
}

// Start creates a pool of numWorkers goroutines, or one per usable CPU when
// numWorkers is below 1. Wait(true) closes the pool once queued work is done.
func Start(numWorkers int) *Pool {
	if numWorkers < 1 {
		numWorkers = runtime.GOMAXPROCS(0)
	}

	pool := &Pool{
		Workers: numWorkers,
		Do: func(f func()) {
			f()
		},
		Wait:   func(bool) {},
		Cancel: func() {},
	}

	if numWorkers > 1 {
		workChan := make(chan func(), numWorkers)

		for range numWorkers {
			pool.wg.Go(func() {
				for f := range workChan {
					f()
				}
			})
		}

		pool.Do = func(f func()) {
			workChan <- f
		}

		pool.Wait = func(done bool) {
			if done {
				pool.Cancel()
			}
			pool.wg.Wait()
		}
		pool.Cancel = sync.OnceFunc(func() { close(workChan) })
	}

	return pool
}

// ForEach calls fn once per range on a fresh pool and returns when all calls
// are done.
func ForEach(numWorkers int, ranges []Range, fn func(Range)) {
	if len(ranges) == 0 {
		return
	}
	pool := Start(min(numWorkers, len(ranges)))
	for _, r := range ranges {
		pool.Do(func() { fn(r) })
	}
	pool.Wait(true)
}
