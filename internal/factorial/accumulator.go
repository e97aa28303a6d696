package factorial

import (
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/cpu"

	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/partition"
	"github.com/agbru/factcalc/internal/progress"
)

// Total is the shared accumulator workers merge their partial products into.
// It starts at the multiplicative identity. The padding keeps the lock and the
// value on their own cache line so merging workers do not false-share with
// neighbouring allocations.
type Total struct {
	_     cpu.CacheLinePad
	mu    sync.Mutex
	value int64
	_     cpu.CacheLinePad
}

// NewTotal returns a Total initialized to 1.
func NewTotal() *Total {
	return &Total{value: 1}
}

// Multiply folds partial into the total. This is the only critical section of
// the protocol: the lock covers the read-modify-write and nothing else.
func (t *Total) Multiply(partial int64) {
	t.mu.Lock()
	t.value *= partial
	t.mu.Unlock()
}

// Value returns the accumulated product. Callers read it after every worker
// has joined.
func (t *Total) Value() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.value
}

// PartialProduct multiplies every factor in r with plain 64-bit arithmetic.
// An empty range yields 1. Overflow wraps silently.
func PartialProduct(r partition.Range) int64 {
	partial := int64(1)
	for i := r.Start; i < r.End(); i++ {
		partial *= int64(i)
	}
	return partial
}

// Sequential computes n! on the calling goroutine. It is the reference every
// concurrent strategy is checked against.
func Sequential(n uint64) int64 {
	return PartialProduct(partition.Range{Start: 1, Length: n})
}

// Compute returns n! (modulo 2^64, as a signed value) using workers concurrent
// workers, each multiplying its own slice of [1, n] before merging into a
// mutex-guarded Total.
//
// Inputs are assumed valid: workers >= 1.
func Compute(n uint64, workers int) int64 {
	return accumulateMutex(n, workers, nil, nil)
}

// fanOut runs work once per range on its own goroutine and blocks until all of
// them return. Each goroutine receives its range by value.
func fanOut(ranges []partition.Range, work func(index int, r partition.Range)) {
	var g errgroup.Group
	for i, r := range ranges {
		g.Go(func() error {
			work(i, r)
			return nil
		})
	}
	_ = g.Wait()
}

// accumulateMutex is the mutex protocol shared by Compute and the "mutex"
// calculator. tracker and logger may be nil.
func accumulateMutex(n uint64, workers int, tracker *progress.FactorTracker, logger logging.Logger) int64 {
	total := NewTotal()
	fanOut(partition.Plan(n, workers), func(index int, r partition.Range) {
		if r.Empty() {
			return
		}
		partial := PartialProduct(r)
		total.Multiply(partial)
		if tracker != nil {
			tracker.Add(r.Length)
		}
		logPartial(logger, index, r, partial)
	})
	return total.Value()
}
