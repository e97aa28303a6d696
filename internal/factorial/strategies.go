package factorial

import (
	"context"
	"math/big"
	"sync/atomic"

	"golang.org/x/sys/cpu"

	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/partition"
	"github.com/agbru/factcalc/internal/progress"
)

// MutexAccumulator merges partial products into a mutex-guarded Total.
// This is the reference protocol.
type MutexAccumulator struct{}

// Name returns the strategy name.
func (MutexAccumulator) Name() string { return "Mutex Accumulator (64-bit)" }

// CalculateCore computes n! with the mutex protocol.
func (MutexAccumulator) CalculateCore(_ context.Context, reporter progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	tracker := progress.NewFactorTracker(n, reporter)
	total := accumulateMutex(n, opts.workerCount(), tracker, opts.Logger)
	return big.NewInt(total), nil
}

// atomicTotal is an int64 accumulator updated with compare-and-swap.
type atomicTotal struct {
	_     cpu.CacheLinePad
	value atomic.Int64
	_     cpu.CacheLinePad
}

// multiply folds partial in with a CAS loop. Retries only happen when another
// worker merged between the load and the swap.
func (t *atomicTotal) multiply(partial int64) {
	for {
		old := t.value.Load()
		if t.value.CompareAndSwap(old, old*partial) {
			return
		}
	}
}

// AtomicAccumulator merges partial products with a lock-free CAS loop instead
// of a mutex.
type AtomicAccumulator struct{}

// Name returns the strategy name.
func (AtomicAccumulator) Name() string { return "Atomic CAS Accumulator (64-bit)" }

// CalculateCore computes n! with a CAS-updated total.
func (AtomicAccumulator) CalculateCore(_ context.Context, reporter progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	tracker := progress.NewFactorTracker(n, reporter)
	total := &atomicTotal{}
	total.value.Store(1)

	fanOut(partition.Plan(n, opts.workerCount()), func(index int, r partition.Range) {
		if r.Empty() {
			return
		}
		partial := PartialProduct(r)
		total.multiply(partial)
		tracker.Add(r.Length)
		logPartial(opts.Logger, index, r, partial)
	})
	return big.NewInt(total.value.Load()), nil
}

// ChannelReduction has workers send their partial products to the caller,
// which folds them in arrival order. Total is owned by a single goroutine so
// no lock is needed.
type ChannelReduction struct{}

// Name returns the strategy name.
func (ChannelReduction) Name() string { return "Channel Reduction (64-bit)" }

// CalculateCore computes n! by reducing partial products received on a
// channel.
func (ChannelReduction) CalculateCore(_ context.Context, reporter progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	tracker := progress.NewFactorTracker(n, reporter)
	ranges := partition.Plan(n, opts.workerCount())
	partials := make(chan int64, len(ranges))

	go func() {
		fanOut(ranges, func(index int, r partition.Range) {
			if r.Empty() {
				return
			}
			partial := PartialProduct(r)
			partials <- partial
			tracker.Add(r.Length)
			logPartial(opts.Logger, index, r, partial)
		})
		close(partials)
	}()

	total := int64(1)
	for partial := range partials {
		total *= partial
	}
	return big.NewInt(total), nil
}

func logPartial(logger logging.Logger, index int, r partition.Range, partial int64) {
	if logger == nil {
		return
	}
	logger.Debug("partial merged",
		logging.Int("worker", index),
		logging.String("range", r.String()),
		logging.Int64("partial", partial))
}
