package factorial

import (
	"context"
	"math/big"
	"sync"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/parallel"
	"github.com/agbru/factcalc/internal/partition"
	"github.com/agbru/factcalc/internal/progress"
)

// cancelCheckInterval is how many factors a big-integer worker multiplies
// between context checks and progress reports.
const cancelCheckInterval = 1024

// ArbitraryPrecision follows the same partition-and-merge protocol as
// MutexAccumulator but with arbitrary-precision partial products, so the
// result is exact for every n. Unlike the 64-bit strategies it observes ctx
// between factors.
type ArbitraryPrecision struct{}

// Name returns the strategy name, including the big-integer backend.
func (ArbitraryPrecision) Name() string { return "Arbitrary Precision (" + bigBackend + ")" }

// CalculateCore computes the exact value of n!.
func (ArbitraryPrecision) CalculateCore(ctx context.Context, reporter progress.ProgressCallback, n uint64, opts Options) (*big.Int, error) {
	tracker := progress.NewFactorTracker(n, reporter)

	var (
		mu    sync.Mutex
		total = newBigProduct()
		ec    parallel.ErrorCollector
	)

	fanOut(partition.Plan(n, opts.workerCount()), func(index int, r partition.Range) {
		if r.Empty() {
			return
		}
		partial, err := bigPartialProduct(ctx, r, tracker)
		if err != nil {
			ec.SetError(err)
			return
		}
		mu.Lock()
		total.Mul(partial)
		mu.Unlock()
		if opts.Logger != nil {
			opts.Logger.Debug("partial merged",
				logging.Int("worker", index),
				logging.String("range", r.String()),
				logging.Int("partial_bits", partial.BitLen()))
		}
	})

	if err := ec.Err(); err != nil {
		return nil, apperrors.CalculationError{Cause: err}
	}
	return total.Big(), nil
}

// bigPartialProduct multiplies the factors of r, checking ctx every
// cancelCheckInterval factors.
func bigPartialProduct(ctx context.Context, r partition.Range, tracker *progress.FactorTracker) (*bigProduct, error) {
	partial := newBigProduct()
	pending := uint64(0)
	for i := r.Start; i < r.End(); i++ {
		partial.MulUint64(i)
		pending++
		if pending == cancelCheckInterval {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			tracker.Add(pending)
			pending = 0
		}
	}
	if pending > 0 {
		tracker.Add(pending)
	}
	return partial, nil
}
