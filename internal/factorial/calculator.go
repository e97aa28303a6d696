package factorial

import (
	"context"
	"math/big"
	"runtime"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/progress"
)

// Options configures a single factorial calculation.
type Options struct {
	// Workers is the number of concurrent workers. Zero means one per
	// logical CPU.
	Workers int
	// Logger receives per-worker debug entries. Nil disables them.
	Logger logging.Logger
}

// workerCount resolves the zero value of Workers.
func (o Options) workerCount() int {
	if o.Workers <= 0 {
		return runtime.NumCPU()
	}
	return o.Workers
}

// Calculator is the public contract of a factorial strategy used by the
// orchestration, CLI, TUI and server layers.
type Calculator interface {
	// Calculate computes n! and reports progress on progressChan, tagged
	// with calcIndex. progressChan may be nil.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error)
	// Name returns a human-readable strategy name.
	Name() string
}

// coreCalculator is implemented by each accumulation strategy. The wrapper
// FactorialCalculator adds progress plumbing and tracing around it.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter progress.ProgressCallback, n uint64, opts Options) (*big.Int, error)
	Name() string
}

// FactorialCalculator adapts a coreCalculator to the Calculator interface.
type FactorialCalculator struct {
	core coreCalculator
}

// NewCalculator wraps a strategy into a Calculator.
func NewCalculator(core coreCalculator) Calculator {
	return &FactorialCalculator{core: core}
}

// Name returns the wrapped strategy's name.
func (c *FactorialCalculator) Name() string {
	return c.core.Name()
}

var tracer = otel.Tracer("github.com/agbru/factcalc/internal/factorial")

// Calculate runs the strategy inside a trace span and guarantees a final
// progress report of 1.0 on success, including for empty products.
func (c *FactorialCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, n uint64, opts Options) (*big.Int, error) {
	ctx, span := tracer.Start(ctx, "factorial.Calculate", trace.WithAttributes(
		attribute.String("factorial.strategy", c.core.Name()),
		attribute.Int64("factorial.n", int64(n)),
		attribute.Int("factorial.workers", opts.workerCount()),
	))
	defer span.End()

	reporter := progress.ChannelCallback(progressChan, calcIndex)
	result, err := c.core.CalculateCore(ctx, reporter, n, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	reporter(1.0)
	span.SetAttributes(attribute.Int("factorial.result_bits", result.BitLen()))
	return result, nil
}

// WrapInt64 returns the low 64 bits of x interpreted as a two's-complement
// signed integer. Fixed-width strategies and the arbitrary-precision one
// always agree under this projection.
func WrapInt64(x *big.Int) int64 {
	var low big.Int
	low.And(x, mask64)
	return int64(low.Uint64())
}

var mask64 = new(big.Int).SetUint64(^uint64(0))
