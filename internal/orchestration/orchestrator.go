package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so slow
// displays rarely cause dropped updates.
const ProgressBufferMultiplier = 5

var tracer = otel.Tracer("github.com/agbru/factcalc/internal/orchestration")

// ExecuteCalculations runs every calculator on n concurrently and returns one
// result per calculator, in input order. Calculator errors are recorded in
// the results; they never cancel the other runs. It returns after every
// calculator and the progress reporter have finished.
func ExecuteCalculations(ctx context.Context, calculators []factorial.Calculator, n uint64, opts factorial.Options, reporter ProgressReporter, out io.Writer) []CalculationResult {
	ctx, span := tracer.Start(ctx, "orchestration.ExecuteCalculations", trace.WithAttributes(
		attribute.Int64("factorial.n", int64(n)),
		attribute.Int("orchestration.calculators", len(calculators)),
	))
	defer span.End()

	var g errgroup.Group
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			start := time.Now()
			res, err := calc.Calculate(ctx, progressChan, i, n, opts)
			results[i] = CalculationResult{Name: calc.Name(), Result: res, Duration: time.Since(start), Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results (successes first, then by duration),
// checks that every successful result agrees modulo 2^64, presents the table
// and the fastest result, and returns an exit code.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var (
		firstValid *CalculationResult
		firstError error
	)
	for i := range results {
		switch {
		case results[i].Err != nil && firstError == nil:
			firstError = results[i].Err
		case results[i].Err == nil && firstValid == nil:
			firstValid = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed the calculation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	if Mismatch(results) {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The strategies disagree on the result.\n")
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// Mismatch reports whether two successful results differ in their low 64
// bits. Exact and wrapped results of the same factorial always agree there.
func Mismatch(results []CalculationResult) bool {
	var (
		ref  int64
		seen bool
	)
	for _, res := range results {
		if res.Err != nil || res.Result == nil {
			continue
		}
		v := factorial.WrapInt64(res.Result)
		if !seen {
			ref, seen = v, true
			continue
		}
		if v != ref {
			return true
		}
	}
	return false
}
