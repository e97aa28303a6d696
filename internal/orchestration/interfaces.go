package orchestration

import (
	"io"
	"math/big"
	"sync"
	"time"

	"github.com/agbru/factcalc/internal/progress"
)

// CalculationResult is the outcome of one calculator run.
type CalculationResult struct {
	// Name is the calculator's display name.
	Name string
	// Result is n!, or its 64-bit wrapped value for fixed-width strategies.
	// Nil when Err is set.
	Result *big.Int
	// Duration is the wall time of the run.
	Duration time.Duration
	// Err is the failure, if any.
	Err error
}

// PresentationOptions configures how the final result is displayed.
type PresentationOptions struct {
	N       uint64
	Workers int
	Verbose bool
	Details bool
	Quiet   bool
}

// ProgressReporter displays progress updates until progressChan is closed.
// DisplayProgress runs on its own goroutine and calls wg.Done on return.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter drains the channel without output. Used in quiet mode
// and by the server.
type NullProgressReporter struct{}

// DisplayProgress drains progressChan.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders comparison tables and final results.
type ResultPresenter interface {
	PresentComparisonTable(results []CalculationResult, out io.Writer)
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler reports a calculation error and returns the matching exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
