package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/agbru/factcalc/internal/cli"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/metrics"
	"github.com/agbru/factcalc/internal/orchestration"
)

// runCalculate computes N! with the selected strategies and prints the result.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculators := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculators, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	opts := factorial.Options{
		Workers: a.Config.Workers,
		Logger:  logging.NewLogger(a.ErrWriter, "factorial"),
	}
	mem := metrics.NewMemoryCollector()
	results := orchestration.ExecuteCalculations(ctx, calculators, a.Config.N, opts, reporter, progressOut)
	stats := mem.Since()

	code := a.analyzeResults(results, out)
	if code == apperrors.ExitSuccess && a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(stats.HeapAlloc, stats.TotalAlloc, stats.NumGC, stats.PauseTotalNs, out)
	}
	return code
}

func (a *Application) analyzeResults(results []orchestration.CalculationResult, out io.Writer) int {
	best := findBestResult(results)

	if a.Config.Quiet {
		switch {
		case best == nil:
			return apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, nil)
		case orchestration.Mismatch(results):
			fmt.Fprintln(a.ErrWriter, "Error: the strategies disagree on the result.")
			return apperrors.ExitErrorMismatch
		}
		cli.DisplayQuietResult(out, best.Result)
		return a.saveResult(best, out)
	}

	opts := orchestration.PresentationOptions{
		N:       a.Config.N,
		Workers: a.Config.Workers,
		Verbose: a.Config.Verbose,
		Details: a.Config.Details,
	}
	presenter := cli.CLIResultPresenter{}
	code := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, out)
	if code != apperrors.ExitSuccess || best == nil {
		return code
	}
	return a.saveResult(best, out)
}

// saveResult writes best to --output when it is set.
func (a *Application) saveResult(best *orchestration.CalculationResult, out io.Writer) int {
	if a.Config.OutputFile == "" {
		return apperrors.ExitSuccess
	}
	if err := cli.WriteResultToFile(a.Config.OutputFile, best.Result, a.Config.N, a.Config.Workers, best.Duration, best.Name); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "\nResult saved to: %s\n", a.Config.OutputFile)
	}
	return apperrors.ExitSuccess
}

func findBestResult(results []orchestration.CalculationResult) *orchestration.CalculationResult {
	var best *orchestration.CalculationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}

func firstError(results []orchestration.CalculationResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
