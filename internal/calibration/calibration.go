// Package calibration measures which worker count computes factorials fastest
// on this machine and caches the answer in a profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"time"

	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
)

// CalibrationN is the factorial argument used for benchmarking. The run uses
// the exact strategy so each worker does real multi-word work.
const CalibrationN uint64 = 50_000

// CalibrationAlgorithm is the strategy benchmarked.
const CalibrationAlgorithm = factorial.ExactAlgorithm

// calibrationResult is one benchmark row.
type calibrationResult struct {
	Workers  int
	Duration time.Duration
	Err      error
}

// GenerateWorkerCounts returns 1, 2, 4, ... up to twice the CPU count, always
// ending with 2*NumCPU itself.
func GenerateWorkerCounts() []int {
	return workerCounts(runtime.NumCPU())
}

func workerCounts(numCPU int) []int {
	limit := 2 * max(numCPU, 1)
	var counts []int
	for w := 1; w < limit; w *= 2 {
		counts = append(counts, w)
	}
	return append(counts, limit)
}

// RunCalibration benchmarks every worker count, prints a table, saves the best
// to the profile and returns an exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, factory factorial.CalculatorFactory, out io.Writer) int {
	calc, err := factory.Get(CalibrationAlgorithm)
	if err != nil {
		fmt.Fprintf(out, "Calibration unavailable: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	fmt.Fprintf(out, "--- Calibration: %d! with the %s strategy ---\n", CalibrationN, calc.Name())
	start := time.Now()
	results, best := benchmark(ctx, calc, CalibrationN, GenerateWorkerCounts(), out)
	if err := ctx.Err(); err != nil {
		return apperrors.HandleCalculationError(err, time.Since(start), out, nil)
	}
	printCalibrationResults(out, results, best)
	if best == 0 {
		fmt.Fprintln(out, "Every calibration run failed; no profile written.")
		return apperrors.ExitErrorGeneric
	}

	profile := NewProfile()
	profile.OptimalWorkers = best
	profile.CalibrationN = CalibrationN
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()
	for _, r := range results {
		if r.Err == nil {
			profile.Results = append(profile.Results, WorkerTiming{Workers: r.Workers, DurationNs: r.Duration.Nanoseconds()})
		}
	}
	path := ResolveProfilePath(cfg.CalibrationProfile)
	if err := profile.SaveProfile(path); err != nil {
		fmt.Fprintf(out, "Could not save calibration profile: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	printCalibrationOutput(out, best, path)
	return apperrors.ExitSuccess
}

// benchmark times calc at n for every worker count and returns the rows and
// the fastest successful count (0 if none succeeded).
func benchmark(ctx context.Context, calc factorial.Calculator, n uint64, counts []int, out io.Writer) ([]calibrationResult, int) {
	results := make([]calibrationResult, 0, len(counts))
	best, bestDuration := 0, time.Duration(0)
	for _, w := range counts {
		if ctx.Err() != nil {
			break
		}
		fmt.Fprintf(out, "  measuring %d workers...\n", w)
		start := time.Now()
		_, err := calc.Calculate(ctx, nil, 0, n, factorial.Options{Workers: w})
		res := calibrationResult{Workers: w, Duration: time.Since(start), Err: err}
		results = append(results, res)
		if err == nil && (best == 0 || res.Duration < bestDuration) {
			best, bestDuration = w, res.Duration
		}
	}
	return results, best
}

// LoadCachedCalibration fills cfg.Workers from the profile at
// cfg.CalibrationProfile (or the default path) when no worker count was
// given. It reports whether a profile was applied.
func LoadCachedCalibration(cfg config.AppConfig) (config.AppConfig, bool) {
	if cfg.Workers != 0 {
		return cfg, false
	}
	profile, err := loadProfile(ResolveProfilePath(cfg.CalibrationProfile))
	if err != nil || !profile.IsValid() || profile.IsStale(ProfileMaxAge) {
		return cfg, false
	}
	cfg.Workers = profile.OptimalWorkers
	return cfg, true
}
