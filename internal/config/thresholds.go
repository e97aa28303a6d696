package config

import "runtime"

// Worker count resolution chain (highest priority first):
//   1. --workers / -t flag or the positional T argument
//   2. FACTCALC_WORKERS
//   3. Cached calibration profile (~/.factcalc_calibration.json)
//   4. EstimateOptimalWorkers

// ApplyAdaptiveWorkers fills in the worker count when nothing above the
// hardware estimate provided one.
func ApplyAdaptiveWorkers(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateOptimalWorkers()
	}
	return cfg
}

// EstimateOptimalWorkers returns one worker per logical CPU.
func EstimateOptimalWorkers() int {
	return max(runtime.NumCPU(), 1)
}
