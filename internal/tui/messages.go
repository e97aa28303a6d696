package tui

import (
	"time"

	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/sysmon"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the sorted results of a multi-strategy run.
type ComparisonResultsMsg struct {
	Results []orchestration.CalculationResult
}

// FinalResultMsg carries the result that is presented to the user.
type FinalResultMsg struct {
	Result orchestration.CalculationResult
	N      uint64
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// SysStatsMsg is one system sample.
type SysStatsMsg sysmon.Stats

// CalculationCompleteMsg is sent when orchestration has returned.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg is sent when the run context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
