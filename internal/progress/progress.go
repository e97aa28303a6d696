// Package progress carries calculation progress from worker goroutines to
// whichever presenter is listening (spinner, TUI, nothing at all).
package progress

import (
	"sync/atomic"
)

// ProgressUpdate is a progress notification sent by a calculator.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator among the ones running.
	CalculatorIndex int
	// Value is the completed fraction, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives a completed fraction from 0.0 to 1.0.
type ProgressCallback func(progress float64)

// ChannelCallback returns a callback that forwards values to progressChan
// tagged with calcIndex. Sends never block: when the channel is full the
// update is dropped, a later one supersedes it anyway. A nil channel yields a
// no-op callback.
func ChannelCallback(progressChan chan<- ProgressUpdate, calcIndex int) ProgressCallback {
	if progressChan == nil {
		return func(float64) {}
	}
	return func(v float64) {
		select {
		case progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: v}:
		default:
		}
	}
}

// FactorTracker converts per-worker factor counts into a completed fraction of
// the whole factorial. It is safe for concurrent use.
type FactorTracker struct {
	total    uint64
	done     atomic.Uint64
	callback ProgressCallback
}

// NewFactorTracker creates a tracker for a product of total factors.
func NewFactorTracker(total uint64, callback ProgressCallback) *FactorTracker {
	if callback == nil {
		callback = func(float64) {}
	}
	return &FactorTracker{total: total, callback: callback}
}

// Add records that count more factors have been multiplied and reports the
// new fraction.
func (t *FactorTracker) Add(count uint64) {
	done := t.done.Add(count)
	if t.total == 0 {
		t.callback(1.0)
		return
	}
	t.callback(float64(done) / float64(t.total))
}

// Done reports completion. Used once all workers have joined so listeners
// always see 1.0, including for empty products.
func (t *FactorTracker) Done() {
	t.callback(1.0)
}
