package format

import (
	"fmt"
	"strings"
	"time"
)

// ProgressState tracks the progress of several concurrent calculators and
// their average.
type ProgressState struct {
	progresses     []float64
	numCalculators int
}

// NewProgressState tracks numCalculators calculators, all starting at 0.
func NewProgressState(numCalculators int) *ProgressState {
	return &ProgressState{
		progresses:     make([]float64, max(numCalculators, 0)),
		numCalculators: numCalculators,
	}
}

// Update records value for calculator index. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (ps *ProgressState) Update(index int, value float64) {
	if index >= 0 && index < len(ps.progresses) {
		ps.progresses[index] = clamp01(value)
	}
}

// CalculateAverage returns the mean progress over all calculators.
func (ps *ProgressState) CalculateAverage() float64 {
	if ps.numCalculators <= 0 {
		return 0
	}
	var sum float64
	for _, p := range ps.progresses {
		sum += p
	}
	return sum / float64(ps.numCalculators)
}

// maxETA caps estimates made from very slow early rates.
const maxETA = 24 * time.Hour

// rateSmoothing is the weight of the newest sample in the exponential moving
// average of the progress rate.
const rateSmoothing = 0.3

// ProgressWithETA extends ProgressState with a smoothed completion rate to
// estimate the remaining time.
type ProgressWithETA struct {
	*ProgressState
	numCalculators int
	startTime      time.Time
	lastUpdate     time.Time
	lastProgress   float64
	progressRate   float64 // average progress per second
}

// NewProgressWithETA starts the ETA clock for numCalculators calculators.
func NewProgressWithETA(numCalculators int) *ProgressWithETA {
	now := time.Now()
	return &ProgressWithETA{
		ProgressState:  NewProgressState(numCalculators),
		numCalculators: numCalculators,
		startTime:      now,
		lastUpdate:     now,
	}
}

// UpdateWithETA records value for calculator index and returns the new
// average together with the remaining-time estimate.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()

	now := time.Now()
	if elapsed := now.Sub(p.lastUpdate).Seconds(); elapsed > 0 && avg > p.lastProgress {
		rate := (avg - p.lastProgress) / elapsed
		if p.progressRate == 0 {
			p.progressRate = rate
		} else {
			p.progressRate = rateSmoothing*rate + (1-rateSmoothing)*p.progressRate
		}
		p.lastUpdate = now
		p.lastProgress = avg
	}
	return avg, p.GetETA()
}

// GetETA returns the current estimate, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	return min(eta, maxETA)
}

// ProgressBar renders progress as a bar of length runes.
func ProgressBar(progress float64, length int) string {
	count := int(clamp01(progress) * float64(length))
	var b strings.Builder
	b.Grow(length * 3)
	for i := 0; i < length; i++ {
		if i < count {
			b.WriteRune('█')
		} else {
			b.WriteRune('░')
		}
	}
	return b.String()
}

// FormatProgressBarWithETA renders "[bar]  42.00% ETA: 3s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	return fmt.Sprintf("[%s] %6.2f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, FormatETA(eta))
}

func clamp01(v float64) float64 {
	return min(max(v, 0), 1)
}
