//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/ui"
)

const (
	// TruncationLimit is the number of digits above which results are
	// shortened unless --verbose is given.
	TruncationLimit = 100
	// DisplayEdges is how many leading and trailing digits a truncated
	// result keeps.
	DisplayEdges = 25
	// ProgressRefreshRate is the spinner tick.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the bar width in runes.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	// Start begins the animation.
	Start()
	// Stop halts the animation.
	Stop()
	// UpdateSuffix sets the text shown after the spinner.
	UpdateSuffix(suffix string)
}

// realSpinner adapts briandowns/spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start()                     { rs.s.Start() }
func (rs *realSpinner) Stop()                      { rs.s.Stop() }
func (rs *realSpinner) UpdateSuffix(suffix string) { rs.s.Suffix = suffix }

// newSpinner is replaced in tests.
var newSpinner = func(options ...spinner.Option) Spinner {
	return &realSpinner{spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed. It calls wg.Done on return.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numCalculators)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	label := "Computing"
	if agg.IsMultiCalculator() {
		label = fmt.Sprintf("Computing (%d strategies)", agg.NumCalculators())
	}
	render := func(avg float64, eta time.Duration) {
		s.UpdateSuffix(fmt.Sprintf(" %s%s%s %s", ui.ColorCyan(), label, ui.ColorReset(),
			format.FormatProgressBarWithETA(avg, eta, ProgressBarWidth)))
	}

	render(0, 0)
	s.Start()
	defer s.Stop()

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()

	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				render(agg.CalculateAverage(), 0)
				return
			}
			agg.Update(update)
		case <-ticker.C:
			render(agg.CalculateAverage(), agg.GetETA())
		}
	}
}
