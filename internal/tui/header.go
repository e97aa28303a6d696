package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/format"
)

// HeaderModel renders the top bar: title, N and T, status and elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	n         uint64
	workers   int
	width     int
}

// NewHeaderModel creates a header whose timer starts now.
func NewHeaderModel(version string, n uint64, workers int) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, n: n, workers: workers}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	h.endTime = time.Now()
}

// Reset restarts the timer.
func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// Elapsed returns the running or frozen duration.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

// View renders the header with status on the right.
func (h HeaderModel) View(status string) string {
	title := "Factorial Monitor"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	left := titleStyle.Render(title) +
		dimStyle.Render(" | ") +
		accentStyle.Render(fmt.Sprintf("%d! on %d workers", h.n, h.workers)) +
		dimStyle.Render(" | ") +
		accentStyle.Render("Elapsed: "+format.FormatExecutionDuration(h.Elapsed()))

	gap := max(h.width-2-lipgloss.Width(left)-lipgloss.Width(status), 1)
	return headerStyle.Width(max(h.width, 0)).Render(left + spaces(gap) + status)
}

func spaces(n int) string {
	b := make([]byte, max(n, 0))
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
