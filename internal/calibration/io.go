package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/ui"
)

func printCalibrationResults(out io.Writer, results []calibrationResult, best int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sWorkers%s    │ %sExecution Time%s\n", ui.ColorUnderline(), ui.ColorReset(), ui.ColorUnderline(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s┼%s\n", strings.Repeat("─", 12), strings.Repeat("─", 25))
	for _, res := range results {
		duration := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			duration = format.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Workers == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%-10d%s │ %s%s%s%s\n", ui.ColorCyan(), res.Workers, ui.ColorReset(), ui.ColorYellow(), duration, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

func printCalibrationOutput(out io.Writer, best int, path string) {
	fmt.Fprintf(out, "%sCalibration complete%s: %s%d%s workers, saved to %s\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), best, ui.ColorReset(), path)
}
