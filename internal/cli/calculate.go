package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/ui"
)

// PrintExecutionConfig prints the run parameters and the environment.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Calculating %s%d!%s with %s%d%s workers and a timeout of %s%s%s.\n",
		ui.ColorMagenta(), cfg.N, ui.ColorReset(),
		ui.ColorCyan(), cfg.Workers, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	if cfg.N > 20 && cfg.Algo != factorial.ExactAlgorithm && cfg.Algo != "all" {
		fmt.Fprintf(out, "%sNote: %d! exceeds 64 bits; the result wraps modulo 2^64 (use --algo big for the exact value).%s\n",
			ui.ColorYellow(), cfg.N, ui.ColorReset())
	}
}

// PrintExecutionMode prints whether one strategy runs or all are compared.
func PrintExecutionMode(calculators []factorial.Calculator, out io.Writer) {
	if len(calculators) > 1 {
		fmt.Fprintf(out, "Execution mode: parallel comparison of %d strategies.\n", len(calculators))
	} else {
		fmt.Fprintf(out, "Execution mode: single calculation with the %s%s%s strategy.\n",
			ui.ColorGreen(), calculators[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
