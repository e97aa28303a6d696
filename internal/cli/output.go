// Naming in this package: Display* functions write to an io.Writer, Format*
// functions return strings, Write* functions write files.

package cli

import (
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"time"

	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/ui"
)

// OutputConfig controls how a single result is emitted.
type OutputConfig struct {
	// OutputFile receives the result when non-empty.
	OutputFile string
	// Quiet prints only the value.
	Quiet bool
	// Verbose disables truncation.
	Verbose bool
	// Details adds timing, size and digit count.
	Details bool
}

// FormatResultLine renders "N! = value", truncating values longer than
// TruncationLimit digits unless verbose is set.
func FormatResultLine(result *big.Int, n uint64, verbose bool) string {
	s := result.String()
	if !verbose && len(s) > TruncationLimit {
		s = fmt.Sprintf("%s...%s (truncated, %d digits)", s[:DisplayEdges], s[len(s)-DisplayEdges:], len(s))
	}
	return fmt.Sprintf("%d! = %s", n, s)
}

// DisplayResult prints the result line followed, with details, by timing and
// size information.
func DisplayResult(result *big.Int, n uint64, duration time.Duration, verbose, details bool, out io.Writer) {
	fmt.Fprintf(out, "%s%s%s\n", ui.ColorGreen(), FormatResultLine(result, n, verbose), ui.ColorReset())
	if !verbose && len(result.String()) > TruncationLimit {
		fmt.Fprintf(out, "%sTip: use --verbose to print every digit.%s\n", ui.ColorYellow(), ui.ColorReset())
	}
	if !details {
		return
	}
	digits := len(result.String())
	if result.Sign() < 0 {
		digits--
	}
	fmt.Fprintf(out, "\n%sDetailed result analysis%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "  Calculation time:   %s%s%s\n", ui.ColorYellow(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(out, "  Result binary size: %s%s%s bits\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(result.BitLen())), ui.ColorReset())
	fmt.Fprintf(out, "  Number of digits:   %s%s%s\n", ui.ColorCyan(), format.FormatNumberString(fmt.Sprint(digits)), ui.ColorReset())
	if digits <= TruncationLimit {
		fmt.Fprintf(out, "  Grouped value:      %s\n", format.FormatNumberString(result.String()))
	}
}

// FormatQuietResult returns the bare value.
func FormatQuietResult(result *big.Int) string {
	return result.String()
}

// DisplayQuietResult prints the bare value on its own line.
func DisplayQuietResult(out io.Writer, result *big.Int) {
	fmt.Fprintln(out, FormatQuietResult(result))
}

// WriteResultToFile saves result with a commented header to path, creating
// parent directories as needed.
func WriteResultToFile(path string, result *big.Int, n uint64, workers int, duration time.Duration, algo string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	fmt.Fprintf(f, "# Factorial Calculation Result\n")
	fmt.Fprintf(f, "# Generated: %s\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(f, "# Algorithm: %s\n", algo)
	fmt.Fprintf(f, "# Workers: %d\n", workers)
	fmt.Fprintf(f, "# Duration: %s\n", duration)
	fmt.Fprintf(f, "# Bits: %d\n\n", result.BitLen())
	fmt.Fprintf(f, "%d! = %s\n", n, result.String())

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}

// DisplayResultWithConfig prints result according to cfg and saves it to
// cfg.OutputFile when set.
func DisplayResultWithConfig(out io.Writer, result *big.Int, n uint64, workers int, duration time.Duration, algo string, cfg OutputConfig) error {
	if cfg.Quiet {
		DisplayQuietResult(out, result)
	} else {
		DisplayResult(result, n, duration, cfg.Verbose, cfg.Details, out)
	}

	if cfg.OutputFile == "" {
		return nil
	}
	if err := WriteResultToFile(cfg.OutputFile, result, n, workers, duration, algo); err != nil {
		return err
	}
	if !cfg.Quiet {
		fmt.Fprintf(out, "\n%s✓ Result saved to: %s%s%s\n", ui.ColorGreen(), ui.ColorCyan(), cfg.OutputFile, ui.ColorReset())
	}
	return nil
}
