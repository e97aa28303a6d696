package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/agbru/factcalc/internal/config"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/progress"
	"github.com/agbru/factcalc/internal/ui"
)

// REPLConfig holds the initial settings of an interactive session.
type REPLConfig struct {
	DefaultAlgo string
	Workers     int
	Timeout     time.Duration
}

// REPL is an interactive factorial session.
type REPL struct {
	config      REPLConfig
	factory     factorial.CalculatorFactory
	currentAlgo string
	in          io.Reader
	out         io.Writer
}

// NewREPL creates a session reading from stdin and writing to stdout.
func NewREPL(factory factorial.CalculatorFactory, config REPLConfig) *REPL {
	algo := config.DefaultAlgo
	if _, err := factory.Get(algo); err != nil {
		algo = factorial.DefaultAlgorithm
	}
	if config.Workers < 1 {
		config.Workers = 1
	}
	return &REPL{
		config:      config,
		factory:     factory,
		currentAlgo: algo,
		in:          os.Stdin,
		out:         os.Stdout,
	}
}

// SetInput replaces the input reader.
func (r *REPL) SetInput(in io.Reader) { r.in = in }

// SetOutput replaces the output writer.
func (r *REPL) SetOutput(out io.Writer) { r.out = out }

// Start runs the read-eval-print loop until "exit" or end of input.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)
	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"fact> "+ui.ColorReset())
		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(input) != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}
		if input = strings.TrimSpace(input); input == "" {
			continue
		}
		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sParallel Factorial - Interactive Mode%s    %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	cmd := func(name, help string) {
		fmt.Fprintf(r.out, "  %s%-14s%s - %s\n", ui.ColorYellow(), name, ui.ColorReset(), help)
	}
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	cmd("calc <n> [t]", "Calculate n! with the current strategy")
	cmd("workers <t>", "Change the worker count")
	cmd("algo <name>", "Change strategy ("+strings.Join(r.factory.List(), ", ")+")")
	cmd("compare <n>", "Run every strategy on n! and check they agree")
	cmd("list", "List strategies")
	cmd("status", "Show current settings")
	cmd("help", "Show this help")
	cmd("exit / quit", "Leave interactive mode")
}

// processCommand runs one command line. It returns false to end the session.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	cmd, args := strings.ToLower(parts[0]), parts[1:]

	switch cmd {
	case "calc", "c":
		r.cmdCalc(args)
	case "workers", "w", "t":
		r.cmdWorkers(args)
	case "algo", "a":
		r.cmdAlgo(args)
	case "compare", "cmp":
		r.cmdCompare(args)
	case "list", "ls":
		r.cmdList()
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		if _, err := strconv.ParseInt(cmd, 10, 64); err == nil {
			if n, ok := r.parseN(cmd); ok {
				r.calculate(n, r.config.Workers)
			}
			return true
		}
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}
	return true
}

// parseN parses a non-negative N, printing the problem otherwise.
func (r *REPL) parseN(s string) (uint64, bool) {
	v, err := strconv.ParseInt(s, 10, 64)
	switch {
	case err != nil:
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), s, ui.ColorReset())
		return 0, false
	case v < 0:
		fmt.Fprintf(r.out, "%sError: negative integer value entered (%d).%s\n", ui.ColorRed(), v, ui.ColorReset())
		return 0, false
	}
	return uint64(v), true
}

func (r *REPL) parseWorkers(s string) (int, bool) {
	t, err := strconv.Atoi(s)
	if err != nil || t < 1 || t > config.MaxWorkers {
		fmt.Fprintf(r.out, "%sError: invalid number of threads (%s).%s\n", ui.ColorRed(), s, ui.ColorReset())
		return 0, false
	}
	return t, true
}

func (r *REPL) cmdCalc(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: calc <n> [t]%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, ok := r.parseN(args[0])
	if !ok {
		return
	}
	workers := r.config.Workers
	if len(args) > 1 {
		if workers, ok = r.parseWorkers(args[1]); !ok {
			return
		}
	}
	r.calculate(n, workers)
}

func (r *REPL) calculate(n uint64, workers int) {
	calc, err := r.factory.Get(r.currentAlgo)
	if err != nil {
		fmt.Fprintf(r.out, "%s%v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	fmt.Fprintf(r.out, "Calculating %s%d!%s with %s%s%s on %d workers...\n",
		ui.ColorMagenta(), n, ui.ColorReset(), ui.ColorCyan(), calc.Name(), ui.ColorReset(), workers)

	progressChan := make(chan progress.ProgressUpdate, orchestration.ProgressBufferMultiplier)
	var wg sync.WaitGroup
	wg.Add(1)
	go DisplayProgress(&wg, progressChan, 1, r.out)

	start := time.Now()
	result, err := calc.Calculate(ctx, progressChan, 0, n, factorial.Options{Workers: workers})
	duration := time.Since(start)
	close(progressChan)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "\n  Time:   %s%s%s\n", ui.ColorGreen(), format.FormatExecutionDuration(duration), ui.ColorReset())
	fmt.Fprintf(r.out, "  Bits:   %s%d%s\n", ui.ColorCyan(), result.BitLen(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s%s%s\n\n", ui.ColorGreen(), FormatResultLine(result, n, false), ui.ColorReset())
}

func (r *REPL) cmdWorkers(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: workers <t>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	if t, ok := r.parseWorkers(args[0]); ok {
		r.config.Workers = t
		fmt.Fprintf(r.out, "Worker count changed to: %s%d%s\n", ui.ColorGreen(), t, ui.ColorReset())
	}
}

func (r *REPL) cmdAlgo(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: algo <name>%s\n", ui.ColorRed(), ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	name := strings.ToLower(args[0])
	calc, err := r.factory.Get(name)
	if err != nil {
		fmt.Fprintf(r.out, "%sUnknown strategy: %s%s\n", ui.ColorRed(), name, ui.ColorReset())
		fmt.Fprintf(r.out, "Available strategies: %s\n", strings.Join(r.factory.List(), ", "))
		return
	}
	r.currentAlgo = name
	fmt.Fprintf(r.out, "Strategy changed to: %s%s%s\n", ui.ColorGreen(), calc.Name(), ui.ColorReset())
}

func (r *REPL) cmdCompare(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: compare <n>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	n, ok := r.parseN(args[0])
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()
	calcs := orchestration.GetCalculatorsToRun("all", r.factory)
	results := orchestration.ExecuteCalculations(ctx, calcs, n, factorial.Options{Workers: r.config.Workers},
		orchestration.NullProgressReporter{}, io.Discard)

	fmt.Fprintf(r.out, "\n%sComparison for %d!:%s\n", ui.ColorBold(), n, ui.ColorReset())
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n", ui.ColorCyan(), ui.ColorReset())
	CLIResultPresenter{}.PresentComparisonTable(results, r.out)
	if orchestration.Mismatch(results) {
		fmt.Fprintf(r.out, "%s✗ INCONSISTENT results%s\n", ui.ColorRed(), ui.ColorReset())
	} else {
		fmt.Fprintf(r.out, "%s✓ All strategies agree modulo 2^64%s\n", ui.ColorGreen(), ui.ColorReset())
	}
	fmt.Fprintf(r.out, "%s─────────────────────────────────────────────%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) cmdList() {
	fmt.Fprintf(r.out, "\n%sAvailable strategies:%s\n", ui.ColorBold(), ui.ColorReset())
	for _, name := range r.factory.List() {
		calc, err := r.factory.Get(name)
		if err != nil {
			continue
		}
		marker := "  "
		if name == r.currentAlgo {
			marker = ui.ColorGreen() + "► " + ui.ColorReset()
		}
		fmt.Fprintf(r.out, "%s%s%-8s%s - %s\n", marker, ui.ColorYellow(), name, ui.ColorReset(), calc.Name())
	}
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Strategy: %s%s%s\n", ui.ColorCyan(), r.currentAlgo, ui.ColorReset())
	fmt.Fprintf(r.out, "  Workers:  %s%d%s\n", ui.ColorCyan(), r.config.Workers, ui.ColorReset())
	fmt.Fprintf(r.out, "  Timeout:  %s%s%s\n\n", ui.ColorCyan(), r.config.Timeout, ui.ColorReset())
}
