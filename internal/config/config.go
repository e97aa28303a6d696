// Package config parses and validates the factcalc command line.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/factcalc/internal/errors"
)

// EnvPrefix is prepended to every environment variable override.
const EnvPrefix = "FACTCALC_"

const (
	// DefaultN is computed when no N is given. 20! is the largest factorial
	// that fits in a signed 64-bit integer.
	DefaultN = 20
	// DefaultTimeout bounds a single run.
	DefaultTimeout = 5 * time.Minute
	// DefaultAlgo is the registry key used when --algo is not given.
	DefaultAlgo = "mutex"
	// DefaultLogLevel keeps normal runs free of log output.
	DefaultLogLevel = "warn"
	// MaxWorkers bounds the worker count from every input source.
	MaxWorkers = 4096
)

// AppConfig holds the fully resolved configuration of one invocation.
type AppConfig struct {
	// N is the factorial argument.
	N uint64
	// Workers is the number of concurrent workers. Zero until
	// ApplyAdaptiveWorkers or a calibration profile resolves it.
	Workers int
	// Algo is a calculator registry key, or "all" to compare every strategy.
	Algo string
	// Timeout bounds the calculation.
	Timeout time.Duration

	Verbose bool
	Details bool
	Quiet   bool
	NoColor bool

	// OutputFile, when set, receives the result.
	OutputFile string
	// LogLevel is a zerolog level name.
	LogLevel string

	Interactive bool
	Prompt      bool
	TUI         bool
	// ServerAddr switches to HTTP server mode when non-empty.
	ServerAddr string

	Calibrate          bool
	CalibrationProfile string
	// Completion names a shell to print a completion script for.
	Completion string
}

// completionShells are the shells with a completion generator.
var completionShells = []string{"bash", "zsh", "fish"}

// Validate checks the semantic constraints flags alone cannot express.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Workers < 0 {
		return apperrors.ValidationError{Field: "workers", Message: "must be at least 1"}
	}
	if c.Workers > MaxWorkers {
		return apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at most %d", MaxWorkers)}
	}
	if c.Timeout <= 0 {
		return apperrors.ValidationError{Field: "timeout", Message: "must be positive"}
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.ValidationError{
			Field:   "algo",
			Message: fmt.Sprintf("unknown algorithm %q (available: all, %s)", c.Algo, strings.Join(availableAlgos, ", ")),
		}
	}
	if c.Completion != "" && !slices.Contains(completionShells, c.Completion) {
		return apperrors.ValidationError{
			Field:   "completion",
			Message: fmt.Sprintf("unsupported shell %q (supported: %s)", c.Completion, strings.Join(completionShells, ", ")),
		}
	}
	if c.Quiet && c.TUI {
		return apperrors.ValidationError{Field: "quiet", Message: "cannot be combined with --tui"}
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig.
//
// N and the worker count can be given either as flags or positionally, as in
// "factcalc 20 4". Flags not set on the command line fall back to FACTCALC_*
// environment variables, then to defaults. Flag syntax errors are returned as
// apperrors.ConfigError and semantic failures as apperrors.ValidationError.
// flag.ErrHelp is returned unchanged for -h.
func ParseConfig(programName string, args []string, errWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	var (
		cfg     AppConfig
		n       int64
		workers int
	)

	fs.Int64Var(&n, "n", DefaultN, "The factorial argument to compute (N >= 0).")
	fs.IntVar(&workers, "workers", 0, "Number of concurrent workers (default: one per CPU).")
	fs.IntVar(&workers, "t", 0, "Shorthand for --workers.")
	fs.StringVar(&cfg.Algo, "algo", DefaultAlgo, fmt.Sprintf("Algorithm to use: all, %s.", strings.Join(availableAlgos, ", ")))
	fs.DurationVar(&cfg.Timeout, "timeout", DefaultTimeout, "Maximum run time (e.g. 30s, 5m).")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Print the full result without truncation.")
	fs.BoolVar(&cfg.Verbose, "v", false, "Shorthand for --verbose.")
	fs.BoolVar(&cfg.Details, "details", false, "Show timing and memory details.")
	fs.BoolVar(&cfg.Details, "d", false, "Shorthand for --details.")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Print only the result value.")
	fs.BoolVar(&cfg.Quiet, "q", false, "Shorthand for --quiet.")
	fs.StringVar(&cfg.OutputFile, "output", "", "Write the result to this file.")
	fs.StringVar(&cfg.OutputFile, "o", "", "Shorthand for --output.")
	fs.StringVar(&cfg.LogLevel, "log-level", DefaultLogLevel, "Log level: trace, debug, info, warn, error.")
	fs.BoolVar(&cfg.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&cfg.Interactive, "interactive", false, "Start an interactive session.")
	fs.BoolVar(&cfg.Interactive, "i", false, "Shorthand for --interactive.")
	fs.BoolVar(&cfg.Prompt, "prompt", false, "Read N and the worker count from standard input.")
	fs.BoolVar(&cfg.TUI, "tui", false, "Run inside the terminal dashboard.")
	fs.StringVar(&cfg.ServerAddr, "server", "", "Serve the HTTP API on this address (e.g. :8080).")
	fs.BoolVar(&cfg.Calibrate, "calibrate", false, "Benchmark worker counts and save the best one.")
	fs.StringVar(&cfg.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile.")
	fs.StringVar(&cfg.Completion, "completion", "", "Print a completion script for bash, zsh or fish.")

	parseFlags := func(args []string) error {
		err := fs.Parse(args)
		if err == nil || errors.Is(err, flag.ErrHelp) {
			return err
		}
		return apperrors.NewConfigError("%v", err)
	}
	if err := parseFlags(args); err != nil {
		return cfg, err
	}
	// flag stops at the first positional; resume after each one so flags may
	// follow N and T.
	var positional []string
	for input := args; fs.NArg() > 0; {
		rest := fs.Args()
		if consumed := len(input) - len(rest); consumed > 0 && input[consumed-1] == "--" {
			positional = append(positional, rest...)
			break
		}
		positional = append(positional, rest[0])
		input = rest[1:]
		if err := parseFlags(input); err != nil {
			return cfg, err
		}
	}

	nSet := isFlagSet(fs, "n")
	workersSet := isFlagSetAny(fs, "workers", "t")

	switch rest := positional; {
	case len(rest) > 2:
		return cfg, apperrors.NewConfigError("too many arguments: %s", strings.Join(rest, " "))
	case len(rest) >= 1:
		if nSet {
			return cfg, apperrors.NewConfigError("N given both as -n and as an argument")
		}
		parsed, err := strconv.ParseInt(rest[0], 10, 64)
		if err != nil {
			return cfg, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("invalid number %q", rest[0])}
		}
		n, nSet = parsed, true
		if len(rest) == 2 {
			if workersSet {
				return cfg, apperrors.NewConfigError("worker count given both as --workers and as an argument")
			}
			parsed, err := strconv.Atoi(rest[1])
			if err != nil {
				return cfg, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("invalid number %q", rest[1])}
			}
			workers, workersSet = parsed, true
		}
	}

	if n < 0 {
		return cfg, apperrors.ValidationError{Field: "n", Message: fmt.Sprintf("must be non-negative, got %d", n)}
	}
	if workersSet && workers < 1 {
		return cfg, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at least 1, got %d", workers)}
	}
	if workers > MaxWorkers {
		return cfg, apperrors.ValidationError{Field: "workers", Message: fmt.Sprintf("must be at most %d, got %d", MaxWorkers, workers)}
	}
	cfg.N = uint64(n)
	cfg.Workers = workers

	explicit := func(names ...string) bool {
		switch {
		case slices.Contains(names, "n"):
			return nSet
		case slices.Contains(names, "workers"):
			return workersSet
		}
		return isFlagSetAny(fs, names...)
	}
	if err := applyEnvOverrides(&cfg, explicit); err != nil {
		return cfg, err
	}

	if err := cfg.Validate(availableAlgos); err != nil {
		return cfg, err
	}
	return cfg, nil
}
