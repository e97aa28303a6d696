package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/factcalc/internal/calibration"
	"github.com/agbru/factcalc/internal/cli"
	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/logging"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/server"
	"github.com/agbru/factcalc/internal/tui"
	"github.com/agbru/factcalc/internal/ui"
)

// Application is one factcalc invocation.
type Application struct {
	Config    config.AppConfig
	Factory   factorial.CalculatorFactory
	ErrWriter io.Writer
	In        io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets the calculator registry.
func WithFactory(f factorial.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader used by --prompt and --interactive.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.In = in }
}

// New parses args (args[0] is the program name) and resolves the worker count.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = factorial.NewDefaultFactory()
	}

	programName := "factcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	if withProfile, loaded := calibration.LoadCachedCalibration(cfg); loaded {
		cfg = withProfile
	}
	app.Config = config.ApplyAdaptiveWorkers(cfg)
	return app, nil
}

// Run executes the selected mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Completion != "" {
		return a.runCompletion(out)
	}

	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.ServerAddr != "":
		return a.runServer(ctx)
	case a.Config.Interactive:
		return a.runREPL(out)
	case a.Config.Prompt:
		if code := a.runPrompt(out); code != apperrors.ExitSuccess {
			return code
		}
	}
	if a.Config.TUI {
		return a.runTUI(ctx)
	}
	return a.runCalculate(ctx, out)
}

func (a *Application) runCompletion(out io.Writer) int {
	if err := cli.GenerateCompletion(out, a.Config.Completion, a.Factory.List()); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return calibration.RunCalibration(ctx, a.Config, a.Factory, out)
}

func (a *Application) runServer(ctx context.Context) int {
	srv := server.NewServer(a.Factory, a.Config, logging.NewLogger(a.ErrWriter, "server"))
	if err := srv.Start(ctx); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(a.Factory, cli.REPLConfig{
		DefaultAlgo: a.Config.Algo,
		Workers:     a.Config.Workers,
		Timeout:     a.Config.Timeout,
	})
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runPrompt replaces N and the worker count with values read from a.In.
func (a *Application) runPrompt(out io.Writer) int {
	n, workers, err := cli.PromptInputs(a.In, out)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.Config.N, a.Config.Workers = n, workers
	return apperrors.ExitSuccess
}

func (a *Application) runTUI(ctx context.Context) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	return tui.Run(ctx, orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory), a.Config, Version)
}

// IsHelpError reports whether err comes from --help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}

// HandleStartupError reports an error returned by New and returns the exit
// code. Flag syntax errors have already been printed with the usage text.
func HandleStartupError(err error, w io.Writer) int {
	if IsHelpError(err) {
		return apperrors.ExitSuccess
	}
	fmt.Fprintf(w, "Error: %v\n", err)
	return apperrors.ExitErrorConfig
}
