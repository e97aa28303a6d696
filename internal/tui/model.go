package tui

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	progressbar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/factcalc/internal/cli"
	"github.com/agbru/factcalc/internal/config"
	apperrors "github.com/agbru/factcalc/internal/errors"
	"github.com/agbru/factcalc/internal/factorial"
	"github.com/agbru/factcalc/internal/format"
	"github.com/agbru/factcalc/internal/orchestration"
	"github.com/agbru/factcalc/internal/sysmon"
)

const (
	tickInterval   = 500 * time.Millisecond
	maxLogLines    = 8
	sparklineWidth = 30
	minBarWidth    = 10
)

// ExecutionState is the per-run part of the model. generation increases on
// restart so messages from an abandoned run are ignored.
type ExecutionState struct {
	ctx         context.Context
	cancel      context.CancelFunc
	calculators []factorial.Calculator
	generation  uint64
	done        bool
	exitCode    int
}

// strategyRow is one progress line.
type strategyRow struct {
	name  string
	value float64
	bar   progressbar.Model
}

// Model is the root bubbletea model.
type Model struct {
	header  HeaderModel
	keymap  KeyMap
	help    help.Model
	rows    []strategyRow
	average float64
	eta     time.Duration

	cpu        *RingBuffer
	mem        *RingBuffer
	rss        uint64
	goroutines int
	sampler    *sysmon.Sampler

	logs   []string
	result *orchestration.CalculationResult
	failed bool

	ExecutionState

	width     int
	height    int
	parentCtx context.Context
	config    config.AppConfig
	ref       *programRef
	paused    bool
}

// NewModel builds the dashboard for calculators.
func NewModel(parentCtx context.Context, calculators []factorial.Calculator, cfg config.AppConfig, version string) Model {
	ctx, cancel := context.WithCancel(parentCtx)
	m := Model{
		header:  NewHeaderModel(version, cfg.N, cfg.Workers),
		keymap:  DefaultKeyMap(),
		help:    help.New(),
		cpu:     NewRingBuffer(sparklineWidth),
		mem:     NewRingBuffer(sparklineWidth),
		sampler: sysmon.NewSampler(),
		ExecutionState: ExecutionState{
			ctx:         ctx,
			cancel:      cancel,
			calculators: calculators,
			exitCode:    apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		config:    cfg,
		ref:       &programRef{},
	}
	for _, c := range calculators {
		m.rows = append(m.rows, strategyRow{
			name: c.Name(),
			bar:  progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithoutPercentage()),
		})
	}
	m.addLog(fmt.Sprintf("computing %d! with %d workers, %d strategies", cfg.N, cfg.Workers, len(calculators)))
	return m
}

// Init starts the run and the sampling ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startCalculationCmd(m.ref, m.ctx, m.calculators, m.config, m.generation),
		watchContextCmd(m.ctx, m.generation),
	)
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case ProgressMsg:
		if !m.paused && msg.CalculatorIndex >= 0 && msg.CalculatorIndex < len(m.rows) {
			m.rows[msg.CalculatorIndex].value = msg.Value
			m.average = msg.AverageProgress
			m.eta = msg.ETA
		}
		return m, nil

	case ProgressDoneMsg:
		return m, nil

	case ComparisonResultsMsg:
		for _, r := range msg.Results {
			if r.Err != nil {
				m.addLog(fmt.Sprintf("%s failed: %v", r.Name, r.Err))
				continue
			}
			m.addLog(fmt.Sprintf("%s finished in %s", r.Name, format.FormatExecutionDuration(r.Duration)))
		}
		return m, nil

	case FinalResultMsg:
		res := msg.Result
		m.result = &res
		m.addLog(fmt.Sprintf("result from %s", res.Name))
		return m, nil

	case ErrorMsg:
		m.failed = true
		m.addLog(fmt.Sprintf("error after %s: %v", format.FormatExecutionDuration(msg.Duration), msg.Err))
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleSysStatsCmd(m.sampler), tickCmd())

	case SysStatsMsg:
		m.cpu.Push(msg.CPUPercent)
		m.mem.Push(msg.MemPercent)
		m.rss = msg.ProcessRSS
		m.goroutines = msg.Goroutines
		return m, nil

	case CalculationCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.exitCode = msg.ExitCode
		m.header.SetDone()
		if msg.ExitCode == apperrors.ExitErrorMismatch {
			m.failed = true
			m.addLog("strategies disagree modulo 2^64")
		}
		return m, nil

	case ContextCancelledMsg:
		if msg.Generation != m.generation {
			return m, nil
		}
		m.done = true
		m.header.SetDone()
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		if m.cancel != nil {
			m.cancel()
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		m.paused = !m.paused
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		if m.cancel != nil {
			m.cancel()
		}
		m.generation++
		m.ctx, m.cancel = context.WithCancel(m.parentCtx)
		m.header.Reset()
		for i := range m.rows {
			m.rows[i].value = 0
		}
		m.average, m.eta = 0, 0
		m.cpu.Reset()
		m.mem.Reset()
		m.logs = nil
		m.result = nil
		m.failed, m.done, m.paused = false, false, false
		m.exitCode = apperrors.ExitSuccess
		m.addLog("restarted")
		return m, tea.Batch(
			tickCmd(),
			startCalculationCmd(m.ref, m.ctx, m.calculators, m.config, m.generation),
			watchContextCmd(m.ctx, m.generation),
		)
	}
	return m, nil
}

func (m *Model) addLog(line string) {
	m.logs = append(m.logs, dimStyle.Render(time.Now().Format("15:04:05"))+" "+line)
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m *Model) layout() {
	m.header.SetWidth(m.width)
	m.help.Width = m.width
	barWidth := max(m.width-m.nameWidth()-16, minBarWidth)
	for i := range m.rows {
		m.rows[i].bar.Width = barWidth
	}
}

func (m Model) status() string {
	switch {
	case m.failed:
		return errorStyle.Bold(true).Render("FAILED")
	case m.done:
		return statusDoneStyle.Render("DONE")
	case m.paused:
		return statusPausedStyle.Render("PAUSED")
	}
	return statusRunningStyle.Render("RUNNING")
}

// View renders the dashboard.
func (m Model) View() string {
	if m.width == 0 {
		return "Initializing..."
	}
	innerWidth := max(m.width-2, 0)

	var strategies strings.Builder
	for i, r := range m.rows {
		if i > 0 {
			strategies.WriteByte('\n')
		}
		fmt.Fprintf(&strategies, "%-*s %s %6.2f%%", m.nameWidth(), r.name, r.bar.ViewAs(r.value), r.value*100)
	}
	strategies.WriteString("\n" + dimStyle.Render(fmt.Sprintf("average %.2f%%  ETA %s", m.average*100, format.FormatETA(m.eta))))

	system := fmt.Sprintf("CPU %s %5.1f%%   MEM %s %5.1f%%\nRSS %s   goroutines %d",
		cpuSparklineStyle.Render(RenderSparkline(m.cpu.Slice())), m.cpu.Last(),
		memSparklineStyle.Render(RenderSparkline(m.mem.Slice())), m.mem.Last(),
		format.FormatBytes(m.rss), m.goroutines)

	sections := []string{
		m.header.View(m.status()),
		panelStyle.Width(innerWidth).Render(strategies.String()),
		panelStyle.Width(innerWidth).Render(system),
		panelStyle.Width(innerWidth).Render(strings.Join(m.logs, "\n")),
	}
	if m.result != nil && m.result.Result != nil {
		line := cli.FormatResultLine(m.result.Result, m.config.N, m.config.Verbose)
		sections = append(sections, panelStyle.Width(innerWidth).Render(successStyle.Render(line)))
	}
	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) nameWidth() int {
	w := 0
	for _, r := range m.rows {
		w = max(w, lipgloss.Width(r.name))
	}
	return w
}

// Run starts the dashboard and returns the exit code of the run.
func Run(ctx context.Context, calculators []factorial.Calculator, cfg config.AppConfig, version string) int {
	initTUIStyles()

	model := NewModel(ctx, calculators, cfg, version)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		m.cancel()
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

func startCalculationCmd(ref *programRef, ctx context.Context, calculators []factorial.Calculator, cfg config.AppConfig, gen uint64) tea.Cmd {
	return func() tea.Msg {
		reporter := &TUIProgressReporter{ref: ref}
		presenter := &TUIResultPresenter{ref: ref}

		results := orchestration.ExecuteCalculations(ctx, calculators, cfg.N, factorial.Options{Workers: cfg.Workers}, reporter, io.Discard)
		opts := orchestration.PresentationOptions{N: cfg.N, Workers: cfg.Workers, Verbose: cfg.Verbose}
		exitCode := orchestration.AnalyzeComparisonResults(results, opts, presenter, presenter, io.Discard)
		return CalculationCompleteMsg{ExitCode: exitCode, Generation: gen}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func sampleSysStatsCmd(s *sysmon.Sampler) tea.Cmd {
	return func() tea.Msg {
		return SysStatsMsg(s.Sample())
	}
}

func watchContextCmd(ctx context.Context, gen uint64) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err(), Generation: gen}
	}
}
