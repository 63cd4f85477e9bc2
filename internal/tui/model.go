package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/fibseq/internal/errors"
	"github.com/agbru/fibseq/internal/fibonacci"
	"github.com/agbru/fibseq/internal/generator"
	"github.com/agbru/fibseq/internal/logging"
	"github.com/agbru/fibseq/internal/metrics"
	"github.com/agbru/fibseq/internal/orchestration"
	"github.com/agbru/fibseq/internal/sysmon"
)

// Layout constants for the dashboard.
const (
	headerHeight           = 1
	footerHeight           = 1
	minBodyHeight          = 4
	TermsPanelWidthPercent = 45
	tickInterval           = 250 * time.Millisecond
)

// Options configures one dashboard session.
type Options struct {
	Range      generator.Range
	Budget     generator.Budget
	Calculator fibonacci.Calculator
	Probe      metrics.MemoryProbe
	TermDelay  time.Duration
	Logger     logging.Logger
	Recorder   metrics.Recorder
	Version    string
}

// ExecutionState holds the execution-related fields of a session.
type ExecutionState struct {
	ctx        context.Context
	cancel     context.CancelFunc
	generation uint64
	done       bool
	exitCode   int
}

// LayoutManager holds terminal dimensions and provides layout calculations.
type LayoutManager struct {
	width  int
	height int
}

func (l LayoutManager) bodyHeight() int {
	return max(l.height-headerHeight-footerHeight, minBodyHeight)
}

func (l LayoutManager) termsWidth() int {
	return l.width * TermsPanelWidthPercent / 100
}

func (l LayoutManager) budgetWidth() int {
	return l.width - l.termsWidth()
}

// Model is the root bubbletea model of the dashboard.
type Model struct {
	header HeaderModel
	terms  TermsModel
	budget BudgetModel
	footer FooterModel
	keymap KeyMap

	ExecutionState
	LayoutManager

	parentCtx context.Context
	opts      Options
	ref       *programRef
	paused    bool
}

// NewModel creates a dashboard model. The run starts from Init.
func NewModel(parentCtx context.Context, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = logging.NewNopLogger()
	}
	if opts.Recorder == nil {
		opts.Recorder = metrics.NopRecorder{}
	}
	probeName := "none"
	if opts.Probe != nil {
		probeName = opts.Probe.Name()
	}

	ctx, cancel := context.WithCancel(parentCtx)
	km := DefaultKeyMap()
	return Model{
		header: NewHeaderModel(opts.Version, opts.Range, opts.Calculator.Name()),
		terms:  NewTermsModel(),
		budget: NewBudgetModel(opts.Budget, probeName),
		footer: NewFooterModel(km),
		keymap: km,
		ExecutionState: ExecutionState{
			ctx:      ctx,
			cancel:   cancel,
			exitCode: apperrors.ExitSuccess,
		},
		parentCtx: parentCtx,
		opts:      opts,
		ref:       &programRef{},
	}
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(),
		startRunCmd(m.ref, m.ctx, m.opts, m.generation),
		watchContextCmd(m.parentCtx),
	)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutPanels()
		return m, nil

	case TermMsg:
		if msg.Generation != m.generation || m.paused {
			return m, nil
		}
		m.terms.Add(msg.Update)
		m.budget.UpdateProgress(msg.Progress, msg.ETA)
		return m, nil

	case TickMsg:
		if m.done {
			return m, nil
		}
		if m.paused {
			return m, tickCmd()
		}
		return m, tea.Batch(sampleProbeCmd(m.opts.Probe), sampleSysStatsCmd(), tickCmd())

	case ProbeMsg:
		m.budget.UpdateUsage(msg.Usage, msg.Err)
		return m, nil

	case SysStatsMsg:
		m.budget.UpdateSys(msg.CPUPercent, msg.MemPercent)
		return m, nil

	case RunCompleteMsg:
		if msg.Generation != m.generation {
			return m, nil // stale run from before a reset
		}
		m.done = true
		m.exitCode = apperrors.ExitCodeFor(orchestration.BudgetError(msg.Result, m.opts.Budget))
		m.terms.SetResult(m.opts.Range, msg.Result)
		if msg.Result.Complete(m.opts.Range) {
			m.budget.UpdateProgress(1, 0)
		}
		m.header.SetDone()
		m.footer.SetDone(msg.Result.Cause)
		return m, nil

	case ContextCancelledMsg:
		m.cancel()
		m.exitCode = apperrors.ExitErrorCanceled
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		if !m.done {
			m.exitCode = apperrors.ExitErrorCanceled
		}
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Pause):
		if m.done {
			return m, nil
		}
		m.paused = !m.paused
		m.footer.SetPaused(m.paused)
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.cancel()

		m.generation++
		ctx, cancel := context.WithCancel(m.parentCtx)
		m.ctx = ctx
		m.cancel = cancel

		m.header.Reset()
		m.terms.Reset()
		m.budget.Reset()
		m.footer.Reset()
		m.done = false
		m.paused = false
		m.exitCode = apperrors.ExitSuccess

		return m, tea.Batch(tickCmd(), startRunCmd(m.ref, m.ctx, m.opts, m.generation))

	case key.Matches(msg, m.keymap.Up), key.Matches(msg, m.keymap.Down),
		key.Matches(msg, m.keymap.PageUp), key.Matches(msg, m.keymap.PageDown):
		m.terms.Update(msg)
		return m, nil
	}

	return m, nil
}

// View renders the entire dashboard.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Initializing..."
	}
	budget := m.budget.View(m.header.Elapsed())
	body := lipgloss.JoinHorizontal(lipgloss.Top, m.terms.View(), budget)
	return lipgloss.JoinVertical(lipgloss.Left, m.header.View(), body, m.footer.View())
}

// ExitCode returns the process exit code for the session so far.
func (m Model) ExitCode() int { return m.exitCode }

func (m *Model) layoutPanels() {
	m.header.SetWidth(m.width)
	m.footer.SetWidth(m.width)
	m.terms.SetSize(m.termsWidth(), m.bodyHeight())
	m.budget.SetSize(m.budgetWidth(), m.bodyHeight())
}

// Run is the public entry point for the -tui mode.
// It creates the bubbletea program, runs it, and returns the exit code.
func Run(ctx context.Context, opts Options) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model := NewModel(ctx, opts)
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	// Inject the program reference before running so bridge goroutines can Send.
	model.ref.SetProgram(p)

	finalModel, err := p.Run()
	if err != nil {
		if apperrors.IsContextError(err) || ctx.Err() != nil {
			return apperrors.ExitErrorCanceled
		}
		opts.Logger.Error("dashboard failed", err)
		return apperrors.ExitErrorGeneric
	}
	if m, ok := finalModel.(Model); ok {
		return m.exitCode
	}
	return apperrors.ExitSuccess
}

// startRunCmd returns a tea.Cmd that runs one generation and reports its
// progress through ref.
func startRunCmd(ref *programRef, ctx context.Context, opts Options, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan generator.ProgressUpdate, orchestration.ProgressBufferSize)
		forwarded := make(chan struct{})
		go func() {
			forwardProgress(ref, ch, gen)
			close(forwarded)
		}()

		g := generator.New(opts.Calculator, opts.Probe,
			generator.WithTermDelay(opts.TermDelay),
			generator.WithLogger(opts.Logger),
			generator.WithRecorder(opts.Recorder),
			generator.WithProgress(orchestration.ChannelProgress(ch)),
		)
		start := time.Now()
		res := g.Generate(ctx, opts.Range, opts.Budget)
		elapsed := time.Since(start)

		close(ch)
		<-forwarded
		return RunCompleteMsg{Result: res, Elapsed: elapsed, Generation: gen}
	}
}

// tickCmd returns a command that sends a TickMsg after tickInterval.
func tickCmd() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// sampleProbeCmd reads probe and returns a ProbeMsg, or nothing without a
// probe.
func sampleProbeCmd(probe metrics.MemoryProbe) tea.Cmd {
	if probe == nil {
		return nil
	}
	return func() tea.Msg {
		usage, err := probe.Usage()
		return ProbeMsg{Usage: usage, Err: err}
	}
}

// sampleSysStatsCmd reads system-wide CPU and memory stats and returns a SysStatsMsg.
func sampleSysStatsCmd() tea.Cmd {
	return func() tea.Msg {
		s := sysmon.Sample()
		return SysStatsMsg{CPUPercent: s.CPUPercent, MemPercent: s.MemPercent}
	}
}

// watchContextCmd waits for the session context to be done.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
