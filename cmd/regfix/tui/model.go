// Package tui is the interactive front end: pick a hive, read its header
// report, tick the fixes to apply and confirm. Analyses and fixes run on a
// worker.Runner so the interface keeps redrawing while the disk is busy.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/joshuapare/regfix/internal/worker"
	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

// Mode is what keyboard input currently drives.
type Mode int

const (
	BrowseMode  Mode = iota // issue list
	OpenMode                // typing a file path
	ConfirmMode             // fix confirmation dialog
)

// Options configures Run.
type Options struct {
	HiveOptions []hive.Option
	Logger      *slog.Logger
	NoColor     bool
}

// jobResultMsg carries a finished worker job into Update.
type jobResultMsg worker.Result

// jobSubmittedMsg reports a queued job, or why it could not be queued.
type jobSubmittedMsg struct {
	id   string
	kind worker.Kind
	err  error
}

// Model is the main application model
type Model struct {
	keys    KeyMap
	help    help.Model
	spinner spinner.Model
	input   textinput.Model
	runner  *worker.Runner
	logger  *slog.Logger

	mode     Mode
	showHelp bool
	width    int
	height   int

	path     string
	result   *types.AnalysisResult
	cursor   int // index into result.Issues
	selected map[types.FixType]bool
	lastFix  *types.FixResult

	// busy is set while a job is queued or running.
	busy bool

	// Status message for temporary feedback
	statusMessage string
	err           error
}

// NewModel creates a model that runs its jobs on runner. An empty path
// starts in OpenMode.
func NewModel(path string, runner *worker.Runner, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = cursorStyle

	in := textinput.New()
	in.Placeholder = "path to a registry hive (e.g. /mnt/c/Windows/System32/config/SYSTEM)"
	in.Prompt = "File: "
	in.CharLimit = 4096

	m := Model{
		keys:     DefaultKeyMap(),
		help:     help.New(),
		spinner:  sp,
		input:    in,
		runner:   runner,
		logger:   logger,
		path:     path,
		selected: make(map[types.FixType]bool),
	}
	if path == "" {
		m.mode = OpenMode
		m.input.Focus()
		m.statusMessage = "Select a registry file"
	}
	return m
}

// Init starts the spinner, the result listener and the first analysis.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, waitForResult(m.runner)}
	if m.path != "" {
		cmds = append(cmds, submit(m.runner, worker.Job{Kind: worker.KindAnalyze, Path: m.path}))
	}
	if m.mode == OpenMode {
		cmds = append(cmds, textinput.Blink)
	}
	return tea.Batch(cmds...)
}

// selectedFixes returns the ticked fix types in report order.
func (m Model) selectedFixes() []types.FixType {
	if m.result == nil {
		return nil
	}
	var out []types.FixType
	for _, t := range m.result.FixTypes() {
		if m.selected[t] {
			out = append(out, t)
		}
	}
	return out
}

// startJob marks the model busy and queues job.
func (m Model) startJob(job worker.Job, status string) (Model, tea.Cmd) {
	m.busy = true
	m.statusMessage = status
	m.err = nil
	m.logger.Debug("submitting job", "kind", job.Kind, "path", job.Path)
	return m, submit(m.runner, job)
}

// submit queues job on r.
func submit(r *worker.Runner, job worker.Job) tea.Cmd {
	return func() tea.Msg {
		id, err := r.Submit(context.Background(), job)
		return jobSubmittedMsg{id: id, kind: job.Kind, err: err}
	}
}

// waitForResult delivers the next finished job. Update re-arms it after
// every result; it yields nil once the runner is stopped.
func waitForResult(r *worker.Runner) tea.Cmd {
	return func() tea.Msg {
		res, ok := <-r.Results()
		if !ok {
			return nil
		}
		return jobResultMsg(res)
	}
}

// Run starts the interface and blocks until the user quits.
func Run(path string, opts Options) error {
	if opts.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	runner := worker.New(&worker.Config{
		Workers:   1,
		Reanalyze: true,
		Options:   opts.HiveOptions,
		Logger:    opts.Logger,
	})
	defer runner.Stop()

	p := tea.NewProgram(NewModel(strings.TrimSpace(path), runner, opts.Logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
