package tui

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/regfix/internal/report"
	"github.com/joshuapare/regfix/internal/worker"
	"github.com/joshuapare/regfix/pkg/types"
)

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(msg.Width-len(m.input.Prompt)-4, 10)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case jobSubmittedMsg:
		if msg.err != nil {
			m.busy = false
			m.err = msg.err
			m.statusMessage = fmt.Sprintf("Could not start %s: %v", msg.kind, msg.err)
			return m, nil
		}
		m.logger.Debug("job queued", "job", msg.id, "kind", msg.kind)
		return m, nil

	case jobResultMsg:
		return m.handleResult(worker.Result(msg)), waitForResult(m.runner)
	}

	if m.mode == OpenMode {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

// handleResult folds a finished job into the model.
func (m Model) handleResult(res worker.Result) Model {
	m.logger.Debug("job result", "kind", res.Kind, "path", res.Path, "error", res.Err)

	// A result for a file the user has since moved away from is stale.
	if res.Path != m.path {
		return m
	}
	m.busy = false
	m.err = res.Err

	switch res.Kind {
	case worker.KindAnalyze:
		if res.Err != nil {
			m.statusMessage = fmt.Sprintf("Analysis failed: %v", res.Err)
			return m
		}
		m.setResult(res.Analysis)
		m.statusMessage = analysisStatus(res.Analysis)

	case worker.KindFix:
		if res.Fix != nil {
			m.lastFix = res.Fix
		}
		switch {
		case res.Analysis != nil:
			m.setResult(res.Analysis)
		case res.Fix.Changed():
			// Bytes were written but the file could not be re-read.
			m.result = nil
			m.cursor = 0
		}
		if res.Err != nil {
			m.statusMessage = fmt.Sprintf("Fix failed: %v", res.Err)
			if m.result == nil {
				m.statusMessage += " (press r to re-analyze)"
			}
			return m
		}
		m.statusMessage = fixStatus(res.Fix)

	case worker.KindRestore:
		if res.Analysis != nil {
			m.setResult(res.Analysis)
		}
		if res.Err != nil {
			m.statusMessage = fmt.Sprintf("Restore failed: %v", res.Err)
			return m
		}
		m.lastFix = nil
		m.statusMessage = "Restored from backup"
	}
	return m
}

// setResult replaces the report and drops selections it no longer offers.
func (m *Model) setResult(res *types.AnalysisResult) {
	m.result = res
	offered := make(map[types.FixType]bool)
	for _, t := range res.FixTypes() {
		offered[t] = true
	}
	for t := range m.selected {
		if !offered[t] {
			delete(m.selected, t)
		}
	}
	if m.cursor >= len(res.Issues) {
		m.cursor = max(len(res.Issues)-1, 0)
	}
}

func analysisStatus(res *types.AnalysisResult) string {
	if len(res.Issues) == 0 {
		return "Analysis complete: no issues found"
	}
	return fmt.Sprintf("Analysis complete: %d critical, %d warning",
		res.Count(types.SevCritical), res.Count(types.SevWarning))
}

func fixStatus(res *types.FixResult) string {
	if !res.Changed() {
		return "Nothing to fix"
	}
	names := make([]string, len(res.Applied))
	for i, t := range res.Applied {
		names[i] = t.String()
	}
	status := "Fixes applied successfully"
	if len(names) > 0 {
		status += ": " + strings.Join(names, ", ")
	}
	if res.BackupPath != "" {
		status += " (backup: " + res.BackupPath + ")"
	}
	return status
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.mode {
	case OpenMode:
		return m.handleOpenKey(msg)
	case ConfirmMode:
		return m.handleConfirmKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		m.help.ShowAll = m.showHelp
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if m.result != nil && m.cursor < len(m.result.Issues)-1 {
			m.cursor++
		}
		return m, nil

	case key.Matches(msg, m.keys.Toggle):
		m.toggleCurrent()
		return m, nil

	case key.Matches(msg, m.keys.SelectAll):
		if m.result == nil {
			return m, nil
		}
		offered := m.result.FixTypes()
		if len(offered) == 0 {
			m.statusMessage = "No fixable issues"
			return m, nil
		}
		for _, t := range offered {
			m.selected[t] = true
		}
		m.statusMessage = fmt.Sprintf("Selected %d fix(es)", len(offered))
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.result == nil {
			return m, nil
		}
		if err := copyReport(m.result); err != nil {
			m.statusMessage = fmt.Sprintf("Copy failed: %v", err)
		} else {
			m.statusMessage = "Report copied to clipboard"
		}
		return m, nil

	case key.Matches(msg, m.keys.Open):
		if m.busy {
			return m, nil
		}
		m.mode = OpenMode
		m.input.SetValue(m.path)
		m.input.CursorEnd()
		return m, m.input.Focus()
	}

	if m.busy || m.path == "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Fix):
		if len(m.selectedFixes()) == 0 {
			m.statusMessage = "No fixes selected"
			return m, nil
		}
		m.mode = ConfirmMode
		return m, nil

	case key.Matches(msg, m.keys.Refresh):
		return m.startJob(worker.Job{Kind: worker.KindAnalyze, Path: m.path}, "Analyzing...")

	case key.Matches(msg, m.keys.Restore):
		return m.startJob(worker.Job{Kind: worker.KindRestore, Path: m.path}, "Restoring from backup...")
	}
	return m, nil
}

// toggleCurrent flips the selection of the fix offered by the issue under
// the cursor. Issues sharing a fix type toggle together.
func (m *Model) toggleCurrent() {
	if m.result == nil || m.cursor >= len(m.result.Issues) {
		return
	}
	t, ok := m.result.Issues[m.cursor].FixType()
	if !ok {
		m.statusMessage = "This issue has no automatic fix"
		return
	}
	if m.selected[t] {
		delete(m.selected, t)
	} else {
		m.selected[t] = true
	}
}

// copyReport puts the plain-text report on the system clipboard.
func copyReport(res *types.AnalysisResult) error {
	var buf strings.Builder
	if err := report.WriteText(&buf, res, report.TextOptions{NoColor: true}); err != nil {
		return err
	}
	return clipboard.WriteAll(buf.String())
}

func (m Model) handleOpenKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit

	case tea.KeyEsc:
		if m.path == "" {
			return m, tea.Quit
		}
		m.mode = BrowseMode
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		if path == "" {
			return m, nil
		}
		m.mode = BrowseMode
		m.input.Blur()
		m.path = path
		m.result = nil
		m.lastFix = nil
		m.cursor = 0
		m.selected = make(map[types.FixType]bool)
		return m.startJob(worker.Job{Kind: worker.KindAnalyze, Path: path}, "File selected. Analyzing...")
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		m.mode = BrowseMode
		job := worker.Job{
			Kind:     worker.KindFix,
			Path:     m.path,
			Selected: m.selectedFixes(),
			Analysis: m.result,
		}
		m.selected = make(map[types.FixType]bool)
		return m.startJob(job, "Applying fixes...")

	case key.Matches(msg, m.keys.Cancel), msg.Type == tea.KeyCtrlC:
		m.mode = BrowseMode
		m.statusMessage = "Fix cancelled"
		return m, nil
	}
	return m, nil
}
