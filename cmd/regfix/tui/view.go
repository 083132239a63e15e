package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	overlay "github.com/rmhubbert/bubbletea-overlay"

	"github.com/joshuapare/regfix/pkg/types"
)

// View renders the entire UI
func (m Model) View() string {
	if m.mode == ConfirmMode {
		return overlay.New(
			confirmDialog{fixes: m.selectedFixes()},
			mainView{model: &m},
			overlay.Center,
			overlay.Center,
			0,
			0,
		).View()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	sections := []string{m.renderHeader()}
	if m.mode == OpenMode {
		sections = append(sections, m.input.View())
	}
	if m.result != nil {
		sections = append(sections, lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.renderFileInfo(),
			m.renderIssues(),
		))
	}
	sections = append(sections, m.renderStatus(), m.help.View(m.keys))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	path := "no file selected"
	if m.path != "" {
		path = m.path
	}
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("Registry Hive Repair"),
		"  ",
		pathStyle.Render(path),
	)
}

// renderFileInfo shows the header fields, highlighting the pairs that
// disagree.
func (m Model) renderFileInfo() string {
	fi := m.result.FileInfo
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Base Block") + "\n")

	row := func(label, value string, bad bool) {
		style := valueStyle
		if bad {
			style = mismatchStyle
		}
		b.WriteString(labelStyle.Render(label) + style.Render(value) + "\n")
	}
	row("Size", fmt.Sprintf("%d bytes", fi.Size), false)
	row("Signature", fi.Signature, fi.Signature != "regf")
	row("Sequence", fmt.Sprintf("%d / %d", fi.PrimarySequence, fi.SecondarySequence),
		fi.PrimarySequence != fi.SecondarySequence)
	row("Last Written", fi.LastWritten().Format("2006-01-02 15:04:05 UTC"), false)
	row("Version", fmt.Sprintf("%d.%d", fi.MajorVersion, fi.MinorVersion), false)
	row("File Type", fi.FileTypeName(), false)
	row("File Format", fi.FileFormatName(), false)
	row("Root Cell", fmt.Sprintf("0x%X", fi.RootCellOffset), false)
	row("Hive Bins", fmt.Sprintf("%d (measured %d)", fi.HiveBinsSize, fi.MeasuredHiveBinsSize),
		fi.HiveBinsSize != fi.MeasuredHiveBinsSize)
	row("Clustering", fmt.Sprintf("%d", fi.ClusteringFactor), false)
	row("Checksum", fmt.Sprintf("0x%08X (calc 0x%08X)", fi.StoredChecksum, fi.CalculatedChecksum),
		fi.StoredChecksum != fi.CalculatedChecksum)
	if fi.FileName != "" {
		row("File Name", fi.FileName, false)
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderIssues() string {
	var b strings.Builder
	b.WriteString(paneTitleStyle.Render("Issues") + "\n")
	if len(m.result.Issues) == 0 {
		b.WriteString(okStyle.Render("No issues found."))
		return paneStyle.Render(b.String())
	}

	for i, is := range m.result.Issues {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}
		box := "    "
		if t, ok := is.FixType(); ok {
			if m.selected[t] {
				box = "[x] "
			} else {
				box = "[ ] "
			}
		}
		sev := warningStyle
		if is.Severity == types.SevCritical {
			sev = criticalStyle
		}
		b.WriteString(cursor + box + sev.Render(is.Severity.String()+":") + " " + is.Message + "\n")
		if is.Details != "" {
			b.WriteString(detailStyle.Render(is.Details) + "\n")
		}
		if is.Fix != nil {
			b.WriteString(detailStyle.Render("fix: "+is.Fix.String()) + "\n")
		}
	}
	return paneStyle.Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderStatus() string {
	msg := m.statusMessage
	if m.busy {
		msg = m.spinner.View() + " " + msg
	}
	if m.err != nil {
		return statusStyle.Render(errorStyle.Render(msg))
	}
	if m.lastFix != nil && m.lastFix.BackupPath != "" && !m.busy {
		msg += "  " + pathStyle.Render("backup: "+m.lastFix.BackupPath)
	}
	return statusStyle.Render(msg)
}

// mainView is the overlay background.
type mainView struct {
	model *Model
}

func (v mainView) Init() tea.Cmd                       { return nil }
func (v mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v mainView) View() string                        { return v.model.renderMain() }

// confirmDialog asks before any byte of the hive is written.
type confirmDialog struct {
	fixes []types.FixType
}

func (d confirmDialog) Init() tea.Cmd                       { return nil }
func (d confirmDialog) Update(tea.Msg) (tea.Model, tea.Cmd) { return d, nil }

func (d confirmDialog) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Confirm Fixes") + "\n")
	b.WriteString(fmt.Sprintf("Apply %d fix(es) to this hive?\n\n", len(d.fixes)))
	structural := false
	for _, t := range d.fixes {
		b.WriteString("  - " + t.String() + "\n")
		if t.Structural() {
			structural = true
		}
	}
	b.WriteString("\nA backup will be created before making any changes.\n")
	if structural {
		b.WriteString("The checksum will be recalculated after the header is updated.\n")
	}
	b.WriteString("\n" + cursorStyle.Render("y") + " confirm   " + cursorStyle.Render("n") + " cancel")
	return modalStyle.Render(b.String())
}
