package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regfix/internal/format"
	"github.com/joshuapare/regfix/internal/testutil"
	"github.com/joshuapare/regfix/internal/worker"
	"github.com/joshuapare/regfix/pkg/hive"
	"github.com/joshuapare/regfix/pkg/types"
)

// damagedSpec reports a hive bins size mismatch then a sequence mismatch,
// both fixable.
func damagedSpec() testutil.HiveSpec {
	spec := testutil.HealthySpec()
	spec.PrimarySequence = 5
	spec.SecondarySequence = 3
	spec.FileSize = format.HiveDataBase + 0x2000
	return spec
}

func analyzed(t *testing.T, spec testutil.HiveSpec) *TestHelper {
	t.Helper()
	path := testutil.WriteHive(t, spec)
	h := NewTestHelper(t, path).SendWindowSize(160, 50)
	return h.Submit(worker.Job{Kind: worker.KindAnalyze, Path: path})
}

func TestNewModel_StartsInOpenModeWithoutPath(t *testing.T) {
	h := NewTestHelper(t, "")
	assert.Equal(t, OpenMode, h.GetModel().mode)
	assert.Contains(t, h.GetView(), "no file selected")

	h = NewTestHelper(t, "/tmp/SYSTEM")
	assert.Equal(t, BrowseMode, h.GetModel().mode)
}

func TestModel_AnalysisResult(t *testing.T) {
	h := analyzed(t, damagedSpec())
	m := h.GetModel()

	require.NotNil(t, m.result)
	assert.False(t, m.busy)
	assert.Len(t, m.result.Issues, 2)
	assert.Equal(t, "Analysis complete: 0 critical, 2 warning", m.statusMessage)

	view := h.GetView()
	assert.Contains(t, view, "Hive bins size mismatch")
	assert.Contains(t, view, "Sequence numbers do not match")
	assert.Contains(t, view, "[ ]")
}

func TestModel_HealthyHive(t *testing.T) {
	h := analyzed(t, testutil.HealthySpec())
	assert.Equal(t, "Analysis complete: no issues found", h.GetModel().statusMessage)
	assert.Contains(t, h.GetView(), "No issues found.")
}

func TestModel_AnalysisError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing")
	h := NewTestHelper(t, path).Submit(worker.Job{Kind: worker.KindAnalyze, Path: path})

	m := h.GetModel()
	assert.Error(t, m.err)
	assert.Nil(t, m.result)
	assert.Contains(t, m.statusMessage, "Analysis failed")
}

func TestModel_CursorAndToggle(t *testing.T) {
	h := analyzed(t, damagedSpec())

	h.SendKeyRune(' ')
	assert.True(t, h.GetModel().selected[types.FixHiveBinsSize])

	h.SendKey(tea.KeyDown).SendKeyRune('x')
	assert.Equal(t, 1, h.GetModel().cursor)
	assert.Equal(t, []types.FixType{types.FixHiveBinsSize, types.FixSequenceNumbers}, h.GetModel().selectedFixes())

	// Cursor stops at the last issue.
	h.SendKey(tea.KeyDown)
	assert.Equal(t, 1, h.GetModel().cursor)

	h.SendKeyRune(' ')
	assert.Equal(t, []types.FixType{types.FixHiveBinsSize}, h.GetModel().selectedFixes())
	assert.Contains(t, h.GetView(), "[x]")
}

func TestModel_ToggleUnfixableIssue(t *testing.T) {
	spec := testutil.HealthySpec()
	spec.MajorVersion = 2
	h := analyzed(t, spec)

	h.SendKeyRune(' ')
	assert.Empty(t, h.GetModel().selected)
	assert.Equal(t, "This issue has no automatic fix", h.GetModel().statusMessage)

	h.SendKeyRune('a')
	assert.Equal(t, "No fixable issues", h.GetModel().statusMessage)
}

func TestModel_FixWithoutSelection(t *testing.T) {
	h := analyzed(t, damagedSpec())
	h.SendKeyRune('f')

	assert.Equal(t, BrowseMode, h.GetModel().mode)
	assert.Equal(t, "No fixes selected", h.GetModel().statusMessage)
}

func TestModel_ConfirmDialog(t *testing.T) {
	h := analyzed(t, damagedSpec())
	h.SendKeyRune('a').SendKeyRune('f')

	assert.Equal(t, ConfirmMode, h.GetModel().mode)
	view := h.GetView()
	assert.Contains(t, view, "Confirm Fixes")
	assert.Contains(t, view, "A backup will be created before making any changes.")
	assert.Contains(t, view, "The checksum will be recalculated")

	h.SendKey(tea.KeyEsc)
	assert.Equal(t, BrowseMode, h.GetModel().mode)
	assert.Equal(t, "Fix cancelled", h.GetModel().statusMessage)
	assert.Len(t, h.GetModel().selected, 2, "cancel keeps the selection")
}

func TestModel_ApplyFixes(t *testing.T) {
	h := analyzed(t, damagedSpec())
	path := h.GetModel().path

	h.SendKeyRune('a').SendKeyRune('f').SendKeyRune('y')
	m := h.GetModel()
	assert.True(t, m.busy)
	assert.Equal(t, "Applying fixes...", m.statusMessage)
	assert.Empty(t, m.selected)

	h.Await()
	m = h.GetModel()
	assert.False(t, m.busy)
	require.NoError(t, m.err)
	require.NotNil(t, m.lastFix)
	assert.Equal(t, hive.BackupPath(path), m.lastFix.BackupPath)
	assert.True(t, m.lastFix.ChecksumRecomputed)
	assert.Contains(t, m.statusMessage, "Fixes applied successfully: hive-bins-size, sequence-numbers")
	assert.Empty(t, m.result.Issues, "the hive is re-analyzed after fixing")

	_, err := os.Stat(hive.BackupPath(path))
	assert.NoError(t, err)
	assert.Equal(t, uint32(5), testutil.ReadU32At(t, path, format.REGFSecondarySeqOffset))
}

func TestModel_RestoreBackup(t *testing.T) {
	h := analyzed(t, damagedSpec())
	h.SendKeyRune('a').SendKeyRune('f').SendKeyRune('y').Await()
	require.Empty(t, h.GetModel().result.Issues)

	h.SendKeyRune('u').Await()
	m := h.GetModel()
	require.NoError(t, m.err)
	assert.Equal(t, "Restored from backup", m.statusMessage)
	assert.Len(t, m.result.Issues, 2)
	assert.Nil(t, m.lastFix)
}

func TestModel_RestoreWithoutBackup(t *testing.T) {
	h := analyzed(t, damagedSpec())
	h.SendKeyRune('u').Await()

	m := h.GetModel()
	assert.Error(t, m.err)
	assert.Contains(t, m.statusMessage, "Restore failed")
}

func TestModel_OpenFile(t *testing.T) {
	h := analyzed(t, testutil.HealthySpec())
	other := testutil.WriteHive(t, damagedSpec())

	h.SendKeyRune('o')
	require.Equal(t, OpenMode, h.GetModel().mode)

	// Replace the prefilled path.
	h.send(tea.KeyMsg{Type: tea.KeyCtrlU})
	h.TypeString(other).SendKey(tea.KeyEnter)
	m := h.GetModel()
	assert.Equal(t, BrowseMode, m.mode)
	assert.Equal(t, other, m.path)
	assert.Nil(t, m.result)
	assert.Equal(t, "File selected. Analyzing...", m.statusMessage)

	h.Await()
	assert.Len(t, h.GetModel().result.Issues, 2)
}

func TestModel_OpenFileEscape(t *testing.T) {
	h := analyzed(t, testutil.HealthySpec())
	h.SendKeyRune('o').SendKey(tea.KeyEsc)
	assert.Equal(t, BrowseMode, h.GetModel().mode)

	empty := NewTestHelper(t, "")
	empty.SendKey(tea.KeyEsc)
	require.NotNil(t, empty.cmd)
	assert.Equal(t, tea.Quit(), empty.cmd())
}

func TestModel_StaleResultIgnored(t *testing.T) {
	h := analyzed(t, damagedSpec())
	before := h.GetModel().result

	m := h.GetModel().handleResult(worker.Result{Kind: worker.KindAnalyze, Path: "/elsewhere", Analysis: &types.AnalysisResult{}})
	assert.Same(t, before, m.result)
}

func TestModel_BusyIgnoresCommands(t *testing.T) {
	h := analyzed(t, damagedSpec())
	h.model.busy = true

	h.SendKeyRune('r')
	assert.Nil(t, h.cmd)
	h.SendKeyRune('u')
	assert.Nil(t, h.cmd)
}

func TestModel_HelpToggle(t *testing.T) {
	h := analyzed(t, testutil.HealthySpec())
	h.SendKeyRune('?')
	assert.True(t, h.GetModel().showHelp)
	assert.Contains(t, h.GetView(), "restore backup")
	h.SendKeyRune('?')
	assert.False(t, h.GetModel().showHelp)
}

func TestModel_Quit(t *testing.T) {
	h := analyzed(t, testutil.HealthySpec())
	h.SendKeyRune('q')
	require.NotNil(t, h.cmd)
	assert.Equal(t, tea.Quit(), h.cmd())
}

func TestModel_FailedFixShowsFreshReport(t *testing.T) {
	h := analyzed(t, damagedSpec())
	path := h.GetModel().path
	fresh := &types.AnalysisResult{Issues: []types.Issue{{Severity: types.SevWarning, Message: "Hive bins size mismatch"}}}

	m := h.GetModel().handleResult(worker.Result{
		Kind:     worker.KindFix,
		Path:     path,
		Fix:      &types.FixResult{Applied: []types.FixType{types.FixSequenceNumbers}},
		Analysis: fresh,
		Err:      errors.New("apply hive-bins-size fix: short write"),
	})
	assert.Same(t, fresh, m.result)
	assert.Equal(t, "Fix failed: apply hive-bins-size fix: short write", m.statusMessage)

	m = h.GetModel().handleResult(worker.Result{
		Kind: worker.KindFix,
		Path: path,
		Fix:  &types.FixResult{Applied: []types.FixType{types.FixSequenceNumbers}},
		Err:  errors.New("boom"),
	})
	assert.Nil(t, m.result, "a report that no longer matches the file is dropped")
	assert.Equal(t, "Fix failed: boom (press r to re-analyze)", m.statusMessage)
}
