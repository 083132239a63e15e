package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/regfix/internal/worker"
)

// TestHelper drives a Model through Update without a running program.
type TestHelper struct {
	t      *testing.T
	runner *worker.Runner
	model  Model
	cmd    tea.Cmd // last command returned by Update
}

// NewTestHelper creates a model for path backed by a real runner.
func NewTestHelper(t *testing.T, path string) *TestHelper {
	t.Helper()
	runner := worker.New(&worker.Config{Workers: 1, Reanalyze: true})
	t.Cleanup(runner.Stop)
	return &TestHelper{t: t, runner: runner, model: NewModel(path, runner, nil)}
}

func (h *TestHelper) send(msg tea.Msg) *TestHelper {
	updated, cmd := h.model.Update(msg)
	h.model = updated.(Model)
	h.cmd = cmd
	return h
}

// SendKey simulates a key press but does not execute async commands
func (h *TestHelper) SendKey(keyType tea.KeyType) *TestHelper {
	return h.send(tea.KeyMsg{Type: keyType})
}

// SendKeyRune simulates a character key press
func (h *TestHelper) SendKeyRune(r rune) *TestHelper {
	return h.send(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

// TypeString simulates typing s one rune at a time.
func (h *TestHelper) TypeString(s string) *TestHelper {
	for _, r := range s {
		h.SendKeyRune(r)
	}
	return h
}

// SendWindowSize simulates a window resize
func (h *TestHelper) SendWindowSize(width, height int) *TestHelper {
	return h.send(tea.WindowSizeMsg{Width: width, Height: height})
}

// Submit queues a job directly, as Init or a key press would.
func (h *TestHelper) Submit(job worker.Job) *TestHelper {
	h.model.path = job.Path
	updated, cmd := h.model.startJob(job, "")
	h.model = updated
	h.cmd = cmd
	return h.Await()
}

// Await runs the pending submit command and feeds the job's result back
// into the model.
func (h *TestHelper) Await() *TestHelper {
	h.t.Helper()
	require.NotNil(h.t, h.cmd, "no pending command")
	msg := h.cmd()
	submitted, ok := msg.(jobSubmittedMsg)
	require.True(h.t, ok, "expected jobSubmittedMsg, got %T", msg)
	require.NoError(h.t, submitted.err)
	h.send(submitted)

	res := waitForResult(h.runner)()
	require.NotNil(h.t, res)
	return h.send(res)
}

// GetModel returns the current model
func (h *TestHelper) GetModel() Model {
	return h.model
}

// GetView returns the rendered view
func (h *TestHelper) GetView() string {
	return h.model.View()
}
