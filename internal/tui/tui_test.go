package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/handiism/pathtag/internal/batch"
	"github.com/handiism/pathtag/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	m := NewModel(nil, nil)
	m.lockDir = t.TempDir()
	return m
}

func TestTogglesNeedBlurredInput(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, keyRunes("d"))
	assert.False(t, m.dryRun, "typing into the path must not toggle options")
	assert.Equal(t, "d", m.textInput.Value())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.False(t, m.textInput.Focused())

	m, _ = update(t, m, keyRunes("d"))
	m, _ = update(t, m, keyRunes("p"))
	m, _ = update(t, m, keyRunes("v"))
	assert.True(t, m.dryRun)
	assert.True(t, m.parallel)
	assert.True(t, m.verbose)
	assert.Equal(t, "d", m.textInput.Value())

	m, _ = update(t, m, keyRunes("d"))
	assert.False(t, m.dryRun)
}

func TestEnterWithEmptyPath(t *testing.T) {
	m := newTestModel(t)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, StateInput, m.state)
	assert.Nil(t, cmd)
}

func TestRunSettings(t *testing.T) {
	settings := config.DefaultSettings()
	settings.Workers = 4
	m := NewModel(settings, nil)

	assert.True(t, m.parallel, "parallel starts on when settings ask for workers")

	m.parallel = false
	m.dryRun = true
	run := m.runSettings()
	assert.Equal(t, 1, run.Workers)
	assert.True(t, run.DryRun)
	assert.False(t, settings.DryRun, "loaded settings stay untouched")

	m.parallel = true
	assert.Equal(t, 4, m.runSettings().Workers)
}

func TestPrepareMissingDirectory(t *testing.T) {
	m := newTestModel(t)
	m.textInput.SetValue(filepath.Join(t.TempDir(), "missing"))

	msg := m.prepare()()

	prepared, ok := msg.(PreparedMsg)
	require.True(t, ok)
	assert.Error(t, prepared.Err)

	m.state = StatePreparing
	m, _ = update(t, m, prepared)
	assert.Equal(t, StateError, m.state)
	assert.Contains(t, m.View(), "base directory")
}

func TestFullRun(t *testing.T) {
	base := t.TempDir()
	dir := filepath.Join(base, "artist", "album")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "track.mp3"), []byte("no tag here"), 0o644))

	m := newTestModel(t)
	m.textInput.SetValue(base)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, StatePreparing, m.state)
	assert.Contains(t, m.View(), "Checking directory")

	prepared, ok := m.prepare()().(PreparedMsg)
	require.True(t, ok)
	require.NoError(t, prepared.Err)

	m, _ = update(t, m, prepared)
	assert.Equal(t, StateTagging, m.state)
	require.NotNil(t, m.runner)

	done, ok := startRun(m.ctx, m.runner, prepared.Lock, base, m.log)().(RunDoneMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = update(t, m, done)
	assert.Equal(t, StateComplete, m.state)
	require.NotNil(t, m.summary)
	assert.Equal(t, 1, m.summary.Discovered)
	assert.Equal(t, 1, m.summary.Skipped)
	assert.Contains(t, m.View(), "Tagging Complete!")

	m, _ = update(t, m, keyRunes("r"))
	assert.Equal(t, StateInput, m.state)
	assert.Empty(t, m.textInput.Value())
	assert.Nil(t, m.summary)
}

func TestCancelDuringRun(t *testing.T) {
	m := newTestModel(t)
	m.state = StateTagging

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})

	assert.Equal(t, StateError, m.state)
	assert.ErrorIs(t, m.err, errCancelled)
	assert.Error(t, m.ctx.Err())
}

func TestAbandonedRunIgnored(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(t, m, RunDoneMsg{Runner: &batch.Runner{}, Summary: &batch.Summary{Written: 3}})

	assert.Equal(t, StateInput, m.state)
	assert.Nil(t, m.summary)
}

func TestAppendLogs(t *testing.T) {
	m := newTestModel(t)

	events := &eventLog{}
	events.add(batch.ProgressEvent{Message: "hidden", Level: batch.LevelVerbose})
	for range maxLogs + 5 {
		events.add(batch.ProgressEvent{Message: "shown", Level: batch.LevelInfo})
	}

	m.appendLogs(events.drain())

	assert.Len(t, m.logs, maxLogs)
	for _, entry := range m.logs {
		assert.Equal(t, "shown", entry.Message)
	}
	assert.Empty(t, events.drain())
}

func TestViewShowsOptions(t *testing.T) {
	m := newTestModel(t)
	m.dryRun = true

	view := m.View()

	assert.Contains(t, view, "[×] Dry run (d)")
	assert.Contains(t, view, "[ ] Verbose output (v)")
	assert.Contains(t, view, "Backend: auto")
}
