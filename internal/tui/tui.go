// Package tui provides a Bubble Tea terminal user interface for pathtag.
package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/handiism/pathtag/internal/batch"
	"github.com/handiism/pathtag/internal/config"
	ioutils "github.com/handiism/pathtag/internal/io"
	"go.uber.org/zap"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)
)

// State represents the current UI state.
type State int

const (
	StateInput State = iota
	StatePreparing
	StateTagging
	StateComplete
	StateError
)

// maxLogs is how many progress lines stay on screen.
const maxLogs = 10

// errCancelled is shown when the user aborts a run.
var errCancelled = errors.New("cancelled by user")

// LogEntry represents a log message in the UI.
type LogEntry struct {
	Message string
	Level   batch.ProgressLevel
}

// eventLog buffers runner events until the next tick picks them up.
// The runner may call add from several workers at once.
type eventLog struct {
	mu      sync.Mutex
	entries []LogEntry
}

func (l *eventLog) add(event batch.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, LogEntry{Message: event.Message, Level: event.Level})
}

func (l *eventLog) drain() []LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	entries := l.entries
	l.entries = nil
	return entries
}

// Model is the Bubble Tea model for the TUI.
type Model struct {
	state     State
	textInput textinput.Model
	spinner   spinner.Model
	progress  progress.Model
	settings  *config.Settings
	log       *zap.Logger
	logs      []LogEntry
	err       error

	// Run context
	ctx    context.Context
	cancel context.CancelFunc

	runner  *batch.Runner
	events  *eventLog
	lockDir string
	summary *batch.Summary

	// Run progress
	processed  int32
	discovered int32

	// Options
	dryRun   bool
	parallel bool
	verbose  bool

	width  int
	height int
}

// NewModel creates a new TUI model. settings and log may be nil.
func NewModel(settings *config.Settings, log *zap.Logger) Model {
	if settings == nil {
		settings = config.DefaultSettings()
	}
	if log == nil {
		log = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "/path/to/music"
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 50

	ctx, cancel := context.WithCancel(context.Background())

	return Model{
		state:     StateInput,
		textInput: ti,
		spinner:   sp,
		progress:  prog,
		settings:  settings,
		log:       log,
		logs:      make([]LogEntry, 0),
		ctx:       ctx,
		cancel:    cancel,
		lockDir:   ioutils.DefaultLockDir(),
		dryRun:    settings.DryRun,
		parallel:  settings.Workers > 1,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Message types
type (
	// PreparedMsg is sent once the base directory is checked and a runner built.
	PreparedMsg struct {
		Runner *batch.Runner
		Lock   *ioutils.TreeLock
		Events *eventLog
		Err    error
	}

	// RunDoneMsg is sent when every task has been written.
	RunDoneMsg struct {
		Runner  *batch.Runner
		Summary *batch.Summary
		Err     error
	}

	// TickMsg is for periodic progress updates.
	TickMsg struct{}
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.progress.Width = msg.Width - 20
		if m.progress.Width > 80 {
			m.progress.Width = 80
		}
		if m.progress.Width < 20 {
			m.progress.Width = 20
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancel()
			return m, tea.Quit

		case "esc":
			if m.state == StateInput {
				return m, tea.Quit
			}
			if m.state == StateTagging || m.state == StatePreparing {
				m.cancel()
				m.state = StateError
				m.err = errCancelled
			}

		case "enter":
			if m.state == StateInput && strings.TrimSpace(m.textInput.Value()) != "" {
				m.state = StatePreparing
				return m, tea.Batch(m.prepare(), m.spinner.Tick)
			}

		case "tab":
			// Toggle keys share letters with paths, so they only apply
			// while the input is blurred.
			if m.state == StateInput {
				if m.textInput.Focused() {
					m.textInput.Blur()
				} else {
					cmds = append(cmds, m.textInput.Focus())
				}
				return m, tea.Batch(cmds...)
			}

		case "d":
			if m.optionsActive() {
				m.dryRun = !m.dryRun
			}

		case "p":
			if m.optionsActive() {
				m.parallel = !m.parallel
			}

		case "v":
			if m.optionsActive() {
				m.verbose = !m.verbose
			}

		case "q":
			if m.state == StateComplete || m.state == StateError {
				return m, tea.Quit
			}

		case "r":
			if m.state == StateComplete || m.state == StateError {
				// Reset for a new run
				m.state = StateInput
				m.logs = nil
				m.err = nil
				m.processed = 0
				m.discovered = 0
				m.runner = nil
				m.events = nil
				m.summary = nil
				m.ctx, m.cancel = context.WithCancel(context.Background())
				m.textInput.SetValue("")
				cmds = append(cmds, m.textInput.Focus())
				return m, tea.Batch(cmds...)
			}
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case PreparedMsg:
		if m.state != StatePreparing {
			// Cancelled while preparing.
			releaseLock(msg.Lock, m.log)
			return m, nil
		}
		if msg.Err != nil {
			m.state = StateError
			m.err = msg.Err
			return m, nil
		}
		m.runner = msg.Runner
		m.events = msg.Events
		m.state = StateTagging
		cmds = append(cmds, startRun(m.ctx, m.runner, msg.Lock, m.textInput.Value(), m.log), m.tickProgress())

	case RunDoneMsg:
		if m.runner == nil || msg.Runner != m.runner {
			// A run abandoned by reset.
			return m, nil
		}
		m.appendLogs(m.events.drain())
		m.summary = msg.Summary
		if msg.Summary != nil {
			m.processed = int32(msg.Summary.Discovered)
			m.discovered = int32(msg.Summary.Discovered)
		}
		switch {
		case m.ctx.Err() != nil:
			m.state = StateError
			m.err = errCancelled
		case msg.Err != nil:
			m.state = StateError
			m.err = msg.Err
		default:
			m.state = StateComplete
		}

	case TickMsg:
		// Poll the runner while it works
		if m.runner != nil && m.state == StateTagging {
			m.processed, m.discovered = m.runner.Progress()
			m.appendLogs(m.events.drain())

			var percent float64
			if m.discovered > 0 {
				percent = float64(m.processed) / float64(m.discovered)
			}
			cmds = append(cmds, m.progress.SetPercent(percent), m.tickProgress())
		}

	case progress.FrameMsg:
		progressModel, cmd := m.progress.Update(msg)
		m.progress = progressModel.(progress.Model)
		cmds = append(cmds, cmd)
	}

	// Update text input
	if m.state == StateInput && m.textInput.Focused() {
		var cmd tea.Cmd
		m.textInput, cmd = m.textInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m Model) optionsActive() bool {
	return m.state == StateInput && !m.textInput.Focused()
}

func (m *Model) appendLogs(entries []LogEntry) {
	for _, entry := range entries {
		if entry.Level == batch.LevelVerbose && !m.verbose {
			continue
		}
		m.logs = append(m.logs, entry)
	}
	if len(m.logs) > maxLogs {
		m.logs = m.logs[len(m.logs)-maxLogs:]
	}
}

// tickProgress returns a command to tick progress updates.
func (m Model) tickProgress() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(_ time.Time) tea.Msg {
		return TickMsg{}
	})
}

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	// Header
	b.WriteString(titleStyle.Render("🏷  pathtag"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Tag audio files from their artist/album folders"))
	b.WriteString("\n\n")

	switch m.state {
	case StateInput:
		b.WriteString(m.viewInput())
	case StatePreparing:
		b.WriteString(m.viewPreparing())
	case StateTagging:
		b.WriteString(m.viewTagging())
	case StateComplete:
		b.WriteString(m.viewComplete())
	case StateError:
		b.WriteString(m.viewError())
	}

	// Footer
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.helpText()))

	return b.String()
}

func checkbox(on bool) string {
	if on {
		return "[×]"
	}
	return "[ ]"
}

func (m Model) viewInput() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Enter base directory:"))
	b.WriteString("\n\n")
	b.WriteString(m.textInput.View())
	b.WriteString("\n\n")

	b.WriteString(infoStyle.Render("Options:"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  %s Dry run (d)\n", checkbox(m.dryRun))
	fmt.Fprintf(&b, "  %s Parallel, %d workers (p)\n", checkbox(m.parallel), m.parallelWorkers())
	fmt.Fprintf(&b, "  %s Verbose output (v)\n", checkbox(m.verbose))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Backend: %s", m.settings.Backend)))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewPreparing() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render("Checking directory..."))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewTagging() string {
	var b strings.Builder

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(subtitleStyle.Render(fmt.Sprintf("Tagging %s", m.textInput.Value())))
	b.WriteString("\n\n")

	var percent float64
	if m.discovered > 0 {
		percent = float64(m.processed) / float64(m.discovered)
	}
	b.WriteString(m.progress.ViewAs(percent))
	b.WriteString("\n")

	b.WriteString(infoStyle.Render(fmt.Sprintf("Files: %d/%d", m.processed, m.discovered)))
	b.WriteString("\n\n")

	b.WriteString(m.renderLogs())

	return b.String()
}

func (m Model) viewComplete() string {
	var b strings.Builder

	s := m.summary
	if s == nil {
		s = &batch.Summary{}
	}
	title := "✨ Tagging Complete!"
	if m.dryRun {
		title = "✨ Dry Run Complete!"
	}
	box := boxStyle.Render(fmt.Sprintf(
		"%s\n\n"+
			"Files:   %d\n"+
			"Written: %d\n"+
			"Dry run: %d\n"+
			"Skipped: %d\n"+
			"Failed:  %d\n"+
			"Time:    %s",
		title,
		s.Discovered,
		s.Written,
		s.DryRun,
		s.Skipped,
		s.Failed,
		s.Elapsed.Round(time.Millisecond),
	))
	b.WriteString(box)
	b.WriteString("\n")

	if len(m.logs) > 0 {
		b.WriteString("\n")
		b.WriteString(m.renderLogs())
	}

	return b.String()
}

func (m Model) viewError() string {
	var b strings.Builder

	b.WriteString(errorStyle.Render("❌ Error occurred:"))
	b.WriteString("\n\n")
	if m.err != nil {
		fmt.Fprintf(&b, "  %s", m.err.Error())
	}

	return b.String()
}

func (m Model) renderLogs() string {
	var b strings.Builder

	for _, log := range m.logs {
		var style lipgloss.Style
		prefix := "•"
		switch log.Level {
		case batch.LevelError:
			style = errorStyle
			prefix = "✗"
		case batch.LevelWarning:
			style = warningStyle
			prefix = "!"
		case batch.LevelSuccess:
			style = successStyle
			prefix = "✓"
		case batch.LevelInfo:
			style = infoStyle
			prefix = "›"
		default:
			style = dimStyle
		}
		b.WriteString(style.Render(prefix + " " + log.Message))
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) helpText() string {
	switch m.state {
	case StateInput:
		if m.textInput.Focused() {
			return "enter: start • tab: options • esc: quit"
		}
		return "enter: start • d: dry run • p: parallel • v: verbose • tab: edit path • esc: quit"
	case StatePreparing, StateTagging:
		return "esc: cancel"
	case StateComplete, StateError:
		return "r: new run • q: quit"
	}
	return ""
}

func (m Model) parallelWorkers() int {
	if m.settings.Workers > 1 {
		return m.settings.Workers
	}
	return runtime.NumCPU()
}

// runSettings copies the loaded settings and applies the toggles.
func (m Model) runSettings() *config.Settings {
	settings := *m.settings
	settings.DryRun = m.dryRun
	settings.Workers = 1
	if m.parallel {
		settings.Workers = m.parallelWorkers()
	}
	return &settings
}

// prepare checks the base directory, takes the tree lock and builds a runner.
func (m Model) prepare() tea.Cmd {
	base := strings.TrimSpace(m.textInput.Value())
	settings := m.runSettings()
	log := m.log
	lockDir := m.lockDir

	return func() tea.Msg {
		info, err := os.Stat(base)
		if err != nil {
			return PreparedMsg{Err: fmt.Errorf("base directory: %w", err)}
		}
		if !info.IsDir() {
			return PreparedMsg{Err: fmt.Errorf("base directory: %s is not a directory", base)}
		}

		var lock *ioutils.TreeLock
		if settings.LockTree {
			lock, err = ioutils.AcquireTreeLock(lockDir, base)
			if err != nil {
				return PreparedMsg{Err: err}
			}
		}

		events := &eventLog{}
		runner, err := batch.NewRunner(settings, log, events.add)
		if err != nil {
			releaseLock(lock, log)
			return PreparedMsg{Err: err}
		}

		return PreparedMsg{Runner: runner, Lock: lock, Events: events}
	}
}

// startRun tags the tree in the background and releases lock once every
// write has finished.
func startRun(ctx context.Context, runner *batch.Runner, lock *ioutils.TreeLock, base string, log *zap.Logger) tea.Cmd {
	base = strings.TrimSpace(base)
	return func() tea.Msg {
		defer releaseLock(lock, log)
		summary, err := runner.Run(ctx, base)
		return RunDoneMsg{Runner: runner, Summary: summary, Err: err}
	}
}

func releaseLock(lock *ioutils.TreeLock, log *zap.Logger) {
	if lock == nil {
		return
	}
	if err := lock.Release(); err != nil {
		log.Warn("release tree lock", zap.String("lock", lock.Path()), zap.Error(err))
	}
}

// Run starts the TUI application.
func Run(settings *config.Settings, log *zap.Logger) error {
	p := tea.NewProgram(NewModel(settings, log), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
