// Package tui is the terminal fallback frontend, used when no display
// is available or when selected explicitly. It renders the same state
// as the graphical front-ends and maps fixed keys to the five actions.
package tui

import (
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"D2Runner/control"
	"D2Runner/runlog"
	"D2Runner/stats"
)

// App is the interface the TUI needs from the application.
type App interface {
	EnqueueAction(a control.Action, note string)
	Snapshot() runlog.Snapshot
	LifetimeTotals() (stats.Totals, bool)
}

var (
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 2)
	timeStyle   = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

type tickMsg time.Time

type outcomeMsg control.Outcome

// Frontend wraps the bubbletea program behind the frontend contract the
// application drives.
type Frontend struct {
	program  *tea.Program
	onClosed func()
}

// New creates the terminal frontend.
func New(a App) *Frontend {
	f := &Frontend{}
	f.program = tea.NewProgram(newModel(a))
	return f
}

// Run blocks in the bubbletea event loop.
func (f *Frontend) Run() error {
	_, err := f.program.Run()
	if f.onClosed != nil {
		f.onClosed()
	}
	return err
}

// SetOnClosed registers the close callback.
func (f *Frontend) SetOnClosed(fn func()) {
	f.onClosed = fn
}

// RefreshState is a no-op: the model ticks itself.
func (f *Frontend) RefreshState() {}

// Notify forwards an outcome into the event loop.
func (f *Frontend) Notify(o control.Outcome) {
	f.program.Send(outcomeMsg(o))
}

// RegisterShortcuts is a no-op: the terminal frontend always owns its
// keys.
func (f *Frontend) RegisterShortcuts() {}

type model struct {
	a      App
	snap   runlog.Snapshot
	status string
	isErr  bool
}

func newModel(a App) model {
	return model{a: a, snap: a.Snapshot()}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m model) Init() tea.Cmd {
	return tick()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.snap = m.a.Snapshot()
		return m, tick()
	case outcomeMsg:
		m.snap = m.a.Snapshot()
		m.status, m.isErr = statusLine(control.Outcome(msg))
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.a.EnqueueAction(control.ActionToggleStartStop, "")
		case "n", "enter":
			m.a.EnqueueAction(control.ActionNextRun, "")
		case "r":
			m.a.EnqueueAction(control.ActionResetTimer, "")
		case "s":
			m.a.EnqueueAction(control.ActionResetSession, "")
		case "u":
			m.a.EnqueueAction(control.ActionUndoLast, "")
		}
	}
	return m, nil
}

func (m model) View() string {
	run := fmt.Sprintf("Run %d", m.snap.RunNumber)
	if m.snap.State == runlog.StateIdle {
		run = fmt.Sprintf("Run %d", m.snap.SavedCount)
	}
	state := ""
	if m.snap.State == runlog.StatePaused {
		state = dimStyle.Render("  (paused)")
	}

	lines := run + state + "\n" +
		timeStyle.Render(runlog.FormatElapsed(m.snap.Elapsed)) + "\n" +
		dimStyle.Render(fmt.Sprintf("session %s  saved %d/%d",
			m.snap.SessionID, m.snap.SavedCount, runlog.MaxSavedRuns))

	if totals, ok := m.a.LifetimeTotals(); ok && totals.Runs > 0 {
		lines += "\n" + dimStyle.Render(fmt.Sprintf("lifetime %d runs, best %s",
			totals.Runs, runlog.FormatElapsed(time.Duration(totals.BestRunMS)*time.Millisecond)))
	}

	out := boxStyle.Render(lines)
	if m.status != "" {
		style := statusStyle
		if m.isErr {
			style = errStyle
		}
		out += "\n" + style.Render(m.status)
	}
	out += "\n" + dimStyle.Render("space start/stop · n next · r reset · s session · u undo · q quit")
	return out + "\n"
}

func statusLine(o control.Outcome) (string, bool) {
	switch {
	case errors.Is(o.Err, runlog.ErrSessionFull):
		return "session full: press s for a new session", true
	case errors.Is(o.Err, runlog.ErrNothingToUndo):
		return "nothing to undo", false
	case o.Err != nil:
		return o.Err.Error(), true
	case o.Record != nil && o.Event == runlog.EventUndone:
		return fmt.Sprintf("undone run %d", o.Record.RunNumber), false
	case o.Record != nil:
		return fmt.Sprintf("saved run %d (%s)", o.Record.RunNumber,
			runlog.FormatElapsed(o.Record.EndedAt.Sub(o.Record.StartedAt))), false
	}
	return "", false
}
