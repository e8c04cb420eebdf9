// Package ui contains the Fyne front-ends: the full window and the
// compact overlay. Both render the tracker snapshot and forward button
// presses as actions through the application command loop.
package ui

import (
	"errors"
	"fmt"
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"D2Runner/control"
	"D2Runner/i18n"
	"D2Runner/mapping"
	"D2Runner/runlog"
	"D2Runner/stats"
)

// App is the interface the UI needs from the application.
type App interface {
	EnqueueAction(a control.Action, note string)
	Snapshot() runlog.Snapshot
	MappingStore() *mapping.Store
	LifetimeTotals() (stats.Totals, bool)
}

const (
	timeTextSize  float32 = 34.0
	runTextSize   float32 = 22.0
	overlayWidth          = 220
	overlayHeight         = 84
)

// MainWindow is the full-window frontend.
type MainWindow struct {
	a       App
	fyneApp fyne.App
	win     fyne.Window

	runText     *canvas.Text
	timeText    *canvas.Text
	sessionLbl  *widget.Label
	savedLbl    *widget.Label
	statusLbl   *widget.Label
	lifetimeLbl *widget.Label
	noteEntry   *widget.Entry

	shortcuts []fyne.Shortcut
}

// NewMainWindow builds the full window on the given Fyne app.
func NewMainWindow(a App, fyneApp fyne.App) *MainWindow {
	w := &MainWindow{a: a, fyneApp: fyneApp}
	w.win = fyneApp.NewWindow("D2Runner")
	w.build()
	return w
}

func (w *MainWindow) build() {
	w.runText = canvas.NewText("Run 0", color.White)
	w.runText.TextSize = runTextSize
	w.timeText = canvas.NewText("00:00.00", color.White)
	w.timeText.TextSize = timeTextSize
	w.timeText.TextStyle.Monospace = true

	w.sessionLbl = widget.NewLabel("")
	w.savedLbl = widget.NewLabel("")
	w.statusLbl = widget.NewLabel("")
	w.statusLbl.Wrapping = fyne.TextWrapWord
	w.lifetimeLbl = widget.NewLabel("")

	w.noteEntry = widget.NewEntry()
	w.noteEntry.SetPlaceHolder(i18n.T("Note"))

	buttons := container.NewGridWithColumns(2,
		w.actionButton(i18n.T("Start/Stop"), control.ActionToggleStartStop),
		w.actionButton(i18n.T("Next Run"), control.ActionNextRun),
		w.actionButton(i18n.T("Reset Timer"), control.ActionResetTimer),
		w.actionButton(i18n.T("New Session"), control.ActionResetSession),
		w.actionButton(i18n.T("Undo"), control.ActionUndoLast),
		widget.NewButton(i18n.T("Settings"), w.showSettings),
	)

	content := container.NewVBox(
		container.NewCenter(w.runText),
		container.NewCenter(w.timeText),
		w.sessionLbl,
		w.savedLbl,
		w.noteEntry,
		buttons,
		w.statusLbl,
		widget.NewSeparator(),
		w.lifetimeLbl,
	)
	w.win.SetContent(content)
	w.win.SetMainMenu(fyne.NewMainMenu(
		fyne.NewMenu("D2Runner",
			fyne.NewMenuItem(i18n.T("Settings"), w.showSettings),
			fyne.NewMenuItem(i18n.T("About D2Runner"), func() { showAboutDialog(w.a, w.win) }),
		),
	))
	w.win.Resize(fyne.NewSize(360, 420))
	w.RefreshState()
}

func (w *MainWindow) actionButton(label string, a control.Action) *widget.Button {
	return widget.NewButton(label, func() {
		note := w.noteEntry.Text
		if a == control.ActionNextRun {
			w.noteEntry.SetText("")
		}
		w.a.EnqueueAction(a, note)
	})
}

// Run shows the window and enters the Fyne main loop.
func (w *MainWindow) Run() error {
	w.win.ShowAndRun()
	return nil
}

// SetOnClosed forwards the close callback.
func (w *MainWindow) SetOnClosed(fn func()) {
	w.win.SetOnClosed(fn)
}

// RefreshState re-renders the tracker snapshot. Safe to call from any
// goroutine.
func (w *MainWindow) RefreshState() {
	snap := w.a.Snapshot()
	totals, haveTotals := w.a.LifetimeTotals()
	fyne.Do(func() {
		w.runText.Text = runLabel(snap)
		w.runText.Refresh()
		w.timeText.Text = runlog.FormatElapsed(snap.Elapsed)
		w.timeText.Refresh()
		w.sessionLbl.SetText(fmt.Sprintf("%s: %s", i18n.T("Session"), snap.SessionID))
		w.savedLbl.SetText(fmt.Sprintf("%s: %d / %d", i18n.T("Saved runs"), snap.SavedCount, runlog.MaxSavedRuns))
		if haveTotals {
			w.lifetimeLbl.SetText(lifetimeLabel(totals))
		}
	})
}

// Notify surfaces an outcome in the status line, with dialogs for
// writer failures.
func (w *MainWindow) Notify(o control.Outcome) {
	fyne.Do(func() {
		switch {
		case errors.Is(o.Err, runlog.ErrSessionFull):
			w.statusLbl.SetText(i18n.T("Session full. Start a new session to continue."))
		case errors.Is(o.Err, runlog.ErrNothingToUndo):
			w.statusLbl.SetText(i18n.T("Nothing to undo."))
		case o.Err != nil:
			w.statusLbl.SetText(o.Err.Error())
			dialog.ShowError(o.Err, w.win)
		case o.Event == runlog.EventSaved || o.Event == runlog.EventSavedLimit:
			w.statusLbl.SetText(fmt.Sprintf("Run %d: %s", o.Record.RunNumber,
				runlog.FormatElapsed(o.Record.EndedAt.Sub(o.Record.StartedAt))))
		case o.Event == runlog.EventUndone:
			w.statusLbl.SetText(fmt.Sprintf("%s: run %d", i18n.T("Undo"), o.Record.RunNumber))
		default:
			w.statusLbl.SetText("")
		}
	})
	w.RefreshState()
}

// RegisterShortcuts installs the keyboard map as window-scoped custom
// shortcuts, the fallback used when the global listener is unavailable.
// Called again by the app whenever the mapping reloads.
func (w *MainWindow) RegisterShortcuts() {
	fyne.Do(func() {
		cv := w.win.Canvas()
		for _, sc := range w.shortcuts {
			cv.RemoveShortcut(sc)
		}
		w.shortcuts = w.shortcuts[:0]

		cfg := w.a.MappingStore().Current()
		for _, action := range control.Actions {
			sc, ok := chordShortcut(cfg.Chord(action))
			if !ok {
				continue
			}
			a := action
			cv.AddShortcut(sc, func(fyne.Shortcut) {
				w.a.EnqueueAction(a, w.noteEntry.Text)
			})
			w.shortcuts = append(w.shortcuts, sc)
		}
	})
}

func (w *MainWindow) showSettings() {
	showSettingsDialog(w.a, w.win)
}

func runLabel(snap runlog.Snapshot) string {
	n := snap.RunNumber
	if snap.State == runlog.StateIdle {
		return fmt.Sprintf("%s %d", i18n.T("Run"), snap.SavedCount)
	}
	return fmt.Sprintf("%s %d", i18n.T("Run"), n)
}

func lifetimeLabel(t stats.Totals) string {
	if t.Runs == 0 {
		return ""
	}
	avg := t.TotalDurationMS / int64(t.Runs)
	return fmt.Sprintf("Lifetime: %d runs, avg %s, best %s",
		t.Runs,
		runlog.FormatElapsed(msDuration(avg)),
		runlog.FormatElapsed(msDuration(t.BestRunMS)))
}

// Overlay is the compact always-on-top frontend: run number and elapsed
// time only.
type Overlay struct {
	a       App
	fyneApp fyne.App
	win     fyne.Window

	runText  *canvas.Text
	timeText *canvas.Text
}

// NewOverlay builds the compact overlay. A splash (undecorated,
// above-everything) window is used when the driver supports it.
func NewOverlay(a App, fyneApp fyne.App) *Overlay {
	o := &Overlay{a: a, fyneApp: fyneApp}
	if drv, ok := fyneApp.Driver().(desktop.Driver); ok {
		o.win = drv.CreateSplashWindow()
	} else {
		o.win = fyneApp.NewWindow("D2Runner")
	}

	o.runText = canvas.NewText("Run 0", color.White)
	o.runText.TextSize = runTextSize
	o.timeText = canvas.NewText("00:00.00", color.White)
	o.timeText.TextSize = timeTextSize
	o.timeText.TextStyle.Monospace = true

	o.win.SetContent(container.NewVBox(
		container.NewCenter(o.runText),
		container.NewCenter(o.timeText),
	))
	o.win.Resize(fyne.NewSize(overlayWidth, overlayHeight))
	o.win.SetFixedSize(true)
	return o
}

// Run shows the overlay and enters the Fyne main loop.
func (o *Overlay) Run() error {
	o.win.ShowAndRun()
	return nil
}

// SetOnClosed forwards the close callback.
func (o *Overlay) SetOnClosed(fn func()) {
	o.win.SetOnClosed(fn)
}

// RefreshState re-renders the snapshot.
func (o *Overlay) RefreshState() {
	snap := o.a.Snapshot()
	fyne.Do(func() {
		o.runText.Text = runLabel(snap)
		o.runText.Refresh()
		o.timeText.Text = runlog.FormatElapsed(snap.Elapsed)
		o.timeText.Refresh()
	})
}

// Notify flashes outcome errors in the time text color; the overlay has
// no room for more.
func (o *Overlay) Notify(oc control.Outcome) {
	fyne.Do(func() {
		if oc.Err != nil {
			o.timeText.Color = color.NRGBA{R: 0xe0, G: 0x60, B: 0x60, A: 0xff}
		} else {
			o.timeText.Color = color.White
		}
		o.timeText.Refresh()
	})
	o.RefreshState()
}

// RegisterShortcuts installs the keyboard map as window-scoped custom
// shortcuts on the overlay window.
func (o *Overlay) RegisterShortcuts() {
	fyne.Do(func() {
		cfg := o.a.MappingStore().Current()
		cv := o.win.Canvas()
		for _, action := range control.Actions {
			sc, ok := chordShortcut(cfg.Chord(action))
			if !ok {
				continue
			}
			a := action
			cv.AddShortcut(sc, func(fyne.Shortcut) {
				o.a.EnqueueAction(a, "")
			})
		}
	})
}

// NewFyneApp creates the themed Fyne application.
func NewFyneApp() fyne.App {
	fyneApp := app.New()
	fyneApp.Settings().SetTheme(NewRunnerTheme())
	return fyneApp
}
