package ui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"D2Runner/i18n"
	"D2Runner/runlog"
)

const appVersion = "1.0.0"

func aboutText(snap runlog.Snapshot) string {
	return fmt.Sprintf("D2Runner %s\n\nRun counter and timer with per-session CSV logging.\n\n%s: %s",
		appVersion, i18n.T("Session"), snap.CSVPath)
}

// showAboutDialog shows version and the active session file.
func showAboutDialog(a App, parent fyne.Window) {
	lbl := widget.NewLabel(aboutText(a.Snapshot()))
	lbl.Wrapping = fyne.TextWrapWord
	lbl.Alignment = fyne.TextAlignCenter
	dialog.ShowCustom(i18n.T("About D2Runner"), i18n.T("Close"),
		container.NewPadded(lbl), parent)
}
