package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"D2Runner/control"
	"D2Runner/i18n"
	"D2Runner/input"
	"D2Runner/mapping"
)

// showSettingsDialog edits the mapping store: one chord entry per
// action, one action selector per D-pad direction, the controller
// enable toggle and the repeat guard. Saving persists through the
// store, which hot-reloads the listeners.
func showSettingsDialog(a App, parent fyne.Window) {
	cfg := a.MappingStore().Current()

	chordEntries := make(map[control.Action]*widget.Entry, len(control.Actions))
	items := make([]*widget.FormItem, 0, len(control.Actions)+len(mapping.Directions)+2)

	for _, action := range control.Actions {
		entry := widget.NewEntry()
		entry.SetText(cfg.Chord(action))
		chordEntries[action] = entry
		items = append(items, widget.NewFormItem(actionTitle(action), entry))
	}

	actionNames := make([]string, 0, len(control.Actions)+1)
	for _, action := range control.Actions {
		actionNames = append(actionNames, string(action))
	}
	actionNames = append(actionNames, string(control.ActionNone))

	dpadSelects := make(map[string]*widget.Select, len(mapping.Directions))
	for _, dir := range mapping.Directions {
		sel := widget.NewSelect(actionNames, nil)
		sel.SetSelected(cfg.DpadMap[dir])
		dpadSelects[dir] = sel
		items = append(items, widget.NewFormItem("D-pad "+dir, sel))
	}

	enabledCheck := widget.NewCheck(i18n.T("Controller enabled"), nil)
	enabledCheck.SetChecked(cfg.Enabled)
	items = append(items, widget.NewFormItem("", enabledCheck))

	guardEntry := widget.NewEntry()
	guardEntry.SetText(strconv.Itoa(cfg.RepeatGuardMS))
	items = append(items, widget.NewFormItem("Repeat guard (ms)", guardEntry))

	dialog.ShowForm(i18n.T("Settings"), i18n.T("Save"), i18n.T("Cancel"), items,
		func(ok bool) {
			if !ok {
				return
			}
			next := cfg
			next.Enabled = enabledCheck.Checked
			if ms, err := strconv.Atoi(guardEntry.Text); err == nil && ms >= 0 {
				next.RepeatGuardMS = ms
			}
			next.KeyboardMap = make(map[string]string, len(chordEntries))
			for action, entry := range chordEntries {
				if norm := input.NormalizeChord(entry.Text); norm != "" {
					next.KeyboardMap[string(action)] = norm
				}
			}
			next.DpadMap = make(map[string]string, len(dpadSelects))
			for dir, sel := range dpadSelects {
				next.DpadMap[dir] = sel.Selected
			}
			if err := a.MappingStore().Update(next); err != nil {
				dialog.ShowError(err, parent)
			}
		}, parent)
}

func actionTitle(a control.Action) string {
	switch a {
	case control.ActionToggleStartStop:
		return i18n.T("Start/Stop")
	case control.ActionNextRun:
		return i18n.T("Next Run")
	case control.ActionResetTimer:
		return i18n.T("Reset Timer")
	case control.ActionResetSession:
		return i18n.T("New Session")
	case control.ActionUndoLast:
		return i18n.T("Undo")
	}
	return string(a)
}
