package ui

import (
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"D2Runner/input"
)

func msDuration(ms int64) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// chordShortcut converts a chord string into a Fyne custom shortcut.
// Chords whose key has no Fyne key name (or with no modifiers, which
// Fyne cannot register) are skipped.
func chordShortcut(chord string) (*desktop.CustomShortcut, bool) {
	c, err := input.ParseChord(chord)
	if err != nil || len(c.Mods) == 0 {
		return nil, false
	}

	var mod fyne.KeyModifier
	for _, m := range c.Mods {
		switch m {
		case "ctrl":
			mod |= fyne.KeyModifierControl
		case "alt":
			mod |= fyne.KeyModifierAlt
		case "shift":
			mod |= fyne.KeyModifierShift
		case "cmd":
			mod |= fyne.KeyModifierSuper
		}
	}

	// Fyne key names are the uppercased token for letters, digits and
	// F-keys.
	key := fyne.KeyName(strings.ToUpper(c.Key))
	return &desktop.CustomShortcut{KeyName: key, Modifier: mod}, true
}
