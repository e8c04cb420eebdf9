package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// runnerTheme darkens the default theme so the overlay stays readable
// over a game.
type runnerTheme struct {
	fyne.Theme
}

// NewRunnerTheme creates the application theme.
func NewRunnerTheme() fyne.Theme {
	return &runnerTheme{Theme: theme.DefaultTheme()}
}

// Color forces the dark variant background.
func (t *runnerTheme) Color(name fyne.ThemeColorName, _ fyne.ThemeVariant) color.Color {
	if name == theme.ColorNameBackground {
		return color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff}
	}
	return t.Theme.Color(name, theme.VariantDark)
}
