//go:build !linux

package input

import (
	"context"
	"fmt"
	"log/slog"

	"D2Runner/mapping"
)

// Keyboard is the global hotkey listener. Global capture is only
// implemented on Linux (evdev); other platforms fall back to the
// window-scoped shortcuts registered by the Fyne frontend.
type Keyboard struct{}

// NewKeyboard returns the stub listener for this platform.
func NewKeyboard(*mapping.Store, Sink, *slog.Logger) *Keyboard {
	return &Keyboard{}
}

// Name implements Source.
func (*Keyboard) Name() string { return "keyboard" }

// Start implements Source.
func (*Keyboard) Start(context.Context) error {
	return fmt.Errorf("%w: global keyboard capture requires linux evdev", ErrBackendUnavailable)
}

// Controller is the D-pad poller. Only implemented on Linux (evdev).
type Controller struct{}

// NewController returns the stub poller for this platform.
func NewController(*mapping.Store, Sink, *slog.Logger) *Controller {
	return &Controller{}
}

// Name implements Source.
func (*Controller) Name() string { return "controller" }

// Start implements Source.
func (*Controller) Start(context.Context) error {
	return fmt.Errorf("%w: controller polling requires linux evdev", ErrBackendUnavailable)
}
