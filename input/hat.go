package input

import "D2Runner/mapping"

// hatState accumulates the two hat axes of a D-pad and decodes cardinal
// directions on change. evdev reports ABS_HATnX (-1 left, +1 right) and
// ABS_HATnY (-1 up, +1 down) as separate events.
type hatState struct {
	x, y int32
}

// setX updates the horizontal axis and returns the direction newly
// entered, "" when centered or unchanged.
func (h *hatState) setX(v int32) string {
	if v == h.x {
		return ""
	}
	h.x = v
	return DirectionFromHat(h.x, h.y)
}

// setY updates the vertical axis and returns the direction newly
// entered, "" when centered or unchanged.
func (h *hatState) setY(v int32) string {
	if v == h.y {
		return ""
	}
	h.y = v
	return DirectionFromHat(h.x, h.y)
}

// DirectionFromHat decodes a hat position into one of the four cardinal
// directions. Centered and diagonal positions decode to "".
func DirectionFromHat(x, y int32) string {
	switch {
	case x == 0 && y == -1:
		return mapping.DirUp
	case x == 1 && y == 0:
		return mapping.DirRight
	case x == 0 && y == 1:
		return mapping.DirDown
	case x == -1 && y == 0:
		return mapping.DirLeft
	}
	return ""
}
