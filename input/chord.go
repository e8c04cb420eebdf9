package input

import (
	"fmt"
	"strings"
)

// modAliases folds long-form modifier names onto their canonical form.
var modAliases = map[string]string{
	"command": "cmd",
	"option":  "alt",
	"control": "ctrl",
}

// modOrder is the canonical rendering order of modifiers in a chord.
var modOrder = []string{"ctrl", "alt", "shift", "cmd"}

// Chord is a parsed key combination: zero or more modifiers plus one
// main key, e.g. "ctrl+alt+1".
type Chord struct {
	Mods []string // canonical names, in modOrder
	Key  string   // lowercase key token, e.g. "1", "a", "f5"
}

// NormalizeChord lowercases a chord string, folds modifier aliases and
// orders modifiers canonically. Returns "" for an empty chord.
// Normalization is idempotent.
func NormalizeChord(s string) string {
	c, err := ParseChord(s)
	if err != nil {
		return ""
	}
	return c.String()
}

// ParseChord parses "mod+...+key". Modifier-only and empty strings are
// errors: a binding needs one main key.
func ParseChord(s string) (Chord, error) {
	var mods []string
	key := ""
	for _, part := range strings.Split(s, "+") {
		p := strings.ToLower(strings.TrimSpace(part))
		if p == "" {
			continue
		}
		if canonical, ok := modAliases[p]; ok {
			p = canonical
		}
		if isMod(p) {
			if !contains(mods, p) {
				mods = append(mods, p)
			}
			continue
		}
		key = p
	}
	if key == "" {
		return Chord{}, fmt.Errorf("chord %q has no main key", s)
	}
	ordered := make([]string, 0, len(mods))
	for _, m := range modOrder {
		if contains(mods, m) {
			ordered = append(ordered, m)
		}
	}
	return Chord{Mods: ordered, Key: key}, nil
}

// String renders the chord in canonical form.
func (c Chord) String() string {
	if len(c.Mods) == 0 {
		return c.Key
	}
	return strings.Join(c.Mods, "+") + "+" + c.Key
}

// Matches reports whether a pressed key with the given held modifiers
// triggers this chord. Extra held modifiers do not prevent a match,
// mirroring how global hotkey hooks behave.
func (c Chord) Matches(key string, pressedMods map[string]bool) bool {
	if key != c.Key {
		return false
	}
	for _, m := range c.Mods {
		if !pressedMods[m] {
			return false
		}
	}
	return true
}

func isMod(s string) bool {
	return contains(modOrder, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
