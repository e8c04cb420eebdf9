package input

import "testing"

func TestParseChord(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"ctrl+alt+1", "ctrl+alt+1", false},
		{"ALT+CTRL+1", "ctrl+alt+1", false},
		{"command+option+2", "alt+cmd+2", false},
		{"Control+Shift+F5", "ctrl+shift+f5", false},
		{" ctrl + alt + 3 ", "ctrl+alt+3", false},
		{"ctrl+ctrl+4", "ctrl+4", false},
		{"a", "a", false},
		{"", "", true},
		{"ctrl+alt", "", true},
		{"++", "", true},
	}
	for _, tt := range tests {
		c, err := ParseChord(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseChord(%q) error = nil, want error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseChord(%q) error = %v", tt.in, err)
			continue
		}
		if got := c.String(); got != tt.want {
			t.Errorf("ParseChord(%q).String() = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeChordIdempotent(t *testing.T) {
	for _, in := range []string{"ctrl+alt+1", "COMMAND+5", "shift+ctrl+z", "q"} {
		once := NormalizeChord(in)
		if once == "" {
			t.Fatalf("NormalizeChord(%q) = empty", in)
		}
		if twice := NormalizeChord(once); twice != once {
			t.Errorf("NormalizeChord not idempotent: %q -> %q -> %q", in, once, twice)
		}
	}
	if got := NormalizeChord("ctrl+"); got != "" {
		t.Errorf("NormalizeChord(modifier only) = %q, want empty", got)
	}
}

func TestChordMatches(t *testing.T) {
	c, err := ParseChord("ctrl+alt+2")
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		key  string
		mods map[string]bool
		want bool
	}{
		{"exact", "2", map[string]bool{"ctrl": true, "alt": true}, true},
		{"extra mod held", "2", map[string]bool{"ctrl": true, "alt": true, "shift": true}, true},
		{"missing mod", "2", map[string]bool{"ctrl": true}, false},
		{"no mods", "2", map[string]bool{}, false},
		{"wrong key", "3", map[string]bool{"ctrl": true, "alt": true}, false},
	}
	for _, tt := range tests {
		if got := c.Matches(tt.key, tt.mods); got != tt.want {
			t.Errorf("%s: Matches(%q, %v) = %v, want %v", tt.name, tt.key, tt.mods, got, tt.want)
		}
	}
}
