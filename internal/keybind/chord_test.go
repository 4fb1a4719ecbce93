package keybind

import "testing"

func TestParseChord_RoundTrip(t *testing.T) {
	cases := []string{
		"g", "q", "ctrl+p", "shift+tab", "alt+enter", "space", "ctrl+shift+p",
		"up", "down", "left", "right", "esc", "backspace",
	}
	for _, s := range cases {
		c, err := ParseChord(s)
		if err != nil {
			t.Fatalf("ParseChord(%q) failed: %v", s, err)
		}
		back := c.String()
		c2, err := ParseChord(back)
		if err != nil {
			t.Fatalf("ParseChord(serialize(%q)=%q) failed: %v", s, back, err)
		}
		if c2 != c {
			t.Fatalf("parse(serialize(%q)) = %+v, want %+v (serialized as %q)", s, c2, c, back)
		}
	}
}

func TestParseChord_UnknownModifier(t *testing.T) {
	if _, err := ParseChord("hyper+g"); err == nil {
		t.Fatal("expected error for unknown modifier")
	}
}

func TestParseChord_MultiRuneUnknown(t *testing.T) {
	if _, err := ParseChord("foo"); err == nil {
		t.Fatal("expected error for unrecognized multi-rune token")
	}
}

func TestParseChord_Empty(t *testing.T) {
	if _, err := ParseChord(""); err == nil {
		t.Fatal("expected error for empty chord")
	}
}
