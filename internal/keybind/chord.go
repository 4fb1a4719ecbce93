package keybind

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Chord is a parsed key-chord: a key plus modifiers, optionally a bare
// rune for printable keys (e.g. "g", "G", "?").
type Chord struct {
	Key  tcell.Key
	Rune rune
	Mod  tcell.ModMask
}

// ParseChord parses a chord string like "ctrl+p", "shift+tab", "g", "enter"
// into a Chord. Modifier tokens are case-insensitive and may be combined
// with "+"; the final token names the key or a single rune.
func ParseChord(s string) (Chord, error) {
	parts := strings.Split(s, "+")
	if len(parts) == 0 {
		return Chord{}, fmt.Errorf("empty chord")
	}
	var mod tcell.ModMask
	lastRaw := strings.TrimSpace(parts[len(parts)-1])
	last := strings.ToLower(lastRaw)
	for _, p := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(p)) {
		case "ctrl", "control":
			mod |= tcell.ModCtrl
		case "alt":
			mod |= tcell.ModAlt
		case "shift":
			mod |= tcell.ModShift
		case "meta":
			mod |= tcell.ModMeta
		default:
			return Chord{}, fmt.Errorf("unknown modifier %q in chord %q", p, s)
		}
	}

	if last == "space" {
		return Chord{Key: tcell.KeyRune, Rune: ' ', Mod: mod}, nil
	}
	if key, ok := namedKeys[last]; ok {
		return Chord{Key: key, Mod: mod}, nil
	}
	runes := []rune(lastRaw)
	if len(runes) == 1 {
		return Chord{Key: tcell.KeyRune, Rune: runes[0], Mod: mod}, nil
	}
	return Chord{}, fmt.Errorf("unrecognized chord %q", s)
}

// String serializes a Chord back to canonical form. Parsing the result of
// String is always equal to the original Chord: parse(serialize(x)) = x.
func (c Chord) String() string {
	var b strings.Builder
	if c.Mod&tcell.ModCtrl != 0 {
		b.WriteString("ctrl+")
	}
	if c.Mod&tcell.ModAlt != 0 {
		b.WriteString("alt+")
	}
	if c.Mod&tcell.ModShift != 0 {
		b.WriteString("shift+")
	}
	if c.Mod&tcell.ModMeta != 0 {
		b.WriteString("meta+")
	}
	if c.Key == tcell.KeyRune {
		if c.Rune == ' ' {
			b.WriteString("space")
		} else {
			b.WriteRune(c.Rune)
		}
		return b.String()
	}
	for name, key := range namedKeys {
		if key == c.Key {
			b.WriteString(name)
			return b.String()
		}
	}
	b.WriteString(fmt.Sprintf("key(%d)", c.Key))
	return b.String()
}

// FromEvent converts a tcell key event into the Chord it represents.
func FromEvent(ev *tcell.EventKey) Chord {
	if ev.Key() == tcell.KeyRune {
		return Chord{Key: tcell.KeyRune, Rune: ev.Rune(), Mod: ev.Modifiers()}
	}
	return Chord{Key: ev.Key(), Mod: ev.Modifiers()}
}

var namedKeys = map[string]tcell.Key{
	"enter":     tcell.KeyEnter,
	"tab":       tcell.KeyTab,
	"backtab":   tcell.KeyBacktab,
	"backspace": tcell.KeyBackspace2,
	"esc":       tcell.KeyEscape,
	"escape":    tcell.KeyEscape,
	"up":        tcell.KeyUp,
	"down":      tcell.KeyDown,
	"left":      tcell.KeyLeft,
	"right":     tcell.KeyRight,
	"pgup":      tcell.KeyPgUp,
	"pgdn":      tcell.KeyPgDn,
	"home":      tcell.KeyHome,
	"end":       tcell.KeyEnd,
	"delete":    tcell.KeyDelete,
}
