package keybind

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// Mode names a screen family the keybind config groups bindings by (e.g.
// "home", "list", "player"; see commands.go for the full set).
type Mode string

// rawConfig is the on-disk YAML shape: mode -> chord string -> command
// name.
type rawConfig map[Mode]map[string]string

// BindingMap maps parsed chords to command names for one mode.
type BindingMap map[Chord]string

// Config holds the parsed, validated binding maps for every mode found in
// the keybinds file.
type Config struct {
	Modes map[Mode]BindingMap
}

// CommandSet is implemented by each mode's generated command enumeration
// (see commands.go) so that Load can validate that every command name
// used in the file is recognized and that the enumeration itself has no
// duplicate names.
type CommandSet interface {
	// Names returns every valid command name for this mode.
	Names() []string
}

// Load reads and parses a keybinds file. strict, when true, rejects any
// chord bound to a command name not present in known[mode] (used for
// config validation); when false, unknown command names are accepted
// (forward-compat with newer command sets) but unknown chords are never
// silently duplicated.
func Load(path string, known map[Mode]CommandSet, strict bool) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{Modes: map[Mode]BindingMap{}}, nil
		}
		return Config{}, jferrors.New(jferrors.KindKeybindParse, "reading keybinds file", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, jferrors.New(jferrors.KindKeybindParse, "parsing keybinds file", err)
	}

	for mode, cs := range known {
		if err := validateDistinctNames(cs); err != nil {
			return Config{}, jferrors.Newf(jferrors.KindKeybindParse, err,
				"mode %q has duplicate command names", mode)
		}
	}

	cfg := Config{Modes: make(map[Mode]BindingMap, len(raw))}
	for mode, chords := range raw {
		bm := make(BindingMap, len(chords))
		cs, haveKnown := known[mode]
		var validNames map[string]bool
		if haveKnown {
			validNames = make(map[string]bool)
			for _, n := range cs.Names() {
				validNames[n] = true
			}
		}
		for chordStr, cmdName := range chords {
			chord, err := ParseChord(chordStr)
			if err != nil {
				return Config{}, jferrors.Newf(jferrors.KindKeybindParse, err,
					"mode %q: invalid chord %q", mode, chordStr)
			}
			if strict && haveKnown && !validNames[cmdName] {
				return Config{}, jferrors.Newf(jferrors.KindKeybindParse, nil,
					"mode %q: unknown command %q bound to %q", mode, cmdName, chordStr)
			}
			bm[chord] = cmdName
		}
		cfg.Modes[mode] = bm
	}
	return cfg, nil
}

// Serialize renders a Config back to the canonical YAML form. Parsing the
// result of Serialize reproduces an equal Config: parse(serialize(bm)) = bm.
func Serialize(cfg Config) ([]byte, error) {
	raw := make(rawConfig, len(cfg.Modes))
	for mode, bm := range cfg.Modes {
		m := make(map[string]string, len(bm))
		for chord, cmd := range bm {
			m[chord.String()] = cmd
		}
		raw[mode] = m
	}
	out, err := yaml.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("serializing keybinds: %w", err)
	}
	return out, nil
}

// validateDistinctNames enforces that a mode's command enumeration has no
// two commands sharing a textual name.
func validateDistinctNames(cs CommandSet) error {
	seen := make(map[string]bool)
	for _, n := range cs.Names() {
		if seen[n] {
			return fmt.Errorf("duplicate command name %q", n)
		}
		seen[n] = true
	}
	return nil
}
