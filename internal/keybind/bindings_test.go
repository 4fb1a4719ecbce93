package keybind

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileIsEmptyConfig(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), KnownModes(), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Modes) != 0 {
		t.Fatalf("expected empty config, got %+v", cfg.Modes)
	}
}

func TestLoad_ParsesModesAndChords(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	data := "home:\n  j: move_down\n  k: move_up\n  enter: select\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, KnownModes(), true)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	bm, ok := cfg.Modes[ModeHome]
	if !ok {
		t.Fatalf("expected mode %q present", ModeHome)
	}
	down, err := ParseChord("j")
	if err != nil {
		t.Fatal(err)
	}
	if bm[down] != string(HomeMoveDown) {
		t.Fatalf("got %q, want %q", bm[down], HomeMoveDown)
	}
}

func TestLoad_StrictRejectsUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	data := "home:\n  j: not_a_real_command\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, KnownModes(), true); err == nil {
		t.Fatal("expected strict-mode error for unknown command")
	}
}

func TestLoad_NonStrictAllowsUnknownCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	data := "home:\n  j: not_a_real_command\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, KnownModes(), false); err != nil {
		t.Fatalf("expected non-strict load to succeed, got %v", err)
	}
}

func TestLoad_InvalidChordErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	data := "home:\n  hyper+z: select\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path, KnownModes(), true); err == nil {
		t.Fatal("expected error for invalid chord string")
	}
}

func TestSerialize_RoundTripsThroughLoad(t *testing.T) {
	chord, err := ParseChord("ctrl+p")
	if err != nil {
		t.Fatal(err)
	}
	cfg := Config{Modes: map[Mode]BindingMap{
		ModeHome: {chord: string(HomeSelect)},
	}}

	out, err := Serialize(cfg)
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}

	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	if err := os.WriteFile(path, out, 0o644); err != nil {
		t.Fatal(err)
	}

	reloaded, err := Load(path, KnownModes(), true)
	if err != nil {
		t.Fatalf("Load(serialized): %v", err)
	}
	if reloaded.Modes[ModeHome][chord] != string(HomeSelect) {
		t.Fatalf("round trip mismatch: %+v", reloaded.Modes[ModeHome])
	}
}

type duplicateNameCommandSet struct{}

func (duplicateNameCommandSet) Names() []string { return []string{"a", "a"} }

func TestLoad_DuplicateCommandNamesRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keybinds.yaml")
	if err := os.WriteFile(path, []byte("home:\n  j: a\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	known := map[Mode]CommandSet{ModeHome: duplicateNameCommandSet{}}
	if _, err := Load(path, known, true); err == nil {
		t.Fatal("expected duplicate-command-name error")
	}
}
