// Package config loads the app config file: a small set of recognized
// fields, with relative paths resolved against the config directory.
// Parsing is YAML (gopkg.in/yaml.v3).
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/jellytui/jellyfin-tui/internal/appcache"
	"github.com/jellytui/jellyfin-tui/internal/jferrors"
)

// Config is the recognized field set of the config file.
type Config struct {
	LoginFile    string `yaml:"login_file,omitempty"`
	KeybindsFile string `yaml:"keybinds_file,omitempty"`
	Hwdec        string `yaml:"hwdec,omitempty"`
	MpvProfile   string `yaml:"mpv_profile,omitempty"`
	MpvLogLevel  string `yaml:"mpv_log_level,omitempty"`
}

// Default returns the zero-value config with the fields a fresh install
// needs to run: hardware decoding auto-detected, warn-level mpv logging.
func Default() Config {
	return Config{
		Hwdec:       "auto-safe",
		MpvLogLevel: "warn",
	}
}

// Load reads and parses the config file at path. A missing file is not an
// error: it resolves to Default().
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, jferrors.New(jferrors.KindConfigParse, "reading config file", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, jferrors.New(jferrors.KindConfigParse, "parsing config file", err)
	}
	return cfg, nil
}

// ResolvedLoginFile and ResolvedKeybindsFile resolve their respective
// fields against the config directory when relative.
func (c Config) ResolvedLoginFile() (string, error) {
	if c.LoginFile == "" {
		return "", nil
	}
	return appcache.ResolvePath(c.LoginFile)
}

func (c Config) ResolvedKeybindsFile() (string, error) {
	if c.KeybindsFile == "" {
		return "", nil
	}
	return appcache.ResolvePath(c.KeybindsFile)
}

// DeviceID persists a UUID under the cache directory so the Jellyfin
// client can send a stable X-Emby-Device-Id across restarts. If none
// exists, it is generated and written atomically via a temp-file-then-
// rename sequence.
func DeviceID() (string, error) {
	dir, err := appcache.CacheDir()
	if err != nil {
		return "", err
	}
	path := dir + string(os.PathSeparator) + "device-id"

	if data, err := os.ReadFile(path); err == nil {
		id := string(data)
		if id != "" {
			return id, nil
		}
	}

	id := newDeviceID()
	tmp, err := os.CreateTemp(dir, ".device-id-*.tmp")
	if err != nil {
		return "", fmt.Errorf("creating device id temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.WriteString(id); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("writing device id: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("closing device id temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("renaming device id file: %w", err)
	}
	return id, nil
}
