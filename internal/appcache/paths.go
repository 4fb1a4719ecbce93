// Package appcache resolves the on-disk locations the client reads and
// writes: the cache directory (SQL store) and the config directory (app
// config, keybinds file). Both follow os.UserCacheDir/os.UserConfigDir
// with a "jellyfin-tui" subdirectory joined underneath.
package appcache

import (
	"fmt"
	"os"
	"path/filepath"
)

const appDirName = "jellyfin-tui"

// CacheDir returns (creating if necessary) the directory the SQL store and
// on-disk image bytes live under.
func CacheDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating cache directory: %w", err)
	}
	return dir, nil
}

// ConfigDir returns (creating if necessary) the directory the app config
// and keybinds files live under.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	dir := filepath.Join(base, appDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating config directory: %w", err)
	}
	return dir, nil
}

// DBPath returns the path to the SQL cache file under CacheDir.
func DBPath() (string, error) {
	dir, err := CacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jellyfin-tui.sqlite"), nil
}

// ResolvePath resolves a possibly-relative path against ConfigDir, as
// described in the config file's field semantics ("relative paths resolve
// against the config directory").
func ResolvePath(p string) (string, error) {
	if p == "" || filepath.IsAbs(p) {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, p), nil
}
