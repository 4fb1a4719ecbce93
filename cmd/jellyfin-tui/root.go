package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jellytui/jellyfin-tui/internal/appcache"
)

const (
	appName    = "jellyfin-tui"
	appVersion = "0.1.0"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "jellyfin-tui",
	Short: "Terminal client for Jellyfin media servers",
	Long:  "jellyfin-tui is a terminal user interface for browsing and playing a Jellyfin server's library.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(cmd.Context(), configPath)
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default: config dir/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging to the log file under the cache directory")
}

// newLogger writes to a file under the cache directory rather than stderr,
// since tview/tcell own the terminal for the life of the process and any
// stderr output would corrupt the display; a failure can still be
// diagnosed from the log file after tview releases the terminal.
func newLogger(verbose bool) (*slog.Logger, *os.File, error) {
	dir, err := appcache.CacheDir()
	if err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(dir, "jellyfin-tui.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return log, f, nil
}
