package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rivo/tview"

	"github.com/jellytui/jellyfin-tui/internal/appcache"
	"github.com/jellytui/jellyfin-tui/internal/cache"
	"github.com/jellytui/jellyfin-tui/internal/config"
	"github.com/jellytui/jellyfin-tui/internal/image"
	"github.com/jellytui/jellyfin-tui/internal/jellyfin"
	"github.com/jellytui/jellyfin-tui/internal/keybind"
	"github.com/jellytui/jellyfin-tui/internal/mpris"
	"github.com/jellytui/jellyfin-tui/internal/nav"
	"github.com/jellytui/jellyfin-tui/internal/player"
	"github.com/jellytui/jellyfin-tui/internal/progress"
	"github.com/jellytui/jellyfin-tui/internal/spawn"
)

// run wires every component together and drives the navigation core
// until the stack empties, the user quits, or the process is signaled.
func run(ctx context.Context, configFlagPath string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, logFile, err := newLogger(verbose)
	if err != nil {
		return err
	}
	defer logFile.Close()

	cfgPath := configFlagPath
	if cfgPath == "" {
		dir, err := appcache.ConfigDir()
		if err != nil {
			return err
		}
		cfgPath = dir + "/config.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}

	deviceID, err := config.DeviceID()
	if err != nil {
		return err
	}

	pool, poolCancel := spawn.New(ctx)
	defer poolCancel()
	sp := pool.Spawner()
	go pool.Run()

	dbPath, err := appcache.DBPath()
	if err != nil {
		return err
	}
	store, err := cache.Open(ctx, sp, dbPath, log)
	if err != nil {
		return err
	}
	defer store.Close()

	loginPath, err := cfg.ResolvedLoginFile()
	if err != nil {
		return err
	}
	if loginPath == "" {
		return fmt.Errorf("no login_file configured; set login_file in %s", cfgPath)
	}
	lf, err := loadLoginFile(loginPath)
	if err != nil {
		return err
	}
	client, err := authenticate(ctx, loginDeps{store: store, deviceID: deviceID, deviceName: "jellyfin-tui", log: log}, lf)
	if err != nil {
		return err
	}

	// The keybinds file is parsed and validated eagerly so a malformed
	// file surfaces at startup rather than the first time a mode is
	// touched; the renderer still dispatches raw tcell events directly,
	// so the parsed Config itself isn't consulted beyond this validation
	// pass.
	if keybindsPath, err := cfg.ResolvedKeybindsFile(); err != nil {
		return err
	} else if keybindsPath != "" {
		if _, err := keybind.Load(keybindsPath, keybind.KnownModes(), false); err != nil {
			log.Warn("main: keybinds file invalid, using built-in bindings", "err", err)
		}
	}

	playerOpts := player.Options{
		Hwdec:       cfg.Hwdec,
		MpvProfile:  cfg.MpvProfile,
		MpvLogLevel: cfg.MpvLogLevel,
		StreamURL: func(item jellyfin.MediaItem) string {
			return client.StreamURL(item.ID, false)
		},
		Auth: player.AuthHeaders{
			Token:     client.Credentials().AccessToken,
			UserAgent: appName + "/" + appVersion,
		},
	}
	_, playerHandle, err := player.New(ctx, sp, playerOpts, log)
	if err != nil {
		return err
	}

	sp.Spawn(func(ctx context.Context, _ *spawn.Spawner) {
		progress.Run(ctx, sp, playerHandle.State(), client, log)
	}, "progress-reporter")

	sp.Spawn(func(ctx context.Context, _ *spawn.Spawner) {
		runRemoteControl(ctx, client, playerHandle, log)
	}, "remote-control")

	imageCache := image.New(store, client, image.StdDecoder{})

	mprisServer, err := mpris.New(ctx, playerHandle, client, mpris.Options{
		Identity:     "jellyfin-tui",
		DesktopEntry: "jellyfin-tui",
	}, log)
	if err != nil {
		log.Warn("main: mpris unavailable", "err", err)
	} else {
		defer mprisServer.Close()
	}

	app := tview.NewApplication()
	rend := newRenderer(app, playerHandle, imageCache, log)
	deps := &nav.Deps{Client: client, Player: playerHandle, Renderer: rend, App: app, Log: log}
	stack := nav.NewStack()

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		nav.Driver(ctx, stack, deps)
		app.QueueUpdateDraw(func() { app.Stop() })
	}()

	if err := app.Run(); err != nil {
		return fmt.Errorf("running terminal application: %w", err)
	}
	<-driverDone
	return nil
}
