package main

import (
	"context"
	"fmt"
	"path/filepath"

	"reelcut/internal/config"
	"reelcut/internal/daemon"
	"reelcut/internal/editor"
	"reelcut/internal/ipc"
	"reelcut/internal/logging"
	"reelcut/internal/narration"
	"reelcut/internal/preflight"
	"reelcut/internal/preview/render"
	"reelcut/internal/scene"
)

func run(ctx context.Context, cfg *config.Config) error {
	logPath := filepath.Join(cfg.Paths.LogDir, "reelcut.log")
	logger, err := logging.New(logging.Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: []string{"stdout", logPath},
	})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	for _, result := range preflight.RunAll(ctx, cfg) {
		if result.Passed {
			logger.Debug("preflight check passed",
				logging.String("check", result.Name),
				logging.String("detail", result.Detail))
			continue
		}
		logger.Warn("preflight check failed",
			logging.String("check", result.Name),
			logging.String("detail", result.Detail),
			logging.String(logging.FieldEventType, "preflight_failed"))
	}

	store, err := scene.Open(cfg)
	if err != nil {
		logger.Error("open scene store", logging.Error(err))
		return err
	}
	defer store.Close()

	ed := editor.NewManager(editor.Options{
		Config:  cfg,
		Store:   store,
		Surface: render.NewSurfaceProvider(cfg),
		Logger:  logger,
	})

	var narrator *narration.Client
	if cfg.Narration.Enabled {
		narrator, err = narration.NewClient(cfg)
		if err != nil {
			logger.Warn("narration client unavailable", logging.Error(err))
		}
	}

	d, err := daemon.New(cfg, store, ed, narrator, logger)
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(ctx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	ipcServer, err := ipc.NewServer(ctx, cfg.SocketPath(), d, logger)
	if err != nil {
		return fmt.Errorf("start IPC server: %w", err)
	}
	defer ipcServer.Close()
	ipcServer.Serve()

	logger.Info("reelcutd ready",
		logging.String("socket", cfg.SocketPath()),
		logging.String("scene_db", store.Path()))

	<-ctx.Done()
	logger.Info("reelcutd shutting down")
	return nil
}
