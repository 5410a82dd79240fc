package main

import (
	"log/slog"
	"os"
	"path/filepath"

	"quill/internal/config"
	"quill/internal/server"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	cfg := config.Load()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Error("failed to create data directory", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	srv, err := server.New(server.Config{
		Port:            cfg.Port,
		TemplateDir:     cfg.TemplateDir,
		StaticDir:       cfg.StaticDir,
		DBPath:          cfg.DBPath,
		SessionLifetime: cfg.SessionLifetime,
	}, logger)
	if err != nil {
		logger.Error("failed to initialize server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := srv.Start(); err != nil {
		logger.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
