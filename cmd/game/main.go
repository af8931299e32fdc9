package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/tatianab/ethics-journey/internal/config"
	"github.com/tatianab/ethics-journey/internal/content"
	"github.com/tatianab/ethics-journey/internal/engine"
	"github.com/tatianab/ethics-journey/internal/models"
	"github.com/tatianab/ethics-journey/internal/narrator"
	"github.com/tatianab/ethics-journey/internal/tui"
)

func main() {
	ctx := context.Background()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger, closeLog, err := openLogger(cfg)
	if err != nil {
		fmt.Printf("Error opening log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	slog.SetDefault(logger)

	graph, err := content.LoadFile(cfg.ContentPath)
	if err != nil {
		fmt.Printf("Error loading content: %v\n", err)
		os.Exit(1)
	}
	content.Report(logger, graph)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		fmt.Printf("Error opening session store: %v\n", err)
		os.Exit(1)
	}
	defer closeStore()

	eng := engine.Restore(ctx, graph, store, engine.WithLogger(logger))

	var reflector narrator.Reflector
	if cfg.NarratorEnabled() {
		n, err := narrator.New(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			fmt.Printf("Error creating narrator: %v\n", err)
			os.Exit(1)
		}
		defer n.Close()
		reflector = n
	}

	if err := tui.Run(eng, reflector); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}

func openLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	level, err := cfg.Level()
	if err != nil {
		return nil, nil, err
	}
	path := cfg.LogPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	return logger, func() { f.Close() }, nil
}

func openStore(cfg *config.Config) (models.Store, func(), error) {
	switch cfg.Store {
	case config.StoreSQLite:
		s, err := models.NewSQLiteStore(cfg.DatabasePath())
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.StoreMemory:
		return &models.MemoryStore{}, func() {}, nil
	default:
		return models.NewFileStore(cfg.SaveDir), func() {}, nil
	}
}
