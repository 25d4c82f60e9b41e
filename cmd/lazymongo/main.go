package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rebeliceyang/lazymongo/internal/app"
	"github.com/rebeliceyang/lazymongo/internal/config"
	"github.com/rebeliceyang/lazymongo/internal/connection_history"
	"github.com/rebeliceyang/lazymongo/internal/history"
)

func main() {
	cfg, err := config.Load()
	var loadErr error
	if err != nil {
		loadErr = err
		cfg = config.GetDefaults()
	}

	// a connection string on the command line wins over the config file
	if len(os.Args) > 1 {
		cfg.Connection.URI = os.Args[1]
		cfg.Connection.Name = ""
	}

	logger, closeLog := newLogger(cfg)
	defer closeLog()
	if loadErr != nil {
		logger.Warn("could not load config, using defaults", "error", loadErr)
	}

	var store *history.Store
	if cfg.History.Enabled {
		store = openHistory(cfg, logger)
	}

	a := app.New(cfg, store, logger)
	if dir, err := config.GetConfigPath(); err == nil {
		if recent, err := connection_history.NewManager(dir); err == nil {
			a.SetConnectionHistory(recent)
		} else {
			logger.Warn("connection history disabled", "error", err)
		}
	}

	opts := []tea.ProgramOption{tea.WithAltScreen()}
	if cfg.UI.MouseEnabled {
		opts = append(opts, tea.WithMouseCellMotion())
	}

	p := tea.NewProgram(a, opts...)
	a.SetProgram(p)

	_, runErr := p.Run()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	a.Close(ctx)
	cancel()
	if store != nil {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close history", "error", err)
		}
	}

	if runErr != nil {
		fmt.Printf("Error running program: %v\n", runErr)
		os.Exit(1)
	}
}

// newLogger writes to the log file; the terminal belongs to the UI
func newLogger(cfg *config.Config) (*slog.Logger, func()) {
	var w io.Writer = io.Discard
	closeFn := func() {}

	if path, err := cfg.LogPath(); err == nil {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err == nil {
			if f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err == nil {
				w = f
				closeFn = func() { _ = f.Close() }
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(logger)
	return logger, closeFn
}

func openHistory(cfg *config.Config, logger *slog.Logger) *history.Store {
	path, err := cfg.HistoryPath()
	if err != nil {
		logger.Warn("query log disabled", "error", err)
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.Warn("query log disabled", "error", err)
		return nil
	}

	store, err := history.NewStore(path)
	if err != nil {
		logger.Warn("query log disabled", "error", err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if n, err := store.Prune(ctx, cfg.History.MaxEntries); err != nil {
		logger.Warn("failed to prune query log", "error", err)
	} else if n > 0 {
		logger.Debug("pruned query log", "removed", n)
	}
	return store
}
