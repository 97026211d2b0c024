// Package app wires the config loader, the storage registry and the pair
// planner into the commands the CLI exposes.
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Croissong/vdirsyncer/internal/config"
	"github.com/Croissong/vdirsyncer/internal/ctxlog"
	"github.com/Croissong/vdirsyncer/internal/storage"
)

// Config holds everything an App instance needs to run.
type Config struct {
	Command    string
	ConfigPath string

	LogFormat  string
	LogLevel   string
	MaxWorkers int
}

// App encapsulates the application's dependencies and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *storage.Registry
}

// NewApp returns a fully initialized App with its own isolated logger and
// the built-in storage backends registered.
func NewApp(outW io.Writer, cfg *Config) *App {
	return &App{
		outW:     outW,
		logger:   newLogger(cfg.LogLevel, cfg.LogFormat, outW),
		config:   cfg,
		registry: storage.NewRegistry(),
	}
}

// Registry returns the storage registry so tests and embedders can add
// backends before Run.
func (a *App) Registry() *storage.Registry {
	return a.registry
}

// Run loads the configuration and dispatches to the requested command.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App run started.", "command", a.config.Command)

	conf, err := config.Load(ctx, a.config.ConfigPath)
	if err != nil {
		return fmt.Errorf("error loading config file %q:\n%w", a.config.ConfigPath, err)
	}
	a.logger.Debug("Configuration loaded.",
		"pairs", len(conf.Pairs), "storages", len(conf.Storages))

	switch a.config.Command {
	case "check":
		return a.check(ctx, conf)
	case "discover":
		return a.discover(ctx, conf)
	default:
		return fmt.Errorf("unknown command %q", a.config.Command)
	}
}
