// Package cli provides shared state for the Cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/bnema/fickle/internal/cli/styles"
	"github.com/bnema/fickle/internal/infrastructure/config"
	"github.com/bnema/fickle/internal/logging"
)

// App holds CLI dependencies.
type App struct {
	Config *config.Manager
	Theme  *styles.Theme

	// Context with logger
	ctx context.Context
}

// NewApp creates a new CLI application with all dependencies.
func NewApp() (*App, error) {
	mgr, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("initialize config: %w", err)
	}
	if err := mgr.Load(); err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg := mgr.Get()

	logLevel := cfg.Logging.Level
	if envLevel := os.Getenv("FICKLE_LOG_LEVEL"); envLevel != "" {
		logLevel = envLevel
	}
	logger := logging.New(logging.Config{
		Level:      logging.ParseLevel(logLevel),
		Format:     cfg.Logging.Format,
		TimeFormat: "15:04:05",
	})
	ctx := logging.WithContext(context.Background(), logger)

	return &App{
		Config: mgr,
		Theme:  styles.NewTheme(),
		ctx:    ctx,
	}, nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// Close releases all resources.
func (a *App) Close() error {
	return nil
}
