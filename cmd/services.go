package cmd

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xvierd/kaizen/internal/adapters/clock"
	"github.com/xvierd/kaizen/internal/adapters/notification"
	"github.com/xvierd/kaizen/internal/adapters/storage"
	"github.com/xvierd/kaizen/internal/config"
	"github.com/xvierd/kaizen/internal/domain"
	"github.com/xvierd/kaizen/internal/logger"
	"github.com/xvierd/kaizen/internal/ports"
	"github.com/xvierd/kaizen/internal/seed"
	"github.com/xvierd/kaizen/internal/services"
)

// appDeps groups all service-layer dependencies initialized at startup.
type appDeps struct {
	config    *config.Config
	logger    *zap.Logger
	storage   ports.Storage
	tasks     *services.TaskService
	workspace *services.WorkspaceService
	notifier  *notification.Notifier
}

// app holds all initialized service dependencies.
// Populated by initializeServices() and accessible to all commands.
var app appDeps

// loadConfig reads the config file named by --config, or the default one.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFrom(configPath)
	}
	return config.Load()
}

// initializeServices sets up all the required services and adapters and
// seeds the session. interactive is set when the terminal belongs to the
// TUI or the MCP stdio transport.
func initializeServices(interactive bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.config = cfg

	// Flags override the file
	if storageDriver != "" {
		app.config.Storage.Driver = storageDriver
	}
	if seedPath != "" {
		app.config.Seed.File = seedPath
	}
	if err := app.config.Validate(); err != nil {
		return err
	}

	app.logger, err = logger.New(app.config.Logging, interactive)
	if err != nil {
		return err
	}

	app.storage, err = storage.Open(app.config.Storage.Driver)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}

	app.tasks = services.NewTaskService(app.storage, clock.System{}, app.logger)
	if err := seedSession(context.Background(), app.tasks, app.config.Seed); err != nil {
		_ = cleanupServices()
		return err
	}

	app.workspace = services.NewWorkspaceService(app.tasks, app.logger)
	app.notifier = notification.New(&app.config.Notifications)
	if app.notifier.IsEnabled() {
		app.workspace.SetNotifier(app.notifier)
	}

	app.logger.Debug("session ready",
		zap.String("storage", app.config.Storage.Driver),
		zap.String("seed", seedSource(app.config.Seed)),
	)
	return nil
}

// seedSession loads the initial collection: the seed file when one is
// configured, otherwise the built-in sample data unless it is turned off.
func seedSession(ctx context.Context, tasks *services.TaskService, cfg config.SeedConfig) error {
	var initial []*domain.Task
	switch {
	case cfg.File != "":
		loaded, err := seed.Load(cfg.File)
		if err != nil {
			return err
		}
		initial = loaded
	case cfg.Builtin:
		initial = seed.Builtin(tasks.Now())
	default:
		return nil
	}
	if err := tasks.Seed(ctx, initial); err != nil {
		return fmt.Errorf("failed to seed session: %w", err)
	}
	return nil
}

func seedSource(cfg config.SeedConfig) string {
	switch {
	case cfg.File != "":
		return cfg.File
	case cfg.Builtin:
		return "builtin"
	default:
		return "empty"
	}
}

// cleanupServices closes all resources.
func cleanupServices() error {
	if app.logger != nil {
		_ = app.logger.Sync()
	}
	if app.storage != nil {
		err := app.storage.Close()
		app.storage = nil
		return err
	}
	return nil
}
