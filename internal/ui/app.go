// Package ui boots the GTK application and wires the browser together.
package ui

import (
	"context"
	"database/sql"

	"github.com/bnema/fickle/internal/app/browser"
	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/config"
	"github.com/bnema/fickle/internal/infrastructure/desktop"
	"github.com/bnema/fickle/internal/infrastructure/engine"
	"github.com/bnema/fickle/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/fickle/internal/infrastructure/snapshot"
	"github.com/bnema/fickle/internal/logging"
	"github.com/bnema/fickle/internal/ui/layout"
	"github.com/bnema/fickle/internal/ui/mainloop"
	"github.com/bnema/fickle/internal/ui/window"
	"github.com/jwijenbergh/puregotk/v4/gio"
	"github.com/jwijenbergh/puregotk/v4/gtk"
)

// App wraps the GTK Application and manages the browser lifecycle.
type App struct {
	configManager *config.Manager
	startURL      string

	gtkApp     *gtk.Application
	mainWindow *window.MainWindow
	dispatcher *mainloop.GlibDispatcher

	db              *sql.DB
	tabs            *browser.TabManager
	snapshotService *snapshot.Service
}

// New creates the application. startURL, when non-empty, opens in a fresh
// tab after session restore.
func New(configManager *config.Manager, startURL string) *App {
	return &App{
		configManager: configManager,
		startURL:      startURL,
	}
}

// Run starts the GTK application and blocks until it exits. Returns the
// process exit code.
func (a *App) Run(ctx context.Context, args []string) int {
	log := logging.FromContext(ctx)
	log.Debug().Msg("creating GTK application")

	a.gtkApp = gtk.NewApplication(nil, gio.GApplicationFlagsNoneValue)
	if a.gtkApp == nil {
		log.Error().Msg("failed to create GTK application")
		return 1
	}
	defer a.gtkApp.Unref()

	activateCb := func(_ gio.Application) {
		a.onActivate(ctx)
	}
	a.gtkApp.ConnectActivate(&activateCb)

	shutdownCb := func(_ gio.Application) {
		a.onShutdown(ctx)
	}
	a.gtkApp.ConnectShutdown(&shutdownCb)

	log.Info().Msg("starting GTK main loop")
	return a.gtkApp.Run(len(args), args)
}

func (a *App) onActivate(ctx context.Context) {
	log := logging.FromContext(ctx)
	cfg := a.configManager.Get()

	db, err := sqlite.NewConnection(ctx, cfg.Database.Path)
	if err != nil {
		log.Error().Err(err).Msg("failed to open snapshot database")
		return
	}
	a.db = db

	factory := layout.NewGtkWidgetFactory()
	mw, err := window.New(ctx, a.gtkApp, factory)
	if err != nil {
		log.Error().Err(err).Msg("failed to create main window")
		return
	}
	a.mainWindow = mw
	a.dispatcher = mainloop.NewGlibDispatcher()

	a.tabs = a.buildTabManager(ctx, cfg, factory)

	repo := sqlite.NewTabSnapshotRepository(db)
	a.snapshotService = snapshot.NewService(
		usecase.NewSnapshotTabUseCase(repo),
		a.tabs,
		a.dispatcher,
		cfg.Session.SnapshotIntervalMs,
	)
	// Title updates are coalesced: a burst of navigation events on one tab
	// produces a single main-loop pass.
	titles := mainloop.NewCoalescer(a.dispatcher)
	a.tabs.SetOnStateChanged(func(tabID entity.TabID) {
		a.snapshotService.MarkDirty(tabID)
		titles.Post("window-title", func() {
			if tab, ok := a.tabs.Tab(tabID); ok {
				a.mainWindow.SetTitle(tab.Title)
			}
		})
	})
	a.tabs.SetOnTabClosed(a.snapshotService.Forget)
	a.snapshotService.Start(ctx)

	if cfg.Session.AutoRestore {
		if restoreErr := a.tabs.RestoreAll(ctx); restoreErr != nil {
			log.Warn().Err(restoreErr).Msg("session restore failed")
		}
	}
	if len(a.tabs.Tabs()) == 0 || a.startURL != "" {
		if _, openErr := a.tabs.OpenTab(ctx, a.startURL); openErr != nil {
			log.Error().Err(openErr).Msg("failed to open initial tab")
			return
		}
	}

	mw.Show()
}

func (a *App) buildTabManager(ctx context.Context, cfg *config.Config, factory layout.WidgetFactory) *browser.TabManager {
	log := logging.FromContext(ctx)

	repo := sqlite.NewTabSnapshotRepository(a.db)

	builders := engine.Builders(engine.BuilderDeps{
		Dispatch: a.dispatcher,
		Log:      *log,
		WebKit: engine.WebKitOptions{
			EnableDeveloperExtras: cfg.WebKit.EnableDeveloperExtras,
			HardwareAcceleration:  cfg.WebKit.HardwareAcceleration != config.HardwareAccelerationNever,
			UserAgent:             cfg.WebKit.UserAgent,
		},
		TaggedUserAgent: cfg.Engine.TaggedUserAgent,
		Opener:          desktop.NewXDGOpener(),
		Placeholder: func() port.View {
			label := factory.NewLabel("This page was handed to an external viewer.")
			label.AddCssClass("external-placeholder")
			label.SetHexpand(true)
			label.SetVexpand(true)
			return layout.NewWidgetView(label)
		},
	})

	attachments := window.NewAttachmentManager(
		a.mainWindow.FullscreenSlot(),
		a.mainWindow.NewTabSlot,
		*log,
	)

	selector := usecase.NewSelectEngineUseCase(a.configManager)
	detector := engine.DetectorFromConfig(cfg)

	return browser.NewTabManager(
		usecase.NewCreateEngineUseCase(selector, detector, builders),
		usecase.NewSnapshotTabUseCase(repo),
		usecase.NewRestoreTabUseCase(repo),
		detector,
		attachments,
		*log,
	)
}

// Quit asks the GTK application to exit.
func (a *App) Quit() {
	if a.gtkApp != nil {
		a.gtkApp.Quit()
	}
}

func (a *App) onShutdown(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info().Msg("shutting down")

	if a.tabs != nil {
		a.tabs.Shutdown(ctx)
	}
	if a.snapshotService != nil {
		if err := a.snapshotService.Stop(ctx); err != nil {
			log.Warn().Err(err).Msg("final snapshot flush failed")
		}
	}
	if a.db != nil {
		if err := sqlite.Close(a.db); err != nil {
			log.Warn().Err(err).Msg("failed to close snapshot database")
		}
	}
}
