package window

import (
	"context"
	"fmt"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/logging"
	"github.com/bnema/fickle/internal/ui/layout"
	"github.com/jwijenbergh/puregotk/v4/gtk"
	"github.com/rs/zerolog"
)

const (
	defaultWidth  = 1280
	defaultHeight = 800
	windowTitle   = "Fickle"
)

// MainWindow is the browser window: a content area hosting one slot per tab
// and a shared fullscreen area above it.
type MainWindow struct {
	window         *gtk.ApplicationWindow
	rootBox        *gtk.Box
	contentArea    *gtk.Box
	fullscreenArea *layout.Slot

	factory layout.WidgetFactory
	logger  zerolog.Logger
}

// New creates the main browser window.
func New(ctx context.Context, app *gtk.Application, factory layout.WidgetFactory) (*MainWindow, error) {
	log := logging.FromContext(ctx)

	mw := &MainWindow{
		factory: factory,
		logger:  log.With().Str("component", "main-window").Logger(),
	}

	mw.window = gtk.NewApplicationWindow(app)
	if mw.window == nil {
		return nil, ErrWindowCreationFailed
	}

	title := windowTitle
	mw.window.SetTitle(&title)
	mw.window.SetDefaultSize(defaultWidth, defaultHeight)

	mw.rootBox = gtk.NewBox(gtk.OrientationVerticalValue, 0)
	if mw.rootBox == nil {
		mw.window.Unref()
		return nil, ErrWidgetCreationFailed("rootBox")
	}
	mw.rootBox.SetHexpand(true)
	mw.rootBox.SetVexpand(true)
	mw.rootBox.SetVisible(true)

	// Fullscreen slot first so an occupant covers the content area.
	mw.fullscreenArea = layout.NewSlot(factory, "fullscreen-area")
	fsWidget := mw.fullscreenArea.Widget()
	fsWidget.SetHexpand(true)
	mw.rootBox.Append(fsWidget.GtkWidget())

	mw.contentArea = gtk.NewBox(gtk.OrientationVerticalValue, 0)
	if mw.contentArea == nil {
		mw.rootBox.Unref()
		mw.window.Unref()
		return nil, ErrWidgetCreationFailed("contentArea")
	}
	mw.contentArea.SetHexpand(true)
	mw.contentArea.SetVexpand(true)
	mw.contentArea.SetVisible(true)
	mw.contentArea.AddCssClass("content-area")
	mw.rootBox.Append(&mw.contentArea.Widget)

	mw.window.SetChild(&mw.rootBox.Widget)

	return mw, nil
}

// FullscreenSlot returns the shared fullscreen container.
func (mw *MainWindow) FullscreenSlot() port.Container {
	return mw.fullscreenArea
}

// NewTabSlot creates a content slot for one tab and places it in the content
// area. The slot stays in the window for the tab's whole lifetime, surviving
// engine swaps.
func (mw *MainWindow) NewTabSlot() port.Container {
	slot := layout.NewSlot(mw.factory, "tab-slot")
	w := slot.Widget()
	w.SetHexpand(true)
	w.SetVexpand(true)
	mw.contentArea.Append(w.GtkWidget())
	mw.logger.Debug().Msg("tab slot added to content area")
	return slot
}

// Show makes the window visible.
func (mw *MainWindow) Show() {
	mw.window.Present()
}

// Close closes the window.
func (mw *MainWindow) Close() {
	mw.window.Close()
}

// SetTitle updates the window title.
func (mw *MainWindow) SetTitle(title string) {
	if title == "" {
		title = windowTitle
	} else {
		title = fmt.Sprintf("%s - %s", title, windowTitle)
	}
	mw.window.SetTitle(&title)
}

// Window returns the underlying GTK window.
func (mw *MainWindow) Window() *gtk.ApplicationWindow {
	return mw.window
}

// WindowError is a window construction failure.
type WindowError struct {
	Message string
}

func (e WindowError) Error() string { return e.Message }

// ErrWindowCreationFailed means the application window could not be created.
var ErrWindowCreationFailed = WindowError{Message: "failed to create application window"}

// ErrWidgetCreationFailed creates an error for widget creation failure.
func ErrWidgetCreationFailed(name string) error {
	return WindowError{Message: fmt.Sprintf("failed to create widget: %s", name)}
}
