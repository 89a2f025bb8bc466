// Package layout provides GTK widget abstractions for the tab content area.
// It defines interfaces that wrap GTK types, enabling unit testing without a
// GTK runtime, and adapters that expose GTK containers through the
// toolkit-free application ports.
package layout

import (
	"github.com/jwijenbergh/puregotk/v4/gtk"
)

// Orientation represents the orientation for layout widgets.
type Orientation = gtk.Orientation

// Orientation constants matching GTK values.
const (
	OrientationHorizontal = gtk.OrientationHorizontalValue
	OrientationVertical   = gtk.OrientationVerticalValue
)

// Widget is the base interface that all wrapped GTK widgets implement.
type Widget interface {
	Show()
	Hide()
	SetVisible(visible bool)
	IsVisible() bool

	SetHexpand(expand bool)
	SetVexpand(expand bool)

	AddCssClass(cssClass string)
	RemoveCssClass(cssClass string)

	Unparent()

	// GtkWidget returns the underlying GTK widget for embedding.
	GtkWidget() *gtk.Widget
}

// BoxWidget wraps gtk.Box for linear layouts.
type BoxWidget interface {
	Widget

	Append(child Widget)
	Remove(child Widget)
	SetSpacing(spacing int)
	SetOrientation(orientation Orientation)
}

// LabelWidget wraps gtk.Label for text display.
type LabelWidget interface {
	Widget

	SetText(text string)
	GetText() string
	SetMarkup(markup string)
}

// Paintable abstracts over gdk.Paintable/gdk.Texture for thumbnail display.
type Paintable interface {
	GoPointer() uintptr
}

// ImageWidget wraps gtk.Image for displaying tab thumbnails.
type ImageWidget interface {
	Widget

	SetFromPaintable(paintable Paintable)
	SetPixelSize(pixelSize int)
	Clear()
}

// WidgetFactory creates widget instances. The abstraction lets tests inject
// toolkit-free fakes.
type WidgetFactory interface {
	NewBox(orientation Orientation, spacing int) BoxWidget
	NewLabel(text string) LabelWidget
	NewImage() ImageWidget

	// WrapPointer wraps a native widget pointer received across the
	// toolkit-free port boundary.
	WrapPointer(ptr uintptr) Widget
}
