package layout

import (
	"github.com/jwijenbergh/puregotk/v4/gdk"
	"github.com/jwijenbergh/puregotk/v4/gtk"
)

// Ensure implementations satisfy interfaces at compile time.
var (
	_ Widget        = (*gtkWidget)(nil)
	_ BoxWidget     = (*gtkBox)(nil)
	_ LabelWidget   = (*gtkLabel)(nil)
	_ ImageWidget   = (*gtkImage)(nil)
	_ WidgetFactory = (*GtkWidgetFactory)(nil)
)

// gtkWidget wraps a gtk.Widget to implement the Widget interface.
type gtkWidget struct {
	inner *gtk.Widget
}

func (w *gtkWidget) Show()                       { w.inner.Show() }
func (w *gtkWidget) Hide()                       { w.inner.Hide() }
func (w *gtkWidget) SetVisible(visible bool)     { w.inner.SetVisible(visible) }
func (w *gtkWidget) IsVisible() bool             { return w.inner.GetVisible() }
func (w *gtkWidget) SetHexpand(expand bool)      { w.inner.SetHexpand(expand) }
func (w *gtkWidget) SetVexpand(expand bool)      { w.inner.SetVexpand(expand) }
func (w *gtkWidget) AddCssClass(class string)    { w.inner.AddCssClass(class) }
func (w *gtkWidget) RemoveCssClass(class string) { w.inner.RemoveCssClass(class) }
func (w *gtkWidget) Unparent()                   { w.inner.Unparent() }
func (w *gtkWidget) GtkWidget() *gtk.Widget      { return w.inner }

// gtkBox wraps gtk.Box to implement BoxWidget.
type gtkBox struct {
	inner *gtk.Box
}

func (b *gtkBox) Show()                       { b.inner.Show() }
func (b *gtkBox) Hide()                       { b.inner.Hide() }
func (b *gtkBox) SetVisible(visible bool)     { b.inner.SetVisible(visible) }
func (b *gtkBox) IsVisible() bool             { return b.inner.GetVisible() }
func (b *gtkBox) SetHexpand(expand bool)      { b.inner.SetHexpand(expand) }
func (b *gtkBox) SetVexpand(expand bool)      { b.inner.SetVexpand(expand) }
func (b *gtkBox) AddCssClass(class string)    { b.inner.AddCssClass(class) }
func (b *gtkBox) RemoveCssClass(class string) { b.inner.RemoveCssClass(class) }
func (b *gtkBox) Unparent()                   { b.inner.Unparent() }
func (b *gtkBox) GtkWidget() *gtk.Widget      { return &b.inner.Widget }

func (b *gtkBox) Append(child Widget) {
	if child == nil {
		return
	}
	b.inner.Append(child.GtkWidget())
}

func (b *gtkBox) Remove(child Widget) {
	if child == nil {
		return
	}
	b.inner.Remove(child.GtkWidget())
}

func (b *gtkBox) SetSpacing(s int)             { b.inner.SetSpacing(s) }
func (b *gtkBox) SetOrientation(o Orientation) { b.inner.SetOrientation(o) }

// gtkLabel wraps gtk.Label to implement LabelWidget.
type gtkLabel struct {
	inner *gtk.Label
}

func (l *gtkLabel) Show()                       { l.inner.Show() }
func (l *gtkLabel) Hide()                       { l.inner.Hide() }
func (l *gtkLabel) SetVisible(visible bool)     { l.inner.SetVisible(visible) }
func (l *gtkLabel) IsVisible() bool             { return l.inner.GetVisible() }
func (l *gtkLabel) SetHexpand(expand bool)      { l.inner.SetHexpand(expand) }
func (l *gtkLabel) SetVexpand(expand bool)      { l.inner.SetVexpand(expand) }
func (l *gtkLabel) AddCssClass(class string)    { l.inner.AddCssClass(class) }
func (l *gtkLabel) RemoveCssClass(class string) { l.inner.RemoveCssClass(class) }
func (l *gtkLabel) Unparent()                   { l.inner.Unparent() }
func (l *gtkLabel) GtkWidget() *gtk.Widget      { return &l.inner.Widget }

func (l *gtkLabel) SetText(text string)     { l.inner.SetText(text) }
func (l *gtkLabel) GetText() string         { return l.inner.GetText() }
func (l *gtkLabel) SetMarkup(markup string) { l.inner.SetMarkup(markup) }

// gtkImage wraps gtk.Image to implement ImageWidget.
type gtkImage struct {
	inner *gtk.Image
}

func (img *gtkImage) Show()                       { img.inner.Show() }
func (img *gtkImage) Hide()                       { img.inner.Hide() }
func (img *gtkImage) SetVisible(visible bool)     { img.inner.SetVisible(visible) }
func (img *gtkImage) IsVisible() bool             { return img.inner.GetVisible() }
func (img *gtkImage) SetHexpand(expand bool)      { img.inner.SetHexpand(expand) }
func (img *gtkImage) SetVexpand(expand bool)      { img.inner.SetVexpand(expand) }
func (img *gtkImage) AddCssClass(class string)    { img.inner.AddCssClass(class) }
func (img *gtkImage) RemoveCssClass(class string) { img.inner.RemoveCssClass(class) }
func (img *gtkImage) Unparent()                   { img.inner.Unparent() }
func (img *gtkImage) GtkWidget() *gtk.Widget      { return &img.inner.Widget }

func (img *gtkImage) SetFromPaintable(p Paintable) {
	if p == nil {
		img.inner.Clear()
		return
	}
	// gdk.Texture implements gdk.Paintable; rehydrate it from the pointer
	// that crossed the port boundary.
	texture := &gdk.Texture{}
	texture.Ptr = p.GoPointer()
	img.inner.SetFromPaintable(texture)
}

func (img *gtkImage) SetPixelSize(size int) { img.inner.SetPixelSize(size) }
func (img *gtkImage) Clear()                { img.inner.Clear() }

// GtkWidgetFactory creates real GTK widgets.
type GtkWidgetFactory struct{}

// NewGtkWidgetFactory creates a new factory for real GTK widgets.
func NewGtkWidgetFactory() *GtkWidgetFactory {
	return &GtkWidgetFactory{}
}

func (f *GtkWidgetFactory) NewBox(orientation Orientation, spacing int) BoxWidget {
	box := gtk.NewBox(orientation, spacing)
	box.SetHexpand(true)
	box.SetVexpand(true)
	return &gtkBox{inner: box}
}

func (f *GtkWidgetFactory) NewLabel(text string) LabelWidget {
	label := gtk.NewLabel(&text)
	return &gtkLabel{inner: label}
}

func (f *GtkWidgetFactory) NewImage() ImageWidget {
	image := gtk.NewImage()
	return &gtkImage{inner: image}
}

func (f *GtkWidgetFactory) WrapPointer(ptr uintptr) Widget {
	if ptr == 0 {
		return nil
	}
	inner := &gtk.Widget{}
	inner.Ptr = ptr
	return &gtkWidget{inner: inner}
}
