// Package layouttest provides toolkit-free fakes for the layout widget
// interfaces.
package layouttest

import (
	"github.com/bnema/fickle/internal/ui/layout"
	"github.com/jwijenbergh/puregotk/v4/gtk"
)

// FakeWidget records visibility and CSS mutations.
type FakeWidget struct {
	Ptr        uintptr
	Visible    bool
	CssClasses []string
	Unparented bool

	gtkWidget *gtk.Widget
}

var _ layout.Widget = (*FakeWidget)(nil)

// NewFakeWidget builds a fake around the given native pointer.
func NewFakeWidget(ptr uintptr) *FakeWidget {
	w := &gtk.Widget{}
	w.Ptr = ptr
	return &FakeWidget{Ptr: ptr, gtkWidget: w}
}

func (f *FakeWidget) Show()                   { f.Visible = true }
func (f *FakeWidget) Hide()                   { f.Visible = false }
func (f *FakeWidget) SetVisible(visible bool) { f.Visible = visible }
func (f *FakeWidget) IsVisible() bool         { return f.Visible }
func (f *FakeWidget) SetHexpand(bool)         {}
func (f *FakeWidget) SetVexpand(bool)         {}

func (f *FakeWidget) AddCssClass(class string) { f.CssClasses = append(f.CssClasses, class) }

func (f *FakeWidget) RemoveCssClass(class string) {
	for i, c := range f.CssClasses {
		if c == class {
			f.CssClasses = append(f.CssClasses[:i], f.CssClasses[i+1:]...)
			return
		}
	}
}

func (f *FakeWidget) Unparent()              { f.Unparented = true }
func (f *FakeWidget) GtkWidget() *gtk.Widget { return f.gtkWidget }

// FakeBox records appended and removed children.
type FakeBox struct {
	FakeWidget
	Children []layout.Widget
}

var _ layout.BoxWidget = (*FakeBox)(nil)

func (b *FakeBox) Append(child layout.Widget) { b.Children = append(b.Children, child) }

func (b *FakeBox) Remove(child layout.Widget) {
	for i, c := range b.Children {
		if c == child {
			b.Children = append(b.Children[:i], b.Children[i+1:]...)
			return
		}
	}
}

func (b *FakeBox) SetSpacing(int)                    {}
func (b *FakeBox) SetOrientation(layout.Orientation) {}

// FakeLabel records its text.
type FakeLabel struct {
	FakeWidget
	Text string
}

var _ layout.LabelWidget = (*FakeLabel)(nil)

func (l *FakeLabel) SetText(text string)     { l.Text = text }
func (l *FakeLabel) GetText() string         { return l.Text }
func (l *FakeLabel) SetMarkup(markup string) { l.Text = markup }

// FakeImage records the paintables it displayed.
type FakeImage struct {
	FakeWidget
	Paintables []layout.Paintable
	Cleared    int
}

var _ layout.ImageWidget = (*FakeImage)(nil)

func (i *FakeImage) SetFromPaintable(p layout.Paintable) { i.Paintables = append(i.Paintables, p) }
func (i *FakeImage) SetPixelSize(int)                    {}
func (i *FakeImage) Clear()                              { i.Cleared++ }

// FakeFactory creates fakes and records wrapped pointers.
type FakeFactory struct {
	nextPtr uintptr
	Boxes   []*FakeBox
	Labels  []*FakeLabel
	Images  []*FakeImage
	Wrapped []uintptr
}

var _ layout.WidgetFactory = (*FakeFactory)(nil)

// NewFakeFactory builds a factory whose widgets carry synthetic pointers.
func NewFakeFactory() *FakeFactory {
	return &FakeFactory{nextPtr: 0x1000}
}

func (f *FakeFactory) allocPtr() uintptr {
	f.nextPtr++
	return f.nextPtr
}

func (f *FakeFactory) NewBox(layout.Orientation, int) layout.BoxWidget {
	b := &FakeBox{FakeWidget: *NewFakeWidget(f.allocPtr())}
	f.Boxes = append(f.Boxes, b)
	return b
}

func (f *FakeFactory) NewLabel(text string) layout.LabelWidget {
	l := &FakeLabel{FakeWidget: *NewFakeWidget(f.allocPtr()), Text: text}
	f.Labels = append(f.Labels, l)
	return l
}

func (f *FakeFactory) NewImage() layout.ImageWidget {
	i := &FakeImage{FakeWidget: *NewFakeWidget(f.allocPtr())}
	f.Images = append(f.Images, i)
	return i
}

func (f *FakeFactory) WrapPointer(ptr uintptr) layout.Widget {
	if ptr == 0 {
		return nil
	}
	f.Wrapped = append(f.Wrapped, ptr)
	return NewFakeWidget(ptr)
}
