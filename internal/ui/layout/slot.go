package layout

import (
	"github.com/bnema/fickle/internal/application/port"
)

// Slot adapts a box into port.Container so engines can be embedded without
// the engine layer importing any toolkit package. Children cross the
// boundary as raw widget pointers and are rewrapped on this side.
type Slot struct {
	box      BoxWidget
	factory  WidgetFactory
	children map[uintptr]Widget
}

var _ port.Container = (*Slot)(nil)

// NewSlot builds a container slot over a fresh vertical box.
func NewSlot(factory WidgetFactory, cssClass string) *Slot {
	box := factory.NewBox(OrientationVertical, 0)
	if cssClass != "" {
		box.AddCssClass(cssClass)
	}
	return &Slot{
		box:      box,
		factory:  factory,
		children: make(map[uintptr]Widget, 1),
	}
}

// Append implements port.Container.
func (s *Slot) Append(view port.View) {
	if view == nil {
		return
	}
	ptr := view.GoPointer()
	if _, ok := s.children[ptr]; ok {
		return
	}
	w := s.factory.WrapPointer(ptr)
	if w == nil {
		return
	}
	w.SetHexpand(true)
	w.SetVexpand(true)
	s.box.Append(w)
	s.children[ptr] = w
}

// Remove implements port.Container.
func (s *Slot) Remove(view port.View) {
	if view == nil {
		return
	}
	ptr := view.GoPointer()
	w, ok := s.children[ptr]
	if !ok {
		return
	}
	s.box.Remove(w)
	delete(s.children, ptr)
}

// Contains implements port.Container.
func (s *Slot) Contains(view port.View) bool {
	if view == nil {
		return false
	}
	_, ok := s.children[view.GoPointer()]
	return ok
}

// Len returns the number of embedded views.
func (s *Slot) Len() int { return len(s.children) }

// Widget exposes the slot's box for embedding in the window layout.
func (s *Slot) Widget() Widget { return s.box }

// WidgetView exposes a wrapped widget through the toolkit-free port.View,
// used for placeholder content such as the out-of-process tab page.
type WidgetView struct {
	w Widget
}

var _ port.View = (*WidgetView)(nil)

// NewWidgetView wraps w as a port.View.
func NewWidgetView(w Widget) *WidgetView {
	return &WidgetView{w: w}
}

// GoPointer implements port.View.
func (v *WidgetView) GoPointer() uintptr { return v.w.GtkWidget().GoPointer() }

// SetVisible implements port.View.
func (v *WidgetView) SetVisible(visible bool) { v.w.SetVisible(visible) }
