// Package window manages how engine views occupy the window's content
// areas: each tab owns a content slot, and a single shared fullscreen slot
// holds at most one view at a time.
package window

import (
	"context"
	"fmt"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/rs/zerolog"
)

type attachment struct {
	engine port.Engine
	slot   port.Container
}

// AttachmentManager wires engines into per-tab slots and arbitrates the
// fullscreen slot. All methods are main-loop affine.
type AttachmentManager struct {
	fullscreen port.Container
	newSlot    func() port.Container
	log        zerolog.Logger

	tabs     map[entity.TabID]*attachment
	occupant entity.TabID
}

// NewAttachmentManager builds a manager over the shared fullscreen slot.
// newSlot creates the content slot for each tab on first attach.
func NewAttachmentManager(fullscreen port.Container, newSlot func() port.Container, log zerolog.Logger) *AttachmentManager {
	return &AttachmentManager{
		fullscreen: fullscreen,
		newSlot:    newSlot,
		log:        log.With().Str("component", "attachment").Logger(),
		tabs:       make(map[entity.TabID]*attachment),
	}
}

// Attach places eng's view into the tab's content slot, creating the slot on
// first use. The slot survives engine swaps, so a replacement engine lands
// in the same spot in the window.
func (m *AttachmentManager) Attach(ctx context.Context, tabID entity.TabID, eng port.Engine, host *port.HostCallbacks) error {
	a, ok := m.tabs[tabID]
	if !ok {
		a = &attachment{slot: m.newSlot()}
		m.tabs[tabID] = a
	}
	if err := eng.Attach(ctx, host, a.slot, m.fullscreen); err != nil {
		return err
	}
	a.engine = eng
	m.log.Debug().Str("tab_id", string(tabID)).Str("engine_id", string(eng.Descriptor().ID)).Msg("engine attached to tab slot")
	return nil
}

// Detach removes the tab's engine view from the window. The fullscreen slot
// is vacated first so a destroyed engine never leaves a stale occupant.
func (m *AttachmentManager) Detach(ctx context.Context, tabID entity.TabID, completely, destroyTab bool) error {
	a, ok := m.tabs[tabID]
	if !ok || a.engine == nil {
		return fmt.Errorf("no engine attached for tab %s", tabID)
	}
	if m.occupant == tabID {
		m.vacateFullscreen()
	}
	if err := a.engine.Detach(ctx, completely, destroyTab); err != nil {
		return err
	}
	if completely {
		a.engine = nil
	}
	if destroyTab {
		delete(m.tabs, tabID)
	}
	return nil
}

// Engine returns the engine currently bound to the tab, if any.
func (m *AttachmentManager) Engine(tabID entity.TabID) (port.Engine, bool) {
	a, ok := m.tabs[tabID]
	if !ok || a.engine == nil {
		return nil, false
	}
	return a.engine, true
}

// Slot returns the tab's content slot, if one was created.
func (m *AttachmentManager) Slot(tabID entity.TabID) (port.Container, bool) {
	a, ok := m.tabs[tabID]
	if !ok {
		return nil, false
	}
	return a.slot, true
}

// EnterFullscreen moves the tab's view into the fullscreen slot. The slot
// holds one view: a previous occupant is returned to its own tab slot
// first.
func (m *AttachmentManager) EnterFullscreen(tabID entity.TabID) error {
	a, ok := m.tabs[tabID]
	if !ok || a.engine == nil {
		return fmt.Errorf("no engine attached for tab %s", tabID)
	}
	if a.engine.State() != port.StateAttached {
		return &port.IllegalStateError{Op: "enterFullscreen", State: a.engine.State()}
	}
	if m.occupant == tabID {
		return nil
	}
	m.vacateFullscreen()

	view := a.engine.View()
	if view == nil {
		return fmt.Errorf("engine for tab %s has no view", tabID)
	}
	a.slot.Remove(view)
	m.fullscreen.Append(view)
	m.occupant = tabID
	m.log.Debug().Str("tab_id", string(tabID)).Msg("view entered fullscreen slot")
	return nil
}

// ExitFullscreen returns the tab's view to its content slot. A tab that is
// not the occupant is a no-op.
func (m *AttachmentManager) ExitFullscreen(tabID entity.TabID) {
	if m.occupant != tabID {
		return
	}
	m.vacateFullscreen()
}

// Occupant reports which tab currently holds the fullscreen slot.
func (m *AttachmentManager) Occupant() (entity.TabID, bool) {
	return m.occupant, m.occupant != ""
}

func (m *AttachmentManager) vacateFullscreen() {
	if m.occupant == "" {
		return
	}
	prev := m.tabs[m.occupant]
	if prev != nil && prev.engine != nil {
		if view := prev.engine.View(); view != nil {
			m.fullscreen.Remove(view)
			prev.slot.Append(view)
		}
	}
	m.log.Debug().Str("tab_id", string(m.occupant)).Msg("view left fullscreen slot")
	m.occupant = ""
}
