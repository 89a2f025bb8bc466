package window_test

import (
	"fmt"
	"testing"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/port/porttest"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/ui/window"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	manager    *window.AttachmentManager
	fullscreen *porttest.Container
	slots      []*porttest.Container
}

func newFixture() *fixture {
	f := &fixture{fullscreen: &porttest.Container{Name: "fullscreen"}}
	f.manager = window.NewAttachmentManager(f.fullscreen, func() port.Container {
		slot := &porttest.Container{Name: fmt.Sprintf("slot-%d", len(f.slots))}
		f.slots = append(f.slots, slot)
		return slot
	}, zerolog.Nop())
	return f
}

func attachedEngine(t *testing.T, f *fixture, tabID entity.TabID, ptr uintptr) *porttest.Engine {
	t.Helper()
	eng := porttest.NewEngine(entity.Descriptor{ID: "webkit-full", Origin: entity.OriginEmbeddedFull})
	eng.ViewStub = &porttest.View{Ptr: ptr}
	require.NoError(t, f.manager.Attach(t.Context(), tabID, eng, nil))
	return eng
}

func TestAttachCreatesSlotPerTab(t *testing.T) {
	f := newFixture()
	engA := attachedEngine(t, f, "tab-a", 0x1)
	engB := attachedEngine(t, f, "tab-b", 0x2)

	require.Len(t, f.slots, 2)
	assert.True(t, f.slots[0].Contains(engA.ViewStub))
	assert.True(t, f.slots[1].Contains(engB.ViewStub))

	got, ok := f.manager.Engine("tab-a")
	require.True(t, ok)
	assert.Same(t, port.Engine(engA), got)
}

func TestSlotSurvivesEngineSwap(t *testing.T) {
	f := newFixture()
	old := attachedEngine(t, f, "tab-a", 0x1)
	require.NoError(t, f.manager.Detach(t.Context(), "tab-a", true, false))
	assert.Equal(t, port.StateDestroyed, old.State())

	replacement := attachedEngine(t, f, "tab-a", 0x2)
	require.Len(t, f.slots, 1, "replacement engine reuses the tab's slot")
	assert.True(t, f.slots[0].Contains(replacement.ViewStub))
}

func TestFullscreenSingleOccupancy(t *testing.T) {
	f := newFixture()
	engA := attachedEngine(t, f, "tab-a", 0x1)
	engB := attachedEngine(t, f, "tab-b", 0x2)

	require.NoError(t, f.manager.EnterFullscreen("tab-a"))
	assert.True(t, f.fullscreen.Contains(engA.ViewStub))
	assert.False(t, f.slots[0].Contains(engA.ViewStub))
	occupant, ok := f.manager.Occupant()
	require.True(t, ok)
	assert.Equal(t, entity.TabID("tab-a"), occupant)

	// Second tab entering evicts the first back to its own slot.
	require.NoError(t, f.manager.EnterFullscreen("tab-b"))
	assert.True(t, f.fullscreen.Contains(engB.ViewStub))
	assert.False(t, f.fullscreen.Contains(engA.ViewStub))
	assert.True(t, f.slots[0].Contains(engA.ViewStub))
	assert.Equal(t, 1, f.fullscreen.Len())
}

func TestEnterFullscreenIsIdempotentForOccupant(t *testing.T) {
	f := newFixture()
	attachedEngine(t, f, "tab-a", 0x1)

	require.NoError(t, f.manager.EnterFullscreen("tab-a"))
	require.NoError(t, f.manager.EnterFullscreen("tab-a"))
	assert.Equal(t, 1, f.fullscreen.Len())
}

func TestExitFullscreenReturnsViewToSlot(t *testing.T) {
	f := newFixture()
	engA := attachedEngine(t, f, "tab-a", 0x1)
	require.NoError(t, f.manager.EnterFullscreen("tab-a"))

	// Non-occupants exiting is a no-op.
	f.manager.ExitFullscreen("tab-b")
	assert.Equal(t, 1, f.fullscreen.Len())

	f.manager.ExitFullscreen("tab-a")
	assert.Equal(t, 0, f.fullscreen.Len())
	assert.True(t, f.slots[0].Contains(engA.ViewStub))
	_, ok := f.manager.Occupant()
	assert.False(t, ok)
}

func TestDetachVacatesFullscreen(t *testing.T) {
	f := newFixture()
	attachedEngine(t, f, "tab-a", 0x1)
	require.NoError(t, f.manager.EnterFullscreen("tab-a"))

	require.NoError(t, f.manager.Detach(t.Context(), "tab-a", true, true))
	assert.Equal(t, 0, f.fullscreen.Len())
	_, ok := f.manager.Occupant()
	assert.False(t, ok)
	_, ok = f.manager.Engine("tab-a")
	assert.False(t, ok)
}

func TestEnterFullscreenRequiresAttachedEngine(t *testing.T) {
	f := newFixture()
	require.Error(t, f.manager.EnterFullscreen("tab-a"))

	attachedEngine(t, f, "tab-a", 0x1)
	require.NoError(t, f.manager.Detach(t.Context(), "tab-a", false, false))

	err := f.manager.EnterFullscreen("tab-a")
	var ise *port.IllegalStateError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, port.StateDetached, ise.State)
}
