package browser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/fickle/internal/app/browser"
	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/port/porttest"
	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/ui/window"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-full",
		DisplayName: "WebKit (bundled)",
		Origin:      entity.OriginEmbeddedFull,
		Caps:        entity.CapZoom | entity.CapScriptEval | entity.CapThumbnail | entity.CapBackForward,
	}
}

func platformDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-platform",
		DisplayName: "WebKit (system)",
		Origin:      entity.OriginEmbeddedPlatform,
		Caps:        entity.CapZoom | entity.CapBackForward,
	}
}

type fixture struct {
	tm    *browser.TabManager
	repo  *porttest.SnapshotRepo
	built map[entity.Origin][]*porttest.Engine

	failConstruct map[entity.Origin]error
	failAttach    map[entity.Origin]error

	nextPtr uintptr
}

func newFixture(descriptors ...entity.Descriptor) *fixture {
	f := &fixture{
		repo:          porttest.NewSnapshotRepo(),
		built:         make(map[entity.Origin][]*porttest.Engine),
		failConstruct: make(map[entity.Origin]error),
		failAttach:    make(map[entity.Origin]error),
		nextPtr:       0x1000,
	}

	build := func(_ context.Context, _ entity.TabID, d entity.Descriptor) (port.Engine, error) {
		if err := f.failConstruct[d.Origin]; err != nil {
			return nil, err
		}
		eng := porttest.NewEngine(d)
		f.nextPtr += 0x10
		eng.ViewStub = &porttest.View{Ptr: f.nextPtr}
		eng.FailAttach = f.failAttach[d.Origin]
		f.built[d.Origin] = append(f.built[d.Origin], eng)
		return eng, nil
	}
	builders := map[entity.Origin]port.EngineBuilder{
		entity.OriginEmbeddedFull:     build,
		entity.OriginEmbeddedPlatform: build,
		entity.OriginDelegating:       build,
		entity.OriginOutOfProcess:     build,
	}

	detector := &porttest.Detector{Descriptors: descriptors}
	selector := usecase.NewSelectEngineUseCase(&porttest.PreferenceStore{})
	factory := usecase.NewCreateEngineUseCase(selector, detector, builders)
	attachments := window.NewAttachmentManager(
		&porttest.Container{Name: "fullscreen"},
		func() port.Container { return &porttest.Container{} },
		zerolog.Nop(),
	)

	f.tm = browser.NewTabManager(
		factory,
		usecase.NewSnapshotTabUseCase(f.repo),
		usecase.NewRestoreTabUseCase(f.repo),
		detector,
		attachments,
		zerolog.Nop(),
	)
	return f
}

func (f *fixture) lastBuilt(origin entity.Origin) *porttest.Engine {
	engines := f.built[origin]
	if len(engines) == 0 {
		return nil
	}
	return engines[len(engines)-1]
}

func TestOpenTabAttachesAndNavigates(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())

	tab, err := f.tm.OpenTab(t.Context(), "https://example.com")
	require.NoError(t, err)

	eng, ok := f.tm.Engine(tab.ID)
	require.True(t, ok)
	assert.Equal(t, entity.EngineID("webkit-full"), eng.Descriptor().ID)
	assert.Equal(t, port.StateAttached, eng.State())

	fake := f.lastBuilt(entity.OriginEmbeddedFull)
	assert.Equal(t, []string{"https://example.com"}, fake.LoadedURLs)
	assert.Equal(t, "https://example.com", tab.URI)
}

func TestCloseTabDestroysEngineAndSnapshot(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	eng, _ := f.tm.Engine(tab.ID)
	require.NoError(t, usecase.NewSnapshotTabUseCase(f.repo).Execute(ctx, tab.ID, eng))

	require.NoError(t, f.tm.CloseTab(ctx, tab.ID))

	fake := f.lastBuilt(entity.OriginEmbeddedFull)
	assert.Equal(t, port.StateDestroyed, fake.State())
	_, stillOpen := f.tm.Tab(tab.ID)
	assert.False(t, stillOpen)

	payload, err := f.repo.Load(ctx, tab.ID)
	require.NoError(t, err)
	assert.Nil(t, payload, "snapshot should be deleted with the tab")
}

func TestSwitchEngineCarriesHistoryOver(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://a.example")
	require.NoError(t, err)
	require.NoError(t, f.tm.Navigate(ctx, tab.ID, "https://b.example"))

	old := f.lastBuilt(entity.OriginEmbeddedFull)
	require.NoError(t, f.tm.SwitchEngine(ctx, tab.ID, "webkit-platform"))

	replacement := f.lastBuilt(entity.OriginEmbeddedPlatform)
	require.NotNil(t, replacement)
	assert.Equal(t, port.StateAttached, replacement.State())
	assert.Equal(t, port.StateDestroyed, old.State())

	require.NotNil(t, replacement.RestoredState)
	entries := replacement.RestoredState.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "https://b.example", entries[1].URL)

	eng, ok := f.tm.Engine(tab.ID)
	require.True(t, ok)
	assert.Equal(t, entity.EngineID("webkit-platform"), eng.Descriptor().ID)
}

func TestSwitchEngineKeepsOldOnConstructionFailure(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	old := f.lastBuilt(entity.OriginEmbeddedFull)

	// Every candidate fails to build, so the swap cannot produce a
	// replacement.
	f.failConstruct[entity.OriginEmbeddedPlatform] = errors.New("component vanished")
	f.failConstruct[entity.OriginEmbeddedFull] = errors.New("component vanished")

	err = f.tm.SwitchEngine(ctx, tab.ID, "webkit-platform")
	require.Error(t, err)
	assert.ErrorIs(t, err, usecase.ErrConstructionFailed)

	assert.Equal(t, port.StateAttached, old.State(), "failed swap must leave the current engine in place")
	eng, _ := f.tm.Engine(tab.ID)
	assert.Same(t, port.Engine(old), eng)
}

func TestSwitchEngineRollsBackOnAttachFailure(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	old := f.lastBuilt(entity.OriginEmbeddedFull)

	f.failAttach[entity.OriginEmbeddedPlatform] = errors.New("window gone")

	err = f.tm.SwitchEngine(ctx, tab.ID, "webkit-platform")
	require.Error(t, err)

	assert.Equal(t, port.StateAttached, old.State(), "old engine must be re-attached after rollback")
	replacement := f.lastBuilt(entity.OriginEmbeddedPlatform)
	assert.Equal(t, port.StateDestroyed, replacement.State())
}

func TestSwitchEngineToSameBackendIsNoOp(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)

	require.NoError(t, f.tm.SwitchEngine(ctx, tab.ID, "webkit-full"))
	assert.Len(t, f.built[entity.OriginEmbeddedFull], 1, "no replacement should be built")
}

func TestRestoreTabFullRestore(t *testing.T) {
	f := newFixture(fullDescriptor(), platformDescriptor())
	ctx := t.Context()

	// A previous run left a snapshot owned by webkit-full.
	donor := porttest.NewEngine(fullDescriptor())
	require.NoError(t, donor.LoadURL(ctx, "https://a.example"))
	require.NoError(t, donor.LoadURL(ctx, "https://b.example"))
	require.NoError(t, usecase.NewSnapshotTabUseCase(f.repo).Execute(ctx, "tab-restored", donor))

	tab, err := f.tm.RestoreTab(ctx, "tab-restored")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", tab.URI)

	eng, ok := f.tm.Engine("tab-restored")
	require.True(t, ok)
	assert.Equal(t, entity.EngineID("webkit-full"), eng.Descriptor().ID)

	fake := f.lastBuilt(entity.OriginEmbeddedFull)
	require.NotNil(t, fake.RestoredState)
	assert.Equal(t, 2, fake.RestoredState.Len())
}

func TestRestoreTabColdWhenOwnerGone(t *testing.T) {
	// Only the platform backend is detected now.
	f := newFixture(platformDescriptor())
	ctx := t.Context()

	donor := porttest.NewEngine(fullDescriptor())
	require.NoError(t, donor.LoadURL(ctx, "https://a.example"))
	require.NoError(t, donor.LoadURL(ctx, "https://b.example"))
	require.NoError(t, usecase.NewSnapshotTabUseCase(f.repo).Execute(ctx, "tab-cold", donor))

	tab, err := f.tm.RestoreTab(ctx, "tab-cold")
	require.NoError(t, err)
	assert.Equal(t, "https://b.example", tab.URI)

	eng, ok := f.tm.Engine("tab-cold")
	require.True(t, ok)
	assert.Equal(t, entity.EngineID("webkit-platform"), eng.Descriptor().ID)

	// Cold restore keeps only the current entry.
	fake := f.lastBuilt(entity.OriginEmbeddedPlatform)
	require.NotNil(t, fake.RestoredState)
	assert.Equal(t, 1, fake.RestoredState.Len())
}

func TestRestoreAllReopensEverySavedTab(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	snapshotUC := usecase.NewSnapshotTabUseCase(f.repo)
	for _, id := range []entity.TabID{"tab-x", "tab-y"} {
		donor := porttest.NewEngine(fullDescriptor())
		require.NoError(t, donor.LoadURL(ctx, "https://"+string(id)+".example"))
		require.NoError(t, snapshotUC.Execute(ctx, id, donor))
	}

	require.NoError(t, f.tm.RestoreAll(ctx))
	assert.Len(t, f.tm.Tabs(), 2)
}

func TestShutdownSnapshotsAndDestroys(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	fake := f.lastBuilt(entity.OriginEmbeddedFull)

	f.tm.Shutdown(ctx)

	assert.Equal(t, port.StateDestroyed, fake.State())
	payload, err := f.repo.Load(ctx, tab.ID)
	require.NoError(t, err)
	assert.NotNil(t, payload, "shutdown keeps the snapshot for the next start")
	assert.Empty(t, f.tm.Tabs())
}

func TestPermissionRequestDeniedWithoutHandler(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	_, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	fake := f.lastBuilt(entity.OriginEmbeddedFull)
	require.NotNil(t, fake.Host)
	require.NotNil(t, fake.Host.OnPermissionRequested)

	fake.Host.OnPermissionRequested(port.PermissionRequest{Origin: "https://example.com", Kind: "camera"})
	assert.Equal(t, []bool{false}, fake.PermissionAnswers)

	fake.Host.OnFilePickerRequested(false)
	require.Len(t, fake.FilePicks, 1)
	assert.Nil(t, fake.FilePicks[0])
}

func TestPermissionRequestRoutedToHandler(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	var kinds []string
	f.tm.SetOnPermissionRequest(func(_ entity.TabID, req port.PermissionRequest, answer func(bool)) {
		kinds = append(kinds, req.Kind)
		answer(req.Kind == "geolocation")
	})
	f.tm.SetOnFilePickRequest(func(_ entity.TabID, _ bool, answer func([]string)) {
		answer([]string{"/tmp/upload.png"})
	})

	_, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	fake := f.lastBuilt(entity.OriginEmbeddedFull)

	fake.Host.OnPermissionRequested(port.PermissionRequest{Kind: "geolocation"})
	fake.Host.OnPermissionRequested(port.PermissionRequest{Kind: "camera"})
	assert.Equal(t, []string{"geolocation", "camera"}, kinds)
	assert.Equal(t, []bool{true, false}, fake.PermissionAnswers)

	fake.Host.OnFilePickerRequested(true)
	require.Len(t, fake.FilePicks, 1)
	assert.Equal(t, []string{"/tmp/upload.png"}, fake.FilePicks[0])
}

func TestOnStateChangedFiresForNavigation(t *testing.T) {
	f := newFixture(fullDescriptor())
	ctx := t.Context()

	var dirty []entity.TabID
	f.tm.SetOnStateChanged(func(id entity.TabID) { dirty = append(dirty, id) })

	tab, err := f.tm.OpenTab(ctx, "https://example.com")
	require.NoError(t, err)
	require.NoError(t, f.tm.Navigate(ctx, tab.ID, "https://b.example"))

	assert.GreaterOrEqual(t, len(dirty), 2)
	for _, id := range dirty {
		assert.Equal(t, tab.ID, id)
	}
}
