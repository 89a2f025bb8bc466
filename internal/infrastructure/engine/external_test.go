package engine_test

import (
	"context"
	"errors"
	"testing"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/port/porttest"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/engine"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOpener struct {
	opened []string
	err    error
}

func (f *fakeOpener) OpenURL(_ context.Context, url string) error {
	if f.err != nil {
		return f.err
	}
	f.opened = append(f.opened, url)
	return nil
}

func externalTestDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "external",
		DisplayName: "External viewer",
		Origin:      entity.OriginOutOfProcess,
		Caps:        entity.CapOutOfProcess,
	}
}

func newExternal(opener port.Opener) port.Engine {
	inline := port.DispatcherFunc(func(fn func()) { fn() })
	return engine.NewExternalEngine(externalTestDescriptor(), "tab-1", inline, zerolog.Nop(), opener, func() port.View {
		return &porttest.View{Ptr: 0x1a}
	})
}

func TestExternalLoadDelegatesToOpener(t *testing.T) {
	ctx := t.Context()
	opener := &fakeOpener{}
	eng := newExternal(opener)

	var finished []string
	host := &port.HostCallbacks{OnLoadFinished: func(url string) { finished = append(finished, url) }}
	require.NoError(t, eng.Attach(ctx, host, &porttest.Container{}, nil))

	require.NoError(t, eng.LoadURL(ctx, "https://a.com"))
	assert.Equal(t, []string{"https://a.com"}, opener.opened)
	assert.Equal(t, []string{"https://a.com"}, finished)

	// History is still mirrored for persistence even without back/forward.
	saved := eng.SaveState()
	assert.Equal(t, 1, saved.Len())
}

func TestExternalOpenFailureSurfacesAsNavigationFailure(t *testing.T) {
	ctx := t.Context()
	opener := &fakeOpener{err: errors.New("no handler registered")}
	eng := newExternal(opener)

	var failed string
	host := &port.HostCallbacks{OnLoadFailed: func(url string, _ error) { failed = url }}
	require.NoError(t, eng.Attach(ctx, host, &porttest.Container{}, nil))

	require.Error(t, eng.LoadURL(ctx, "https://a.com"))
	assert.Equal(t, "https://a.com", failed)
}

func TestExternalUnsupportedOperationsAreSilent(t *testing.T) {
	ctx := t.Context()
	eng := newExternal(&fakeOpener{})
	require.NoError(t, eng.Attach(ctx, nil, &porttest.Container{}, nil))
	require.NoError(t, eng.LoadURL(ctx, "https://a.com"))
	require.NoError(t, eng.LoadURL(ctx, "https://b.com"))

	assert.False(t, eng.CanGoBack())
	require.NoError(t, eng.GoBack(ctx))
	assert.Equal(t, 1, eng.SaveState().CurrentIndex())

	require.NoError(t, eng.ZoomIn(ctx))
	assert.Equal(t, 1.0, eng.ZoomLevel())
	assert.False(t, eng.CanZoomIn())

	eng.EvaluateScript(ctx, "document.title")

	delivered := false
	eng.RenderThumbnail(ctx, port.ThumbnailSize{Width: 160, Height: 90}, func(th *port.Thumbnail) {
		delivered = true
		assert.Nil(t, th)
	})
	assert.True(t, delivered)
}

func TestExternalDestroyedRejectsOperations(t *testing.T) {
	ctx := t.Context()
	eng := newExternal(&fakeOpener{})
	require.NoError(t, eng.Attach(ctx, nil, &porttest.Container{}, nil))
	require.NoError(t, eng.Detach(ctx, true, true))

	var ise *port.IllegalStateError
	assert.ErrorAs(t, eng.LoadURL(ctx, "https://a.com"), &ise)
	assert.Equal(t, port.StateDestroyed, eng.State())
}
