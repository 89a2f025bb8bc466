package engine_test

import (
	"strings"
	"testing"

	"github.com/bnema/fickle/internal/application/port/porttest"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func wrappedDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-full",
		DisplayName: "WebKit (bundled)",
		Origin:      entity.OriginEmbeddedFull,
		Caps:        entity.CapZoom | entity.CapBackForward | entity.CapScriptEval,
	}
}

func delegatingDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-tagged",
		DisplayName: "WebKit (tagged)",
		Origin:      entity.OriginDelegating,
	}
}

func TestDelegatingPresentsOwnIdentityWithWrappedCaps(t *testing.T) {
	inner := porttest.NewEngine(wrappedDescriptor())
	eng := engine.NewDelegatingEngine(delegatingDescriptor(), inner, nil)

	desc := eng.Descriptor()
	assert.Equal(t, entity.EngineID("webkit-tagged"), desc.ID)
	assert.Equal(t, entity.OriginDelegating, desc.Origin)
	// Capability flags come from what actually renders.
	assert.Equal(t, wrappedDescriptor().Caps, desc.Caps)
}

func TestDelegatingRewritesOutgoingURLs(t *testing.T) {
	ctx := t.Context()
	inner := porttest.NewEngine(wrappedDescriptor())
	eng := engine.NewDelegatingEngine(delegatingDescriptor(), inner, func(url string) string {
		return strings.Replace(url, "http://", "https://", 1)
	})

	require.NoError(t, eng.LoadURL(ctx, "http://a.com"))
	require.Equal(t, []string{"https://a.com"}, inner.LoadedURLs)

	// Reload and history moves pass through untouched.
	require.NoError(t, eng.Reload(ctx))
	assert.Equal(t, 1, inner.Reloads)
}

func TestDelegatingForwardsLifecycleAndState(t *testing.T) {
	ctx := t.Context()
	inner := porttest.NewEngine(wrappedDescriptor())
	eng := engine.NewDelegatingEngine(delegatingDescriptor(), inner, nil)

	container := &porttest.Container{Name: "tab"}
	require.NoError(t, eng.Attach(ctx, nil, container, nil))
	assert.Equal(t, inner.State(), eng.State())

	require.NoError(t, eng.LoadURL(ctx, "https://a.com"))
	require.NoError(t, eng.LoadURL(ctx, "https://b.com"))
	assert.True(t, eng.CanGoBack())
	require.NoError(t, eng.GoBack(ctx))
	assert.True(t, eng.CanGoForward())

	saved := eng.SaveState()
	assert.Equal(t, 2, saved.Len())
	assert.Equal(t, 0, saved.CurrentIndex())

	require.NoError(t, eng.Detach(ctx, true, false))
	assert.Len(t, inner.DetachCalls, 1)
}
