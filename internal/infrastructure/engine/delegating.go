package engine

import (
	"context"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
)

// URLRewriter adjusts outgoing navigation targets before the wrapped engine
// sees them. Used to tag requests with an alternate identity or force a
// scheme upgrade.
type URLRewriter func(url string) string

// delegatingEngine wraps another engine and presents it under its own
// identity. Rendering behavior, lifecycle, and capability flags all come
// from the wrapped instance; only the descriptor identity and the outgoing
// URL policy are overridden.
type delegatingEngine struct {
	inner   port.Engine
	desc    entity.Descriptor
	rewrite URLRewriter
}

var _ port.Engine = (*delegatingEngine)(nil)

// NewDelegatingEngine wraps inner under the delegating descriptor identity.
// The returned descriptor carries desc's ID, name, and origin with the
// wrapped engine's capability flags, since that is what actually renders.
// rewrite may be nil.
func NewDelegatingEngine(desc entity.Descriptor, inner port.Engine, rewrite URLRewriter) port.Engine {
	desc.Caps = inner.Descriptor().Caps
	return &delegatingEngine{inner: inner, desc: desc, rewrite: rewrite}
}

func (d *delegatingEngine) Descriptor() entity.Descriptor { return d.desc }

func (d *delegatingEngine) State() port.EngineState { return d.inner.State() }

func (d *delegatingEngine) View() port.View { return d.inner.View() }

func (d *delegatingEngine) Attach(ctx context.Context, host *port.HostCallbacks, container, fullscreen port.Container) error {
	return d.inner.Attach(ctx, host, container, fullscreen)
}

func (d *delegatingEngine) Detach(ctx context.Context, completely, destroyTab bool) error {
	return d.inner.Detach(ctx, completely, destroyTab)
}

func (d *delegatingEngine) LoadURL(ctx context.Context, url string) error {
	if d.rewrite != nil {
		url = d.rewrite(url)
	}
	return d.inner.LoadURL(ctx, url)
}

func (d *delegatingEngine) Reload(ctx context.Context) error { return d.inner.Reload(ctx) }

func (d *delegatingEngine) GoBack(ctx context.Context) error { return d.inner.GoBack(ctx) }

func (d *delegatingEngine) GoForward(ctx context.Context) error { return d.inner.GoForward(ctx) }

func (d *delegatingEngine) CanGoBack() bool { return d.inner.CanGoBack() }

func (d *delegatingEngine) CanGoForward() bool { return d.inner.CanGoForward() }

func (d *delegatingEngine) ZoomIn(ctx context.Context) error { return d.inner.ZoomIn(ctx) }

func (d *delegatingEngine) ZoomOut(ctx context.Context) error { return d.inner.ZoomOut(ctx) }

func (d *delegatingEngine) ZoomBy(ctx context.Context, factor float64) error {
	return d.inner.ZoomBy(ctx, factor)
}

func (d *delegatingEngine) CanZoomIn() bool { return d.inner.CanZoomIn() }

func (d *delegatingEngine) CanZoomOut() bool { return d.inner.CanZoomOut() }

func (d *delegatingEngine) ZoomLevel() float64 { return d.inner.ZoomLevel() }

func (d *delegatingEngine) EvaluateScript(ctx context.Context, code string) {
	d.inner.EvaluateScript(ctx, code)
}

func (d *delegatingEngine) SaveState() *entity.NavigationHistory { return d.inner.SaveState() }

func (d *delegatingEngine) RestoreState(ctx context.Context, history *entity.NavigationHistory) error {
	return d.inner.RestoreState(ctx, history)
}

func (d *delegatingEngine) RenderThumbnail(ctx context.Context, size port.ThumbnailSize, fn func(*port.Thumbnail)) {
	d.inner.RenderThumbnail(ctx, size, fn)
}

func (d *delegatingEngine) OnPermissionsResult(ctx context.Context, req port.PermissionRequest, granted bool) {
	d.inner.OnPermissionsResult(ctx, req, granted)
}

func (d *delegatingEngine) OnFilePicked(ctx context.Context, paths []string) {
	d.inner.OnFilePicked(ctx, paths)
}

func (d *delegatingEngine) TrimMemory(ctx context.Context) { d.inner.TrimMemory(ctx) }
