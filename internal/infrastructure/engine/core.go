// Package engine provides the concrete rendering backends behind the
// application's Engine port: the bundled WebKit runtime, the thin wrapper
// over the platform-supplied component, a delegating variant, and the
// out-of-process delegate. All backends share one lifecycle core so the
// Created → Attached ⇄ Detached → Destroyed rules are enforced in a single
// place.
package engine

import (
	"context"
	"sync/atomic"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/rs/zerolog"
)

const (
	zoomStep    = 0.1
	zoomMinimum = 0.25
	zoomMaximum = 5.0
)

// nativeHooks are the backend-specific operations behind the shared core.
// The core validates lifecycle legality and keeps the history mirror; hooks
// touch native resources only.
type nativeHooks interface {
	// createView builds the native view on first attach.
	createView(ctx context.Context) (port.View, error)
	// releaseView irreversibly frees native resources on destroy.
	releaseView(ctx context.Context)
	// navigate loads a URL in the native view.
	navigate(ctx context.Context, url string) error
	// reload reloads the current page natively.
	reload(ctx context.Context) error
	// historyMove performs a native back/forward step; the core has already
	// moved its history mirror when this is called.
	historyMove(ctx context.Context, back bool)
	// applyZoom pushes a clamped zoom level to the native view.
	applyZoom(level float64)
	// answerPermission resolves the parked native permission request.
	// Reports false when nothing is pending.
	answerPermission(granted bool) bool
	// answerFilePick resolves the parked native file chooser; nil or empty
	// paths cancel it. Reports false when nothing is pending.
	answerFilePick(paths []string) bool
	// dropPendingRequests denies and releases any parked native requests.
	dropPendingRequests()
	// trim releases reclaimable native state on memory pressure.
	trim(ctx context.Context)
}

// core implements the lifecycle, navigation-history, and zoom bookkeeping
// shared by every backend. Contract operations run on the UI-affine main
// loop, so plain fields suffice; only the destroyed flag is read from
// asynchronous completions and is therefore atomic.
type core struct {
	desc     entity.Descriptor
	tabID    entity.TabID
	dispatch port.Dispatcher
	hooks    nativeHooks
	log      zerolog.Logger

	state     port.EngineState
	host      *port.HostCallbacks
	container port.Container
	view      port.View

	history *entity.NavigationHistory
	zoom    float64

	destroyed atomic.Bool
}

func newCore(desc entity.Descriptor, tabID entity.TabID, dispatch port.Dispatcher, log zerolog.Logger, hooks nativeHooks) *core {
	return &core{
		desc:     desc,
		tabID:    tabID,
		dispatch: dispatch,
		hooks:    hooks,
		log:      log.With().Str("engine_id", string(desc.ID)).Str("tab_id", string(tabID)).Logger(),
		state:    port.StateCreated,
		history:  entity.NewNavigationHistory(),
		zoom:     1.0,
	}
}

// Descriptor implements port.Engine.
func (c *core) Descriptor() entity.Descriptor { return c.desc }

// State implements port.Engine.
func (c *core) State() port.EngineState { return c.state }

// View implements port.Engine.
func (c *core) View() port.View { return c.view }

func (c *core) ensureAlive(op string) error {
	if c.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: op, State: c.state}
	}
	return nil
}

// Attach implements port.Engine.
func (c *core) Attach(ctx context.Context, host *port.HostCallbacks, container, _ port.Container) error {
	if c.state != port.StateCreated && c.state != port.StateDetached {
		return &port.IllegalStateError{Op: "attach", State: c.state}
	}

	if c.view == nil {
		view, err := c.hooks.createView(ctx)
		if err != nil {
			return err
		}
		c.view = view
	}

	c.host = host
	c.container = container
	container.Append(c.view)
	c.view.SetVisible(true)
	c.state = port.StateAttached

	c.log.Debug().Msg("engine attached")
	return nil
}

// Detach implements port.Engine.
func (c *core) Detach(ctx context.Context, completely, destroyTab bool) error {
	if completely {
		return c.destroy(ctx, destroyTab)
	}
	if c.state != port.StateAttached {
		return &port.IllegalStateError{Op: "detach", State: c.state}
	}

	// Nothing answers a parked page request while the view is off screen.
	c.hooks.dropPendingRequests()
	if c.container != nil && c.view != nil {
		c.container.Remove(c.view)
	}
	c.container = nil
	c.state = port.StateDetached

	c.log.Debug().Msg("engine detached, native view retained")
	return nil
}

// destroy releases everything, from any state. Idempotent.
func (c *core) destroy(ctx context.Context, destroyTab bool) error {
	if c.destroyed.Swap(true) {
		return nil
	}
	c.hooks.dropPendingRequests()
	if c.container != nil && c.view != nil {
		c.container.Remove(c.view)
	}
	c.container = nil
	c.host = nil
	c.hooks.releaseView(ctx)
	c.view = nil
	c.state = port.StateDestroyed

	c.log.Debug().Bool("destroy_tab", destroyTab).Msg("engine destroyed")
	return nil
}

// LoadURL implements port.Engine.
func (c *core) LoadURL(ctx context.Context, url string) error {
	if err := c.ensureAlive("loadURL"); err != nil {
		return err
	}
	c.history.Visit(url, "")
	if err := c.hooks.navigate(ctx, url); err != nil {
		c.notifyLoadFailed(url, err)
		return err
	}
	return nil
}

// Reload implements port.Engine.
func (c *core) Reload(ctx context.Context) error {
	if err := c.ensureAlive("reload"); err != nil {
		return err
	}
	return c.hooks.reload(ctx)
}

// GoBack implements port.Engine.
func (c *core) GoBack(ctx context.Context) error {
	if err := c.ensureAlive("goBack"); err != nil {
		return err
	}
	if !c.desc.Caps.Has(entity.CapBackForward) {
		return nil
	}
	if _, ok := c.history.GoBack(); !ok {
		return nil
	}
	c.hooks.historyMove(ctx, true)
	return nil
}

// GoForward implements port.Engine.
func (c *core) GoForward(ctx context.Context) error {
	if err := c.ensureAlive("goForward"); err != nil {
		return err
	}
	if !c.desc.Caps.Has(entity.CapBackForward) {
		return nil
	}
	if _, ok := c.history.GoForward(); !ok {
		return nil
	}
	c.hooks.historyMove(ctx, false)
	return nil
}

// CanGoBack implements port.Engine.
func (c *core) CanGoBack() bool {
	return c.desc.Caps.Has(entity.CapBackForward) && c.history.CanGoBack()
}

// CanGoForward implements port.Engine.
func (c *core) CanGoForward() bool {
	return c.desc.Caps.Has(entity.CapBackForward) && c.history.CanGoForward()
}

// ZoomIn implements port.Engine.
func (c *core) ZoomIn(ctx context.Context) error {
	return c.setZoom(ctx, "zoomIn", c.zoom+zoomStep)
}

// ZoomOut implements port.Engine.
func (c *core) ZoomOut(ctx context.Context) error {
	return c.setZoom(ctx, "zoomOut", c.zoom-zoomStep)
}

// ZoomBy implements port.Engine.
func (c *core) ZoomBy(ctx context.Context, factor float64) error {
	return c.setZoom(ctx, "zoomBy", c.zoom*factor)
}

func (c *core) setZoom(_ context.Context, op string, level float64) error {
	if err := c.ensureAlive(op); err != nil {
		return err
	}
	if !c.desc.Caps.Has(entity.CapZoom) {
		return nil
	}
	if level < zoomMinimum {
		level = zoomMinimum
	}
	if level > zoomMaximum {
		level = zoomMaximum
	}
	c.zoom = level
	c.hooks.applyZoom(level)
	return nil
}

// CanZoomIn implements port.Engine.
func (c *core) CanZoomIn() bool {
	return c.desc.Caps.Has(entity.CapZoom) && c.zoom < zoomMaximum
}

// CanZoomOut implements port.Engine.
func (c *core) CanZoomOut() bool {
	return c.desc.Caps.Has(entity.CapZoom) && c.zoom > zoomMinimum
}

// ZoomLevel implements port.Engine.
func (c *core) ZoomLevel() float64 { return c.zoom }

// EvaluateScript implements port.Engine. Backends with CapScriptEval shadow
// this with a native implementation.
func (c *core) EvaluateScript(context.Context, string) {}

// SaveState implements port.Engine.
func (c *core) SaveState() *entity.NavigationHistory {
	out := entity.NewNavigationHistory()
	out.Replace(c.history.Entries(), c.history.CurrentIndex())
	return out
}

// RestoreState implements port.Engine.
func (c *core) RestoreState(ctx context.Context, history *entity.NavigationHistory) error {
	if err := c.ensureAlive("restoreState"); err != nil {
		return err
	}
	c.history.Replace(history.Entries(), history.CurrentIndex())
	if entry, ok := c.history.Current(); ok {
		if err := c.hooks.navigate(ctx, entry.URL); err != nil {
			c.notifyLoadFailed(entry.URL, err)
			return err
		}
	}
	return nil
}

// RenderThumbnail implements port.Engine. Backends with CapThumbnail shadow
// this with a native capture; the default reports no image.
func (c *core) RenderThumbnail(_ context.Context, _ port.ThumbnailSize, fn func(*port.Thumbnail)) {
	c.deliver(func() { fn(nil) })
}

// OnPermissionsResult implements port.Engine. Delivery is only meaningful
// while the view is attached; while detached the result is dropped.
func (c *core) OnPermissionsResult(_ context.Context, req port.PermissionRequest, granted bool) {
	if c.state != port.StateAttached {
		c.log.Debug().Str("kind", req.Kind).Msg("permission result ignored while not attached")
		return
	}
	if !c.hooks.answerPermission(granted) {
		c.log.Debug().Str("kind", req.Kind).Msg("permission result with no pending request")
		return
	}
	c.log.Debug().Str("kind", req.Kind).Bool("granted", granted).Msg("permission request answered")
}

// OnFilePicked implements port.Engine.
func (c *core) OnFilePicked(_ context.Context, paths []string) {
	if c.state != port.StateAttached {
		c.log.Debug().Msg("file pick result ignored while not attached")
		return
	}
	if !c.hooks.answerFilePick(paths) {
		c.log.Debug().Msg("file pick result with no pending chooser")
		return
	}
	c.log.Debug().Int("count", len(paths)).Msg("file chooser answered")
}

// TrimMemory implements port.Engine. An attached view is visible, so
// dropping its renderer state would blank the page in front of the user;
// only detached (and never-shown) instances shed memory.
func (c *core) TrimMemory(ctx context.Context) {
	if c.destroyed.Load() {
		return
	}
	if c.state == port.StateAttached {
		return
	}
	c.hooks.trim(ctx)
}

// deliver posts fn onto the UI loop, dropping it if the instance is
// destroyed before it runs. Late async results never race teardown.
func (c *core) deliver(fn func()) {
	c.dispatch.Post(func() {
		if c.destroyed.Load() {
			return
		}
		fn()
	})
}

// pageCommitted records a native navigation commit. Back/forward moves and
// explicit loads have already positioned the mirror, so a commit of the
// current URL only refreshes the title; anything else (redirects, link
// clicks inside the page) appends.
func (c *core) pageCommitted(url, title string) {
	if url == "" {
		return
	}
	c.history.Visit(url, title)
	if c.host != nil && c.host.OnURIChanged != nil {
		c.host.OnURIChanged(url)
	}
}

// titleChanged updates the current entry title and notifies the host.
func (c *core) titleChanged(title string) {
	c.history.SetTitle(title)
	if c.host != nil && c.host.OnTitleChanged != nil {
		c.host.OnTitleChanged(title)
	}
}

// permissionRequested tells the host a page permission decision is pending.
// Returns false when no one can answer, in which case the backend must deny
// immediately instead of parking the request.
func (c *core) permissionRequested(req port.PermissionRequest) bool {
	if c.state != port.StateAttached || c.host == nil || c.host.OnPermissionRequested == nil {
		return false
	}
	c.host.OnPermissionRequested(req)
	return true
}

// filePickerRequested tells the host a page file chooser is pending. Same
// contract as permissionRequested.
func (c *core) filePickerRequested(multiple bool) bool {
	if c.state != port.StateAttached || c.host == nil || c.host.OnFilePickerRequested == nil {
		return false
	}
	c.host.OnFilePickerRequested(multiple)
	return true
}

func (c *core) loadFinished(url string) {
	if c.host != nil && c.host.OnLoadFinished != nil {
		c.host.OnLoadFinished(url)
	}
}

func (c *core) notifyLoadFailed(url string, err error) {
	c.log.Warn().Err(err).Str("url", url).Msg("navigation failed")
	if c.host != nil && c.host.OnLoadFailed != nil {
		c.host.OnLoadFailed(url, err)
	}
}
