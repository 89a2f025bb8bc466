package engine

import (
	"context"
	"fmt"
	"sync"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/puregotk-webkit/webkit"
	"github.com/jwijenbergh/puregotk/v4/gio"
	"github.com/jwijenbergh/puregotk/v4/gobject"
	"github.com/rs/zerolog"
)

// WebKitOptions tune the native view created by the WebKit-backed engines.
type WebKitOptions struct {
	// EnableDeveloperExtras exposes the inspector.
	EnableDeveloperExtras bool
	// HardwareAcceleration toggles GPU compositing.
	HardwareAcceleration bool
	// UserAgent overrides the default UA string when non-empty.
	UserAgent string
}

// webkitView owns the native webkit.WebView and the glue between its signals
// and the lifecycle core. It satisfies port.View so the host can embed it
// without importing any toolkit package.
type webkitView struct {
	inner *webkit.WebView
	log   zerolog.Logger

	signalIDs []uint32

	// Parked page requests awaiting a host answer. One of each at a time;
	// requests arriving while one is parked are refused immediately. Only
	// touched on the main loop.
	pendingPermission *webkit.PermissionRequestBase
	pendingChooser    *webkit.FileChooserRequest

	// asyncCallbacks keeps references to async callbacks to prevent GC.
	mu             sync.Mutex
	asyncCallbacks []interface{}
}

var _ port.View = (*webkitView)(nil)

func newWebkitView(opts WebKitOptions, log zerolog.Logger) (*webkitView, error) {
	inner := webkit.NewWebView()
	if inner == nil {
		return nil, fmt.Errorf("failed to create webkit webview")
	}

	wv := &webkitView{
		inner:     inner,
		log:       log.With().Str("component", "webkit-view").Logger(),
		signalIDs: make([]uint32, 0, 4),
	}
	wv.applySettings(opts)
	return wv, nil
}

func (wv *webkitView) applySettings(opts WebKitOptions) {
	settings := wv.inner.GetSettings()
	if settings == nil {
		return
	}
	settings.SetEnableJavascript(true)
	settings.SetEnableSmoothScrolling(true)
	settings.SetEnablePageCache(true)
	settings.SetEnableSiteSpecificQuirks(true)
	settings.SetEnableBackForwardNavigationGestures(true)
	settings.SetEnableFullscreen(true)
	settings.SetEnableDeveloperExtras(opts.EnableDeveloperExtras)
	if opts.HardwareAcceleration {
		settings.SetHardwareAccelerationPolicy(webkit.HardwareAccelerationPolicyAlwaysValue)
	} else {
		settings.SetHardwareAccelerationPolicy(webkit.HardwareAccelerationPolicyNeverValue)
	}
	if opts.UserAgent != "" {
		settings.SetUserAgent(&opts.UserAgent)
	}
}

// connect wires native signals into the shared core. Events are forwarded
// through deliver so that nothing reaches the host after destroy.
func (wv *webkitView) connect(c *core) {
	loadChangedCb := func(inner webkit.WebView, event webkit.LoadEvent) {
		uri := inner.GetUri()
		title := inner.GetTitle()
		switch event {
		case webkit.LoadCommittedValue:
			c.deliver(func() { c.pageCommitted(uri, title) })
		case webkit.LoadFinishedValue:
			c.deliver(func() {
				if title != "" {
					c.titleChanged(title)
				}
				c.loadFinished(uri)
			})
		}
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectLoadChanged(&loadChangedCb))

	loadFailedCb := func(inner webkit.WebView, _ webkit.LoadEvent, failingURI string, _ uintptr) bool {
		c.deliver(func() {
			c.notifyLoadFailed(failingURI, fmt.Errorf("page load failed: %s", failingURI))
		})
		return false
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectLoadFailed(&loadFailedCb))

	enterFsCb := func(inner webkit.WebView) bool {
		c.deliver(func() {
			if c.host != nil && c.host.OnEnterFullscreen != nil {
				c.host.OnEnterFullscreen()
			}
		})
		return false
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectEnterFullscreen(&enterFsCb))

	leaveFsCb := func(inner webkit.WebView) bool {
		c.deliver(func() {
			if c.host != nil && c.host.OnExitFullscreen != nil {
				c.host.OnExitFullscreen()
			}
		})
		return false
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectLeaveFullscreen(&leaveFsCb))

	permissionCb := func(inner webkit.WebView, reqPtr uintptr) bool {
		req := &webkit.PermissionRequestBase{Ptr: reqPtr}
		if !wv.parkPermission(req) {
			req.Deny()
			return true
		}
		hostReq := port.PermissionRequest{
			Origin: inner.GetUri(),
			Kind:   permissionKindForRequest(reqPtr),
		}
		c.deliver(func() {
			if !c.permissionRequested(hostReq) {
				wv.answerPermission(false)
			}
		})
		return true
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectPermissionRequest(&permissionCb))

	chooserCb := func(_ webkit.WebView, reqPtr uintptr) bool {
		request := webkit.FileChooserRequestNewFromInternalPtr(reqPtr)
		if !wv.parkChooser(request) {
			request.Cancel()
			return true
		}
		multiple := request.GetSelectMultiple()
		c.deliver(func() {
			if !c.filePickerRequested(multiple) {
				wv.answerFilePick(nil)
			}
		})
		return true
	}
	wv.signalIDs = append(wv.signalIDs, wv.inner.ConnectRunFileChooser(&chooserCb))

	wv.keepAlive(&loadChangedCb, &loadFailedCb, &enterFsCb, &leaveFsCb, &permissionCb, &chooserCb)
}

// parkPermission holds the native request beyond the signal handler so the
// host can answer later. The default handler would otherwise deny and drop
// it when the handler returns.
func (wv *webkitView) parkPermission(req *webkit.PermissionRequestBase) bool {
	if wv.pendingPermission != nil {
		return false
	}
	gobject.ObjectNewFromInternalPtr(req.Ptr).Ref()
	wv.pendingPermission = req
	return true
}

func (wv *webkitView) answerPermission(granted bool) bool {
	req := wv.pendingPermission
	if req == nil {
		return false
	}
	wv.pendingPermission = nil
	if granted {
		req.Allow()
	} else {
		req.Deny()
	}
	gobject.ObjectNewFromInternalPtr(req.Ptr).Unref()
	return true
}

func (wv *webkitView) parkChooser(request *webkit.FileChooserRequest) bool {
	if wv.pendingChooser != nil {
		return false
	}
	request.Ref()
	wv.pendingChooser = request
	return true
}

func (wv *webkitView) answerFilePick(paths []string) bool {
	request := wv.pendingChooser
	if request == nil {
		return false
	}
	wv.pendingChooser = nil
	if len(paths) == 0 {
		request.Cancel()
	} else {
		request.SelectFiles(paths)
	}
	request.Unref()
	return true
}

// dropPending refuses anything still parked. Called when the view leaves
// the screen or is torn down.
func (wv *webkitView) dropPending() {
	wv.answerPermission(false)
	wv.answerFilePick(nil)
}

func (wv *webkitView) keepAlive(refs ...interface{}) {
	wv.mu.Lock()
	wv.asyncCallbacks = append(wv.asyncCallbacks, refs...)
	wv.mu.Unlock()
}

// GoPointer implements port.View.
func (wv *webkitView) GoPointer() uintptr {
	return wv.inner.Widget.GoPointer()
}

// SetVisible implements port.View.
func (wv *webkitView) SetVisible(visible bool) {
	wv.inner.Widget.SetVisible(visible)
}

// runScript executes script in the main world, fire-and-forget. Errors and
// JS exceptions are logged asynchronously.
func (wv *webkitView) runScript(script string) {
	cb := gio.AsyncReadyCallback(func(_ uintptr, resPtr uintptr, _ uintptr) {
		if resPtr == 0 {
			wv.log.Warn().Msg("script evaluation returned nil async result")
			return
		}
		res := &gio.AsyncResultBase{Ptr: resPtr}
		if _, err := wv.inner.EvaluateJavascriptFinish(res); err != nil {
			wv.log.Warn().Err(err).Msg("script evaluation failed")
		}
	})
	wv.keepAlive(&cb)
	wv.inner.EvaluateJavascript(script, -1, nil, nil, nil, &cb, 0)
}

// snapshot captures the visible region as a texture and hands it to fn on
// the main loop. fn receives nil when capture fails.
func (wv *webkitView) snapshot(c *core, fn func(*port.Thumbnail)) {
	cb := gio.AsyncReadyCallback(func(_ uintptr, resPtr uintptr, _ uintptr) {
		if resPtr == 0 {
			c.deliver(func() { fn(nil) })
			return
		}
		res := &gio.AsyncResultBase{Ptr: resPtr}
		texture, err := wv.inner.GetSnapshotFinish(res)
		if err != nil || texture == nil {
			if err != nil {
				wv.log.Debug().Err(err).Msg("snapshot capture failed")
			}
			c.deliver(func() { fn(nil) })
			return
		}
		thumb := &port.Thumbnail{
			Width:   int(texture.GetWidth()),
			Height:  int(texture.GetHeight()),
			Texture: texture,
		}
		c.deliver(func() { fn(thumb) })
	})
	wv.keepAlive(&cb)
	wv.inner.GetSnapshot(webkit.SnapshotRegionVisibleValue, webkit.SnapshotOptionsNoneValue, nil, &cb, 0)
}

// recycle replaces the renderer process behind the view, then restores the
// current page in the fresh process. Accumulated renderer memory is dropped.
func (wv *webkitView) recycle() {
	wv.inner.TerminateWebProcess()
	if wv.inner.GetUri() != "" {
		wv.inner.Reload()
	}
}

// webkitEngine backs both embedded origins with a native WebKit view. The
// bundled-runtime and platform-component variants differ only in the
// descriptor the detector probed for them; capability gating flows from
// descriptor flags, not from the type.
type webkitEngine struct {
	*core
	opts WebKitOptions
	wv   *webkitView
}

var _ port.Engine = (*webkitEngine)(nil)

// NewWebKitEngine builds an engine over a native WebKit view for the given
// descriptor. Used for both the bundled runtime and the platform component.
func NewWebKitEngine(desc entity.Descriptor, tabID entity.TabID, dispatch port.Dispatcher, log zerolog.Logger, opts WebKitOptions) port.Engine {
	e := &webkitEngine{opts: opts}
	e.core = newCore(desc, tabID, dispatch, log, e)
	return e
}

func (e *webkitEngine) createView(context.Context) (port.View, error) {
	wv, err := newWebkitView(e.opts, e.log)
	if err != nil {
		return nil, err
	}
	wv.connect(e.core)
	e.wv = wv
	return wv, nil
}

func (e *webkitEngine) releaseView(context.Context) {
	if e.wv != nil {
		e.wv.inner.StopLoading()
		e.wv = nil
	}
}

func (e *webkitEngine) navigate(_ context.Context, url string) error {
	if e.wv == nil {
		return nil
	}
	e.wv.inner.LoadUri(url)
	return nil
}

func (e *webkitEngine) reload(context.Context) error {
	if e.wv == nil {
		return nil
	}
	e.wv.inner.Reload()
	return nil
}

func (e *webkitEngine) historyMove(_ context.Context, back bool) {
	if e.wv == nil {
		return
	}
	if back {
		if e.wv.inner.CanGoBack() {
			e.wv.inner.GoBack()
			return
		}
	} else if e.wv.inner.CanGoForward() {
		e.wv.inner.GoForward()
		return
	}
	// Native list diverged from the mirror (e.g. after a restore into a
	// fresh process): fall back to a direct load of the target entry.
	if entry, ok := e.history.Current(); ok {
		e.wv.inner.LoadUri(entry.URL)
	}
}

func (e *webkitEngine) applyZoom(level float64) {
	if e.wv != nil {
		e.wv.inner.SetZoomLevel(level)
	}
}

func (e *webkitEngine) answerPermission(granted bool) bool {
	if e.wv == nil {
		return false
	}
	return e.wv.answerPermission(granted)
}

func (e *webkitEngine) answerFilePick(paths []string) bool {
	if e.wv == nil {
		return false
	}
	return e.wv.answerFilePick(paths)
}

func (e *webkitEngine) dropPendingRequests() {
	if e.wv != nil {
		e.wv.dropPending()
	}
}

func (e *webkitEngine) trim(context.Context) {
	if e.wv != nil {
		e.wv.recycle()
		e.log.Debug().Msg("renderer process recycled")
	}
}

// EvaluateScript implements port.Engine.
func (e *webkitEngine) EvaluateScript(_ context.Context, code string) {
	if !e.desc.Caps.Has(entity.CapScriptEval) || e.destroyed.Load() || e.wv == nil {
		return
	}
	e.wv.runScript(code)
}

// RenderThumbnail implements port.Engine.
func (e *webkitEngine) RenderThumbnail(_ context.Context, _ port.ThumbnailSize, fn func(*port.Thumbnail)) {
	if !e.desc.Caps.Has(entity.CapThumbnail) || e.destroyed.Load() || e.wv == nil {
		e.deliver(func() { fn(nil) })
		return
	}
	e.wv.snapshot(e.core, fn)
}
