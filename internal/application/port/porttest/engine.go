// Package porttest provides in-memory test doubles for the application ports.
package porttest

import (
	"context"
	"sync"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
)

// Ensure doubles satisfy their ports at compile time.
var _ port.Engine = (*Engine)(nil)

// Engine is a scriptable in-memory port.Engine. It tracks lifecycle
// transitions with the same legality rules production backends enforce, so
// tests exercising tab ownership and attachment observe realistic behavior.
type Engine struct {
	Desc entity.Descriptor

	mu      sync.Mutex
	state   port.EngineState
	history *entity.NavigationHistory
	zoom    float64

	// Call records.
	LoadedURLs        []string
	Reloads           int
	TrimCalls         int
	ScriptCalls       []string
	DetachCalls       []bool // completely flag per call
	AttachedInto      port.Container
	RestoredState     *entity.NavigationHistory
	PermissionAnswers []bool
	FilePicks         [][]string

	// Host is the callback set handed to the last Attach.
	Host *port.HostCallbacks

	// FailAttach makes the next Attach return this error.
	FailAttach error

	// ViewStub, when set, is returned by View and embedded on Attach.
	ViewStub *View
}

// NewEngine creates a fake engine in the Created state.
func NewEngine(desc entity.Descriptor) *Engine {
	return &Engine{
		Desc:    desc,
		state:   port.StateCreated,
		history: entity.NewNavigationHistory(),
		zoom:    1.0,
	}
}

// Descriptor implements port.Engine.
func (e *Engine) Descriptor() entity.Descriptor { return e.Desc }

// State implements port.Engine.
func (e *Engine) State() port.EngineState {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// View implements port.Engine.
func (e *Engine) View() port.View {
	if e.ViewStub == nil {
		return nil
	}
	return e.ViewStub
}

// Attach implements port.Engine.
func (e *Engine) Attach(_ context.Context, host *port.HostCallbacks, container, _ port.Container) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.FailAttach != nil {
		err := e.FailAttach
		e.FailAttach = nil
		return err
	}
	if e.state != port.StateCreated && e.state != port.StateDetached {
		return &port.IllegalStateError{Op: "attach", State: e.state}
	}
	e.state = port.StateAttached
	e.Host = host
	e.AttachedInto = container
	if e.ViewStub != nil && container != nil {
		container.Append(e.ViewStub)
	}
	return nil
}

// Detach implements port.Engine.
func (e *Engine) Detach(_ context.Context, completely, _ bool) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.DetachCalls = append(e.DetachCalls, completely)
	if completely {
		if e.AttachedInto != nil && e.ViewStub != nil {
			e.AttachedInto.Remove(e.ViewStub)
		}
		e.state = port.StateDestroyed
		return nil
	}
	if e.state != port.StateAttached {
		return &port.IllegalStateError{Op: "detach", State: e.state}
	}
	if e.AttachedInto != nil && e.ViewStub != nil {
		e.AttachedInto.Remove(e.ViewStub)
	}
	e.state = port.StateDetached
	return nil
}

// LoadURL implements port.Engine.
func (e *Engine) LoadURL(_ context.Context, url string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "loadURL", State: e.state}
	}
	e.LoadedURLs = append(e.LoadedURLs, url)
	e.history.Visit(url, "")
	return nil
}

// Reload implements port.Engine.
func (e *Engine) Reload(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "reload", State: e.state}
	}
	e.Reloads++
	return nil
}

// GoBack implements port.Engine.
func (e *Engine) GoBack(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "goBack", State: e.state}
	}
	e.history.GoBack()
	return nil
}

// GoForward implements port.Engine.
func (e *Engine) GoForward(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "goForward", State: e.state}
	}
	e.history.GoForward()
	return nil
}

// CanGoBack implements port.Engine.
func (e *Engine) CanGoBack() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Desc.Caps.Has(entity.CapBackForward) && e.history.CanGoBack()
}

// CanGoForward implements port.Engine.
func (e *Engine) CanGoForward() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.Desc.Caps.Has(entity.CapBackForward) && e.history.CanGoForward()
}

// ZoomIn implements port.Engine.
func (e *Engine) ZoomIn(ctx context.Context) error { return e.ZoomBy(ctx, 0.1) }

// ZoomOut implements port.Engine.
func (e *Engine) ZoomOut(ctx context.Context) error { return e.ZoomBy(ctx, -0.1) }

// ZoomBy implements port.Engine.
func (e *Engine) ZoomBy(_ context.Context, factor float64) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "zoom", State: e.state}
	}
	if !e.Desc.Caps.Has(entity.CapZoom) {
		return nil
	}
	e.zoom += factor
	return nil
}

// CanZoomIn implements port.Engine.
func (e *Engine) CanZoomIn() bool { return e.Desc.Caps.Has(entity.CapZoom) }

// CanZoomOut implements port.Engine.
func (e *Engine) CanZoomOut() bool { return e.Desc.Caps.Has(entity.CapZoom) }

// ZoomLevel implements port.Engine.
func (e *Engine) ZoomLevel() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.zoom
}

// EvaluateScript implements port.Engine.
func (e *Engine) EvaluateScript(_ context.Context, code string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed || !e.Desc.Caps.Has(entity.CapScriptEval) {
		return
	}
	e.ScriptCalls = append(e.ScriptCalls, code)
}

// SaveState implements port.Engine.
func (e *Engine) SaveState() *entity.NavigationHistory {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := entity.NewNavigationHistory()
	out.Replace(e.history.Entries(), e.history.CurrentIndex())
	return out
}

// RestoreState implements port.Engine.
func (e *Engine) RestoreState(_ context.Context, history *entity.NavigationHistory) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateDestroyed {
		return &port.IllegalStateError{Op: "restoreState", State: e.state}
	}
	e.history.Replace(history.Entries(), history.CurrentIndex())
	e.RestoredState = history
	return nil
}

// RenderThumbnail implements port.Engine.
func (e *Engine) RenderThumbnail(_ context.Context, _ port.ThumbnailSize, fn func(*port.Thumbnail)) {
	if !e.Desc.Caps.Has(entity.CapThumbnail) {
		fn(nil)
		return
	}
	fn(&port.Thumbnail{Width: 1, Height: 1})
}

// OnPermissionsResult implements port.Engine. Answers are recorded only
// while attached, matching the production delivery rule.
func (e *Engine) OnPermissionsResult(_ context.Context, _ port.PermissionRequest, granted bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != port.StateAttached {
		return
	}
	e.PermissionAnswers = append(e.PermissionAnswers, granted)
}

// OnFilePicked implements port.Engine.
func (e *Engine) OnFilePicked(_ context.Context, paths []string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != port.StateAttached {
		return
	}
	e.FilePicks = append(e.FilePicks, paths)
}

// TrimMemory implements port.Engine. Mirrors the production rule that a
// visible (attached) instance ignores the advisory.
func (e *Engine) TrimMemory(context.Context) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == port.StateAttached {
		return
	}
	e.TrimCalls++
}
