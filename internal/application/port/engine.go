// Package port defines application-layer interfaces for external capabilities.
// Ports abstract infrastructure concerns, allowing the application layer to
// remain independent of specific implementations (WebKit, GTK, external
// viewers, etc.).
package port

import (
	"context"
	"fmt"

	"github.com/bnema/fickle/internal/domain/entity"
)

// EngineState is the lifecycle state of an engine instance.
//
// Created → Attached ⇄ Detached → Destroyed. Destroyed is terminal and
// reachable from any state; Attached and Detached cycle freely so tab
// switching can reuse the native view.
type EngineState int

const (
	// StateCreated is the initial state before the first attach.
	StateCreated EngineState = iota
	// StateAttached means the view is parented into a window container.
	StateAttached
	// StateDetached means the view is unparented but native resources are
	// retained for fast reattachment.
	StateDetached
	// StateDestroyed means all native resources have been released.
	StateDestroyed
)

// String returns a human-readable representation of the state.
func (s EngineState) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateAttached:
		return "attached"
	case StateDetached:
		return "detached"
	case StateDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}

// IllegalStateError reports an operation invoked in a lifecycle state that
// does not permit it. It fails that call only; the instance is untouched.
type IllegalStateError struct {
	Op    string
	State EngineState
}

func (e *IllegalStateError) Error() string {
	return fmt.Sprintf("engine: %s not legal in state %s", e.Op, e.State)
}

// View is a native view handle (abstraction over gtk.Widget). Out-of-process
// backends expose a placeholder view so the window layer never special-cases
// them.
type View interface {
	// GoPointer returns the underlying native pointer for GTK interop.
	GoPointer() uintptr
	SetVisible(visible bool)
}

// Container hosts engine views (abstraction over gtk.Box).
type Container interface {
	Append(view View)
	Remove(view View)
	Contains(view View) bool
}

// Texture represents a rendered image (abstraction over gdk.Texture).
type Texture interface {
	GoPointer() uintptr
}

// Thumbnail is an offscreen capture of the current page.
type Thumbnail struct {
	Width   int
	Height  int
	Texture Texture
}

// ThumbnailSize hints at the desired capture dimensions.
type ThumbnailSize struct {
	Width  int
	Height int
}

// PermissionRequest identifies a pending host OS permission decision.
type PermissionRequest struct {
	Origin string
	Kind   string // e.g. "geolocation", "camera", "microphone"
}

// HostCallbacks carries event delivery from an engine instance back to its
// hosting tab. The engine holds these as a non-owning reference; it never
// keeps a back-pointer to the tab itself.
type HostCallbacks struct {
	// OnTitleChanged is called when the page title changes.
	OnTitleChanged func(title string)
	// OnURIChanged is called when the current URI changes.
	OnURIChanged func(uri string)
	// OnLoadFinished is called when a page load completes.
	OnLoadFinished func(uri string)
	// OnLoadFailed delivers a navigation failure; the tab stays usable.
	OnLoadFailed func(uri string, err error)
	// OnEnterFullscreen is called when page content requests fullscreen.
	OnEnterFullscreen func()
	// OnExitFullscreen is called when page content leaves fullscreen.
	OnExitFullscreen func()
	// OnPermissionRequested surfaces a pending page permission decision. The
	// engine parks the native request until the host answers through
	// OnPermissionsResult; an unanswered request is denied when the engine
	// detaches.
	OnPermissionRequested func(req PermissionRequest)
	// OnFilePickerRequested surfaces a page file chooser. The host answers
	// through OnFilePicked; nil paths cancel the chooser.
	OnFilePickerRequested func(multiple bool)
}

// Engine is the uniform contract every rendering backend implements. All
// methods are invoked from the UI-affine main loop; long-running backend work
// delivers its results back through a Dispatcher and is dropped after the
// instance is destroyed.
type Engine interface {
	// Descriptor returns the immutable descriptor this instance was built from.
	Descriptor() entity.Descriptor

	// State returns the current lifecycle state.
	State() EngineState

	// View returns the embeddable native view, or nil before the first attach.
	View() View

	// Attach parents the engine's view into container. Legal from Created or
	// Detached; the native view is created on first attach and reused after.
	Attach(ctx context.Context, host *HostCallbacks, container, fullscreen Container) error

	// Detach removes the view from its container. With completely=false the
	// instance moves to Detached and keeps its native resources; with
	// completely=true it moves to Destroyed and releases them irreversibly.
	// destroyTab only tells the host whether to discard persisted tab data.
	Detach(ctx context.Context, completely, destroyTab bool) error

	// Navigation. Legal in Created, Attached, or Detached; IllegalStateError
	// in Destroyed.
	LoadURL(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	GoBack(ctx context.Context) error
	GoForward(ctx context.Context) error
	CanGoBack() bool
	CanGoForward() bool

	// Zoom. Silent no-ops on backends without CapZoom; clamped to the
	// backend-reported bounds otherwise.
	ZoomIn(ctx context.Context) error
	ZoomOut(ctx context.Context) error
	ZoomBy(ctx context.Context, factor float64) error
	CanZoomIn() bool
	CanZoomOut() bool
	ZoomLevel() float64

	// EvaluateScript is fire-and-forget; a no-op without CapScriptEval.
	EvaluateScript(ctx context.Context, code string)

	// SaveState captures the instance's navigation history; RestoreState
	// replaces it and navigates to the restored current entry.
	SaveState() *entity.NavigationHistory
	RestoreState(ctx context.Context, history *entity.NavigationHistory) error

	// RenderThumbnail captures the page offscreen and delivers the result on
	// the UI loop. fn receives nil when the backend cannot render offscreen
	// or when the instance is destroyed before the capture completes.
	RenderThumbnail(ctx context.Context, size ThumbnailSize, fn func(*Thumbnail))

	// Host OS callback delivery: answers the native request parked behind
	// the matching HostCallbacks notification. Delivered only while
	// Attached; ignored while Detached.
	OnPermissionsResult(ctx context.Context, req PermissionRequest, granted bool)
	OnFilePicked(ctx context.Context, paths []string)

	// TrimMemory is advisory; backends without reclaimable state ignore it.
	TrimMemory(ctx context.Context)
}
