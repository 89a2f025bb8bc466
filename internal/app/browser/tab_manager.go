// Package browser composes engines, window slots, and persistence into the
// tab model the UI drives.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
	"github.com/bnema/fickle/internal/ui/window"
	"github.com/rs/zerolog"
)

// TabManager owns the open tabs. Each tab holds exactly one live engine
// instance; engine swaps construct the replacement before the old instance
// is destroyed, so a failed swap leaves the tab on its current backend.
// All methods are main-loop affine.
type TabManager struct {
	factory     *usecase.CreateEngineUseCase
	snapshotUC  *usecase.SnapshotTabUseCase
	restoreUC   *usecase.RestoreTabUseCase
	detector    port.Detector
	attachments *window.AttachmentManager
	log         zerolog.Logger

	tabs  map[entity.TabID]*entity.Tab
	order []entity.TabID

	// onStateChanged is notified whenever a tab's persistable state moved
	// (navigation, title, engine swap). Hooked to the snapshot service.
	onStateChanged func(entity.TabID)
	// onTabClosed is notified after a tab is gone so pending snapshot work
	// can be dropped.
	onTabClosed func(entity.TabID)
	// onPermissionRequest decides page permission prompts. answer must be
	// called exactly once; with no handler registered every request is
	// denied.
	onPermissionRequest func(tabID entity.TabID, req port.PermissionRequest, answer func(granted bool))
	// onFilePickRequest fulfills page file choosers; answer(nil) cancels.
	// With no handler registered every chooser is cancelled.
	onFilePickRequest func(tabID entity.TabID, multiple bool, answer func(paths []string))
}

// NewTabManager creates the tab manager.
func NewTabManager(
	factory *usecase.CreateEngineUseCase,
	snapshotUC *usecase.SnapshotTabUseCase,
	restoreUC *usecase.RestoreTabUseCase,
	detector port.Detector,
	attachments *window.AttachmentManager,
	log zerolog.Logger,
) *TabManager {
	return &TabManager{
		factory:     factory,
		snapshotUC:  snapshotUC,
		restoreUC:   restoreUC,
		detector:    detector,
		attachments: attachments,
		log:         log.With().Str("component", "tabs").Logger(),
		tabs:        make(map[entity.TabID]*entity.Tab),
	}
}

// SetOnStateChanged registers the dirty-state notifier.
func (tm *TabManager) SetOnStateChanged(fn func(entity.TabID)) { tm.onStateChanged = fn }

// SetOnTabClosed registers the tab-closed notifier.
func (tm *TabManager) SetOnTabClosed(fn func(entity.TabID)) { tm.onTabClosed = fn }

// SetOnPermissionRequest registers the permission prompt handler.
func (tm *TabManager) SetOnPermissionRequest(fn func(entity.TabID, port.PermissionRequest, func(bool))) {
	tm.onPermissionRequest = fn
}

// SetOnFilePickRequest registers the file chooser handler.
func (tm *TabManager) SetOnFilePickRequest(fn func(entity.TabID, bool, func([]string))) {
	tm.onFilePickRequest = fn
}

func (tm *TabManager) markDirty(tabID entity.TabID) {
	if tm.onStateChanged != nil {
		tm.onStateChanged(tabID)
	}
}

// OpenTab creates a tab with a freshly constructed engine and, when url is
// non-empty, starts loading it.
func (tm *TabManager) OpenTab(ctx context.Context, url string) (*entity.Tab, error) {
	tabNumber := len(tm.tabs) + 1
	tabID := entity.TabID(fmt.Sprintf("tab-%d-%d", tabNumber, time.Now().Unix()))

	tab := entity.NewTab(tabID)
	tab.Position = len(tm.order)

	eng, err := tm.factory.Create(ctx, tabID, "")
	if err != nil {
		return nil, err
	}
	if err := tm.attachments.Attach(ctx, tabID, eng, tm.hostCallbacks(ctx, tabID)); err != nil {
		_ = eng.Detach(ctx, true, false)
		return nil, err
	}

	tm.tabs[tabID] = tab
	tm.order = append(tm.order, tabID)

	if url != "" {
		tab.URI = url
		if loadErr := eng.LoadURL(ctx, url); loadErr != nil {
			// Navigation failures don't invalidate the tab.
			tm.log.Warn().Err(loadErr).Str("tab_id", string(tabID)).Msg("initial navigation failed")
		}
	}

	tm.log.Info().
		Str("tab_id", string(tabID)).
		Str("engine_id", string(eng.Descriptor().ID)).
		Msg("tab opened")
	tm.markDirty(tabID)
	return tab, nil
}

// RestoreTab recreates a tab from its persisted snapshot, degrading to a
// fresh tab when nothing restorable remains.
func (tm *TabManager) RestoreTab(ctx context.Context, tabID entity.TabID) (*entity.Tab, error) {
	if _, exists := tm.tabs[tabID]; exists {
		return nil, fmt.Errorf("tab %s is already open", tabID)
	}

	plan, err := tm.restoreUC.Execute(ctx, tabID, tm.detector.Detect(ctx))
	if err != nil {
		return nil, err
	}

	eng, err := tm.factory.Create(ctx, tabID, plan.EngineID)
	if err != nil {
		return nil, err
	}
	if err := tm.attachments.Attach(ctx, tabID, eng, tm.hostCallbacks(ctx, tabID)); err != nil {
		_ = eng.Detach(ctx, true, false)
		return nil, err
	}

	tab := entity.NewTab(tabID)
	tab.Position = len(tm.order)
	tm.tabs[tabID] = tab
	tm.order = append(tm.order, tabID)

	if plan.History != nil && plan.History.Len() > 0 {
		if restoreErr := eng.RestoreState(ctx, plan.History); restoreErr != nil {
			tm.log.Warn().Err(restoreErr).Str("tab_id", string(tabID)).Msg("state restore failed, tab starts fresh")
		} else if entry, ok := plan.History.Current(); ok {
			tab.URI = entry.URL
			tab.Title = entry.Title
		}
	}

	tm.log.Info().
		Str("tab_id", string(tabID)).
		Str("engine_id", string(eng.Descriptor().ID)).
		Str("mode", plan.Mode.String()).
		Msg("tab restored")
	tm.markDirty(tabID)
	return tab, nil
}

// RestoreAll reopens every tab with a persisted snapshot, in saved order.
// Individual failures skip that tab; the rest still come back.
func (tm *TabManager) RestoreAll(ctx context.Context) error {
	saved, err := tm.restoreUC.SavedTabs(ctx)
	if err != nil {
		return err
	}
	log := logging.FromContext(ctx)
	for _, tabID := range saved {
		if _, restoreErr := tm.RestoreTab(ctx, tabID); restoreErr != nil {
			log.Warn().Err(restoreErr).Str("tab_id", string(tabID)).Msg("tab restore skipped")
		}
	}
	return nil
}

// CloseTab destroys the tab's engine, removes its window slot, and deletes
// its persisted snapshot.
func (tm *TabManager) CloseTab(ctx context.Context, tabID entity.TabID) error {
	if _, ok := tm.tabs[tabID]; !ok {
		return fmt.Errorf("no tab %s", tabID)
	}

	if err := tm.attachments.Detach(ctx, tabID, true, true); err != nil {
		return err
	}
	if err := tm.snapshotUC.Delete(ctx, tabID); err != nil {
		tm.log.Warn().Err(err).Str("tab_id", string(tabID)).Msg("failed to delete tab snapshot")
	}

	delete(tm.tabs, tabID)
	for i, id := range tm.order {
		if id == tabID {
			tm.order = append(tm.order[:i], tm.order[i+1:]...)
			break
		}
	}
	for i, id := range tm.order {
		tm.tabs[id].Position = i
	}

	if tm.onTabClosed != nil {
		tm.onTabClosed(tabID)
	}
	tm.log.Info().Str("tab_id", string(tabID)).Msg("tab closed")
	return nil
}

// SwitchEngine rebuilds the tab on a different backend, carrying the
// navigation history over. The old instance is destroyed only once the
// replacement is attached; any failure before that point leaves the tab
// running on its current engine.
func (tm *TabManager) SwitchEngine(ctx context.Context, tabID entity.TabID, engineID entity.EngineID) error {
	if _, ok := tm.tabs[tabID]; !ok {
		return fmt.Errorf("no tab %s", tabID)
	}
	old, ok := tm.attachments.Engine(tabID)
	if !ok {
		return fmt.Errorf("no engine attached for tab %s", tabID)
	}
	if old.Descriptor().ID == engineID {
		return nil
	}

	state := old.SaveState()

	replacement, err := tm.factory.Create(ctx, tabID, engineID)
	if err != nil {
		return fmt.Errorf("switch tab %s to %s: %w", tabID, engineID, err)
	}

	// Vacate the slot without destroying the old instance so it can be put
	// back if the replacement fails to attach.
	if err := tm.attachments.Detach(ctx, tabID, false, false); err != nil {
		_ = replacement.Detach(ctx, true, false)
		return err
	}

	if err := tm.attachments.Attach(ctx, tabID, replacement, tm.hostCallbacks(ctx, tabID)); err != nil {
		_ = replacement.Detach(ctx, true, false)
		if reattachErr := tm.attachments.Attach(ctx, tabID, old, tm.hostCallbacks(ctx, tabID)); reattachErr != nil {
			return fmt.Errorf("switch tab %s: attach failed and rollback failed: %w", tabID, reattachErr)
		}
		return fmt.Errorf("switch tab %s to %s: %w", tabID, engineID, err)
	}

	if restoreErr := replacement.RestoreState(ctx, state); restoreErr != nil {
		tm.log.Warn().Err(restoreErr).Str("tab_id", string(tabID)).Msg("history carry-over failed after engine switch")
	}

	// Point of no return: the replacement owns the tab now.
	_ = old.Detach(ctx, true, false)

	tm.log.Info().
		Str("tab_id", string(tabID)).
		Str("from", string(old.Descriptor().ID)).
		Str("to", string(replacement.Descriptor().ID)).
		Msg("tab switched engine")
	tm.markDirty(tabID)
	return nil
}

// Navigate loads a URL in the tab.
func (tm *TabManager) Navigate(ctx context.Context, tabID entity.TabID, url string) error {
	eng, ok := tm.attachments.Engine(tabID)
	if !ok {
		return fmt.Errorf("no engine attached for tab %s", tabID)
	}
	if err := eng.LoadURL(ctx, url); err != nil {
		return err
	}
	if tab, exists := tm.tabs[tabID]; exists {
		tab.URI = url
	}
	tm.markDirty(tabID)
	return nil
}

// Tab returns the tab entity, if open.
func (tm *TabManager) Tab(tabID entity.TabID) (*entity.Tab, bool) {
	tab, ok := tm.tabs[tabID]
	return tab, ok
}

// Engine returns the tab's live engine, if any.
func (tm *TabManager) Engine(tabID entity.TabID) (port.Engine, bool) {
	return tm.attachments.Engine(tabID)
}

// Tabs lists the open tabs in display order.
func (tm *TabManager) Tabs() []*entity.Tab {
	out := make([]*entity.Tab, 0, len(tm.order))
	for _, id := range tm.order {
		out = append(out, tm.tabs[id])
	}
	return out
}

// Engines returns the live engines by tab. Implements the snapshot
// service's provider contract.
func (tm *TabManager) Engines() map[entity.TabID]port.Engine {
	out := make(map[entity.TabID]port.Engine, len(tm.tabs))
	for id := range tm.tabs {
		if eng, ok := tm.attachments.Engine(id); ok {
			out[id] = eng
		}
	}
	return out
}

// TrimAll asks every live engine to shed reclaimable memory.
func (tm *TabManager) TrimAll(ctx context.Context) {
	engines := make([]port.Engine, 0, len(tm.tabs))
	for _, eng := range tm.Engines() {
		engines = append(engines, eng)
	}
	usecase.NewTrimMemoryUseCase().Execute(ctx, engines)
}

// Shutdown snapshots and destroys every open tab, keeping the persisted
// state for the next start.
func (tm *TabManager) Shutdown(ctx context.Context) {
	for _, tabID := range tm.order {
		if eng, ok := tm.attachments.Engine(tabID); ok {
			if err := tm.snapshotUC.Execute(ctx, tabID, eng); err != nil {
				tm.log.Warn().Err(err).Str("tab_id", string(tabID)).Msg("final snapshot failed")
			}
		}
		if err := tm.attachments.Detach(ctx, tabID, true, false); err != nil {
			tm.log.Warn().Err(err).Str("tab_id", string(tabID)).Msg("engine teardown failed")
		}
	}
	tm.tabs = make(map[entity.TabID]*entity.Tab)
	tm.order = nil
}

func (tm *TabManager) hostCallbacks(ctx context.Context, tabID entity.TabID) *port.HostCallbacks {
	return &port.HostCallbacks{
		OnTitleChanged: func(title string) {
			if tab, ok := tm.tabs[tabID]; ok {
				tab.Title = title
			}
			tm.markDirty(tabID)
		},
		OnURIChanged: func(uri string) {
			if tab, ok := tm.tabs[tabID]; ok {
				tab.URI = uri
			}
			tm.markDirty(tabID)
		},
		OnLoadFinished: func(string) {
			tm.markDirty(tabID)
		},
		OnLoadFailed: func(uri string, err error) {
			tm.log.Warn().Err(err).Str("tab_id", string(tabID)).Str("uri", uri).Msg("page load failed")
		},
		OnEnterFullscreen: func() {
			if err := tm.attachments.EnterFullscreen(tabID); err != nil {
				tm.log.Warn().Err(err).Str("tab_id", string(tabID)).Msg("fullscreen request rejected")
			}
		},
		OnExitFullscreen: func() {
			tm.attachments.ExitFullscreen(tabID)
		},
		OnPermissionRequested: func(req port.PermissionRequest) {
			answer := func(granted bool) {
				if eng, ok := tm.attachments.Engine(tabID); ok {
					eng.OnPermissionsResult(ctx, req, granted)
				}
			}
			if tm.onPermissionRequest == nil {
				tm.log.Debug().
					Str("tab_id", string(tabID)).
					Str("kind", req.Kind).
					Str("origin", req.Origin).
					Msg("no permission handler registered, denying")
				answer(false)
				return
			}
			tm.onPermissionRequest(tabID, req, answer)
		},
		OnFilePickerRequested: func(multiple bool) {
			answer := func(paths []string) {
				if eng, ok := tm.attachments.Engine(tabID); ok {
					eng.OnFilePicked(ctx, paths)
				}
			}
			if tm.onFilePickRequest == nil {
				tm.log.Debug().Str("tab_id", string(tabID)).Msg("no file chooser handler registered, cancelling")
				answer(nil)
				return
			}
			tm.onFilePickRequest(tabID, multiple, answer)
		},
	}
}
