package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/domain/repository"
	"github.com/bnema/fickle/internal/logging"
)

// RestoreMode describes how much of a snapshot can be recovered.
type RestoreMode int

const (
	// RestoreNone means no snapshot exists; the tab starts fresh.
	RestoreNone RestoreMode = iota
	// RestoreFull means the owning engine is still available and the whole
	// history including back/forward depth is recovered.
	RestoreFull
	// RestoreCold means the owning engine is gone or the payload was not
	// fully readable; only the current entry's URL is reloaded, producing a
	// single-entry history. Deliberate lossy-but-safe degradation, not an
	// error.
	RestoreCold
)

// String returns a human-readable representation of the mode.
func (m RestoreMode) String() string {
	switch m {
	case RestoreNone:
		return "none"
	case RestoreFull:
		return "full"
	case RestoreCold:
		return "cold"
	default:
		return "unknown"
	}
}

// RestorePlan is the outcome of matching a snapshot against the current
// detection results.
type RestorePlan struct {
	Mode RestoreMode
	// EngineID is the engine to construct: the snapshot's owner for a full
	// restore, empty otherwise (caller falls back to selector priority).
	EngineID entity.EngineID
	// History is ready to hand to Engine.RestoreState. Empty for RestoreNone
	// and for cold restores of unreadable payloads.
	History *entity.NavigationHistory
}

// RestoreTabUseCase turns a persisted snapshot into a restoration plan,
// degrading gracefully when the owning backend is no longer available.
type RestoreTabUseCase struct {
	repo repository.TabSnapshotRepository
}

// NewRestoreTabUseCase creates a new tab restore use case.
func NewRestoreTabUseCase(repo repository.TabSnapshotRepository) *RestoreTabUseCase {
	return &RestoreTabUseCase{repo: repo}
}

// SavedTabs lists the tabs with a persisted snapshot, oldest save first.
func (uc *RestoreTabUseCase) SavedTabs(ctx context.Context) ([]entity.TabID, error) {
	return uc.repo.TabIDs(ctx)
}

// Execute loads the tab's snapshot and plans its restoration against the
// currently detected descriptors. Never fails on degraded snapshots: corrupt
// payloads, version mismatches, and vanished engines all produce a usable
// plan.
func (uc *RestoreTabUseCase) Execute(ctx context.Context, tabID entity.TabID, descriptors []entity.Descriptor) (*RestorePlan, error) {
	log := logging.FromContext(ctx)

	payload, err := uc.repo.Load(ctx, tabID)
	if err != nil {
		return nil, fmt.Errorf("load tab snapshot: %w", err)
	}
	if payload == nil {
		return &RestorePlan{Mode: RestoreNone, History: entity.NewNavigationHistory()}, nil
	}

	snap, err := entity.DecodeTabSnapshot(payload)
	if err != nil {
		if !errors.Is(err, entity.ErrStateRestore) {
			return nil, err
		}
		// Unreadable payload: cold restore with nothing to reload.
		log.Warn().
			Err(err).
			Str("tab_id", string(tabID)).
			Msg("tab snapshot unreadable, cold restoring empty tab")
		return &RestorePlan{Mode: RestoreCold, History: entity.NewNavigationHistory()}, nil
	}

	if _, ok := entity.FindDescriptor(descriptors, snap.EngineID); ok {
		history := entity.NewNavigationHistory()
		history.Replace(snap.History, snap.CurrentIndex)
		log.Debug().
			Str("tab_id", string(tabID)).
			Str("engine_id", string(snap.EngineID)).
			Int("entries", history.Len()).
			Msg("planning full restore")
		return &RestorePlan{Mode: RestoreFull, EngineID: snap.EngineID, History: history}, nil
	}

	// Owning engine unavailable: keep only the current entry.
	history := entity.NewNavigationHistory()
	if entry, ok := snap.CurrentEntry(); ok {
		history.Replace([]entity.HistoryEntry{entry}, 0)
	}
	log.Info().
		Str("tab_id", string(tabID)).
		Str("engine_id", string(snap.EngineID)).
		Msg("snapshot engine unavailable, cold restoring current entry")
	return &RestorePlan{Mode: RestoreCold, History: history}, nil
}
