package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/domain/repository"
	"github.com/bnema/fickle/internal/logging"
)

// SnapshotTabUseCase serializes a tab's navigation history together with the
// id of the engine that owns it.
type SnapshotTabUseCase struct {
	repo repository.TabSnapshotRepository
}

// NewSnapshotTabUseCase creates a new tab snapshot use case.
func NewSnapshotTabUseCase(repo repository.TabSnapshotRepository) *SnapshotTabUseCase {
	return &SnapshotTabUseCase{repo: repo}
}

// Capture serializes the tab's current state without persisting it. Engine
// state is only readable where the engine lives (the UI loop), so callers
// capture there and may hand the returned payload to any goroutine.
func (uc *SnapshotTabUseCase) Capture(tabID entity.TabID, eng port.Engine) ([]byte, time.Time, error) {
	if eng == nil {
		return nil, time.Time{}, fmt.Errorf("snapshot tab %s: engine required", tabID)
	}

	snap := entity.NewTabSnapshot(tabID, eng.Descriptor().ID, eng.SaveState())
	payload, err := snap.Encode()
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, snap.SavedAt, nil
}

// Persist stores a previously captured payload.
func (uc *SnapshotTabUseCase) Persist(ctx context.Context, tabID entity.TabID, payload []byte, savedAt time.Time) error {
	if err := uc.repo.Save(ctx, tabID, payload, savedAt); err != nil {
		return fmt.Errorf("save tab snapshot: %w", err)
	}
	logging.FromContext(ctx).Debug().
		Str("tab_id", string(tabID)).
		Int("bytes", len(payload)).
		Msg("tab snapshot saved")
	return nil
}

// Execute captures and persists the tab's current state in one step.
func (uc *SnapshotTabUseCase) Execute(ctx context.Context, tabID entity.TabID, eng port.Engine) error {
	payload, savedAt, err := uc.Capture(tabID, eng)
	if err != nil {
		return err
	}
	return uc.Persist(ctx, tabID, payload, savedAt)
}

// Delete removes a tab's persisted snapshot. Called when a tab is destroyed
// with destroyTab=true.
func (uc *SnapshotTabUseCase) Delete(ctx context.Context, tabID entity.TabID) error {
	return uc.repo.Delete(ctx, tabID)
}
