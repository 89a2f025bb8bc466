// Package usecase contains application use cases that orchestrate domain logic.
package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
)

// ErrNoEngineAvailable is returned when detection produced no descriptors.
// It is fatal only for the tab creation attempt at hand, never for the
// process.
var ErrNoEngineAvailable = errors.New("no rendering engine available")

// PreferenceStore holds the process-wide persisted engine preference. It is
// loaded at startup, mutated by explicit user action, and persisted on change.
type PreferenceStore interface {
	EnginePreference() entity.EngineID
	SetEnginePreference(ctx context.Context, id entity.EngineID) error
}

// SelectEngineUseCase resolves a preferred engine id against the current
// detection results, applying the deterministic fallback priority
// embedded-full > embedded-platform > delegating > out-of-process.
type SelectEngineUseCase struct {
	prefs PreferenceStore
}

// NewSelectEngineUseCase creates a new engine selection use case.
func NewSelectEngineUseCase(prefs PreferenceStore) *SelectEngineUseCase {
	return &SelectEngineUseCase{prefs: prefs}
}

// Preferred returns the persisted preference, which may be empty or point at
// a backend that is no longer available.
func (uc *SelectEngineUseCase) Preferred() entity.EngineID {
	return uc.prefs.EnginePreference()
}

// SetPreferred persists a new preference.
func (uc *SelectEngineUseCase) SetPreferred(ctx context.Context, id entity.EngineID) error {
	log := logging.FromContext(ctx)
	if err := uc.prefs.SetEnginePreference(ctx, id); err != nil {
		return fmt.Errorf("persist engine preference: %w", err)
	}
	log.Info().Str("engine_id", string(id)).Msg("engine preference saved")
	return nil
}

// Resolve picks the engine to use for a new tab. An exact match on
// preferredID wins; otherwise the highest-priority available descriptor is
// chosen. An empty descriptor list yields ErrNoEngineAvailable.
func (uc *SelectEngineUseCase) Resolve(ctx context.Context, preferredID entity.EngineID, descriptors []entity.Descriptor) (entity.Descriptor, error) {
	return uc.resolve(ctx, preferredID, descriptors, "")
}

// ResolveExcluding resolves like Resolve but skips a backend that just failed
// construction, so the factory's retry cannot pick it again.
func (uc *SelectEngineUseCase) ResolveExcluding(ctx context.Context, preferredID entity.EngineID, descriptors []entity.Descriptor, exclude entity.EngineID) (entity.Descriptor, error) {
	return uc.resolve(ctx, preferredID, descriptors, exclude)
}

func (uc *SelectEngineUseCase) resolve(ctx context.Context, preferredID entity.EngineID, descriptors []entity.Descriptor, exclude entity.EngineID) (entity.Descriptor, error) {
	log := logging.FromContext(ctx)

	candidates := descriptors
	if exclude != "" {
		candidates = make([]entity.Descriptor, 0, len(descriptors))
		for _, d := range descriptors {
			if d.ID != exclude {
				candidates = append(candidates, d)
			}
		}
	}

	if len(candidates) == 0 {
		return entity.Descriptor{}, ErrNoEngineAvailable
	}

	if preferredID != "" {
		if d, ok := entity.FindDescriptor(candidates, preferredID); ok {
			return d, nil
		}
		log.Debug().
			Str("preferred", string(preferredID)).
			Msg("preferred engine unavailable, applying fallback priority")
	}

	best := candidates[0]
	for _, d := range candidates[1:] {
		if d.Origin.FallbackRank() < best.Origin.FallbackRank() {
			best = d
		}
	}
	return best, nil
}
