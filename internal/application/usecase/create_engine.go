package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
	"golang.org/x/sync/singleflight"
)

// ErrConstructionFailed is returned when no backend could be constructed for
// a tab, after the one-shot fallback retry. Recoverable per tab.
var ErrConstructionFailed = errors.New("engine construction failed")

// CreateEngineUseCase builds engine instances bound to one tab, applying
// selector fallback when the chosen backend fails to construct. Construction
// for a given tab is mutually exclusive: concurrent calls for the same tab
// coalesce onto a single in-flight build.
type CreateEngineUseCase struct {
	selector *SelectEngineUseCase
	detector port.Detector
	builders map[entity.Origin]port.EngineBuilder

	inflight singleflight.Group
}

// NewCreateEngineUseCase creates the engine factory. builders is the closed
// set of constructors, keyed by origin kind.
func NewCreateEngineUseCase(
	selector *SelectEngineUseCase,
	detector port.Detector,
	builders map[entity.Origin]port.EngineBuilder,
) *CreateEngineUseCase {
	return &CreateEngineUseCase{
		selector: selector,
		detector: detector,
		builders: builders,
	}
}

// Create builds an engine for the tab. preferredID overrides the persisted
// preference when non-empty (used when restoring a snapshot that names its
// engine). Detection runs fresh on every call; availability is not assumed
// stable between tab creations.
func (uc *CreateEngineUseCase) Create(ctx context.Context, tabID entity.TabID, preferredID entity.EngineID) (port.Engine, error) {
	v, err, _ := uc.inflight.Do(string(tabID), func() (interface{}, error) {
		return uc.create(ctx, tabID, preferredID)
	})
	if err != nil {
		return nil, err
	}
	return v.(port.Engine), nil
}

func (uc *CreateEngineUseCase) create(ctx context.Context, tabID entity.TabID, preferredID entity.EngineID) (port.Engine, error) {
	log := logging.FromContext(ctx)

	if preferredID == "" {
		preferredID = uc.selector.Preferred()
	}

	descriptors := uc.detector.Detect(ctx)

	chosen, err := uc.selector.Resolve(ctx, preferredID, descriptors)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstructionFailed, err)
	}

	eng, buildErr := uc.build(ctx, tabID, chosen)
	if buildErr == nil {
		return eng, nil
	}

	// The backend became unavailable between detection and creation. Resolve
	// once more without it and retry a single time.
	log.Warn().
		Err(buildErr).
		Str("engine_id", string(chosen.ID)).
		Str("tab_id", string(tabID)).
		Msg("engine construction failed, retrying with fallback")

	fallback, err := uc.selector.ResolveExcluding(ctx, preferredID, descriptors, chosen.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstructionFailed, buildErr)
	}

	eng, retryErr := uc.build(ctx, tabID, fallback)
	if retryErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrConstructionFailed, retryErr)
	}

	log.Info().
		Str("engine_id", string(fallback.ID)).
		Str("tab_id", string(tabID)).
		Msg("engine constructed via fallback")
	return eng, nil
}

func (uc *CreateEngineUseCase) build(ctx context.Context, tabID entity.TabID, d entity.Descriptor) (port.Engine, error) {
	builder, ok := uc.builders[d.Origin]
	if !ok {
		return nil, fmt.Errorf("no builder registered for origin %s", d.Origin)
	}
	return builder(ctx, tabID, d)
}
