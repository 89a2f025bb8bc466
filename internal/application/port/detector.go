package port

import (
	"context"

	"github.com/bnema/fickle/internal/domain/entity"
)

// Detector probes the host environment for available rendering backends.
// Detection never fails as a whole: a misbehaving candidate contributes zero
// descriptors and an empty result is a normal outcome. The set of available
// backends can change while the process runs, so callers re-detect when
// making a new selection decision instead of caching indefinitely.
type Detector interface {
	Detect(ctx context.Context) []entity.Descriptor
}

// EngineBuilder constructs an engine instance bound to one tab for the given
// descriptor. Builders form a closed, enumerated set keyed by origin.
type EngineBuilder func(ctx context.Context, tabID entity.TabID, d entity.Descriptor) (Engine, error)
