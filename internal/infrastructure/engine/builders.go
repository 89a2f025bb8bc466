package engine

import (
	"context"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/rs/zerolog"
)

// BuilderDeps carries everything the concrete backends need at
// construction time.
type BuilderDeps struct {
	Dispatch port.Dispatcher
	Log      zerolog.Logger

	// WebKit tunes the native views of both embedded origins.
	WebKit WebKitOptions

	// TaggedUserAgent is the identity presented by the delegating engine.
	TaggedUserAgent string
	// Rewrite adjusts outgoing URLs for the delegating engine. Optional.
	Rewrite URLRewriter

	// Opener hands pages to the external viewer process.
	Opener port.Opener
	// Placeholder supplies the widget shown for out-of-process tabs.
	Placeholder func() port.View
}

// Builders returns one constructor per origin, keyed the way the engine
// factory resolves them.
func Builders(deps BuilderDeps) map[entity.Origin]port.EngineBuilder {
	return map[entity.Origin]port.EngineBuilder{
		entity.OriginEmbeddedFull: func(_ context.Context, tabID entity.TabID, d entity.Descriptor) (port.Engine, error) {
			return NewWebKitEngine(d, tabID, deps.Dispatch, deps.Log, deps.WebKit), nil
		},
		entity.OriginEmbeddedPlatform: func(_ context.Context, tabID entity.TabID, d entity.Descriptor) (port.Engine, error) {
			return NewWebKitEngine(d, tabID, deps.Dispatch, deps.Log, deps.WebKit), nil
		},
		entity.OriginDelegating: func(_ context.Context, tabID entity.TabID, d entity.Descriptor) (port.Engine, error) {
			opts := deps.WebKit
			opts.UserAgent = deps.TaggedUserAgent
			inner := NewWebKitEngine(d, tabID, deps.Dispatch, deps.Log, opts)
			return NewDelegatingEngine(d, inner, deps.Rewrite), nil
		},
		entity.OriginOutOfProcess: func(_ context.Context, tabID entity.TabID, d entity.Descriptor) (port.Engine, error) {
			return NewExternalEngine(d, tabID, deps.Dispatch, deps.Log, deps.Opener, deps.Placeholder), nil
		},
	}
}
