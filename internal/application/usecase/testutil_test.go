package usecase_test

import (
	"context"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
	"github.com/rs/zerolog"
)

func testContext() context.Context {
	return logging.WithContext(context.Background(), zerolog.Nop())
}

func fullDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-full",
		DisplayName: "WebKit (bundled)",
		Origin:      entity.OriginEmbeddedFull,
		Caps:        entity.CapZoom | entity.CapScriptEval | entity.CapThumbnail | entity.CapBackForward,
	}
}

func platformDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "webkit-platform",
		DisplayName: "WebKit (system)",
		Origin:      entity.OriginEmbeddedPlatform,
		Caps:        entity.CapZoom | entity.CapBackForward,
	}
}

func externalDescriptor() entity.Descriptor {
	return entity.Descriptor{
		ID:          "external",
		DisplayName: "External viewer",
		Origin:      entity.OriginOutOfProcess,
		Caps:        entity.CapOutOfProcess,
	}
}
