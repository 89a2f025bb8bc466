// Package repository defines persistence interfaces for domain entities.
package repository

import (
	"context"
	"time"

	"github.com/bnema/fickle/internal/domain/entity"
)

// TabSnapshotRepository stores opaque tab snapshot payloads keyed by tab id.
// Payload decoding happens in the application layer so that corrupt or
// version-mismatched payloads can degrade to a cold restore instead of
// failing the read.
type TabSnapshotRepository interface {
	// Save upserts the payload for a tab.
	Save(ctx context.Context, tabID entity.TabID, payload []byte, savedAt time.Time) error

	// Load returns the stored payload, or nil when no snapshot exists.
	Load(ctx context.Context, tabID entity.TabID) ([]byte, error)

	// Delete removes a tab's snapshot.
	Delete(ctx context.Context, tabID entity.TabID) error

	// TabIDs lists all tabs with a stored snapshot, oldest save first, so
	// session restore reopens tabs in the order they were first persisted.
	TabIDs(ctx context.Context) ([]entity.TabID, error)
}
