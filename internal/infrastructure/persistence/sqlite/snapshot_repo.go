package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/domain/repository"
	"github.com/bnema/fickle/internal/logging"
)

type snapshotRepo struct {
	db *sql.DB
}

// NewTabSnapshotRepository creates the SQLite-backed snapshot store.
func NewTabSnapshotRepository(db *sql.DB) repository.TabSnapshotRepository {
	return &snapshotRepo{db: db}
}

var _ repository.TabSnapshotRepository = (*snapshotRepo)(nil)

// Save upserts the snapshot payload for a tab.
func (r *snapshotRepo) Save(ctx context.Context, tabID entity.TabID, payload []byte, savedAt time.Time) error {
	if len(payload) == 0 {
		return errors.New("snapshot payload cannot be empty")
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO tab_snapshots (tab_id, payload, saved_at)
		VALUES (?, ?, ?)
		ON CONFLICT (tab_id) DO UPDATE SET
			payload = excluded.payload,
			saved_at = excluded.saved_at`,
		string(tabID), payload, savedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("save snapshot for tab %s: %w", tabID, err)
	}

	logging.FromContext(ctx).Debug().
		Str("tab_id", string(tabID)).
		Int("bytes", len(payload)).
		Msg("tab snapshot saved")
	return nil
}

// Load returns the stored payload, or (nil, nil) when the tab has none.
func (r *snapshotRepo) Load(ctx context.Context, tabID entity.TabID) ([]byte, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload FROM tab_snapshots WHERE tab_id = ?`, string(tabID),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for tab %s: %w", tabID, err)
	}
	return payload, nil
}

// Delete removes a tab's snapshot. Deleting an absent row is not an error.
func (r *snapshotRepo) Delete(ctx context.Context, tabID entity.TabID) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM tab_snapshots WHERE tab_id = ?`, string(tabID),
	); err != nil {
		return fmt.Errorf("delete snapshot for tab %s: %w", tabID, err)
	}
	return nil
}

// TabIDs lists tabs with stored snapshots, oldest save first.
func (r *snapshotRepo) TabIDs(ctx context.Context) ([]entity.TabID, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT tab_id FROM tab_snapshots ORDER BY saved_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("list snapshot tabs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var ids []entity.TabID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, entity.TabID(id))
	}
	return ids, rows.Err()
}
