package entity

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// TabSnapshotVersion is the current schema version for persisted tab state.
// Increment when making breaking changes to the serialization format.
const TabSnapshotVersion = 1

// ErrStateRestore indicates a snapshot that cannot be restored in full
// (corrupt payload or incompatible format version). Callers recover with a
// cold restore instead of failing.
var ErrStateRestore = errors.New("tab state restore failed")

// TabSnapshot is the persisted navigation state of one tab together with the
// engine that produced it. The engine id may be unresolvable by the time the
// snapshot is read back; restoring then degrades to the current entry only.
type TabSnapshot struct {
	Version      int            `json:"version"`
	TabID        TabID          `json:"tab_id"`
	EngineID     EngineID       `json:"engine_id"`
	History      []HistoryEntry `json:"history"`
	CurrentIndex int            `json:"current_index"`
	SavedAt      time.Time      `json:"saved_at"`
}

// NewTabSnapshot captures the given history under the current format version.
func NewTabSnapshot(tabID TabID, engineID EngineID, history *NavigationHistory) *TabSnapshot {
	snap := &TabSnapshot{
		Version:  TabSnapshotVersion,
		TabID:    tabID,
		EngineID: engineID,
		SavedAt:  time.Now(),
	}
	if history != nil {
		snap.History = history.Entries()
		snap.CurrentIndex = history.CurrentIndex()
	} else {
		snap.CurrentIndex = -1
	}
	return snap
}

// Encode serializes the snapshot to its opaque byte form.
func (s *TabSnapshot) Encode() ([]byte, error) {
	data, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode tab snapshot: %w", err)
	}
	return data, nil
}

// DecodeTabSnapshot parses an opaque snapshot payload. Corrupt payloads and
// any format version other than this build's yield ErrStateRestore rather
// than a hard parse failure.
func DecodeTabSnapshot(data []byte) (*TabSnapshot, error) {
	var snap TabSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStateRestore, err)
	}
	if snap.Version != TabSnapshotVersion {
		return nil, fmt.Errorf("%w: snapshot version %d, this build reads %d",
			ErrStateRestore, snap.Version, TabSnapshotVersion)
	}
	return &snap, nil
}

// CurrentEntry returns the entry at CurrentIndex, or false when the snapshot
// holds no usable entry.
func (s *TabSnapshot) CurrentEntry() (HistoryEntry, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.History) {
		return HistoryEntry{}, false
	}
	return s.History[s.CurrentIndex], true
}
