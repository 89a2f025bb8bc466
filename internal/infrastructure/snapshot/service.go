// Package snapshot persists tab state on a debounce so rapid navigation
// doesn't hammer the database. Engine state is only readable on the UI
// loop, so the debounce timer hands the capture step to the dispatcher and
// keeps only the database write off-loop.
package snapshot

import (
	"context"
	"sync"
	"time"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
)

// EngineProvider exposes the live engines by tab so the service can capture
// their state. Called on the UI loop only; tabs missing from the map at
// flush time are skipped.
type EngineProvider interface {
	Engines() map[entity.TabID]port.Engine
}

// Service handles debounced tab state snapshots.
type Service struct {
	snapshotUC *usecase.SnapshotTabUseCase
	provider   EngineProvider
	dispatch   port.Dispatcher
	interval   time.Duration

	mu     sync.Mutex
	timer  *time.Timer
	dirty  map[entity.TabID]struct{}
	ctx    context.Context
	cancel context.CancelFunc

	writes sync.WaitGroup
}

// NewService creates a new snapshot service. dispatch posts the capture step
// onto the UI loop the engines live on.
func NewService(
	snapshotUC *usecase.SnapshotTabUseCase,
	provider EngineProvider,
	dispatch port.Dispatcher,
	intervalMs int,
) *Service {
	if intervalMs <= 0 {
		intervalMs = 5000 // Default 5 seconds
	}
	return &Service{
		snapshotUC: snapshotUC,
		provider:   provider,
		dispatch:   dispatch,
		interval:   time.Duration(intervalMs) * time.Millisecond,
		dirty:      make(map[entity.TabID]struct{}),
	}
}

// Start begins accepting dirty marks.
func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.ctx, s.cancel = context.WithCancel(ctx)
	logging.FromContext(ctx).Debug().Dur("interval", s.interval).Msg("snapshot service started")
}

// Stop stops the service and saves final state. Must be called from the UI
// loop; it waits for debounced writes already in flight, then flushes
// whatever is still pending synchronously.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.cancel()
	}
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.writes.Wait()
	return s.SaveNow(ctx)
}

// MarkDirty signals that a tab's state has changed. Saves are debounced to
// avoid excessive DB writes during rapid navigation.
func (s *Service) MarkDirty(tabID entity.TabID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dirty[tabID] = struct{}{}

	if s.timer != nil {
		s.timer.Stop()
	}

	s.timer = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		ctx := s.ctx
		s.mu.Unlock()

		if ctx == nil {
			return
		}

		s.flush(ctx)
	})
}

// Forget drops any pending snapshot for a tab. Used when the tab is being
// destroyed and its persisted state deleted.
func (s *Service) Forget(tabID entity.TabID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.dirty, tabID)
}

// SaveNow captures and persists all pending tabs immediately. Callers must
// be on the UI loop; used for the final flush at shutdown.
func (s *Service) SaveNow(ctx context.Context) error {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.persist(ctx, s.capture(ctx))
	return nil
}

// flush runs on the debounce timer's goroutine. The engines themselves are
// never touched here: the capture step is posted to the UI loop and only
// the resulting payloads are written out on a worker goroutine.
func (s *Service) flush(ctx context.Context) {
	s.dispatch.Post(func() {
		pending := s.capture(ctx)
		if len(pending) == 0 {
			return
		}
		// Captured payloads still land when shutdown cancels ctx between
		// the capture and the write; Stop waits for them instead.
		writeCtx := context.WithoutCancel(ctx)
		s.writes.Add(1)
		go func() {
			defer s.writes.Done()
			s.persist(writeCtx, pending)
		}()
	})
}

type capturedTab struct {
	tabID   entity.TabID
	payload []byte
	savedAt time.Time
}

func (s *Service) capture(ctx context.Context) []capturedTab {
	s.mu.Lock()
	pending := s.dirty
	s.dirty = make(map[entity.TabID]struct{})
	s.mu.Unlock()

	if len(pending) == 0 {
		return nil
	}

	engines := s.provider.Engines()
	log := logging.FromContext(ctx)

	out := make([]capturedTab, 0, len(pending))
	for tabID := range pending {
		eng, ok := engines[tabID]
		if !ok {
			// Tab closed between the mark and the flush.
			continue
		}
		payload, savedAt, err := s.snapshotUC.Capture(tabID, eng)
		if err != nil {
			log.Error().Err(err).Str("tab_id", string(tabID)).Msg("failed to capture tab snapshot")
			continue
		}
		out = append(out, capturedTab{tabID: tabID, payload: payload, savedAt: savedAt})
	}
	return out
}

func (s *Service) persist(ctx context.Context, snaps []capturedTab) {
	log := logging.FromContext(ctx)
	for _, snap := range snaps {
		if err := s.snapshotUC.Persist(ctx, snap.tabID, snap.payload, snap.savedAt); err != nil {
			log.Error().Err(err).Str("tab_id", string(snap.tabID)).Msg("failed to save tab snapshot")
		}
	}
}
