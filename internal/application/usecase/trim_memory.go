package usecase

import (
	"context"
	"sync"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/logging"
)

// TrimMemoryUseCase fans a process-wide memory pressure signal out to all
// live engine instances. Instances share no mutable state across tabs, so
// the broadcast may run concurrently; operations within one tab stay
// serialized because TrimMemory is advisory and touches only backend-owned
// resources.
type TrimMemoryUseCase struct{}

// NewTrimMemoryUseCase creates a new memory trim use case.
func NewTrimMemoryUseCase() *TrimMemoryUseCase {
	return &TrimMemoryUseCase{}
}

// Execute delivers TrimMemory to every engine and waits for completion.
func (uc *TrimMemoryUseCase) Execute(ctx context.Context, engines []port.Engine) {
	log := logging.FromContext(ctx)
	log.Debug().Int("count", len(engines)).Msg("broadcasting memory trim")

	var wg sync.WaitGroup
	for _, eng := range engines {
		if eng == nil {
			continue
		}
		wg.Add(1)
		go func(e port.Engine) {
			defer wg.Done()
			e.TrimMemory(ctx)
		}(eng)
	}
	wg.Wait()
}
