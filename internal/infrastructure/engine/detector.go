package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/bnema/fickle/internal/application/port"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/infrastructure/config"
	"github.com/bnema/fickle/internal/logging"
)

// ErrDetectionFailed marks a probe that could not produce a descriptor.
// Probe failures are contained: they are logged and the remaining probes
// still run.
var ErrDetectionFailed = errors.New("engine detection failed")

// Probe inspects one potential backend and reports its descriptor when the
// backend is actually usable on this machine.
type Probe struct {
	Name string
	Run  func(ctx context.Context) (entity.Descriptor, error)
}

// Detector runs a fixed set of probes and publishes the combined result.
// Each Detect call re-probes; the last result stays readable without
// re-probing through Last.
type Detector struct {
	probes []Probe
	last   atomic.Pointer[[]entity.Descriptor]
}

var _ port.Detector = (*Detector)(nil)

// NewDetector builds a detector over the given probes.
func NewDetector(probes ...Probe) *Detector {
	return &Detector{probes: probes}
}

// DetectorFromConfig assembles the standard probe stack from configuration.
func DetectorFromConfig(cfg *config.Config) *Detector {
	platform := PlatformComponentProbe(cfg.Engine.PlatformLibDirs...)
	return NewDetector(
		BundledRuntimeProbe(cfg.Engine.RuntimeDir),
		platform,
		DelegatingProbe(platform),
		ExternalViewerProbe(),
	)
}

// Detect implements port.Detector. Probes run isolated: a failing or
// panicking probe removes only its own candidate.
func (d *Detector) Detect(ctx context.Context) []entity.Descriptor {
	log := logging.FromContext(ctx)

	seen := make(map[entity.EngineID]bool, len(d.probes))
	descriptors := make([]entity.Descriptor, 0, len(d.probes))
	for _, probe := range d.probes {
		desc, err := runProbe(ctx, probe)
		if err != nil {
			log.Debug().Err(err).Str("probe", probe.Name).Msg("engine probe failed")
			continue
		}
		if seen[desc.ID] {
			log.Warn().Str("probe", probe.Name).Str("engine_id", string(desc.ID)).Msg("duplicate engine id, probe result dropped")
			continue
		}
		seen[desc.ID] = true
		descriptors = append(descriptors, desc)
	}

	sort.SliceStable(descriptors, func(i, j int) bool {
		return descriptors[i].Origin.FallbackRank() < descriptors[j].Origin.FallbackRank()
	})

	d.last.Store(&descriptors)
	log.Debug().Int("available", len(descriptors)).Msg("engine detection complete")
	return descriptors
}

// Last returns the most recent detection result without re-probing, or nil
// if Detect has never run.
func (d *Detector) Last() []entity.Descriptor {
	if p := d.last.Load(); p != nil {
		return *p
	}
	return nil
}

// runProbe converts a probe panic into a contained detection failure.
func runProbe(ctx context.Context, probe Probe) (desc entity.Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: probe %s panicked: %v", ErrDetectionFailed, probe.Name, r)
		}
	}()
	desc, err = probe.Run(ctx)
	if err != nil {
		return entity.Descriptor{}, fmt.Errorf("%w: probe %s: %w", ErrDetectionFailed, probe.Name, err)
	}
	return desc, nil
}
