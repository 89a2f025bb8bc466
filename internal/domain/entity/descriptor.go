// Package entity contains the core domain types of the multi-engine browser.
package entity

// EngineID uniquely identifies a candidate rendering backend.
type EngineID string

// Origin classifies where a backend's rendering machinery comes from.
type Origin int

const (
	// OriginEmbeddedFull is a backend bundling its own rendering runtime.
	OriginEmbeddedFull Origin = iota
	// OriginEmbeddedPlatform wraps a rendering component supplied by the platform.
	OriginEmbeddedPlatform
	// OriginDelegating reuses another backend's plumbing with overridden behavior.
	OriginDelegating
	// OriginOutOfProcess hands rendering off to an external viewer process.
	OriginOutOfProcess
)

// String returns a human-readable representation of the origin.
func (o Origin) String() string {
	switch o {
	case OriginEmbeddedFull:
		return "embedded-full"
	case OriginEmbeddedPlatform:
		return "embedded-platform"
	case OriginDelegating:
		return "delegating"
	case OriginOutOfProcess:
		return "out-of-process"
	default:
		return "unknown"
	}
}

// FallbackRank returns the selection priority of the origin; lower is better.
// embedded-full > embedded-platform > delegating > out-of-process.
func (o Origin) FallbackRank() int {
	switch o {
	case OriginEmbeddedFull:
		return 0
	case OriginEmbeddedPlatform:
		return 1
	case OriginDelegating:
		return 2
	case OriginOutOfProcess:
		return 3
	default:
		return 4
	}
}

// Capability is a bit flag describing one optional backend feature.
type Capability uint8

const (
	// CapZoom indicates the backend supports page zoom.
	CapZoom Capability = 1 << iota
	// CapScriptEval indicates the backend can execute arbitrary script.
	CapScriptEval
	// CapThumbnail indicates the backend can render offscreen thumbnails.
	CapThumbnail
	// CapBackForward indicates the backend keeps a back/forward list.
	CapBackForward
	// CapOutOfProcess indicates rendering happens outside this process.
	CapOutOfProcess
)

// Has reports whether all flags in want are present.
func (c Capability) Has(want Capability) bool {
	return c&want == want
}

// Names returns the human-readable names of the set flags, in declaration
// order.
func (c Capability) Names() []string {
	all := []struct {
		flag Capability
		name string
	}{
		{CapZoom, "zoom"},
		{CapScriptEval, "script-eval"},
		{CapThumbnail, "thumbnail"},
		{CapBackForward, "back-forward"},
		{CapOutOfProcess, "out-of-process"},
	}
	names := make([]string, 0, len(all))
	for _, e := range all {
		if c.Has(e.flag) {
			names = append(names, e.name)
		}
	}
	return names
}

// Descriptor is the immutable identity and capability record for one
// candidate backend. Descriptors are recomputed by the detector on every
// pass, never mutated in place.
type Descriptor struct {
	ID          EngineID
	DisplayName string
	Origin      Origin
	Caps        Capability
}

// FindDescriptor returns the descriptor with the given id, or false when the
// id is not present in the current detection results.
func FindDescriptor(descriptors []Descriptor, id EngineID) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.ID == id {
			return d, true
		}
	}
	return Descriptor{}, false
}
