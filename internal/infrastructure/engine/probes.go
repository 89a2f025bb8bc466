package engine

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/bnema/fickle/internal/domain/entity"
)

// Stable descriptor IDs. Persisted snapshots reference these across
// restarts, so they must never encode anything machine-specific.
const (
	EngineIDBundled  entity.EngineID = "webkit-full"
	EngineIDPlatform entity.EngineID = "webkit-platform"
	EngineIDTagged   entity.EngineID = "webkit-tagged"
	EngineIDExternal entity.EngineID = "external"
)

// webProcessBinary must exist inside a bundled runtime directory for the
// full embedded engine to be usable.
const webProcessBinary = "WebKitWebProcess"

// defaultPlatformLibDirs are searched for a system-installed WebKitGTK.
var defaultPlatformLibDirs = []string{
	"/usr/lib",
	"/usr/lib64",
	"/usr/lib/x86_64-linux-gnu",
	"/usr/lib/aarch64-linux-gnu",
	"/usr/local/lib",
}

// BundledRuntimeProbe reports the full embedded engine when the bundled
// WebKit runtime directory is present and carries its web process binary.
func BundledRuntimeProbe(runtimeDir string) Probe {
	return Probe{
		Name: "bundled-runtime",
		Run: func(context.Context) (entity.Descriptor, error) {
			if runtimeDir == "" {
				return entity.Descriptor{}, fmt.Errorf("no bundled runtime directory configured")
			}
			info, err := os.Stat(runtimeDir)
			if err != nil {
				return entity.Descriptor{}, fmt.Errorf("bundled runtime missing: %w", err)
			}
			if !info.IsDir() {
				return entity.Descriptor{}, fmt.Errorf("bundled runtime path is not a directory: %s", runtimeDir)
			}
			if _, err := os.Stat(filepath.Join(runtimeDir, webProcessBinary)); err != nil {
				return entity.Descriptor{}, fmt.Errorf("bundled runtime incomplete: %w", err)
			}
			return entity.Descriptor{
				ID:          EngineIDBundled,
				DisplayName: "WebKit (bundled runtime)",
				Origin:      entity.OriginEmbeddedFull,
				Caps:        entity.CapZoom | entity.CapScriptEval | entity.CapThumbnail | entity.CapBackForward,
			}, nil
		},
	}
}

// PlatformComponentProbe reports the thin wrapper over the system WebKitGTK
// when one is installed. Capability flags depend on the installed
// generation: the 6.0 API exposes script evaluation and snapshot capture,
// older generations only navigation and zoom. libDirs defaults to the
// common distro locations when empty.
func PlatformComponentProbe(libDirs ...string) Probe {
	if len(libDirs) == 0 {
		libDirs = defaultPlatformLibDirs
	}
	return Probe{
		Name: "platform-component",
		Run: func(context.Context) (entity.Descriptor, error) {
			lib, err := locatePlatformLibrary(libDirs)
			if err != nil {
				return entity.Descriptor{}, err
			}
			caps := entity.CapZoom | entity.CapBackForward
			if strings.Contains(lib, "webkitgtk-6.0") {
				caps |= entity.CapScriptEval | entity.CapThumbnail
			}
			return entity.Descriptor{
				ID:          EngineIDPlatform,
				DisplayName: fmt.Sprintf("WebKit (system, %s)", filepath.Base(lib)),
				Origin:      entity.OriginEmbeddedPlatform,
				Caps:        caps,
			}, nil
		},
	}
}

func locatePlatformLibrary(libDirs []string) (string, error) {
	patterns := []string{"libwebkitgtk-6.0.so*", "libwebkit2gtk-4.1.so*"}
	for _, pattern := range patterns {
		for _, dir := range libDirs {
			matches, err := filepath.Glob(filepath.Join(dir, pattern))
			if err == nil && len(matches) > 0 {
				return matches[0], nil
			}
		}
	}
	return "", fmt.Errorf("no system webkitgtk library found")
}

// DelegatingProbe reports the delegation layer, which renders through the
// same component as underlying and is therefore only available when that
// probe succeeds.
func DelegatingProbe(underlying Probe) Probe {
	return Probe{
		Name: "delegating",
		Run: func(ctx context.Context) (entity.Descriptor, error) {
			inner, err := underlying.Run(ctx)
			if err != nil {
				return entity.Descriptor{}, fmt.Errorf("delegation target unavailable: %w", err)
			}
			return entity.Descriptor{
				ID:          EngineIDTagged,
				DisplayName: "WebKit (tagged identity)",
				Origin:      entity.OriginDelegating,
				Caps:        inner.Caps,
			}, nil
		},
	}
}

// ExternalViewerProbe reports the out-of-process delegate when a URL
// handler is registered on the system.
func ExternalViewerProbe() Probe {
	return Probe{
		Name: "external-viewer",
		Run: func(context.Context) (entity.Descriptor, error) {
			if _, err := exec.LookPath("xdg-open"); err != nil {
				return entity.Descriptor{}, fmt.Errorf("no external URL handler: %w", err)
			}
			return entity.Descriptor{
				ID:          EngineIDExternal,
				DisplayName: "External viewer",
				Origin:      entity.OriginOutOfProcess,
				Caps:        entity.CapOutOfProcess,
			}, nil
		},
	}
}
