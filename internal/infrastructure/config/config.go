package config

import (
	"fmt"
	"strings"
)

// HardwareAccelerationMode selects the GPU compositing policy for the
// embedded WebKit backends.
type HardwareAccelerationMode string

const (
	HardwareAccelerationAuto   HardwareAccelerationMode = "auto"
	HardwareAccelerationAlways HardwareAccelerationMode = "always"
	HardwareAccelerationNever  HardwareAccelerationMode = "never"
)

// Config is the full application configuration.
type Config struct {
	Engine   EngineConfig   `mapstructure:"engine"`
	WebKit   WebKitConfig   `mapstructure:"webkit"`
	Session  SessionConfig  `mapstructure:"session"`
	Database DatabaseConfig `mapstructure:"database"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// EngineConfig controls backend detection and selection.
type EngineConfig struct {
	// Preferred is the persisted engine preference. Empty means "pick the
	// best available".
	Preferred string `mapstructure:"preferred"`
	// RuntimeDir is where the bundled WebKit runtime is unpacked.
	RuntimeDir string `mapstructure:"runtime_dir"`
	// PlatformLibDirs lists directories probed for system WebKit libraries.
	// Empty means the standard library paths.
	PlatformLibDirs []string `mapstructure:"platform_lib_dirs"`
	// TaggedUserAgent is the identity the delegating backend presents.
	TaggedUserAgent string `mapstructure:"tagged_user_agent"`
}

// WebKitConfig tunes the native views of the embedded backends.
type WebKitConfig struct {
	EnableDeveloperExtras bool                     `mapstructure:"enable_developer_extras"`
	HardwareAcceleration  HardwareAccelerationMode `mapstructure:"hardware_acceleration"`
	UserAgent             string                   `mapstructure:"user_agent"`
}

// SessionConfig controls tab snapshotting and restoration.
type SessionConfig struct {
	AutoRestore        bool `mapstructure:"auto_restore"`
	SnapshotIntervalMs int  `mapstructure:"snapshot_interval_ms"`
}

// DatabaseConfig locates the snapshot store.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Engine: EngineConfig{
			Preferred:       "",
			RuntimeDir:      "",
			TaggedUserAgent: "Mozilla/5.0 (X11; Linux x86_64) fickle-embedded/1.0",
		},
		WebKit: WebKitConfig{
			EnableDeveloperExtras: false,
			HardwareAcceleration:  HardwareAccelerationAuto,
		},
		Session: SessionConfig{
			AutoRestore:        true,
			SnapshotIntervalMs: 10000,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

func normalizeConfig(config *Config) {
	switch HardwareAccelerationMode(strings.ToLower(string(config.WebKit.HardwareAcceleration))) {
	case "", HardwareAccelerationAuto:
		config.WebKit.HardwareAcceleration = HardwareAccelerationAuto
	case HardwareAccelerationAlways:
		config.WebKit.HardwareAcceleration = HardwareAccelerationAlways
	case HardwareAccelerationNever:
		config.WebKit.HardwareAcceleration = HardwareAccelerationNever
	default:
		config.WebKit.HardwareAcceleration = HardwareAccelerationAuto
	}

	config.Engine.Preferred = strings.TrimSpace(config.Engine.Preferred)
	config.Engine.RuntimeDir = strings.TrimSpace(config.Engine.RuntimeDir)
}

func validateConfig(config *Config) error {
	if config.Session.SnapshotIntervalMs < 0 {
		return fmt.Errorf("session.snapshot_interval_ms must not be negative, got %d", config.Session.SnapshotIntervalMs)
	}
	switch strings.ToLower(config.Logging.Level) {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q is not a known level", config.Logging.Level)
	}
	return nil
}
