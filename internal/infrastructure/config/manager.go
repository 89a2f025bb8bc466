package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bnema/fickle/internal/application/usecase"
	"github.com/bnema/fickle/internal/domain/entity"
	"github.com/bnema/fickle/internal/logging"
	"github.com/spf13/viper"
)

// Manager handles configuration loading, watching, and reloading. It also
// carries the persisted engine preference for the selection use case.
type Manager struct {
	config    *Config
	viper     *viper.Viper
	mu        sync.RWMutex
	callbacks []func(*Config)
	watching  bool
}

var _ usecase.PreferenceStore = (*Manager)(nil)

// NewManager creates a new configuration manager reading from the XDG config
// directory with FICKLE_-prefixed environment overrides.
func NewManager() (*Manager, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")

	configDir, err := GetConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to determine config directory: %w", err)
	}
	v.AddConfigPath(configDir)
	v.AddConfigPath(".") // Current directory for development

	v.SetEnvPrefix("FICKLE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Shorthand env vars that don't follow the section.key naming.
	if err := v.BindEnv("logging.level", "FICKLE_LOG_LEVEL"); err != nil {
		return nil, fmt.Errorf("failed to bind FICKLE_LOG_LEVEL: %w", err)
	}
	if err := v.BindEnv("engine.preferred", "FICKLE_ENGINE"); err != nil {
		return nil, fmt.Errorf("failed to bind FICKLE_ENGINE: %w", err)
	}

	return &Manager{
		viper:     v,
		callbacks: make([]func(*Config), 0),
	}, nil
}

// Load loads the configuration from file and environment variables, creating
// a default config file on first run.
func (m *Manager) Load() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := EnsureDirectories(); err != nil {
		return fmt.Errorf("failed to ensure directories: %w", err)
	}

	m.setDefaults()

	if err := m.readConfigFile(); err != nil {
		return err
	}

	config, err := m.unmarshalConfig()
	if err != nil {
		return err
	}
	if err := ensureDatabasePath(config); err != nil {
		return err
	}
	normalizeConfig(config)

	if err := validateConfig(config); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}

	m.config = config
	return nil
}

func (m *Manager) readConfigFile() error {
	if err := m.viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			if createErr := m.createDefaultConfig(); createErr != nil {
				configDir, _ := GetConfigDir()
				return fmt.Errorf("failed to create default config at %s: %w", configDir, createErr)
			}
			if rereadErr := m.viper.ReadInConfig(); rereadErr != nil {
				return fmt.Errorf("failed to read newly created config file: %w", rereadErr)
			}
			return nil
		}
		configFile := m.viper.ConfigFileUsed()
		if configFile == "" {
			configDir, _ := GetConfigDir()
			configFile = filepath.Join(configDir, "config.toml")
		}
		return fmt.Errorf("failed to read config file at %s: %w\nCheck the file format (must be valid TOML) and permissions", configFile, err)
	}
	return nil
}

func (m *Manager) unmarshalConfig() (*Config, error) {
	config := &Config{}
	if err := m.viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to parse config file at %s: %w", m.viper.ConfigFileUsed(), err)
	}
	// Unmarshal resolves keys present in the config file without consulting
	// the env bindings, so once a file exists it shadows the FICKLE_*
	// overrides. Re-read the bound keys through Get, which applies env
	// precedence.
	config.Logging.Level = m.viper.GetString("logging.level")
	config.Engine.Preferred = m.viper.GetString("engine.preferred")
	return config, nil
}

func ensureDatabasePath(config *Config) error {
	if config.Database.Path != "" {
		return nil
	}
	dbPath, err := GetDatabaseFile()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	config.Database.Path = dbPath
	return nil
}

// Get returns the current configuration (thread-safe).
func (m *Manager) Get() *Config {
	m.mu.RLock()
	defer m.mu.RUnlock()

	// Return a copy to prevent external modification.
	configCopy := *m.config
	return &configCopy
}

// EnginePreference implements usecase.PreferenceStore.
func (m *Manager) EnginePreference() entity.EngineID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return ""
	}
	return entity.EngineID(m.config.Engine.Preferred)
}

// SetEnginePreference implements usecase.PreferenceStore. The new value is
// written through to the config file immediately.
func (m *Manager) SetEnginePreference(ctx context.Context, id entity.EngineID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.viper.Set("engine.preferred", string(id))
	if err := m.writeConfigLocked(); err != nil {
		return fmt.Errorf("failed to persist engine preference: %w", err)
	}
	if m.config != nil {
		m.config.Engine.Preferred = string(id)
	}

	logging.FromContext(ctx).Info().
		Str("engine_id", string(id)).
		Msg("engine preference persisted")
	return nil
}

func (m *Manager) writeConfigLocked() error {
	if m.viper.ConfigFileUsed() != "" {
		return m.viper.WriteConfig()
	}
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	return m.viper.WriteConfigAs(configFile)
}

// GetConfigFile returns the path to the configuration file being used.
func (m *Manager) GetConfigFile() string {
	return m.viper.ConfigFileUsed()
}

// createDefaultConfig writes a config file populated with the defaults.
func (m *Manager) createDefaultConfig() error {
	configFile, err := GetConfigFile()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(configFile), dirPerm); err != nil {
		return err
	}

	m.viper.SetConfigType("toml")
	if err := m.viper.SafeWriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// setDefaults seeds Viper with the built-in defaults.
func (m *Manager) setDefaults() {
	defaults := DefaultConfig()

	m.viper.SetDefault("engine.preferred", defaults.Engine.Preferred)
	m.viper.SetDefault("engine.runtime_dir", defaults.Engine.RuntimeDir)
	m.viper.SetDefault("engine.platform_lib_dirs", defaults.Engine.PlatformLibDirs)
	m.viper.SetDefault("engine.tagged_user_agent", defaults.Engine.TaggedUserAgent)

	m.viper.SetDefault("webkit.enable_developer_extras", defaults.WebKit.EnableDeveloperExtras)
	m.viper.SetDefault("webkit.hardware_acceleration", string(defaults.WebKit.HardwareAcceleration))
	m.viper.SetDefault("webkit.user_agent", defaults.WebKit.UserAgent)

	m.viper.SetDefault("session.auto_restore", defaults.Session.AutoRestore)
	m.viper.SetDefault("session.snapshot_interval_ms", defaults.Session.SnapshotIntervalMs)

	m.viper.SetDefault("logging.level", defaults.Logging.Level)
	m.viper.SetDefault("logging.format", defaults.Logging.Format)

	// Note: database.path is resolved dynamically in Load().
}
