package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"listgrip/internal/eventbus"
)

// Defaults for the search settings
const (
	DefaultBatchSize  = 20
	DefaultDebounceMs = 500
	DefaultCooldownMs = 1000
)

// Config represents the application configuration
type Config struct {
	Version      int            `toml:"version"`
	DatabasePath string         `toml:"database_path"`
	LastKind     string         `toml:"last_kind"` // last selected kind filter
	Search       SearchSettings `toml:"search"`
	UI           UISettings     `toml:"ui"`
}

// SearchSettings controls the paginated search controller
type SearchSettings struct {
	BatchSize  int `toml:"batch_size"`
	DebounceMs int `toml:"debounce_ms"`
	CooldownMs int `toml:"cooldown_ms"`
}

// UISettings represents UI-related configuration
type UISettings struct {
	ShowKindBadges bool `toml:"show_kind_badges"`
	AutosaveOnExit bool `toml:"autosave_on_exit"`
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// NewConfigService creates a new config service
func NewConfigService() ConfigService {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}

	// Create listgrip config directory
	listgripDir := filepath.Join(configDir, "listgrip")
	os.MkdirAll(listgripDir, 0755)

	return &configService{
		filePath: filepath.Join(listgripDir, "config.toml"),
	}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(bus eventbus.EventBus) ConfigService {
	cs := NewConfigService().(*configService)
	cs.bus = bus
	return cs
}

// Load loads the configuration from file
func (cs *configService) Load() (*Config, error) {
	// Return default config if file doesn't exist
	if _, err := os.Stat(cs.filePath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		cs.publishLoaded(cfg)
		return cfg, nil
	}

	cfg, err := cs.LoadFromPath(cs.filePath)
	if err != nil {
		return nil, err
	}

	cs.publishLoaded(cfg)
	return cfg, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.normalize()
	return &cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	// Ensure config directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

func (cs *configService) publishLoaded(cfg *Config) {
	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{
			Path:         cs.filePath,
			DatabasePath: cfg.DatabasePath,
		})
	}
}

// normalize replaces unusable values with defaults so a hand-edited config
// cannot leave the controller without a valid batch size or timers
func (c *Config) normalize() {
	if c.Search.BatchSize <= 0 {
		c.Search.BatchSize = DefaultBatchSize
	}
	if c.Search.DebounceMs <= 0 {
		c.Search.DebounceMs = DefaultDebounceMs
	}
	if c.Search.CooldownMs <= 0 {
		c.Search.CooldownMs = DefaultCooldownMs
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dataDir, err := os.UserConfigDir()
	if err != nil {
		dataDir = "."
	}

	return &Config{
		Version:      1,
		DatabasePath: filepath.Join(dataDir, "listgrip", "catalog.db"),
		Search: SearchSettings{
			BatchSize:  DefaultBatchSize,
			DebounceMs: DefaultDebounceMs,
			CooldownMs: DefaultCooldownMs,
		},
		UI: UISettings{
			ShowKindBadges: true,
			AutosaveOnExit: true,
		},
	}
}
