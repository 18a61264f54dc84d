package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Default config file path.
const DefaultConfigPath = "~/.config/snufulufugus/config.yaml"

// Config holds all snufulufugus configuration.
type Config struct {
	Engine  EngineConfig  `yaml:"engine"`
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Agent   AgentConfig   `yaml:"agent"`
	Server  ServerConfig  `yaml:"server"`
	Archive ArchiveConfig `yaml:"archive"`
}

type EngineConfig struct {
	TickIntervalMillis   int      `yaml:"tick_interval_ms"`
	SpoofInitDelayMillis int      `yaml:"spoof_init_delay_ms"`
	TargetOriginChance   float64  `yaml:"target_origin_chance"`
	DefaultTargetURL     string   `yaml:"default_target_url"`
	DefaultVPNRegion     string   `yaml:"default_vpn_region"`
	TrackerOrigins       []string `yaml:"tracker_origins"`
}

type StorageConfig struct {
	Backend           string `yaml:"backend"`
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
	RedisAddr         string `yaml:"redis_addr"`
	RedisDB           int    `yaml:"redis_db"`
	RedisKeyPrefix    string `yaml:"redis_key_prefix"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
	Compress   bool   `yaml:"compress"`
}

// AgentConfig holds the defaults for the outbound analysis agent. The
// persisted agent configuration saved from the settings surface takes
// precedence over these values once it exists.
type AgentConfig struct {
	Provider          string `yaml:"provider"`
	Endpoint          string `yaml:"endpoint"`
	APIKey            string `yaml:"api_key"`
	GeminiModel       string `yaml:"gemini_model"`
	GeminiBaseURL     string `yaml:"gemini_base_url"`
	TimeoutSeconds    int    `yaml:"timeout_seconds"`
	RequestsPerMinute int    `yaml:"requests_per_minute"`
}

type ServerConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	MaxRequestSize int    `yaml:"max_request_size"`
}

type ArchiveConfig struct {
	CrawlDelayMillis    int `yaml:"crawl_delay_ms"`
	AnalysisDelayMillis int `yaml:"analysis_delay_ms"`
}

// TickInterval returns the generator cadence.
func (e EngineConfig) TickInterval() time.Duration {
	return time.Duration(e.TickIntervalMillis) * time.Millisecond
}

// SpoofInitDelay returns how long spoofing stays "initializing" after a restart.
func (e EngineConfig) SpoofInitDelay() time.Duration {
	return time.Duration(e.SpoofInitDelayMillis) * time.Millisecond
}

func (a ArchiveConfig) CrawlDelay() time.Duration {
	return time.Duration(a.CrawlDelayMillis) * time.Millisecond
}

func (a ArchiveConfig) AnalysisDelay() time.Duration {
	return time.Duration(a.AnalysisDelayMillis) * time.Millisecond
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read or contains invalid YAML.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Engine.TickIntervalMillis <= 0 {
		return fmt.Errorf("engine.tick_interval_ms must be positive, got %d", c.Engine.TickIntervalMillis)
	}
	if c.Engine.SpoofInitDelayMillis < 0 {
		return fmt.Errorf("engine.spoof_init_delay_ms must not be negative, got %d", c.Engine.SpoofInitDelayMillis)
	}
	if c.Engine.TargetOriginChance < 0 || c.Engine.TargetOriginChance > 1 {
		return fmt.Errorf("engine.target_origin_chance must be within [0,1], got %v", c.Engine.TargetOriginChance)
	}
	if len(c.Engine.TrackerOrigins) == 0 {
		return fmt.Errorf("engine.tracker_origins must not be empty")
	}
	switch c.Storage.Backend {
	case "sqlite", "redis":
	default:
		return fmt.Errorf("storage.backend must be sqlite or redis, got %q", c.Storage.Backend)
	}
	switch c.Agent.Provider {
	case "gemini", "custom":
	default:
		return fmt.Errorf("agent.provider must be gemini or custom, got %q", c.Agent.Provider)
	}
	return nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		return filepath.Join(home, path[1:]), nil
	}
	return path, nil
}

// SQLitePath returns the absolute path of the SQLite database file.
func (c *Config) SQLitePath() (string, error) {
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
