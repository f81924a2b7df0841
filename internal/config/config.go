package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends accepted by WAYFINDER_STORE.
const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

// DefaultFile is the optional YAML file read before the environment.
const DefaultFile = "wayfinder.yaml"

// Config is the runtime configuration of the wayfinder binary.
// Values come from, in increasing priority: defaults, wayfinder.yaml, the environment.
type Config struct {
	Addr     string `yaml:"addr"`
	LogLevel string `yaml:"log_level"`

	Store      string        `yaml:"store"`
	StateDir   string        `yaml:"state_dir"`
	SessionTTL time.Duration `yaml:"session_ttl"`

	Redis RedisConfig `yaml:"redis"`

	// Database is the SQLite DSN for the quiz repository. Empty keeps it in memory.
	Database   string `yaml:"database"`
	ContentDir string `yaml:"content_dir"`

	Feedback FeedbackConfig `yaml:"feedback"`
	Privacy  PrivacyConfig  `yaml:"privacy"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type FeedbackConfig struct {
	APIKey string `yaml:"-"`
	Model  string `yaml:"model"`
}

// PrivacyConfig controls how session state is written at rest.
type PrivacyConfig struct {
	// EncryptionKey is a base64 AES-256 key. Empty disables encryption.
	EncryptionKey string `yaml:"-"`
	// FallbackKeys still decrypt sessions sealed with a previous key.
	FallbackKeys []string `yaml:"-"`
	MaskNames    bool     `yaml:"mask_names"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Store:    StoreMemory,
		StateDir: ".wayfinder/sessions",
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Feedback: FeedbackConfig{
			Model: "claude-3-haiku-20240307",
		},
	}
}

// Load builds the configuration from .env, path (if it exists) and the environment.
// An empty path uses DefaultFile.
func Load(path string) (Config, error) {
	LoadEnv()

	cfg := Default()
	if path == "" {
		path = DefaultFile
	}
	if err := cfg.mergeFile(path); err != nil {
		return cfg, err
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.Addr = GetEnv("WAYFINDER_ADDR", c.Addr)
	c.LogLevel = GetEnv("WAYFINDER_LOG_LEVEL", c.LogLevel)
	c.Store = GetEnv("WAYFINDER_STORE", c.Store)
	c.StateDir = GetEnv("WAYFINDER_STATE_DIR", c.StateDir)
	c.SessionTTL = GetEnvDuration("WAYFINDER_SESSION_TTL", c.SessionTTL)
	c.Redis.Addr = GetEnv("REDIS_ADDR", c.Redis.Addr)
	c.Redis.Password = GetEnv("REDIS_PASSWORD", c.Redis.Password)
	c.Redis.DB = GetEnvInt("REDIS_DB", c.Redis.DB)
	c.Database = GetEnv("WAYFINDER_DB", c.Database)
	c.ContentDir = GetEnv("WAYFINDER_CONTENT_DIR", c.ContentDir)
	c.Feedback.APIKey = GetEnv("ANTHROPIC_API_KEY", c.Feedback.APIKey)
	c.Feedback.Model = GetEnv("WAYFINDER_FEEDBACK_MODEL", c.Feedback.Model)
	c.Privacy.EncryptionKey = GetEnv("WAYFINDER_ENCRYPTION_KEY", c.Privacy.EncryptionKey)
	if fallback := GetEnv("WAYFINDER_ENCRYPTION_FALLBACK_KEYS", ""); fallback != "" {
		c.Privacy.FallbackKeys = nil
		for _, k := range strings.Split(fallback, ",") {
			if k = strings.TrimSpace(k); k != "" {
				c.Privacy.FallbackKeys = append(c.Privacy.FallbackKeys, k)
			}
		}
	}
	c.Privacy.MaskNames = GetEnvBool("WAYFINDER_MASK_NAMES", c.Privacy.MaskNames)
}

// Validate rejects unknown store backends.
func (c Config) Validate() error {
	switch c.Store {
	case StoreMemory, StoreFile, StoreRedis:
		return nil
	}
	return fmt.Errorf("unknown store %q (want memory, file or redis)", c.Store)
}
