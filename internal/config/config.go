// Package config loads the mentor API configuration from YAML files with
// environment-variable expansion.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the mentor API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Ledger    LedgerConfig    `yaml:"ledger"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Chat      ChatConfig      `yaml:"chat"`
	Recommend RecommendConfig `yaml:"recommend"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// LedgerConfig holds interaction-ledger storage settings.
type LedgerConfig struct {
	Driver           string   `yaml:"driver"` // redis, sqlite (default: sqlite)
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	Path             string   `yaml:"path"` // sqlite database file
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// CorpusConfig holds the knowledge-base and material catalog locations.
type CorpusConfig struct {
	KBPath        string `yaml:"kb_path"`
	MaterialsPath string `yaml:"materials_path"`
}

// ChatConfig holds answer-resolution settings.
type ChatConfig struct {
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
}

// RecommendConfig holds recommendation settings.
type RecommendConfig struct {
	DefaultNum int `yaml:"default_num"`
	MaxNum     int `yaml:"max_num"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port <= 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Ledger.Driver == "" {
		c.Ledger.Driver = "sqlite"
	}
	if c.Ledger.Path == "" {
		c.Ledger.Path = "mentor.db"
	}
	if c.Ledger.ReadinessTimeout <= 0 {
		c.Ledger.ReadinessTimeout = 10
	}
	if c.Corpus.KBPath == "" {
		c.Corpus.KBPath = "kb.json"
	}
	if c.Corpus.MaterialsPath == "" {
		c.Corpus.MaterialsPath = "materials.json"
	}
	if c.Chat.SimilarityThreshold <= 0 {
		c.Chat.SimilarityThreshold = 0.35
	}
	if c.Recommend.DefaultNum <= 0 {
		c.Recommend.DefaultNum = 5
	}
	if c.Recommend.MaxNum <= 0 {
		c.Recommend.MaxNum = 50
	}
	if c.Storage.KeyPrefix == "" {
		c.Storage.KeyPrefix = "mentor:"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	switch c.Ledger.Driver {
	case "redis":
		if len(c.Ledger.Addrs) == 0 {
			return fmt.Errorf("ledger.addrs is required for the redis driver")
		}
	case "sqlite":
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("ledger.driver must be \"redis\" or \"sqlite\", got %q", c.Ledger.Driver)
	}
	if c.Chat.SimilarityThreshold > 1 {
		return fmt.Errorf("chat.similarity_threshold must be in (0, 1], got %f", c.Chat.SimilarityThreshold)
	}
	if c.Recommend.MaxNum < c.Recommend.DefaultNum {
		return fmt.Errorf("recommend.max_num (%d) must be >= recommend.default_num (%d)",
			c.Recommend.MaxNum, c.Recommend.DefaultNum)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
