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

// Config holds the filerec API configuration.
type Config struct {
	HTTP        HTTPConfig        `yaml:"http"`
	Database    DatabaseConfig    `yaml:"database"`
	Embedding   EmbeddingConfig   `yaml:"embedding"`
	Recommend   RecommendConfig   `yaml:"recommend"`
	ImageSearch ImageSearchConfig `yaml:"imagesearch"`
	Auth        AuthConfig        `yaml:"auth"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// AuthConfig holds API authentication settings.
type AuthConfig struct {
	APIKeys []string `yaml:"api_keys"`
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// RecommendConfig holds ranking settings.
type RecommendConfig struct {
	TopK          int     `yaml:"top_k"`          // local files returned per request
	MinScore      float64 `yaml:"min_score"`      // similarity post-filter threshold
	HistoryWindow int     `yaml:"history_window"` // recent queries read for preferences
	MinTagLen     int     `yaml:"min_tag_len"`    // tokens must be strictly longer
}

// ImageSearchConfig holds live image search settings.
// Enabled=false is a supported mode: cached results only, no live retrieval.
type ImageSearchConfig struct {
	Enabled           bool   `yaml:"enabled"`
	BaseURL           string `yaml:"base_url"`
	NavTimeoutSec     int    `yaml:"nav_timeout_sec"`
	SettleTimeoutSec  int    `yaml:"settle_timeout_sec"`
	RetryAttempts     int    `yaml:"retry_attempts"` // total attempts, timeouts only
	MaxImages         int    `yaml:"max_images"`
	MaxPreferenceTags int    `yaml:"max_preference_tags"`
	CacheTTLHours     int    `yaml:"cache_ttl_hours"` // 0 = keep forever
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

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Database.ReadinessTimeout <= 0 {
		c.Database.ReadinessTimeout = 10
	}
	if c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 1024
	}
	if c.Recommend.TopK <= 0 {
		c.Recommend.TopK = 5
	}
	if c.Recommend.MinScore <= 0 {
		c.Recommend.MinScore = 0.25
	}
	if c.Recommend.HistoryWindow <= 0 {
		c.Recommend.HistoryWindow = 10
	}
	if c.Recommend.MinTagLen <= 0 {
		c.Recommend.MinTagLen = 2
	}
	if c.ImageSearch.BaseURL == "" {
		c.ImageSearch.BaseURL = "https://www.bing.com/images/search"
	}
	if c.ImageSearch.NavTimeoutSec <= 0 {
		c.ImageSearch.NavTimeoutSec = 10
	}
	if c.ImageSearch.SettleTimeoutSec <= 0 {
		c.ImageSearch.SettleTimeoutSec = 5
	}
	if c.ImageSearch.RetryAttempts <= 0 {
		c.ImageSearch.RetryAttempts = 2
	}
	if c.ImageSearch.MaxImages <= 0 {
		c.ImageSearch.MaxImages = 3
	}
	if c.ImageSearch.MaxPreferenceTags <= 0 {
		c.ImageSearch.MaxPreferenceTags = 3
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if len(c.Database.Addrs) == 0 {
		return fmt.Errorf("database.addrs is required")
	}
	if c.Recommend.MinScore > 1 {
		return fmt.Errorf("recommend.min_score must not exceed 1, got %g", c.Recommend.MinScore)
	}
	if c.ImageSearch.Enabled && !strings.HasPrefix(c.ImageSearch.BaseURL, "http") {
		return fmt.Errorf("imagesearch.base_url must be an http(s) URL, got %q", c.ImageSearch.BaseURL)
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
