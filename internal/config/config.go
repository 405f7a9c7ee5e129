package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/reviewlens/internal/domain"
)

// Config holds the reviewlens service configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Discovery DiscoveryConfig `yaml:"discovery"`
	Cache     CacheConfig     `yaml:"cache"`
	Usage     UsageConfig     `yaml:"usage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// DiscoveryConfig holds the upstream search service settings.
type DiscoveryConfig struct {
	BaseURL       string   `yaml:"base_url"`
	APIKey        string   `yaml:"api_key"`
	VersionDate   string   `yaml:"version_date"`
	APIVersion    string   `yaml:"api_version"` // v1, v2 (default: v1)
	EnvironmentID string   `yaml:"environment_id"`
	CollectionID  string   `yaml:"collection_id"`
	ProjectID     string   `yaml:"project_id"`
	CollectionIDs []string `yaml:"collection_ids"`
	TimeoutSec    int      `yaml:"timeout_sec"`
}

// CacheConfig holds the response cache settings. The cache is optional.
type CacheConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Addrs     []string `yaml:"addrs"`
	Password  string   `yaml:"password"`
	TTLSec    int      `yaml:"ttl_sec"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// UsageConfig holds the local monthly query budget. Zero limit disables it.
type UsageConfig struct {
	MonthlyLimit int64  `yaml:"monthly_limit"`
	LimitAction  string `yaml:"limit_action"` // warn, reject (default: warn)
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	return Parse(data)
}

// Parse decodes configuration bytes, expanding ${VAR} references and
// applying defaults before validation.
func Parse(data []byte) (Config, error) {
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
	if c.Discovery.BaseURL == "" {
		c.Discovery.BaseURL = "https://api.us-south.discovery.watson.cloud.ibm.com"
	}
	c.Discovery.BaseURL = strings.TrimRight(c.Discovery.BaseURL, "/")
	if c.Discovery.VersionDate == "" {
		c.Discovery.VersionDate = "2020-11-11"
	}
	if c.Discovery.APIVersion == "" {
		c.Discovery.APIVersion = string(domain.V1)
	}
	if c.Discovery.TimeoutSec <= 0 {
		c.Discovery.TimeoutSec = 20
	}
	if c.Cache.TTLSec <= 0 {
		c.Cache.TTLSec = 300
	}
	if c.Cache.KeyPrefix == "" {
		c.Cache.KeyPrefix = "reviewlens:"
	}
	if c.Usage.LimitAction == "" {
		c.Usage.LimitAction = "warn"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Discovery.APIKey == "" {
		return fmt.Errorf("discovery.api_key is required")
	}
	if _, err := c.Discovery.Target(); err != nil {
		return fmt.Errorf("discovery: %w", err)
	}
	if c.Cache.Enabled && len(c.Cache.Addrs) == 0 {
		return fmt.Errorf("cache.addrs is required when cache is enabled")
	}
	if c.Usage.MonthlyLimit < 0 {
		return fmt.Errorf("usage.monthly_limit must be >= 0, got %d", c.Usage.MonthlyLimit)
	}
	if a := c.Usage.LimitAction; a != "warn" && a != "reject" {
		return fmt.Errorf("usage.limit_action must be \"warn\" or \"reject\", got %q", a)
	}
	return nil
}

// Target builds the upstream identifiers for the configured API version.
func (d DiscoveryConfig) Target() (domain.Target, error) {
	switch domain.APIVersion(d.APIVersion) {
	case domain.V1:
		return domain.NewV1Target(d.EnvironmentID, d.CollectionID)
	case domain.V2:
		return domain.NewV2Target(d.ProjectID, d.CollectionIDs)
	default:
		return domain.Target{}, fmt.Errorf("api_version must be \"v1\" or \"v2\", got %q", d.APIVersion)
	}
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
