// Package config provides configuration management for guidectx.
// It supports a YAML configuration file, environment variables, and
// sensible defaults.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bpod/frontend-context-guidelines/internal/util"
)

// Config represents the complete guidectx configuration.
type Config struct {
	// Registry configures document loading.
	Registry RegistryConfig `yaml:"registry"`

	// Cache configures the parsed-document cache.
	Cache CacheConfig `yaml:"cache"`

	// Output configures display preferences.
	Output OutputConfig `yaml:"output"`
}

// RegistryConfig holds document loading settings.
type RegistryConfig struct {
	// Roots is an ordered list of instruction root directories
	// (project first, then user). Paths may use ~ or be relative
	// (resolved from the working directory).
	Roots []string `yaml:"roots"`
	// SkipMalformed loads past malformed documents, recording each skip,
	// instead of failing the load.
	SkipMalformed bool `yaml:"skip_malformed"`
	// Watch enables hot reloading of the registry while running.
	Watch bool `yaml:"watch"`
}

// CacheConfig holds document cache settings.
type CacheConfig struct {
	// Enabled enables or disables caching.
	Enabled bool `yaml:"enabled"`
	// TTL is the time-to-live for cache entries.
	TTL time.Duration `yaml:"ttl"`
	// Location is the cache directory path.
	Location string `yaml:"location"`
}

// OutputConfig holds display preferences.
type OutputConfig struct {
	// Format is the default output format (table, json).
	Format string `yaml:"format"`
	// Color controls color output (auto, always, never).
	Color string `yaml:"color"`
	// Verbose enables verbose output.
	Verbose bool `yaml:"verbose"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Registry: RegistryConfig{
			Roots: []string{
				".github/instructions",     // Project (relative)
				"~/.guidectx/instructions", // User
			},
		},
		Cache: CacheConfig{
			Enabled:  true,
			TTL:      time.Hour,
			Location: util.CachePath(),
		},
		Output: OutputConfig{
			Format: "table",
			Color:  "auto",
		},
	}
}

// configFileName is the name of the config file.
const configFileName = "config.yaml"

// FilePath returns the path to the config file.
func FilePath() string {
	return filepath.Join(util.ConfigPath(), configFileName)
}

// Load loads the configuration from file, merging with defaults.
// If the config file doesn't exist, returns default configuration.
func Load() (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is constructed from the trusted config directory
	data, err := os.ReadFile(FilePath())
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvironment()
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// LoadFromPath loads configuration from a specific path.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()

	// #nosec G304 - path is provided by caller
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	cfg.applyEnvironment()
	return cfg, nil
}

// Save writes the configuration to the config file.
func (c *Config) Save() error {
	return c.SaveToPath(FilePath())
}

// SaveToPath writes the configuration to a specific path.
func (c *Config) SaveToPath(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	// #nosec G306 - config file should be readable by user
	return os.WriteFile(path, data, 0o644)
}

// applyEnvironment applies environment variable overrides.
// Variables follow the pattern GUIDECTX_<SECTION>_<KEY>.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("GUIDECTX_ROOTS"); v != "" {
		c.Registry.Roots = splitPaths(v)
	}
	if v := os.Getenv("GUIDECTX_SKIP_MALFORMED"); v != "" {
		c.Registry.SkipMalformed = parseBool(v)
	}
	if v := os.Getenv("GUIDECTX_WATCH"); v != "" {
		c.Registry.Watch = parseBool(v)
	}

	if v := os.Getenv("GUIDECTX_CACHE_ENABLED"); v != "" {
		c.Cache.Enabled = parseBool(v)
	}
	if v := os.Getenv("GUIDECTX_CACHE_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Cache.TTL = d
		}
	}
	if v := os.Getenv("GUIDECTX_CACHE_LOCATION"); v != "" {
		c.Cache.Location = v
	}

	if v := os.Getenv("GUIDECTX_OUTPUT_FORMAT"); v != "" {
		c.Output.Format = v
	}
	if v := os.Getenv("GUIDECTX_OUTPUT_COLOR"); v != "" {
		c.Output.Color = v
	}
	if v := os.Getenv("GUIDECTX_OUTPUT_VERBOSE"); v != "" {
		c.Output.Verbose = parseBool(v)
	}
}

// InstructionRoots returns the configured roots, expanded and in order.
// baseDir resolves relative entries.
func (c *Config) InstructionRoots(baseDir string) []string {
	return util.ExpandPaths(c.Registry.Roots, baseDir)
}

// Exists returns true if a config file exists.
func Exists() bool {
	_, err := os.Stat(FilePath())
	return err == nil
}

// parseBool parses a boolean from common string representations.
func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}

// splitPaths splits a colon-separated path list, dropping empty segments.
func splitPaths(s string) []string {
	parts := strings.Split(s, ":")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			result = append(result, p)
		}
	}
	return result
}
