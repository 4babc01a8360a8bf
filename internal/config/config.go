// Package config loads the run configuration (.plum/config.json) and the
// rule profile (.plum/profile.toml).
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/viper"

	perrors "plum/internal/errors"
	"plum/internal/paths"
)

// CurrentVersion is the config schema version written by `plum config init`.
const CurrentVersion = 1

// Config represents the complete plum run configuration
type Config struct {
	Version int `json:"version" mapstructure:"version"`

	// Workers bounds the files checked in parallel, 0 means one per CPU
	Workers int `json:"workers" mapstructure:"workers"`

	// Precise enables the tree-sitter function resolver when it is built in
	Precise bool `json:"precise" mapstructure:"precise"`

	// Profile is the rule profile path, relative to the project root
	Profile string `json:"profile" mapstructure:"profile"`

	Logging   LoggingConfig   `json:"logging" mapstructure:"logging"`
	Output    OutputConfig    `json:"output" mapstructure:"output"`
	Discovery DiscoveryConfig `json:"discovery" mapstructure:"discovery"`
	Cache     CacheConfig     `json:"cache" mapstructure:"cache"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `json:"level" mapstructure:"level"`
	Format string `json:"format" mapstructure:"format"`

	// File also writes logs to this path when set
	File       string `json:"file,omitempty" mapstructure:"file"`
	MaxSize    string `json:"maxSize,omitempty" mapstructure:"maxSize"`
	MaxBackups int    `json:"maxBackups,omitempty" mapstructure:"maxBackups"`
}

// OutputConfig selects the report format
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format"`
	Color  bool   `json:"color" mapstructure:"color"`
}

// DiscoveryConfig controls which files a directory walk yields
type DiscoveryConfig struct {
	IgnoredDirs   []string `json:"ignoredDirs" mapstructure:"ignoredDirs"`
	UseGitignore  bool     `json:"useGitignore" mapstructure:"useGitignore"`
	UsePlumignore bool     `json:"usePlumignore" mapstructure:"usePlumignore"`

	// Include restricts discovery to files matching one of these patterns
	Include []string `json:"include" mapstructure:"include"`
}

// CacheConfig contains result cache configuration
type CacheConfig struct {
	Enabled bool   `json:"enabled" mapstructure:"enabled"`
	Path    string `json:"path" mapstructure:"path"`
}

var (
	logLevels     = []string{"debug", "info", "warn", "error"}
	logFormats    = []string{"human", "json"}
	outputFormats = []string{"human", "json", "yaml", "sarif"}
)

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Version: CurrentVersion,
		Workers: 0,
		Precise: true,
		Profile: paths.DirName + "/" + paths.ProfileFile,
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "human",
		},
		Output: OutputConfig{
			Format: "human",
			Color:  true,
		},
		Discovery: DiscoveryConfig{
			IgnoredDirs:   []string{"tests", "bonus", ".git"},
			UseGitignore:  true,
			UsePlumignore: true,
			Include:       []string{},
		},
		Cache: CacheConfig{
			Enabled: false,
			Path:    paths.DirName + "/" + paths.CacheFile,
		},
	}
}

// EffectiveWorkers resolves Workers, 0 meaning one per CPU.
func (c *Config) EffectiveWorkers() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.NumCPU()
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("version", cfg.Version)
	v.SetDefault("workers", cfg.Workers)
	v.SetDefault("precise", cfg.Precise)
	v.SetDefault("profile", cfg.Profile)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.maxSize", cfg.Logging.MaxSize)
	v.SetDefault("logging.maxBackups", cfg.Logging.MaxBackups)
	v.SetDefault("output.format", cfg.Output.Format)
	v.SetDefault("output.color", cfg.Output.Color)
	v.SetDefault("discovery.ignoredDirs", cfg.Discovery.IgnoredDirs)
	v.SetDefault("discovery.useGitignore", cfg.Discovery.UseGitignore)
	v.SetDefault("discovery.usePlumignore", cfg.Discovery.UsePlumignore)
	v.SetDefault("discovery.include", cfg.Discovery.Include)
	v.SetDefault("cache.enabled", cfg.Cache.Enabled)
	v.SetDefault("cache.path", cfg.Cache.Path)
}

// LoadConfig loads .plum/config.json under root. A missing file yields the
// defaults. PLUM_* environment variables override both, for example
// PLUM_WORKERS or PLUM_LOG_LEVEL.
func LoadConfig(root string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(paths.Dir(root))

	v.SetEnvPrefix("PLUM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("logging.level", "PLUM_LOG_LEVEL"); err != nil {
		return nil, perrors.New(perrors.InternalError, "bind environment", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, perrors.New(perrors.ConfigInvalid, "cannot read "+paths.ConfigPath(root), err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, perrors.New(perrors.ConfigInvalid, "cannot decode configuration", err)
	}
	return &cfg, nil
}

// Save writes the configuration to .plum/config.json
func (c *Config) Save(root string) error {
	if _, err := paths.EnsureDir(root); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(paths.ConfigPath(root), append(data, '\n'), 0644)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return &ConfigError{Field: "version", Message: fmt.Sprintf("unsupported config version %d", c.Version)}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Message: "must not be negative"}
	}
	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return &ConfigError{Field: "logging.level", Message: "must be one of " + strings.Join(logLevels, ", ")}
	}
	if !slices.Contains(logFormats, c.Logging.Format) {
		return &ConfigError{Field: "logging.format", Message: "must be one of " + strings.Join(logFormats, ", ")}
	}
	if !slices.Contains(outputFormats, c.Output.Format) {
		return &ConfigError{Field: "output.format", Message: "must be one of " + strings.Join(outputFormats, ", ")}
	}
	if c.Cache.Enabled && c.Cache.Path == "" {
		return &ConfigError{Field: "cache.path", Message: "required when the cache is enabled"}
	}
	return nil
}

// OutputFormats lists the accepted report formats.
func OutputFormats() []string {
	return slices.Clone(outputFormats)
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field '" + e.Field + "': " + e.Message
}
