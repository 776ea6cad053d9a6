package docmerge

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// EnvPrefix prefixes every environment variable read by ConfigFromEnvironment.
const EnvPrefix = "DOCMERGE_"

// Config contains all configuration options for the merge engine
type Config struct {
	// CacheMaxSize is the maximum number of scanned templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached scans. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel is one of debug, info, warn, error or off
	LogLevel string
	// LogFormat selects text or json log records
	LogFormat string
	// CoalesceRuns repairs directives split across DOCX runs before scanning
	CoalesceRuns bool
}

// envSetting binds one environment variable to a Config field. apply
// reports false when the value cannot be used, leaving the field as it was.
type envSetting struct {
	name  string
	apply func(c *Config, value string) bool
}

var envSettings = []envSetting{
	{"CACHE_MAX_SIZE", func(c *Config, v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		c.CacheMaxSize = n
		return true
	}},
	{"CACHE_TTL", func(c *Config, v string) bool {
		d, err := time.ParseDuration(v)
		if err != nil {
			return false
		}
		c.CacheTTL = d
		return true
	}},
	{"LOG_LEVEL", func(c *Config, v string) bool {
		c.LogLevel = strings.ToLower(v)
		return true
	}},
	{"LOG_FORMAT", func(c *Config, v string) bool {
		c.LogFormat = strings.ToLower(v)
		return true
	}},
	{"COALESCE_RUNS", func(c *Config, v string) bool {
		c.CoalesceRuns = parseBool(v)
		return true
	}},
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
)

func init() {
	globalConfig = ConfigFromEnvironment()
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize: 100,
		LogLevel:     "info",
		LogFormat:    "text",
		CoalesceRuns: true,
	}
}

// ConfigFromEnvironment starts from DefaultConfig and applies every
// DOCMERGE_* variable that is set. Unparseable values are ignored.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	for _, s := range envSettings {
		val := os.Getenv(EnvPrefix + s.name)
		if val == "" {
			continue
		}
		s.apply(config, val)
	}
	return config
}

// NewConfigWithDefaults copies overrides and fills empty string fields from
// DefaultConfig. Numeric and boolean fields are taken as given.
func NewConfigWithDefaults(overrides *Config) *Config {
	if overrides == nil {
		return DefaultConfig()
	}

	config := *overrides
	defaults := DefaultConfig()
	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}
	if config.LogFormat == "" {
		config.LogFormat = defaults.LogFormat
	}
	return &config
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch {
	case c.CacheMaxSize < 0:
		return fmt.Errorf("cache max size cannot be negative: %d", c.CacheMaxSize)
	case c.CacheTTL < 0:
		return fmt.Errorf("cache TTL cannot be negative: %v", c.CacheTTL)
	}

	if _, ok := logLevelNames[c.LogLevel]; !ok {
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	if _, ok := logFormatNames[c.LogFormat]; !ok {
		return fmt.Errorf("invalid log format: %q", c.LogFormat)
	}
	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}
	c := *globalConfig
	return &c
}

// SetGlobalConfig replaces the global configuration and applies its log
// level to the global logger.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "yes", "on":
		return true
	default:
		return false
	}
}
