package templ

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Config holds the settings shared by builders and engines. The zero value of
// a field means "use the default" wherever NewConfigWithDefaults is applied.
type Config struct {
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string
	// MaxDepth bounds the nesting of collection expansions
	MaxDepth int
	// MaxMatchesPerScope caps the matches taken from one paragraph, section or table
	MaxMatchesPerScope int
	// Locale is a BCP 47 tag used when formatting model values, e.g. "de-CH"
	Locale string
	// Debug captures a snapshot of the document after every module
	Debug bool
}

var (
	// initialised in the declaration so that package level engines see it
	globalConfig      = ConfigFromEnvironment()
	globalConfigMutex sync.RWMutex
)

func DefaultConfig() *Config {
	return &Config{
		CacheMaxSize:       100,
		CacheTTL:           0,
		LogLevel:           "info",
		MaxDepth:           32,
		MaxMatchesPerScope: MaxMatchesPerScope,
		Locale:             "",
		Debug:              false,
	}
}

// envBindings maps the TEMPL_* environment variables onto Config fields. A
// value that does not parse leaves the field unchanged.
var envBindings = []struct {
	name string
	set  func(c *Config, val string) error
}{
	{"TEMPL_CACHE_MAX_SIZE", func(c *Config, val string) (err error) {
		c.CacheMaxSize, err = parseInt(val, c.CacheMaxSize)
		return err
	}},
	{"TEMPL_CACHE_TTL", func(c *Config, val string) error {
		d, err := time.ParseDuration(val)
		if err == nil {
			c.CacheTTL = d
		}
		return err
	}},
	{"TEMPL_LOG_LEVEL", func(c *Config, val string) error {
		c.LogLevel = strings.ToLower(val)
		return nil
	}},
	{"TEMPL_MAX_DEPTH", func(c *Config, val string) (err error) {
		c.MaxDepth, err = parseInt(val, c.MaxDepth)
		return err
	}},
	{"TEMPL_MAX_MATCHES", func(c *Config, val string) (err error) {
		c.MaxMatchesPerScope, err = parseInt(val, c.MaxMatchesPerScope)
		return err
	}},
	{"TEMPL_LOCALE", func(c *Config, val string) error {
		c.Locale = val
		return nil
	}},
	{"TEMPL_DEBUG", func(c *Config, val string) error {
		c.Debug = parseBool(val)
		return nil
	}},
}

// ConfigFromEnvironment returns the defaults overridden by the TEMPL_*
// environment variables that are set.
func ConfigFromEnvironment() *Config {
	config := DefaultConfig()
	for _, b := range envBindings {
		if val := os.Getenv(b.name); val != "" {
			// a malformed value keeps the default
			_ = b.set(config, val)
		}
	}
	return config
}

func parseInt(s string, fallback int) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fallback, err
	}
	return n, nil
}

// NewConfigWithDefaults copies overrides and fills its unset fields.
func NewConfigWithDefaults(overrides *Config) *Config {
	defaults := DefaultConfig()

	if overrides == nil {
		return defaults
	}

	config := *overrides

	if config.LogLevel == "" {
		config.LogLevel = defaults.LogLevel
	}

	if config.MaxDepth == 0 {
		config.MaxDepth = defaults.MaxDepth
	}

	if config.MaxMatchesPerScope == 0 {
		config.MaxMatchesPerScope = defaults.MaxMatchesPerScope
	}

	return &config
}

func (c *Config) Validate() error {
	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	if level := parseLogLevel(c.LogLevel); !strings.EqualFold(level.String(), c.LogLevel) {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.MaxDepth <= 0 {
		return errors.New("max depth must be positive")
	}

	if c.MaxMatchesPerScope <= 0 {
		return errors.New("max matches per scope must be positive")
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration.
func GetGlobalConfig() *Config {
	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig replaces the global configuration and updates the level of
// the global logger.
func SetGlobalConfig(config *Config) {
	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}

func parseBool(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "1" || s == "yes" || s == "on"
}
