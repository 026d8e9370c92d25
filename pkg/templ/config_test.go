package templ

import (
	"os"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config.CacheMaxSize != 100 {
		t.Errorf("Expected CacheMaxSize to be 100, got %d", config.CacheMaxSize)
	}
	if config.CacheTTL != 0 {
		t.Errorf("Expected CacheTTL to be 0, got %v", config.CacheTTL)
	}
	if config.LogLevel != "info" {
		t.Errorf("Expected LogLevel to be 'info', got %s", config.LogLevel)
	}
	if config.MaxDepth != 32 {
		t.Errorf("Expected MaxDepth to be 32, got %d", config.MaxDepth)
	}
	if config.MaxMatchesPerScope != MaxMatchesPerScope {
		t.Errorf("Expected MaxMatchesPerScope to be %d, got %d", MaxMatchesPerScope, config.MaxMatchesPerScope)
	}
	if config.Debug {
		t.Error("Expected Debug to be false")
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Default config should be valid, got %v", err)
	}
}

func TestConfigFromEnvironment(t *testing.T) {
	envNames := []string{
		"TEMPL_CACHE_MAX_SIZE",
		"TEMPL_CACHE_TTL",
		"TEMPL_LOG_LEVEL",
		"TEMPL_MAX_DEPTH",
		"TEMPL_MAX_MATCHES",
		"TEMPL_LOCALE",
		"TEMPL_DEBUG",
	}
	saved := make(map[string]string)
	for _, name := range envNames {
		if v, ok := os.LookupEnv(name); ok {
			saved[name] = v
		}
	}
	defer func() {
		for _, name := range envNames {
			os.Unsetenv(name)
			if v, ok := saved[name]; ok {
				os.Setenv(name, v)
			}
		}
	}()

	tests := []struct {
		name    string
		envVars map[string]string
		check   func(t *testing.T, c *Config)
	}{
		{
			name:    "cache settings",
			envVars: map[string]string{"TEMPL_CACHE_MAX_SIZE": "50", "TEMPL_CACHE_TTL": "5m"},
			check: func(t *testing.T, c *Config) {
				if c.CacheMaxSize != 50 {
					t.Errorf("Expected CacheMaxSize 50, got %d", c.CacheMaxSize)
				}
				if c.CacheTTL != 5*time.Minute {
					t.Errorf("Expected CacheTTL 5m, got %v", c.CacheTTL)
				}
			},
		},
		{
			name:    "limits",
			envVars: map[string]string{"TEMPL_MAX_DEPTH": "4", "TEMPL_MAX_MATCHES": "10"},
			check: func(t *testing.T, c *Config) {
				if c.MaxDepth != 4 {
					t.Errorf("Expected MaxDepth 4, got %d", c.MaxDepth)
				}
				if c.MaxMatchesPerScope != 10 {
					t.Errorf("Expected MaxMatchesPerScope 10, got %d", c.MaxMatchesPerScope)
				}
			},
		},
		{
			name:    "locale and debug",
			envVars: map[string]string{"TEMPL_LOCALE": "de-CH", "TEMPL_DEBUG": "yes", "TEMPL_LOG_LEVEL": "debug"},
			check: func(t *testing.T, c *Config) {
				if c.Locale != "de-CH" {
					t.Errorf("Expected Locale de-CH, got %s", c.Locale)
				}
				if !c.Debug {
					t.Error("Expected Debug to be true")
				}
				if c.LogLevel != "debug" {
					t.Errorf("Expected LogLevel debug, got %s", c.LogLevel)
				}
			},
		},
		{
			name:    "invalid values fall back to defaults",
			envVars: map[string]string{"TEMPL_CACHE_MAX_SIZE": "many", "TEMPL_CACHE_TTL": "soon", "TEMPL_MAX_DEPTH": "deep"},
			check: func(t *testing.T, c *Config) {
				if c.CacheMaxSize != 100 {
					t.Errorf("Expected CacheMaxSize 100, got %d", c.CacheMaxSize)
				}
				if c.CacheTTL != 0 {
					t.Errorf("Expected CacheTTL 0, got %v", c.CacheTTL)
				}
				if c.MaxDepth != 32 {
					t.Errorf("Expected MaxDepth 32, got %d", c.MaxDepth)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, name := range envNames {
				os.Unsetenv(name)
			}
			for k, v := range tt.envVars {
				os.Setenv(k, v)
			}
			tt.check(t, ConfigFromEnvironment())
		})
	}
}

func TestNewConfigWithDefaults(t *testing.T) {
	if config := NewConfigWithDefaults(nil); config.MaxDepth != 32 {
		t.Errorf("Expected defaults for nil overrides, got %+v", config)
	}

	config := NewConfigWithDefaults(&Config{CacheMaxSize: 7, Locale: "fr"})
	if config.CacheMaxSize != 7 || config.Locale != "fr" {
		t.Errorf("Overrides were lost: %+v", config)
	}
	if config.LogLevel != "info" || config.MaxDepth != 32 || config.MaxMatchesPerScope != MaxMatchesPerScope {
		t.Errorf("Unset fields were not defaulted: %+v", config)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		config *Config
		valid  bool
	}{
		{"default", DefaultConfig(), true},
		{"negative cache size", &Config{CacheMaxSize: -1, LogLevel: "info", MaxDepth: 1, MaxMatchesPerScope: 1}, false},
		{"negative ttl", &Config{CacheTTL: -time.Second, LogLevel: "info", MaxDepth: 1, MaxMatchesPerScope: 1}, false},
		{"bad log level", &Config{LogLevel: "loud", MaxDepth: 1, MaxMatchesPerScope: 1}, false},
		{"zero depth", &Config{LogLevel: "off", MaxMatchesPerScope: 1}, false},
		{"zero matches", &Config{LogLevel: "off", MaxDepth: 1}, false},
		{"minimal", &Config{LogLevel: "off", MaxDepth: 1, MaxMatchesPerScope: 1}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.valid && err != nil {
				t.Errorf("Expected valid config, got error: %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("Expected invalid config, got no error")
			}
		})
	}
}

func TestGlobalConfig(t *testing.T) {
	original := GetGlobalConfig()
	defer SetGlobalConfig(original)

	custom := DefaultConfig()
	custom.MaxDepth = 3
	custom.LogLevel = "off"
	SetGlobalConfig(custom)

	got := GetGlobalConfig()
	if got.MaxDepth != 3 {
		t.Errorf("Expected MaxDepth 3, got %d", got.MaxDepth)
	}
	// the returned value is a copy
	got.MaxDepth = 9
	if GetGlobalConfig().MaxDepth != 3 {
		t.Error("Mutating the returned config changed the global config")
	}
}
