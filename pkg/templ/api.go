package templ

import (
	"io"
	"os"
	"time"
)

// Engine loads templates through a cache and builds them with its
// configuration. It is safe for concurrent use; every build gets its own
// Builder.
type Engine struct {
	config *Config
	cache  *TemplateCache
	logger *Logger
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	config = NewConfigWithDefaults(config)
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		e.config = NewConfigWithDefaults(config)
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
	}
}

// WithEngineLogger returns an option that sets the logger of every build.
func WithEngineLogger(logger *Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewWithOptions creates a new engine with the specified options.
func NewWithOptions(opts ...Option) *Engine {
	e := &Engine{config: GetGlobalConfig()}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: e.config.CacheMaxSize,
		TTL:     e.config.CacheTTL,
	})
	return e
}

// LoadFile opens a template. The file is read once and served from the cache
// afterwards when caching is enabled.
func (e *Engine) LoadFile(path string) (*Document, error) {
	data, err := e.cache.Load(path, func() ([]byte, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, NewDocumentError("read", path, err)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// Load opens a template from r.
func (e *Engine) Load(r io.Reader) (*Document, error) {
	return Load(r)
}

// NewBuilder creates a builder with the engine configuration.
func (e *Engine) NewBuilder(opts ...BuilderOption) (*Builder, error) {
	base := []BuilderOption{WithBuildConfig(e.config)}
	if e.logger != nil {
		base = append(base, WithLogger(e.logger))
	}
	return NewBuilder(append(base, opts...)...)
}

// Build fills doc from root.
func (e *Engine) Build(doc *Document, root any) (*Document, error) {
	b, err := e.NewBuilder()
	if err != nil {
		return doc, err
	}
	return b.Build(doc, root)
}

// BuildFile opens the template at path and fills it from root.
func (e *Engine) BuildFile(path string, root any) (*Document, error) {
	doc, err := e.LoadFile(path)
	if err != nil {
		return nil, err
	}
	return e.Build(doc, root)
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	e.cache.Clear()
}

// Close releases any resources held by the engine.
func (e *Engine) Close() error {
	return e.cache.Close()
}

// DefaultEngine is the engine behind the package-level functions.
var DefaultEngine = New()

// BuildFile opens the template at path and fills it from root using the
// default engine.
func BuildFile(path string, root any) (*Document, error) {
	return DefaultEngine.BuildFile(path, root)
}

// ClearCache clears the template cache of the default engine.
func ClearCache() {
	DefaultEngine.ClearCache()
}

// SetCacheConfig updates the global cache configuration and replaces the
// default engine so that it takes effect.
func SetCacheConfig(maxSize int, ttl time.Duration) {
	config := GetGlobalConfig()
	config.CacheMaxSize = maxSize
	config.CacheTTL = ttl
	SetGlobalConfig(config)
	DefaultEngine = New()
}
