package templ

import (
	"github.com/benjaminschreck/go-templ/pkg/templ/model"
)

// Builder fills documents from models by running a pipeline of modules.
//
// Modules keep per-build statistics, so a Builder must not run two builds at
// the same time. Use one Builder per goroutine.
type Builder struct {
	modules  []Module
	config   *Config
	logger   *Logger
	resolver *model.Resolver
	debugger *Debugger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithModules replaces the default pipeline.
func WithModules(modules ...Module) BuilderOption {
	return func(b *Builder) {
		b.modules = modules
	}
}

// WithBuildConfig sets the configuration of the builder.
func WithBuildConfig(config *Config) BuilderOption {
	return func(b *Builder) {
		b.config = config
	}
}

// WithLogger sets the logger that receives module statistics.
func WithLogger(logger *Logger) BuilderOption {
	return func(b *Builder) {
		b.logger = logger
	}
}

// WithDebugger records a snapshot of the document after every module.
func WithDebugger(d *Debugger) BuilderOption {
	return func(b *Builder) {
		b.debugger = d
	}
}

// NewBuilder creates a builder running DefaultModules with the global
// configuration unless options say otherwise.
func NewBuilder(opts ...BuilderOption) (*Builder, error) {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.modules == nil {
		b.modules = DefaultModules()
	}
	if b.config == nil {
		b.config = GetGlobalConfig()
	}
	b.config = NewConfigWithDefaults(b.config)
	if err := b.config.Validate(); err != nil {
		return nil, WithContext(err, "validating configuration", nil)
	}
	if b.logger == nil {
		b.logger = GetLogger()
	}
	var ropts []model.Option
	if b.config.Locale != "" {
		ropts = append(ropts, model.WithLocale(b.config.Locale))
	}
	b.resolver = model.NewResolver(ropts...)
	if b.debugger == nil && b.config.Debug {
		b.debugger = NewDebugger()
	}
	return b, nil
}

// Modules returns the pipeline in build order.
func (b *Builder) Modules() []Module {
	return b.modules
}

// Module returns the module with the given name, or nil.
func (b *Builder) Module(name string) Module {
	for _, m := range b.modules {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// Debugger returns the debugger recording builds, or nil.
func (b *Builder) Debugger() *Debugger {
	return b.debugger
}

// Build runs every module over doc in order and returns doc. The first error
// aborts the build and leaves doc partly built.
func (b *Builder) Build(doc *Document, root any) (*Document, error) {
	for _, m := range b.modules {
		m.Statistics().Reset()
	}
	ctx := &BuildContext{
		Document: doc,
		Model:    root,
		Resolver: b.resolver,
		Config:   b.config,
		Logger:   b.logger,
		builder:  b,
	}
	if b.debugger != nil {
		b.debugger.Reset()
		if err := b.debugger.Capture("initial", doc); err != nil {
			return doc, err
		}
	}

	scope := DocumentScope(doc)
	for i, m := range b.modules {
		ctx.stage = i
		if err := m.Build(ctx, scope); err != nil {
			b.logger.WithField("module", m.Name()).Debug("build failed: %v", err)
			return doc, err
		}
		b.logger.DebugStatistics(m.Name(), m.Statistics())
		if b.debugger != nil {
			if err := b.debugger.Capture(m.Name(), doc); err != nil {
				return doc, err
			}
		}
	}
	if b.debugger != nil {
		b.debugger.Report(b.modules)
	}
	return doc, nil
}

// run is the nested pipeline of a collection expansion. It stops after the
// first n modules: the modules after the expanding one reach the new element
// through the enclosing scope, so each placeholder is substituted once and
// substituted model values are never read as placeholders.
func (b *Builder) run(ctx *BuildContext, s *Scope, n int) error {
	for i, m := range b.modules[:n] {
		ctx.stage = i
		if err := m.Build(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// BuildContext is what modules see of a running build.
type BuildContext struct {
	Document *Document
	Model    any
	Resolver *model.Resolver
	Config   *Config
	Logger   *Logger

	builder *Builder
	depth   int
	// stage is the index of the running module
	stage int
}

// Depth is the number of collection expansions enclosing the current scope.
func (c *BuildContext) Depth() int {
	return c.depth
}

// Get resolves path against the model.
func (c *BuildContext) Get(path string) (*model.Entry, error) {
	return c.Resolver.Get(c.Model, path)
}

// collection resolves path to a collection and returns its keys.
func (c *BuildContext) collection(path string) (*model.Entry, []string, error) {
	e, err := c.Get(path)
	if err != nil {
		return nil, nil, err
	}
	keys, err := e.Keys()
	if err != nil {
		return nil, nil, err
	}
	return e, keys, nil
}

func (c *BuildContext) maxMatches() int {
	if c.Config == nil || c.Config.MaxMatchesPerScope <= 0 {
		return MaxMatchesPerScope
	}
	return c.Config.MaxMatchesPerScope
}

// Build fills doc from root with a builder using the global configuration.
func Build(doc *Document, root any) (*Document, error) {
	b, err := NewBuilder()
	if err != nil {
		return doc, err
	}
	return b.Build(doc, root)
}
