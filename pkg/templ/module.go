package templ

import (
	"fmt"
	"strconv"
	"time"
)

// Unlimited is the MaxFields of a module that accepts any number of fields.
const Unlimited = -1

// Module is one stage of the build pipeline. It handles the placeholders of
// one or more prefixes.
type Module interface {
	Name() string
	Prefixes() []string
	MinFields() int
	MaxFields() int
	// Statistics returns the counters of the module, reset at the start of
	// every build.
	Statistics() *Statistics
	// SetCustomHandler installs a hook that runs on every match that survives
	// the module's own handler.
	SetCustomHandler(CustomHandler)
	Build(ctx *BuildContext, scope *Scope) error
}

// CustomHandler is a caller hook run on the matches of a module after its
// handler. It may edit the document or expire the match.
type CustomHandler func(ctx *BuildContext, m Match) error

// FindFunc locates the matches of one pattern within a scope. It must not
// modify the document.
type FindFunc[T Match] func(ctx *BuildContext, s *Scope, p *Pattern) []T

// HandlerFunc handles one match. It edits the document, marks the match
// expired, or both.
type HandlerFunc[T Match] func(ctx *BuildContext, stats *Statistics, m T) error

// Statistics are the counters of one module.
type Statistics struct {
	// Elapsed is the time spent in top-level runs of the module; nested runs
	// count towards the module that started them.
	Elapsed  time.Duration
	Matches  int
	Removals int
	Custom   map[string]string
}

// Reset zeroes the counters.
func (s *Statistics) Reset() {
	*s = Statistics{}
}

// Set records a module specific value.
func (s *Statistics) Set(key, value string) {
	if s.Custom == nil {
		s.Custom = make(map[string]string)
	}
	s.Custom[key] = value
}

// Add increments a module specific counter.
func (s *Statistics) Add(key string, n int) {
	v, _ := strconv.Atoi(s.Custom[key])
	s.Set(key, strconv.Itoa(v+n))
}

type module[T Match] struct {
	name      string
	prefixes  []string
	patterns  []*Pattern
	minFields int
	maxFields int
	find      FindFunc[T]
	handle    HandlerFunc[T]
	custom    CustomHandler
	stats     Statistics
}

// NewModule creates a pipeline stage. A prefix that contains the field
// separator is a grammar error.
func NewModule[T Match](name string, prefixes []string, minFields, maxFields int, find FindFunc[T], handle HandlerFunc[T]) (Module, error) {
	m := &module[T]{
		name:      name,
		prefixes:  prefixes,
		minFields: minFields,
		maxFields: maxFields,
		find:      find,
		handle:    handle,
	}
	for _, prefix := range prefixes {
		p, err := NewPattern(prefix)
		if err != nil {
			return nil, WithContext(err, "module "+name, nil)
		}
		m.patterns = append(m.patterns, p)
	}
	return m, nil
}

func mustModule[T Match](name string, prefixes []string, minFields, maxFields int, find FindFunc[T], handle HandlerFunc[T]) Module {
	m, err := NewModule(name, prefixes, minFields, maxFields, find, handle)
	if err != nil {
		panic(err)
	}
	return m
}

func (m *module[T]) Name() string                     { return m.name }
func (m *module[T]) Prefixes() []string               { return m.prefixes }
func (m *module[T]) MinFields() int                   { return m.minFields }
func (m *module[T]) MaxFields() int                   { return m.maxFields }
func (m *module[T]) Statistics() *Statistics          { return &m.stats }
func (m *module[T]) SetCustomHandler(h CustomHandler) { m.custom = h }

// Build runs the module over scope. Every phase completes for all matches
// before the next one starts.
func (m *module[T]) Build(ctx *BuildContext, scope *Scope) error {
	if ctx.depth == 0 {
		start := time.Now()
		defer func() { m.stats.Elapsed += time.Since(start) }()
	}

	var matches []T
	for _, p := range m.patterns {
		matches = append(matches, m.find(ctx, scope, p)...)
	}
	m.stats.Matches += len(matches)

	for _, match := range matches {
		if err := m.checkFieldCount(match); err != nil {
			return err
		}
	}

	for _, match := range matches {
		if err := m.handle(ctx, &m.stats, match); err != nil {
			return WithContext(err, "module "+m.name, map[string]interface{}{"placeholder": match.Placeholder()})
		}
	}
	matches = m.removeExpired(matches)

	if m.custom == nil {
		return nil
	}
	for _, match := range matches {
		if err := m.custom(ctx, match); err != nil {
			return WithContext(err, "custom handler of module "+m.name, map[string]interface{}{"placeholder": match.Placeholder()})
		}
	}
	m.removeExpired(matches)
	return nil
}

func (m *module[T]) checkFieldCount(match T) error {
	n := len(match.Fields())
	if n < m.minFields {
		return NewGrammarError(m.name, match.Placeholder(),
			fmt.Sprintf("too few %q-separated fields: got %d, need at least %d", FieldSep, n, m.minFields))
	}
	if m.maxFields != Unlimited && n > m.maxFields {
		return NewGrammarError(m.name, match.Placeholder(),
			fmt.Sprintf("too many %q-separated fields: got %d, allowed at most %d", FieldSep, n, m.maxFields))
	}
	return nil
}

// removeExpired removes the expired matches and returns the ones left.
func (m *module[T]) removeExpired(matches []T) []T {
	var kept []T
	for _, match := range matches {
		if RemoveExpired(match) {
			m.stats.Removals++
			continue
		}
		kept = append(kept, match)
	}
	return kept
}
