package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/zclconf/go-cty/cty"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Entry is the value found at a path within a model, together with the member
// it was read from.
type Entry struct {
	Model  any
	Path   string
	Member *Member
	Value  any

	printer *message.Printer
}

// Exists reports whether the entry was read from a member and holds a value.
func (e *Entry) Exists() bool {
	return e.Member != nil && !isNil(e.Value)
}

// Name returns the last dot-separated segment of the path.
func (e *Entry) Name() string {
	if i := strings.LastIndex(e.Path, "."); i >= 0 {
		return e.Path[i+1:]
	}
	return e.Path
}

// Type returns a printable name for the dynamic type of the value.
func (e *Entry) Type() string {
	if v, ok := e.Value.(cty.Value); ok {
		return v.Type().FriendlyName()
	}
	return fmt.Sprintf("%T", e.Value)
}

// As narrows the entry value to T.
func As[T any](e *Entry) (T, error) {
	if v, ok := e.Value.(T); ok {
		return v, nil
	}
	var zero T
	return zero, &TypeError{Path: e.Path, Want: reflect.TypeOf(&zero).Elem().String(), Got: e.Type()}
}

// Bool returns the value as a boolean flag.
func (e *Entry) Bool() (bool, error) {
	switch v := e.Value.(type) {
	case bool:
		return v, nil
	case *bool:
		if v != nil {
			return *v, nil
		}
	case cty.Value:
		if v.Type() == cty.Bool && v.IsKnown() && !v.IsNull() {
			return v.True(), nil
		}
	}
	return false, &TypeError{Path: e.Path, Want: "bool", Got: e.Type()}
}

// String converts the value to text, applying the member's format directive
// when one is set. A nil value yields the empty string.
func (e *Entry) String() string {
	if isNil(e.Value) {
		return ""
	}
	value := e.Value
	if v, ok := value.(cty.Value); ok {
		if e.format() == "" {
			return ctyString(v)
		}
		value = ctyGo(v)
	}
	format := e.format()
	if format == "" {
		if e.printer != nil {
			return e.printer.Sprint(value)
		}
		return fmt.Sprint(value)
	}
	if t, ok := value.(time.Time); ok && !strings.Contains(format, "%") {
		return t.Format(format)
	}
	if e.printer != nil {
		return e.printer.Sprintf(format, value)
	}
	return fmt.Sprintf(format, value)
}

func (e *Entry) format() string {
	if e.Member == nil {
		return ""
	}
	return e.Member.Format
}

// Keys enumerates the keys of a collection value: positions for sequences and
// keys for mappings.
func (e *Entry) Keys() ([]string, error) {
	ks, ok := keys(e.Value)
	if !ok {
		return nil, &TypeError{Path: e.Path, Want: "collection", Got: e.Type()}
	}
	return ks, nil
}

// Len returns the number of elements of a collection value.
func (e *Entry) Len() (int, error) {
	ks, err := e.Keys()
	return len(ks), err
}

// Index resolves one element of a collection value.
func (e *Entry) Index(key string) (*Entry, error) {
	path := e.Path + "[" + key + "]"
	val, err := index(e.Value, key)
	if err != nil || isNil(val) {
		return nil, resolveError(path, e.Name()+"["+key+"]", err, nil)
	}
	return &Entry{Model: e.Model, Path: path, Member: e.Member, Value: val, printer: e.printer}, nil
}

// Resolver resolves paths against models.
type Resolver struct {
	printer *message.Printer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocale formats values with the number and date conventions of the
// given BCP 47 tag. An unparsable tag is ignored.
func WithLocale(tag string) Option {
	return func(r *Resolver) {
		if tag == "" {
			return
		}
		t, err := language.Parse(tag)
		if err != nil {
			return
		}
		r.printer = message.NewPrinter(t)
	}
}

// NewResolver creates a resolver.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Get resolves path against root with the default resolver.
func Get(root any, path string) (*Entry, error) {
	return defaultResolver.Get(root, path)
}

// Get resolves path against root. The path is trimmed; an empty path yields
// the root itself.
func (r *Resolver) Get(root any, path string) (*Entry, error) {
	path = strings.TrimSpace(path)
	entry := &Entry{Model: root, Path: path, printer: r.printer}
	if path == "" {
		entry.Member = &Member{}
		entry.Value = root
		return entry, nil
	}

	segs, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	current := root
	var mem *Member
	for i, seg := range segs {
		if i > 0 && isNil(current) {
			return nil, &ResolveError{Path: path, Segment: seg.raw, Message: "parent value is nil"}
		}
		if seg.name != "" {
			val, m, err := member(current, seg.name)
			if err != nil {
				return nil, resolveError(path, seg.raw, err, current)
			}
			current, mem = val, m
		} else if mem == nil {
			mem = &Member{}
		}
		for _, key := range seg.keys {
			val, err := index(current, key)
			if err != nil || isNil(val) {
				return nil, resolveError(path, seg.raw, err, nil)
			}
			current = val
		}
	}
	entry.Member = mem
	entry.Value = current
	return entry, nil
}

func resolveError(path, seg string, cause error, parent any) error {
	if cause == nil {
		return &ResolveError{Path: path, Segment: seg, Message: "collection element is nil"}
	}
	if errors.Is(cause, errNotFound) {
		e := &ResolveError{Path: path, Segment: seg, Message: "no such member or key"}
		if parent != nil {
			name := seg
			if i := strings.IndexByte(name, '['); i >= 0 {
				name = name[:i]
			}
			e.Suggestions = suggest(name, memberNames(parent))
		}
		return e
	}
	return &ResolveError{Path: path, Segment: seg, Message: cause.Error()}
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	if c, ok := v.(cty.Value); ok {
		return c.IsNull()
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
