package model

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Record exposes named members without reflection. The format is an optional
// display directive applied when the member is rendered as text.
type Record interface {
	Member(name string) (value any, format string, ok bool)
}

// Mapping exposes string-keyed elements.
type Mapping interface {
	Lookup(key string) (any, bool)
	Keys() []string
}

// Sequence exposes integer-indexed elements.
type Sequence interface {
	Len() int
	Index(i int) any
}

// Member describes the member a value was read from.
type Member struct {
	Name   string
	Format string
}

var errNotFound = errors.New("not found")

// member resolves a named member of v. Explicit accessors come first, then cty
// values, then reflection: a zero-argument method wins over a field.
func member(v any, name string) (any, *Member, error) {
	switch t := v.(type) {
	case nil:
		return nil, nil, errors.New("value is nil")
	case Record:
		val, format, ok := t.Member(name)
		if !ok {
			return nil, nil, errNotFound
		}
		return val, &Member{Name: name, Format: format}, nil
	case Mapping:
		val, ok := t.Lookup(name)
		if !ok {
			return nil, nil, errNotFound
		}
		return val, &Member{Name: name}, nil
	case map[string]any:
		val, ok := t[name]
		if !ok {
			return nil, nil, errNotFound
		}
		return val, &Member{Name: name}, nil
	case cty.Value:
		val, err := ctyIndex(t, name)
		if err != nil {
			return nil, nil, err
		}
		return val, &Member{Name: name}, nil
	}
	return reflectMember(reflect.ValueOf(v), name)
}

func reflectMember(rv reflect.Value, name string) (any, *Member, error) {
	if rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil, nil, errors.New("value is nil")
	}
	if m := rv.MethodByName(name); m.IsValid() {
		if val, ok, err := callGetter(m); ok {
			return val, &Member{Name: name}, err
		}
	}
	rv = indirect(rv)
	if !rv.IsValid() {
		return nil, nil, errors.New("value is nil")
	}
	switch rv.Kind() {
	case reflect.Struct:
		if f, ok := fieldByName(rv.Type(), name); ok {
			fv, err := rv.FieldByIndexErr(f.Index)
			if err != nil {
				return nil, nil, err
			}
			return fv.Interface(), &Member{Name: name, Format: f.Tag.Get("format")}, nil
		}
	case reflect.Map:
		if val, ok := mapIndex(rv, name); ok {
			return val, &Member{Name: name}, nil
		}
	}
	return nil, nil, errNotFound
}

// callGetter invokes a property-like method: no arguments, one result, or a
// result and an error.
func callGetter(m reflect.Value) (any, bool, error) {
	mt := m.Type()
	if mt.NumIn() != 0 {
		return nil, false, nil
	}
	switch mt.NumOut() {
	case 1:
		return m.Call(nil)[0].Interface(), true, nil
	case 2:
		if !mt.Out(1).Implements(reflect.TypeOf((*error)(nil)).Elem()) {
			return nil, false, nil
		}
		out := m.Call(nil)
		if err, _ := out[1].Interface().(error); err != nil {
			return nil, true, err
		}
		return out[0].Interface(), true, nil
	}
	return nil, false, nil
}

func fieldByName(t reflect.Type, name string) (reflect.StructField, bool) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := strings.Split(f.Tag.Get("templ"), ",")[0]
		if tag == name {
			return f, true
		}
	}
	f, ok := t.FieldByName(name)
	if !ok || !f.IsExported() {
		return reflect.StructField{}, false
	}
	return f, true
}

func indirect(rv reflect.Value) reflect.Value {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}
		}
		rv = rv.Elem()
	}
	return rv
}

func mapIndex(rv reflect.Value, key string) (any, bool) {
	kt := rv.Type().Key()
	var kv reflect.Value
	switch kt.Kind() {
	case reflect.String:
		kv = reflect.ValueOf(key).Convert(kt)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			return nil, false
		}
		kv = reflect.New(kt).Elem()
		kv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			return nil, false
		}
		kv = reflect.New(kt).Elem()
		kv.SetUint(n)
	default:
		return nil, false
	}
	val := rv.MapIndex(kv)
	if !val.IsValid() {
		return nil, false
	}
	return val.Interface(), true
}

// index looks key up in a collection: as a mapping key first, then as an
// integer position.
func index(v any, key string) (any, error) {
	switch t := v.(type) {
	case nil:
		return nil, errors.New("value is nil")
	case Mapping:
		if val, ok := t.Lookup(key); ok {
			return val, nil
		}
		if _, ok := v.(Sequence); !ok {
			return nil, errNotFound
		}
	case map[string]any:
		if val, ok := t[key]; ok {
			return val, nil
		}
		return nil, errNotFound
	case []any:
		i, err := position(key, len(t))
		if err != nil {
			return nil, err
		}
		return t[i], nil
	case cty.Value:
		return ctyIndex(t, key)
	}
	if s, ok := v.(Sequence); ok {
		i, err := position(key, s.Len())
		if err != nil {
			return nil, err
		}
		return s.Index(i), nil
	}

	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Map:
		if val, ok := mapIndex(rv, key); ok {
			return val, nil
		}
		return nil, errNotFound
	case reflect.Slice, reflect.Array:
		i, err := position(key, rv.Len())
		if err != nil {
			return nil, err
		}
		return rv.Index(i).Interface(), nil
	}
	return nil, fmt.Errorf("value of type %T is not a collection", v)
}

func position(key string, n int) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil {
		return 0, fmt.Errorf("key %q is not an integer index", key)
	}
	if i < 0 || i >= n {
		return 0, fmt.Errorf("index %d out of range [0,%d)", i, n)
	}
	return i, nil
}

// keys enumerates the keys of a collection as strings. Go maps are sorted so
// the output is deterministic.
func keys(v any) ([]string, bool) {
	switch t := v.(type) {
	case nil:
		return nil, false
	case Mapping:
		return t.Keys(), true
	case Sequence:
		return sequenceKeys(t.Len()), true
	case cty.Value:
		return ctyKeys(t)
	}
	rv := indirect(reflect.ValueOf(v))
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return sequenceKeys(rv.Len()), true
	case reflect.Map:
		out := make([]string, 0, rv.Len())
		for _, k := range rv.MapKeys() {
			out = append(out, fmt.Sprint(k.Interface()))
		}
		sortKeys(out)
		return out, true
	}
	return nil, false
}

func sequenceKeys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = strconv.Itoa(i)
	}
	return out
}

// sortKeys orders numeric keys numerically and everything else lexically.
func sortKeys(ks []string) {
	sort.SliceStable(ks, func(i, j int) bool {
		a, errA := strconv.Atoi(ks[i])
		b, errB := strconv.Atoi(ks[j])
		if errA == nil && errB == nil {
			return a < b
		}
		return ks[i] < ks[j]
	})
}

// memberNames lists the names resolvable on v, for suggestions.
func memberNames(v any) []string {
	switch t := v.(type) {
	case nil:
		return nil
	case Mapping:
		return t.Keys()
	case cty.Value:
		ks, _ := ctyKeys(t)
		return ks
	}
	rv := reflect.ValueOf(v)
	var names []string
	for i := 0; i < rv.NumMethod(); i++ {
		names = append(names, rv.Type().Method(i).Name)
	}
	rv = indirect(rv)
	switch rv.Kind() {
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if f := rv.Type().Field(i); f.IsExported() {
				names = append(names, f.Name)
			}
		}
	case reflect.Map:
		ks, _ := keys(v)
		names = append(names, ks...)
	}
	return names
}
