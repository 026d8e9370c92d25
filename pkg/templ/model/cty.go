package model

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/zclconf/go-cty/cty"
)

// ctyIndex resolves an attribute, map key or list position of a cty value.
func ctyIndex(v cty.Value, key string) (any, error) {
	if v.IsNull() || !v.IsKnown() {
		return nil, fmt.Errorf("value is null")
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		if !ty.HasAttribute(key) {
			return nil, errNotFound
		}
		return ctyResult(v.GetAttr(key))
	case ty.IsMapType():
		k := cty.StringVal(key)
		if !v.HasIndex(k).True() {
			return nil, errNotFound
		}
		return ctyResult(v.Index(k))
	case ty.IsListType(), ty.IsTupleType():
		i, err := position(key, v.LengthInt())
		if err != nil {
			return nil, err
		}
		return ctyResult(v.Index(cty.NumberIntVal(int64(i))))
	case ty.IsSetType():
		i, err := position(key, v.LengthInt())
		if err != nil {
			return nil, err
		}
		return ctyResult(v.AsValueSlice()[i])
	}
	return nil, fmt.Errorf("value of type %s is not a collection", ty.FriendlyName())
}

func ctyResult(v cty.Value) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	return v, nil
}

func ctyKeys(v cty.Value) ([]string, bool) {
	if v.IsNull() || !v.IsKnown() {
		return nil, false
	}
	ty := v.Type()
	switch {
	case ty.IsObjectType():
		out := make([]string, 0, len(ty.AttributeTypes()))
		for name := range ty.AttributeTypes() {
			out = append(out, name)
		}
		sort.Strings(out)
		return out, true
	case ty.IsMapType():
		var out []string
		for it := v.ElementIterator(); it.Next(); {
			k, _ := it.Element()
			out = append(out, k.AsString())
		}
		sort.Strings(out)
		return out, true
	case ty.IsListType(), ty.IsTupleType(), ty.IsSetType():
		return sequenceKeys(v.LengthInt()), true
	}
	return nil, false
}

// ctyString renders primitive cty values the way a user wrote them.
func ctyString(v cty.Value) string {
	if v.IsNull() || !v.IsKnown() {
		return ""
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return strconv.FormatInt(i, 10)
		}
		return bf.Text('f', -1)
	case cty.Bool:
		return strconv.FormatBool(v.True())
	}
	return v.GoString()
}

// ctyGo converts a primitive cty value to its Go counterpart so format
// directives see ordinary numbers and strings.
func ctyGo(v cty.Value) any {
	if v.IsNull() || !v.IsKnown() {
		return nil
	}
	switch v.Type() {
	case cty.String:
		return v.AsString()
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			i, _ := bf.Int64()
			return i
		}
		f, _ := bf.Float64()
		return f
	case cty.Bool:
		return v.True()
	}
	return v
}
