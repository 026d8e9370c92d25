// Package model resolves placeholder paths against caller data.
//
// A path is a dot-separated list of member names, each optionally followed by
// collection keys:
//
//	customer.Name
//	orders[3].Lines[0].Price
//	prices["EUR"]
//
// Members are looked up through the Record, Mapping and Sequence interfaces
// when a value implements them, through cty.Value for data decoded from HCL or
// JSON, and through reflection otherwise. With reflection a zero-argument
// method is preferred over a struct field of the same name. Struct fields can
// be renamed with a `templ:"name"` tag and carry a display format with a
// `format:"..."` tag:
//
//	type Invoice struct {
//		Total float64   `format:"%.2f"`
//		Date  time.Time `format:"02/01/2006"`
//	}
//
// A collection key indexes the element of the member it follows, trying a
// mapping lookup first and an integer position second.
package model
