package model

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/zclconf/go-cty/cty"
)

type address struct {
	Street string
	City   string `templ:"town"`
}

type customer struct {
	Name    string
	Address *address
	Orders  []order
	Tags    map[string]string
	Balance float64   `format:"%.2f"`
	Since   time.Time `format:"02/01/2006"`
	Active  bool
	Nothing *address
}

func (c customer) Greeting() string { return "Dear " + c.Name }

type order struct {
	ID    int
	Lines []string
}

type record map[string]string

func (r record) Member(name string) (any, string, bool) {
	v, ok := r[name]
	return v, "[%s]", ok
}

type numbers []int

func (n numbers) Len() int        { return len(n) }
func (n numbers) Index(i int) any { return n[i] * 10 }

func testCustomer() *customer {
	return &customer{
		Name:    "Ada",
		Address: &address{Street: "Main St", City: "Springfield"},
		Orders: []order{
			{ID: 1, Lines: []string{"a", "b"}},
			{ID: 2, Lines: []string{"c"}},
		},
		Tags:    map[string]string{"tier": "gold", "region": "eu"},
		Balance: 3.5,
		Since:   time.Date(2021, 3, 4, 0, 0, 0, 0, time.UTC),
		Active:  true,
	}
}

func TestGet(t *testing.T) {
	m := testCustomer()
	tests := []struct {
		name string
		path string
		want string
	}{
		{"field", "Name", "Ada"},
		{"trimmed", "  Name ", "Ada"},
		{"nested pointer", "Address.Street", "Main St"},
		{"tag rename", "Address.town", "Springfield"},
		{"getter method", "Greeting", "Dear Ada"},
		{"slice index", "Orders[1].ID", "2"},
		{"double index", "Orders[0].Lines[1]", "b"},
		{"map key", "Tags[tier]", "gold"},
		{"quoted map key", `Tags["region"]`, "eu"},
		{"format directive", "Balance", "3.50"},
		{"time layout", "Since", "04/03/2021"},
		{"bool", "Active", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, err := Get(m, tt.path)
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.path, err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("Get(%q).String() = %q, want %q", tt.path, got, tt.want)
			}
			if !e.Exists() {
				t.Errorf("Get(%q).Exists() = false", tt.path)
			}
		})
	}
}

func TestGetEmptyPath(t *testing.T) {
	e, err := Get([]any{"A", "B"}, "")
	if err != nil {
		t.Fatal(err)
	}
	keys, err := e.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"0", "1"}, keys); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
}

func TestGetNilMember(t *testing.T) {
	e, err := Get(testCustomer(), "Nothing")
	if err != nil {
		t.Fatalf("a nil leaf must resolve, got %v", err)
	}
	if e.Exists() || e.String() != "" {
		t.Errorf("nil leaf: Exists() = %v, String() = %q", e.Exists(), e.String())
	}
	if _, err := Get(testCustomer(), "Nothing.Street"); !IsResolveError(err) {
		t.Errorf("member of nil: error = %v, want resolve error", err)
	}
}

func TestGetErrors(t *testing.T) {
	m := testCustomer()
	tests := []struct {
		name   string
		path   string
		syntax bool
	}{
		{"path as key", "Orders[a.b]", true},
		{"index as key", "Orders[Tags[tier]]", true},
		{"name after index", "Orders[0]x.ID", true},
		{"dot before index", "Orders.[0]", true},
		{"empty segment", "Address..Street", true},
		{"missing member", "Surname", false},
		{"missing nested member", "Address.Zip", false},
		{"index out of range", "Orders[5]", false},
		{"non-integer index", "Orders[x]", false},
		{"missing map key", "Tags[none]", false},
		{"indexing a scalar", "Name[0]", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Get(m, tt.path)
			if err == nil {
				t.Fatalf("Get(%q) succeeded, want error", tt.path)
			}
			if tt.syntax && !IsSyntaxError(err) {
				t.Errorf("Get(%q) error = %v, want syntax error", tt.path, err)
			}
			if !tt.syntax && !IsResolveError(err) {
				t.Errorf("Get(%q) error = %v, want resolve error", tt.path, err)
			}
		})
	}
}

func TestResolveErrorSuggestions(t *testing.T) {
	_, err := Get(testCustomer(), "Addr")
	re, ok := err.(*ResolveError)
	if !ok {
		t.Fatalf("error = %v, want *ResolveError", err)
	}
	if len(re.Suggestions) == 0 || re.Suggestions[0] != "Address" {
		t.Errorf("Suggestions = %v, want Address first", re.Suggestions)
	}
}

func TestAccessorInterfaces(t *testing.T) {
	m := map[string]any{
		"rec":  record{"x": "1"},
		"nums": numbers{1, 2, 3},
	}
	e, err := Get(m, "rec.x")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.String(); got != "[1]" {
		t.Errorf("Record format = %q, want [1]", got)
	}

	e, err = Get(m, "nums[2]")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.String(); got != "30" {
		t.Errorf("Sequence index = %q, want 30", got)
	}
	e, _ = Get(m, "nums")
	if n, err := e.Len(); err != nil || n != 3 {
		t.Errorf("Len() = %d, %v", n, err)
	}
}

func TestCtyModel(t *testing.T) {
	m := cty.ObjectVal(map[string]cty.Value{
		"Name":  cty.StringVal("World"),
		"Count": cty.NumberIntVal(42),
		"Ratio": cty.NumberFloatVal(0.25),
		"Show":  cty.True,
		"items": cty.TupleVal([]cty.Value{cty.StringVal("A"), cty.StringVal("B")}),
		"prices": cty.MapVal(map[string]cty.Value{
			"EUR": cty.NumberIntVal(3),
			"USD": cty.NumberIntVal(4),
		}),
	})
	tests := []struct {
		path string
		want string
	}{
		{"Name", "World"},
		{"Count", "42"},
		{"Ratio", "0.25"},
		{"items[1]", "B"},
		{"prices[USD]", "4"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			e, err := Get(m, tt.path)
			if err != nil {
				t.Fatal(err)
			}
			if got := e.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}

	e, _ := Get(m, "Show")
	if b, err := e.Bool(); err != nil || !b {
		t.Errorf("Bool() = %v, %v", b, err)
	}
	e, _ = Get(m, "prices")
	keys, err := e.Keys()
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"EUR", "USD"}, keys); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if _, err := Get(m, "missing"); !IsResolveError(err) {
		t.Errorf("missing attribute: error = %v", err)
	}
}

func TestEntryConversions(t *testing.T) {
	m := testCustomer()

	e, _ := Get(m, "Active")
	if b, err := e.Bool(); err != nil || !b {
		t.Errorf("Bool() = %v, %v", b, err)
	}
	e, _ = Get(m, "Name")
	if _, err := e.Bool(); !IsTypeError(err) {
		t.Errorf("Bool() on a string: error = %v, want type error", err)
	}
	if s, err := As[string](e); err != nil || s != "Ada" {
		t.Errorf("As[string]() = %q, %v", s, err)
	}
	if _, err := As[int](e); !IsTypeError(err) {
		t.Errorf("As[int]() on a string: error = %v, want type error", err)
	}
	if _, err := e.Keys(); !IsTypeError(err) {
		t.Errorf("Keys() on a string: error = %v, want type error", err)
	}

	e, _ = Get(m, "Tags")
	keys, _ := e.Keys()
	if diff := cmp.Diff([]string{"region", "tier"}, keys); diff != "" {
		t.Errorf("map keys mismatch (-want +got):\n%s", diff)
	}

	e, _ = Get(m, "Orders[0].Lines")
	if e.Name() != "Lines" {
		t.Errorf("Name() = %q, want Lines", e.Name())
	}
	el, err := e.Index("1")
	if err != nil || el.String() != "b" || el.Path != "Orders[0].Lines[1]" {
		t.Errorf("Index(1) = %+v, %v", el, err)
	}
	if _, err := e.Index("9"); !IsResolveError(err) {
		t.Errorf("Index(9): error = %v, want resolve error", err)
	}
}

func TestWithLocale(t *testing.T) {
	type stats struct {
		Visitors int `format:"%d"`
	}
	r := NewResolver(WithLocale("en"))
	e, err := r.Get(stats{Visitors: 1234567}, "Visitors")
	if err != nil {
		t.Fatal(err)
	}
	if got := e.String(); got != "1,234,567" {
		t.Errorf("String() = %q, want 1,234,567", got)
	}

	plain, _ := Get(stats{Visitors: 1234567}, "Visitors")
	if got := plain.String(); got != "1234567" {
		t.Errorf("without locale String() = %q, want 1234567", got)
	}
}
