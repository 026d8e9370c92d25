package templ

import (
	"regexp"
	"strings"
)

// Placeholder delimiters.
const (
	MatchOpen  = "{"
	MatchClose = "}"
	FieldSep   = ":"
)

// MaxMatchesPerScope is the default cap on matches taken from one paragraph,
// section or table.
const MaxMatchesPerScope = 999

// Reserved prefixes.
const (
	PrefixSection    = "sec"
	PrefixPicture    = "pic"
	PrefixList       = "li"
	PrefixTable      = "tab"
	PrefixRow        = "row"
	PrefixCell       = "cel"
	PrefixHyperlink  = "url"
	PrefixText       = "txt"
	PrefixRemove     = "rm"
	PrefixContents   = "toc"
	PrefixComment    = "!"
	PrefixCollection = "$"
)

// Pattern matches the placeholders of one prefix: {prefix:body}. The body runs
// up to the first closing brace.
type Pattern struct {
	Prefix string
	re     *regexp.Regexp
}

// NewPattern compiles the pattern for prefix.
func NewPattern(prefix string) (*Pattern, error) {
	if strings.Contains(prefix, FieldSep) {
		return nil, &GrammarError{Message: "prefix " + quote(prefix) + " cannot contain the field separator " + quote(FieldSep)}
	}
	if prefix == "" {
		return nil, &GrammarError{Message: "empty prefix"}
	}
	re := regexp.MustCompile(regexp.QuoteMeta(MatchOpen) + regexp.QuoteMeta(prefix) + regexp.QuoteMeta(FieldSep) +
		`([^` + regexp.QuoteMeta(MatchClose) + `]*)` + regexp.QuoteMeta(MatchClose))
	return &Pattern{Prefix: prefix, re: re}, nil
}

// MustPattern is like NewPattern but panics on an invalid prefix.
func MustPattern(prefix string) *Pattern {
	p, err := NewPattern(prefix)
	if err != nil {
		panic(err)
	}
	return p
}

// Text renders the placeholder for body.
func (p *Pattern) Text(body string) string {
	return MatchOpen + p.Prefix + FieldSep + body + MatchClose
}

// FindAllString returns the bodies of the first n placeholders in s; n < 0
// returns all of them.
func (p *Pattern) FindAllString(s string, n int) []string {
	found := p.re.FindAllStringSubmatch(s, n)
	if len(found) == 0 {
		return nil
	}
	bodies := make([]string, len(found))
	for i, m := range found {
		bodies[i] = m[1]
	}
	return bodies
}

// MatchString reports whether s contains a placeholder of this prefix.
func (p *Pattern) MatchString(s string) bool {
	return p.re.MatchString(s)
}

// placeholder renders {prefix:field1:field2...}.
func placeholder(prefix string, fields ...string) string {
	return MatchOpen + prefix + FieldSep + strings.Join(fields, FieldSep) + MatchClose
}

func quote(s string) string {
	return `"` + s + `"`
}
