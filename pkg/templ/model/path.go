package model

import (
	"regexp"
	"strings"
)

var (
	// a[b.c]: a path used as a key
	subPathRegex = regexp.MustCompile(`\[[^\[]*\.[^\[]*\]`)
	// a[b[c]]: an index used as a key
	subIndexRegex = regexp.MustCompile(`\[[^\[]*\[[^\[]*\][^\[]*\]`)
	// a[0]b.c
	badIndexRegex1 = regexp.MustCompile(`\][^\[\]\.]+\.`)
	// a.[0]
	badIndexRegex2 = regexp.MustCompile(`\.\[`)
	// name[key][key]...
	segmentRegex = regexp.MustCompile(`^([^\[\]]*)((?:\[[^\[\]]+\])*)$`)
	keyRegex     = regexp.MustCompile(`\[([^\[\]]+)\]`)
)

// segment is one dot-separated part of a path: a member name followed by zero
// or more collection keys.
type segment struct {
	raw  string
	name string
	keys []string
}

func checkPath(path string) error {
	if subPathRegex.MatchString(path) {
		return &SyntaxError{Path: path, Message: "a collection key cannot be a model path; only int/string keys are supported"}
	}
	if subIndexRegex.MatchString(path) {
		return &SyntaxError{Path: path, Message: "a collection key cannot be a collection element; only int/string keys are supported"}
	}
	if badIndexRegex1.MatchString(path) || badIndexRegex2.MatchString(path) {
		return &SyntaxError{Path: path, Message: "invalid use of collection indexing []"}
	}
	return nil
}

func parsePath(path string) ([]segment, error) {
	if err := checkPath(path); err != nil {
		return nil, err
	}
	parts := strings.Split(path, ".")
	segs := make([]segment, 0, len(parts))
	for _, part := range parts {
		m := segmentRegex.FindStringSubmatch(part)
		if m == nil {
			return nil, &SyntaxError{Path: path, Message: "malformed segment " + quote(part)}
		}
		seg := segment{raw: part, name: m[1]}
		for _, k := range keyRegex.FindAllStringSubmatch(m[2], -1) {
			seg.keys = append(seg.keys, strings.Trim(k[1], `'"`))
		}
		if seg.name == "" && len(seg.keys) == 0 {
			return nil, &SyntaxError{Path: path, Message: "empty segment"}
		}
		segs = append(segs, seg)
	}
	return segs, nil
}

func quote(s string) string {
	return `"` + s + `"`
}
