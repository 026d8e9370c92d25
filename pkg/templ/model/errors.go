package model

import (
	"errors"
	"fmt"
	"strings"
)

// SyntaxError reports a model path that is malformed before any lookup happens.
type SyntaxError struct {
	Path    string
	Message string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("model path %q: %s", e.Path, e.Message)
}

// ResolveError reports a member or collection element that cannot be found.
type ResolveError struct {
	Path        string
	Segment     string
	Message     string
	Suggestions []string
}

func (e *ResolveError) Error() string {
	msg := fmt.Sprintf("model path %q: segment %q: %s", e.Path, e.Segment, e.Message)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

// TypeError reports a resolved value used as something it is not.
type TypeError struct {
	Path string
	Want string
	Got  string
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("model path %q: value of type %s cannot be used as %s", e.Path, e.Got, e.Want)
}

// IsSyntaxError checks if an error is a model path syntax error
func IsSyntaxError(err error) bool {
	var target *SyntaxError
	return errors.As(err, &target)
}

// IsResolveError checks if an error is a model resolution error
func IsResolveError(err error) bool {
	var target *ResolveError
	return errors.As(err, &target)
}

// IsTypeError checks if an error is a model type error
func IsTypeError(err error) bool {
	var target *TypeError
	return errors.As(err, &target)
}
