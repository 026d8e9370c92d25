package templ

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/benjaminschreck/go-templ/pkg/templ/model"
)

// GrammarError reports a placeholder or prefix that breaks the placeholder
// grammar: a prefix containing the field separator, a field count outside the
// bounds of a module, or a malformed field.
type GrammarError struct {
	Module      string
	Placeholder string
	Message     string
}

func (e *GrammarError) Error() string {
	switch {
	case e.Module != "" && e.Placeholder != "":
		return fmt.Sprintf("grammar error in module %q at placeholder %q: %s", e.Module, e.Placeholder, e.Message)
	case e.Placeholder != "":
		return fmt.Sprintf("grammar error at placeholder %q: %s", e.Placeholder, e.Message)
	case e.Module != "":
		return fmt.Sprintf("grammar error in module %q: %s", e.Module, e.Message)
	}
	return fmt.Sprintf("grammar error: %s", e.Message)
}

// NewGrammarError creates a new grammar error
func NewGrammarError(module, placeholder, message string) error {
	return &GrammarError{
		Module:      module,
		Placeholder: placeholder,
		Message:     message,
	}
}

// CoordinateError reports a table match whose table, row or cell no longer
// resolves.
type CoordinateError struct {
	Placeholder string
	Message     string
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("table match %q: %s", e.Placeholder, e.Message)
}

// DocumentError represents an error during document operations
type DocumentError struct {
	Operation string
	Path      string
	Cause     error
}

func (e *DocumentError) Error() string {
	if e.Path != "" && e.Cause != nil {
		return fmt.Sprintf("document error during %s of '%s': %v", e.Operation, e.Path, e.Cause)
	} else if e.Path != "" {
		return fmt.Sprintf("document error during %s of '%s'", e.Operation, e.Path)
	} else if e.Cause != nil {
		return fmt.Sprintf("document error during %s: %v", e.Operation, e.Cause)
	}
	return fmt.Sprintf("document error during %s", e.Operation)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// NewDocumentError creates a new document error
func NewDocumentError(operation, path string, cause error) error {
	return &DocumentError{
		Operation: operation,
		Path:      path,
		Cause:     cause,
	}
}

// ContextError adds context to an existing error
type ContextError struct {
	Operation string
	Context   map[string]interface{}
	Cause     error
}

func (e *ContextError) Error() string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var contextParts []string
	for _, k := range keys {
		contextParts = append(contextParts, fmt.Sprintf("%s=%v", k, e.Context[k]))
	}

	if len(contextParts) > 0 {
		return fmt.Sprintf("%s [%s]: %v", e.Operation, strings.Join(contextParts, ", "), e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Cause)
}

func (e *ContextError) Unwrap() error {
	return e.Cause
}

// WithContext wraps an error with additional context
func WithContext(err error, operation string, context map[string]interface{}) error {
	if err == nil {
		return nil
	}
	return &ContextError{
		Operation: operation,
		Context:   context,
		Cause:     err,
	}
}

// IsGrammarError checks if an error is a placeholder grammar error
func IsGrammarError(err error) bool {
	var target *GrammarError
	return errors.As(err, &target)
}

// IsCoordinateError checks if an error is a table coordinate error
func IsCoordinateError(err error) bool {
	var target *CoordinateError
	return errors.As(err, &target)
}

// IsDocumentError checks if an error is a document error
func IsDocumentError(err error) bool {
	var target *DocumentError
	return errors.As(err, &target)
}

// IsModelError checks if an error comes from resolving a model path: a path
// syntax error, a resolution error or a type error.
func IsModelError(err error) bool {
	return model.IsSyntaxError(err) || model.IsResolveError(err) || model.IsTypeError(err)
}
