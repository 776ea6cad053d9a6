package docmerge

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// StructuralErrorKind classifies a nesting failure
type StructuralErrorKind int

const (
	// UnmatchedOpen: an IF or REPEAT FOR was never closed
	UnmatchedOpen StructuralErrorKind = iota
	// UnexpectedClose: a close directive with no open frame
	UnexpectedClose
	// MismatchedClose: a close directive of the wrong kind for the open frame
	MismatchedClose
)

// Sentinels for errors.Is matching against a *StructuralError.
var (
	ErrUnmatchedOpen   = errors.New("unmatched opening tag")
	ErrUnexpectedClose = errors.New("unexpected closing tag")
	ErrMismatchedClose = errors.New("mismatched closing tag")
)

func (k StructuralErrorKind) String() string {
	switch k {
	case UnmatchedOpen:
		return "unmatched opening tag"
	case UnexpectedClose:
		return "unexpected closing tag"
	case MismatchedClose:
		return "mismatched closing tag"
	default:
		return "structural error"
	}
}

func (k StructuralErrorKind) sentinel() error {
	switch k {
	case UnmatchedOpen:
		return ErrUnmatchedOpen
	case UnexpectedClose:
		return ErrUnexpectedClose
	case MismatchedClose:
		return ErrMismatchedClose
	default:
		return nil
	}
}

// StructuralError reports malformed directive nesting. Position is the byte
// offset of the offending directive; Line and Column are 1-based.
type StructuralError struct {
	Kind      StructuralErrorKind
	Directive string
	Position  int
	Line      int
	Column    int
}

func (e *StructuralError) Error() string {
	msg := e.Kind.String()
	if e.Directive != "" {
		msg = fmt.Sprintf("%s %s", msg, e.Directive)
	}
	if e.Line > 0 && e.Column > 0 {
		return fmt.Sprintf("template error at line %d, column %d: %s", e.Line, e.Column, msg)
	}
	return fmt.Sprintf("template error: %s", msg)
}

// Is lets errors.Is(err, ErrMismatchedClose) and friends match.
func (e *StructuralError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newStructuralError(kind StructuralErrorKind, input string, tok Token) *StructuralError {
	line, col := lineColumn(input, tok.Start)
	return &StructuralError{
		Kind:      kind,
		Directive: tok.Raw,
		Position:  tok.Start,
		Line:      line,
		Column:    col,
	}
}

// lineColumn converts a byte offset into a 1-based line and rune column.
func lineColumn(input string, offset int) (int, int) {
	if offset > len(input) {
		offset = len(input)
	}
	prefix := input[:offset]
	line := strings.Count(prefix, "\n") + 1
	lineStart := strings.LastIndexByte(prefix, '\n') + 1
	col := len([]rune(prefix[lineStart:])) + 1
	return line, col
}

// IsStructuralError checks if an error is, or wraps, a structural error
func IsStructuralError(err error) bool {
	var se *StructuralError
	return errors.As(err, &se)
}

// ValidationIssue represents a single validation problem
type ValidationIssue struct {
	Field   string
	Message string
}

// ValidationError represents multiple validation issues
type ValidationError struct {
	Issues []ValidationIssue
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "validation error"
	}

	if len(e.Issues) == 1 {
		return fmt.Sprintf("validation error: %s - %s", e.Issues[0].Field, e.Issues[0].Message)
	}

	var parts []string
	parts = append(parts, fmt.Sprintf("%d validation issues:", len(e.Issues)))
	for _, issue := range e.Issues {
		parts = append(parts, fmt.Sprintf("  %s: %s", issue.Field, issue.Message))
	}
	return strings.Join(parts, "\n")
}

// Add records an issue.
func (e *ValidationError) Add(field, message string) {
	e.Issues = append(e.Issues, ValidationIssue{Field: field, Message: message})
}

// Err returns e when it holds issues, nil otherwise.
func (e *ValidationError) Err() error {
	if e == nil || len(e.Issues) == 0 {
		return nil
	}
	return e
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
