package errors

import (
	"fmt"
	"strings"

	"mercator-hq/callisto/pkg/grammar/ast"
)

// ErrorType categorizes the type of error encountered during parsing or
// validation of a grammar file.
type ErrorType string

const (
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML syntax error
	ErrorTypeStructural ErrorType = "structural" // Schema violation (missing/invalid fields)
	ErrorTypeSemantic   ErrorType = "semantic"   // Unresolved reference, invalid pattern
	ErrorTypeIO         ErrorType = "io"         // File I/O error
)

// Error represents a rich grammar error with location and an optional
// suggested fix. Grammar files are developer-authored, so errors favor
// actionable detail over brevity.
type Error struct {
	Type       ErrorType    // Category of error
	Message    string       // Error message
	Location   ast.Location // Source location (file, line, column)
	Suggestion string       // Suggested fix (optional)
}

// Error implements the error interface.
// It returns a formatted error message with location and suggestion.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// ErrorList represents a collection of errors encountered while parsing or
// validating a grammar. It allows accumulating multiple errors instead of
// failing on the first one.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty error list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends an error to the list.
func (el *ErrorList) Add(err *Error) {
	el.Errors = append(el.Errors, err)
}

// AddError creates and adds a new error with the given parameters.
func (el *ErrorList) AddError(errType ErrorType, message string, location ast.Location) {
	el.Add(&Error{
		Type:     errType,
		Message:  message,
		Location: location,
	})
}

// AddErrorWithSuggestion creates and adds a new error with a suggestion.
func (el *ErrorList) AddErrorWithSuggestion(errType ErrorType, message string, location ast.Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// HasErrors returns true if the error list contains any errors.
func (el *ErrorList) HasErrors() bool {
	return len(el.Errors) > 0
}

// HasErrorType returns true if the list contains at least one error of the
// given type.
func (el *ErrorList) HasErrorType(t ErrorType) bool {
	for _, e := range el.Errors {
		if e.Type == t {
			return true
		}
	}
	return false
}

// Count returns the number of errors in the list.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Error implements the error interface.
// It returns all errors formatted as a single string.
func (el *ErrorList) Error() string {
	if !el.HasErrors() {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d error(s) found:\n\n", len(el.Errors)))
	for i, e := range el.Errors {
		sb.WriteString(fmt.Sprintf("Error %d:\n%s", i+1, e.Error()))
		if i < len(el.Errors)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ToError returns the list as an error, or nil if the list is empty.
func (el *ErrorList) ToError() error {
	if el.HasErrors() {
		return el
	}
	return nil
}
