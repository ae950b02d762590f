package internal

import (
	"fmt"
)

type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (severity Severity) String() string {
	if severity == SeverityWarning {
		return "warning"
	}
	return "error"
}

// SemanticError is a problem found by one of the semantic passes. It is a value, passes keep going after
// recording one.
type SemanticError struct {
	Message  string
	Line     int
	Name     string // the symbol or class the error is about, may be empty.
	Severity Severity
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("semantic %s at line %d: %s", e.Severity, e.Line, e.Message)
}

func (e *SemanticError) IsWarning() bool {
	return e.Severity == SeverityWarning
}

func makeSemanticError(line int, format string, msg ...interface{}) *SemanticError {
	return &SemanticError{Message: fmt.Sprintf(format, msg...), Line: line}
}

// Diagnostics collects the errors of one pass in the order they are found.
type Diagnostics struct {
	errors []*SemanticError
}

func (diagnostics *Diagnostics) Add(e *SemanticError) {
	diagnostics.errors = append(diagnostics.errors, e)
}

func (diagnostics *Diagnostics) Errorf(line int, format string, msg ...interface{}) {
	diagnostics.Add(makeSemanticError(line, format, msg...))
}

func (diagnostics *Diagnostics) Warnf(line int, format string, msg ...interface{}) {
	e := makeSemanticError(line, format, msg...)
	e.Severity = SeverityWarning
	diagnostics.Add(e)
}

func (diagnostics *Diagnostics) Errors() []*SemanticError {
	return diagnostics.errors
}

// HasErrors ignores warnings.
func (diagnostics *Diagnostics) HasErrors() bool {
	return countErrors(diagnostics.errors) > 0
}

func countErrors(errs []*SemanticError) int {
	count := 0
	for _, e := range errs {
		if !e.IsWarning() {
			count++
		}
	}
	return count
}
