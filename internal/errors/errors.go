package errors

import (
	"errors"
	"fmt"
	"time"
)

// Error types for the short-form matching system
type ErrorType string

const (
	// Matching errors
	ErrorTypeAnalysis ErrorType = "analysis"
	ErrorTypeMatch    ErrorType = "match"

	// Label source errors
	ErrorTypeLabelSource    ErrorType = "label_source"
	ErrorTypeEntityNotFound ErrorType = "entity_not_found"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// ErrEntityNotFound is returned by label sources for unknown entities
var ErrEntityNotFound = errors.New("entity not found")

// AnalysisError reports that the analyzer could not tokenize a short form.
// It always means an infrastructure failure, never a "no match".
type AnalysisError struct {
	Type       ErrorType
	Field      string
	Entity     string
	Operation  string
	TextLength int
	Underlying error
	Timestamp  time.Time
}

// NewAnalysisError creates a new analysis error for the given field
func NewAnalysisError(op, field string, err error) *AnalysisError {
	return &AnalysisError{
		Type:       ErrorTypeAnalysis,
		Field:      field,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithEntity adds the entity whose short form was being analysed
func (e *AnalysisError) WithEntity(entity string) *AnalysisError {
	e.Entity = entity
	return e
}

// WithText records the length of the analysed text
func (e *AnalysisError) WithText(text string) *AnalysisError {
	e.TextLength = len(text)
	return e
}

// Error implements the error interface
func (e *AnalysisError) Error() string {
	if e.Entity != "" {
		return fmt.Sprintf("%s %s failed for field %s of %s: %v", e.Type, e.Operation, e.Field, e.Entity, e.Underlying)
	}
	return fmt.Sprintf("%s %s failed for field %s: %v", e.Type, e.Operation, e.Field, e.Underlying)
}

// Unwrap returns the underlying error for errors.Is/As
func (e *AnalysisError) Unwrap() error {
	return e.Underlying
}

// LabelSourceError represents a failure to load or store entity labels
type LabelSourceError struct {
	Type       ErrorType
	Entity     string
	Path       string
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewLabelSourceError creates a new label source error
func NewLabelSourceError(op, path string, err error) *LabelSourceError {
	errorType := ErrorTypeLabelSource
	if errors.Is(err, ErrEntityNotFound) {
		errorType = ErrorTypeEntityNotFound
	}

	return &LabelSourceError{
		Type:       errorType,
		Path:       path,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// WithEntity adds the entity to the error
func (e *LabelSourceError) WithEntity(entity string) *LabelSourceError {
	e.Entity = entity
	return e
}

// Error implements the error interface
func (e *LabelSourceError) Error() string {
	switch {
	case e.Entity != "" && e.Path != "":
		return fmt.Sprintf("label %s failed for %s in %s: %v", e.Operation, e.Entity, e.Path, e.Underlying)
	case e.Entity != "":
		return fmt.Sprintf("label %s failed for %s: %v", e.Operation, e.Entity, e.Underlying)
	case e.Path != "":
		return fmt.Sprintf("label %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
	default:
		return fmt.Sprintf("label %s failed: %v", e.Operation, e.Underlying)
	}
}

// Unwrap returns the underlying error
func (e *LabelSourceError) Unwrap() error {
	return e.Underlying
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigError creates a new config error
func NewConfigError(field, value string, err error) *ConfigError {
	return &ConfigError{
		Field:      field,
		Value:      value,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error for field %s (value %s): %v", e.Field, e.Value, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ConfigError) Unwrap() error {
	return e.Underlying
}

// MultiError represents multiple errors
type MultiError struct {
	Errors []error
}

// NewMultiError creates a new multi-error
func NewMultiError(errs []error) *MultiError {
	// Filter out nil errors
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}

// Error implements the error interface
func (e *MultiError) Error() string {
	if len(e.Errors) == 0 {
		return "no errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
}

// Unwrap returns all errors
func (e *MultiError) Unwrap() []error {
	return e.Errors
}

// IsAnalysisFailure reports whether err came from the analyzer
func IsAnalysisFailure(err error) bool {
	var ae *AnalysisError
	return errors.As(err, &ae)
}
