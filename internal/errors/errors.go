package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// Error types for the script symbol engine
type ErrorType string

const (
	// Lookup errors
	ErrorTypeNotFound ErrorType = "not_found"

	// Construction errors
	ErrorTypeCancelled ErrorType = "cancelled"
	ErrorTypeNaming    ErrorType = "naming"
	ErrorTypeParse     ErrorType = "parse"
	ErrorTypeDiscovery ErrorType = "discovery"

	// Configuration errors
	ErrorTypeConfig ErrorType = "config"

	// Internal errors
	ErrorTypeInternal ErrorType = "internal"
)

// NotFoundError is returned by typed lookups when a symbol has no metadata,
// or when its metadata is of a different kind than requested.
type NotFoundError struct {
	Type       ErrorType
	Symbol     string
	Wanted     string
	Actual     string
	Suggestion string
	Timestamp  time.Time
}

// NewNotFoundError creates a not-found error for the given symbol display string
func NewNotFoundError(symbol, wanted string) *NotFoundError {
	return &NotFoundError{
		Type:      ErrorTypeNotFound,
		Symbol:    symbol,
		Wanted:    wanted,
		Timestamp: time.Now(),
	}
}

// WithActual records the kind of metadata that was found instead
func (e *NotFoundError) WithActual(actual string) *NotFoundError {
	e.Actual = actual
	return e
}

// WithSuggestion records a close match for the missing symbol
func (e *NotFoundError) WithSuggestion(s string) *NotFoundError {
	e.Suggestion = s
	return e
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "no %s metadata for %s", e.Wanted, e.Symbol)
	if e.Actual != "" {
		fmt.Fprintf(&b, " (found %s)", e.Actual)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(&b, "; did you mean %s?", e.Suggestion)
	}
	return b.String()
}

// CancelledError wraps a context error raised while a construction
// operation was in flight.
type CancelledError struct {
	Type       ErrorType
	Operation  string
	Underlying error
	Timestamp  time.Time
}

// NewCancelledError creates a cancellation error
func NewCancelledError(op string, err error) *CancelledError {
	return &CancelledError{
		Type:       ErrorTypeCancelled,
		Operation:  op,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *CancelledError) Error() string {
	return fmt.Sprintf("%s cancelled: %v", e.Operation, e.Underlying)
}

// Unwrap returns the underlying context error for errors.Is
func (e *CancelledError) Unwrap() error {
	return e.Underlying
}

// AsCancelled converts context errors into a *CancelledError and leaves
// every other error untouched.
func AsCancelled(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CancelledError
	if stderrors.As(err, &ce) {
		return err
	}
	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return NewCancelledError(op, err)
	}
	return err
}

// IsCancelled reports whether err is a cancellation outcome
func IsCancelled(err error) bool {
	var ce *CancelledError
	return stderrors.As(err, &ce)
}

// NamingReason classifies naming failures
type NamingReason string

const (
	ReasonNoImplementingMethod        NamingReason = "no_implementing_method"
	ReasonAmbiguousImplementingMethod NamingReason = "ambiguous_implementing_method"
)

// NamingError reports that a script name could not be derived
type NamingError struct {
	Type       ErrorType
	Reason     NamingReason
	Symbol     string
	Candidates []string
	Timestamp  time.Time
}

// NewNamingError creates a naming error
func NewNamingError(reason NamingReason, symbol string, candidates []string) *NamingError {
	return &NamingError{
		Type:       ErrorTypeNaming,
		Reason:     reason,
		Symbol:     symbol,
		Candidates: candidates,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *NamingError) Error() string {
	switch e.Reason {
	case ReasonNoImplementingMethod:
		return fmt.Sprintf("alternate signature %s has no implementing method", e.Symbol)
	case ReasonAmbiguousImplementingMethod:
		return fmt.Sprintf("alternate signature %s has %d implementing methods: %s",
			e.Symbol, len(e.Candidates), strings.Join(e.Candidates, ", "))
	}
	return fmt.Sprintf("naming failed for %s: %s", e.Symbol, e.Reason)
}

// ParseError represents a parsing error in a source unit
type ParseError struct {
	Type       ErrorType
	FilePath   string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

// NewParseError creates a new parse error
func NewParseError(path string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		Type:       ErrorTypeParse,
		FilePath:   path,
		Line:       line,
		Column:     column,
		Token:      token,
		Underlying: err,
		Timestamp:  time.Now(),
	}
}

// Error implements the error interface
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near token %q): %v",
		e.FilePath, e.Line, e.Column, e.Token, e.Underlying)
}

// Unwrap returns the underlying error
func (e *ParseError) Unwrap() error {
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

// ErrorOrNil returns nil when no errors were collected
func (e *MultiError) ErrorOrNil() error {
	if e == nil || len(e.Errors) == 0 {
		return nil
	}
	return e
}
