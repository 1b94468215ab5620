// Package errors provides standardized error types and helpers for the versekit codebase.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common cases
var (
	// ErrNoSuchVerse indicates a book, chapter or verse outside the canon, or unparsable reference text
	ErrNoSuchVerse = errors.New("no such verse")
	// ErrIllegalArgument indicates an invalid mode, restriction, count or range argument
	ErrIllegalArgument = errors.New("illegal argument")
	// ErrNullReference indicates a required reference was nil
	ErrNullReference = errors.New("null reference")
	// ErrIllegalState indicates an operation that the current representation refuses
	ErrIllegalState = errors.New("illegal state")
	// ErrNotFound indicates a stored resource was not found
	ErrNotFound = errors.New("not found")
	// ErrUnsupported indicates an unsupported operation or format
	ErrUnsupported = errors.New("unsupported")
)

// NoSuchVerseError reports a reference that does not exist in the canon.
type NoSuchVerseError struct {
	Ref     string // Offending reference text or triple (e.g. "Gen 51:1", "67:1:1")
	Message string // Human-readable detail
	Err     error  // Underlying error, if any
}

func (e *NoSuchVerseError) Error() string {
	if e.Ref != "" {
		return fmt.Sprintf("no such verse %q: %s", e.Ref, e.Message)
	}
	return fmt.Sprintf("no such verse: %s", e.Message)
}

func (e *NoSuchVerseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNoSuchVerse
}

// ArgumentError represents an invalid argument with context
type ArgumentError struct {
	Field   string // Argument name that failed validation
	Value   string // Value that failed validation
	Message string // Human-readable error message
	Err     error  // Underlying error, if any
}

func (e *ArgumentError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("illegal argument %s=%s: %s", e.Field, e.Value, e.Message)
	}
	return fmt.Sprintf("illegal argument: %s", e.Message)
}

func (e *ArgumentError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrIllegalArgument
}

// NullError reports a nil where a value is mandatory.
type NullError struct {
	Field string // Argument that was nil
}

func (e *NullError) Error() string {
	return fmt.Sprintf("%s must not be nil", e.Field)
}

func (e *NullError) Unwrap() error {
	return ErrNullReference
}

// StateError reports an operation refused by the receiver's current state.
type StateError struct {
	Operation string // Operation that was attempted
	Reason    string // Why it was refused
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot %s: %s", e.Operation, e.Reason)
}

func (e *StateError) Unwrap() error {
	return ErrIllegalState
}

// NotFoundError represents a resource not found error with context
type NotFoundError struct {
	Resource string // Type of resource (e.g., "passage", "blob")
	ID       string // Identifier of the resource
	Err      error  // Underlying error, if any
}

func (e *NotFoundError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e *NotFoundError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrNotFound
}

// IOError represents an I/O operation error with context
type IOError struct {
	Operation string // Operation being performed (e.g., "read", "write", "open")
	Path      string // File/resource path involved
	Err       error  // Underlying error
}

func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to %s %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("failed to %s: %v", e.Operation, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// ParseError represents a parsing or deserialization error
type ParseError struct {
	Format  string // Format being parsed (e.g., "OSIS", "config", "binary passage")
	Path    string // File path, if applicable
	Message string // Error details
	Err     error  // Underlying error, if any
}

func (e *ParseError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("failed to parse %s at %s: %s", e.Format, e.Path, e.Message)
	}
	return fmt.Sprintf("failed to parse %s: %s", e.Format, e.Message)
}

func (e *ParseError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrIllegalArgument
}

// UnsupportedError represents an unsupported feature or format
type UnsupportedError struct {
	Feature string // Feature or format that is unsupported
	Reason  string // Why it's not supported
	Err     error  // Underlying error, if any
}

func (e *UnsupportedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unsupported %s: %s", e.Feature, e.Reason)
	}
	return fmt.Sprintf("unsupported %s", e.Feature)
}

func (e *UnsupportedError) Unwrap() error {
	if e.Err != nil {
		return e.Err
	}
	return ErrUnsupported
}

// Helper functions for creating common errors

// NewNoSuchVerse creates a NoSuchVerseError
func NewNoSuchVerse(ref, message string) *NoSuchVerseError {
	return &NoSuchVerseError{
		Ref:     ref,
		Message: message,
	}
}

// NewNoSuchVersef creates a NoSuchVerseError with a formatted message
func NewNoSuchVersef(ref, format string, args ...interface{}) *NoSuchVerseError {
	return NewNoSuchVerse(ref, fmt.Sprintf(format, args...))
}

// NewArgument creates an ArgumentError
func NewArgument(field string, value interface{}, message string) *ArgumentError {
	return &ArgumentError{
		Field:   field,
		Value:   fmt.Sprint(value),
		Message: message,
	}
}

// NewNull creates a NullError
func NewNull(field string) *NullError {
	return &NullError{Field: field}
}

// NewState creates a StateError
func NewState(operation, reason string) *StateError {
	return &StateError{
		Operation: operation,
		Reason:    reason,
	}
}

// NewNotFound creates a NotFoundError
func NewNotFound(resource, id string) *NotFoundError {
	return &NotFoundError{
		Resource: resource,
		ID:       id,
	}
}

// NewIO creates an IOError
func NewIO(operation, path string, err error) *IOError {
	return &IOError{
		Operation: operation,
		Path:      path,
		Err:       err,
	}
}

// NewParse creates a ParseError
func NewParse(format, path, message string) *ParseError {
	return &ParseError{
		Format:  format,
		Path:    path,
		Message: message,
	}
}

// NewUnsupported creates an UnsupportedError
func NewUnsupported(feature, reason string) *UnsupportedError {
	return &UnsupportedError{
		Feature: feature,
		Reason:  reason,
	}
}

// Wrap adds context to an error. If err is nil, returns nil.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to an error. If err is nil, returns nil.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// Is wraps errors.Is for convenience
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As wraps errors.As for convenience
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
