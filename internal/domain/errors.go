package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a vehicle, scenario or preset id is unknown
var ErrNotFound = errors.New("not found")

// ConfigurationError reports malformed or inconsistent static input.
// It is raised at construction time and never produces a silent wrong number.
type ConfigurationError struct {
	Field   string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "configuration error: " + e.Message
	}
	return fmt.Sprintf("configuration error: %s: %s", e.Field, e.Message)
}

// NewConfigurationError builds a ConfigurationError with a formatted message
func NewConfigurationError(field, format string, args ...interface{}) *ConfigurationError {
	return &ConfigurationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// DomainError reports an invalid runtime argument to an otherwise valid calculator.
// It is fatal to the single call and leaves cached state untouched.
type DomainError struct {
	Op      string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("domain error: %s: %s", e.Op, e.Message)
}

// NewDomainError builds a DomainError with a formatted message
func NewDomainError(op, format string, args ...interface{}) *DomainError {
	return &DomainError{Op: op, Message: fmt.Sprintf(format, args...)}
}

// IsConfigurationError reports whether err wraps a ConfigurationError
func IsConfigurationError(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}

// IsDomainError reports whether err wraps a DomainError
func IsDomainError(err error) bool {
	var target *DomainError
	return errors.As(err, &target)
}
