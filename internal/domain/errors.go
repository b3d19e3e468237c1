package domain

import (
	"errors"
	"fmt"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// CLI errors
	ErrUnknownMode   = errors.New("unknown mode")
	ErrUnknownSource = errors.New("unknown data source")
	ErrBadRefresh    = errors.New("refresh must be -1 or a non-negative number of seconds")

	// Reader errors
	ErrMetricUnavailable = errors.New("metric unavailable")
	ErrParse             = errors.New("parse error")

	// Weather errors
	ErrUpstreamStatus = errors.New("weather service returned non-success status")
)

// MetricUnavailableError reports a value the data source did not provide:
// a missing snapshot key, a missing sysfs file, a marker absent from a
// weather report, or a zero denominator.
type MetricUnavailableError struct {
	Key    string // key, file or marker that was looked up
	Reason string // optional detail
}

// Error implements error.
func (e *MetricUnavailableError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("metric unavailable: %s: %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("metric unavailable: %s", e.Key)
}

// Unwrap lets errors.Is match ErrMetricUnavailable.
func (e *MetricUnavailableError) Unwrap() error { return ErrMetricUnavailable }

// Unavailable is shorthand for a *MetricUnavailableError.
func Unavailable(key, reason string) error {
	return &MetricUnavailableError{Key: key, Reason: reason}
}

// ParseError reports text that was present but not a valid number.
type ParseError struct {
	Field string
	Input string
	Err   error
}

// Error implements error.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: invalid value %q: %v", e.Field, e.Input, e.Err)
	}
	return fmt.Sprintf("parse %s: invalid value %q", e.Field, e.Input)
}

// Is matches ErrParse so callers need not know the concrete type.
func (e *ParseError) Is(target error) bool { return target == ErrParse }

// Unwrap returns the underlying conversion error, if any.
func (e *ParseError) Unwrap() error { return e.Err }
