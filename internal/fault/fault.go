// Package fault defines the closed taxonomy of domain failures and the
// boundary mapper that classifies any error into one of four categories.
// The mapping is transport-agnostic: consumers (an HTTP layer, a CLI)
// translate categories into their own protocol.
package fault

import (
	"errors"
	"fmt"
)

// Category classifies a domain failure for the system boundary.
type Category string

const (
	CategoryNotFound    Category = "not_found"
	CategoryValidation  Category = "validation"
	CategoryServer      Category = "server"
	CategoryUnavailable Category = "feature_unavailable"
)

// Error is a categorized domain failure. It wraps an optional cause so
// errors.Is/As keep working across the core boundary.
type Error struct {
	Category Category
	Message  string
	cause    error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// NotFound reports a missing entity, carrying its kind and identifier.
func NotFound(kind, id string) *Error {
	return &Error{Category: CategoryNotFound, Message: fmt.Sprintf("%s %s not found", kind, id)}
}

// Validationf reports a caller-correctable failure.
func Validationf(format string, args ...any) *Error {
	return &Error{Category: CategoryValidation, Message: fmt.Sprintf(format, args...)}
}

// InvalidTransition reports a rejected state-machine transition, naming
// both the current and the requested state.
func InvalidTransition(current, requested string) *Error {
	return &Error{
		Category: CategoryValidation,
		Message:  fmt.Sprintf("invalid transition from %s to %s", current, requested),
	}
}

// Serverf reports an internal failure. The detail stays attached for
// logging; Map surfaces only a generic message.
func Serverf(format string, args ...any) *Error {
	return &Error{Category: CategoryServer, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a cause to a server-class failure.
func Wrap(err error, message string) *Error {
	return &Error{Category: CategoryServer, Message: message, cause: err}
}

// Unavailable reports that an optional capability's dependency is absent.
func Unavailable(feature string) *Error {
	return &Error{
		Category: CategoryUnavailable,
		Message:  fmt.Sprintf("feature %s is unavailable", feature),
	}
}

// CategoryOf returns the category of err, defaulting untyped errors to
// server so nothing crosses the boundary unclassified.
func CategoryOf(err error) Category {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Category
	}
	return CategoryServer
}

// IsCategory reports whether err belongs to the given category.
func IsCategory(err error, c Category) bool {
	return err != nil && CategoryOf(err) == c
}
