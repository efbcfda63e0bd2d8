package entity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned when a query matched zero elements.
	ErrNotFound = errors.New("no such element")
	// ErrStaleElement is returned when an element handle no longer belongs
	// to the document.
	ErrStaleElement = errors.New("stale element reference")
	// ErrTimeout is returned when a polled condition never became true.
	ErrTimeout = errors.New("timed out")
	// ErrDisabled is returned for operations on disabled widgets or items.
	ErrDisabled = errors.New("disabled")
	// ErrIllegalState is returned when a widget is in a state that forbids
	// the requested operation.
	ErrIllegalState = errors.New("illegal state")
	// ErrNoTreeScope is returned when a tree has no id and its host does
	// not provide one.
	ErrNoTreeScope = errors.New("tree id not specified and host does not provide one")
)

// CandidateNotFoundError is returned when a tree path cannot be resolved.
type CandidateNotFoundError struct {
	Message string
	Path    []Step
	Cause   string
}

func (e *CandidateNotFoundError) Error() string {
	return fmt.Sprintf("message: %s, path: %s, cause: %s", e.Message, PrettyPath(e.Path), e.Cause)
}

// IsCandidateNotFound reports whether err wraps a CandidateNotFoundError.
func IsCandidateNotFound(err error) bool {
	var target *CandidateNotFoundError
	return errors.As(err, &target)
}

// ConfigError is returned by constructors given invalid or conflicting
// match criteria.
type ConfigError struct {
	Widget string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: invalid configuration: %s", e.Widget, e.Reason)
}

// ItemNotFoundError is returned when a named item is missing from a
// dropdown-like widget.
type ItemNotFoundError struct {
	Widget  string
	Item    string
	Options []string
}

func (e *ItemNotFoundError) Error() string {
	if len(e.Options) == 0 {
		return fmt.Sprintf("item %q not found in %s, the widget is probably not present", e.Item, e.Widget)
	}
	return fmt.Sprintf("item %q not found in %s, these items are present: %s",
		e.Item, e.Widget, strings.Join(e.Options, "; "))
}

// OperationError is returned when an action completed but the widget did
// not reach the requested state.
type OperationError struct {
	Widget string
	Op     string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s failed", e.Widget, e.Op)
}

// AssertionError is returned by the assert helpers.
type AssertionError struct {
	Message string
}

func (e *AssertionError) Error() string {
	return e.Message
}

// IsRetryable reports whether err is a lookup failure worth retrying.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStaleElement) || errors.Is(err, ErrNotFound)
}
