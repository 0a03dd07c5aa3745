package engine

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a failed summarization for the caller.
type ErrorKind string

const (
	ErrKindNoContent       ErrorKind = "no_content_found"
	ErrKindFetchFailure    ErrorKind = "fetch_failure"
	ErrKindContextTooLarge ErrorKind = "context_too_large"
	ErrKindProvider        ErrorKind = "provider_error"
	ErrKindInvalidConfig   ErrorKind = "invalid_configuration"
)

var (
	// ErrNoContent means no transcript or page text could be found.
	ErrNoContent = errors.New("no content found")
	// ErrEmptyContent is returned by Normalize for blank text.
	ErrEmptyContent = errors.New("empty content")
)

// Error is the typed failure produced at the orchestrator boundary.
type Error struct {
	Kind   ErrorKind
	Detail string
	Err    error
}

func (e *Error) Error() string {
	if e.Detail == "" {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *Error) Unwrap() error { return e.Err }

// UserMessage renders the failure the way it is shown to a human.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case ErrKindNoContent:
		return "No transcript or readable content was found for this URL."
	case ErrKindFetchFailure:
		return "Failed to fetch the URL: " + e.Detail
	case ErrKindContextTooLarge:
		return "The content is too large for this model. Choose a model with a larger context window or different content. (" + e.Detail + ")"
	case ErrKindInvalidConfig:
		return "Invalid configuration: " + e.Detail
	default:
		return e.Detail
	}
}

func newError(kind ErrorKind, err error) *Error {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	return &Error{Kind: kind, Detail: detail, Err: err}
}

func invalidConfig(format string, args ...any) *Error {
	return &Error{Kind: ErrKindInvalidConfig, Detail: fmt.Sprintf(format, args...)}
}

// KindOf returns the ErrorKind carried by err, or ProviderError for untyped errors.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNoContent) || errors.Is(err, ErrEmptyContent) {
		return ErrKindNoContent
	}
	return ErrKindProvider
}
