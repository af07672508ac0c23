package moderation

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by the engine. The HTTP layer maps these to
// status codes; the engine itself never retries.
var (
	ErrNotFound      = errors.New("not found")
	ErrNotAuthorized = errors.New("not authorized")
)

// ValidationError signals rejectable input: blank required text, an invalid
// status value, or an attempt to publish flagged content.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpstreamError wraps a text-generation failure. No partial story is
// persisted when one occurs.
type UpstreamError struct {
	Err error
}

func (e *UpstreamError) Error() string { return "upstream generation failed: " + e.Err.Error() }

func (e *UpstreamError) Unwrap() error { return e.Err }

// IsUpstream reports whether err is an UpstreamError
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
