// Package errors provides the application error builder. It is imported as
// ierr everywhere to avoid clashing with the standard library.
package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder accumulates context before the terminal Mark call classifies
// the error against a sentinel.
type ErrorBuilder struct {
	err     error
	hint    string
	details map[string]any
}

// NewError starts a builder from a fresh error message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: errors.New(message)}
}

// NewErrorf starts a builder from a formatted error message.
func NewErrorf(format string, args ...any) *ErrorBuilder {
	return &ErrorBuilder{err: errors.Newf(format, args...)}
}

// WithError starts a builder wrapping an underlying error.
func WithError(err error) *ErrorBuilder {
	if err == nil {
		err = errors.New("unknown error")
	}
	return &ErrorBuilder{err: err}
}

// WithHint attaches a human-readable hint that is safe to surface to callers.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.hint = hint
	return b
}

// WithHintf attaches a formatted hint.
func (b *ErrorBuilder) WithHintf(format string, args ...any) *ErrorBuilder {
	b.hint = fmt.Sprintf(format, args...)
	return b
}

// WithReportableDetails attaches structured details that are safe to report
// back to the caller (ids, field names; never credentials).
func (b *ErrorBuilder) WithReportableDetails(details map[string]any) *ErrorBuilder {
	b.details = details
	return b
}

// Mark finalizes the builder, classifying the error against the sentinel so
// that errors.Is(err, mark) holds on the returned error.
func (b *ErrorBuilder) Mark(mark error) error {
	err := b.err
	if b.hint != "" {
		err = errors.WithHint(err, b.hint)
	}
	if len(b.details) > 0 {
		err = &detailedError{cause: err, details: b.details}
	}
	return errors.Mark(err, mark)
}

// detailedError carries reportable details through the error chain.
type detailedError struct {
	cause   error
	details map[string]any
}

func (e *detailedError) Error() string { return e.cause.Error() }
func (e *detailedError) Unwrap() error { return e.cause }

// Hint extracts the first hint attached to the error chain, or "".
func Hint(err error) string {
	if hints := errors.GetAllHints(err); len(hints) > 0 {
		return hints[0]
	}
	return ""
}

// Details extracts the reportable details attached to the error chain, or nil.
func Details(err error) map[string]any {
	var de *detailedError
	if errors.As(err, &de) {
		return de.details
	}
	return nil
}
