// Package errs holds the error taxonomy shared by the gateway, the intent
// resolver and the response composer. Callers classify failures with
// errors.Is against the sentinels below; the wrapped chain keeps the
// upstream detail for logs.
package errs

import (
	"fmt"
	"strings"

	cr "github.com/cockroachdb/errors"
)

var (
	// ErrUpstreamUnavailable means the card API could not be reached, was rate
	// limited, or kept failing after retries. Retryable from the user's side.
	ErrUpstreamUnavailable = cr.New("upstream unavailable")

	// ErrNotFound means the requested set or card does not exist upstream.
	ErrNotFound = cr.New("not found")

	// ErrSchemaViolation means the upstream payload was missing a required
	// field or could not be decoded. Always also marked ErrUpstreamUnavailable.
	ErrSchemaViolation = cr.New("schema violation")

	// ErrInvalidArgument is a caller error, e.g. a non-positive top-N count.
	ErrInvalidArgument = cr.New("invalid argument")

	// ErrAmbiguousReference means a set reference matched nothing in the
	// catalog. It triggers a clarification response, not a failure.
	ErrAmbiguousReference = cr.New("ambiguous reference")

	// ErrResolverUnavailable means the language model could not classify the
	// request. Callers fall back to keyword resolution.
	ErrResolverUnavailable = cr.New("resolver unavailable")
)

// Wrap annotates err with msg, preserving marks. Returns nil for nil.
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Wrapf is Wrap with formatting.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return cr.Wrapf(err, format, args...)
}

// Mark tags err so that errors.Is(err, kind) reports true.
func Mark(err error, kind error) error {
	if err == nil {
		return kind
	}
	return cr.Mark(err, kind)
}

// Newf creates a new error already marked with kind.
func Newf(kind error, format string, args ...any) error {
	return cr.Mark(cr.Newf(format, args...), kind)
}

// Is reports whether any error in err's chain matches target, marks included.
func Is(err, target error) bool {
	return cr.Is(err, target)
}

// As is errors.As over the cockroachdb chain.
func As(err error, target any) bool {
	return cr.As(err, target)
}

// Cause returns the innermost error message of err's chain, without the
// context added by Wrap. Used for caller-facing InvalidArgument messages.
func Cause(err error) string {
	if err == nil {
		return ""
	}
	return cr.UnwrapAll(err).Error()
}

// SchemaViolation builds an error marked both ErrSchemaViolation and
// ErrUpstreamUnavailable so the UI only ever sees "try again".
func SchemaViolation(format string, args ...any) error {
	err := cr.Newf(format, args...)
	return cr.Mark(cr.Mark(err, ErrSchemaViolation), ErrUpstreamUnavailable)
}

// AmbiguousReferenceError reports a set reference that could not be resolved,
// along with nearby catalog names to offer back to the user.
type AmbiguousReferenceError struct {
	Reference   string
	Suggestions []string
}

func (e *AmbiguousReferenceError) Error() string {
	if len(e.Suggestions) == 0 {
		return fmt.Sprintf("no set matches %q", e.Reference)
	}
	return fmt.Sprintf("no set matches %q (did you mean %s?)", e.Reference, strings.Join(e.Suggestions, ", "))
}

// Is lets errors.Is(err, ErrAmbiguousReference) match without an explicit mark.
func (e *AmbiguousReferenceError) Is(target error) bool {
	return target == ErrAmbiguousReference
}
