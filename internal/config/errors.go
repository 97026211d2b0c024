package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// UserError is the one error type callers are expected to branch on. Every
// failure mode of the loader is translated into a UserError before it leaves
// the package, carrying a human-readable message and, for schema violations,
// the full list of problems found in the offending section.
type UserError struct {
	Message  string
	Problems []string

	cause error
}

func (e *UserError) Error() string {
	if len(e.Problems) == 0 {
		return e.Message
	}
	return e.Message + "\n  - " + strings.Join(e.Problems, "\n  - ")
}

func (e *UserError) Unwrap() error {
	return e.cause
}

// newUserError wraps cause into a UserError, reusing the Problems list if
// cause already is one.
func newUserError(cause error, format string, args ...any) *UserError {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return &UserError{Message: msg}
	}
	if ue, ok := cause.(*UserError); ok {
		return &UserError{
			Message:  msg + " " + ue.Message,
			Problems: ue.Problems,
			cause:    cause,
		}
	}
	return &UserError{Message: msg + " " + cause.Error(), cause: cause}
}

// ParseError reports a value token that is structurally invalid, e.g. an
// unterminated quoted string. Ambiguous but recoverable tokens do not raise
// it; they fall back to a string value with a warning instead.
type ParseError struct {
	Raw    string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid value %q: %s", e.Raw, e.Reason)
}

// StructureError reports a document-level violation: an unknown section
// kind, a duplicate section name, a malformed header or key line. Subject
// points at the offending line.
type StructureError struct {
	Summary string
	Subject hcl.Range
}

func (e *StructureError) Error() string {
	if e.Subject.Filename == "" {
		return e.Summary
	}
	return fmt.Sprintf("%s: %s", e.Subject, e.Summary)
}

// ValueError reports a well-formed value with an invalid shape, such as a
// collections list holding a bare null.
type ValueError struct {
	Message string
}

func (e *ValueError) Error() string {
	return e.Message
}
