package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is a generic sentinel for missing resources.
	ErrNotFound = errors.New("not found")
	// ErrInvalidArgument is a generic sentinel for invalid input.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrNoResumeContent means a resume source has neither raw text nor a usable parse.
	ErrNoResumeContent = errors.New("no resume content")
)

// MissingPreconditionError means a required raw input is absent.
// It is never retried automatically; Field names the exact missing input
// (e.g. "job.jd_text", "resume.raw_text").
type MissingPreconditionError struct {
	Field string
}

func (e *MissingPreconditionError) Error() string {
	return fmt.Sprintf("missing precondition: %s", e.Field)
}

// GenerationError means the provider call itself failed (network, timeout,
// quota). It is retryable by the caller; no partial state is persisted for
// the failed stage.
type GenerationError struct {
	Kind string
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed for %s: %v", e.Kind, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// MalformedOutputError means provider output could not be salvaged into the
// required shape for a hard artifact kind. Distinct from GenerationError so
// callers can decide whether to retry verbatim or adjust input.
type MalformedOutputError struct {
	Kind   string
	Reason string
	Err    error
}

func (e *MalformedOutputError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("malformed %s output: %s", e.Kind, e.Reason)
	}
	return fmt.Sprintf("malformed %s output: %v", e.Kind, e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// ContentViolationError means a generated resume variant introduced content
// not traceable to its source snapshot. The write is rejected.
type ContentViolationError struct {
	Violations []string
}

func (e *ContentViolationError) Error() string {
	return fmt.Sprintf("resume variant fabricates content: %v", e.Violations)
}

func IsMissingPrecondition(err error) bool {
	var mp *MissingPreconditionError
	return errors.As(err, &mp)
}

func IsMalformedOutput(err error) bool {
	var mo *MalformedOutputError
	return errors.As(err, &mo)
}

func IsGenerationFailure(err error) bool {
	var ge *GenerationError
	return errors.As(err, &ge)
}

func IsContentViolation(err error) bool {
	var cv *ContentViolationError
	return errors.As(err, &cv)
}
