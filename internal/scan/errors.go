package scan

import (
	"errors"
	"fmt"
)

// ErrInvalidTarget marks user-correctable input: the target did not parse as
// a URL. Never presented as a compliance finding.
var ErrInvalidTarget = errors.New("target is not a valid URL")

// FailureClass buckets text-generation collaborator failures so an operator
// can tell a revoked key from a rate limit. Every class reads as a technical
// scan failure downstream, never as a finding about the scanned site.
type FailureClass string

const (
	FailureAccessDenied     FailureClass = "access_denied"
	FailureModelNotFound    FailureClass = "model_not_found"
	FailureRateLimited      FailureClass = "rate_limited"
	FailureMalformedRequest FailureClass = "malformed_request"
	FailureUnclassified     FailureClass = "unclassified"
)

// GeneratorError is a failed call to the text-generation collaborator.
type GeneratorError struct {
	Class FailureClass
	Err   error
}

func (e *GeneratorError) Error() string {
	return fmt.Sprintf("text generation failed (%s): %v", e.Class, e.Err)
}

func (e *GeneratorError) Unwrap() error { return e.Err }

// ParseError means the generator responded, but not with the required JSON
// contract. This is a hard failure of the scan: missing fields are never
// defaulted, since guessing them as false would silently understate risk.
type ParseError struct {
	Reason string
}

func (e *ParseError) Error() string {
	return "semantic audit response unparseable: " + e.Reason
}
