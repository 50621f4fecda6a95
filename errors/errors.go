// Package errors provides unified error handling for streamkit pipelines.
// It implements structured error types with machine-readable codes matching
// the pipeline error taxonomy: consumed-reuse, unbounded-traversal,
// producer failures, and collector failures.
package errors

import (
	stderrors "errors"
	"fmt"
)

// PipelineError is the unified error type surfaced by terminal operations.
type PipelineError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *PipelineError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *PipelineError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *PipelineError) WithCause(cause error) *PipelineError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *PipelineError) WithDetail(key string, value any) *PipelineError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new PipelineError.
func New(code ErrorCode, message string) *PipelineError {
	return &PipelineError{Code: code, Message: message}
}

// --- Taxonomy Constructors ---

// AlreadyConsumed creates an error for a stream whose stage chain was
// already driven to completion by an earlier terminal operation.
func AlreadyConsumed() *PipelineError {
	return &PipelineError{
		Code:    ErrCodeAlreadyConsumed,
		Message: "stream has already been operated upon or closed",
	}
}

// UnboundedWithoutShortCircuit creates an error for a terminal operation
// that requests full traversal of an unbounded source. Raised at pipeline
// compile time, before any element is pulled.
func UnboundedWithoutShortCircuit(operation string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeUnboundedSource,
		Message: "full traversal requested over a source of unknown size with no short-circuiting stage",
		Details: map[string]any{"operation": operation},
	}
}

// ProducerFailure creates an error for a source that failed while advancing.
// All in-flight work is cancelled and partial accumulation discarded.
func ProducerFailure(cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeProducerFailure,
		Message: "source failed while producing an element",
		Cause:   cause,
	}
}

// CollectorFailure creates an error for a collector function that failed
// during reduction. The originating function is identified in the details.
func CollectorFailure(fn string, cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeCollectorFailure,
		Message: fmt.Sprintf("collector %s failed", fn),
		Details: map[string]any{"function": fn},
		Cause:   cause,
	}
}

// InvalidPipeline creates an error for a stage chain that cannot be
// evaluated as configured.
func InvalidPipeline(reason string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidPipeline,
		Message: fmt.Sprintf("invalid pipeline: %s", reason),
	}
}

// InvalidConfig creates an error for engine configuration that failed
// validation.
func InvalidConfig(reason string) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeInvalidConfig,
		Message: fmt.Sprintf("invalid config: %s", reason),
	}
}

// Cancelled creates an error for an evaluation interrupted by its context.
func Cancelled(cause error) *PipelineError {
	return &PipelineError{
		Code:    ErrCodeCancelled,
		Message: "pipeline evaluation cancelled",
		Cause:   cause,
	}
}

// --- Inspection helpers ---

// IsPipelineError checks if an error is a PipelineError.
func IsPipelineError(err error) bool {
	var pe *PipelineError
	return stderrors.As(err, &pe)
}

// AsPipelineError converts an error to a PipelineError if possible.
func AsPipelineError(err error) (*PipelineError, bool) {
	var pe *PipelineError
	if stderrors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// CodeOf returns the error code of err, or "" when err is not a
// PipelineError.
func CodeOf(err error) ErrorCode {
	if pe, ok := AsPipelineError(err); ok {
		return pe.Code
	}
	return ""
}

// HasCode reports whether err carries the given code.
func HasCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
