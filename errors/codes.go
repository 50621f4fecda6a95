package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Pipeline lifecycle errors
const (
	// ErrCodeAlreadyConsumed indicates a stream was reused after a terminal
	// operation already drove it to completion or cancellation.
	ErrCodeAlreadyConsumed ErrorCode = "ALREADY_CONSUMED"
	// ErrCodeUnboundedSource indicates a full traversal was requested over a
	// source of unknown size with no short-circuiting stage present.
	ErrCodeUnboundedSource ErrorCode = "UNBOUNDED_SOURCE"
	// ErrCodeInvalidPipeline indicates the declared stage chain cannot be
	// evaluated as configured.
	ErrCodeInvalidPipeline ErrorCode = "INVALID_PIPELINE"
	// ErrCodeInvalidConfig indicates engine configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Evaluation errors
const (
	// ErrCodeProducerFailure indicates the underlying source failed while
	// advancing.
	ErrCodeProducerFailure ErrorCode = "PRODUCER_FAILURE"
	// ErrCodeCollectorFailure indicates a collector function (accumulator,
	// combiner, or finisher) failed during reduction.
	ErrCodeCollectorFailure ErrorCode = "COLLECTOR_FAILURE"
	// ErrCodeCancelled indicates evaluation was cancelled via the context
	// before the terminal result was produced.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

var fatalCodes = map[ErrorCode]bool{
	ErrCodeAlreadyConsumed:  true,
	ErrCodeUnboundedSource:  true,
	ErrCodeInvalidPipeline:  true,
	ErrCodeInvalidConfig:    true,
	ErrCodeProducerFailure:  true,
	ErrCodeCollectorFailure: true,
	ErrCodeCancelled:        false,
}

// IsFatalCode returns true if the error code indicates a pipeline that must
// be rebuilt rather than re-run with the same inputs.
func IsFatalCode(code ErrorCode) bool {
	return fatalCodes[code]
}
