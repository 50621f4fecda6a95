// Package source defines the divisible sequence-producer contract consumed
// by stream pipelines, plus the standard adapters (slice, range, generator,
// pull-iterator, channel).
//
// A Source produces a one-time sequence of elements. It may be divisible:
// TrySplit carves off a disjoint prefix so that independent tasks can
// traverse the halves concurrently. Characteristics describe structural
// properties of the sequence and must be conservative: a source may
// under-claim SIZED or ORDERED but must never over-claim.
package source

import "context"

// Characteristics is a bit set describing structural properties of a source.
type Characteristics uint

const (
	// Ordered means the source has a defined encounter order.
	Ordered Characteristics = 1 << iota
	// Distinct means no two elements of the source are equal.
	Distinct
	// Sorted means elements appear in ascending order.
	Sorted
	// Sized means EstimateSize returns an exact remaining count.
	Sized
	// Subsized means every split of this source is itself Sized.
	Subsized
)

// Has reports whether all the given flags are set.
func (c Characteristics) Has(flags Characteristics) bool {
	return c&flags == flags
}

// Source produces a one-time, possibly divisible sequence of elements.
//
// Once TryAdvance reports no more elements the source is exhausted and must
// never produce again. A source is owned exclusively by the pipeline that
// consumes it and must not be shared for concurrent mutation.
type Source[T any] interface {
	// EstimateSize returns the number of remaining elements and true when
	// the count is known exactly, or false when it is unknown (for example
	// a generator or a filtered upstream).
	EstimateSize() (int64, bool)

	// Characteristics returns the structural flags of the remaining
	// sequence. Flags must never over-claim.
	Characteristics() Characteristics

	// TryAdvance delivers at most one element to visit and reports whether
	// more elements may remain. An error from visit is returned unchanged;
	// an error from the underlying producer is returned as-is and the
	// source is considered exhausted.
	TryAdvance(ctx context.Context, visit func(T) error) (bool, error)

	// TrySplit returns a new source covering a disjoint prefix of the
	// remaining elements, leaving the receiver with the suffix. It returns
	// nil when the remaining size is below the split threshold or the data
	// is inherently sequential.
	TrySplit() Source[T]
}
