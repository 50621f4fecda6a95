// Package collector implements the generalized terminal-reduction protocol
// for stream pipelines. Every non-trivial terminal shape (to-container,
// counting, grouping, partitioning, joining, summarizing) is expressed as a
// Collector: a seed supplier, a per-element accumulator, a partial-result
// combiner, and a finisher.
//
// The combiner must be associative with respect to the accumulator: folding
// two disjoint contiguous sub-sequences and combining the partial results
// must equal folding the concatenated sequence. Parallel evaluation relies
// on this invariant.
package collector

// Characteristics is a bit set describing properties of a Collector that
// the evaluator may exploit.
type Characteristics uint

const (
	// Concurrent means the accumulation type tolerates concurrent mutation
	// by multiple tasks under the Collector's own synchronization. The
	// evaluator may then share one accumulator and skip the combine phase.
	Concurrent Characteristics = 1 << iota
	// Unordered means the reduction does not depend on encounter order.
	Unordered
	// IdentityFinish means the finisher is the identity function and the
	// accumulation can be returned directly.
	IdentityFinish
)

// Has reports whether all the given flags are set.
func (c Characteristics) Has(flags Characteristics) bool {
	return c&flags == flags
}

// Collector describes a mutable reduction of elements of type T into an
// accumulation of type A, finished into a result of type R.
type Collector[T, A, R any] struct {
	// Supplier creates a fresh empty accumulation.
	Supplier func() A
	// Accumulator folds one element into the accumulation. It may mutate
	// the accumulation in place or return a new one.
	Accumulator func(A, T) (A, error)
	// Combiner merges two partial accumulations of disjoint sub-sequences.
	// The left argument always covers the earlier part of the sequence.
	Combiner func(A, A) (A, error)
	// Finisher transforms the final accumulation into the result.
	Finisher func(A) (R, error)
	// Characteristics declares evaluator-visible properties.
	Characteristics Characteristics
}

// Of assembles a Collector from its four functions and characteristics.
func Of[T, A, R any](
	supplier func() A,
	accumulator func(A, T) (A, error),
	combiner func(A, A) (A, error),
	finisher func(A) (R, error),
	chars Characteristics,
) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier:        supplier,
		Accumulator:     accumulator,
		Combiner:        combiner,
		Finisher:        finisher,
		Characteristics: chars,
	}
}

func identityFinish[A any](a A) (A, error) { return a, nil }

// Mapping adapts a Collector over U into a Collector over T by applying fn
// to each element before it reaches the downstream accumulator. The
// downstream's characteristics are preserved.
func Mapping[T, U, A, R any](fn func(T) U, downstream Collector[U, A, R]) Collector[T, A, R] {
	return Collector[T, A, R]{
		Supplier: downstream.Supplier,
		Accumulator: func(a A, t T) (A, error) {
			return downstream.Accumulator(a, fn(t))
		},
		Combiner:        downstream.Combiner,
		Finisher:        downstream.Finisher,
		Characteristics: downstream.Characteristics,
	}
}

// CollectingAndThen applies an additional finishing transform after the
// downstream Collector finishes. IdentityFinish is cleared; the other
// characteristics are preserved.
func CollectingAndThen[T, A, R, RR any](downstream Collector[T, A, R], fn func(R) (RR, error)) Collector[T, A, RR] {
	return Collector[T, A, RR]{
		Supplier:    downstream.Supplier,
		Accumulator: downstream.Accumulator,
		Combiner:    downstream.Combiner,
		Finisher: func(a A) (RR, error) {
			r, err := downstream.Finisher(a)
			if err != nil {
				var zero RR
				return zero, err
			}
			return fn(r)
		},
		Characteristics: downstream.Characteristics &^ IdentityFinish,
	}
}

type teeState[A1, A2 any] struct {
	first  A1
	second A2
}

// Teeing feeds every element to two independent Collectors in a single pass
// and merges their finished results. Characteristics common to both inner
// Collectors are kept, except IdentityFinish and Concurrent.
func Teeing[T, A1, R1, A2, R2, R any](
	c1 Collector[T, A1, R1],
	c2 Collector[T, A2, R2],
	merge func(R1, R2) (R, error),
) Collector[T, *teeState[A1, A2], R] {
	return Collector[T, *teeState[A1, A2], R]{
		Supplier: func() *teeState[A1, A2] {
			return &teeState[A1, A2]{first: c1.Supplier(), second: c2.Supplier()}
		},
		Accumulator: func(s *teeState[A1, A2], t T) (*teeState[A1, A2], error) {
			var err error
			if s.first, err = c1.Accumulator(s.first, t); err != nil {
				return s, err
			}
			if s.second, err = c2.Accumulator(s.second, t); err != nil {
				return s, err
			}
			return s, nil
		},
		Combiner: func(a, b *teeState[A1, A2]) (*teeState[A1, A2], error) {
			var err error
			if a.first, err = c1.Combiner(a.first, b.first); err != nil {
				return a, err
			}
			if a.second, err = c2.Combiner(a.second, b.second); err != nil {
				return a, err
			}
			return a, nil
		},
		Finisher: func(s *teeState[A1, A2]) (R, error) {
			var zero R
			r1, err := c1.Finisher(s.first)
			if err != nil {
				return zero, err
			}
			r2, err := c2.Finisher(s.second)
			if err != nil {
				return zero, err
			}
			return merge(r1, r2)
		},
		Characteristics: c1.Characteristics & c2.Characteristics &^ (IdentityFinish | Concurrent),
	}
}
