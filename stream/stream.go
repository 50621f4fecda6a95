// Package stream implements a lazy, single-use sequence-processing pipeline:
// a divisible source, a chain of intermediate stage descriptors, and a
// terminal reduction, evaluated in one fused traversal and optionally in
// parallel.
//
// Declaring intermediate operations performs no work. A terminal operation
// freezes the stage chain, compiles the fused sink, runs the compile-time
// checks (single use, unbounded traversal), and drives the source either
// sequentially or through the fork-join parallel evaluator.
//
//	evens, err := stream.FromSlice([]int{5, 2, 8, 1, 9}).
//		Filter(func(n int) bool { return n%2 == 0 }).
//		Sorted(func(a, b int) int { return a - b }).
//		ToSlice(ctx)
package stream

import (
	"slices"
	"sync/atomic"

	"github.com/kbukum/streamkit/source"
)

// pipeline is the shared root of a stream chain: the source, the declared
// stage descriptors, the evaluation options, and the single-use flag. Every
// Stream derived from the same root shares it, so a second terminal
// operation anywhere on the chain fails with ALREADY_CONSUMED.
type pipeline struct {
	src      anySource
	stages   []stage
	opts     options
	consumed atomic.Bool
}

// Stream is a lazy builder over elements of type T. Streams are single-use:
// exactly one terminal operation may be invoked on a chain.
type Stream[T any] struct {
	p *pipeline
}

// --- Constructors ---

// FromSource creates a stream over an arbitrary divisible source.
func FromSource[T any](src source.Source[T]) *Stream[T] {
	return &Stream[T]{p: &pipeline{src: typedSource[T]{src: src}, opts: defaultOptions()}}
}

// Of creates a stream over the given values.
func Of[T any](values ...T) *Stream[T] {
	return FromSlice(values)
}

// FromSlice creates a stream over a slice. The slice is not copied; it must
// not be mutated while the stream is live.
func FromSlice[T any](items []T) *Stream[T] {
	return FromSource(source.Slice(items))
}

// Range creates a stream over the half-open integer interval [lo, hi).
func Range(lo, hi int) *Stream[int] {
	return FromSource(source.Range(lo, hi))
}

// Generate creates an unbounded stream from a generator. Terminal
// operations that require full traversal fail at compile time unless a
// short-circuiting stage is present or AssumeFinite is set.
func Generate[T any](next func() (T, error)) *Stream[T] {
	return FromSource(source.Generate(next))
}

// Iterate creates an unbounded ordered stream of seed, fn(seed), ...
func Iterate[T any](seed T, fn func(T) T) *Stream[T] {
	return FromSource(source.Iterate(seed, fn))
}

// FromChan creates a stream draining a channel until it is closed.
func FromChan[T any](ch <-chan T) *Stream[T] {
	return FromSource(source.FromChan(ch))
}

// FromIterator creates a stream over an external pull iterator.
func FromIterator[T any](iter source.Iterator[T]) *Stream[T] {
	return FromSource(source.FromIterator(iter))
}

// --- Stateless intermediate operations ---

// Filter keeps only elements that satisfy the predicate.
func (s *Stream[T]) Filter(pred func(T) bool) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateless,
		name: "filter",
		wrap: func(down sink) sink {
			return &filterSink{chained: chained{down: down}, pred: func(v any) bool {
				return pred(v.(T))
			}}
		},
	})
	return s
}

// Peek calls fn as a side-effect for each element, then passes the element
// through unchanged. Side-effecting taps are unsafe under best-effort
// cancellation, so pipelines containing Peek are rejected when evaluated in
// parallel.
func (s *Stream[T]) Peek(fn func(T) error) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind:          kindStateless,
		name:          "peek",
		sideEffecting: true,
		wrap: func(down sink) sink {
			return &peekSink{chained: chained{down: down}, fn: func(v any) error {
				return fn(v.(T))
			}}
		},
	})
	return s
}

// Map transforms each element with fn.
func Map[I, O any](s *Stream[I], fn func(I) O) *Stream[O] {
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateless,
		name: "map",
		wrap: func(down sink) sink {
			return &mapSink{chained: chained{down: down}, fn: func(v any) any {
				return fn(v.(I))
			}}
		},
	})
	return &Stream[O]{p: s.p}
}

// FlatMap expands each element into zero or more output elements.
func FlatMap[I, O any](s *Stream[I], fn func(I) []O) *Stream[O] {
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateless,
		name: "flatMap",
		wrap: func(down sink) sink {
			return &flatMapSink{chained: chained{down: down}, fn: func(v any) []any {
				outs := fn(v.(I))
				boxed := make([]any, len(outs))
				for i, o := range outs {
					boxed[i] = o
				}
				return boxed
			}}
		},
	})
	return &Stream[O]{p: s.p}
}

// Chunk groups consecutive elements into slices of up to n elements. The
// final chunk may be shorter. Chunk boundaries depend on encounter order,
// so a pipeline containing Chunk evaluates sequentially.
func Chunk[T any](s *Stream[T], n int) *Stream[[]T] {
	if n < 1 {
		n = 1
	}
	s.p.stages = append(s.p.stages, stage{
		kind:    kindStateless,
		name:    "chunk",
		seqOnly: true,
		wrap: func(down sink) sink {
			return &chunkSink{chained: chained{down: down}, size: n, convert: func(buf []any) any {
				out := make([]T, len(buf))
				for i, v := range buf {
					out[i] = v.(T)
				}
				return out
			}}
		},
	})
	return &Stream[[]T]{p: s.p}
}

// --- Stateful (barrier) operations ---

// Sorted reorders the stream by cmp (negative when a sorts before b). The
// sort is a fusion barrier: no element flows downstream until every
// upstream element has been seen. The sort is stable.
func (s *Stream[T]) Sorted(cmp func(a, b T) int) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateful,
		name: "sorted",
		barrier: &barrierOp{
			maxElements: -1,
			// cmp may order descending, so the buffer claims no SORTED
			// characteristic; ascending order is what the flag promises.
			apply: func(buf []any) ([]any, error) {
				slices.SortStableFunc(buf, func(a, b any) int {
					return cmp(a.(T), b.(T))
				})
				return buf, nil
			},
		},
	})
	return s
}

// Distinct drops elements equal to one already seen, keeping the first
// occurrence. Element values are used as map keys, so the dynamic type of T
// must be comparable; use DistinctBy for types that are not.
func (s *Stream[T]) Distinct() *Stream[T] {
	return s.distinctBy("distinct", func(v any) any { return v })
}

// DistinctBy drops elements whose key has been seen before, keeping the
// first occurrence per key.
func (s *Stream[T]) DistinctBy(key func(T) any) *Stream[T] {
	return s.distinctBy("distinctBy", func(v any) any { return key(v.(T)) })
}

func (s *Stream[T]) distinctBy(name string, key func(any) any) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateful,
		name: name,
		// sequential form streams through a seen-set; the parallel scan
		// phase materializes and the dedup merge runs serially.
		wrap: func(down sink) sink {
			return &distinctSink{chained: chained{down: down}, key: key}
		},
		barrier: &barrierOp{
			maxElements: -1,
			apply: func(buf []any) ([]any, error) {
				seen := make(map[any]struct{}, len(buf))
				out := buf[:0]
				for _, v := range buf {
					k := key(v)
					if _, dup := seen[k]; dup {
						continue
					}
					seen[k] = struct{}{}
					out = append(out, v)
				}
				return out, nil
			},
			chars: source.Distinct,
		},
	})
	return s
}

// --- Short-circuiting operations ---

// Limit truncates the stream to at most n elements.
func (s *Stream[T]) Limit(n int64) *Stream[T] {
	if n < 0 {
		n = 0
	}
	s.p.stages = append(s.p.stages, stage{
		kind:          kindShortCircuit,
		name:          "limit",
		shortCircuits: true,
		wrap: func(down sink) sink {
			return &limitSink{chained: chained{down: down}, remaining: n}
		},
		barrier: &barrierOp{
			maxElements: n,
			apply: func(buf []any) ([]any, error) {
				if int64(len(buf)) > n {
					buf = buf[:n]
				}
				return buf, nil
			},
		},
	})
	return s
}

// Skip drops the first n elements.
func (s *Stream[T]) Skip(n int64) *Stream[T] {
	if n < 0 {
		n = 0
	}
	s.p.stages = append(s.p.stages, stage{
		kind: kindStateless,
		name: "skip",
		wrap: func(down sink) sink {
			return &skipSink{chained: chained{down: down}, toSkip: n}
		},
		barrier: &barrierOp{
			maxElements: -1,
			apply: func(buf []any) ([]any, error) {
				if int64(len(buf)) <= n {
					return nil, nil
				}
				return buf[n:], nil
			},
		},
	})
	return s
}

// TakeWhile keeps elements until pred first fails, then stops the
// traversal. Prefix semantics depend on encounter order, so a pipeline
// containing TakeWhile evaluates sequentially.
func (s *Stream[T]) TakeWhile(pred func(T) bool) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind:          kindShortCircuit,
		name:          "takeWhile",
		shortCircuits: true,
		seqOnly:       true,
		wrap: func(down sink) sink {
			return &takeWhileSink{chained: chained{down: down}, pred: func(v any) bool {
				return pred(v.(T))
			}}
		},
	})
	return s
}

// DropWhile drops elements until pred first fails, then forwards the rest.
// Like TakeWhile it forces sequential evaluation.
func (s *Stream[T]) DropWhile(pred func(T) bool) *Stream[T] {
	s.p.stages = append(s.p.stages, stage{
		kind:    kindStateless,
		name:    "dropWhile",
		seqOnly: true,
		wrap: func(down sink) sink {
			return &dropWhileSink{chained: chained{down: down}, pred: func(v any) bool {
				return pred(v.(T))
			}}
		},
	})
	return s
}

// --- Evaluation mode ---

// Parallel marks the pipeline for fork-join parallel evaluation.
func (s *Stream[T]) Parallel() *Stream[T] {
	s.p.opts.parallel = true
	return s
}

// Sequential marks the pipeline for single-threaded evaluation (default).
func (s *Stream[T]) Sequential() *Stream[T] {
	s.p.opts.parallel = false
	return s
}

// Unordered waives encounter-order guarantees, permitting the parallel
// evaluator to combine partial results in completion order.
func (s *Stream[T]) Unordered() *Stream[T] {
	s.p.opts.unordered = true
	return s
}

// AssumeFinite overrides the unbounded-traversal compile check for sources
// of unknown size that the caller knows will terminate.
func (s *Stream[T]) AssumeFinite() *Stream[T] {
	s.p.opts.assumeFinite = true
	return s
}

// WithParallelism bounds the number of concurrent workers used by parallel
// evaluation.
func (s *Stream[T]) WithParallelism(n int) *Stream[T] {
	if n > 0 {
		s.p.opts.parallelism = n
	}
	return s
}

// WithMinLeafSize sets the smallest segment the parallel evaluator will
// split; 1 splits all the way down to single elements.
func (s *Stream[T]) WithMinLeafSize(n int64) *Stream[T] {
	if n > 0 {
		s.p.opts.minLeafSize = n
	}
	return s
}

// ordered reports whether the pipeline must preserve encounter order.
func (p *pipeline) ordered() bool {
	return p.src.characteristics().Has(source.Ordered) && !p.opts.unordered
}
