package stream

import (
	"context"

	"github.com/kbukum/streamkit/collector"
	"github.com/kbukum/streamkit/source"
)

// anySource is the erased form of source.Source used inside the engine.
// The public API stays fully typed; elements are boxed only while they flow
// through the compiled sink chain.
type anySource interface {
	estimateSize() (int64, bool)
	characteristics() source.Characteristics
	tryAdvance(ctx context.Context, visit func(any) error) (bool, error)
	trySplit() anySource
}

type typedSource[T any] struct {
	src source.Source[T]
}

func (s typedSource[T]) estimateSize() (int64, bool) { return s.src.EstimateSize() }

func (s typedSource[T]) characteristics() source.Characteristics {
	return s.src.Characteristics()
}

func (s typedSource[T]) tryAdvance(ctx context.Context, visit func(any) error) (bool, error) {
	return s.src.TryAdvance(ctx, func(v T) error { return visit(v) })
}

func (s typedSource[T]) trySplit() anySource {
	sub := s.src.TrySplit()
	if sub == nil {
		return nil
	}
	return typedSource[T]{src: sub}
}

// bufferSource re-exposes a materialized barrier buffer as a fresh
// splittable source for the next pipeline segment. The buffer is owned by
// the segment and released when the segment finishes.
type bufferSource struct {
	items []any
	pos   int
	extra source.Characteristics
}

func (s *bufferSource) estimateSize() (int64, bool) {
	return int64(len(s.items) - s.pos), true
}

func (s *bufferSource) characteristics() source.Characteristics {
	return source.Ordered | source.Sized | source.Subsized | s.extra
}

func (s *bufferSource) tryAdvance(_ context.Context, visit func(any) error) (bool, error) {
	if s.pos >= len(s.items) {
		return false, nil
	}
	v := s.items[s.pos]
	s.pos++
	if err := visit(v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *bufferSource) trySplit() anySource {
	remaining := len(s.items) - s.pos
	if remaining < 2 {
		return nil
	}
	mid := s.pos + remaining/2
	prefix := &bufferSource{items: s.items[:mid], pos: s.pos, extra: s.extra}
	s.pos = mid
	return prefix
}

// anyCollector is the erased form of collector.Collector driven by the
// evaluators.
type anyCollector struct {
	supplier    func() any
	accumulator func(acc, v any) (any, error)
	combiner    func(a, b any) (any, error)
	finisher    func(acc any) (any, error)
	chars       collector.Characteristics
}

func eraseCollector[T, A, R any](c collector.Collector[T, A, R]) anyCollector {
	return anyCollector{
		supplier: func() any { return c.Supplier() },
		accumulator: func(acc, v any) (any, error) {
			return c.Accumulator(acc.(A), v.(T))
		},
		combiner: func(a, b any) (any, error) {
			return c.Combiner(a.(A), b.(A))
		},
		finisher: func(acc any) (any, error) {
			return c.Finisher(acc.(A))
		},
		chars: c.Characteristics,
	}
}

// bufferCollector accumulates boxed elements for barrier materialization.
// A non-negative bound truncates the accumulation (-1 means unbounded); the
// left side of a combine always wins, preserving encounter order.
func bufferCollector(bound int64) anyCollector {
	return anyCollector{
		supplier: func() any { return []any(nil) },
		accumulator: func(acc, v any) (any, error) {
			return append(acc.([]any), v), nil
		},
		combiner: func(a, b any) (any, error) {
			merged := append(a.([]any), b.([]any)...)
			if bound >= 0 && int64(len(merged)) > bound {
				merged = merged[:bound]
			}
			return merged, nil
		},
		finisher: func(acc any) (any, error) { return acc, nil },
		chars:    collector.IdentityFinish,
	}
}
