package stream

import (
	"context"

	"github.com/kbukum/streamkit/collector"
	"github.com/kbukum/streamkit/errors"
)

// Collect reduces the stream with a generalized collector. This is the
// primary terminal operation; most others are thin wrappers over it.
func Collect[T, A, R any](ctx context.Context, s *Stream[T], c collector.Collector[T, A, R]) (R, error) {
	erased := eraseCollector(c)
	res, err := s.p.evaluate(ctx, terminalOp{name: "collect", requiresFull: true, col: &erased})
	if err != nil {
		var zero R
		return zero, err
	}
	return res.(R), nil
}

// ToSlice collects all elements into a slice in encounter order.
func (s *Stream[T]) ToSlice(ctx context.Context) ([]T, error) {
	return Collect(ctx, s, collector.ToSlice[T]())
}

// Count returns the number of elements.
func (s *Stream[T]) Count(ctx context.Context) (int64, error) {
	return Collect(ctx, s, collector.Counting[T]())
}

// Reduce folds the elements with an associative operation starting from
// identity. op must be associative and identity must be a true identity for
// it, or parallel evaluation produces unspecified results.
func (s *Stream[T]) Reduce(ctx context.Context, identity T, op func(T, T) T) (T, error) {
	return Collect(ctx, s, collector.Reducing(identity, func(a, b T) (T, error) {
		return op(a, b), nil
	}))
}

// Min returns the smallest element by cmp. The boolean is false when the
// stream is empty.
func (s *Stream[T]) Min(ctx context.Context, cmp func(a, b T) int) (T, bool, error) {
	picked, err := Collect(ctx, s, collector.MinBy(cmp))
	return picked.Value, picked.OK, err
}

// Max returns the largest element by cmp. The boolean is false when the
// stream is empty.
func (s *Stream[T]) Max(ctx context.Context, cmp func(a, b T) int) (T, bool, error) {
	picked, err := Collect(ctx, s, collector.MaxBy(cmp))
	return picked.Value, picked.OK, err
}

// ForEach invokes fn for every element with no ordering guarantee. Under
// parallel evaluation fn is called concurrently and must be safe for that.
func (s *Stream[T]) ForEach(ctx context.Context, fn func(T) error) error {
	col := anyCollector{
		supplier:    func() any { return struct{}{} },
		accumulator: func(acc, v any) (any, error) { return acc, fn(v.(T)) },
		combiner:    func(a, _ any) (any, error) { return a, nil },
		finisher:    func(acc any) (any, error) { return acc, nil },
		chars:       collector.Concurrent | collector.Unordered | collector.IdentityFinish,
	}
	_, err := s.p.evaluate(ctx, terminalOp{name: "forEach", requiresFull: true, col: &col})
	return err
}

// ForEachOrdered invokes fn for every element in encounter order even under
// parallel evaluation, which materializes the elements first and replays
// them on the calling goroutine.
func (s *Stream[T]) ForEachOrdered(ctx context.Context, fn func(T) error) error {
	if s.p.opts.parallel && s.p.ordered() {
		items, err := s.ToSlice(ctx)
		if err != nil {
			return err
		}
		for _, v := range items {
			if err := causeOf(ctx); err != nil {
				return err
			}
			if err := fn(v); err != nil {
				return errors.CollectorFailure("accumulator", err)
			}
		}
		return nil
	}
	col := anyCollector{
		supplier:    func() any { return struct{}{} },
		accumulator: func(acc, v any) (any, error) { return acc, fn(v.(T)) },
		combiner:    func(a, _ any) (any, error) { return a, nil },
		finisher:    func(acc any) (any, error) { return acc, nil },
		chars:       collector.IdentityFinish,
	}
	_, err := s.p.evaluate(ctx, terminalOp{name: "forEachOrdered", requiresFull: true, col: &col})
	return err
}

// AnyMatch reports whether any element satisfies pred, pulling only as many
// elements as needed to decide.
func (s *Stream[T]) AnyMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	res, err := s.Filter(pred).p.evaluate(ctx, terminalOp{name: "anyMatch", search: &searchOp{}})
	if err != nil {
		return false, err
	}
	return res.(searchResult).ok, nil
}

// AllMatch reports whether every element satisfies pred. It short-circuits
// on the first counterexample.
func (s *Stream[T]) AllMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	counter := func(v T) bool { return !pred(v) }
	res, err := s.Filter(counter).p.evaluate(ctx, terminalOp{name: "allMatch", search: &searchOp{}})
	if err != nil {
		return false, err
	}
	return !res.(searchResult).ok, nil
}

// NoneMatch reports whether no element satisfies pred. It short-circuits on
// the first match.
func (s *Stream[T]) NoneMatch(ctx context.Context, pred func(T) bool) (bool, error) {
	ok, err := s.AnyMatch(ctx, pred)
	return !ok && err == nil, err
}

// FindFirst returns the first element in encounter order, or false when the
// stream is empty. On ordered pipelines the result is deterministic even
// under parallel evaluation: the leftmost candidate wins and subtrees right
// of it are pruned.
func (s *Stream[T]) FindFirst(ctx context.Context) (T, bool, error) {
	return s.find(ctx, terminalOp{name: "findFirst", search: &searchOp{leftmost: true}})
}

// FindAny returns an arbitrary element, stopping all workers as soon as any
// of them produces one.
func (s *Stream[T]) FindAny(ctx context.Context) (T, bool, error) {
	return s.find(ctx, terminalOp{name: "findAny", search: &searchOp{}})
}

func (s *Stream[T]) find(ctx context.Context, op terminalOp) (T, bool, error) {
	var zero T
	res, err := s.p.evaluate(ctx, op)
	if err != nil {
		return zero, false, err
	}
	sr := res.(searchResult)
	if !sr.ok {
		return zero, false, nil
	}
	return sr.value.(T), true, nil
}
