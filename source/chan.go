package source

import "context"

type chanSource[T any] struct {
	ch   <-chan T
	done bool
}

// FromChan creates a source that drains values from a channel until it is
// closed. The source is ORDERED with unknown size and never splits.
func FromChan[T any](ch <-chan T) Source[T] {
	return &chanSource[T]{ch: ch}
}

func (s *chanSource[T]) EstimateSize() (int64, bool) { return -1, false }

func (s *chanSource[T]) Characteristics() Characteristics { return Ordered }

func (s *chanSource[T]) TryAdvance(ctx context.Context, visit func(T) error) (bool, error) {
	if s.done {
		return false, nil
	}
	select {
	case v, open := <-s.ch:
		if !open {
			s.done = true
			return false, nil
		}
		if err := visit(v); err != nil {
			return false, err
		}
		return true, nil
	case <-ctx.Done():
		s.done = true
		return false, ctx.Err()
	}
}

func (s *chanSource[T]) TrySplit() Source[T] { return nil }
