package source

import "context"

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

type iteratorSource[T any] struct {
	iter Iterator[T]
	done bool
}

// FromIterator creates a source backed by an external pull iterator. The
// source is ORDERED with unknown size and never splits. The iterator is
// closed when the source is exhausted or the iterator fails.
func FromIterator[T any](iter Iterator[T]) Source[T] {
	return &iteratorSource[T]{iter: iter}
}

func (s *iteratorSource[T]) EstimateSize() (int64, bool) { return -1, false }

func (s *iteratorSource[T]) Characteristics() Characteristics { return Ordered }

func (s *iteratorSource[T]) TryAdvance(ctx context.Context, visit func(T) error) (bool, error) {
	if s.done {
		return false, nil
	}
	v, ok, err := s.iter.Next(ctx)
	if err != nil {
		s.done = true
		_ = s.iter.Close()
		return false, err
	}
	if !ok {
		s.done = true
		if cerr := s.iter.Close(); cerr != nil {
			return false, cerr
		}
		return false, nil
	}
	if err := visit(v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *iteratorSource[T]) TrySplit() Source[T] { return nil }
