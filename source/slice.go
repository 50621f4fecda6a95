package source

import "context"

// minSplitSize is the smallest remaining count a slice source will split.
const minSplitSize = 2

type sliceSource[T any] struct {
	items []T
	pos   int
	char  Characteristics
}

// Slice creates an array-backed source over items. The source is ORDERED,
// SIZED, and SUBSIZED, and splits in halves down to single elements.
func Slice[T any](items []T) Source[T] {
	return &sliceSource[T]{
		items: items,
		char:  Ordered | Sized | Subsized,
	}
}

// SliceWith creates an array-backed source claiming extra characteristics
// on top of ORDERED|SIZED|SUBSIZED. The caller asserts the claims hold;
// claiming SORTED over unsorted data is undefined behavior downstream.
func SliceWith[T any](items []T, extra Characteristics) Source[T] {
	return &sliceSource[T]{
		items: items,
		char:  Ordered | Sized | Subsized | extra,
	}
}

func (s *sliceSource[T]) EstimateSize() (int64, bool) {
	return int64(len(s.items) - s.pos), true
}

func (s *sliceSource[T]) Characteristics() Characteristics { return s.char }

func (s *sliceSource[T]) TryAdvance(_ context.Context, visit func(T) error) (bool, error) {
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

func (s *sliceSource[T]) TrySplit() Source[T] {
	remaining := len(s.items) - s.pos
	if remaining < minSplitSize {
		return nil
	}
	mid := s.pos + remaining/2
	prefix := &sliceSource[T]{
		items: s.items[:mid],
		pos:   s.pos,
		char:  s.char,
	}
	s.pos = mid
	return prefix
}
