package source

import "context"

type rangeSource struct {
	next, end int
}

// Range creates a source over the half-open integer interval [lo, hi).
// It is ORDERED, SORTED, DISTINCT, SIZED, and SUBSIZED, and splits in
// halves without materializing the interval.
func Range(lo, hi int) Source[int] {
	if hi < lo {
		hi = lo
	}
	return &rangeSource{next: lo, end: hi}
}

func (s *rangeSource) EstimateSize() (int64, bool) {
	return int64(s.end - s.next), true
}

func (s *rangeSource) Characteristics() Characteristics {
	return Ordered | Sorted | Distinct | Sized | Subsized
}

func (s *rangeSource) TryAdvance(_ context.Context, visit func(int) error) (bool, error) {
	if s.next >= s.end {
		return false, nil
	}
	v := s.next
	s.next++
	if err := visit(v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *rangeSource) TrySplit() Source[int] {
	remaining := s.end - s.next
	if remaining < minSplitSize {
		return nil
	}
	mid := s.next + remaining/2
	prefix := &rangeSource{next: s.next, end: mid}
	s.next = mid
	return prefix
}
