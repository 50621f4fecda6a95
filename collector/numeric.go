package collector

// Number constrains the numeric element shapes the summing and summarizing
// collectors accept.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Summing sums the numeric projection of each element.
func Summing[T any, N Number](fn func(T) N) Collector[T, N, N] {
	return Collector[T, N, N]{
		Supplier: func() N { var zero N; return zero },
		Accumulator: func(sum N, t T) (N, error) {
			return sum + fn(t), nil
		},
		Combiner: func(a, b N) (N, error) {
			return a + b, nil
		},
		Finisher:        identityFinish[N],
		Characteristics: Unordered | IdentityFinish,
	}
}

type avgState struct {
	sum   float64
	count int64
}

// Averaging computes the arithmetic mean of a float64 projection of each
// element. The mean of an empty sequence is 0.
func Averaging[T any](fn func(T) float64) Collector[T, *avgState, float64] {
	return Collector[T, *avgState, float64]{
		Supplier: func() *avgState { return &avgState{} },
		Accumulator: func(s *avgState, t T) (*avgState, error) {
			s.sum += fn(t)
			s.count++
			return s, nil
		},
		Combiner: func(a, b *avgState) (*avgState, error) {
			a.sum += b.sum
			a.count += b.count
			return a, nil
		},
		Finisher: func(s *avgState) (float64, error) {
			if s.count == 0 {
				return 0, nil
			}
			return s.sum / float64(s.count), nil
		},
		Characteristics: Unordered,
	}
}

// Summary holds count, sum, and extrema statistics of a numeric projection.
type Summary[N Number] struct {
	Count int64
	Sum   N
	Min   N
	Max   N
}

// Mean returns the arithmetic mean, or 0 for an empty summary.
func (s Summary[N]) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.Sum) / float64(s.Count)
}

// Summarizing computes count, sum, min, max, and mean of a numeric
// projection in one pass.
func Summarizing[T any, N Number](fn func(T) N) Collector[T, *Summary[N], Summary[N]] {
	return Collector[T, *Summary[N], Summary[N]]{
		Supplier: func() *Summary[N] { return &Summary[N]{} },
		Accumulator: func(s *Summary[N], t T) (*Summary[N], error) {
			n := fn(t)
			if s.Count == 0 {
				s.Min, s.Max = n, n
			} else {
				if n < s.Min {
					s.Min = n
				}
				if n > s.Max {
					s.Max = n
				}
			}
			s.Count++
			s.Sum += n
			return s, nil
		},
		Combiner: func(a, b *Summary[N]) (*Summary[N], error) {
			if b.Count == 0 {
				return a, nil
			}
			if a.Count == 0 {
				return b, nil
			}
			if b.Min < a.Min {
				a.Min = b.Min
			}
			if b.Max > a.Max {
				a.Max = b.Max
			}
			a.Count += b.Count
			a.Sum += b.Sum
			return a, nil
		},
		Finisher: func(s *Summary[N]) (Summary[N], error) {
			return *s, nil
		},
		Characteristics: Unordered,
	}
}

// Picked holds the result of MinBy or MaxBy; OK is false for empty input.
type Picked[T any] struct {
	Value T
	OK    bool
}

func picking[T any](better func(candidate, current T) bool) Collector[T, *Picked[T], Picked[T]] {
	return Collector[T, *Picked[T], Picked[T]]{
		Supplier: func() *Picked[T] { return &Picked[T]{} },
		Accumulator: func(p *Picked[T], t T) (*Picked[T], error) {
			if !p.OK || better(t, p.Value) {
				p.Value, p.OK = t, true
			}
			return p, nil
		},
		Combiner: func(a, b *Picked[T]) (*Picked[T], error) {
			if !a.OK {
				return b, nil
			}
			if b.OK && better(b.Value, a.Value) {
				return b, nil
			}
			return a, nil
		},
		Finisher: func(p *Picked[T]) (Picked[T], error) {
			return *p, nil
		},
		Characteristics: Unordered,
	}
}

// MinBy picks the smallest element under cmp (negative when a < b).
func MinBy[T any](cmp func(a, b T) int) Collector[T, *Picked[T], Picked[T]] {
	return picking(func(candidate, current T) bool { return cmp(candidate, current) < 0 })
}

// MaxBy picks the largest element under cmp.
func MaxBy[T any](cmp func(a, b T) int) Collector[T, *Picked[T], Picked[T]] {
	return picking(func(candidate, current T) bool { return cmp(candidate, current) > 0 })
}
