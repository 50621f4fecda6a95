package source

import "context"

type generateSource[T any] struct {
	next func() (T, error)
	char Characteristics
	dead bool
}

// Generate creates an unbounded generator-backed source. Each advance calls
// next; an error from next exhausts the source and is reported as a producer
// failure. The source reports unknown size, claims no characteristics, and
// never splits.
func Generate[T any](next func() (T, error)) Source[T] {
	return &generateSource[T]{next: next}
}

// Iterate creates an unbounded source of seed, fn(seed), fn(fn(seed)), ...
// Unlike Generate the sequence has a defined encounter order.
func Iterate[T any](seed T, fn func(T) T) Source[T] {
	cur := seed
	first := true
	return &generateSource[T]{
		next: func() (T, error) {
			if first {
				first = false
				return cur, nil
			}
			cur = fn(cur)
			return cur, nil
		},
		char: Ordered,
	}
}

func (s *generateSource[T]) EstimateSize() (int64, bool) { return -1, false }

func (s *generateSource[T]) Characteristics() Characteristics { return s.char }

func (s *generateSource[T]) TryAdvance(ctx context.Context, visit func(T) error) (bool, error) {
	if s.dead {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		s.dead = true
		return false, err
	}
	v, err := s.next()
	if err != nil {
		s.dead = true
		return false, err
	}
	if err := visit(v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *generateSource[T]) TrySplit() Source[T] { return nil }
