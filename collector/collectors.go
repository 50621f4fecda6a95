package collector

import (
	"fmt"
	"strings"
)

// ToSlice collects every element into a slice in encounter order.
func ToSlice[T any]() Collector[T, []T, []T] {
	return Collector[T, []T, []T]{
		Supplier: func() []T { return nil },
		Accumulator: func(a []T, t T) ([]T, error) {
			return append(a, t), nil
		},
		Combiner: func(a, b []T) ([]T, error) {
			return append(a, b...), nil
		},
		Finisher:        identityFinish[[]T],
		Characteristics: IdentityFinish,
	}
}

// ToSet collects every element into a set keyed by value equality.
func ToSet[T comparable]() Collector[T, map[T]struct{}, map[T]struct{}] {
	return Collector[T, map[T]struct{}, map[T]struct{}]{
		Supplier: func() map[T]struct{} { return make(map[T]struct{}) },
		Accumulator: func(a map[T]struct{}, t T) (map[T]struct{}, error) {
			a[t] = struct{}{}
			return a, nil
		},
		Combiner: func(a, b map[T]struct{}) (map[T]struct{}, error) {
			for k := range b {
				a[k] = struct{}{}
			}
			return a, nil
		},
		Finisher:        identityFinish[map[T]struct{}],
		Characteristics: Unordered | IdentityFinish,
	}
}

// ToMap collects elements into a map using keyFn and valFn. When two
// elements map to the same key, merge resolves the collision; a nil merge
// makes duplicate keys an error.
func ToMap[T any, K comparable, V any](
	keyFn func(T) K,
	valFn func(T) V,
	merge func(V, V) (V, error),
) Collector[T, map[K]V, map[K]V] {
	put := func(m map[K]V, k K, v V) (map[K]V, error) {
		if old, exists := m[k]; exists {
			if merge == nil {
				return m, fmt.Errorf("duplicate key %v", k)
			}
			merged, err := merge(old, v)
			if err != nil {
				return m, err
			}
			m[k] = merged
			return m, nil
		}
		m[k] = v
		return m, nil
	}
	return Collector[T, map[K]V, map[K]V]{
		Supplier: func() map[K]V { return make(map[K]V) },
		Accumulator: func(m map[K]V, t T) (map[K]V, error) {
			return put(m, keyFn(t), valFn(t))
		},
		Combiner: func(a, b map[K]V) (map[K]V, error) {
			for k, v := range b {
				var err error
				if a, err = put(a, k, v); err != nil {
					return a, err
				}
			}
			return a, nil
		},
		Finisher:        identityFinish[map[K]V],
		Characteristics: IdentityFinish,
	}
}

// Counting counts elements.
func Counting[T any]() Collector[T, int64, int64] {
	return Collector[T, int64, int64]{
		Supplier: func() int64 { return 0 },
		Accumulator: func(n int64, _ T) (int64, error) {
			return n + 1, nil
		},
		Combiner: func(a, b int64) (int64, error) {
			return a + b, nil
		},
		Finisher:        identityFinish[int64],
		Characteristics: Unordered | IdentityFinish,
	}
}

// Reducing folds elements with an associative binary operation starting
// from identity.
func Reducing[T any](identity T, op func(T, T) (T, error)) Collector[T, T, T] {
	return Collector[T, T, T]{
		Supplier: func() T { return identity },
		Accumulator: func(a T, t T) (T, error) {
			return op(a, t)
		},
		Combiner:        op,
		Finisher:        identityFinish[T],
		Characteristics: IdentityFinish,
	}
}

// joinBuffer is the mutable accumulation behind Joining. The separator is
// written between elements as they arrive; prefix and suffix are applied by
// the finisher.
type joinBuffer struct {
	sb       strings.Builder
	sep      string
	nonEmpty bool
}

// Joining concatenates string elements with sep between elements and
// prefix/suffix around the whole result.
func Joining(sep, prefix, suffix string) Collector[string, *joinBuffer, string] {
	return Collector[string, *joinBuffer, string]{
		Supplier: func() *joinBuffer { return &joinBuffer{sep: sep} },
		Accumulator: func(b *joinBuffer, s string) (*joinBuffer, error) {
			if b.nonEmpty {
				b.sb.WriteString(b.sep)
			}
			b.sb.WriteString(s)
			b.nonEmpty = true
			return b, nil
		},
		Combiner: func(a, b *joinBuffer) (*joinBuffer, error) {
			if b.nonEmpty {
				if a.nonEmpty {
					a.sb.WriteString(a.sep)
				}
				a.sb.WriteString(b.sb.String())
				a.nonEmpty = true
			}
			return a, nil
		},
		Finisher: func(b *joinBuffer) (string, error) {
			return prefix + b.sb.String() + suffix, nil
		},
	}
}
