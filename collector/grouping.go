package collector

// GroupingBy classifies each element with classifier and folds it into the
// downstream accumulation for that key. Two partial groupings merge
// key-by-key using the downstream Collector's own combiner.
func GroupingBy[T any, K comparable, A, D any](
	classifier func(T) K,
	downstream Collector[T, A, D],
) Collector[T, map[K]A, map[K]D] {
	return Collector[T, map[K]A, map[K]D]{
		Supplier: func() map[K]A { return make(map[K]A) },
		Accumulator: func(m map[K]A, t T) (map[K]A, error) {
			k := classifier(t)
			acc, ok := m[k]
			if !ok {
				acc = downstream.Supplier()
			}
			acc, err := downstream.Accumulator(acc, t)
			if err != nil {
				return m, err
			}
			m[k] = acc
			return m, nil
		},
		Combiner: func(a, b map[K]A) (map[K]A, error) {
			for k, bAcc := range b {
				if aAcc, ok := a[k]; ok {
					merged, err := downstream.Combiner(aAcc, bAcc)
					if err != nil {
						return a, err
					}
					a[k] = merged
				} else {
					a[k] = bAcc
				}
			}
			return a, nil
		},
		Finisher: func(m map[K]A) (map[K]D, error) {
			out := make(map[K]D, len(m))
			for k, acc := range m {
				d, err := downstream.Finisher(acc)
				if err != nil {
					return nil, err
				}
				out[k] = d
			}
			return out, nil
		},
	}
}

// partitionState holds the two downstream accumulations of PartitioningBy.
type partitionState[A any] struct {
	matched   A
	unmatched A
}

// PartitioningBy is a two-key specialization of grouping over a boolean
// classifier. Both keys are always present in the result, even when one
// partition is empty.
func PartitioningBy[T, A, D any](
	pred func(T) bool,
	downstream Collector[T, A, D],
) Collector[T, *partitionState[A], map[bool]D] {
	return Collector[T, *partitionState[A], map[bool]D]{
		Supplier: func() *partitionState[A] {
			return &partitionState[A]{
				matched:   downstream.Supplier(),
				unmatched: downstream.Supplier(),
			}
		},
		Accumulator: func(p *partitionState[A], t T) (*partitionState[A], error) {
			var err error
			if pred(t) {
				p.matched, err = downstream.Accumulator(p.matched, t)
			} else {
				p.unmatched, err = downstream.Accumulator(p.unmatched, t)
			}
			return p, err
		},
		Combiner: func(a, b *partitionState[A]) (*partitionState[A], error) {
			var err error
			if a.matched, err = downstream.Combiner(a.matched, b.matched); err != nil {
				return a, err
			}
			if a.unmatched, err = downstream.Combiner(a.unmatched, b.unmatched); err != nil {
				return a, err
			}
			return a, nil
		},
		Finisher: func(p *partitionState[A]) (map[bool]D, error) {
			matched, err := downstream.Finisher(p.matched)
			if err != nil {
				return nil, err
			}
			unmatched, err := downstream.Finisher(p.unmatched)
			if err != nil {
				return nil, err
			}
			return map[bool]D{true: matched, false: unmatched}, nil
		},
	}
}
