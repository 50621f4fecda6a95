package collector

import (
	"sync"
	"sync/atomic"
)

// CountingConcurrent counts elements into a single shared atomic counter.
// Under parallel evaluation the evaluator shares one accumulator across all
// tasks and skips the combine phase.
func CountingConcurrent[T any]() Collector[T, *atomic.Int64, int64] {
	return Collector[T, *atomic.Int64, int64]{
		Supplier: func() *atomic.Int64 { return &atomic.Int64{} },
		Accumulator: func(n *atomic.Int64, _ T) (*atomic.Int64, error) {
			n.Add(1)
			return n, nil
		},
		Combiner: func(a, b *atomic.Int64) (*atomic.Int64, error) {
			a.Add(b.Load())
			return a, nil
		},
		Finisher: func(n *atomic.Int64) (int64, error) {
			return n.Load(), nil
		},
		Characteristics: Concurrent | Unordered | IdentityFinish,
	}
}

// concurrentGroups is the mutex-guarded accumulation behind
// GroupingByConcurrent. Accumulation is externally locked: one coarse lock
// guards the whole grouping map.
type concurrentGroups[K comparable, A any] struct {
	mu sync.Mutex
	m  map[K]A
}

// GroupingByConcurrent groups elements into one shared accumulation mutated
// directly by every task. Element order within a group is not preserved
// under parallel evaluation; combine is skipped when the evaluator takes
// the concurrent path.
func GroupingByConcurrent[T any, K comparable, A, D any](
	classifier func(T) K,
	downstream Collector[T, A, D],
) Collector[T, *concurrentGroups[K, A], map[K]D] {
	return Collector[T, *concurrentGroups[K, A], map[K]D]{
		Supplier: func() *concurrentGroups[K, A] {
			return &concurrentGroups[K, A]{m: make(map[K]A)}
		},
		Accumulator: func(g *concurrentGroups[K, A], t T) (*concurrentGroups[K, A], error) {
			k := classifier(t)
			g.mu.Lock()
			defer g.mu.Unlock()
			acc, ok := g.m[k]
			if !ok {
				acc = downstream.Supplier()
			}
			acc, err := downstream.Accumulator(acc, t)
			if err != nil {
				return g, err
			}
			g.m[k] = acc
			return g, nil
		},
		Combiner: func(a, b *concurrentGroups[K, A]) (*concurrentGroups[K, A], error) {
			a.mu.Lock()
			defer a.mu.Unlock()
			b.mu.Lock()
			defer b.mu.Unlock()
			for k, bAcc := range b.m {
				if aAcc, ok := a.m[k]; ok {
					merged, err := downstream.Combiner(aAcc, bAcc)
					if err != nil {
						return a, err
					}
					a.m[k] = merged
				} else {
					a.m[k] = bAcc
				}
			}
			return a, nil
		},
		Finisher: func(g *concurrentGroups[K, A]) (map[K]D, error) {
			g.mu.Lock()
			defer g.mu.Unlock()
			out := make(map[K]D, len(g.m))
			for k, acc := range g.m {
				d, err := downstream.Finisher(acc)
				if err != nil {
					return nil, err
				}
				out[k] = d
			}
			return out, nil
		},
		Characteristics: Concurrent | Unordered,
	}
}
