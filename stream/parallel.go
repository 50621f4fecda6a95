package stream

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/kbukum/streamkit/collector"
	"github.com/kbukum/streamkit/errors"
)

// rootWidth is the encounter-order interval assigned to the whole source.
// Each split halves the interval, so labels stay disjoint down to depth 62,
// far beyond any achievable split tree.
const rootWidth = uint64(1) << 62

// searchState is the shared result slot of a parallel search. Leaves offer
// candidates labeled with their encounter-order interval start; in leftmost
// mode the lowest label wins and subtrees whose whole interval lies to the
// right of the winner are pruned.
type searchState struct {
	leftmost bool
	found    atomic.Bool
	mu       sync.Mutex
	have     bool
	best     uint64
	value    any
}

func (s *searchState) offer(order uint64, v any) {
	s.mu.Lock()
	if !s.have || order < s.best {
		s.have = true
		s.best = order
		s.value = v
	}
	s.mu.Unlock()
	s.found.Store(true)
}

// stopFor reports whether a subtree whose interval starts at order can stop.
func (s *searchState) stopFor(order uint64) bool {
	if !s.found.Load() {
		return false
	}
	if !s.leftmost {
		return true
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.have && s.best <= order
}

func (s *searchState) result() (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value, s.have
}

// parallelRun is one fork-join evaluation of a pipeline segment. Worker
// fan-out is bounded by a token pool: a split forks its right half onto a
// goroutine only when a token is free, otherwise both halves run inline.
type parallelRun struct {
	fused  []stage
	col    anyCollector
	bound  int64
	search *searchState

	// shared is the concurrent-collector path: every leaf feeds the one
	// accumulator, whose thread safety the collector's CONCURRENT
	// characteristic asserts, and no combine happens.
	shared    bool
	sharedAcc any

	target int64
	tokens chan struct{}
	stats  *evalStats
	ctx    context.Context
	cancel context.CancelCauseFunc
}

// reduceParallel evaluates a collector reduction over a splittable source.
func (p *pipeline) reduceParallel(ctx context.Context, src anySource, fused []stage, col anyCollector, bound int64, stats *evalStats) (any, error) {
	run := p.newParallelRun(ctx, src, fused, stats)
	defer run.cancel(nil)
	run.col = col
	run.bound = bound

	if col.chars.Has(collector.Concurrent) && (!p.ordered() || col.chars.Has(collector.Unordered)) {
		run.shared = true
		run.sharedAcc = col.supplier()
		if _, err := run.compute(src, 0, rootWidth); err != nil {
			return nil, err
		}
		return run.sharedAcc, nil
	}
	return run.compute(src, 0, rootWidth)
}

// searchParallel evaluates a short-circuiting search over a splittable
// source, recording the outcome in state.
func (p *pipeline) searchParallel(ctx context.Context, src anySource, fused []stage, state *searchState, stats *evalStats) error {
	run := p.newParallelRun(ctx, src, fused, stats)
	defer run.cancel(nil)
	run.search = state
	_, err := run.compute(src, 0, rootWidth)
	return err
}

func (p *pipeline) newParallelRun(ctx context.Context, src anySource, fused []stage, stats *evalStats) *parallelRun {
	size, _ := src.estimateSize()
	target := size / int64(p.opts.parallelism*p.opts.splitFactor)
	if target < p.opts.minLeafSize {
		target = p.opts.minLeafSize
	}
	if target < 1 {
		target = 1
	}

	// parallelism-1 tokens: the calling goroutine is the first worker.
	tokens := make(chan struct{}, p.opts.parallelism)
	for i := 1; i < p.opts.parallelism; i++ {
		tokens <- struct{}{}
	}

	runCtx, cancel := context.WithCancelCause(ctx)
	return &parallelRun{
		fused:  fused,
		bound:  -1,
		target: target,
		tokens: tokens,
		stats:  stats,
		ctx:    runCtx,
		cancel: cancel,
	}
}

// compute evaluates the subtree rooted at src, owning the encounter-order
// interval [order, order+width). Splitting recurses left-first; the join
// combines left before right, preserving encounter order.
func (r *parallelRun) compute(src anySource, order, width uint64) (any, error) {
	if r.search != nil && r.search.stopFor(order) {
		return nil, nil
	}
	if err := causeOf(r.ctx); err != nil {
		return nil, err
	}

	size, _ := src.estimateSize()
	if size <= r.target || width < 2 {
		return r.leaf(src, order)
	}
	left := src.trySplit()
	if left == nil {
		return r.leaf(src, order)
	}
	atomic.AddInt64(&r.stats.splits, 1)
	half := width / 2
	rightOrder := order + half
	rightWidth := width - half

	// trySplit keeps the suffix in src, so src is now the right half.
	select {
	case <-r.tokens:
		type outcome struct {
			acc any
			err error
		}
		ch := make(chan outcome, 1)
		go func() {
			defer func() { r.tokens <- struct{}{} }()
			acc, err := r.compute(src, rightOrder, rightWidth)
			ch <- outcome{acc, err}
		}()
		leftAcc, leftErr := r.compute(left, order, half)
		right := <-ch
		return r.join(leftAcc, leftErr, right.acc, right.err)
	default:
		leftAcc, leftErr := r.compute(left, order, half)
		if leftErr != nil {
			return nil, leftErr
		}
		rightAcc, rightErr := r.compute(src, rightOrder, rightWidth)
		return r.join(leftAcc, nil, rightAcc, rightErr)
	}
}

// join merges two child results. The left error wins so failures are
// reported deterministically; the first failure also cancels the run
// context, stopping sibling subtrees.
func (r *parallelRun) join(leftAcc any, leftErr error, rightAcc any, rightErr error) (any, error) {
	if leftErr != nil {
		return nil, leftErr
	}
	if rightErr != nil {
		return nil, rightErr
	}
	if r.search != nil || r.shared {
		return nil, nil
	}
	merged, err := r.col.combiner(leftAcc, rightAcc)
	if err != nil {
		r.cancel(err)
		return nil, errors.CollectorFailure("combiner", err)
	}
	return merged, nil
}

// leaf drives one unsplit source segment through a freshly fused sink.
func (r *parallelRun) leaf(src anySource, order uint64) (any, error) {
	var term sink
	var acc *accSink
	switch {
	case r.search != nil:
		term = &findSink{state: r.search, order: order}
	case r.shared:
		term = &sharedSink{run: r}
	default:
		acc = &accSink{col: r.col, bound: r.bound}
		term = acc
	}

	var stats evalStats
	err := drive(r.ctx, src, wrapStages(r.fused, term), &stats)
	atomic.AddInt64(&r.stats.elements, stats.elements)
	if err != nil {
		r.cancel(err)
		return nil, err
	}
	if acc != nil {
		return acc.acc, nil
	}
	return nil, nil
}

// sharedSink feeds the run's single concurrent accumulator.
type sharedSink struct {
	run *parallelRun
}

func (s *sharedSink) begin(int64) {}

func (s *sharedSink) accept(v any) error {
	// Concurrent accumulators mutate their receiver in place and return it,
	// so the shared slot is never rewritten while leaves are running.
	if _, err := s.run.col.accumulator(s.run.sharedAcc, v); err != nil {
		return errors.CollectorFailure("accumulator", err)
	}
	return nil
}

func (s *sharedSink) end() error { return nil }

func (s *sharedSink) cancelled() bool { return false }
