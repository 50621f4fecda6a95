package stream

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/streamkit/errors"
	"github.com/kbukum/streamkit/logger"
	"github.com/kbukum/streamkit/observability"
)

// terminalOp describes a terminal operation to the evaluators. Exactly one
// of col and search is set.
type terminalOp struct {
	name string
	// requiresFull marks terminals that must see every element, triggering
	// the unbounded-traversal compile check.
	requiresFull bool
	col          *anyCollector
	search       *searchOp
}

// searchOp is a short-circuiting existence search. leftmost requires the
// result with the lowest encounter order, which on ordered pipelines makes
// FindFirst deterministic under parallel evaluation.
type searchOp struct {
	leftmost bool
}

// searchResult is the boxed outcome of a search terminal.
type searchResult struct {
	value any
	ok    bool
}

// evalStats counts work done during one evaluation, for logging and metrics.
type evalStats struct {
	elements int64
	splits   int64
}

// segment is a maximal run of fusable stages, optionally ending at a fusion
// barrier that materializes the segment's output. name is the barrier
// stage's name.
type segment struct {
	fused   []stage
	barrier *barrierOp
	name    string
}

// segments splits the stage chain at barrier points. A stage is a barrier
// point when it has no fused form at all (sorted), or when the evaluation is
// parallel and its fused form depends on encounter order (distinct, limit,
// skip). The final segment never has a barrier; the terminal sink drives it.
func segments(stages []stage, parallel bool) []segment {
	var segs []segment
	var cur segment
	for _, st := range stages {
		if st.wrap == nil || (parallel && st.barrier != nil) {
			cur.barrier = st.barrier
			cur.name = st.name
			segs = append(segs, cur)
			cur = segment{}
			continue
		}
		cur.fused = append(cur.fused, st)
	}
	return append(segs, cur)
}

// accSink is the terminal sink feeding a collector's accumulator. A
// non-negative bound cancels upstream once that many elements have been
// accumulated; -1 means unbounded.
type accSink struct {
	col   anyCollector
	acc   any
	bound int64
	n     int64
}

func (s *accSink) begin(int64) { s.acc = s.col.supplier() }

func (s *accSink) accept(v any) error {
	acc, err := s.col.accumulator(s.acc, v)
	if err != nil {
		return errors.CollectorFailure("accumulator", err)
	}
	s.acc = acc
	s.n++
	return nil
}

func (s *accSink) end() error { return nil }

func (s *accSink) cancelled() bool { return s.bound >= 0 && s.n >= s.bound }

// findSink offers the first element it sees to the shared search state and
// stops. cancelled also consults the state, so sibling leaves stop once a
// winning result exists.
type findSink struct {
	state *searchState
	order uint64
	done  bool
}

func (s *findSink) begin(int64) {}

func (s *findSink) accept(v any) error {
	if s.done {
		return nil
	}
	s.done = true
	s.state.offer(s.order, v)
	return nil
}

func (s *findSink) end() error { return nil }

func (s *findSink) cancelled() bool { return s.done || s.state.stopFor(s.order) }

// evaluate runs the pipeline to completion for the given terminal operation.
// It is the single entry point for every terminal: it runs the compile-time
// checks, claims the pipeline, evaluates barrier segments into buffers, and
// drives the final segment into the terminal sink. A pipeline rejected at
// compile time is not consumed; the caller may restructure and retry.
func (p *pipeline) evaluate(ctx context.Context, op terminalOp) (any, error) {
	if err := p.compile(op); err != nil {
		return nil, err
	}
	if !p.consumed.CompareAndSwap(false, true) {
		return nil, errors.AlreadyConsumed()
	}

	parallel := p.opts.parallel
	if parallel && p.seqOnly() {
		logger.Get("stream").Debug("sequential fallback", logger.Fields(
			logger.FieldOperation, op.name,
			"reason", "order-dependent stage",
		))
		parallel = false
	}

	rc := observability.NewRunContext(uuid.NewString(), op.name, observability.RunMetrics())
	ctx, span := rc.StartSpanForRun(ctx, observability.SpanEvaluate)
	observability.SetSpanAttribute(ctx, observability.AttrParallel, parallel)

	stats := &evalStats{}
	result, err := p.run(ctx, op, parallel, stats)

	status := "ok"
	if err != nil {
		status = string(errors.CodeOf(err))
	}
	duration := rc.Duration()
	rc.EndRun(ctx, span, status, stats.elements, stats.splits, err)
	logger.Get("stream").WithContext(ctx).Debug("pipeline evaluated", logger.Fields(
		logger.FieldRunID, rc.RunID,
		logger.FieldOperation, op.name,
		logger.FieldStages, p.stageNames(),
		logger.FieldParallel, parallel,
		logger.FieldElements, stats.elements,
		logger.FieldSplits, stats.splits,
		logger.FieldStatus, status,
		logger.FieldDuration, duration.Milliseconds(),
	))
	return result, err
}

// run evaluates the segmented stage chain over the source.
func (p *pipeline) run(ctx context.Context, op terminalOp, parallel bool, stats *evalStats) (any, error) {
	src := p.src
	segs := segments(p.stages, parallel)

	// Every segment before the last ends at a barrier: reduce it into a
	// buffer, transform the buffer, and re-expose it as the next source.
	for _, seg := range segs[:len(segs)-1] {
		segCtx, segSpan := observability.StartSpan(ctx, observability.SpanBarrier)
		observability.SetSpanAttribute(segCtx, observability.AttrStage, seg.name)
		col := bufferCollector(seg.barrier.maxElements)
		acc, err := p.reduce(segCtx, src, seg.fused, col, seg.barrier.maxElements, parallel, stats)
		if err != nil {
			segSpan.End()
			return nil, err
		}
		buf, err := seg.barrier.apply(acc.([]any))
		segSpan.End()
		if err != nil {
			return nil, err
		}
		src = &bufferSource{items: buf, extra: seg.barrier.chars}
	}

	last := segs[len(segs)-1]
	if op.search != nil {
		return p.runSearch(ctx, src, last.fused, op, parallel, stats)
	}

	col := *op.col
	acc, err := p.reduce(ctx, src, last.fused, col, -1, parallel, stats)
	if err != nil {
		return nil, err
	}
	out, err := col.finisher(acc)
	if err != nil {
		return nil, errors.CollectorFailure("finisher", err)
	}
	return out, nil
}

// reduce accumulates the source through the fused stages into the collector
// and returns the raw accumulator. A non-negative bound stops traversal once
// that many elements have been accumulated; -1 means unbounded.
func (p *pipeline) reduce(ctx context.Context, src anySource, fused []stage, col anyCollector, bound int64, parallel bool, stats *evalStats) (any, error) {
	if parallel && splittable(src) {
		return p.reduceParallel(ctx, src, fused, col, bound, stats)
	}
	term := &accSink{col: col, bound: bound}
	if err := drive(ctx, src, wrapStages(fused, term), stats); err != nil {
		return nil, err
	}
	return term.acc, nil
}

// runSearch evaluates a short-circuiting search terminal.
func (p *pipeline) runSearch(ctx context.Context, src anySource, fused []stage, op terminalOp, parallel bool, stats *evalStats) (any, error) {
	state := &searchState{leftmost: op.search.leftmost && p.ordered()}
	if parallel && splittable(src) {
		if err := p.searchParallel(ctx, src, fused, state, stats); err != nil {
			return nil, err
		}
	} else {
		term := &findSink{state: state}
		if err := drive(ctx, src, wrapStages(fused, term), stats); err != nil {
			return nil, err
		}
	}
	v, ok := state.result()
	return searchResult{value: v, ok: ok}, nil
}

// drive is the pull loop: it advances the source one element at a time into
// the fused sink, honoring cancellation from both the context and the sink.
func drive(ctx context.Context, src anySource, snk sink, stats *evalStats) error {
	size := int64(-1)
	if n, known := src.estimateSize(); known {
		size = n
	}
	snk.begin(size)
	for {
		if err := causeOf(ctx); err != nil {
			return err
		}
		if snk.cancelled() {
			break
		}
		ok, err := src.tryAdvance(ctx, snk.accept)
		if err != nil {
			// A source may surface the context error itself; report the
			// cancellation cause rather than a producer failure.
			if cerr := causeOf(ctx); cerr != nil {
				return cerr
			}
			return wrapDriveError(err)
		}
		if !ok {
			break
		}
		stats.elements++
	}
	if err := snk.end(); err != nil {
		return wrapDriveError(err)
	}
	return nil
}

// causeOf translates context termination into the pipeline taxonomy. When a
// parallel sibling cancelled the run with a pipeline error, that error is
// surfaced as-is rather than wrapped as a cancellation.
func causeOf(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	cause := context.Cause(ctx)
	if pe, ok := errors.AsPipelineError(cause); ok {
		return pe
	}
	return errors.Cancelled(cause)
}

// wrapDriveError classifies errors escaping the drive loop. Collector and
// user-function failures arrive already coded; anything else came from the
// source.
func wrapDriveError(err error) error {
	if pe, ok := errors.AsPipelineError(err); ok {
		return pe
	}
	return errors.ProducerFailure(err)
}

// compile runs the checks that must fail before any element is pulled.
func (p *pipeline) compile(op terminalOp) error {
	if p.opts.parallel {
		for _, st := range p.stages {
			if st.sideEffecting {
				return errors.InvalidPipeline(st.name + " is side-effecting and cannot run under parallel evaluation")
			}
		}
	}
	return p.checkBounded(op)
}

// checkBounded rejects full traversals of sources of unknown size. A
// stateful barrier demands full upstream traversal just like a full-sweep
// terminal does, unless a short-circuiting stage bounds the flow first.
func (p *pipeline) checkBounded(op terminalOp) error {
	if _, known := p.src.estimateSize(); known || p.opts.assumeFinite {
		return nil
	}
	bounded := false
	for _, st := range p.stages {
		if st.kind == kindStateful && !bounded {
			return errors.UnboundedWithoutShortCircuit(st.name)
		}
		if st.shortCircuits {
			bounded = true
		}
	}
	if op.requiresFull && !bounded {
		return errors.UnboundedWithoutShortCircuit(op.name)
	}
	return nil
}

func (p *pipeline) seqOnly() bool {
	for _, st := range p.stages {
		if st.seqOnly {
			return true
		}
	}
	return false
}

func (p *pipeline) stageNames() string {
	names := make([]string, len(p.stages))
	for i, st := range p.stages {
		names[i] = st.name
	}
	return strings.Join(names, ",")
}

// splittable reports whether parallel evaluation can make progress on the
// source. Unsized sources are not split; splitting them cannot balance work.
func splittable(src anySource) bool {
	_, known := src.estimateSize()
	return known
}
