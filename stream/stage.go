package stream

import "github.com/kbukum/streamkit/source"

// sink is the push-style consumer protocol every fused stage implements.
// Lifecycle: begin(sizeHint) -> accept(element)* -> end(). The driving loop
// must check cancelled() after every accept and stop advancing the source
// once it reports true.
type sink interface {
	begin(size int64)
	accept(v any) error
	end() error
	cancelled() bool
}

// chained forwards the sink lifecycle to the downstream sink. Stage sinks
// embed it and override accept (and begin/cancelled where the stage changes
// size or can stop early).
type chained struct {
	down sink
}

func (c *chained) begin(size int64) { c.down.begin(size) }
func (c *chained) end() error       { return c.down.end() }
func (c *chained) cancelled() bool  { return c.down.cancelled() }

// stageKind tags the three stage variants of the chain.
type stageKind int

const (
	// kindStateless stages (map/filter-shaped) fuse into a single pass.
	kindStateless stageKind = iota
	// kindStateful stages (sorted/distinct-shaped) are fusion barriers.
	kindStateful
	// kindShortCircuit stages (limit/takeWhile-shaped) bound traversal.
	kindShortCircuit
)

// stage is an immutable descriptor in the stage chain. The chain is data;
// the fused sink is compiled fresh for every terminal invocation, so no
// traversal state leaks between runs.
type stage struct {
	kind stageKind
	name string

	// wrap composes the stage's fused sink around down. Fresh per terminal
	// call. nil when the stage always evaluates through a barrier (sorted).
	wrap func(down sink) sink

	// barrier materializes the segment ending at this stage. Used whenever
	// wrap is nil, and under parallel evaluation for stages whose fused
	// form is order-dependent (distinct, limit, skip).
	barrier *barrierOp

	// sideEffecting stages (peek) are rejected under parallel evaluation.
	sideEffecting bool

	// seqOnly stages (takeWhile, dropWhile, chunk) force the pipeline to
	// evaluate sequentially.
	seqOnly bool

	// shortCircuits marks stages that bound an otherwise unbounded
	// traversal, satisfying the unbounded-source compile check.
	shortCircuits bool
}

// barrierOp describes how a fusion barrier materializes its segment.
type barrierOp struct {
	// maxElements bounds how many upstream elements the barrier needs;
	// -1 means all of them. 0 is a real bound: the barrier needs nothing.
	maxElements int64
	// apply transforms the materialized buffer (sort, dedup, slice).
	apply func(buf []any) ([]any, error)
	// chars are extra characteristics the transformed buffer carries on
	// top of ORDERED|SIZED|SUBSIZED when it becomes the next segment's
	// source.
	chars source.Characteristics
}

// wrapStages compiles the fused sink for a run of fusable stages, composing
// bottom-up from the terminal sink outward in reverse stage order. Calling
// accept on the returned sink runs the whole segment for one element.
func wrapStages(stages []stage, terminal sink) sink {
	snk := terminal
	for i := len(stages) - 1; i >= 0; i-- {
		snk = stages[i].wrap(snk)
	}
	return snk
}

// --- Stage sink implementations ---

type mapSink struct {
	chained
	fn func(any) any
}

func (s *mapSink) accept(v any) error { return s.down.accept(s.fn(v)) }

type filterSink struct {
	chained
	pred func(any) bool
}

func (s *filterSink) begin(int64) { s.down.begin(-1) }

func (s *filterSink) accept(v any) error {
	if s.pred(v) {
		return s.down.accept(v)
	}
	return nil
}

type flatMapSink struct {
	chained
	fn func(any) []any
}

func (s *flatMapSink) begin(int64) { s.down.begin(-1) }

func (s *flatMapSink) accept(v any) error {
	for _, out := range s.fn(v) {
		if s.down.cancelled() {
			return nil
		}
		if err := s.down.accept(out); err != nil {
			return err
		}
	}
	return nil
}

type peekSink struct {
	chained
	fn func(any) error
}

func (s *peekSink) accept(v any) error {
	if err := s.fn(v); err != nil {
		return err
	}
	return s.down.accept(v)
}

type limitSink struct {
	chained
	remaining int64
}

func (s *limitSink) accept(v any) error {
	if s.remaining <= 0 {
		return nil
	}
	s.remaining--
	return s.down.accept(v)
}

func (s *limitSink) cancelled() bool { return s.remaining <= 0 || s.down.cancelled() }

type skipSink struct {
	chained
	toSkip int64
}

func (s *skipSink) begin(int64) { s.down.begin(-1) }

func (s *skipSink) accept(v any) error {
	if s.toSkip > 0 {
		s.toSkip--
		return nil
	}
	return s.down.accept(v)
}

type distinctSink struct {
	chained
	key  func(any) any
	seen map[any]struct{}
}

func (s *distinctSink) begin(int64) {
	s.seen = make(map[any]struct{})
	s.down.begin(-1)
}

func (s *distinctSink) accept(v any) error {
	k := s.key(v)
	if _, dup := s.seen[k]; dup {
		return nil
	}
	s.seen[k] = struct{}{}
	return s.down.accept(v)
}

type takeWhileSink struct {
	chained
	pred func(any) bool
	done bool
}

func (s *takeWhileSink) begin(int64) { s.down.begin(-1) }

func (s *takeWhileSink) accept(v any) error {
	if s.done {
		return nil
	}
	if !s.pred(v) {
		s.done = true
		return nil
	}
	return s.down.accept(v)
}

func (s *takeWhileSink) cancelled() bool { return s.done || s.down.cancelled() }

type dropWhileSink struct {
	chained
	pred     func(any) bool
	dropping bool
}

func (s *dropWhileSink) begin(int64) {
	s.dropping = true
	s.down.begin(-1)
}

func (s *dropWhileSink) accept(v any) error {
	if s.dropping {
		if s.pred(v) {
			return nil
		}
		s.dropping = false
	}
	return s.down.accept(v)
}

type chunkSink struct {
	chained
	size    int
	buf     []any
	convert func([]any) any
}

func (s *chunkSink) begin(int64) { s.down.begin(-1) }

func (s *chunkSink) accept(v any) error {
	s.buf = append(s.buf, v)
	if len(s.buf) < s.size {
		return nil
	}
	return s.flush()
}

func (s *chunkSink) end() error {
	if len(s.buf) > 0 {
		if err := s.flush(); err != nil {
			return err
		}
	}
	return s.down.end()
}

func (s *chunkSink) flush() error {
	out := s.convert(s.buf)
	s.buf = nil
	return s.down.accept(out)
}
