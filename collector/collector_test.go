package collector

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// fold runs the full sequential reduction of in through c.
func fold[T, A, R any](t *testing.T, c Collector[T, A, R], in []T) R {
	t.Helper()
	acc := c.Supplier()
	var err error
	for _, v := range in {
		if acc, err = c.Accumulator(acc, v); err != nil {
			t.Fatal(err)
		}
	}
	r, err := c.Finisher(acc)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// foldSplit reduces in as two contiguous parts split at i, combined.
func foldSplit[T, A, R any](t *testing.T, c Collector[T, A, R], in []T, i int) R {
	t.Helper()
	left, right := c.Supplier(), c.Supplier()
	var err error
	for _, v := range in[:i] {
		if left, err = c.Accumulator(left, v); err != nil {
			t.Fatal(err)
		}
	}
	for _, v := range in[i:] {
		if right, err = c.Accumulator(right, v); err != nil {
			t.Fatal(err)
		}
	}
	merged, err := c.Combiner(left, right)
	if err != nil {
		t.Fatal(err)
	}
	r, err := c.Finisher(merged)
	if err != nil {
		t.Fatal(err)
	}
	return r
}

// assertAssociative checks the combiner invariant at every split point:
// combining the reductions of two contiguous parts must equal reducing the
// whole sequence.
func assertAssociative[T, A, R any](t *testing.T, c Collector[T, A, R], in []T) {
	t.Helper()
	whole := fold(t, c, in)
	for i := 0; i <= len(in); i++ {
		split := foldSplit(t, c, in, i)
		if !reflect.DeepEqual(whole, split) {
			t.Errorf("split at %d: got %v, want %v", i, split, whole)
		}
	}
}

func TestToSlice(t *testing.T) {
	got := fold(t, ToSlice[int](), []int{1, 2, 3})
	if !reflect.DeepEqual(got, []int{1, 2, 3}) {
		t.Errorf("got %v, want [1 2 3]", got)
	}
	assertAssociative(t, ToSlice[int](), []int{5, 2, 8, 1, 9})
}

func TestToSet(t *testing.T) {
	got := fold(t, ToSet[int](), []int{3, 1, 2, 3, 2, 1})
	if len(got) != 3 {
		t.Errorf("expected 3 distinct values, got %v", got)
	}
	assertAssociative(t, ToSet[int](), []int{3, 1, 2, 3, 2, 1})
}

func TestToMap(t *testing.T) {
	type pair struct {
		k string
		v int
	}
	c := ToMap(func(p pair) string { return p.k }, func(p pair) int { return p.v }, nil)
	got := fold(t, c, []pair{{"a", 1}, {"b", 2}})
	if got["a"] != 1 || got["b"] != 2 {
		t.Errorf("got %v", got)
	}
}

func TestToMap_DuplicateKeyWithoutMerge(t *testing.T) {
	c := ToMap(func(n int) int { return n % 2 }, func(n int) int { return n }, nil)
	acc := c.Supplier()
	acc, err := c.Accumulator(acc, 1)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = c.Accumulator(acc, 3); err == nil {
		t.Error("expected duplicate key error")
	}
}

func TestToMap_MergeResolvesCollisions(t *testing.T) {
	c := ToMap(
		func(n int) int { return n % 2 },
		func(n int) int { return n },
		func(a, b int) (int, error) { return a + b, nil },
	)
	got := fold(t, c, []int{1, 2, 3, 4})
	if got[1] != 4 || got[0] != 6 {
		t.Errorf("got %v, want map[0:6 1:4]", got)
	}
	assertAssociative(t, c, []int{1, 2, 3, 4, 5})
}

func TestCounting(t *testing.T) {
	got := fold(t, Counting[string](), []string{"a", "b", "c"})
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	assertAssociative(t, Counting[string](), []string{"a", "b", "c", "d"})
}

func TestReducing(t *testing.T) {
	sum := Reducing(0, func(a, b int) (int, error) { return a + b, nil })
	got := fold(t, sum, []int{1, 2, 3, 4})
	if got != 10 {
		t.Errorf("got %d, want 10", got)
	}
	assertAssociative(t, sum, []int{1, 2, 3, 4})
}

func TestSumming(t *testing.T) {
	c := Summing(func(n int) int64 { return int64(n) })
	got := fold(t, c, []int{1, 2, 3})
	if got != 6 {
		t.Errorf("got %d, want 6", got)
	}
	assertAssociative(t, c, []int{5, 2, 8, 1, 9})
}

func TestAveraging(t *testing.T) {
	c := Averaging(func(n int) float64 { return float64(n) })
	got := fold(t, c, []int{2, 4, 6})
	if got != 4.0 {
		t.Errorf("got %f, want 4.0", got)
	}
	if empty := fold(t, c, nil); empty != 0 {
		t.Errorf("empty mean should be 0, got %f", empty)
	}
}

func TestSummarizing(t *testing.T) {
	c := Summarizing(func(n int) int { return n })
	got := fold(t, c, []int{5, 2, 8, 1, 9})
	if got.Count != 5 || got.Sum != 25 || got.Min != 1 || got.Max != 9 {
		t.Errorf("got %+v", got)
	}
	if got.Mean() != 5.0 {
		t.Errorf("mean = %f, want 5.0", got.Mean())
	}
	assertAssociative(t, c, []int{5, 2, 8, 1, 9})
}

func TestSummarizing_EmptyCombine(t *testing.T) {
	c := Summarizing(func(n int) int { return n })
	assertAssociative(t, c, []int{7})
}

func TestMinByMaxBy(t *testing.T) {
	cmp := func(a, b int) int { return a - b }
	min := fold(t, MinBy(cmp), []int{5, 2, 8})
	if !min.OK || min.Value != 2 {
		t.Errorf("min got %+v", min)
	}
	max := fold(t, MaxBy(cmp), []int{5, 2, 8})
	if !max.OK || max.Value != 8 {
		t.Errorf("max got %+v", max)
	}
	empty := fold(t, MinBy(cmp), nil)
	if empty.OK {
		t.Error("min of empty input should not be OK")
	}
}

func TestJoining(t *testing.T) {
	got := fold(t, Joining(", ", "[", "]"), []string{"a", "b", "c"})
	if got != "[a, b, c]" {
		t.Errorf("got %q, want %q", got, "[a, b, c]")
	}
	if empty := fold(t, Joining(", ", "[", "]"), nil); empty != "[]" {
		t.Errorf("empty join got %q, want %q", empty, "[]")
	}
	assertAssociative(t, Joining("-", "<", ">"), []string{"x", "y", "z"})
}

func TestGroupingBy(t *testing.T) {
	type entry struct {
		key string
		n   int
	}
	c := GroupingBy(
		func(e entry) string { return e.key },
		Summing(func(e entry) int { return e.n }),
	)
	in := []entry{{"A", 1}, {"A", 2}, {"B", 3}}
	got := fold(t, c, in)
	if got["A"] != 3 || got["B"] != 3 {
		t.Errorf("got %v, want map[A:3 B:3]", got)
	}
	assertAssociative(t, c, in)
}

func TestGroupingBy_NestedDownstream(t *testing.T) {
	c := GroupingBy(
		func(n int) int { return n % 3 },
		ToSlice[int](),
	)
	got := fold(t, c, []int{1, 2, 3, 4, 5, 6})
	if !reflect.DeepEqual(got[0], []int{3, 6}) {
		t.Errorf("group 0 = %v, want [3 6]", got[0])
	}
	assertAssociative(t, c, []int{1, 2, 3, 4, 5, 6})
}

func isPrime(n int) bool {
	if n < 2 {
		return false
	}
	for d := 2; d*d <= n; d++ {
		if n%d == 0 {
			return false
		}
	}
	return true
}

func TestPartitioningBy_BothKeysAlwaysPresent(t *testing.T) {
	c := PartitioningBy(isPrime, ToSlice[int]())

	// all-composite subrange still yields an empty true partition
	got := fold(t, c, []int{8, 9, 10})
	if _, ok := got[true]; !ok {
		t.Fatal("true key missing from partition result")
	}
	if _, ok := got[false]; !ok {
		t.Fatal("false key missing from partition result")
	}
	if len(got[true]) != 0 {
		t.Errorf("expected empty prime partition, got %v", got[true])
	}
	if !reflect.DeepEqual(got[false], []int{8, 9, 10}) {
		t.Errorf("composite partition = %v", got[false])
	}
}

func TestPartitioningBy_Associative(t *testing.T) {
	var in []int
	for n := 1; n <= 50; n++ {
		in = append(in, n)
	}
	assertAssociative(t, PartitioningBy(isPrime, ToSlice[int]()), in)
}

func TestMapping(t *testing.T) {
	c := Mapping(strings.ToUpper, ToSlice[string]())
	got := fold(t, c, []string{"a", "b"})
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("got %v", got)
	}
	if c.Characteristics != ToSlice[string]().Characteristics {
		t.Error("mapping should preserve downstream characteristics")
	}
}

func TestCollectingAndThen(t *testing.T) {
	c := CollectingAndThen(ToSlice[int](), func(s []int) (int, error) { return len(s), nil })
	got := fold(t, c, []int{4, 5, 6})
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}
	if c.Characteristics.Has(IdentityFinish) {
		t.Error("collectingAndThen must clear IdentityFinish")
	}
}

func TestCollectingAndThen_FinisherError(t *testing.T) {
	want := errors.New("bad finish")
	c := CollectingAndThen(ToSlice[int](), func([]int) (int, error) { return 0, want })
	acc := c.Supplier()
	acc, _ = c.Accumulator(acc, 1)
	if _, err := c.Finisher(acc); !errors.Is(err, want) {
		t.Errorf("expected finisher error, got %v", err)
	}
}

func TestTeeing(t *testing.T) {
	c := Teeing(
		Counting[int](),
		Summing(func(n int) int { return n }),
		func(count int64, sum int) (float64, error) {
			if count == 0 {
				return 0, nil
			}
			return float64(sum) / float64(count), nil
		},
	)
	got := fold(t, c, []int{2, 4, 6})
	if got != 4.0 {
		t.Errorf("got %f, want 4.0", got)
	}
	assertAssociative(t, c, []int{2, 4, 6, 8})
}

func TestTeeing_ClearsIdentityFinish(t *testing.T) {
	c := Teeing(Counting[int](), Counting[int](), func(a, b int64) (int64, error) { return a + b, nil })
	if c.Characteristics.Has(IdentityFinish) {
		t.Error("teeing must clear IdentityFinish")
	}
}

func TestCountingConcurrent(t *testing.T) {
	c := CountingConcurrent[int]()
	if !c.Characteristics.Has(Concurrent | Unordered) {
		t.Error("expected CONCURRENT|UNORDERED")
	}
	got := fold(t, c, []int{1, 2, 3})
	if got != 3 {
		t.Errorf("got %d, want 3", got)
	}
}

func TestGroupingByConcurrent(t *testing.T) {
	c := GroupingByConcurrent(
		func(n int) bool { return n%2 == 0 },
		Counting[int](),
	)
	if !c.Characteristics.Has(Concurrent) {
		t.Error("expected CONCURRENT characteristic")
	}
	got := fold(t, c, []int{1, 2, 3, 4, 5})
	if got[true] != 2 || got[false] != 3 {
		t.Errorf("got %v", got)
	}
}
