package stream

import (
	"context"
	"testing"
)

func BenchmarkFusedPipeline(b *testing.B) {
	ctx := context.Background()
	data := make([]int, 10000)
	for i := range data {
		data[i] = i
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Map(
			FromSlice(data).Filter(func(n int) bool { return n%2 == 0 }),
			func(n int) int { return n * 3 },
		).Count(ctx)
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkHandWrittenLoop(b *testing.B) {
	data := make([]int, 10000)
	for i := range data {
		data[i] = i
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		var count int64
		for _, n := range data {
			if n%2 == 0 {
				_ = n * 3
				count++
			}
		}
		_ = count
	}
}

func BenchmarkSequentialSum(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Range(0, 100000).Reduce(ctx, 0, func(a, c int) int { return a + c })
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkParallelSum(b *testing.B) {
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := Range(0, 100000).
			Parallel().WithMinLeafSize(1024).
			Reduce(ctx, 0, func(a, c int) int { return a + c })
		if err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSortedBarrier(b *testing.B) {
	ctx := context.Background()
	data := make([]int, 10000)
	for i := range data {
		data[i] = (i * 7919) % 10000
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := FromSlice(data).
			Sorted(func(x, y int) int { return x - y }).
			Limit(100).
			ToSlice(ctx)
		if err != nil {
			b.Fatal(err)
		}
	}
}
