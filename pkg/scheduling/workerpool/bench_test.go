package workerpool

import (
	"context"
	"fmt"
	"testing"
)

// BenchmarkTaskExecution measures the overhead of task submission and execution
func BenchmarkTaskExecution(b *testing.B) {
	pool := New(1000)
	if err := pool.Start(4); err != nil {
		b.Fatal(err)
	}
	defer pool.Stop()

	task := TaskFunc(func(ctx context.Context) error { return nil })

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := pool.Submit(task)
			if err != nil {
				b.Error(err)
				return
			}
			_, _ = h.Wait()
		}
	})
}

// BenchmarkTaskExecutionWithWork measures performance with actual work
func BenchmarkTaskExecutionWithWork(b *testing.B) {
	pool := New(1000)
	if err := pool.Start(4); err != nil {
		b.Fatal(err)
	}
	defer pool.Stop()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			h, err := Submit(pool, func(ctx context.Context) (int, error) {
				// Simulate some CPU work
				sum := 0
				for i := 0; i < 1000; i++ {
					sum += i
				}
				return sum, nil
			})
			if err != nil {
				b.Error(err)
				return
			}
			_, _ = h.Wait()
		}
	})
}

// BenchmarkSubmitOnly measures enqueue cost when workers keep up.
func BenchmarkSubmitOnly(b *testing.B) {
	pool := NewWithConfig(Config{QueueCapacity: 4096, DrainOnStop: true})
	if err := pool.Start(8); err != nil {
		b.Fatal(err)
	}
	defer pool.Stop()

	task := TaskFunc(func(ctx context.Context) error { return nil })

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := pool.Submit(task); err != nil {
			b.Fatal(err)
		}
	}
}

// BenchmarkWorkerCounts compares throughput across pool sizes.
func BenchmarkWorkerCounts(b *testing.B) {
	for _, workers := range []int{1, 2, 4, 8, 16} {
		b.Run(fmt.Sprintf("workers-%d", workers), func(b *testing.B) {
			pool := New(1024)
			if err := pool.Start(workers); err != nil {
				b.Fatal(err)
			}
			defer pool.Stop()

			handles := make([]*Handle[struct{}], 0, b.N)
			task := TaskFunc(func(ctx context.Context) error { return nil })

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				h, err := pool.Submit(task)
				if err != nil {
					b.Fatal(err)
				}
				handles = append(handles, h)
			}
			for _, h := range handles {
				_, _ = h.Wait()
			}
		})
	}
}
