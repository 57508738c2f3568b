package engine

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestWorkerPoolRunsTasks(t *testing.T) {
	wp := NewWorkerPool(4)
	defer wp.Close()

	const n = 50
	var sum atomic.Int64
	results := make(chan error, n)
	for i := 0; i < n; i++ {
		wp.Submit(Task{ID: i, Execute: func() error {
			sum.Add(int64(i))
			if i == 7 {
				return errors.New("seven")
			}
			return nil
		}}, results)
	}

	failed := 0
	for i := 0; i < n; i++ {
		if err := <-results; err != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Fatalf("%d tasks failed, want 1", failed)
	}
	if got := sum.Load(); got != n*(n-1)/2 {
		t.Fatalf("sum = %d, want %d", got, n*(n-1)/2)
	}
	if active, total := wp.GetStats(); active != 0 || total != n {
		t.Fatalf("stats = %d active, %d total, want 0 and %d", active, total, n)
	}
}

func TestWorkerPoolClosed(t *testing.T) {
	wp := NewWorkerPool(1)
	wp.Close()
	wp.Close()

	results := make(chan error, 1)
	wp.Submit(Task{Execute: func() error { return nil }}, results)
	if err := <-results; !errors.Is(err, ErrPoolClosed) {
		t.Fatalf("err = %v, want ErrPoolClosed", err)
	}
}
