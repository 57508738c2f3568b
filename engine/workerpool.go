package engine

import (
	"errors"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned for tasks submitted after Close.
var ErrPoolClosed = errors.New("worker pool closed")

// ==================== WORKER POOL ====================

type Task struct {
	Execute func() error
	ID      int
}

type WorkerPool struct {
	workers    int
	taskQueue  chan TaskExecution
	wg         sync.WaitGroup
	quit       chan struct{}
	once       sync.Once
	activeJobs atomic.Int64
	totalJobs  atomic.Int64
}

type TaskExecution struct {
	task   Task
	result chan<- error
}

func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	wp := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan TaskExecution, workers*8),
		quit:      make(chan struct{}),
	}
	wp.start()
	return wp
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker()
	}
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for {
		select {
		case execution := <-wp.taskQueue:
			wp.activeJobs.Add(1)
			err := execution.task.Execute()
			wp.activeJobs.Add(-1)
			wp.totalJobs.Add(1)

			// deliver whenever the result channel has room, even after Close
			select {
			case execution.result <- err:
				continue
			default:
			}
			select {
			case execution.result <- err:
			case <-wp.quit:
				return
			}
		case <-wp.quit:
			return
		}
	}
}

// Submit queues task; its error is delivered on result. The result channel
// needs room for the reply or a reader.
func (wp *WorkerPool) Submit(task Task, result chan<- error) {
	select {
	case <-wp.quit:
		result <- ErrPoolClosed
		return
	default:
	}

	select {
	case wp.taskQueue <- TaskExecution{task: task, result: result}:
	case <-wp.quit:
		result <- ErrPoolClosed
	}
}

// Workers is the number of goroutines serving the pool.
func (wp *WorkerPool) Workers() int { return wp.workers }

func (wp *WorkerPool) GetStats() (active int64, total int64) {
	return wp.activeJobs.Load(), wp.totalJobs.Load()
}

func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		close(wp.quit)
		wp.wg.Wait()
	})
}
