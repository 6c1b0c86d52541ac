package concurrent

import (
	"sync"
)

// JobFunc transforms one job into one result. It must handle its own failures
// and return a usable value; the pool never drops or cancels a job because a
// sibling failed.
type JobFunc[T any, G any] func(job T) G

// A WorkerPool fans a batch of jobs out over numWorkers goroutines and fans
// every result back in. Every submitted job settles exactly once.
type WorkerPool[T any, G any] struct {
	numWorkers int
	jobQueue   chan T
	results    chan G
	wg         sync.WaitGroup
}

func NewWorkerPool[T any, G any](numWorkers, queueSize int) *WorkerPool[T, G] {
	if numWorkers < 1 {
		numWorkers = 1
	}
	return &WorkerPool[T, G]{
		numWorkers: numWorkers,
		jobQueue:   make(chan T, queueSize),
		results:    make(chan G, queueSize),
	}
}

func (wp *WorkerPool[T, G]) worker(fn JobFunc[T, G]) {
	defer wp.wg.Done()
	for job := range wp.jobQueue {
		wp.results <- fn(job)
	}
}

// Start launches the workers. Call AddJob for each job, then Close, then Wait.
func (wp *WorkerPool[T, G]) Start(fn JobFunc[T, G]) {
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(fn)
	}
}

func (wp *WorkerPool[T, G]) AddJob(job T) {
	wp.jobQueue <- job
}

// Close signals that no more jobs will be added.
func (wp *WorkerPool[T, G]) Close() {
	close(wp.jobQueue)
}

// Wait blocks until all workers have finished and then closes the results
// channel, so the caller can range over Results.
func (wp *WorkerPool[T, G]) Wait() {
	wp.wg.Wait()
	close(wp.results)
}

func (wp *WorkerPool[T, G]) Results() <-chan G {
	return wp.results
}
