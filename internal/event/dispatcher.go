// Package event provides a bounded worker-pool dispatcher for fanning out
// domain events to observers without blocking the emitting path.
package event

import "sync"

// Dispatcher delivers events of type T to a single handler from a fixed
// pool of workers. The queue is bounded so a slow handler cannot pin the
// emitter's memory.
type Dispatcher[T any] struct {
	handler func(T)
	queue   chan T
	workers int

	mu      sync.Mutex
	wg      sync.WaitGroup
	started bool
	stopped bool
}

// NewDispatcher creates a dispatcher. Non-positive workers or queueSize
// fall back to 2 workers and a queue of 64.
func NewDispatcher[T any](handler func(T), workers, queueSize int) *Dispatcher[T] {
	if workers <= 0 {
		workers = 2
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Dispatcher[T]{
		handler: handler,
		queue:   make(chan T, queueSize),
		workers: workers,
	}
}

// Start launches the worker pool. Calling Start twice is a no-op.
func (d *Dispatcher[T]) Start() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.started {
		return
	}
	d.started = true

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for ev := range d.queue {
				if d.handler != nil {
					d.handler(ev)
				}
			}
		}()
	}
}

// Dispatch enqueues an event without blocking. Returns false if the queue
// is full and the event was dropped.
func (d *Dispatcher[T]) Dispatch(ev T) bool {
	select {
	case d.queue <- ev:
		return true
	default:
		return false
	}
}

// DispatchWait enqueues an event, blocking until there is room. Use for
// events that must not be dropped.
func (d *Dispatcher[T]) DispatchWait(ev T) {
	d.queue <- ev
}

// Stop closes the queue and waits for queued events to drain. Safe to call
// more than once.
func (d *Dispatcher[T]) Stop() {
	d.mu.Lock()
	if !d.started || d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	d.mu.Unlock()

	close(d.queue)
	d.wg.Wait()
}

// Backlog returns the number of queued, undelivered events.
func (d *Dispatcher[T]) Backlog() int {
	return len(d.queue)
}
