// Package dispatch serializes units of work onto one designated worker
// goroutine.
//
// The settings store assumes single-writer access, so every write — the
// initial sweep, file-event resolution, and revert timers — is funneled
// through one Dispatcher. Work runs to completion in submission order;
// no two units ever overlap.
package dispatch

import (
	"errors"
	"log/slog"
	"sync"
)

type task struct {
	name string
	fn   func() error
	done chan error // nil for fire-and-forget submissions
}

// Dispatcher owns the designated worker goroutine.
type Dispatcher struct {
	tasks chan task

	mu     sync.Mutex
	closed bool
	stop   chan struct{}
	donewg sync.WaitGroup
}

// ErrClosed is returned by Sync when the dispatcher has shut down.
var ErrClosed = errors.New("dispatch: dispatcher is closed")

// New starts a dispatcher with its worker goroutine running.
func New() *Dispatcher {
	d := &Dispatcher{
		tasks: make(chan task, 128),
		stop:  make(chan struct{}),
	}
	d.donewg.Add(1)
	go d.run()
	return d
}

// Submit enqueues fn to run on the worker, fire-and-forget. An error or
// panic escaping fn is logged and never propagated; a failed unit of
// work must not take the process down with it.
//
// Submitting to a closed dispatcher drops the work with a debug log.
func (d *Dispatcher) Submit(name string, fn func() error) {
	d.enqueue(task{name: name, fn: fn})
}

// Sync enqueues fn and waits for it to complete, returning its error.
func (d *Dispatcher) Sync(name string, fn func() error) error {
	t := task{name: name, fn: fn, done: make(chan error, 1)}
	if !d.enqueue(t) {
		return ErrClosed
	}
	select {
	case err := <-t.done:
		return err
	case <-d.stop:
		return ErrClosed
	}
}

// Close stops the worker after the queued work drains. Pending Sync
// callers are released with ErrClosed.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	close(d.tasks)
	d.mu.Unlock()

	d.donewg.Wait()
}

func (d *Dispatcher) enqueue(t task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		slog.Debug("Dropping work submitted after dispatcher close", "task", t.name)
		return false
	}
	d.tasks <- t
	return true
}

func (d *Dispatcher) run() {
	defer d.donewg.Done()
	defer close(d.stop)

	for t := range d.tasks {
		err := d.runOne(t)
		if t.done != nil {
			t.done <- err
		} else if err != nil {
			slog.Warn("Background work failed", "task", t.name, "error", err)
		}
	}
}

func (d *Dispatcher) runOne(t task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Background work panicked", "task", t.name, "panic", r)
		}
	}()
	return t.fn()
}
