// Package schedule provides cancellable one-shot and repeating tasks.
//
// A Handle returned by Every or After stops the task when cancelled. After
// Cancel returns the task function is not started again. An invocation that
// had already started when Cancel was called may still be running; callers
// that need stronger guarantees check their own state inside fn.
package schedule

import (
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler runs functions after a delay or on a fixed period.
type Scheduler interface {
	Every(d time.Duration, fn func()) Handle
	After(d time.Duration, fn func()) Handle
}

// Handle cancels a scheduled task. Cancel is idempotent.
type Handle interface {
	Cancel()
}

// Real schedules on the wall clock using time.Ticker and time.Timer.
type Real struct{}

// NewReal returns a wall-clock Scheduler.
func NewReal() *Real { return &Real{} }

type realHandle struct {
	canceled atomic.Bool
	stop     chan struct{}
	once     sync.Once
}

func newRealHandle() *realHandle {
	return &realHandle{stop: make(chan struct{})}
}

func (h *realHandle) Cancel() {
	h.once.Do(func() {
		h.canceled.Store(true)
		close(h.stop)
	})
}

// run invokes fn unless the handle was cancelled first.
func (h *realHandle) run(fn func()) {
	if h.canceled.Load() {
		return
	}
	fn()
}

// Every calls fn every d until the handle is cancelled.
func (r *Real) Every(d time.Duration, fn func()) Handle {
	h := newRealHandle()
	ticker := time.NewTicker(d)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-ticker.C:
				h.run(fn)
			}
		}
	}()
	return h
}

// After calls fn once after d unless the handle is cancelled first.
func (r *Real) After(d time.Duration, fn func()) Handle {
	h := newRealHandle()
	timer := time.NewTimer(d)
	go func() {
		defer timer.Stop()
		select {
		case <-h.stop:
		case <-timer.C:
			h.run(fn)
		}
	}()
	return h
}
