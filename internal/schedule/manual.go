package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a deterministic Scheduler driven by Advance. Tasks fire in due
// order on the goroutine that calls Advance.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   int
	tasks map[int]*manualTask
}

type manualTask struct {
	id       int
	due      time.Duration
	period   time.Duration // zero for one-shot tasks
	fn       func()
	canceled bool
}

type manualHandle struct {
	m  *Manual
	id int
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual {
	return &Manual{tasks: make(map[int]*manualTask)}
}

func (m *Manual) schedule(d, period time.Duration, fn func()) Handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	m.tasks[m.seq] = &manualTask{id: m.seq, due: m.now + d, period: period, fn: fn}
	return &manualHandle{m: m, id: m.seq}
}

// Every schedules fn every d. A non-positive d is treated as one nanosecond.
func (m *Manual) Every(d time.Duration, fn func()) Handle {
	if d <= 0 {
		d = time.Nanosecond
	}
	return m.schedule(d, d, fn)
}

// After schedules fn once after d.
func (m *Manual) After(d time.Duration, fn func()) Handle {
	return m.schedule(d, 0, fn)
}

func (h *manualHandle) Cancel() {
	h.m.mu.Lock()
	defer h.m.mu.Unlock()
	if t, ok := h.m.tasks[h.id]; ok {
		t.canceled = true
		delete(h.m.tasks, h.id)
	}
}

// Advance moves the clock forward by d, firing every task that falls due.
// Tasks scheduled or cancelled by a firing task take effect immediately.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		if next.period > 0 {
			next.due += next.period
		} else {
			delete(m.tasks, next.id)
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

// nextDue returns the earliest task due at or before target. Ties fire in
// scheduling order.
func (m *Manual) nextDue(target time.Duration) *manualTask {
	var due []*manualTask
	for _, t := range m.tasks {
		if !t.canceled && t.due <= target {
			due = append(due, t)
		}
	}
	if len(due) == 0 {
		return nil
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].id < due[j].id
	})
	return due[0]
}

// Pending reports how many tasks are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}
