package schedule

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManual_EveryFiresOnPeriod(t *testing.T) {
	m := NewManual()
	var n int
	m.Every(3*time.Second, func() { n++ })

	m.Advance(2 * time.Second)
	assert.Equal(t, 0, n)

	m.Advance(time.Second)
	assert.Equal(t, 1, n)

	m.Advance(9 * time.Second)
	assert.Equal(t, 4, n)
	assert.Equal(t, 12*time.Second, m.Now())
}

func TestManual_AfterFiresOnce(t *testing.T) {
	m := NewManual()
	var n int
	m.After(2*time.Second, func() { n++ })

	m.Advance(10 * time.Second)
	assert.Equal(t, 1, n)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_CancelStopsTask(t *testing.T) {
	m := NewManual()
	var n int
	h := m.Every(time.Second, func() { n++ })

	m.Advance(2 * time.Second)
	h.Cancel()
	h.Cancel() // idempotent
	m.Advance(5 * time.Second)

	assert.Equal(t, 2, n)
	assert.Equal(t, 0, m.Pending())
}

func TestManual_TaskCanCancelAnother(t *testing.T) {
	m := NewManual()
	var fired []string
	var tick Handle
	tick = m.Every(time.Second, func() { fired = append(fired, "tick") })
	m.After(1500*time.Millisecond, func() {
		fired = append(fired, "stop")
		tick.Cancel()
	})

	m.Advance(5 * time.Second)
	assert.Equal(t, []string{"tick", "stop"}, fired)
}

func TestManual_TiesFireInScheduleOrder(t *testing.T) {
	m := NewManual()
	var fired []int
	m.After(time.Second, func() { fired = append(fired, 1) })
	m.After(time.Second, func() { fired = append(fired, 2) })

	m.Advance(time.Second)
	assert.Equal(t, []int{1, 2}, fired)
}

func TestReal_AfterFires(t *testing.T) {
	r := NewReal()
	done := make(chan struct{})
	r.After(10*time.Millisecond, func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for After")
	}
}

func TestReal_AfterCancelledNeverFires(t *testing.T) {
	r := NewReal()
	var fired atomic.Bool
	h := r.After(50*time.Millisecond, func() { fired.Store(true) })
	h.Cancel()

	time.Sleep(150 * time.Millisecond)
	assert.False(t, fired.Load())
}

func TestReal_EveryStopsAfterCancel(t *testing.T) {
	r := NewReal()
	var n atomic.Int32
	h := r.Every(5*time.Millisecond, func() { n.Add(1) })

	require.Eventually(t, func() bool { return n.Load() >= 2 }, 2*time.Second, 5*time.Millisecond)
	h.Cancel()
	after := n.Load()

	time.Sleep(50 * time.Millisecond)
	// At most one invocation that was already past the check may land.
	assert.LessOrEqual(t, n.Load(), after+1)
}
