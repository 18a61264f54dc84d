package telemetry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestBrokerPublishAndSubscribe(t *testing.T) {
	b := NewBroker(nil)
	ch := b.Subscribe(10)
	defer b.Unsubscribe(ch)

	ev := Event{ID: 1, Query: "WebRTC", Risk: RiskHigh}
	b.Publish(ev)

	select {
	case got := <-ch:
		assert.Equal(t, ev, got)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
	}
}

func TestBrokerDropsWhenSlowSubscriber(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	b := NewBroker(zap.New(core))
	ch := b.Subscribe(1)
	defer b.Unsubscribe(ch)

	b.Publish(Event{ID: 1})
	b.Publish(Event{ID: 2})

	assert.Len(t, ch, 1)
	assert.Equal(t, int64(1), b.DroppedCount())
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "dropped event for slow subscriber", logs.All()[0].Message)
}

func TestBrokerUnsubscribeClosesChannel(t *testing.T) {
	b := NewBroker(nil)
	ch := b.Subscribe(1)
	assert.Equal(t, 1, b.Subscribers())

	b.Unsubscribe(ch)
	b.Unsubscribe(ch) // second call is a no-op
	assert.Equal(t, 0, b.Subscribers())

	_, ok := <-ch
	assert.False(t, ok, "expected channel closed")
}
