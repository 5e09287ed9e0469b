package observer

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebounceEmitsAfterInactivity(t *testing.T) {
	events := make(chan LogEvent, 10)
	batches := make(chan Batch, 10)
	done := make(chan struct{})

	c := NewCoordinator(events, 20*time.Millisecond, func(b Batch) { batches <- b })
	go c.Run(done)
	defer close(done)

	events <- LogEvent{Container: "api", Stream: "stderr", Message: "boom"}

	select {
	case b := <-batches:
		require.Len(t, b.Logs, 1)
		assert.Equal(t, []string{"api"}, b.Containers)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected a debounced batch")
	}
}

func TestBackpressureCapFlushesImmediately(t *testing.T) {
	events := make(chan LogEvent, MaxBufferSize+10)
	batches := make(chan Batch, 10)
	done := make(chan struct{})

	c := NewCoordinator(events, time.Hour, func(b Batch) { batches <- b })
	go c.Run(done)
	defer close(done)

	for i := 0; i < MaxBufferSize; i++ {
		events <- LogEvent{Container: "api", Stream: "stderr", Message: "boom"}
	}

	select {
	case b := <-batches:
		assert.Len(t, b.Logs, MaxBufferSize)
	case <-time.After(2 * time.Second):
		t.Fatal("expected an immediate cap-triggered flush")
	}
}
