// Package observer implements the log pipeline: per-container log
// streams demultiplexed into events, filtered, and delivered to a
// consumer as debounced, size-bounded batches.
package observer

import (
	"context"
	"time"

	"github.com/flux690/nightwatch/internal/runtime"
)

// LogEvent is one demultiplexed, newline-split log line.
type LogEvent struct {
	Container string
	Message   string
	Stream    string
	Timestamp time.Time
}

// StreamContainers opens a long-lived FollowLogs connection per container
// and forwards every line as a LogEvent on events. It returns once ctx is
// cancelled; a stream that ends is not reopened, and the function keeps
// waiting on ctx even after every stream has ended.
func StreamContainers(ctx context.Context, rt runtime.ContainerRuntime, containers []string, events chan<- LogEvent) {
	raw := make(chan runtime.LogLine, 256)
	done := make(chan struct{}, len(containers))

	for _, c := range containers {
		go func(name string) {
			defer func() { done <- struct{}{} }()
			_ = rt.FollowLogs(ctx, name, raw)
		}(c)
	}

	go func() {
		for i := 0; i < len(containers); i++ {
			<-done
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-raw:
			if !ok {
				return
			}
			events <- LogEvent{
				Container: line.Container,
				Message:   line.Message,
				Stream:    line.Stream,
				Timestamp: line.Timestamp,
			}
		}
	}
}
