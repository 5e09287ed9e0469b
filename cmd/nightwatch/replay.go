package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/flux690/nightwatch/internal/observer"
)

var replayWindowMs int

var replayCmd = &cobra.Command{
	Use:   "replay <captured-log-file>",
	Short: "Run a captured log file through the filter and batcher, offline",
	Args:  cobra.ExactArgs(1),
	RunE:  runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening capture file: %w", err)
	}
	defer f.Close()

	window := time.Duration(replayWindowMs) * time.Millisecond
	events := make(chan observer.LogEvent, observer.MaxBufferSize)
	done := make(chan struct{})
	batchCount := 0

	coordinator := observer.NewCoordinator(events, window, func(batch observer.Batch) {
		batchCount++
		fmt.Printf("batch %d (%d lines, containers: %v)\n", batchCount, len(batch.Logs), batch.Containers)
		for _, line := range batch.Logs {
			fmt.Printf("  %s\n", line)
		}
	})

	go func() {
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := scanner.Text()
			if line == "" {
				continue
			}
			events <- parseReplayLine(line)
		}
		time.Sleep(window + 50*time.Millisecond)
		close(done)
	}()

	coordinator.Run(done)
	fmt.Printf("%d batch(es) emitted\n", batchCount)
	return nil
}

// parseReplayLine accepts the "container|stream|message" capture format,
// falling back to treating the whole line as a stdout message from an
// "unknown" container when a field is missing.
func parseReplayLine(line string) observer.LogEvent {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) == 3 {
		return observer.LogEvent{
			Container: parts[0],
			Stream:    parts[1],
			Message:   parts[2],
			Timestamp: time.Now(),
		}
	}
	return observer.LogEvent{Container: "unknown", Stream: "stdout", Message: line, Timestamp: time.Now()}
}

func init() {
	replayCmd.Flags().IntVar(&replayWindowMs, "window-ms", 500, "debounce window in milliseconds")
}
