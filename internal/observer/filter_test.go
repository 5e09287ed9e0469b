package observer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncludeDropsLifecycleNoise(t *testing.T) {
	assert.False(t, Include(LogEvent{Stream: "stdout", Message: "Server listening on :8080"}))
	assert.False(t, Include(LogEvent{Stream: "stdout", Message: "Graceful shutdown complete"}))
}

func TestIncludeAllStderrAfterLifecycleFilter(t *testing.T) {
	assert.True(t, Include(LogEvent{Stream: "stderr", Message: "anything at all"}))
}

func TestIncludeMatchesErrorKeyword(t *testing.T) {
	assert.True(t, Include(LogEvent{Stream: "stdout", Message: "Error: cache connection refused"}))
}

func TestIncludeMatchesHTTPStatus(t *testing.T) {
	assert.True(t, Include(LogEvent{Stream: "stdout", Message: "GET /healthz returned 503"}))
}

func TestIncludeDropsBenignStdout(t *testing.T) {
	assert.False(t, Include(LogEvent{Stream: "stdout", Message: "processed 12 jobs in 4ms"}))
}
