package executor

import (
	"context"
	"testing"

	"github.com/flux690/nightwatch/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunEmptyInput(t *testing.T) {
	r := Run(context.Background(), nil)
	assert.Equal(t, -1, r.FailedAtStep)
	assert.Empty(t, r.Results)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	r := Run(context.Background(), []string{
		"true",
		"false",
		"true",
	})
	require.Equal(t, 1, r.FailedAtStep)
	require.Len(t, r.Results, 2)
	assert.Equal(t, state.StepSuccess, r.Results[0].Status)
	assert.Equal(t, state.StepFailure, r.Results[1].Status)
	assert.True(t, state.ValidExecutionResult(r))
}

func TestRunCapturesStdout(t *testing.T) {
	r := Run(context.Background(), []string{"echo hello"})
	require.Len(t, r.Results, 1)
	assert.Equal(t, -1, r.FailedAtStep)
	assert.Equal(t, "hello", r.Results[0].Stdout)
}

func TestRunStripsQuotesFromArgs(t *testing.T) {
	r := Run(context.Background(), []string{"echo --format '{{.State.Running}}'"})
	require.Len(t, r.Results, 1)
	assert.Equal(t, -1, r.FailedAtStep)
	assert.Equal(t, "--format {{.State.Running}}", r.Results[0].Stdout)
}

func TestSplitWords(t *testing.T) {
	got := splitWords(`docker inspect cache --format '{{.State.Running}}'`)
	assert.Equal(t, []string{"docker", "inspect", "cache", "--format", "{{.State.Running}}"}, got)
}

func TestSplitWordsDoubleQuotes(t *testing.T) {
	got := splitWords(`docker exec api sh -c "echo test"`)
	assert.Equal(t, []string{"docker", "exec", "api", "sh", "-c", "echo test"}, got)
}
