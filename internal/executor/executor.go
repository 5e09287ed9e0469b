// Package executor runs validated command sequences directly against the
// ambient shell environment (exec.CommandContext, never through a shell
// wrapper — the validator already forbids shell metacharacters, and this
// package's direct-exec discipline is the other half of that guarantee).
package executor

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/flux690/nightwatch/internal/state"
)

// Run executes commands in order, stopping at the first failure. An
// empty input produces an empty Results slice and FailedAtStep -1.
func Run(ctx context.Context, commands []string) state.ExecutionResult {
	results := make([]state.StepResult, 0, len(commands))
	failedAt := -1

	for i, cmd := range commands {
		res := runOne(ctx, cmd)
		results = append(results, res)
		if res.Status == state.StepFailure {
			failedAt = i
			break
		}
	}
	return state.ExecutionResult{Results: results, FailedAtStep: failedAt}
}

func runOne(ctx context.Context, command string) state.StepResult {
	fields := splitWords(command)
	now := time.Now().UTC()
	if len(fields) == 0 {
		return state.StepResult{Step: command, Status: state.StepFailure, ExitCode: -1, Timestamp: now}
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	success := err == nil
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			exitCode = -1
		}
		success = false
	}

	status := state.StepSuccess
	if !success {
		status = state.StepFailure
	}

	return state.StepResult{
		Step:      command,
		Status:    status,
		ExitCode:  exitCode,
		Stdout:    strings.TrimSpace(stdout.String()),
		Stderr:    strings.TrimSpace(stderr.String()),
		Timestamp: now,
	}
}

// splitWords tokenizes a command the way a shell would for word-splitting
// purposes, without invoking one: it honors single and double quotes
// (stripping the quote characters, preserving their contents verbatim, and
// treating quoted whitespace as non-splitting) and splits on unquoted
// whitespace otherwise. Backslash escapes are not interpreted — the
// validator only ever admits plain arguments and Go-template quoting, not
// escape sequences.
func splitWords(command string) []string {
	var fields []string
	var cur strings.Builder
	inWord := false
	var quote byte

	flush := func() {
		if inWord {
			fields = append(fields, cur.String())
			cur.Reset()
			inWord = false
		}
	}

	for i := 0; i < len(command); i++ {
		c := command[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			} else {
				cur.WriteByte(c)
			}
		case c == '\'' || c == '"':
			quote = c
			inWord = true
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			flush()
		default:
			cur.WriteByte(c)
			inWord = true
		}
	}
	flush()
	return fields
}
