package capability

import (
	"context"

	"github.com/flux690/nightwatch/internal/executor"
	"github.com/flux690/nightwatch/internal/state"
)

// ExecutePlanHandler runs a validated plan's remediation steps in order.
func ExecutePlanHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if s.Plan == nil || !s.PlanValidated {
		return precondition(s, "executePlan requires a validated plan")
	}
	if len(s.Plan.Steps) == 0 {
		return precondition(s, "executePlan requires at least one remediation step")
	}

	commands := make([]string, len(s.Plan.Steps))
	for i, step := range s.Plan.Steps {
		commands[i] = step.Action
	}

	result := executor.Run(ctx, commands)
	next := s.WithExecutionResult(&result)

	if result.FailedAtStep == -1 {
		return Result{State: next, Success: true}
	}

	failed := result.Results[result.FailedAtStep]
	next = next.WithFailureContext(&state.FailureContext{
		Type:   state.ExecutionFailed,
		Step:   failed.Step,
		Reason: "command exited non-zero",
		Output: failed.Stderr,
	})
	return Result{State: next, Success: false, Error: "execution failed at step " + failed.Step}
}
