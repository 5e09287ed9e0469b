package capability

import (
	"context"

	"github.com/flux690/nightwatch/internal/executor"
	"github.com/flux690/nightwatch/internal/state"
)

// VerifyPlanHandler runs the plan's verification commands after a
// successful execution and decides whether the incident is resolved.
func VerifyPlanHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if s.ExecutionResult == nil || s.ExecutionResult.FailedAtStep != -1 {
		return precondition(s, "verifyPlan requires a successful execution result")
	}

	if s.Plan == nil || len(s.Plan.Verification) == 0 {
		empty := state.ExecutionResult{Results: nil, FailedAtStep: -1}
		next := s.WithVerificationResult(&empty).WithResolution(state.Resolved)
		return Result{State: next, Success: true}
	}

	commands := make([]string, len(s.Plan.Verification))
	for i, step := range s.Plan.Verification {
		commands[i] = step.Action
	}

	result := executor.Run(ctx, commands)
	next := s.WithVerificationResult(&result)

	if result.FailedAtStep == -1 {
		next = next.WithResolution(state.Resolved)
		return Result{State: next, Success: true}
	}

	failed := result.Results[result.FailedAtStep]
	next = next.WithFailureContext(&state.FailureContext{
		Type:   state.VerificationFailed,
		Step:   failed.Step,
		Reason: "verification command did not confirm recovery",
		Output: failed.Stdout,
	})
	return Result{State: next, Success: false, Error: "verification failed at step " + failed.Step}
}
