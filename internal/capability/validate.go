package capability

import (
	"context"

	"github.com/flux690/nightwatch/internal/state"
	"github.com/flux690/nightwatch/internal/validator"
)

// ValidatePlanHandler checks every command in a plan against the safety
// grammar and the known container set.
func ValidatePlanHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if s.Plan == nil {
		return precondition(s, "validatePlan requires a plan")
	}
	if s.PlanValidated {
		return precondition(s, "validatePlan requires the plan to not already be validated")
	}

	ok, failure := validator.ValidatePlan(*s.Plan, deps.Known)
	if !ok {
		next := s.WithFailureContext(failure)
		return Result{State: next, Success: false, Error: failure.Reason, Data: map[string]any{"type": string(failure.Type), "step": failure.Step}}
	}

	next := s.WithPlanValidated(true)
	return Result{State: next, Success: true}
}
