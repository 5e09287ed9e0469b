package capability

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/state"
)

const planSystemPrompt = `You are producing a remediation plan: an ordered list of docker
commands that restore the broken state, and an ordered list of docker
commands that verify recovery. Only "docker ..." commands against a
single known container are ever valid; never use shell features (pipes,
redirection, chaining, substitution, subshells, variable assignment) or
destructive commands.
If no safe remediation exists, return empty steps.
You are shown your own history of past rejected attempts on this
incident; do not repeat a rejected command verbatim.`

// PlanRemediationHandler drafts an ordered remediation and verification plan.
func PlanRemediationHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if s.Feasibility == nil || !s.Feasibility.Feasible {
		return precondition(s, "planRemediation requires feasibility.feasible = true")
	}
	if s.Plan != nil && s.FailureContext == nil {
		return precondition(s, "planRemediation requires no prior plan, or a prior plan paired with a failure context")
	}

	facts, _ := deps.Knowledge.Facts()
	schema, err := reasoner.SchemaFor(state.RemediationPlan{})
	if err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("building schema: %v", err)}
	}

	var sb strings.Builder
	graph, _ := json.Marshal(s.IncidentGraph)
	fmt.Fprintf(&sb, "Incident graph:\n%s\n\nKnown facts:\n%s\n", graph, facts)
	if s.FailureContext != nil {
		fc, _ := json.Marshal(s.FailureContext)
		fmt.Fprintf(&sb, "\nPrevious attempt failed:\n%s\n", fc)
	}
	if len(s.PlannerHistory) > 0 {
		fmt.Fprintf(&sb, "\nPlanner history:\n%s\n", strings.Join(s.PlannerHistory, "\n"))
	}

	history := []llms.MessageContent{}
	raw, err := deps.Reasoner.Call(ctx, planSystemPrompt, sb.String(), nil, &history, schema)
	if err != nil {
		return Result{State: s, Success: false, Error: err.Error()}
	}

	var plan state.RemediationPlan
	if err := json.Unmarshal(raw, &plan); err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("malformed plan response: %v", err)}
	}

	next := s.WithPlan(&plan)
	entry := fmt.Sprintf("attempt: %s", plan.Summary)
	next = next.WithPlannerHistory(entry)

	return Result{State: next, Success: true, Data: map[string]any{
		"steps":        len(plan.Steps),
		"verification": len(plan.Verification),
	}}
}
