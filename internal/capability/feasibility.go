package capability

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/state"
)

const feasibilitySystemPrompt = `You are assessing whether a safe, deterministic remediation can be
produced for the given incident graph.
A parameter is "known" only if configuration or the knowledge store
positively declares it; its absence is never itself a value — ask the
user with ask_user if you need it and it is not already known.
Ask at most one question at a time. If the user skips, you must return
feasible=false with a specific blocking_reason naming what is missing.`

// AssessFeasibilityHandler decides whether a safe remediation is possible.
func AssessFeasibilityHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if s.IncidentGraph == nil || s.IncidentGraph.Root == nil {
		return precondition(s, "assessFeasibility requires an incident graph with a root")
	}

	facts, err := deps.Knowledge.Facts()
	if err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("reading knowledge store: %v", err)}
	}

	schema, err := reasoner.SchemaFor(state.FeasibilityAssessment{})
	if err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("building schema: %v", err)}
	}

	graph, _ := json.Marshal(s.IncidentGraph)
	opening := fmt.Sprintf("Incident graph:\n%s\n\nKnown facts:\n%s", graph, facts)

	tools := append(runtimeTools(deps.Runtime), askUserTool(deps))

	history := []llms.MessageContent{}
	raw, err := deps.Reasoner.Call(ctx, feasibilitySystemPrompt, opening, tools, &history, schema)
	if err != nil {
		return Result{State: s, Success: false, Error: err.Error()}
	}

	var assessment state.FeasibilityAssessment
	if err := json.Unmarshal(raw, &assessment); err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("malformed feasibility response: %v", err)}
	}
	if !state.ValidFeasibility(assessment) {
		return Result{State: s, Success: false, Error: "feasible and blocking_reason are inconsistent"}
	}

	next := s.WithFeasibility(&assessment)
	return Result{State: next, Success: true, Data: map[string]any{"feasible": assessment.Feasible}}
}

// askUserTool lets the reasoner ask the human a single feasibility
// question. An answer is persisted to the knowledge store immediately.
func askUserTool(deps Deps) reasoner.Tool {
	return reasoner.Tool{
		Name:        "ask_user",
		Description: "Ask the human operator one question. Returns their answer, or \"SKIPPED\" if they decline to answer.",
		Schema:      `{"type":"object","properties":{"question":{"type":"string"}},"required":["question"]}`,
		Handler: func(ctx context.Context, args map[string]any) (string, error) {
			question, _ := args["question"].(string)
			answer, skipped := deps.Human.AskFeasibilityQuestion(question)
			if skipped {
				return "SKIPPED", nil
			}
			if err := deps.Knowledge.Append(question, answer); err != nil {
				return "", fmt.Errorf("persisting fact: %w", err)
			}
			return answer, nil
		},
	}
}
