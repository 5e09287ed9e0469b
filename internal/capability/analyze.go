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

// logTokenBudget bounds how much of a log batch gets folded into a
// single analyzer turn; the oldest lines are dropped first.
const logTokenBudget = 6000

const analyzeSystemPrompt = `You are the incident analyzer for an SRE agent.
Classify the given container log lines into an incident graph.
Only infrastructure-class failures (databases, caches, storage, networks,
containers, resource limits, service availability, external dependencies)
become nodes; application-logic errors never do.
Discard stale incidents: if a container's logged failure is contradicted
by its live inspected state (e.g. it is healthy now), do not create a
node for it — use the inspection tools to check.
If no infrastructure incident is present, respond with idle=true and no
nodes.`

type analyzeResponse struct {
	Idle  bool                `json:"idle"`
	Graph state.IncidentGraph `json:"graph"`
}

// AnalyzeIncidentHandler infers an incident graph from a log batch.
func AnalyzeIncidentHandler(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result {
	if len(s.Logs) == 0 {
		return precondition(s, "analyzeIncident requires non-empty logs")
	}
	if s.IncidentGraph != nil {
		return precondition(s, "analyzeIncident requires no existing incident graph")
	}

	numbered := make([]string, len(s.Logs))
	for i, l := range s.Logs {
		numbered[i] = fmt.Sprintf("[%d] %s", i, l)
	}
	numbered = reasoner.TrimToTokenBudget(numbered, logTokenBudget)
	schema, err := reasoner.SchemaFor(analyzeResponse{})
	if err != nil {
		return precondition(s, fmt.Sprintf("building schema: %v", err))
	}

	history := []llms.MessageContent{}
	raw, err := deps.Reasoner.Call(ctx, analyzeSystemPrompt, strings.Join(numbered, "\n"), runtimeTools(deps.Runtime), &history, schema)
	if err != nil {
		return Result{State: s, Success: false, Error: err.Error()}
	}

	var resp analyzeResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return Result{State: s, Success: false, Error: fmt.Sprintf("malformed analyzer response: %v", err)}
	}
	if resp.Idle {
		return Result{State: s, Success: true, Idle: true}
	}
	if !state.ValidGraph(resp.Graph) {
		return Result{State: s, Success: false, Error: "analyzer produced an invalid incident graph"}
	}

	next := s.WithIncidentGraph(&resp.Graph)
	return Result{State: next, Success: true, Data: map[string]any{"summary": resp.Graph.Summary}}
}
