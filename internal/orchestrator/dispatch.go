package orchestrator

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/capability"
	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/state"
)

// dispatch handles requestApproval/escalate inline, falls back to generic
// capability dispatch otherwise, enforces the safety invariants as
// pre-dispatch checks, records the audit entry, and counts attempts for
// genuine replans.
func (o *Orchestrator) dispatch(
	ctx context.Context,
	sel reasoner.Selection,
	s state.IncidentResolutionState,
	octx state.OrchestrationContext,
	history []llms.MessageContent,
) (state.IncidentResolutionState, state.OrchestrationContext, bool, []llms.MessageContent) {
	switch sel.Name {
	case capability.RequestApproval:
		return o.handleRequestApproval(s, octx, history)
	case capability.Escalate:
		return o.handleEscalate(s, octx, sel.Args, history)
	}

	if blocked, reason := violatesSafety(sel.Name, s, octx); blocked {
		entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: sel.Name, Success: false, Summary: reason}
		octx = octx.WithAuditEntry(entry)
		o.logAudit(entry)
		history = appendFunctionResponse(history, sel.Name, false, reason)
		return s, octx, false, history
	}

	handler, known := capability.Registry[sel.Name]
	if !known {
		history = appendFunctionResponse(history, sel.Name, false, "unknown capability")
		return s, octx, false, history
	}

	isReplan := sel.Name == capability.PlanRemediation && s.FailureContext != nil

	result := handler(ctx, o.deps, s, sel.Args)

	entry := state.AuditEntry{
		Time:       now(),
		Incident:   s.IncidentID,
		Capability: sel.Name,
		Success:    result.Success,
		Summary:    summarize(result),
	}
	octx = octx.WithAuditEntry(entry)
	o.logAudit(entry)
	history = appendFunctionResponse(history, sel.Name, result.Success, summarize(result))

	if isReplan {
		octx = octx.IncrementAttempt()
	}

	if result.Idle && sel.Name == capability.AnalyzeIncident {
		return result.State, octx, true, history
	}
	return result.State, octx, false, history
}

// violatesSafety enforces the defence-in-depth invariants beyond each
// capability's own precondition check.
func violatesSafety(name string, s state.IncidentResolutionState, octx state.OrchestrationContext) (bool, string) {
	switch name {
	case capability.PlanRemediation:
		if s.Feasibility == nil || !s.Feasibility.Feasible {
			return true, "planRemediation requires feasibility.feasible = true"
		}
	case capability.ValidatePlan:
		if s.Plan == nil {
			return true, "validatePlan requires a plan"
		}
	case capability.RequestApproval:
		if !s.PlanValidated {
			return true, "requestApproval requires a validated plan"
		}
	case capability.ExecutePlan:
		if !s.PlanValidated {
			return true, "executePlan requires validatePlan first"
		}
		if !octx.Approved(s.Revision) {
			return true, "executePlan requires requestApproval first"
		}
	case capability.VerifyPlan:
		if s.ExecutionResult == nil || s.ExecutionResult.FailedAtStep != -1 {
			return true, "verifyPlan requires a successful execution result"
		}
	}
	return false, ""
}

func summarize(r capability.Result) string {
	if r.Error != "" {
		return r.Error
	}
	if r.Idle {
		return "idle: no actionable incident"
	}
	return "ok"
}

func now() time.Time { return time.Now().UTC() }
