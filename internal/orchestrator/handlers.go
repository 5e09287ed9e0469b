package orchestrator

import (
	"fmt"

	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/capability"
	"github.com/flux690/nightwatch/internal/state"
)

// handleRequestApproval is handled inline because it needs the current
// turn's plan summary and may clear downstream state.
func (o *Orchestrator) handleRequestApproval(
	s state.IncidentResolutionState,
	octx state.OrchestrationContext,
	history []llms.MessageContent,
) (state.IncidentResolutionState, state.OrchestrationContext, bool, []llms.MessageContent) {
	if !s.PlanValidated || s.Plan == nil {
		entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: capability.RequestApproval, Success: false, Summary: "requestApproval requires a validated plan"}
		octx = octx.WithAuditEntry(entry)
		o.logAudit(entry)
		history = appendFunctionResponse(history, capability.RequestApproval, false, "requestApproval requires a validated plan")
		return s, octx, false, history
	}

	approved, feedback := o.deps.Human.RequestApproval(s.Plan.Summary)
	if approved {
		octx = octx.WithApproval(s.Revision)
		entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: capability.RequestApproval, Success: true, Summary: "approved"}
		octx = octx.WithAuditEntry(entry)
		o.logAudit(entry)
		history = appendFunctionResponse(history, capability.RequestApproval, true, "approved")
		return s, octx, false, history
	}

	next := s.WithFailureContext(&state.FailureContext{Type: state.UserRejected, Reason: feedback})
	next = next.WithPlanValidated(false)
	next = next.WithExecutionResult(nil)
	next = next.WithVerificationResult(nil)

	entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: capability.RequestApproval, Success: false, Summary: "rejected: " + feedback}
	octx = octx.WithAuditEntry(entry)
	o.logAudit(entry)
	history = appendFunctionResponse(history, capability.RequestApproval, false, "rejected: "+feedback)
	return next, octx, false, history
}

// handleEscalate is handled inline because it may terminate the loop
// (dismiss) or needs to conditionally reset feasibility.
func (o *Orchestrator) handleEscalate(
	s state.IncidentResolutionState,
	octx state.OrchestrationContext,
	args map[string]any,
	history []llms.MessageContent,
) (state.IncidentResolutionState, state.OrchestrationContext, bool, []llms.MessageContent) {
	reason, _ := args["reason"].(string)
	needed, _ := args["needed_context"].(string)

	dismiss, userContext := o.deps.Human.Escalate(reason, needed)

	if dismiss {
		next := s.WithResolution(state.Dismissed)
		entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: capability.Escalate, Success: true, Summary: "dismissed"}
		octx = octx.WithAuditEntry(entry)
		o.logAudit(entry)
		history = appendFunctionResponse(history, capability.Escalate, true, "dismissed")
		return next, octx, false, history
	}

	_ = o.deps.Knowledge.Append(fmt.Sprintf("escalation (%s)", reason), userContext)

	next := s.ClearFailureContext()
	if s.Feasibility != nil && !s.Feasibility.Feasible {
		next = next.WithFeasibility(nil)
	}

	entry := state.AuditEntry{Time: now(), Incident: s.IncidentID, Capability: capability.Escalate, Success: true, Summary: "continued with new context"}
	octx = octx.WithAuditEntry(entry)
	o.logAudit(entry)
	history = appendFunctionResponse(history, capability.Escalate, true, "continued with new context")
	return next, octx, false, history
}
