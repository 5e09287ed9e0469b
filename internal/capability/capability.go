// Package capability implements the nine named incident-resolution
// operations behind one uniform handler contract.
package capability

import (
	"context"

	"github.com/flux690/nightwatch/internal/observability"
	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/runtime"
	"github.com/flux690/nightwatch/internal/state"
)

// HumanDialog is the terminal interaction surface capabilities and the
// orchestrator consult. It is an interface, satisfied by *human.Dialog,
// so the orchestrator's loop can be exercised in tests against a fake
// without a real terminal.
type HumanDialog interface {
	AskFeasibilityQuestion(question string) (answer string, skipped bool)
	RequestApproval(summary string) (approved bool, feedback string)
	Escalate(reason, neededContext string) (dismiss bool, context string)
}

// KnowledgeStore is the append-only fact store interface, satisfied by
// *knowledge.Store.
type KnowledgeStore interface {
	Facts() (string, error)
	Append(question, answer string) error
}

// Capability names, the closed set the reasoner may choose from.
const (
	AnalyzeIncident   = "analyzeIncident"
	AssessFeasibility = "assessFeasibility"
	PlanRemediation   = "planRemediation"
	ValidatePlan      = "validatePlan"
	RequestApproval   = "requestApproval"
	ExecutePlan       = "executePlan"
	VerifyPlan        = "verifyPlan"
	ReportFindings    = "reportFindings"
	Escalate          = "escalate"
)

// Deps bundles every external collaborator a capability handler may need.
// Human is called by the orchestrator's inline handling of
// RequestApproval/Escalate and by assessFeasibility's ask_user tool; no
// other handler calls it.
type Deps struct {
	Reasoner  *reasoner.Gateway
	Runtime   runtime.ContainerRuntime
	Knowledge KnowledgeStore
	Human     HumanDialog
	Known     map[string]struct{}
	Logger    *observability.Logger
}

// Result is the uniform outcome of a capability invocation.
type Result struct {
	State   state.IncidentResolutionState
	Success bool
	Data    map[string]any
	Error   string
	Idle    bool
}

// Handler is the shared capability contract.
type Handler func(ctx context.Context, deps Deps, s state.IncidentResolutionState, args map[string]any) Result

// Registry maps every capability the generic dispatch loop may invoke.
// RequestApproval and Escalate are deliberately absent: they are handled
// inline by the orchestrator.
var Registry = map[string]Handler{
	AnalyzeIncident:   AnalyzeIncidentHandler,
	AssessFeasibility: AssessFeasibilityHandler,
	PlanRemediation:   PlanRemediationHandler,
	ValidatePlan:      ValidatePlanHandler,
	ExecutePlan:       ExecutePlanHandler,
	VerifyPlan:        VerifyPlanHandler,
	ReportFindings:    ReportFindingsHandler,
}

// ObserveModeTools is the capability set exposed in observe mode.
var ObserveModeTools = []string{AnalyzeIncident, AssessFeasibility, Escalate, ReportFindings}

// RemediateModeTools is the capability set exposed in remediate mode.
var RemediateModeTools = []string{
	AnalyzeIncident, AssessFeasibility, Escalate,
	PlanRemediation, ValidatePlan, RequestApproval, ExecutePlan, VerifyPlan,
}

func precondition(s state.IncidentResolutionState, reason string) Result {
	return Result{State: s, Success: false, Error: reason}
}
