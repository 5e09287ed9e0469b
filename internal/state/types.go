// Package state defines the data model passed between capabilities.
// Every value here is immutable; mutation happens by copying with a
// With... method and discarding the receiver.
package state

import (
	"time"

	"github.com/google/uuid"
)

// Resolution is the terminal (or pending) status of an incident.
type Resolution string

const (
	Pending  Resolution = "pending"
	Resolved Resolution = "resolved"
	Observed Resolution = "observed"
	Dismissed Resolution = "dismissed"
)

// IncidentNode is one inferred infrastructure failure.
type IncidentNode struct {
	Container string    `json:"container"`
	Type      string    `json:"type"` // <category>.<service>.<failure>
	Evidence  []string  `json:"evidence"`
	Timestamp time.Time `json:"timestamp"`
}

// Edge is a causal link in an IncidentGraph: From causes To.
type Edge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// IncidentGraph is a DAG of inferred failures.
type IncidentGraph struct {
	Nodes   []IncidentNode `json:"nodes"`
	Edges   []Edge         `json:"edges"`
	Root    *int           `json:"root,omitempty"`
	Summary string         `json:"summary"`
}

// FeasibilityAssessment records whether a safe remediation can be produced.
type FeasibilityAssessment struct {
	Feasible       bool    `json:"feasible"`
	Summary        string  `json:"summary"`
	BlockingReason *string `json:"blocking_reason,omitempty"`
}

// PlanStep is a single command with the reasoning behind it.
type PlanStep struct {
	Action string `json:"action"`
	Reason string `json:"reason"`
}

// RemediationPlan is the ordered remediation and verification steps.
type RemediationPlan struct {
	Summary      string     `json:"summary"`
	Steps        []PlanStep `json:"steps"`
	Verification []PlanStep `json:"verification"`
}

// StepStatus is the outcome of running one command.
type StepStatus string

const (
	StepSuccess StepStatus = "success"
	StepFailure StepStatus = "failure"
)

// StepResult is the captured outcome of running one command.
type StepResult struct {
	Step      string     `json:"step"`
	Status    StepStatus `json:"status"`
	ExitCode  int        `json:"exitCode"`
	Stdout    string     `json:"stdout"`
	Stderr    string     `json:"stderr"`
	Timestamp time.Time  `json:"timestamp"`
}

// ExecutionResult is the outcome of running an ordered command sequence.
// FailedAtStep is -1 when every step succeeded.
type ExecutionResult struct {
	Results      []StepResult `json:"results"`
	FailedAtStep int          `json:"failedAtStep"`
}

// FailureKind tags why a capability failed to make forward progress.
type FailureKind string

const (
	RemediationCommandRejected FailureKind = "remediation_command_rejected"
	VerificationCommandRejected FailureKind = "verification_command_rejected"
	ExecutionFailed             FailureKind = "execution_failed"
	VerificationFailed          FailureKind = "verification_failed"
	UserRejected                FailureKind = "user_rejected"
)

// FailureContext is the cross-capability back-channel describing the
// most recent obstacle to resolution.
type FailureContext struct {
	Type   FailureKind `json:"type"`
	Step   string      `json:"step,omitempty"`
	Reason string      `json:"reason,omitempty"`
	Output string      `json:"output,omitempty"`
}

// IncidentResolutionState is the only value passed between capabilities.
// Every field is a snapshot; capabilities return a modified copy rather
// than mutating in place.
type IncidentResolutionState struct {
	// IncidentID correlates audit entries back to one resolution run; it
	// plays no part in any invariant.
	IncidentID         string
	Logs               []string
	IncidentGraph      *IncidentGraph
	Feasibility        *FeasibilityAssessment
	Plan               *RemediationPlan
	ExecutionResult    *ExecutionResult
	VerificationResult *ExecutionResult
	FailureContext     *FailureContext
	PlannerHistory     []string
	PlanValidated      bool
	Resolution         Resolution

	// Revision is incremented on every With... call. The orchestrator
	// records the revision a plan was approved at and allows executePlan
	// only while the state is still at that revision.
	Revision int
}

// NewIncidentResolutionState builds the initial state for a batch of logs.
func NewIncidentResolutionState(logs []string) IncidentResolutionState {
	return IncidentResolutionState{
		IncidentID: uuid.NewString(),
		Logs:       logs,
		Resolution: Pending,
	}
}

func (s IncidentResolutionState) next() IncidentResolutionState {
	s.Revision++
	return s
}

// WithIncidentGraph returns a copy with the incident graph set.
func (s IncidentResolutionState) WithIncidentGraph(g *IncidentGraph) IncidentResolutionState {
	s = s.next()
	s.IncidentGraph = g
	return s
}

// WithFeasibility returns a copy with the feasibility assessment set.
func (s IncidentResolutionState) WithFeasibility(f *FeasibilityAssessment) IncidentResolutionState {
	s = s.next()
	s.Feasibility = f
	return s
}

// WithPlan replaces the plan and clears everything downstream of
// planning: validation, execution, verification, and any failure context
// all belong to the plan they were produced against.
func (s IncidentResolutionState) WithPlan(p *RemediationPlan) IncidentResolutionState {
	s = s.next()
	s.Plan = p
	s.PlanValidated = false
	s.ExecutionResult = nil
	s.VerificationResult = nil
	s.FailureContext = nil
	return s
}

// WithPlannerHistory appends an entry to the private replanning history.
func (s IncidentResolutionState) WithPlannerHistory(entry string) IncidentResolutionState {
	s = s.next()
	s.PlannerHistory = append(append([]string{}, s.PlannerHistory...), entry)
	return s
}

// WithPlanValidated marks the current plan as validated.
func (s IncidentResolutionState) WithPlanValidated(v bool) IncidentResolutionState {
	s = s.next()
	s.PlanValidated = v
	return s
}

// WithExecutionResult sets the execution result.
func (s IncidentResolutionState) WithExecutionResult(r *ExecutionResult) IncidentResolutionState {
	s = s.next()
	s.ExecutionResult = r
	return s
}

// WithVerificationResult sets the verification result.
func (s IncidentResolutionState) WithVerificationResult(r *ExecutionResult) IncidentResolutionState {
	s = s.next()
	s.VerificationResult = r
	return s
}

// WithFailureContext sets (or, with nil, clears) the failure context.
func (s IncidentResolutionState) WithFailureContext(f *FailureContext) IncidentResolutionState {
	s = s.next()
	s.FailureContext = f
	return s
}

// ClearFailureContext clears the failure context. New human context
// calls this; planning clears the field through WithPlan.
func (s IncidentResolutionState) ClearFailureContext() IncidentResolutionState {
	return s.WithFailureContext(nil)
}

// WithResolution sets the terminal or pending resolution status.
func (s IncidentResolutionState) WithResolution(r Resolution) IncidentResolutionState {
	s = s.next()
	s.Resolution = r
	return s
}

// OrchestrationContext is internal to the orchestrator loop; it is never
// passed to a capability.
type OrchestrationContext struct {
	AttemptCount    int
	MaxAttempts     int
	History         []AuditEntry
	ReasonerHistory []ReasonerTurn

	// ApprovedRevision tracks which plan revision requestApproval last
	// cleared for execution, enforcing "always approve between validation
	// and execution" even though approval itself leaves
	// IncidentResolutionState unchanged on the happy path.
	ApprovedRevision int
}

// AuditEntry is one append-only record of an orchestrator step.
type AuditEntry struct {
	Time       time.Time
	Incident   string
	Capability string
	Success    bool
	Summary    string
}

// ReasonerTurn is an opaque slot for whatever message shape the gateway
// appends to the conversation; the orchestrator only ever appends and
// passes this slice back to the gateway, it never inspects it.
type ReasonerTurn struct {
	Role    string
	Content string
}

// NewOrchestrationContext builds a fresh per-incident loop context.
func NewOrchestrationContext(maxAttempts int) OrchestrationContext {
	return OrchestrationContext{MaxAttempts: maxAttempts}
}

// WithAuditEntry appends an audit entry.
func (c OrchestrationContext) WithAuditEntry(e AuditEntry) OrchestrationContext {
	c.History = append(append([]AuditEntry{}, c.History...), e)
	return c
}

// WithReasonerTurn appends a reasoner-conversation turn.
func (c OrchestrationContext) WithReasonerTurn(t ReasonerTurn) OrchestrationContext {
	c.ReasonerHistory = append(append([]ReasonerTurn{}, c.ReasonerHistory...), t)
	return c
}

// IncrementAttempt increments the replan attempt counter.
func (c OrchestrationContext) IncrementAttempt() OrchestrationContext {
	c.AttemptCount++
	return c
}

// ResetAttempts zeroes the replan attempt counter (on human context injection).
func (c OrchestrationContext) ResetAttempts() OrchestrationContext {
	c.AttemptCount = 0
	return c
}

// CircuitOpen reports whether the replan budget is exhausted.
func (c OrchestrationContext) CircuitOpen() bool {
	return c.AttemptCount >= c.MaxAttempts
}

// WithApproval records that the plan at the given revision was approved.
func (c OrchestrationContext) WithApproval(revision int) OrchestrationContext {
	c.ApprovedRevision = revision
	return c
}

// Approved reports whether the plan at the given revision was approved.
func (c OrchestrationContext) Approved(revision int) bool {
	return c.ApprovedRevision == revision
}
