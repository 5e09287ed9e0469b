package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithPlanClearsDownstream(t *testing.T) {
	s := NewIncidentResolutionState([]string{"[api] boom"})
	s = s.WithPlan(&RemediationPlan{Summary: "first"})
	s = s.WithPlanValidated(true)
	s = s.WithExecutionResult(&ExecutionResult{FailedAtStep: -1})
	s = s.WithFailureContext(&FailureContext{Type: ExecutionFailed})

	replanned := s.WithPlan(&RemediationPlan{Summary: "second"})

	assert.False(t, replanned.PlanValidated)
	assert.Nil(t, replanned.ExecutionResult)
	assert.Nil(t, replanned.VerificationResult)
	assert.Nil(t, replanned.FailureContext)
	assert.Equal(t, "second", replanned.Plan.Summary)

	// original snapshot is untouched
	assert.True(t, s.PlanValidated)
	assert.NotNil(t, s.FailureContext)
}

func TestValidGraphRejectsCycle(t *testing.T) {
	g := IncidentGraph{
		Nodes: []IncidentNode{{}, {}},
		Edges: []Edge{{From: 0, To: 1}, {From: 1, To: 0}},
	}
	assert.False(t, ValidGraph(g))
}

func TestValidGraphAcceptsRootWithNoIncoming(t *testing.T) {
	root := 0
	g := IncidentGraph{
		Nodes: []IncidentNode{{}, {}, {}},
		Edges: []Edge{{From: 0, To: 1}, {From: 1, To: 2}},
		Root:  &root,
	}
	assert.True(t, ValidGraph(g))
}

func TestValidGraphRejectsEdgeIntoRoot(t *testing.T) {
	root := 1
	g := IncidentGraph{
		Nodes: []IncidentNode{{}, {}},
		Edges: []Edge{{From: 0, To: 1}},
		Root:  &root,
	}
	assert.False(t, ValidGraph(g))
}

func TestValidExecutionResultConventions(t *testing.T) {
	ok := ExecutionResult{
		Results:      []StepResult{{Status: StepSuccess}, {Status: StepSuccess}},
		FailedAtStep: -1,
	}
	require.True(t, ValidExecutionResult(ok))

	partial := ExecutionResult{
		Results:      []StepResult{{Status: StepSuccess}, {Status: StepFailure}},
		FailedAtStep: 1,
	}
	require.True(t, ValidExecutionResult(partial))

	badLength := ExecutionResult{
		Results:      []StepResult{{Status: StepSuccess}, {Status: StepFailure}, {Status: StepSuccess}},
		FailedAtStep: 1,
	}
	require.False(t, ValidExecutionResult(badLength))
}

func TestValidStateRejectsExecutionWithoutValidation(t *testing.T) {
	s := NewIncidentResolutionState(nil)
	s = s.WithPlan(&RemediationPlan{})
	s.ExecutionResult = &ExecutionResult{FailedAtStep: -1}
	assert.False(t, ValidState(s))
}

func TestValidStateResolvedRequiresVerificationOrEmptyVerification(t *testing.T) {
	s := NewIncidentResolutionState(nil)
	s = s.WithPlan(&RemediationPlan{Verification: nil})
	s = s.WithPlanValidated(true)
	s = s.WithExecutionResult(&ExecutionResult{FailedAtStep: -1})
	s = s.WithResolution(Resolved)
	assert.True(t, ValidState(s))
}
