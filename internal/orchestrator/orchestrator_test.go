package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/capability"
	"github.com/flux690/nightwatch/internal/config"
	"github.com/flux690/nightwatch/internal/observability"
	"github.com/flux690/nightwatch/internal/observer"
	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/runtime"
	"github.com/flux690/nightwatch/internal/state"
)

type fakeHuman struct {
	approve         bool
	approveFeedback string
	dismiss         bool
	escalateContext string
}

func (f *fakeHuman) AskFeasibilityQuestion(string) (string, bool) { return "", true }
func (f *fakeHuman) RequestApproval(string) (bool, string)        { return f.approve, f.approveFeedback }
func (f *fakeHuman) Escalate(string, string) (bool, string)       { return f.dismiss, f.escalateContext }

type fakeKnowledge struct{ facts []string }

func (f *fakeKnowledge) Facts() (string, error) { return "", nil }
func (f *fakeKnowledge) Append(q, a string) error {
	f.facts = append(f.facts, q+" -> "+a)
	return nil
}

type noopRuntime struct{}

func (noopRuntime) ListContainers(context.Context) ([]runtime.ContainerSummary, error) {
	return nil, nil
}
func (noopRuntime) InspectContainer(context.Context, string) (runtime.ContainerDetail, error) {
	return runtime.ContainerDetail{}, nil
}
func (noopRuntime) FollowLogs(context.Context, string, chan<- runtime.LogLine) error { return nil }

// scriptedModel returns queued tool-call or text responses in order,
// letting a test drive a full orchestrator turn sequence deterministically.
type scriptedModel struct {
	responses []*llms.ContentResponse
	i         int
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	r := m.responses[m.i]
	if m.i < len(m.responses)-1 {
		m.i++
	}
	return r, nil
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return "", nil
}

func toolCallResponse(name, argsJSON string) *llms.ContentResponse {
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			ToolCalls: []llms.ToolCall{{
				ID:           "1",
				FunctionCall: &llms.FunctionCall{Name: name, Arguments: argsJSON},
			}},
		}},
	}
}

func TestObserveModeReportFindingsResolvesObserved(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(capability.ReportFindings, `{}`),
	}}
	gw := reasoner.NewGateway(model, observability.CreateDefaultLogger())
	deps := capability.Deps{
		Reasoner:  gw,
		Runtime:   noopRuntime{},
		Knowledge: &fakeKnowledge{},
		Human:     &fakeHuman{},
		Known:     map[string]struct{}{"api": {}},
	}
	o := New(config.ModeObserve, gw, deps, observability.CreateDefaultLogger())

	result := o.Resolve(context.Background(), observer.Batch{Logs: []string{"[api] boom"}}, 3)
	assert.Equal(t, state.Observed, result.Resolution)
}

func TestEscalateDismissesIncident(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(capability.Escalate, `{"reason":"unclear","needed_context":""}`),
	}}
	gw := reasoner.NewGateway(model, observability.CreateDefaultLogger())
	deps := capability.Deps{
		Reasoner:  gw,
		Runtime:   noopRuntime{},
		Knowledge: &fakeKnowledge{},
		Human:     &fakeHuman{dismiss: true},
		Known:     map[string]struct{}{"api": {}},
	}
	o := New(config.ModeRemediate, gw, deps, observability.CreateDefaultLogger())

	result := o.Resolve(context.Background(), observer.Batch{Logs: []string{"[api] boom"}}, 3)
	assert.Equal(t, state.Dismissed, result.Resolution)
}

func TestExecutePlanBlockedWithoutValidation(t *testing.T) {
	model := &scriptedModel{responses: []*llms.ContentResponse{
		toolCallResponse(capability.ExecutePlan, `{}`),
		toolCallResponse(capability.Escalate, `{"reason":"blocked","needed_context":""}`),
	}}
	gw := reasoner.NewGateway(model, observability.CreateDefaultLogger())
	deps := capability.Deps{
		Reasoner:  gw,
		Runtime:   noopRuntime{},
		Knowledge: &fakeKnowledge{},
		Human:     &fakeHuman{dismiss: true},
		Known:     map[string]struct{}{"api": {}},
	}
	o := New(config.ModeRemediate, gw, deps, observability.CreateDefaultLogger())

	result := o.Resolve(context.Background(), observer.Batch{Logs: []string{"[api] boom"}}, 3)
	require.Equal(t, state.Dismissed, result.Resolution)
	assert.Nil(t, result.ExecutionResult)
}
