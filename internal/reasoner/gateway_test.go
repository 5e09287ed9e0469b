package reasoner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
)

type stubModel struct {
	responses []*llms.ContentResponse
	errors    []error
	calls     int
}

func (s *stubModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	i := s.calls
	s.calls++
	if i < len(s.errors) && s.errors[i] != nil {
		return nil, s.errors[i]
	}
	return s.responses[i], nil
}

func (s *stubModel) Call(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	return "", nil
}

func TestCallParsesDirectJSON(t *testing.T) {
	model := &stubModel{
		responses: []*llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: `{"feasible": true}`}}},
		},
	}
	g := NewGateway(model, nil)
	history := []llms.MessageContent{}

	raw, err := g.Call(context.Background(), "system", "assess", nil, &history, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"feasible": true}`, string(raw))
}

func TestCallStripsCodeFences(t *testing.T) {
	model := &stubModel{
		responses: []*llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "```json\n{\"ok\": true}\n```"}}},
		},
	}
	g := NewGateway(model, nil)
	history := []llms.MessageContent{}

	raw, err := g.Call(context.Background(), "system", "go", nil, &history, "")
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
}

func TestCallRepairsMalformedJSON(t *testing.T) {
	model := &stubModel{
		responses: []*llms.ContentResponse{
			{Choices: []*llms.ContentChoice{{Content: "not json at all"}}},
			{Choices: []*llms.ContentChoice{{Content: `{"ok": true}`}}},
		},
	}
	g := NewGateway(model, nil)
	history := []llms.MessageContent{}

	raw, err := g.Call(context.Background(), "system", "go", nil, &history, `{"type":"object"}`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
}
