package reasoner

import (
	"context"
	"encoding/json"

	"github.com/tmc/langchaingo/llms"
)

// ToolDecl is a declare-only tool: name, description, argument schema,
// with no attached handler. The orchestrator's capability-selection turn
// needs to see which capability the reasoner picked without the gateway
// executing it automatically, unlike Tool/Call's auto-dispatch loop used
// inside capability handlers.
type ToolDecl struct {
	Name        string
	Description string
	Schema      string
}

// Selection is the reasoner's choice of capability and its arguments.
type Selection struct {
	Name string
	Args map[string]any
}

// SelectTool sends history (with system prepended) and the declared
// tools, and returns the first tool call the reasoner makes, without
// executing it. ok is false if the reasoner returned no tool call at
// all, in which case the caller should nudge and retry.
func (g *Gateway) SelectTool(ctx context.Context, system string, history []llms.MessageContent, tools []ToolDecl) (Selection, bool, error) {
	messages := append([]llms.MessageContent{
		{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: system}}},
	}, history...)

	declared := make([]llms.Tool, 0, len(tools))
	for _, t := range tools {
		var params map[string]any
		_ = json.Unmarshal([]byte(t.Schema), &params)
		declared = append(declared, llms.Tool{
			Type: "function",
			Function: &llms.FunctionDefinition{
				Name:        t.Name,
				Description: t.Description,
				Parameters:  params,
			},
		})
	}

	resp, err := g.generateWithBackoff(ctx, messages, llms.WithTools(declared))
	if err != nil {
		return Selection{}, false, err
	}
	if len(resp.Choices) == 0 || len(resp.Choices[0].ToolCalls) == 0 {
		return Selection{}, false, nil
	}

	tc := resp.Choices[0].ToolCalls[0]
	var args map[string]any
	_ = json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args)
	return Selection{Name: tc.FunctionCall.Name, Args: args}, true, nil
}
