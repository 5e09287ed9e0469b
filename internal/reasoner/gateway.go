// Package reasoner wraps structured, tool-augmented calls to an external
// reasoner behind a small backoff/error-classification gateway, with
// fence-stripping JSON repair for malformed structured responses.
package reasoner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"golang.org/x/sync/errgroup"

	"github.com/flux690/nightwatch/internal/observability"
)

const (
	backoffBase    = time.Second
	maxTransportTries = 3
)

// Tool is one callable capability the reasoner may invoke mid-turn.
type Tool struct {
	Name        string
	Description string
	Schema      string
	Handler     func(ctx context.Context, args map[string]any) (string, error)
}

// Gateway wraps a langchaingo llms.Model with retry/JSON-repair
// machinery around every structured call.
type Gateway struct {
	model  llms.Model
	logger *observability.Logger
}

// NewGateway builds a Gateway over any langchaingo-compatible model.
func NewGateway(model llms.Model, logger *observability.Logger) *Gateway {
	return &Gateway{model: model, logger: logger}
}

// Call runs the tool-dispatch loop to completion: send history, execute
// any tool calls the model makes, and repeat until it returns a final
// structured answer. history is appended to in place as the call
// proceeds. schema, if non-empty, is the JSON Schema used for the repair
// pass if the final answer isn't valid JSON.
func (g *Gateway) Call(ctx context.Context, system, opening string, tools []Tool, history *[]llms.MessageContent, schema string) (json.RawMessage, error) {
	if len(*history) == 0 && opening != "" {
		*history = append(*history, llms.MessageContent{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: opening}},
		})
	}

	for {
		messages := append([]llms.MessageContent{
			{Role: llms.ChatMessageTypeSystem, Parts: []llms.ContentPart{llms.TextContent{Text: system}}},
		}, *history...)

		resp, err := g.generateWithBackoff(ctx, messages, toolOptions(tools)...)
		if err != nil {
			return nil, fmt.Errorf("reasoner call failed: %w", err)
		}
		if len(resp.Choices) == 0 {
			return nil, errors.New("reasoner returned no choices")
		}
		choice := resp.Choices[0]

		if len(choice.ToolCalls) > 0 {
			if err := g.dispatchToolCalls(ctx, choice, tools, history); err != nil {
				return nil, err
			}
			continue
		}

		raw, parseErr := parseJSON(choice.Content)
		if parseErr == nil {
			return raw, nil
		}
		if schema == "" {
			return nil, fmt.Errorf("reasoner response was not valid JSON: %w", parseErr)
		}
		return g.repair(ctx, history, schema)
	}
}

// dispatchToolCalls executes every requested tool call, in parallel if
// more than one, and appends the model turn plus each tool response to
// history.
func (g *Gateway) dispatchToolCalls(ctx context.Context, choice *llms.ContentChoice, tools []Tool, history *[]llms.MessageContent) error {
	assistantParts := make([]llms.ContentPart, 0, len(choice.ToolCalls))
	for _, tc := range choice.ToolCalls {
		assistantParts = append(assistantParts, tc)
	}
	*history = append(*history, llms.MessageContent{Role: llms.ChatMessageTypeAI, Parts: assistantParts})

	results := make([]string, len(choice.ToolCalls))
	group, gctx := errgroup.WithContext(ctx)
	for i, tc := range choice.ToolCalls {
		i, tc := i, tc
		group.Go(func() error {
			handler := findTool(tools, tc.FunctionCall.Name)
			if handler == nil {
				results[i] = fmt.Sprintf("error: unknown tool %q", tc.FunctionCall.Name)
				return nil
			}
			var args map[string]any
			if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
				results[i] = fmt.Sprintf("error: invalid arguments: %v", err)
				return nil
			}
			out, err := handler.Handler(gctx, args)
			if err != nil {
				results[i] = fmt.Sprintf("error: %v", err)
				return nil
			}
			results[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return err
	}

	for i, tc := range choice.ToolCalls {
		*history = append(*history, llms.MessageContent{
			Role: llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{
				llms.ToolCallResponse{
					ToolCallID: tc.ID,
					Name:       tc.FunctionCall.Name,
					Content:    results[i],
				},
			},
		})
	}
	return nil
}

func findTool(tools []Tool, name string) *Tool {
	for i := range tools {
		if tools[i].Name == name {
			return &tools[i]
		}
	}
	return nil
}

func toolOptions(tools []Tool) []llms.CallOption {
	if len(tools) == 0 {
		return nil
	}
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
	return []llms.CallOption{llms.WithTools(declared)}
}

// repair sends one corrective message requesting strict
// schema-conforming JSON, then a single retry.
func (g *Gateway) repair(ctx context.Context, history *[]llms.MessageContent, schema string) (json.RawMessage, error) {
	corrective := fmt.Sprintf(
		"Your previous response was not valid JSON. Respond with ONLY a JSON object matching this schema, no prose, no code fences:\n%s",
		schema,
	)
	*history = append(*history, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: corrective}},
	})

	resp, err := g.generateWithBackoff(ctx, *history, llms.WithJSONMode())
	if err != nil {
		return nil, fmt.Errorf("repair call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("repair call returned no choices")
	}
	return parseJSON(resp.Choices[0].Content)
}

// generateWithBackoff retries transport errors with exponential backoff,
// base 1s, up to 3 attempts; a 4xx short-circuits.
func (g *Gateway) generateWithBackoff(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	var lastErr error
	for attempt := 0; attempt < maxTransportTries; attempt++ {
		resp, err := g.model.GenerateContent(ctx, messages, opts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if isClientError(err) {
			return nil, err
		}
		if attempt < maxTransportTries-1 {
			delay := backoffBase * time.Duration(1<<attempt)
			if g.logger != nil {
				g.logger.Warnf("reasoner transport error (attempt %d/%d), retrying in %s: %v", attempt+1, maxTransportTries, delay, err)
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}
	return nil, lastErr
}

func isClientError(err error) bool {
	return regexp.MustCompile(`\b4\d{2}\b`).MatchString(err.Error())
}

// parseJSON strips markdown code fences (if present) and validates the
// remainder as JSON.
func parseJSON(content string) (json.RawMessage, error) {
	cleaned := stripCodeFences(content)
	var probe any
	if err := json.Unmarshal([]byte(cleaned), &probe); err != nil {
		return nil, err
	}
	return json.RawMessage(cleaned), nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	first := strings.Index(s, "\n")
	if first == -1 {
		return s
	}
	rest := s[first+1:]
	last := strings.LastIndex(rest, "```")
	if last == -1 {
		return strings.TrimSpace(rest)
	}
	return strings.TrimSpace(rest[:last])
}
