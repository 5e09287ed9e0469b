// Package orchestrator implements the state-machine driver: it consumes
// a batch, runs a resolution loop that asks the reasoner which
// capability to invoke, applies state invariants, mediates human
// interaction, and terminates on resolved/observed/dismissed or an idle
// signal.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/tmc/langchaingo/llms"

	"github.com/flux690/nightwatch/internal/capability"
	"github.com/flux690/nightwatch/internal/config"
	"github.com/flux690/nightwatch/internal/observability"
	"github.com/flux690/nightwatch/internal/observer"
	"github.com/flux690/nightwatch/internal/reasoner"
	"github.com/flux690/nightwatch/internal/state"
)

const systemPrompt = `You are the orchestrator for an autonomous SRE agent. Given the current
incident resolution state, pick exactly one capability to invoke next by
making a single tool call with its arguments. Think before you act.
Only capabilities currently exposed to you are valid; selecting one
whose preconditions are unmet will be reported back to you as a failure
so you can re-pick.`

// Orchestrator drives one incident from a log batch to a terminal
// resolution.
type Orchestrator struct {
	mode    config.Mode
	gateway *reasoner.Gateway
	deps    capability.Deps
	logger  *observability.Logger
}

// New builds an Orchestrator.
func New(mode config.Mode, gateway *reasoner.Gateway, deps capability.Deps, logger *observability.Logger) *Orchestrator {
	return &Orchestrator{mode: mode, gateway: gateway, deps: deps, logger: logger}
}

// Resolve runs the resolution loop for one batch to completion: resolved,
// observed, dismissed, or idle (in which case Resolution stays Pending
// and the caller should discard the state and keep observing).
func (o *Orchestrator) Resolve(ctx context.Context, batch observer.Batch, maxAttempts int) state.IncidentResolutionState {
	s := state.NewIncidentResolutionState(batch.Logs)
	octx := state.NewOrchestrationContext(maxAttempts)
	var history []llms.MessageContent

	for s.Resolution == state.Pending {
		if octx.CircuitOpen() {
			dismiss, userContext := o.deps.Human.Escalate("replan budget exhausted without progress", "")
			if dismiss {
				s = s.WithResolution(state.Dismissed)
				break
			}
			_ = o.deps.Knowledge.Append("escalation: replan budget exhausted", userContext)
			s = s.ClearFailureContext()
			octx = octx.ResetAttempts()
			continue
		}

		payload, err := json.Marshal(s)
		if err != nil {
			o.logger.Errorf("unexpected orchestration error: %v", err)
			continue
		}
		history = append(history, llms.MessageContent{
			Role:  llms.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: string(payload)}},
		})

		selection, ok, err := o.gateway.SelectTool(ctx, systemPrompt, history, o.toolsForMode())
		if err != nil {
			o.logger.Errorf("unexpected orchestration error: %v", err)
			history = appendNudge(history, "A transport error occurred; please re-pick a capability.")
			continue
		}
		if !ok {
			history = appendNudge(history, "You must call exactly one of the available tools. No tool call was received.")
			continue
		}

		var idle bool
		s, octx, idle, history = o.dispatch(ctx, selection, s, octx, history)
		if idle {
			return s
		}
	}
	return s
}

// logAudit emits one structured audit-log line per orchestrator step.
func (o *Orchestrator) logAudit(e state.AuditEntry) {
	o.logger.WithFields(logrus.Fields{
		"incident":   e.Incident,
		"capability": e.Capability,
		"success":    e.Success,
	}).Info(e.Summary)
}

func (o *Orchestrator) toolsForMode() []reasoner.ToolDecl {
	names := capability.ObserveModeTools
	if o.mode == config.ModeRemediate {
		names = capability.RemediateModeTools
	}
	decls := make([]reasoner.ToolDecl, 0, len(names))
	for _, n := range names {
		decls = append(decls, reasoner.ToolDecl{Name: n, Description: n, Schema: `{"type":"object"}`})
	}
	return decls
}

func appendNudge(history []llms.MessageContent, text string) []llms.MessageContent {
	return append(history, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	})
}

func appendFunctionResponse(history []llms.MessageContent, name string, success bool, summary string) []llms.MessageContent {
	text := fmt.Sprintf("%s => success=%v: %s", name, success, summary)
	return append(history, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextContent{Text: text}},
	})
}
