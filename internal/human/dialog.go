// Package human implements the terminal interaction surface: feasibility
// questions, plan approval, and escalation all share a prompt→await-line
// pattern, kept deliberately out of the capability library's generic
// dispatch since they need the current turn's arguments and may
// terminate the resolution loop.
package human

import (
	"strings"

	"github.com/chzyer/readline"
)

// Dialog is a minimal synchronous terminal prompt, grounded on the
// teacher's RequestHumanFeedback pattern but reimplemented as a direct
// stdin read rather than an async store+channel, since Nightwatch has no
// concurrent session to block against.
type Dialog struct {
	instance *readline.Instance
}

// NewDialog opens a readline-backed terminal dialog.
func NewDialog() (*Dialog, error) {
	instance, err := readline.New("nightwatch> ")
	if err != nil {
		return nil, err
	}
	return &Dialog{instance: instance}, nil
}

// Close releases the underlying terminal handle.
func (d *Dialog) Close() error {
	return d.instance.Close()
}

func (d *Dialog) readLine(prompt string) string {
	d.instance.SetPrompt(prompt)
	line, err := d.instance.Readline()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}

// AskFeasibilityQuestion asks the human one question. An empty line or
// "skip" means "no answer" (skipped=true).
func (d *Dialog) AskFeasibilityQuestion(question string) (answer string, skipped bool) {
	line := d.readLine(question + "\n> ")
	if line == "" || strings.EqualFold(line, "skip") {
		return "", true
	}
	return line, false
}

// RequestApproval asks the human to approve a plan. "y"/"yes" (case
// insensitive) approves; anything else requires a non-empty feedback
// line before returning.
func (d *Dialog) RequestApproval(summary string) (approved bool, feedback string) {
	line := d.readLine("Approve plan: " + summary + "? [y/N or feedback]\n> ")
	lower := strings.ToLower(line)
	if lower == "y" || lower == "yes" {
		return true, ""
	}
	for line == "" {
		line = d.readLine("Rejection requires feedback explaining why:\n> ")
	}
	return false, line
}

// Escalate asks the human to either dismiss the incident or provide
// continuation context. Empty input or "stop"/"dismiss" dismisses.
func (d *Dialog) Escalate(reason, neededContext string) (dismiss bool, context string) {
	prompt := "Escalation: " + reason
	if neededContext != "" {
		prompt += "\nNeeded: " + neededContext
	}
	line := d.readLine(prompt + "\n(blank/stop/dismiss to dismiss, anything else continues)\n> ")
	lower := strings.ToLower(line)
	if line == "" || lower == "stop" || lower == "dismiss" {
		return true, ""
	}
	return false, line
}
