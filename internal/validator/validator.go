// Package validator implements the command safety grammar: a pure
// function over a command string and the set of known container
// identifiers. It is intentionally intent-agnostic — the reasoner is not
// trusted to produce safe commands, so every rule is a local, syntactic
// check with no awareness of what the command is trying to accomplish.
package validator

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/flux690/nightwatch/internal/state"
)

var (
	chainRe      = regexp.MustCompile(`(&&|\|\||;)`)
	assignRe     = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*=[^=]`)
	destructiveRe = regexp.MustCompile(`(?i)rm\s+-rf\s+/\*?(\b|\s|$)|dd\s+if=|mkfs(\.\w+)?\b|>\s*/dev/sd[a-z]`)
	rceRe        = regexp.MustCompile(`(?i)(curl|wget)\b.*\|\s*(bash|sh)\b`)
	shellCRe     = regexp.MustCompile(`(?i)\b(sh|bash)\s+-c\b`)
)

func wordBoundary(s, needle string) bool {
	re := regexp.MustCompile(`\b` + regexp.QuoteMeta(needle) + `\b`)
	return re.MatchString(s)
}

// Validate checks one command string against the safety grammar and the
// set of known container names, returning (true, "") on acceptance or
// (false, reason) on the first violated rule.
func Validate(command string, known map[string]struct{}) (bool, string) {
	if !strings.HasPrefix(command, "docker ") {
		return false, "not a container-runtime command"
	}
	if shellCRe.MatchString(command) {
		return false, "shell invocation"
	}
	if strings.ContainsAny(command, "|><") {
		return false, "pipe / redirection"
	}
	if chainRe.MatchString(command) {
		return false, "chaining"
	}
	if strings.Contains(command, "$(") || strings.Contains(command, "`") {
		return false, "substitution"
	}
	if assignRe.MatchString(command) {
		return false, "variable assignment"
	}
	if strings.ContainsAny(command, "()") {
		return false, "subshell"
	}
	if destructiveRe.MatchString(command) {
		return false, "destructive"
	}
	if rceRe.MatchString(command) {
		return false, "remote code execution"
	}

	var matched []string
	for name := range known {
		if wordBoundary(command, name) {
			matched = append(matched, name)
		}
	}
	switch len(matched) {
	case 0:
		return false, "no known container referenced"
	case 1:
		return true, ""
	default:
		return false, fmt.Sprintf("multiple containers referenced: %s", strings.Join(matched, ", "))
	}
}

// ValidatePlan checks every step in plan.Steps then every step in
// plan.Verification, stopping at the first rejected command. If that
// command's text also appears in the other list, the failure is tagged
// verification_command_rejected regardless of which list it was first
// found in.
func ValidatePlan(plan state.RemediationPlan, known map[string]struct{}) (bool, *state.FailureContext) {
	inVerification := func(action string) bool {
		for _, v := range plan.Verification {
			if v.Action == action {
				return true
			}
		}
		return false
	}
	for _, step := range plan.Steps {
		if ok, reason := Validate(step.Action, known); !ok {
			kind := state.RemediationCommandRejected
			if inVerification(step.Action) {
				kind = state.VerificationCommandRejected
			}
			return false, &state.FailureContext{Type: kind, Step: step.Action, Reason: reason}
		}
	}
	for _, step := range plan.Verification {
		if ok, reason := Validate(step.Action, known); !ok {
			return false, &state.FailureContext{Type: state.VerificationCommandRejected, Step: step.Action, Reason: reason}
		}
	}
	return true, nil
}

