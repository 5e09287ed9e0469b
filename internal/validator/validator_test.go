package validator

import (
	"testing"

	"github.com/flux690/nightwatch/internal/state"
	"github.com/stretchr/testify/assert"
)

func knownSet(names ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(names))
	for _, n := range names {
		m[n] = struct{}{}
	}
	return m
}

func TestValidateAcceptsSimpleRestart(t *testing.T) {
	ok, reason := Validate("docker restart cache", knownSet("cache", "api"))
	assert.True(t, ok)
	assert.Empty(t, reason)
}

func TestValidateRejectsShellInvocation(t *testing.T) {
	ok, reason := Validate(`docker exec api sh -c "echo test"`, knownSet("api"))
	assert.False(t, ok)
	assert.Equal(t, "shell invocation", reason)
}

func TestValidateRejectsChaining(t *testing.T) {
	ok, reason := Validate("docker stop api && docker start api", knownSet("api"))
	assert.False(t, ok)
	assert.Equal(t, "chaining", reason)
}

func TestValidateRejectsDestructive(t *testing.T) {
	ok, reason := Validate("docker exec api rm -rf /", knownSet("api"))
	assert.False(t, ok)
	assert.Equal(t, "destructive", reason)
}

func TestValidateRejectsNoKnownContainer(t *testing.T) {
	ok, reason := Validate("docker restart ghost", knownSet("cache", "api"))
	assert.False(t, ok)
	assert.Equal(t, "no known container referenced", reason)
}

func TestValidateRejectsMultipleContainers(t *testing.T) {
	ok, reason := Validate("docker restart cache api", knownSet("cache", "api"))
	assert.False(t, ok)
	assert.Contains(t, reason, "multiple containers referenced")
}

func TestValidateRejectsNonDockerPrefix(t *testing.T) {
	ok, reason := Validate("kubectl rollout restart deploy/api", knownSet("api"))
	assert.False(t, ok)
	assert.Equal(t, "not a container-runtime command", reason)
}

func TestValidatePlanTagsVerificationOnDuplicate(t *testing.T) {
	bad := "docker exec api sh -c \"echo test\""
	plan := state.RemediationPlan{
		Steps:        []state.PlanStep{{Action: bad}},
		Verification: []state.PlanStep{{Action: bad}},
	}
	ok, fc := ValidatePlan(plan, knownSet("api"))
	assert.False(t, ok)
	assert.Equal(t, state.VerificationCommandRejected, fc.Type)
}

func TestValidatePlanAcceptsHappyPath(t *testing.T) {
	plan := state.RemediationPlan{
		Steps:        []state.PlanStep{{Action: "docker start cache"}},
		Verification: []state.PlanStep{{Action: "docker inspect cache --format '{{.State.Running}}'"}},
	}
	ok, fc := ValidatePlan(plan, knownSet("cache"))
	assert.True(t, ok)
	assert.Nil(t, fc)
}

func TestValidatePlanRejectsRemediationStep(t *testing.T) {
	plan := state.RemediationPlan{
		Steps: []state.PlanStep{{Action: "docker restart cache api"}},
	}
	ok, fc := ValidatePlan(plan, knownSet("cache", "api"))
	assert.False(t, ok)
	assert.Equal(t, state.RemediationCommandRejected, fc.Type)
}
