package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly/jvmprobe/pkg/inference"
)

func TestBuildNaturalWithoutCandidateReportsLimitation(t *testing.T) {
	p := Build(BuildInput{RequestedMode: ModeNatural, TargetKey: "c.C#m:10"})
	require.Len(t, p.Steps, 2)
	assert.Equal(t, StepPrepare, p.Steps[0].Kind)
	assert.Equal(t, StepReport, p.Steps[1].Kind)
	assert.NotEmpty(t, p.ModeReason)
}

func TestBuildNaturalWithoutCandidateIncludesAuthStepWhenPending(t *testing.T) {
	auth := &inference.AuthResult{Status: inference.AuthNeedsUserInput}
	p := Build(BuildInput{RequestedMode: ModeNatural, Auth: auth})
	require.Len(t, p.Steps, 3)
	assert.Equal(t, StepResolveAuth, p.Steps[0].Kind)
}

func TestBuildNaturalRejectsMethodOnlyKey(t *testing.T) {
	cand := &inference.RequestCandidate{Method: "GET", Path: "/api/orders/1"}
	p := Build(BuildInput{RequestedMode: ModeNatural, TargetKey: "c.C#m", RequestCandidate: cand, LineHint: 0})
	require.Len(t, p.Steps, 1)
	assert.Equal(t, StepPrepare, p.Steps[0].Kind)
	assert.Contains(t, p.ModeReason, "line hint")
}

func TestBuildNaturalFullHappyPath(t *testing.T) {
	cand := &inference.RequestCandidate{Method: "GET", Path: "/api/orders/1"}
	p := Build(BuildInput{RequestedMode: ModeNatural, TargetKey: "c.C#m:10", RequestCandidate: cand, LineHint: 10})
	require.Len(t, p.Steps, 3)
	assert.Equal(t, StepPrepare, p.Steps[0].Kind)
	assert.Equal(t, StepExecute, p.Steps[1].Kind)
	assert.Equal(t, "GET", p.Steps[1].Method)
	assert.Equal(t, StepVerify, p.Steps[2].Kind)
	assert.Equal(t, "c.C#m:10", p.Steps[2].Key)
}

func TestBuildActuatedRefusesWithoutTargetKey(t *testing.T) {
	p := Build(BuildInput{RequestedMode: ModeActuated})
	assert.Empty(t, p.Steps)
	assert.NotEmpty(t, p.ModeReason)
}

func TestBuildActuatedEmitsPrepareVerifyCleanup(t *testing.T) {
	p := Build(BuildInput{RequestedMode: ModeActuated, TargetKey: "c.C#m:10", ActuateReturnBoolean: true})
	require.Len(t, p.Steps, 3)
	assert.Equal(t, StepPrepare, p.Steps[0].Kind)
	assert.True(t, p.Steps[0].ReturnBoolean)
	assert.Equal(t, ActuatorID(), p.Steps[0].ActuatorID)
	assert.Equal(t, StepVerify, p.Steps[1].Kind)
	assert.Equal(t, StepCleanup, p.Steps[2].Kind)
}
