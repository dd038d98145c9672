// Package plan builds an ExecutionPlan — an ordered list of Steps — from
// a requested mode plus the planner's other inference outputs (spec
// §4.9). The two mode enumerations (proberuntime.Mode and plan.Mode) are
// deliberately not unified: the probe's runtime mode is a woven-bytecode
// concern, while the planner's mode describes how a reproduction attempt
// should be carried out, and conflating them would make an unrelated
// probe-side change silently ripple into planner semantics.
package plan

import (
	"github.com/nimbly/jvmprobe/pkg/inference"
	"github.com/nimbly/jvmprobe/pkg/probekey"
	"github.com/nimbly/jvmprobe/pkg/secrets"
)

// Mode is the planner-side reproduction strategy.
type Mode string

const (
	ModeNatural  Mode = "natural"
	ModeActuated Mode = "actuated"
)

// StepKind names one phase of an ExecutionPlan.
type StepKind string

const (
	StepResolveAuth StepKind = "resolve-auth"
	StepPrepare     StepKind = "prepare"
	StepExecute     StepKind = "execute"
	StepVerify      StepKind = "verify"
	StepCleanup     StepKind = "cleanup"
	StepReport      StepKind = "report"
)

// Step is one ordered unit of work in an ExecutionPlan.
type Step struct {
	Kind          StepKind
	Note          string
	Method        string // HTTP method, for execute steps
	URL           string
	Header        string // redacted by pkg/secrets when the plan is built
	Body          map[string]any
	Key           string // probe key, for execute/verify/prepare steps
	ActuatorID    string // set on prepare/cleanup steps in actuated mode
	ReturnBoolean bool   // set on prepare steps in actuated mode
}

// ExecutionPlan is the ordered reproduction recipe for one target.
type ExecutionPlan struct {
	Mode       Mode
	ModeReason string
	Steps      []Step
}

// BuildInput bundles everything the state machine needs.
type BuildInput struct {
	RequestedMode        Mode
	TargetKey            string // "" means no target was inferred
	LineHint             int    // 0 means no line hint
	RequestCandidate     *inference.RequestCandidate
	Auth                 *inference.AuthResult
	ActuateReturnBoolean bool
}

// Build runs the state machine described in spec §4.9.
func Build(in BuildInput) ExecutionPlan {
	if in.RequestedMode == ModeActuated {
		return buildActuated(in)
	}
	return buildNatural(in)
}

func buildNatural(in BuildInput) ExecutionPlan {
	p := ExecutionPlan{Mode: ModeNatural}

	if in.RequestCandidate == nil {
		if authPending(in.Auth) {
			p.Steps = append(p.Steps, resolveAuthStep(in.Auth))
		}
		p.Steps = append(p.Steps, Step{Kind: StepPrepare, Note: "natural path unavailable: no controller or OpenAPI route resolved"})
		p.Steps = append(p.Steps, Step{Kind: StepReport, Note: "report limitation; request explicit actuated confirmation"})
		p.ModeReason = "no request mapping could be resolved for the inferred target"
		return p
	}

	if authPending(in.Auth) {
		p.Steps = append(p.Steps, resolveAuthStep(in.Auth))
	}

	if in.LineHint <= 0 {
		p.Steps = append(p.Steps, Step{
			Kind: StepPrepare,
			Note: "strict line mode requires a line hint; method-only keys are rejected for reset/verify",
			Key:  in.TargetKey,
		})
		p.ModeReason = "target key has no line hint; baseline reset and verification cannot run in strict line mode"
		return p
	}

	lineKey := in.TargetKey
	if k, err := probekey.Parse(in.TargetKey); err == nil {
		lineKey = probekey.Line(k.Class, k.Method, in.LineHint).String()
	}
	p.Steps = append(p.Steps, Step{Kind: StepPrepare, Note: "reset-baseline", Key: lineKey})

	execStep := Step{
		Kind:   StepExecute,
		Method: in.RequestCandidate.Method,
		URL:    in.RequestCandidate.Path,
		Body:   in.RequestCandidate.BodyTemplate,
	}
	if in.Auth != nil && in.Auth.Header != "" {
		execStep.Header = secrets.MaskHeader(in.Auth.Header)
	}
	p.Steps = append(p.Steps, execStep)

	p.Steps = append(p.Steps, Step{Kind: StepVerify, Note: "line-hit via status poll", Key: lineKey})
	return p
}

const actuatorIDFallback = "recipe_generate_fallback"

func buildActuated(in BuildInput) ExecutionPlan {
	p := ExecutionPlan{Mode: ModeActuated}

	if in.TargetKey == "" {
		p.ModeReason = "actuated mode requires an inferred target key"
		return p
	}

	p.Steps = append(p.Steps, Step{
		Kind:          StepPrepare,
		Note:          "arm actuation",
		Key:           in.TargetKey,
		ActuatorID:    actuatorIDFallback,
		ReturnBoolean: in.ActuateReturnBoolean,
	})
	p.Steps = append(p.Steps, Step{
		Kind: StepVerify,
		Note: "trigger reachable path; require line-hit",
		Key:  in.TargetKey,
	})
	p.Steps = append(p.Steps, Step{
		Kind:       StepCleanup,
		Note:       "disarm: mode=observe",
		Key:        in.TargetKey,
		ActuatorID: actuatorIDFallback,
	})
	return p
}

func authPending(a *inference.AuthResult) bool {
	return a != nil && a.Status == inference.AuthNeedsUserInput
}

func resolveAuthStep(a *inference.AuthResult) Step {
	return Step{Kind: StepResolveAuth, Note: "auth pending: " + string(a.Status)}
}

// ActuatorID is the fixed identifier recipe-generated actuation plans use
// to arm the probe (spec §4.9), distinguishing planner-initiated
// actuation from a human operator driving probe_actuate directly.
func ActuatorID() string { return actuatorIDFallback }
