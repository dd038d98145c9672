// Package proberuntime holds the single process-wide mutable runtime
// configuration (mode, actuator id, target key, forced boolean) that
// bytecode-issued advice reads on the application's own threads, and the
// decision entry points derived from it (spec §3, §4.1).
//
// Grounded on ProbeRuntime.java: a handful of volatile scalars updated
// together by configure(), read independently and lock-free by hit/branch
// queries. Go has no "volatile" keyword; atomic.Pointer publication gives
// the same total-update, lock-free-read guarantee.
package proberuntime

import (
	"strings"
	"sync/atomic"

	"github.com/nimbly/jvmprobe/pkg/hittable"
	"github.com/nimbly/jvmprobe/pkg/probekey"
)

// Mode is the probe-side runtime mode (distinct from the planner-side
// plan.Mode per spec §9's open question).
type Mode string

const (
	ModeObserve Mode = "observe"
	ModeActuate Mode = "actuate"
)

// Config is one immutable snapshot of the runtime's four configurable
// fields. configure() publishes a new Config atomically so that every
// subsequent read sees either the old or the new snapshot in full, never
// a mix (spec §5's ordering guarantee).
type Config struct {
	Mode                 Mode
	ActuatorID           string
	ActuateTargetKey     string
	ActuateReturnBoolean bool
}

// Runtime is the probe's global mutable configuration plus the Hit Table
// it decides against. The zero value is not usable; construct with New.
type Runtime struct {
	hits   *hittable.Table
	config atomic.Pointer[Config]
}

// New creates a Runtime in observe mode with an empty Hit Table.
func New() *Runtime {
	r := &Runtime{hits: hittable.New()}
	r.config.Store(&Config{Mode: ModeObserve})
	return r
}

// Hits returns the underlying Hit Table.
func (r *Runtime) Hits() *hittable.Table { return r.hits }

// Snapshot returns the currently published configuration.
func (r *Runtime) Snapshot() Config {
	return *r.config.Load()
}

// Configure atomically publishes a new configuration. Any mode other than
// "actuate" defensively clears actuatorID, target key, and forced boolean
// — spec §3's "transitioning from actuate to any other mode MUST clear"
// invariant.
func (r *Runtime) Configure(mode Mode, actuatorID, actuateTargetKey string, actuateReturnBoolean bool) {
	m := normalizeMode(mode)
	next := &Config{Mode: m}
	if m == ModeActuate {
		next.ActuatorID = strings.TrimSpace(actuatorID)
		next.ActuateTargetKey = strings.TrimSpace(actuateTargetKey)
		next.ActuateReturnBoolean = actuateReturnBoolean
	}
	r.config.Store(next)
}

func normalizeMode(m Mode) Mode {
	if strings.EqualFold(string(m), string(ModeActuate)) {
		return ModeActuate
	}
	return ModeObserve
}

// HitByClassMethod records a method-entry hit.
func (r *Runtime) HitByClassMethod(class, method string) {
	r.hits.HitByClassMethod(class, method)
}

// HitLineByClassMethod records a line hit.
func (r *Runtime) HitLineByClassMethod(class, method string, line int) {
	r.hits.HitLineByClassMethod(class, method, line)
}

// ShouldActuateBooleanReturn reports whether the boolean-return exit
// advice for class#method should override the return value, i.e. the
// runtime is in actuate mode and its target equals class#method exactly
// (spec §4.1).
func (r *Runtime) ShouldActuateBooleanReturn(class, method string) bool {
	cfg := r.Snapshot()
	if cfg.Mode != ModeActuate {
		return false
	}
	return cfg.ActuateTargetKey == probekey.Method(class, method).String()
}

// ActuateReturnBoolean returns the forced boolean to substitute when
// ShouldActuateBooleanReturn is true.
func (r *Runtime) ActuateReturnBoolean() bool {
	return r.Snapshot().ActuateReturnBoolean
}

// BranchDecision is the tri-state result of
// branchDecisionByClassMethodLine: Natural means "evaluate the original
// condition", ForceTaken/ForceFallthrough override it.
type BranchDecision int

const (
	Natural          BranchDecision = -1
	ForceFallthrough BranchDecision = 0
	ForceTaken       BranchDecision = 1
)

// BranchDecisionByClassMethodLine returns Natural unless the runtime is
// armed in actuate mode with a non-empty target key matching
// class#method:line exactly, in which case it returns ForceTaken when
// ActuateReturnBoolean is set, ForceFallthrough otherwise (spec §4.1,
// §8 scenario 6).
func (r *Runtime) BranchDecisionByClassMethodLine(class, method string, line int) BranchDecision {
	cfg := r.Snapshot()
	if cfg.Mode != ModeActuate {
		return Natural
	}
	if cfg.ActuateTargetKey == "" {
		return Natural
	}
	if class == "" || method == "" || line <= 0 {
		return Natural
	}
	if cfg.ActuateTargetKey != probekey.Line(class, method, line).String() {
		return Natural
	}
	if cfg.ActuateReturnBoolean {
		return ForceTaken
	}
	return ForceFallthrough
}
