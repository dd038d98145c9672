package instrument

import "github.com/nimbly/jvmprobe/pkg/proberuntime"

// Advice binds a Runtime as the target of woven method-entry, line, and
// branch instrumentation, mirroring the three call sites the Java agent
// inserts: HitAdvice.onEnter, LineHitVisitor's per-line hit call, and
// BooleanActuationAdvice.onExit.
type Advice struct {
	runtime *proberuntime.Runtime
}

// NewAdvice binds advice call sites to runtime.
func NewAdvice(runtime *proberuntime.Runtime) *Advice {
	return &Advice{runtime: runtime}
}

// OnMethodEnter is the method-entry advice body (HitAdvice.onEnter):
// records a method-level hit every time the woven method is called.
func (a *Advice) OnMethodEnter(class, method string) {
	a.runtime.HitByClassMethod(class, method)
}

// OnLineVisited is the per-line advice LineHitVisitor inserts at every
// visitLineNumber: records a line-level hit for every line actually
// executed.
func (a *Advice) OnLineVisited(class, method string, line int) {
	a.runtime.HitLineByClassMethod(class, method, line)
}

// OnBooleanMethodExit is BooleanActuationAdvice.onExit: given the value
// the method body actually computed, returns the value the caller should
// observe — original unless the runtime is armed to actuate this exact
// method, in which case the armed boolean replaces it.
func (a *Advice) OnBooleanMethodExit(class, method string, original bool) bool {
	if !a.runtime.ShouldActuateBooleanReturn(class, method) {
		return original
	}
	return a.runtime.ActuateReturnBoolean()
}

// ResolveBranch is the runtime decision woven around a conditional jump's
// operands by LineHitVisitor.visitJumpInsn: given the branch's natural
// outcome (what the original, unmodified condition would have evaluated
// to), returns the outcome the rewritten bytecode actually takes.
//
//   - proberuntime.Natural          -> return natural unchanged.
//   - proberuntime.ForceTaken       -> true  (jump is taken).
//   - proberuntime.ForceFallthrough -> false (jump is not taken).
func (a *Advice) ResolveBranch(class, method string, line int, natural bool) bool {
	switch a.runtime.BranchDecisionByClassMethodLine(class, method, line) {
	case proberuntime.ForceTaken:
		return true
	case proberuntime.ForceFallthrough:
		return false
	default:
		return natural
	}
}
