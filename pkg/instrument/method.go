package instrument

import "strings"

// AccessFlags mirrors the handful of ASM ACC_* bits the instrumenter
// inspects before weaving advice into a method.
type AccessFlags int

const (
	AccAbstract AccessFlags = 1 << iota
	AccNative
)

// Has reports whether flag is set in f.
func (f AccessFlags) Has(flag AccessFlags) bool { return f&flag != 0 }

// EligibleForAdvice reports whether a method should receive woven advice,
// mirroring LineHitVisitor.visitMethod's guard: abstract and native
// methods have no body to instrument, and synthetic lambda$ methods are
// skipped so a single source lambda doesn't appear as its own noisy,
// compiler-named probe target.
func EligibleForAdvice(access AccessFlags, name string) bool {
	if access.Has(AccAbstract) || access.Has(AccNative) {
		return false
	}
	return !strings.HasPrefix(name, "lambda$")
}
