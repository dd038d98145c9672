// Package instrument models the bytecode-level instrumentation that the
// real probe weaves into a target class's methods (spec §4.1): opcode
// classification plus the per-call-site advice semantics that decide what
// the woven bytecode does, not literal class-file bytes.
//
// No Go-hosted JVM bytecode read/write library exists anywhere in the
// retrieval pack (the teacher and its siblings are all pure application
// services), and a Go process cannot itself be loaded as a -javaagent, so
// real ASM-style class rewriting is not something this module can do or
// exercise end to end. What survives here is the part that is genuinely
// portable: the opcode classification and the advice/dispatch semantics
// that decide what the woven bytecode does, grounded directly on
// LineHitVisitor.java, HitAdvice.java and BooleanActuationAdvice.java.
package instrument

// Opcode enumerates the conditional jump instructions LineHitVisitor
// recognizes (net.bytebuddy.jar.asm.Opcodes), the only family of opcodes
// the instrumenter rewrites.
type Opcode int

const (
	IFEQ Opcode = iota
	IFNE
	IFLT
	IFGE
	IFGT
	IFLE
	IFICMPEQ
	IFICMPNE
	IFICMPLT
	IFICMPGE
	IFICMPGT
	IFICMPLE
	IFACMPEQ
	IFACMPNE
	IFNULL
	IFNONNULL
)

// unaryOpcodes pop a single operand before branching (comparison against
// an implicit zero/null); the rest pop two (comparing two stack operands).
var unaryOpcodes = map[Opcode]bool{
	IFEQ:      true,
	IFNE:      true,
	IFLT:      true,
	IFGE:      true,
	IFGT:      true,
	IFLE:      true,
	IFNULL:    true,
	IFNONNULL: true,
}

var conditionalJumpOpcodes = map[Opcode]bool{
	IFEQ: true, IFNE: true, IFLT: true, IFGE: true, IFGT: true, IFLE: true,
	IFICMPEQ: true, IFICMPNE: true, IFICMPLT: true, IFICMPGE: true, IFICMPGT: true, IFICMPLE: true,
	IFACMPEQ: true, IFACMPNE: true, IFNULL: true, IFNONNULL: true,
}

// IsConditionalJump reports whether op is one of the 16 conditional jump
// opcodes the instrumenter intercepts (isConditionalJumpOpcode in
// LineHitVisitor.java). Every Opcode value defined in this package
// satisfies it today, but call sites check explicitly rather than assume
// it, since Opcode only classifies the jump family, not a full instruction
// set.
func IsConditionalJump(op Opcode) bool {
	return conditionalJumpOpcodes[op]
}

// IsUnary reports whether op compares a single operand against an
// implicit zero or null (isUnaryConditionalJump in LineHitVisitor.java).
// A false result means op is binary, comparing two operands on the stack.
func IsUnary(op Opcode) bool {
	return unaryOpcodes[op]
}

// PopCount returns how many operand stack slots op consumes when its
// condition is not evaluated — 1 for a unary comparison (POP), 2 for a
// binary one (POP2) — mirroring popConditionalOperands.
func PopCount(op Opcode) int {
	if IsUnary(op) {
		return 1
	}
	return 2
}
