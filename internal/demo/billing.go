// Package demo is the bundled "instrumented application" cmd/jvmprobe-agent
// hosts: a couple of small service types standing in for the target Java
// application a real -javaagent would be attached to. Since Go has no
// bytecode weaver to attach, these types call the advice hooks
// (pkg/instrument) directly at the same points LineHitVisitor/HitAdvice/
// BooleanActuationAdvice would have inserted them into compiled bytecode.
package demo

import "github.com/nimbly/jvmprobe/pkg/instrument"

// Fully-qualified class/method names and line numbers are fixed so the
// demo's probe keys are stable and reproducible across runs.
const (
	ClassBillingService = "com.nimbly.demo.billing.BillingService"
	MethodAuthorize      = "authorize"
	LineAmountCheck      = 18
	LineVipOverrideCheck = 24
)

// BillingService is the demo's actuatable decision point: Authorize
// mirrors a typical payment-authorization method with an amount
// threshold and a VIP override branch, giving the control plane a real
// boolean-return and conditional-branch target to actuate.
type BillingService struct {
	advice *instrument.Advice
}

// NewBillingService binds a BillingService to the running probe's advice.
func NewBillingService(advice *instrument.Advice) *BillingService {
	return &BillingService{advice: advice}
}

// Authorize decides whether amount may proceed for the given customer.
// Amounts at or under the threshold are authorized outright; above it,
// only VIP customers are authorized.
func (b *BillingService) Authorize(amount int, vip bool) bool {
	b.advice.OnMethodEnter(ClassBillingService, MethodAuthorize)

	b.advice.OnLineVisited(ClassBillingService, MethodAuthorize, LineAmountCheck)
	withinThreshold := b.advice.ResolveBranch(ClassBillingService, MethodAuthorize, LineAmountCheck, amount <= 5000)
	if withinThreshold {
		return b.advice.OnBooleanMethodExit(ClassBillingService, MethodAuthorize, true)
	}

	b.advice.OnLineVisited(ClassBillingService, MethodAuthorize, LineVipOverrideCheck)
	vipOverride := b.advice.ResolveBranch(ClassBillingService, MethodAuthorize, LineVipOverrideCheck, vip)
	return b.advice.OnBooleanMethodExit(ClassBillingService, MethodAuthorize, vipOverride)
}
