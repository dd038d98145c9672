package demo

import "github.com/nimbly/jvmprobe/pkg/instrument"

// DefaultIncludePattern is the include glob that reaches every demo class
// without requiring the operator to configure one explicitly.
const DefaultIncludePattern = "com.nimbly.demo.**"

// App bundles the demo's instrumented services behind a single handle for
// cmd/jvmprobe-agent to drive.
type App struct {
	Billing *BillingService
	Search  *ProductSearch
}

// NewApp wires both demo services to the same advice, the way a single
// -javaagent instance would weave every class loaded by one JVM process.
func NewApp(advice *instrument.Advice) *App {
	return &App{
		Billing: NewBillingService(advice),
		Search:  NewProductSearch(advice),
	}
}
