package demo

import (
	"testing"

	"github.com/nimbly/jvmprobe/pkg/instrument"
	"github.com/nimbly/jvmprobe/pkg/probekey"
	"github.com/nimbly/jvmprobe/pkg/proberuntime"
)

func TestAuthorizeRecordsMethodAndLineHits(t *testing.T) {
	rt := proberuntime.New()
	app := NewApp(instrument.NewAdvice(rt))

	if !app.Billing.Authorize(100, false) {
		t.Fatalf("expected small amount to be authorized")
	}

	if count := rt.Hits().Count(probekey.Method(ClassBillingService, MethodAuthorize).String()); count != 1 {
		t.Fatalf("got count=%d, want 1 hit", count)
	}
	if count := rt.Hits().Count(probekey.Line(ClassBillingService, MethodAuthorize, LineAmountCheck).String()); count != 1 {
		t.Fatalf("got count=%d, want 1 line hit", count)
	}
}

func TestAuthorizeRejectsLargeAmountForNonVIP(t *testing.T) {
	rt := proberuntime.New()
	app := NewApp(instrument.NewAdvice(rt))

	if app.Billing.Authorize(9000, false) {
		t.Fatalf("expected large non-VIP amount to be rejected")
	}
}

func TestAuthorizeAllowsLargeAmountForVIP(t *testing.T) {
	rt := proberuntime.New()
	app := NewApp(instrument.NewAdvice(rt))

	if !app.Billing.Authorize(9000, true) {
		t.Fatalf("expected large VIP amount to be authorized")
	}
}

func TestAuthorizeActuatedForceFallthroughOverridesNaturalApproval(t *testing.T) {
	rt := proberuntime.New()
	app := NewApp(instrument.NewAdvice(rt))

	target := probekey.Line(ClassBillingService, MethodAuthorize, LineAmountCheck).String()
	rt.Configure(proberuntime.ModeActuate, "recipe_generate_fallback", target, false)

	if app.Billing.Authorize(100, false) {
		t.Fatalf("expected forced fallthrough to reject a normally-authorized small amount")
	}
}

func TestSearchReturnsMutuallyExclusiveBranch(t *testing.T) {
	rt := proberuntime.New()
	app := NewApp(instrument.NewAdvice(rt))

	minPrice := 10.0
	result := app.Search.Search(&minPrice, nil)
	if result[0] != "gte" {
		t.Fatalf("got %v, want gte branch", result)
	}

	maxPrice := 20.0
	result = app.Search.Search(nil, &maxPrice)
	if result[0] != "lte" {
		t.Fatalf("got %v, want lte branch", result)
	}
}
