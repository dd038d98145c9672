package instrument

import "testing"

func TestEligibleForAdviceSkipsAbstractAndNative(t *testing.T) {
	if EligibleForAdvice(AccAbstract, "foo") {
		t.Error("abstract method should not be eligible")
	}
	if EligibleForAdvice(AccNative, "foo") {
		t.Error("native method should not be eligible")
	}
	if EligibleForAdvice(AccAbstract|AccNative, "foo") {
		t.Error("abstract+native method should not be eligible")
	}
}

func TestEligibleForAdviceSkipsSyntheticLambdas(t *testing.T) {
	if EligibleForAdvice(0, "lambda$run$0") {
		t.Error("synthetic lambda method should not be eligible")
	}
}

func TestEligibleForAdviceAllowsOrdinaryMethod(t *testing.T) {
	if !EligibleForAdvice(0, "run") {
		t.Error("ordinary concrete method should be eligible")
	}
}
