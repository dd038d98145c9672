package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestEmitChainsPrevHashAcrossEvents(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-1")

	if err := w.EmitRunStart("natural", "com.acme.Billing#authorize"); err != nil {
		t.Fatalf("EmitRunStart: %v", err)
	}
	if err := w.EmitPlanBuilt("natural", "ready", 3); err != nil {
		t.Fatalf("EmitPlanBuilt: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}

	var first, second Event
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatalf("unmarshal first: %v", err)
	}
	if err := json.Unmarshal([]byte(lines[1]), &second); err != nil {
		t.Fatalf("unmarshal second: %v", err)
	}
	if first.PrevHash != genesisHash {
		t.Fatalf("first.PrevHash = %q, want genesis", first.PrevHash)
	}
	if second.PrevHash == genesisHash || second.PrevHash == "" {
		t.Fatalf("second.PrevHash = %q, want a real chained hash", second.PrevHash)
	}
}

func TestEmitRunCompleteStampsChainHash(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-2")
	_ = w.EmitRunStart("actuated", "com.acme.Billing#authorize:42")

	chainHash, err := w.EmitRunComplete("success", 1500)
	if err != nil {
		t.Fatalf("EmitRunComplete: %v", err)
	}
	if chainHash == "" || chainHash == genesisHash {
		t.Fatalf("got chainHash=%q, want a non-genesis hash", chainHash)
	}
}

func TestEmitStepExecutedRedactsAuthorizationHeaderInNote(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-3")
	if err := w.EmitStepExecuted("execute", "sent Authorization: Bearer abcdefghijklmnop", true); err != nil {
		t.Fatalf("EmitStepExecuted: %v", err)
	}
	if strings.Contains(buf.String(), "abcdefghijklmnop") {
		t.Fatalf("raw token leaked into audit trail: %s", buf.String())
	}
}

func TestVerifyDetectsIntactChain(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-4")
	_ = w.EmitRunStart("natural", "k")
	_ = w.EmitPlanBuilt("natural", "ready", 1)
	_, _ = w.EmitRunComplete("success", 10)

	result, err := Verify(strings.NewReader(buf.String()), "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Valid || result.BrokenAt != -1 {
		t.Fatalf("got %+v, want a valid chain", result)
	}
	if result.EventCount != 3 {
		t.Fatalf("got EventCount=%d, want 3", result.EventCount)
	}
}

func TestVerifyDetectsTamperedLine(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-5")
	_ = w.EmitRunStart("natural", "k")
	_ = w.EmitPlanBuilt("natural", "ready", 1)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	lines[0] = strings.Replace(lines[0], "natural", "tampered", 1)
	tampered := strings.Join(lines, "\n")

	result, err := Verify(strings.NewReader(tampered), "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatalf("expected tampering to be detected")
	}
	if result.BrokenAt != 2 {
		t.Fatalf("got BrokenAt=%d, want 2 (the event after the tampered line)", result.BrokenAt)
	}
}

func TestVerifyWithoutSignatureLeavesSignatureFieldsFalse(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "run-6")
	_, _ = w.EmitRunComplete("success", 5)

	result, err := Verify(strings.NewReader(buf.String()), "some-key")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.SignatureOK || result.SignatureNoKey {
		t.Fatalf("got %+v, want no signature fields set when trail carries no signature", result)
	}
}

func TestNewRunIDProducesDistinctIDs(t *testing.T) {
	a := NewRunID()
	b := NewRunID()
	if a == b {
		t.Fatalf("expected distinct run IDs, got %q twice", a)
	}
}
