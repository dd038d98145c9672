package audit

import (
	"bufio"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// VerifyResult is the outcome of checking an audit trail's hash chain and
// optional signature.
type VerifyResult struct {
	EventCount     int
	Valid          bool
	BrokenAt       int // -1 when no break was found
	ChainHash      string
	SignatureOK    bool
	SignatureNoKey bool
	Error          string
}

// VerifyFile verifies the hash chain of the JSONL trail at path. signingKey
// is passed explicitly by the caller rather than read from an environment
// variable — the planner already treats ambient env lookups as the wrong
// place to source secrets (spec's auth-resolution invariant), and a trail
// signing key is no different.
func VerifyFile(path, signingKey string) (*VerifyResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("audit: open %s: %w", path, err)
	}
	defer f.Close()
	return Verify(f, signingKey)
}

// Verify checks that every event's prev_hash matches the sha256 of the
// preceding line, and, if the trail's final run_complete event carries a
// signature, that it verifies against signingKey.
func Verify(r io.Reader, signingKey string) (*VerifyResult, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 1<<20), 1<<20)

	expected := genesisHash
	count := 0
	var last Event

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		count++

		var evt Event
		if err := json.Unmarshal(line, &evt); err != nil {
			return &VerifyResult{
				EventCount: count,
				Valid:      false,
				BrokenAt:   count,
				Error:      fmt.Sprintf("event %d: invalid JSON: %v", count, err),
			}, nil
		}
		if evt.PrevHash != expected {
			return &VerifyResult{
				EventCount: count,
				Valid:      false,
				BrokenAt:   count,
				Error:      fmt.Sprintf("event %d: prev_hash mismatch", count),
			}, nil
		}
		h := sha256.Sum256(line)
		expected = hex.EncodeToString(h[:])
		last = evt
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("audit: read trail: %w", err)
	}

	result := &VerifyResult{EventCount: count, Valid: true, BrokenAt: -1}
	if last.Type != EventRunComplete || last.Data == nil {
		return result, nil
	}
	if chainHash, ok := last.Data["chain_hash"].(string); ok {
		result.ChainHash = chainHash
	}
	sig, hasSig := last.Data["signature"].(string)
	if !hasSig {
		return result, nil
	}
	if signingKey == "" {
		result.SignatureNoKey = true
		return result, nil
	}
	mac := hmac.New(sha256.New, []byte(signingKey))
	mac.Write([]byte(result.ChainHash))
	expectedSig := hex.EncodeToString(mac.Sum(nil))
	result.SignatureOK = hmac.Equal([]byte(sig), []byte(expectedSig))
	return result, nil
}
