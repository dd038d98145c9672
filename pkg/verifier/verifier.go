// Package verifier implements wait-for-inline-hit (spec §4.10): the
// central correctness property that a reproduction attempt, and not
// unrelated prior traffic, is the cause of an observed probe hit.
package verifier

import (
	"context"
	"fmt"
	"time"

	"github.com/nimbly/jvmprobe/pkg/probeclient"
	"github.com/nimbly/jvmprobe/pkg/probekey"
)

// Outcome is the verifier's decision for one wait attempt.
type Outcome string

const (
	OutcomeSuccess         Outcome = "success"
	OutcomeTimeout         Outcome = "timeout"
	OutcomeLineKeyRequired Outcome = "line_key_required"
)

// Result is the full decision returned by Wait.
type Result struct {
	Outcome        Outcome
	Snapshot       *probeclient.Status
	StaleCandidate *probeclient.Status
}

// Options bounds one Wait call's polling behavior.
type Options struct {
	MaxRetries   int
	PollInterval time.Duration
	Timeout      time.Duration
}

// DefaultOptions mirrors a conservative local-sidecar poll cadence.
func DefaultOptions() Options {
	return Options{MaxRetries: 3, PollInterval: 200 * time.Millisecond, Timeout: 3 * time.Second}
}

// ResetTracker records the last successful reset's epoch millis per key,
// so Wait can distinguish a hit caused by this reproduction attempt from
// stale prior traffic. A key with no recorded reset falls back to the
// wall clock at wait start (spec §4.10 "first-ever wait still accepts
// fresh hits").
type ResetTracker struct {
	epochs map[string]int64
}

// NewResetTracker returns an empty tracker.
func NewResetTracker() *ResetTracker { return &ResetTracker{epochs: map[string]int64{}} }

// RecordReset stamps key's last-reset epoch to now (epoch millis).
func (r *ResetTracker) RecordReset(key string, nowEpochMs int64) {
	r.epochs[key] = nowEpochMs
}

// InlineStart returns the epoch a fresh hit on key must be at-or-after,
// given waitStartEpochMs as the fallback.
func (r *ResetTracker) InlineStart(key string, waitStartEpochMs int64) int64 {
	if v, ok := r.epochs[key]; ok {
		return v
	}
	return waitStartEpochMs
}

// Wait polls client for key's status up to opts.MaxRetries times,
// declaring success only when a hit's count has increased since baseline
// AND its timestamp is at or after inlineStart (spec §4.10 algorithm).
// It refuses method-only keys outright (strict line mode).
func Wait(ctx context.Context, client *probeclient.Client, key string, inlineStart int64, opts Options) (Result, error) {
	if !probekey.IsLineKey(key) {
		return Result{Outcome: OutcomeLineKeyRequired}, nil
	}

	var stale *probeclient.Status
	for attempt := 0; attempt < opts.MaxRetries; attempt++ {
		baseline, err := client.Status(key)
		if err != nil {
			return Result{}, fmt.Errorf("verifier: baseline status: %w", err)
		}
		if baseline.HitCount > 0 && baseline.LastHitEpochMs >= inlineStart {
			return Result{Outcome: OutcomeSuccess, Snapshot: baseline}, nil
		}

		deadline := time.Now().Add(opts.Timeout)
		for time.Now().Before(deadline) {
			select {
			case <-ctx.Done():
				return Result{}, ctx.Err()
			case <-time.After(opts.PollInterval):
			}

			current, err := client.Status(key)
			if err != nil {
				return Result{}, fmt.Errorf("verifier: poll status: %w", err)
			}

			increased := current.HitCount > baseline.HitCount
			if increased && current.LastHitEpochMs >= inlineStart {
				return Result{Outcome: OutcomeSuccess, Snapshot: current}, nil
			}
			if increased {
				stale = current
			}
		}
	}

	return Result{Outcome: OutcomeTimeout, StaleCandidate: stale}, nil
}
