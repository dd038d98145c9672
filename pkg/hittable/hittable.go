// Package hittable implements the concurrent probe-key -> (count,
// lastHitEpochMs) mapping described in spec §3/§4.1. Reads are lock-free;
// each key owns an atomic uint64 count and an atomic int64 last-hit epoch
// behind a sync.Map so that
// bytecode-issued hits never block on each other across distinct keys.
package hittable

import (
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type entry struct {
	count        atomic.Uint64
	lastHitEpoch atomic.Int64
}

// Table is the process-wide hit counter map. The zero value is ready to
// use.
type Table struct {
	entries sync.Map // string -> *entry
}

// New returns an empty Table.
func New() *Table { return &Table{} }

func (t *Table) getOrCreate(key string) *entry {
	if v, ok := t.entries.Load(key); ok {
		return v.(*entry)
	}
	v, _ := t.entries.LoadOrStore(key, &entry{})
	return v.(*entry)
}

// Hit increments key's count and stamps its last-hit time with the
// current wall clock, in milliseconds since the epoch. A blank key is a
// no-op, matching ProbeRuntime.hit's null/empty guard.
func (t *Table) Hit(key string) {
	if key == "" {
		return
	}
	e := t.getOrCreate(key)
	e.count.Add(1)
	e.lastHitEpoch.Store(nowEpochMs())
}

// HitByClassMethod increments "class#method".
func (t *Table) HitByClassMethod(class, method string) {
	if class == "" || method == "" {
		return
	}
	t.Hit(class + "#" + method)
}

// HitLineByClassMethod increments "class#method:line" when line > 0;
// otherwise it is a no-op (spec §8 boundary behavior).
func (t *Table) HitLineByClassMethod(class, method string, line int) {
	if class == "" || method == "" || line <= 0 {
		return
	}
	t.Hit(keyWithLine(class, method, line))
}

// Count returns key's hit count, or 0 if key has never been observed.
func (t *Table) Count(key string) uint64 {
	v, ok := t.entries.Load(key)
	if !ok {
		return 0
	}
	return v.(*entry).count.Load()
}

// LastHitEpochMs returns key's last-hit timestamp in epoch milliseconds,
// or 0 if key has never been observed.
func (t *Table) LastHitEpochMs(key string) int64 {
	v, ok := t.entries.Load(key)
	if !ok {
		return 0
	}
	return v.(*entry).lastHitEpoch.Load()
}

// Reset zeroes key's count and last-hit time, creating the entry if
// absent so that subsequent reads are authoritative (spec §4.1, §8).
func (t *Table) Reset(key string) {
	if key == "" {
		return
	}
	e := t.getOrCreate(key)
	e.count.Store(0)
	e.lastHitEpoch.Store(0)
}

// Range calls fn for every key currently tracked, with its count and
// last-hit epoch millis. Iteration order is unspecified. fn must not call
// back into t.
func (t *Table) Range(fn func(key string, count uint64, lastHitEpochMs int64)) {
	t.entries.Range(func(k, v any) bool {
		e := v.(*entry)
		fn(k.(string), e.count.Load(), e.lastHitEpoch.Load())
		return true
	})
}

func keyWithLine(class, method string, line int) string {
	return class + "#" + method + ":" + strconv.Itoa(line)
}

// nowEpochMs is overridable in tests to control time deterministically.
var nowEpochMs = func() int64 {
	return time.Now().UnixMilli()
}
