// Package probekey parses and formats the probe key grammar used
// throughout the agent and planner: "fq.Class#method" for a method-level
// key, "fq.Class#method:line" for a line-level key.
package probekey

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// lineKeyPattern is the strict-line-mode test: a key matches only if it
// carries a trailing ":<digits>" line suffix.
var lineKeyPattern = regexp.MustCompile(`^.+#[^:]+:\d+$`)

// Key is a parsed probe key.
type Key struct {
	Class  string
	Method string
	Line   int // 0 when this is a method-level key
}

// IsLine reports whether k carries a line number.
func (k Key) IsLine() bool { return k.Line > 0 }

// String renders the canonical wire form.
func (k Key) String() string {
	if k.Line > 0 {
		return fmt.Sprintf("%s#%s:%d", k.Class, k.Method, k.Line)
	}
	return fmt.Sprintf("%s#%s", k.Class, k.Method)
}

// Method builds a method-level key.
func Method(class, method string) Key {
	return Key{Class: class, Method: method}
}

// Line builds a line-level key. A non-positive line collapses to a
// method-level key, matching the runtime's "line <= 0 is a no-op" rule.
func Line(class, method string, line int) Key {
	if line <= 0 {
		return Method(class, method)
	}
	return Key{Class: class, Method: method, Line: line}
}

// Parse splits a raw wire-form key into its parts. It does not validate
// that class/method are non-empty; callers that need strict-line-mode
// enforcement should use IsLineKey on the raw string instead, since a
// malformed key is still a string IsLineKey can reject.
func Parse(raw string) (Key, error) {
	hash := strings.IndexByte(raw, '#')
	if hash < 0 {
		return Key{}, fmt.Errorf("probekey: %q has no '#' separator", raw)
	}
	class := raw[:hash]
	rest := raw[hash+1:]

	if colon := strings.LastIndexByte(rest, ':'); colon >= 0 {
		if line, err := strconv.Atoi(rest[colon+1:]); err == nil && line > 0 {
			return Key{Class: class, Method: rest[:colon], Line: line}, nil
		}
	}
	return Key{Class: class, Method: rest}, nil
}

// IsLineKey reports whether raw matches the strict line-key grammar
// "…#…:<digits>" required by the verifier's strict line mode (spec §4.10,
// §8).
func IsLineKey(raw string) bool {
	return lineKeyPattern.MatchString(raw)
}
