// Package inference implements the planner's three inference procedures:
// Target Inference, Request Candidate Inference, and Auth Resolution
// (spec §4.6-§4.8), all built as closed procedures over a sourceindex.Index
// and an optional openapi.Document — no pluggable external-provider
// system, unlike the runbook-variable resolvers this planner's teacher
// exposed over jsonrpc.
package inference

import (
	"sort"
	"strings"

	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

// TargetHint is the caller-supplied guidance for locating a target method.
type TargetHint struct {
	ClassHint  string
	MethodHint string
	LineHint   int // 0 means "no line hint"
}

// TargetCandidate is one scored match against the source index.
type TargetCandidate struct {
	Key   string // "fqcn#methodName" when class+package known, else bare method name
	File  string
	Class string
	Line  int
	Score int
}

// InferTargets scores every method in idx against hint and returns the top
// n candidates, highest score first, ties broken by smaller line number
// (spec §4.6).
func InferTargets(idx *sourceindex.Index, hint TargetHint, n int) []TargetCandidate {
	var out []TargetCandidate
	for _, f := range idx.Files {
		for _, m := range f.Methods {
			score, scored := scoreTarget(f, m, hint)
			if !scored {
				continue
			}
			key := m.Name
			if f.Package != "" && f.PrimaryType != "" {
				key = f.Package + "." + f.PrimaryType + "#" + m.Name
			}
			out = append(out, TargetCandidate{
				Key: key, File: f.Path, Class: f.PrimaryType, Line: m.Line, Score: score,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Line < out[j].Line
	})

	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// scoreTarget computes one (file, method) pair's score against hint,
// capped at 100. The guardrail returns (0, false) when a textual hint was
// supplied but neither the class nor the method matched — a line-only
// hint must never cross into an unrelated class.
func scoreTarget(f sourceindex.File, m sourceindex.Method, hint TargetHint) (int, bool) {
	score := 0
	classMatched := false
	methodMatched := false

	if hint.ClassHint != "" {
		if strings.EqualFold(f.PrimaryType, hint.ClassHint) {
			score += 45
			classMatched = true
		} else if containsFold(f.PrimaryType, hint.ClassHint) || containsFold(baseName(f.Path), hint.ClassHint) {
			score += 25
			classMatched = true
		}
	}

	if hint.MethodHint != "" {
		if strings.EqualFold(m.Name, hint.MethodHint) {
			score += 40
			methodMatched = true
		} else if containsFold(m.Name, hint.MethodHint) {
			score += 22
			methodMatched = true
		}
	}

	textualHintProvided := hint.ClassHint != "" || hint.MethodHint != ""
	if textualHintProvided && !classMatched && !methodMatched {
		return 0, false
	}

	if hint.LineHint > 0 {
		d := abs(hint.LineHint - m.Line)
		switch {
		case d == 0:
			score += 25
		case d <= 3:
			score += 16
		case d <= 12:
			score += 8
		}
	}

	if score > 100 {
		score = 100
	}
	return score, true
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func baseName(path string) string {
	i := strings.LastIndexAny(path, "/\\")
	name := path[i+1:]
	if dot := strings.LastIndexByte(name, '.'); dot > 0 {
		name = name[:dot]
	}
	return name
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
