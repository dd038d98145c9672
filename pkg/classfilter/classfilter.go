// Package classfilter decides whether a loaded class is eligible for
// bytecode instrumentation (spec §4.2), grounded on AgentConfig.java's
// toRegex/shouldInstrument pair.
//
// No third-party glob library in the retrieval pack targets Java's
// dotted-package glob grammar (bmatcuk/doublestar matches '/'-separated
// filesystem paths, not '.'-separated dotted names), so patterns are
// compiled to stdlib regexp here — see DESIGN.md.
package classfilter

import (
	"regexp"
	"strings"
)

// builtInExcludes are always excluded regardless of user configuration,
// mirroring ProbeAgent.java's AgentBuilder.ignore(...) prefixes plus the
// instrumentation library's own package.
var builtInExcludes = []string{
	"github.com/nimbly/jvmprobe.**",
	"java.**",
	"javax.**",
	"jakarta.**",
	"sun.**",
	"jdk.**",
	"com.sun.**",
	"org.springframework.boot.loader.**",
}

// Filter holds compiled include/exclude matchers.
type Filter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

// Compile builds a Filter from comma-free, already-split glob/prefix
// pattern lists. Invalid patterns are skipped (toRegex never produces an
// invalid regex, so this only guards against a literal empty string).
func Compile(includePatterns, excludePatterns []string) *Filter {
	f := &Filter{}
	for _, p := range includePatterns {
		if re := compileOne(p); re != nil {
			f.include = append(f.include, re)
		}
	}
	for _, p := range append(append([]string{}, excludePatterns...), builtInExcludes...) {
		if re := compileOne(p); re != nil {
			f.exclude = append(f.exclude, re)
		}
	}
	return f
}

func compileOne(pattern string) *regexp.Regexp {
	p := strings.TrimSpace(pattern)
	if p == "" {
		return nil
	}
	re, err := regexp.Compile(ToRegex(p))
	if err != nil {
		return nil
	}
	return re
}

// ShouldInstrument reports whether class is eligible: it must match some
// include matcher and no exclude matcher (spec §4.2 step 1-2). An empty
// class name is always rejected.
func (f *Filter) ShouldInstrument(class string) bool {
	if class == "" {
		return false
	}
	return matchesAny(f.include, class) && !matchesAny(f.exclude, class)
}

func matchesAny(patterns []*regexp.Regexp, value string) bool {
	for _, p := range patterns {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}

// ToRegex compiles a single glob/prefix pattern into an anchored regex
// source string:
//   - '*' matches one dotted path segment (no dots).
//   - '**' matches any substring, including dots.
//   - a pattern with no wildcard at all is treated as a package prefix,
//     i.e. "a.b.c" becomes "a.b.c.**".
func ToRegex(globOrPrefix string) string {
	g := globOrPrefix
	if !strings.Contains(g, "*") {
		if strings.HasSuffix(g, ".") {
			g += "**"
		} else {
			g += ".**"
		}
	}

	var sb strings.Builder
	sb.WriteByte('^')
	for i := 0; i < len(g); i++ {
		c := g[i]
		if c == '*' {
			if i+1 < len(g) && g[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^.]*")
			}
			continue
		}
		if strings.IndexByte(`\.[]{}()+-^$|?`, c) >= 0 {
			sb.WriteByte('\\')
		}
		sb.WriteByte(c)
	}
	sb.WriteByte('$')
	return sb.String()
}

// ParseCSV splits a comma-separated pattern list, trimming whitespace and
// dropping empty entries (spec §4.2/§6.1 "comma-separated globs/prefixes").
func ParseCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
