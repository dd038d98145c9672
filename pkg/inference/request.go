package inference

import (
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/nimbly/jvmprobe/pkg/openapi"
	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

// maxControllerFiles caps the controller search per spec §4.7 step 1.
const maxControllerFiles = 120

// Param is one parsed controller-method parameter.
type Param struct {
	Name     string // request-facing name (annotation override or formal name)
	Location string // "query", "path", "header", "body", "unknown"
	Example  any
}

// RequestCandidate is a reconstructed HTTP surface for reaching a target
// method, or the OpenAPI fallback's equivalent.
type RequestCandidate struct {
	Method       string
	Path         string
	Params       []Param
	BodyTemplate map[string]any
	Rationale    string
	FromOpenAPI  bool
}

var requestMappingRe = regexp.MustCompile(`@RequestMapping\(\s*(?:value\s*=\s*)?"([^"]*)"`)

var mappingAnnotationRe = regexp.MustCompile(
	`@(Get|Post|Put|Patch|Delete)Mapping\(\s*(?:value\s*=\s*)?"([^"]*)"\)|@RequestMapping\(([^)]*)\)`,
)

var paramAnnotationRe = regexp.MustCompile(
	`@(RequestParam|PathVariable|RequestHeader|RequestBody)(?:\(\s*(?:value\s*=\s*)?"([^"]*)"\s*\))?\s+([\w<>\[\],.?]+)\s+(\w+)`,
)

// FindControllerFiles returns files whose path or primary type contains
// "Controller", capped at maxControllerFiles (spec §4.7 step 1).
func FindControllerFiles(idx *sourceindex.Index) []sourceindex.File {
	var out []sourceindex.File
	for _, f := range idx.Files {
		if strings.Contains(f.Path, "Controller") || strings.Contains(f.PrimaryType, "Controller") {
			out = append(out, f)
			if len(out) >= maxControllerFiles {
				break
			}
		}
	}
	return out
}

// InferRequestCandidate implements spec §4.7: locate a controller method
// that invokes targetMethod directly or transitively, and reconstruct the
// HTTP surface. doc is consulted only as a fallback when no controller
// mapping resolves.
func InferRequestCandidate(idx *sourceindex.Index, targetMethod string, doc *openapi.Document) (*RequestCandidate, bool) {
	controllers := FindControllerFiles(idx)

	// Step 2: direct textual invocation.
	for _, cf := range controllers {
		if strings.Contains(rawText(cf), targetMethod+"(") {
			if c, ok := buildCandidate(cf, targetMethod); ok {
				return c, true
			}
		}
	}

	// Steps 3-4: bounded caller BFS, depth <= 2.
	callers := callerBFS(idx, targetMethod, 2)
	for _, caller := range callers {
		for _, cf := range controllers {
			if strings.Contains(rawText(cf), caller.MethodName+"(") {
				if c, ok := buildCandidate(cf, caller.MethodName); ok {
					return c, true
				}
			}
		}
	}

	// Step 6: OpenAPI fallback.
	ids := []string{targetMethod}
	for _, c := range callers {
		ids = append(ids, c.MethodName)
	}
	if doc != nil {
		if path, method, op, ok := doc.FindOperationByID(ids); ok {
			cand := &RequestCandidate{Method: method, Path: path, FromOpenAPI: true}
			if method != "GET" && method != "DELETE" {
				cand.BodyTemplate = map[string]any{"example": "value"}
			}
			_ = op
			return cand, true
		}
	}

	// Step 7: no-route policy.
	return nil, false
}

func rawText(f sourceindex.File) string {
	return f.Text
}

type callerHit struct {
	MethodName string
	File       string
	Score      int
	ChainLen   int
}

// callerBFS finds callers of target, then callers of those callers, up to
// maxDepth, scoring each candidate: service-directory files +4,
// service-named classes +2, controller files -2 (spec §4.7 step 3).
func callerBFS(idx *sourceindex.Index, target string, maxDepth int) []callerHit {
	frontier := []string{target}
	seen := map[string]bool{target: true}
	var hits []callerHit

	for depth := 1; depth <= maxDepth; depth++ {
		var next []string
		for _, f := range idx.Files {
			text := rawText(f)
			for _, callee := range frontier {
				if !strings.Contains(text, callee+"(") {
					continue
				}
				for _, m := range f.Methods {
					if seen[m.Name] {
						continue
					}
					score := 0
					if strings.Contains(strings.ToLower(f.Path), "service") {
						score += 4
					}
					if strings.Contains(f.PrimaryType, "Service") {
						score += 2
					}
					if strings.Contains(f.Path, "Controller") || strings.Contains(f.PrimaryType, "Controller") {
						score -= 2
					}
					hits = append(hits, callerHit{MethodName: m.Name, File: f.Path, Score: score, ChainLen: depth})
					seen[m.Name] = true
					next = append(next, m.Name)
				}
			}
		}
		frontier = next
		if len(frontier) == 0 {
			break
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].Score != hits[j].Score {
			return hits[i].Score > hits[j].Score
		}
		return hits[i].ChainLen < hits[j].ChainLen
	})
	return hits
}

// buildCandidate builds a RequestCandidate from the controller file cf,
// whose text contains a call to calleeMethod (spec §4.7 step 5).
func buildCandidate(cf sourceindex.File, calleeMethod string) (*RequestCandidate, bool) {
	text := rawText(cf)

	basePath := ""
	if m := requestMappingRe.FindStringSubmatch(text); m != nil {
		basePath = m[1]
	}

	httpMethod, subPath, ok := findMappingNearCall(text, calleeMethod)
	if !ok {
		return nil, false
	}

	params := parseParams(text)
	rationale := branchHint(text)

	path := joinPath(basePath, subPath)
	for _, p := range params {
		if p.Location == "path" {
			placeholder := "{" + p.Name + "}"
			path = strings.Replace(path, placeholder, valueString(p.Example), 1)
		}
	}

	cand := &RequestCandidate{Method: httpMethod, Path: path, Params: params, Rationale: rationale}

	var query []string
	for _, p := range params {
		switch p.Location {
		case "query":
			query = append(query, p.Name+"="+valueString(p.Example))
		case "body":
			if cand.BodyTemplate == nil {
				cand.BodyTemplate = map[string]any{}
			}
			cand.BodyTemplate[p.Name] = p.Example
		}
	}
	if len(query) > 0 {
		cand.Path += "?" + strings.Join(query, "&")
	}
	return cand, true
}

// findMappingNearCall returns the HTTP method and sub-path of the mapping
// annotation nearest (before) calleeMethod's invocation.
func findMappingNearCall(text, calleeMethod string) (method, subPath string, ok bool) {
	idx := strings.Index(text, calleeMethod+"(")
	if idx < 0 {
		return "", "", false
	}
	window := text[:idx]
	matches := mappingAnnotationRe.FindAllStringSubmatch(window, -1)
	if len(matches) == 0 {
		return "", "", false
	}
	last := matches[len(matches)-1]
	if last[1] != "" {
		return strings.ToUpper(last[1]), last[2], true
	}
	// Generic @RequestMapping(...): best-effort RequestMethod.X extraction.
	args := last[3]
	m := regexp.MustCompile(`RequestMethod\.(\w+)`).FindStringSubmatch(args)
	httpMethod := "GET"
	if m != nil {
		httpMethod = strings.ToUpper(m[1])
	}
	p := regexp.MustCompile(`"([^"]*)"`).FindStringSubmatch(args)
	path := ""
	if p != nil {
		path = p[1]
	}
	return httpMethod, path, true
}

func parseParams(text string) []Param {
	var out []Param
	for _, m := range paramAnnotationRe.FindAllStringSubmatch(text, -1) {
		annotation, override, typeName, formalName := m[1], m[2], m[3], m[4]
		name := formalName
		if override != "" {
			name = override
		}

		loc := "unknown"
		switch annotation {
		case "RequestParam":
			loc = "query"
		case "PathVariable":
			loc = "path"
		case "RequestHeader":
			loc = "header"
		case "RequestBody":
			loc = "body"
		}

		example := exampleFor(typeName)
		switch name {
		case "page":
			example = 0
		case "size":
			example = 1
		}
		out = append(out, Param{Name: name, Location: loc, Example: example})
	}

	have := map[string]bool{}
	for _, p := range out {
		have[p.Name] = true
	}
	if !have["page"] && containsWord(text, "page") {
		out = append(out, Param{Name: "page", Location: "query", Example: 0})
	}
	if !have["size"] && containsWord(text, "size") {
		out = append(out, Param{Name: "size", Location: "query", Example: 1})
	}

	// Branch-precondition hint: omit minPrice when an else-if(maxPrice)
	// guard is adjacent to it (spec §4.7 step 5 special case).
	if strings.Contains(text, "else if") && strings.Contains(text, "maxPrice") {
		filtered := out[:0]
		for _, p := range out {
			if p.Name == "minPrice" {
				continue
			}
			filtered = append(filtered, p)
		}
		out = filtered
	}
	return out
}

func containsWord(text, word string) bool {
	return regexp.MustCompile(`\b` + word + `\b`).MatchString(text)
}

var integralTypeHint = regexp.MustCompile(`^(int|Integer|long|Long|short|Short|byte|Byte|BigInteger)$`)
var floatTypeHint = regexp.MustCompile(`^(float|Float|double|Double|BigDecimal)$`)
var boolTypeHint = regexp.MustCompile(`^(boolean|Boolean)$`)

func exampleFor(typeName string) any {
	switch {
	case boolTypeHint.MatchString(typeName):
		return true
	case floatTypeHint.MatchString(typeName):
		return 1000
	case integralTypeHint.MatchString(typeName):
		return 1
	default:
		return "value"
	}
}

func valueString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case bool:
		return strconv.FormatBool(t)
	default:
		return "value"
	}
}

func joinPath(base, sub string) string {
	base = strings.TrimSuffix(base, "/")
	if sub == "" {
		return base
	}
	if !strings.HasPrefix(sub, "/") {
		sub = "/" + sub
	}
	return base + sub
}

// branchHint extracts the last if/else-if line in text for the
// candidate's rationale (spec §4.7 final paragraph).
func branchHint(text string) string {
	lines := strings.Split(text, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		l := strings.TrimSpace(lines[i])
		if strings.HasPrefix(l, "if (") || strings.HasPrefix(l, "else if (") {
			return l
		}
	}
	return ""
}
