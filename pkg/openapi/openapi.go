// Package openapi is a minimal OpenAPI 3 document model covering just the
// fields Request Candidate Inference and Auth Resolution read: paths,
// operations, security schemes (spec §4.7, §4.8). It is not a validating
// or spec-complete OpenAPI library — gopkg.in/yaml.v3 decodes the YAML
// shape directly into these structs.
package openapi

import (
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// candidatePaths are searched, in order, under a project root.
var candidatePaths = []string{
	"docs/openapi/openapi.yaml",
	"docs/openapi/openapi.yml",
	"openapi.yaml",
	"openapi.yml",
	"swagger.yaml",
	"swagger.yml",
}

// Document is the subset of an OpenAPI 3 document this planner consumes.
type Document struct {
	Paths      map[string]PathItem   `yaml:"paths"`
	Components Components            `yaml:"components"`
	Security   []map[string][]string `yaml:"security"`
}

// PathItem holds one path's operations, keyed by lower-case HTTP method
// (get/post/put/patch/delete).
type PathItem struct {
	Get    *Operation `yaml:"get"`
	Post   *Operation `yaml:"post"`
	Put    *Operation `yaml:"put"`
	Patch  *Operation `yaml:"patch"`
	Delete *Operation `yaml:"delete"`
}

// Operations returns every non-nil (method, operation) pair in p, with
// method upper-cased (GET, POST, ...).
func (p PathItem) Operations() []MethodOperation {
	var out []MethodOperation
	add := func(method string, op *Operation) {
		if op != nil {
			out = append(out, MethodOperation{Method: method, Operation: op})
		}
	}
	add("GET", p.Get)
	add("POST", p.Post)
	add("PUT", p.Put)
	add("PATCH", p.Patch)
	add("DELETE", p.Delete)
	return out
}

// MethodOperation pairs an HTTP method with its operation.
type MethodOperation struct {
	Method    string
	Operation *Operation
}

// Operation is one HTTP operation on a path.
type Operation struct {
	OperationID string                `yaml:"operationId"`
	Security    []map[string][]string `yaml:"security"`
	RequestBody map[string]any        `yaml:"requestBody"`
	Responses   map[string]any        `yaml:"responses"`
}

// Components holds reusable security scheme definitions.
type Components struct {
	SecuritySchemes map[string]SecurityScheme `yaml:"securitySchemes"`
}

// SecurityScheme describes one named authentication mechanism.
type SecurityScheme struct {
	Type   string `yaml:"type"`   // http, apiKey, oauth2, openIdConnect
	Scheme string `yaml:"scheme"` // bearer, basic (when Type == "http")
	In     string `yaml:"in"`     // header, query, cookie (when Type == "apiKey")
	Name   string `yaml:"name"`
}

// Find locates the first OpenAPI document under root, in candidatePaths
// order, and parses it. It returns (nil, nil) — not an error — when no
// candidate file exists, since an absent OpenAPI document is an expected,
// non-fatal outcome for auth resolution and request inference to fall
// back from.
func Find(root string) (*Document, error) {
	for _, rel := range candidatePaths {
		full := filepath.Join(root, rel)
		raw, err := os.ReadFile(full)
		if err != nil {
			continue
		}
		var doc Document
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, err
		}
		return &doc, nil
	}
	return nil, nil
}

// FindOperationByID searches every path for an operation whose
// operationId equals any of ids, returning the first match along with
// its path and method.
func (d *Document) FindOperationByID(ids []string) (path, method string, op *Operation, ok bool) {
	if d == nil {
		return "", "", nil, false
	}
	wanted := map[string]bool{}
	for _, id := range ids {
		if id != "" {
			wanted[id] = true
		}
	}
	for p, item := range d.Paths {
		for _, mo := range item.Operations() {
			if wanted[mo.Operation.OperationID] {
				return p, mo.Method, mo.Operation, true
			}
		}
	}
	return "", "", nil, false
}

// SecurityFor returns the effective security requirement list for op:
// the operation's own Security if declared, otherwise the document's
// global Security.
func (d *Document) SecurityFor(op *Operation) []map[string][]string {
	if op != nil && op.Security != nil {
		return op.Security
	}
	if d == nil {
		return nil
	}
	return d.Security
}

// ResolveScheme returns the first named security scheme referenced by
// security, resolved against the document's component schemes.
func (d *Document) ResolveScheme(security []map[string][]string) (SecurityScheme, bool) {
	if d == nil {
		return SecurityScheme{}, false
	}
	for _, req := range security {
		for name := range req {
			if s, ok := d.Components.SecuritySchemes[name]; ok {
				return s, true
			}
		}
	}
	return SecurityScheme{}, false
}
