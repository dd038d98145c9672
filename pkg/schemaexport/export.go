// Package schemaexport generates JSON Schema documents for the planner's
// wire types, grounded on pkg/schema/export.go's Reflector usage:
// a Reflector with DoNotReference left false, so nested types are emitted
// under $defs and referenced, producing one Draft 2020-12 document per
// type with an ID and Title stamped on afterward.
package schemaexport

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"

	"github.com/nimbly/jvmprobe/pkg/inference"
	"github.com/nimbly/jvmprobe/pkg/plan"
)

// Document wraps a named type's generated schema.
type Document struct {
	Name string
	JSON []byte
}

// All generates one Document per planner wire type this module exports
// to MCP callers.
func All() ([]Document, error) {
	targets := []struct {
		name string
		id   string
		v    any
	}{
		{"ExecutionPlan", "https://github.com/nimbly/jvmprobe/schemas/execution-plan-v1.json", &plan.ExecutionPlan{}},
		{"TargetCandidate", "https://github.com/nimbly/jvmprobe/schemas/target-candidate-v1.json", &inference.TargetCandidate{}},
		{"RequestCandidate", "https://github.com/nimbly/jvmprobe/schemas/request-candidate-v1.json", &inference.RequestCandidate{}},
		{"AuthResult", "https://github.com/nimbly/jvmprobe/schemas/auth-result-v1.json", &inference.AuthResult{}},
	}

	var docs []Document
	for _, target := range targets {
		data, err := Generate(target.v, target.id, target.name)
		if err != nil {
			return nil, fmt.Errorf("schemaexport: %s: %w", target.name, err)
		}
		docs = append(docs, Document{Name: target.name, JSON: data})
	}
	return docs, nil
}

// Generate reflects v into a Draft 2020-12 JSON Schema document, stamping
// id and title.
func Generate(v any, id, title string) ([]byte, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = false

	s := r.Reflect(v)
	s.ID = jsonschema.ID(id)
	s.Title = title

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	return data, nil
}
