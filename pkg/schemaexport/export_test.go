package schemaexport

import (
	"encoding/json"
	"testing"

	"github.com/nimbly/jvmprobe/pkg/plan"
)

func TestGenerateProducesValidJSON(t *testing.T) {
	data, err := Generate(&plan.ExecutionPlan{}, "https://example.test/schema.json", "ExecutionPlan")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("generated schema is not valid JSON: %v", err)
	}
	if decoded["title"] != "ExecutionPlan" {
		t.Fatalf("title = %v, want ExecutionPlan", decoded["title"])
	}
}

func TestAllGeneratesOneDocumentPerType(t *testing.T) {
	docs, err := All()
	if err != nil {
		t.Fatalf("All failed: %v", err)
	}
	if len(docs) != 4 {
		t.Fatalf("got %d documents, want 4", len(docs))
	}
	for _, d := range docs {
		if len(d.JSON) == 0 {
			t.Fatalf("document %s has empty JSON", d.Name)
		}
	}
}
