package inference

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

func sampleIndex() *sourceindex.Index {
	return &sourceindex.Index{
		Files: []sourceindex.File{
			{
				Path: "src/com/example/billing/InvoiceService.java", Package: "com.example.billing", PrimaryType: "InvoiceService",
				Methods: []sourceindex.Method{
					{Name: "createInvoice", Line: 10},
					{Name: "cancelInvoice", Line: 40},
				},
			},
			{
				Path: "src/com/example/billing/OrderService.java", Package: "com.example.billing", PrimaryType: "OrderService",
				Methods: []sourceindex.Method{
					{Name: "createInvoice", Line: 100},
				},
			},
		},
	}
}

func TestInferTargetsExactClassAndMethodWins(t *testing.T) {
	idx := sampleIndex()
	cands := InferTargets(idx, TargetHint{ClassHint: "InvoiceService", MethodHint: "createInvoice"}, 5)
	require.NotEmpty(t, cands)
	assert.Equal(t, "com.example.billing.InvoiceService#createInvoice", cands[0].Key)
	assert.Equal(t, 45+40, cands[0].Score)
}

func TestInferTargetsLineDistanceBreaksTie(t *testing.T) {
	idx := sampleIndex()
	cands := InferTargets(idx, TargetHint{MethodHint: "createInvoice", LineHint: 11}, 5)
	require.Len(t, cands, 2)
	assert.Equal(t, "com.example.billing.InvoiceService#createInvoice", cands[0].Key, "closer line should rank first")
}

func TestInferTargetsGuardrailRejectsUnrelatedLineOnlyMatch(t *testing.T) {
	idx := sampleIndex()
	// Hint names a class that matches nothing and gives no method hint, so
	// a line hint that lands exactly on createInvoice must not leak a
	// line-only score for unrelated classes.
	cands := InferTargets(idx, TargetHint{ClassHint: "NoSuchClass", LineHint: 10}, 5)
	assert.Empty(t, cands)
}

func TestInferTargetsScoreCappedAt100(t *testing.T) {
	idx := &sourceindex.Index{Files: []sourceindex.File{
		{Path: "X.java", Package: "p", PrimaryType: "X", Methods: []sourceindex.Method{{Name: "run", Line: 5}}},
	}}
	cands := InferTargets(idx, TargetHint{ClassHint: "X", MethodHint: "run", LineHint: 5}, 1)
	require.Len(t, cands, 1)
	assert.Equal(t, 100, cands[0].Score)
}
