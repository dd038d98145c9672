package openapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleDoc = `
paths:
  /api/login:
    post:
      operationId: login
      security: []
  /api/orders/{id}:
    get:
      operationId: getOrder
      security:
        - bearerAuth: []
components:
  securitySchemes:
    bearerAuth:
      type: http
      scheme: bearer
security:
  - bearerAuth: []
`

func TestFindLocatesFirstCandidatePath(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "docs", "openapi"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "docs", "openapi", "openapi.yaml"), []byte(sampleDoc), 0o644))

	doc, err := Find(dir)
	require.NoError(t, err)
	require.NotNil(t, doc)
	assert.Len(t, doc.Paths, 2)
}

func TestFindReturnsNilWhenAbsent(t *testing.T) {
	doc, err := Find(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, doc)
}

func TestFindOperationByID(t *testing.T) {
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(sampleDoc), &doc))

	path, method, op, ok := doc.FindOperationByID([]string{"getOrder"})
	require.True(t, ok)
	assert.Equal(t, "/api/orders/{id}", path)
	assert.Equal(t, "GET", method)
	assert.Equal(t, "getOrder", op.OperationID)
}

func TestSecurityForFallsBackToGlobal(t *testing.T) {
	var doc Document
	require.NoError(t, yaml.Unmarshal([]byte(sampleDoc), &doc))

	_, _, loginOp, ok := doc.FindOperationByID([]string{"login"})
	require.True(t, ok)
	assert.Empty(t, doc.SecurityFor(loginOp), "operation declares its own empty security, overriding global")
	assert.Len(t, doc.SecurityFor(&Operation{}), 1, "operation without its own security falls back to global")

	_, _, orderOp, ok := doc.FindOperationByID([]string{"getOrder"})
	require.True(t, ok)
	sec := doc.SecurityFor(orderOp)
	require.Len(t, sec, 1)

	scheme, ok := doc.ResolveScheme(sec)
	require.True(t, ok)
	assert.Equal(t, "bearer", scheme.Scheme)
}
