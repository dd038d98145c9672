package sourceindex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleJava = `package com.example.billing;

public class InvoiceService {
    public Invoice createInvoice(Order order) {
        if (order == null) {
            throw new IllegalArgumentException();
        }
        return build(order);
    }

    private Invoice build(Order order) throws ValidationException {
        return new Invoice();
    }
}
`

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	full := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte(content), 0o644))
	return full
}

func TestBuildIndexesPackageTypeAndMethods(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/com/example/billing/InvoiceService.java", sampleJava)

	idx, err := Build(dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, idx.Files, 1)

	f := idx.Files[0]
	assert.Equal(t, "com.example.billing", f.Package)
	assert.Equal(t, "InvoiceService", f.PrimaryType)

	names := map[string]bool{}
	for _, m := range f.Methods {
		names[m.Name] = true
	}
	assert.True(t, names["createInvoice"])
	assert.True(t, names["build"])
	assert.False(t, names["if"], "control keyword must never be indexed as a method")
}

func TestBuildSkipsVersionControlAndBuildDirs(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".git/objects/foo.java", "package should.not.appear;\nclass X { void m() {} }\n")
	writeFile(t, dir, "target/classes/Generated.java", "package should.not.appear;\nclass Y { void m() {} }\n")
	writeFile(t, dir, "src/Real.java", sampleJava)

	idx, err := Build(dir, nil, nil)
	require.NoError(t, err)
	require.Len(t, idx.Files, 1)
	assert.Equal(t, "com.example.billing", idx.Files[0].Package)
}

func TestFileCacheAvoidsRereadingSameFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "src/Real.java", sampleJava)

	cache, err := NewFileCache(8)
	require.NoError(t, err)

	_, err = indexFile(path, cache)
	require.NoError(t, err)
	require.Equal(t, 1, cache.Len())

	// Mutate on disk; a cache hit should still return the original bytes.
	require.NoError(t, os.WriteFile(path, []byte("package mutated;\n"), 0o644))
	f, err := indexFile(path, cache)
	require.NoError(t, err)
	assert.Equal(t, "com.example.billing", f.Package, "cached read should not observe the on-disk mutation")
}

func TestFindMethodPrefersPreferredType(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/A.java", "package p;\nclass A {\n    void run() {\n    }\n}\n")
	writeFile(t, dir, "src/B.java", "package p;\nclass B {\n    void run() {\n    }\n}\n")

	idx, err := Build(dir, nil, nil)
	require.NoError(t, err)

	f, m, ok := idx.FindMethod("run", "B")
	require.True(t, ok)
	assert.Equal(t, "B", f.PrimaryType)
	assert.Equal(t, "run", m.Name)
}

func TestFindMethodReturnsFalseWhenAbsent(t *testing.T) {
	idx := &Index{}
	_, _, ok := idx.FindMethod("nope", "")
	assert.False(t, ok)
}
