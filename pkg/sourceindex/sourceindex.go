// Package sourceindex builds a heuristic, syntactic index of method
// declarations under a project root (spec §4.5). It is deliberately not a
// parser: a single regex per line recognizes a method declaration, and
// its only guarantee is recall for conventionally formatted sources.
// Callers must tolerate false positives.
package sourceindex

import (
	"bufio"
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// skipDirs are version-control and build-output directories the walk
// never descends into.
var skipDirs = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"target": true, "build": true, "out": true, "dist": true,
	"node_modules": true, ".idea": true, ".vscode": true,
}

var packageRe = regexp.MustCompile(`^\s*package\s+([\w.]+)\s*;?`)

var primaryTypeRe = regexp.MustCompile(
	`^\s*(?:public|private|protected|final|abstract|static|\s)*\b(?:class|interface|enum|record)\s+(\w+)`,
)

// methodRe recognizes a method declaration: a return type, a name, a
// parenthesized parameter list, terminating in '{' or a throws clause.
var methodRe = regexp.MustCompile(
	`^\s*(?:public|private|protected|static|final|synchronized|abstract|native|default|\s)*[\w<>\[\],.?\s]+\s+(\w+)\s*\([^)]*\)\s*(?:throws\s+[\w.,\s]+)?\s*\{?\s*$`,
)

// controlKeywords are rejected even when methodRe matches, since
// "if (...) {" and friends have the same shallow shape as a method
// declaration.
var controlKeywords = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "catch": true,
}

// Method is one heuristically recognized method declaration.
type Method struct {
	Name    string
	Line    int // 1-based
	RawLine string
}

// File is one indexed source file.
type File struct {
	Path        string
	Package     string
	PrimaryType string
	Methods     []Method
	// Text is the file's full content, kept alongside the extracted
	// Methods so later passes (annotation parsing, caller search) can
	// search the surrounding source rather than just method-declaration
	// lines.
	Text string
}

// Index is the set of files discovered under one root, built by a single
// Build call and scoped to that call — there is no persistent, shared
// index across invocations (spec §5's "per-call... released when the
// function returns").
type Index struct {
	Root  string
	Files []File
}

// Build walks root breadth-first, skipping skipDirs, and indexes every
// file whose extension is in exts (nil means ".java"). fileCache, if
// non-nil, is consulted to avoid re-reading a file already read earlier
// in this same Build call (or a caller-supplied cache shared across a
// handful of Build calls within one planner invocation).
func Build(root string, exts []string, fileCache *lru.Cache[string, []byte]) (*Index, error) {
	if len(exts) == 0 {
		exts = []string{".java"}
	}
	extSet := map[string]bool{}
	for _, e := range exts {
		extSet[e] = true
	}

	idx := &Index{Root: root}

	type dirEntry struct{ path string }
	queue := []dirEntry{{path: root}}

	for len(queue) > 0 {
		dir := queue[0]
		queue = queue[1:]

		entries, err := os.ReadDir(dir.path)
		if err != nil {
			continue
		}
		for _, e := range entries {
			full := filepath.Join(dir.path, e.Name())
			if e.IsDir() {
				if skipDirs[e.Name()] || strings.HasPrefix(e.Name(), ".") {
					continue
				}
				queue = append(queue, dirEntry{path: full})
				continue
			}
			if !extSet[filepath.Ext(e.Name())] {
				continue
			}
			f, err := indexFile(full, fileCache)
			if err != nil {
				continue
			}
			idx.Files = append(idx.Files, *f)
		}
	}
	return idx, nil
}

func indexFile(path string, fileCache *lru.Cache[string, []byte]) (*File, error) {
	content, err := readCached(path, fileCache)
	if err != nil {
		return nil, err
	}

	f := &File{Path: path, Text: string(content)}
	scanner := bufio.NewScanner(bytes.NewReader(content))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()

		if f.Package == "" {
			if m := packageRe.FindStringSubmatch(text); m != nil {
				f.Package = m[1]
			}
		}
		if f.PrimaryType == "" {
			if m := primaryTypeRe.FindStringSubmatch(text); m != nil {
				f.PrimaryType = m[1]
			}
		}
		if m := methodRe.FindStringSubmatch(text); m != nil {
			name := m[1]
			if controlKeywords[name] {
				continue
			}
			f.Methods = append(f.Methods, Method{Name: name, Line: line, RawLine: text})
		}
	}
	return f, nil
}

func readCached(path string, cache *lru.Cache[string, []byte]) ([]byte, error) {
	if cache != nil {
		if v, ok := cache.Get(path); ok {
			return v, nil
		}
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if cache != nil {
		cache.Add(path, content)
	}
	return content, nil
}

// NewFileCache builds a bounded per-call file-content cache. size caps
// the number of distinct files cached within one planner invocation.
func NewFileCache(size int) (*lru.Cache[string, []byte], error) {
	return lru.New[string, []byte](size)
}

// FindMethod returns the first (File, Method) pair whose method name
// equals name, preferring the file whose primary type equals
// preferredType when non-empty and multiple matches exist.
func (idx *Index) FindMethod(name, preferredType string) (*File, *Method, bool) {
	var fallbackFile *File
	var fallbackMethod *Method
	for i := range idx.Files {
		f := &idx.Files[i]
		for j := range f.Methods {
			m := &f.Methods[j]
			if m.Name != name {
				continue
			}
			if preferredType != "" && f.PrimaryType == preferredType {
				return f, m, true
			}
			if fallbackFile == nil {
				fallbackFile, fallbackMethod = f, m
			}
		}
	}
	if fallbackFile != nil {
		return fallbackFile, fallbackMethod, true
	}
	return nil, nil, false
}
