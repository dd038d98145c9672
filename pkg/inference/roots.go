package inference

import (
	"fmt"
	"path/filepath"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/nimbly/jvmprobe/pkg/sourceindex"
)

// ExpandSearchRoots returns the ordered, deduplicated list of filesystem
// roots Request Candidate Inference indexes over (spec §4.7): root
// itself, root's parent when root's directory name suggests a
// multi-module "core" submodule (so a sibling module's controller is
// still reachable), and root's parent again as a last-resort workspace
// root.
func ExpandSearchRoots(root string) []string {
	roots := []string{root}
	parent := filepath.Dir(filepath.Clean(root))
	if looksLikeCoreSubmodule(root) {
		roots = appendDedupRoot(roots, parent)
	}
	roots = appendDedupRoot(roots, parent)
	return roots
}

func looksLikeCoreSubmodule(root string) bool {
	base := strings.ToLower(filepath.Base(filepath.Clean(root)))
	return base == "core" || strings.HasSuffix(base, "-core") || strings.HasSuffix(base, "_core")
}

func appendDedupRoot(roots []string, candidate string) []string {
	for _, r := range roots {
		if sameDir(r, candidate) {
			return roots
		}
	}
	return append(roots, candidate)
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return a == b
	}
	return absA == absB
}

// BuildMergedIndex builds a sourceindex.Index over every root in roots
// and merges their files, deduplicated by absolute path. The first root
// is the caller's actual project root and must resolve; any later root
// (parent/workspace fallback) that fails to build is skipped rather than
// treated as an error, since a sibling module or workspace root is not
// guaranteed to exist.
func BuildMergedIndex(roots []string, exts []string, cache *lru.Cache[string, []byte]) (*sourceindex.Index, error) {
	if len(roots) == 0 {
		return nil, fmt.Errorf("inference: no search roots given")
	}

	merged := &sourceindex.Index{Root: roots[0]}
	seen := map[string]bool{}

	for i, r := range roots {
		idx, err := sourceindex.Build(r, exts, cache)
		if err != nil {
			if i == 0 {
				return nil, err
			}
			continue
		}
		for _, f := range idx.Files {
			abs, absErr := filepath.Abs(f.Path)
			if absErr != nil {
				abs = f.Path
			}
			if seen[abs] {
				continue
			}
			seen[abs] = true
			merged.Files = append(merged.Files, f)
		}
	}
	return merged, nil
}
