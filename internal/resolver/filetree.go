package resolver

import (
	"path"
	"sort"
	"strings"
)

// FileTree is a membership index over the project's source file paths,
// built from one cheap enumeration per analysis run. It answers "does this
// file exist" in O(1) without a remote round trip and keeps a sorted copy
// of the paths so every search over it is deterministic.
type FileTree struct {
	set   map[string]struct{}
	paths []string
}

// NewFileTree builds a tree from relative file paths. Paths are normalized
// to forward slashes without a leading "./".
func NewFileTree(paths []string) *FileTree {
	t := &FileTree{set: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		p = normalizePath(p)
		if p == "" {
			continue
		}
		if _, dup := t.set[p]; dup {
			continue
		}
		t.set[p] = struct{}{}
		t.paths = append(t.paths, p)
	}
	sort.Strings(t.paths)
	return t
}

// Has reports whether the exact path exists in the tree.
func (t *FileTree) Has(p string) bool {
	if t == nil {
		return false
	}
	_, ok := t.set[normalizePath(p)]
	return ok
}

// Len returns the number of indexed paths.
func (t *FileTree) Len() int {
	if t == nil {
		return 0
	}
	return len(t.paths)
}

// Paths returns the indexed paths in sorted order. Callers must not
// modify the returned slice.
func (t *FileTree) Paths() []string {
	if t == nil {
		return nil
	}
	return t.paths
}

// Suggest searches the tree for the best replacement for a path that
// failed to resolve: files whose base name (extension stripped,
// case-insensitive) equals the candidate's base name win; files merely
// containing it come second. Ties break lexicographically so the answer
// is stable. Returns "" when nothing plausible exists.
func (t *FileTree) Suggest(candidate string) string {
	if t == nil || candidate == "" {
		return ""
	}
	base := strings.ToLower(stripExt(path.Base(candidate)))
	if base == "" {
		return ""
	}
	var partial string
	for _, p := range t.paths {
		pb := strings.ToLower(stripExt(path.Base(p)))
		if pb == base {
			return p
		}
		if partial == "" && strings.Contains(pb, base) {
			partial = p
		}
	}
	return partial
}

func stripExt(name string) string {
	return strings.TrimSuffix(name, path.Ext(name))
}

func normalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = strings.TrimPrefix(p, "./")
	return strings.TrimPrefix(p, "/")
}
