package resolver

import (
	"context"
	"reflect"
	"testing"

	"sift/internal/sandbox"
	"sift/internal/tsconfig"
)

func aliasConfig() *tsconfig.Config {
	return &tsconfig.Config{
		BaseURL:   ".",
		Paths:     map[string][]string{"@/*": {"src/*"}},
		PathOrder: []string{"@/*"},
	}
}

func TestResolveAliasHit(t *testing.T) {
	tree := NewFileTree([]string{"src/lib/utils.ts", "src/App.tsx"})
	res := Resolve(context.Background(), "@/lib/utils", "src/App.tsx", aliasConfig(), tree, nil)
	if res.Resolved != "src/lib/utils.ts" {
		t.Fatalf("Resolved = %q, want src/lib/utils.ts", res.Resolved)
	}
}

func TestResolveAliasIndexFallback(t *testing.T) {
	tree := NewFileTree([]string{"src/components/button/index.tsx"})
	res := Resolve(context.Background(), "@/components/button", "src/App.tsx", aliasConfig(), tree, nil)
	if res.Resolved != "src/components/button/index.tsx" {
		t.Fatalf("Resolved = %q", res.Resolved)
	}
	// Four plain extensions, then index.ts, then the index.tsx hit.
	if len(res.Candidates) != 6 {
		t.Fatalf("candidates = %v", res.Candidates)
	}
}

func TestResolveRelativeMissRecordsCandidatesInOrder(t *testing.T) {
	tree := NewFileTree([]string{"src/components/App.tsx"})
	res := Resolve(context.Background(), "./Header", "src/components/App.tsx", nil, tree, nil)
	if res.Found() {
		t.Fatalf("unexpected hit: %q", res.Resolved)
	}
	want := []string{
		"src/components/Header.ts",
		"src/components/Header.tsx",
		"src/components/Header.js",
		"src/components/Header.jsx",
	}
	if !reflect.DeepEqual(res.Candidates, want) {
		t.Fatalf("candidates = %v, want %v", res.Candidates, want)
	}
}

func TestResolveRelativeParentSegments(t *testing.T) {
	tree := NewFileTree([]string{"src/lib/api.ts"})
	res := Resolve(context.Background(), "../../lib/api", "src/components/nav/Menu.tsx", nil, tree, nil)
	if res.Resolved != "src/lib/api.ts" {
		t.Fatalf("Resolved = %q, candidates %v", res.Resolved, res.Candidates)
	}
}

func TestResolveDeterministic(t *testing.T) {
	tree := NewFileTree([]string{"src/a.ts", "src/b.ts", "src/c.ts"})
	first := Resolve(context.Background(), "./missing", "src/a.ts", nil, tree, nil)
	for i := 0; i < 10; i++ {
		again := Resolve(context.Background(), "./missing", "src/a.ts", nil, tree, nil)
		if !reflect.DeepEqual(first.Candidates, again.Candidates) {
			t.Fatalf("candidate order changed between calls: %v vs %v", first.Candidates, again.Candidates)
		}
	}
}

func TestAliasNeverFallsBackToRelative(t *testing.T) {
	// "@/Header" could plausibly resolve relative to the origin if treated
	// as a path, but alias-form specifiers must only try alias patterns.
	tree := NewFileTree([]string{"src/components/@/Header.tsx"})
	res := Resolve(context.Background(), "@/Header", "src/components/App.tsx", aliasConfig(), tree, nil)
	if res.Found() {
		t.Fatalf("alias specifier resolved through a relative probe: %q", res.Resolved)
	}
	for _, c := range res.Candidates {
		if c == "src/components/@/Header.ts" {
			t.Fatalf("relative candidate probed for alias specifier: %v", res.Candidates)
		}
	}
}

func TestAliasFormWithoutConfig(t *testing.T) {
	res := Resolve(context.Background(), "@/lib/utils", "src/App.tsx", nil, nil, nil)
	if res.Found() || len(res.Candidates) != 0 {
		t.Fatalf("want empty resolution, got %+v", res)
	}
}

func TestBareSpecifierOutOfScope(t *testing.T) {
	tree := NewFileTree([]string{"src/react.ts"})
	res := Resolve(context.Background(), "react", "src/App.tsx", aliasConfig(), tree, nil)
	if res.Found() || len(res.Candidates) != 0 {
		t.Fatalf("bare specifier must not be probed, got %+v", res)
	}
}

func TestBareSpecifierIgnoresNonSentinelPatterns(t *testing.T) {
	// A tsconfig may alias bare-looking prefixes, but anything without the
	// sentinel stays an external package: no file probes, no candidates.
	cfg := &tsconfig.Config{
		BaseURL:   ".",
		Paths:     map[string][]string{"components/*": {"src/components/*"}},
		PathOrder: []string{"components/*"},
	}
	tree := NewFileTree([]string{"src/components/Button.tsx"})
	res := Resolve(context.Background(), "components/Button", "src/App.tsx", cfg, tree, nil)
	if res.Found() || len(res.Candidates) != 0 {
		t.Fatalf("non-sentinel pattern must not capture a bare specifier, got %+v", res)
	}
}

func TestBuiltinsAlreadyResolved(t *testing.T) {
	for _, spec := range []string{"path", "node:fs", "child_process"} {
		res := Resolve(context.Background(), spec, "src/App.tsx", nil, nil, nil)
		if res.Resolved != spec {
			t.Fatalf("builtin %q not treated as resolved: %+v", spec, res)
		}
		if len(res.Candidates) != 0 {
			t.Fatalf("builtin %q was probed: %v", spec, res.Candidates)
		}
	}
}

func TestAssetsSkipped(t *testing.T) {
	res := Resolve(context.Background(), "./styles.css", "src/App.tsx", nil, nil, nil)
	if res.Found() || len(res.Candidates) != 0 {
		t.Fatalf("asset import must be skipped, got %+v", res)
	}
}

func TestProbeFallsBackToRemoteReads(t *testing.T) {
	sb := sandbox.NewFake("probe")
	sb.Files["src/components/Header.tsx"] = "export default function Header() {}\n"

	res := Resolve(context.Background(), "./Header", "src/components/App.tsx", nil, nil, sb)
	if res.Resolved != "src/components/Header.tsx" {
		t.Fatalf("Resolved = %q, candidates %v", res.Resolved, res.Candidates)
	}
	// One read per candidate up to the hit: .ts missed, .tsx hit.
	if len(res.Candidates) != 2 {
		t.Fatalf("candidates = %v", res.Candidates)
	}
}

func TestPatternDeclarationOrderWins(t *testing.T) {
	cfg := &tsconfig.Config{
		BaseURL: ".",
		Paths: map[string][]string{
			"@/*":     {"src/*"},
			"@/lib/*": {"vendored/*"},
		},
		PathOrder: []string{"@/lib/*", "@/*"},
	}
	tree := NewFileTree([]string{"vendored/utils.ts", "src/lib/utils.ts"})
	res := Resolve(context.Background(), "@/lib/utils", "src/App.tsx", cfg, tree, nil)
	if res.Resolved != "vendored/utils.ts" {
		t.Fatalf("declaration order not honored: %+v", res)
	}
}

func TestSuggestPrefersExactBaseName(t *testing.T) {
	tree := NewFileTree([]string{
		"src/components/SiteHeader.tsx",
		"src/components/header.tsx",
	})
	got := tree.Suggest("src/components/Header.tsx")
	if got != "src/components/header.tsx" {
		t.Fatalf("Suggest = %q", got)
	}
}

func TestSuggestPartialMatch(t *testing.T) {
	tree := NewFileTree([]string{"src/components/SiteHeader.tsx"})
	if got := tree.Suggest("src/components/Header.tsx"); got != "src/components/SiteHeader.tsx" {
		t.Fatalf("Suggest = %q", got)
	}
}

func TestSuggestEmptyTree(t *testing.T) {
	var tree *FileTree
	if got := tree.Suggest("src/Header.tsx"); got != "" {
		t.Fatalf("Suggest on nil tree = %q", got)
	}
}
