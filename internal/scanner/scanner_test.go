package scanner

import (
	"context"
	"reflect"
	"strings"
	"testing"

	"sift/internal/resolver"
	"sift/internal/sandbox"
)

func TestSelectFilesPriorityOrder(t *testing.T) {
	paths := []string{
		"src/components/ui/button.tsx",
		"src/components/Header.tsx",
		"src/hooks/useAuth.ts",
		"src/lib/api.ts",
		"src/pages/index.tsx",
		"src/App.tsx",
		"src/utils/format.ts",
		"src/api/users.ts",
	}
	got := SelectFiles(paths, 100)
	want := []string{
		"src/App.tsx",               // top-level source
		"src/pages/index.tsx",       // pages
		"src/components/Header.tsx", // components, ui subtree excluded
		"src/api/users.ts",          // api
		"src/hooks/useAuth.ts",      // hooks
		"src/lib/api.ts",            // lib
		"src/utils/format.ts",       // utils
		"src/components/ui/button.tsx", // catch-all sweep
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("SelectFiles order:\n got %v\nwant %v", got, want)
	}
}

func TestSelectFilesCap(t *testing.T) {
	var paths []string
	for i := 0; i < 300; i++ {
		paths = append(paths, "src/lib/file"+string(rune('a'+i%26))+".ts")
	}
	got := SelectFiles(paths, MaxScanFiles)
	if len(got) > MaxScanFiles {
		t.Fatalf("selected %d files, cap is %d", len(got), MaxScanFiles)
	}
	seen := make(map[string]bool)
	for _, p := range got {
		if seen[p] {
			t.Fatalf("duplicate selection: %s", p)
		}
		seen[p] = true
	}
}

func TestParseBatchOutputRoundTrip(t *testing.T) {
	start, end := "__S__", "__E__"
	out := strings.Join([]string{
		start,
		"src/App.tsx",
		"import React from 'react'",
		"export default function App() {}",
		"",
		end,
		start,
		"src/lib/api.ts",
		"export const api = 1",
		"",
		end,
		"",
	}, "\n")

	files, skipped := ParseBatchOutput(out, start, end)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skips: %v", skipped)
	}
	if len(files) != 2 {
		t.Fatalf("got %d files", len(files))
	}
	if files[0].Path != "src/App.tsx" {
		t.Fatalf("path = %q", files[0].Path)
	}
	if !strings.Contains(files[0].Content, "export default function App()") {
		t.Fatalf("content = %q", files[0].Content)
	}
	if files[1].Path != "src/lib/api.ts" || files[1].Content != "export const api = 1" {
		t.Fatalf("second pair = %+v", files[1])
	}
}

func TestParseBatchOutputSkipsUnreadable(t *testing.T) {
	start, end := "__S__", "__E__"
	out := start + "\nsrc/locked.ts\n" + unreadableSentinel + "\n\n" + end + "\n" +
		start + "\nsrc/ok.ts\nconst x = 1\n\n" + end + "\n"

	files, skipped := ParseBatchOutput(out, start, end)
	if len(files) != 1 || files[0].Path != "src/ok.ts" {
		t.Fatalf("files = %+v", files)
	}
	if len(skipped) != 1 || skipped[0] != "src/locked.ts" {
		t.Fatalf("skipped = %v", skipped)
	}
}

func TestParseBatchOutputTruncated(t *testing.T) {
	start, end := "__S__", "__E__"
	out := start + "\nsrc/ok.ts\nconst x = 1\n\n" + end + "\n" +
		start + "\nsrc/cut.ts\nconst y =" // batch killed mid-file

	files, _ := ParseBatchOutput(out, start, end)
	if len(files) != 1 || files[0].Path != "src/ok.ts" {
		t.Fatalf("truncated pair must be dropped, files = %+v", files)
	}
}

func TestBatchScanSingleCommand(t *testing.T) {
	sb := sandbox.NewFake("scan")
	sb.Handle("cat --", sandbox.ExecResult{Stdout: ""}, nil)

	tree := resolver.NewFileTree([]string{"src/App.tsx", "src/lib/api.ts"})
	_, _, err := BatchScan(context.Background(), sb, tree)
	if err != nil {
		t.Fatalf("BatchScan: %v", err)
	}
	if len(sb.Commands) != 1 {
		t.Fatalf("batch must be one remote invocation, got %d", len(sb.Commands))
	}
	cmd := sb.Commands[0]
	if !strings.Contains(cmd, "'src/App.tsx'") || !strings.Contains(cmd, "'src/lib/api.ts'") {
		t.Fatalf("command missing files: %s", cmd)
	}
	if !strings.Contains(cmd, unreadableSentinel) {
		t.Fatalf("command missing unreadable sentinel: %s", cmd)
	}
}

func TestListTreeBuildsIndex(t *testing.T) {
	sb := sandbox.NewFake("list")
	sb.Handle("find .", sandbox.ExecResult{Stdout: "src/App.tsx\nsrc/lib/api.ts\n"}, nil)

	tree, err := ListTree(context.Background(), sb)
	if err != nil {
		t.Fatalf("ListTree: %v", err)
	}
	if !tree.Has("src/App.tsx") || !tree.Has("src/lib/api.ts") {
		t.Fatalf("tree missing entries: %v", tree.Paths())
	}
	if tree.Has("src/other.ts") {
		t.Fatalf("phantom entry in tree")
	}
	cmd := sb.Commands[0]
	for _, dir := range excludedDirs {
		if !strings.Contains(cmd, dir) {
			t.Fatalf("enumeration does not exclude %s: %s", dir, cmd)
		}
	}
}

func TestListCommandExcludesNestedDirs(t *testing.T) {
	cmd := listCommand()
	for _, dir := range excludedDirs {
		// Depth-independent exclusion: a vendored tree inside a monorepo
		// package must not be enumerated either.
		want := "-not -path '*/" + dir + "/*'"
		if !strings.Contains(cmd, want) {
			t.Fatalf("missing %q in: %s", want, cmd)
		}
	}
}
