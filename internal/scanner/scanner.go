// Package scanner minimizes round trips to the remote, latency-expensive
// project filesystem. It issues exactly two commands per analysis run: one
// cheap enumeration of every source-like path (what exists), and one
// batched read of up to MaxScanFiles prioritized files (what to deeply
// analyze). The batch is a single shell invocation whose sequential
// execution guarantees deterministic, order-preserving output bracketed by
// per-run delimiter tokens.
package scanner

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"sift/internal/resolver"
	"sift/internal/sandbox"
)

const (
	// MaxScanFiles caps how many files one batch reads in full.
	MaxScanFiles = 100

	// ListTimeout bounds the names-only enumeration.
	ListTimeout = 10 * time.Second
	// BatchTimeout bounds the batched content read.
	BatchTimeout = 30 * time.Second
	// CompilerTimeout bounds a full compiler run.
	CompilerTimeout = 60 * time.Second
)

// unreadableSentinel marks a file the remote shell could not read. The
// pair is skipped with a warning instead of failing the whole batch.
const unreadableSentinel = "__SIFT_UNREADABLE__"

// excludedDirs are never enumerated: generated or vendored trees that
// would drown the scan.
var excludedDirs = []string{"node_modules", ".next", ".git", "dist", "build", ".vercel"}

// File is one (path, content) pair recovered from a batch.
type File struct {
	Path    string
	Content string
}

// ListTree enumerates all source-like file paths (names only, no content)
// in a single command and returns them as a membership index for the
// resolver.
func ListTree(ctx context.Context, exec sandbox.Executor) (*resolver.FileTree, error) {
	ctx, cancel := context.WithTimeout(ctx, ListTimeout)
	defer cancel()

	res, err := exec.Exec(ctx, listCommand())
	if err != nil {
		return nil, fmt.Errorf("scanner: list tree: %w", err)
	}
	if res.ExitCode != 0 {
		return nil, fmt.Errorf("scanner: list tree: exit %d: %s", res.ExitCode, strings.TrimSpace(res.Stderr))
	}

	var paths []string
	for _, line := range strings.Split(res.Stdout, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			paths = append(paths, line)
		}
	}
	return resolver.NewFileTree(paths), nil
}

func listCommand() string {
	var b strings.Builder
	b.WriteString("find . -type f \\( -name '*.ts' -o -name '*.tsx' -o -name '*.js' -o -name '*.jsx' \\)")
	// '*/dir/*' catches the excluded trees at any depth, e.g. a nested
	// packages/app/node_modules in a monorepo.
	for _, dir := range excludedDirs {
		fmt.Fprintf(&b, " -not -path '*/%s/*'", dir)
	}
	b.WriteString(" | sed 's|^\\./||'")
	return b.String()
}

// BatchScan reads the contents of up to MaxScanFiles files from the tree
// in one remote invocation. It returns the recovered (path, content)
// pairs in selection order plus the paths that were skipped as unreadable.
func BatchScan(ctx context.Context, exec sandbox.Executor, tree *resolver.FileTree) ([]File, []string, error) {
	selected := SelectFiles(tree.Paths(), MaxScanFiles)
	if len(selected) == 0 {
		return nil, nil, nil
	}

	startTok, endTok := delimiterTokens()

	ctx, cancel := context.WithTimeout(ctx, BatchTimeout)
	defer cancel()

	res, err := exec.Exec(ctx, batchCommand(selected, startTok, endTok))
	if err != nil {
		return nil, nil, fmt.Errorf("scanner: batch scan: %w", err)
	}
	files, skipped := ParseBatchOutput(res.Stdout, startTok, endTok)
	return files, skipped, nil
}

// SelectFiles picks up to max paths in analysis priority order: top-level
// source first, then the conventional directories, then a catch-all sweep
// of everything left. Input order within a bucket is preserved (the tree
// is sorted, so selection is deterministic). The generated UI-library
// subtree under components/ui is skipped by the components bucket and
// only reachable through the final sweep.
func SelectFiles(paths []string, max int) []string {
	buckets := []func(string) bool{
		isTopLevelSource,
		bucketDir("pages", "app"),
		isHandwrittenComponent,
		bucketDir("api", "routes"),
		bucketDir("hooks"),
		bucketDir("lib"),
		bucketDir("utils"),
	}

	selected := make([]string, 0, max)
	taken := make(map[string]bool, max)
	take := func(p string) bool {
		if taken[p] {
			return true
		}
		if len(selected) >= max {
			return false
		}
		taken[p] = true
		selected = append(selected, p)
		return true
	}

	for _, match := range buckets {
		for _, p := range paths {
			if !match(p) {
				continue
			}
			if !take(p) {
				return selected
			}
		}
	}
	for _, p := range paths {
		if !take(p) {
			break
		}
	}
	return selected
}

func isTopLevelSource(p string) bool {
	rel := strings.TrimPrefix(p, "src/")
	return !strings.Contains(rel, "/")
}

func isHandwrittenComponent(p string) bool {
	if !hasSegment(p, "components") {
		return false
	}
	return !strings.Contains(p, "components/ui/")
}

func bucketDir(names ...string) func(string) bool {
	return func(p string) bool {
		for _, name := range names {
			if hasSegment(p, name) {
				return true
			}
		}
		return false
	}
}

// hasSegment reports whether name appears as a whole path segment.
func hasSegment(p, name string) bool {
	for _, seg := range strings.Split(p, "/") {
		if seg == name {
			return true
		}
	}
	return false
}

// batchCommand builds the single shell invocation: per file a start token,
// the path, the content (or the unreadable sentinel), and an end token.
// The remote shell runs the segments sequentially, so output order matches
// selection order.
func batchCommand(paths []string, startTok, endTok string) string {
	var b strings.Builder
	for _, p := range paths {
		q := shellQuote(p)
		fmt.Fprintf(&b, "printf '%%s\\n' %s; ", shellQuote(startTok))
		fmt.Fprintf(&b, "printf '%%s\\n' %s; ", q)
		fmt.Fprintf(&b, "cat -- %s 2>/dev/null || printf '%%s\\n' %s; ", q, shellQuote(unreadableSentinel))
		fmt.Fprintf(&b, "printf '\\n%%s\\n' %s; ", shellQuote(endTok))
	}
	return strings.TrimSuffix(b.String(), " ")
}

// ParseBatchOutput recovers (path, content) pairs by splitting the
// combined output on the start token, then on the end token. Pairs whose
// content is the unreadable sentinel are reported in skipped.
func ParseBatchOutput(out, startTok, endTok string) (files []File, skipped []string) {
	chunks := strings.Split(out, startTok)
	for _, chunk := range chunks[1:] {
		body, _, ok := strings.Cut(chunk, endTok)
		if !ok {
			continue // truncated output, e.g. the batch hit its timeout
		}
		body = strings.TrimPrefix(body, "\n")
		pathLine, content, ok := strings.Cut(body, "\n")
		if !ok {
			continue
		}
		path := strings.TrimSpace(pathLine)
		if path == "" {
			continue
		}
		// The command always appends one newline before the end token so
		// the token sits on its own line even for unterminated files.
		content = strings.TrimSuffix(content, "\n")
		if strings.TrimSpace(content) == unreadableSentinel {
			skipped = append(skipped, path)
			continue
		}
		files = append(files, File{Path: path, Content: content})
	}
	return files, skipped
}

// delimiterTokens returns the per-run unique start/end markers. Uniqueness
// keeps project text from ever colliding with the framing.
func delimiterTokens() (string, string) {
	var buf [4]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Degrade to a fixed suffix; the tokens stay improbable in source.
		return "__SIFT_START_STATIC__", "__SIFT_END_STATIC__"
	}
	suffix := hex.EncodeToString(buf[:])
	return "__SIFT_START_" + suffix + "__", "__SIFT_END_" + suffix + "__"
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
