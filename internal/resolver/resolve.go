// Package resolver maps import specifiers to files in the project tree the
// way tsc's bundler resolution would, without running tsc: alias patterns
// from tsconfig first, then relative resolution against the origin file,
// probing a fixed extension list. It is deliberately not a package-manager
// resolver — bare specifiers are assumed to be installed dependencies and
// are out of scope.
package resolver

import (
	"context"
	"path"
	"strings"

	"sift/internal/sandbox"
	"sift/internal/tsconfig"
)

// ScriptExts is the extension probe order for source files.
var ScriptExts = []string{".ts", ".tsx", ".js", ".jsx"}

// indexExts is the probe order for directory-style index files, tried only
// for alias targets after the plain extensions miss.
var indexExts = []string{".ts", ".tsx"}

// assetExts are extensions the resolver refuses to treat as source: a
// missing stylesheet or image is never a module-resolution error here.
var assetExts = map[string]bool{
	".css": true, ".scss": true, ".sass": true, ".less": true,
	".svg": true, ".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".avif": true, ".ico": true,
	".woff": true, ".woff2": true, ".ttf": true, ".eot": true, ".otf": true,
}

// nodeBuiltins is the allow-list of node module names treated as already
// resolved, with or without the "node:" prefix.
var nodeBuiltins = map[string]bool{
	"assert": true, "buffer": true, "child_process": true, "crypto": true,
	"dns": true, "events": true, "fs": true, "http": true, "https": true,
	"net": true, "os": true, "path": true, "querystring": true,
	"readline": true, "stream": true, "tls": true, "url": true,
	"util": true, "worker_threads": true, "zlib": true,
}

// Resolution is the outcome of resolving one specifier. Candidates holds
// every path probed, in the exact order tried, whether or not anything
// resolved — the list feeds the unresolved-import diagnostics and the
// suggestion search.
type Resolution struct {
	Resolved   string
	Candidates []string
}

// Found reports whether the specifier mapped to an existing file.
func (r Resolution) Found() bool { return r.Resolved != "" }

// IsAsset reports whether the specifier names a stylesheet, image or font.
func IsAsset(spec string) bool {
	return assetExts[strings.ToLower(path.Ext(spec))]
}

// IsBuiltin reports whether the specifier names a node built-in module.
func IsBuiltin(spec string) bool {
	return nodeBuiltins[strings.TrimPrefix(spec, "node:")]
}

// IsRelative reports whether the specifier is relative to its origin file.
func IsRelative(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") || spec == "." || spec == ".."
}

// isAliasForm reports whether the specifier uses the alias sentinel. Note
// that a scoped package ("@radix-ui/react-slot") starts with '@' but not
// with '@/'; only the sentinel prefixes count.
func isAliasForm(spec string) bool {
	return strings.HasPrefix(spec, "@/") || strings.HasPrefix(spec, "~/")
}

// Resolve maps a specifier imported from originFile to a project file.
//
// Order, short-circuiting on first hit: node builtins (already resolved),
// assets (skipped), alias patterns from cfg in declaration order (tried
// only for sentinel-form specifiers), relative resolution. Bare specifiers
// resolve to nothing immediately, even when a non-sentinel tsconfig pattern
// would match them. Alias-form specifiers never fall through to relative
// resolution.
//
// Each probe is an O(1) membership check against tree when one is
// supplied; otherwise one remote read per candidate through reader
// (authoritative but a round trip each).
func Resolve(ctx context.Context, spec, originFile string, cfg *tsconfig.Config, tree *FileTree, reader sandbox.FileReader) Resolution {
	if spec == "" {
		return Resolution{}
	}
	if IsBuiltin(spec) {
		return Resolution{Resolved: spec}
	}
	if IsAsset(spec) {
		return Resolution{}
	}

	p := prober{ctx: ctx, tree: tree, reader: reader}

	if isAliasForm(spec) {
		if cfg != nil && len(cfg.Paths) > 0 {
			if res, matched := resolveAlias(&p, spec, cfg); matched {
				return res
			}
		}
		// Alias sentinel with no matching pattern: unresolvable, but
		// never retried as a relative path.
		return Resolution{}
	}
	if IsRelative(spec) {
		return resolveRelative(&p, spec, originFile)
	}
	// Bare specifier: an external package, not this engine's job.
	return Resolution{}
}

type prober struct {
	ctx        context.Context
	tree       *FileTree
	reader     sandbox.FileReader
	candidates []string
}

// probe records the candidate and tests it for existence.
func (p *prober) probe(candidate string) bool {
	candidate = normalizePath(candidate)
	p.candidates = append(p.candidates, candidate)
	if p.tree != nil {
		return p.tree.Has(candidate)
	}
	if p.reader != nil {
		_, err := p.reader.ReadFile(p.ctx, candidate)
		return err == nil
	}
	return false
}

func (p *prober) result(resolved string) Resolution {
	return Resolution{Resolved: resolved, Candidates: p.candidates}
}

// resolveAlias tries cfg's alias patterns in declaration order. The second
// return is false when no pattern matched the specifier at all.
func resolveAlias(p *prober, spec string, cfg *tsconfig.Config) (Resolution, bool) {
	matched := false
	for _, pattern := range cfg.PathOrder {
		capture, ok := matchPattern(pattern, spec)
		if !ok {
			continue
		}
		matched = true
		for _, repl := range cfg.Paths[pattern] {
			target := strings.Replace(repl, "*", capture, 1)
			target = joinBaseURL(cfg.BaseURL, target)
			for _, ext := range ScriptExts {
				if c := target + ext; p.probe(c) {
					return p.result(c), true
				}
			}
			for _, ext := range indexExts {
				if c := target + "/index" + ext; p.probe(c) {
					return p.result(c), true
				}
			}
		}
	}
	if !matched {
		return Resolution{}, false
	}
	return p.result(""), true
}

// matchPattern implements tsconfig path matching: a single '*' wildcard,
// anchored at both ends. A pattern without '*' must match exactly.
func matchPattern(pattern, spec string) (capture string, ok bool) {
	star := strings.IndexByte(pattern, '*')
	if star < 0 {
		return "", pattern == spec
	}
	prefix, suffix := pattern[:star], pattern[star+1:]
	if !strings.HasPrefix(spec, prefix) || !strings.HasSuffix(spec, suffix) {
		return "", false
	}
	if len(spec) < len(prefix)+len(suffix) {
		return "", false
	}
	return spec[len(prefix) : len(spec)-len(suffix)], true
}

// joinBaseURL composes a replacement path with the configured baseUrl,
// treating "." (and "") as "no prefix".
func joinBaseURL(baseURL, target string) string {
	if baseURL == "" || baseURL == "." || baseURL == "./" {
		return target
	}
	return path.Join(normalizePath(baseURL), target)
}

// resolveRelative computes the target directory by stripping one trailing
// segment of the origin file's directory per leading "../", appending the
// remaining specifier segments, and probing the extension list.
func resolveRelative(p *prober, spec, originFile string) Resolution {
	dir := path.Dir(normalizePath(originFile))
	if dir == "." {
		dir = ""
	}

	rest := spec
	rest = strings.TrimPrefix(rest, "./")
	for strings.HasPrefix(rest, "../") || rest == ".." {
		rest = strings.TrimPrefix(rest, "..")
		rest = strings.TrimPrefix(rest, "/")
		dir = parentDir(dir)
	}

	target := rest
	if dir != "" {
		if target == "" {
			target = dir
		} else {
			target = dir + "/" + target
		}
	}

	for _, ext := range ScriptExts {
		if c := target + ext; p.probe(c) {
			return p.result(c)
		}
	}
	return p.result("")
}

func parentDir(dir string) string {
	if dir == "" {
		return ""
	}
	if i := strings.LastIndexByte(dir, '/'); i >= 0 {
		return dir[:i]
	}
	return ""
}
