// Package tsconfig loads the module-resolution slice of a project's
// tsconfig.json: baseUrl and the path alias table. Nothing else from the
// manifest matters to the resolver, so nothing else is parsed.
package tsconfig

import (
	"bytes"
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/tidwall/jsonc"

	"sift/internal/sandbox"
)

// TTL is how long a cached config (including a cached miss) stays fresh.
const TTL = 300_000 * time.Millisecond

// ManifestPath is where the manifest lives relative to the project root.
const ManifestPath = "tsconfig.json"

// Config is the module-resolution configuration extracted from a
// tsconfig.json. The zero value is the empty config: no base URL, no
// aliases. Absence of a manifest is a valid steady state, not an error.
type Config struct {
	BaseURL string
	// Paths maps an alias pattern ("@/*") to its replacement list
	// ("src/*", ...), in declaration order of each list.
	Paths map[string][]string
	// PathOrder preserves the declaration order of the alias patterns so
	// matching is deterministic (JSON object order is not retained by
	// encoding/json maps).
	PathOrder []string
}

// Empty reports whether the config carries no resolution information.
func (c *Config) Empty() bool {
	return c == nil || (c.BaseURL == "" && len(c.Paths) == 0)
}

// manifest mirrors only the fields we extract.
type manifest struct {
	CompilerOptions struct {
		BaseURL string                     `json:"baseUrl"`
		Paths   map[string]json.RawMessage `json:"paths"`
	} `json:"compilerOptions"`
}

type entry struct {
	cfg       *Config
	fetchedAt time.Time
}

// Resolver loads and caches one Config per sandbox. It is explicitly owned
// and dependency-injected: the clock is swappable so TTL behavior is unit
// testable, and Invalidate gives callers deterministic cache control.
type Resolver struct {
	mu    sync.Mutex
	cache map[string]entry
	now   func() time.Time
	ttl   time.Duration
}

// NewResolver creates a Resolver with the production clock and TTL.
func NewResolver() *Resolver {
	return NewResolverWithClock(time.Now, TTL)
}

// NewResolverWithClock creates a Resolver with an injectable clock, for tests.
func NewResolverWithClock(now func() time.Time, ttl time.Duration) *Resolver {
	return &Resolver{
		cache: make(map[string]entry),
		now:   now,
		ttl:   ttl,
	}
}

// Get returns the module-resolution config for the sandbox. A fresh cache
// entry is returned verbatim (even if empty) with no remote call. On a
// stale or missing entry it issues exactly one remote read; any read or
// parse failure yields — and caches — the empty config. Get never fails.
func (r *Resolver) Get(ctx context.Context, sb sandbox.Sandbox) *Config {
	if sb == nil {
		return &Config{}
	}
	key := sb.ID()

	r.mu.Lock()
	if e, ok := r.cache[key]; ok && r.now().Sub(e.fetchedAt) < r.ttl {
		r.mu.Unlock()
		return e.cfg
	}
	r.mu.Unlock()

	cfg := r.fetch(ctx, sb)

	// A concurrent refresh may have written first; overwriting wholesale
	// is benign because both results are structurally equivalent.
	r.mu.Lock()
	r.cache[key] = entry{cfg: cfg, fetchedAt: r.now()}
	r.mu.Unlock()
	return cfg
}

// Invalidate drops the cached entry for one sandbox.
func (r *Resolver) Invalidate(sandboxID string) {
	r.mu.Lock()
	delete(r.cache, sandboxID)
	r.mu.Unlock()
}

func (r *Resolver) fetch(ctx context.Context, sb sandbox.Sandbox) *Config {
	raw, err := sb.ReadFile(ctx, ManifestPath)
	if err != nil {
		return &Config{}
	}
	return Parse([]byte(raw))
}

// Parse extracts baseUrl and paths from tsconfig JSON. tsconfig allows //
// comments and trailing commas, so the input is run through jsonc first.
// A malformed manifest parses to the empty config.
func Parse(data []byte) *Config {
	stripped := jsonc.ToJSON(data)

	var m manifest
	if err := json.Unmarshal(stripped, &m); err != nil {
		return &Config{}
	}
	cfg := &Config{BaseURL: m.CompilerOptions.BaseURL}
	if len(m.CompilerOptions.Paths) == 0 {
		return cfg
	}
	cfg.Paths = make(map[string][]string, len(m.CompilerOptions.Paths))
	for pattern, raw := range m.CompilerOptions.Paths {
		var repls []string
		if err := json.Unmarshal(raw, &repls); err != nil {
			continue
		}
		cfg.Paths[pattern] = repls
	}
	cfg.PathOrder = patternOrder(stripped, cfg.Paths)
	return cfg
}

// patternOrder recovers the textual declaration order of alias patterns by
// locating each quoted pattern in the stripped JSON. Patterns that cannot
// be located fall to the end in lexicographic order.
func patternOrder(data []byte, paths map[string][]string) []string {
	type pos struct {
		pattern string
		offset  int
	}
	located := make([]pos, 0, len(paths))
	for pattern := range paths {
		off := indexQuoted(data, pattern)
		located = append(located, pos{pattern: pattern, offset: off})
	}
	// Stable order: by offset, unlocated (-1) patterns last by name.
	for i := 1; i < len(located); i++ {
		for j := i; j > 0; j-- {
			a, b := located[j-1], located[j]
			swap := false
			switch {
			case a.offset < 0 && b.offset >= 0:
				swap = true
			case a.offset >= 0 && b.offset >= 0 && b.offset < a.offset:
				swap = true
			case a.offset < 0 && b.offset < 0 && b.pattern < a.pattern:
				swap = true
			}
			if !swap {
				break
			}
			located[j-1], located[j] = located[j], located[j-1]
		}
	}
	order := make([]string, len(located))
	for i, p := range located {
		order[i] = p.pattern
	}
	return order
}

func indexQuoted(data []byte, s string) int {
	return bytes.Index(data, []byte(`"`+s+`"`))
}
