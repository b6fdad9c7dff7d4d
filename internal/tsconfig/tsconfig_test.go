package tsconfig

import (
	"context"
	"testing"
	"time"

	"sift/internal/sandbox"
)

const sampleManifest = `{
	// path aliases for the generated project
	"compilerOptions": {
		"baseUrl": ".",
		"paths": {
			"@/*": ["src/*"],
			"~/*": ["app/*"],
		},
	},
}`

func TestParseLenientJSON(t *testing.T) {
	cfg := Parse([]byte(sampleManifest))
	if cfg.BaseURL != "." {
		t.Fatalf("BaseURL = %q, want %q", cfg.BaseURL, ".")
	}
	if got := cfg.Paths["@/*"]; len(got) != 1 || got[0] != "src/*" {
		t.Fatalf("Paths[@/*] = %v", got)
	}
	if len(cfg.PathOrder) != 2 || cfg.PathOrder[0] != "@/*" || cfg.PathOrder[1] != "~/*" {
		t.Fatalf("PathOrder = %v, want declaration order", cfg.PathOrder)
	}
}

func TestParseMalformedYieldsEmpty(t *testing.T) {
	cfg := Parse([]byte(`{"compilerOptions": {`))
	if !cfg.Empty() {
		t.Fatalf("malformed manifest must parse to empty config, got %+v", cfg)
	}
}

func TestGetCachesWithinTTL(t *testing.T) {
	sb := sandbox.NewFake("alpha")
	sb.Files[ManifestPath] = sampleManifest

	clock := time.Unix(1000, 0)
	r := NewResolverWithClock(func() time.Time { return clock }, TTL)

	ctx := context.Background()
	first := r.Get(ctx, sb)
	if first.BaseURL != "." {
		t.Fatalf("unexpected config: %+v", first)
	}

	// Change the remote manifest; a fresh cache entry must be returned
	// verbatim with no second read.
	sb.Files[ManifestPath] = `{"compilerOptions": {"baseUrl": "other"}}`
	clock = clock.Add(TTL - time.Second)
	second := r.Get(ctx, sb)
	if second.BaseURL != "." {
		t.Fatalf("cache was bypassed inside TTL: %+v", second)
	}

	clock = clock.Add(2 * time.Second)
	third := r.Get(ctx, sb)
	if third.BaseURL != "other" {
		t.Fatalf("cache was not refreshed after TTL: %+v", third)
	}
}

func TestGetCachesMisses(t *testing.T) {
	sb := sandbox.NewFake("beta") // no manifest at all

	clock := time.Unix(1000, 0)
	r := NewResolverWithClock(func() time.Time { return clock }, TTL)

	ctx := context.Background()
	if cfg := r.Get(ctx, sb); !cfg.Empty() {
		t.Fatalf("want empty config for missing manifest, got %+v", cfg)
	}

	// A manifest appearing within the TTL is not picked up: the miss
	// itself is cached to avoid repeated failed lookups.
	sb.Files[ManifestPath] = sampleManifest
	if cfg := r.Get(ctx, sb); !cfg.Empty() {
		t.Fatalf("miss was not cached: %+v", cfg)
	}
}

func TestInvalidateDropsEntry(t *testing.T) {
	sb := sandbox.NewFake("gamma")
	clock := time.Unix(1000, 0)
	r := NewResolverWithClock(func() time.Time { return clock }, TTL)
	ctx := context.Background()

	_ = r.Get(ctx, sb) // cache the miss
	sb.Files[ManifestPath] = sampleManifest
	r.Invalidate(sb.ID())

	if cfg := r.Get(ctx, sb); cfg.Empty() {
		t.Fatalf("invalidate did not force a refetch")
	}
}

func TestGetNilSandbox(t *testing.T) {
	r := NewResolver()
	if cfg := r.Get(context.Background(), nil); !cfg.Empty() {
		t.Fatalf("nil sandbox must yield empty config")
	}
}
