package analyze

import (
	"context"
	"errors"
	"testing"
	"time"

	"sift/internal/diag"
	"sift/internal/sandbox"
	"sift/internal/tsconfig"
)

func testAnalyzer() *Analyzer {
	a := NewWithClock(tsconfig.NewResolver(), func() time.Time { return time.Unix(1700000000, 0) })
	a.Warnf = func(string, ...any) {}
	return a
}

func fragmentFiles() map[string]string {
	return map[string]string{
		"src/App.tsx": "// @ts-ignore\nfunction App() { return <a href=\"/about\">x</a> }\n",
		"src/lib.ts":  "import { db } from '@/lib/db'\n",
	}
}

func TestAnalyzeFragmentPopulatesAllKinds(t *testing.T) {
	a := testAnalyzer()
	report := a.AnalyzeFragment(context.Background(), fragmentFiles())

	if len(report.BuildErrors) == 0 {
		t.Fatalf("expected build heuristic findings")
	}
	if len(report.ImportErrors) == 0 {
		t.Fatalf("expected import findings (known-missing module + missing export)")
	}
	if len(report.NavigationErrors) == 0 {
		t.Fatalf("expected navigation findings")
	}
	if len(report.RuntimeErrors) != 0 {
		t.Fatalf("runtime errors must never be populated here")
	}
	want := len(report.BuildErrors) + len(report.ImportErrors) + len(report.NavigationErrors)
	if report.TotalErrors != want {
		t.Fatalf("TotalErrors = %d, want %d", report.TotalErrors, want)
	}
	if report.DetectedAt != time.Unix(1700000000, 0) {
		t.Fatalf("DetectedAt not taken from injected clock: %v", report.DetectedAt)
	}
}

func TestAnalyzeFragmentDeterministic(t *testing.T) {
	a := testAnalyzer()
	first := a.AnalyzeFragment(context.Background(), fragmentFiles())
	for i := 0; i < 5; i++ {
		again := a.AnalyzeFragment(context.Background(), fragmentFiles())
		if again.TotalErrors != first.TotalErrors {
			t.Fatalf("run %d: TotalErrors %d != %d", i, again.TotalErrors, first.TotalErrors)
		}
		for j := range first.ImportErrors {
			if again.ImportErrors[j].ID != first.ImportErrors[j].ID {
				t.Fatalf("run %d: import error order changed", i)
			}
		}
	}
}

func TestAnalyzeProjectHybrid(t *testing.T) {
	sb := sandbox.NewFake("hybrid")
	sb.Files["tsconfig.json"] = `{"compilerOptions":{"baseUrl":".","paths":{"@/*":["src/*"]}}}`
	sb.Handle("npx tsc", sandbox.ExecResult{
		ExitCode: 2,
		Stdout:   "src/App.tsx(10,5): error TS2307: Cannot find module './Foo'\n",
	}, nil)
	sb.Handle("find .", sandbox.ExecResult{Stdout: "src/App.tsx\n"}, nil)
	sb.Handle("cat --", sandbox.ExecResult{Stdout: ""}, nil)

	a := testAnalyzer()
	report, degraded := a.AnalyzeProject(context.Background(), nil, sb)

	if degraded {
		t.Fatalf("healthy hybrid run reported as degraded")
	}
	if len(report.BuildErrors) != 1 {
		t.Fatalf("build errors = %+v", report.BuildErrors)
	}
	e := report.BuildErrors[0]
	if e.Severity != diag.SevCritical || !e.AutoFixable {
		t.Fatalf("compiler diagnostic not classified: %+v", e)
	}
	if report.Severity != diag.SevCritical {
		t.Fatalf("aggregate severity = %s", report.Severity)
	}
}

func TestAnalyzeProjectFallsBackOnRemoteFailure(t *testing.T) {
	sb := sandbox.NewFake("broken")
	sb.ExecErr = errors.New("connection reset")

	a := testAnalyzer()
	report, degraded := a.AnalyzeProject(context.Background(), fragmentFiles(), sb)
	if report == nil {
		t.Fatalf("hybrid analysis returned nil report")
	}
	if !degraded {
		t.Fatalf("fallback run not flagged as degraded")
	}
	// Fallback output is the fragment analysis of the supplied files.
	if len(report.ImportErrors) == 0 || len(report.NavigationErrors) == 0 {
		t.Fatalf("fallback did not run fragment analysis: %+v", report)
	}
	want := len(report.BuildErrors) + len(report.ImportErrors) + len(report.NavigationErrors)
	if report.TotalErrors != want {
		t.Fatalf("degraded report broke the totals invariant")
	}
}

func TestAnalyzeProjectNilSandbox(t *testing.T) {
	a := testAnalyzer()
	report, degraded := a.AnalyzeProject(context.Background(), fragmentFiles(), nil)
	if report == nil || report.TotalErrors == 0 {
		t.Fatalf("nil sandbox must degrade to fragment analysis")
	}
	if !degraded {
		t.Fatalf("nil-sandbox run not flagged as degraded")
	}
}

func TestAnalyzeEmptyFragmentIsLow(t *testing.T) {
	a := testAnalyzer()
	report := a.AnalyzeFragment(context.Background(), nil)
	if report.TotalErrors != 0 || report.Severity != diag.SevLow || report.AutoFixable {
		t.Fatalf("empty report invariants violated: %+v", report)
	}
}

func TestReportCacheRoundTrip(t *testing.T) {
	cache, err := OpenReportCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	digest := TreeDigest([]string{"src/App.tsx", "src/lib.ts"})

	report := diag.NewReport(time.Unix(42, 0))
	report.Add(diag.New(diag.KindImport, diag.ImpUnresolved, diag.SevHigh, "src/App.tsx", "m").Fixable())

	if err := cache.Put("fake:hybrid", digest, report); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok := cache.Get("fake:hybrid", digest)
	if !ok {
		t.Fatalf("Get missed after Put")
	}
	if got.TotalErrors != 1 || got.Severity != diag.SevHigh || !got.AutoFixable {
		t.Fatalf("cached report mangled: %+v", got)
	}

	// A changed tree invalidates the entry.
	other := TreeDigest([]string{"src/App.tsx"})
	if _, ok := cache.Get("fake:hybrid", other); ok {
		t.Fatalf("stale entry served for a different tree digest")
	}
	// So does an unknown sandbox.
	if _, ok := cache.Get("fake:other", digest); ok {
		t.Fatalf("entry served for a different sandbox")
	}
}

func TestReportCacheSkipsDegradedResults(t *testing.T) {
	cache, err := OpenReportCacheAt(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	digest := TreeDigest([]string{"src/App.tsx", "src/lib.ts"})

	// Tree enumeration succeeds, then the remote dies: the hybrid pass
	// falls back to fragment analysis and must say so, because a cached
	// fallback report would shadow compiler diagnostics until the tree
	// changes.
	sb := sandbox.NewFake("flaky")
	sb.ExecErr = errors.New("connection reset")

	a := testAnalyzer()
	report, degraded := a.AnalyzeProject(context.Background(), fragmentFiles(), sb)
	if report == nil {
		t.Fatalf("no report from the fallback")
	}
	if !degraded {
		t.Fatalf("degradation not reported, a caller would cache the fallback")
	}

	// A caller honoring the flag skips Put, so the tree stays uncached.
	if _, ok := cache.Get(sb.ID(), digest); ok {
		t.Fatalf("degraded report found in the cache")
	}
}
