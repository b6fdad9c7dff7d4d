// Package analyze orchestrates the detectors. It owns the two public
// entry points of the engine: a fast fragment-only pass over in-memory
// files, and a hybrid pass that additionally runs the real compiler and
// the batched remote scan. Both always return a complete Report — on any
// unexpected failure the hybrid pass degrades to the fragment pass rather
// than surfacing an error.
package analyze

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"sift/internal/detect"
	"sift/internal/diag"
	"sift/internal/sandbox"
	"sift/internal/scanner"
	"sift/internal/tsconfig"
)

// compileCommand runs the project's own compiler for authoritative build
// diagnostics. stderr is folded into stdout: tsc splits its output
// between the two depending on version.
const compileCommand = "npx tsc --noEmit --pretty false 2>&1"

// Analyzer coordinates detectors against one sandbox at a time. All
// collaborators are injected; the zero value is not usable, construct
// with New.
type Analyzer struct {
	configs *tsconfig.Resolver
	now     func() time.Time

	// Events receives progress notifications; may be nil.
	Events EventSink
	// Timer records phase durations when set.
	Timer *Timer
	// Warnf logs degradations (skipped files, failed legs); defaults to
	// stderr.
	Warnf func(format string, args ...any)
}

// New creates an Analyzer with the production clock and a fresh config
// cache.
func New() *Analyzer {
	return NewWithClock(tsconfig.NewResolver(), time.Now)
}

// NewWithClock injects the config resolver and clock, for tests.
func NewWithClock(configs *tsconfig.Resolver, now func() time.Time) *Analyzer {
	return &Analyzer{
		configs: configs,
		now:     now,
		Warnf: func(format string, args ...any) {
			fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
		},
	}
}

// InvalidateSandbox drops cached state for one sandbox identity.
func (a *Analyzer) InvalidateSandbox(sandboxID string) {
	a.configs.Invalidate(sandboxID)
}

// AnalyzeFragment inspects only the given in-memory files: build
// heuristics, fragment-mode import rules, missing exports and navigation,
// fanned out concurrently. It never touches a sandbox.
func (a *Analyzer) AnalyzeFragment(ctx context.Context, files map[string]string) *diag.Report {
	idx := a.Timer.Begin("fragment")
	defer a.Timer.End(idx)
	paths := sortedKeys(files)

	var (
		buildErrs, importErrs, exportErrs, navErrs []diag.Error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for _, p := range paths {
			buildErrs = append(buildErrs, detect.BuildHeuristics(p, files[p])...)
		}
		return nil
	})
	g.Go(func() error {
		for _, p := range paths {
			importErrs = append(importErrs, detect.Imports(gctx, p, files[p], detect.ImportOptions{})...)
		}
		return nil
	})
	g.Go(func() error {
		for _, p := range paths {
			exportErrs = append(exportErrs, detect.MissingExport(p, files[p])...)
		}
		return nil
	})
	g.Go(func() error {
		for _, p := range paths {
			navErrs = append(navErrs, detect.Navigation(p, files[p])...)
		}
		return nil
	})
	_ = g.Wait() // detectors are total functions; no errors to collect

	report := diag.NewReport(a.now())
	report.Add(buildErrs...)
	report.Add(importErrs...)
	report.Add(exportErrs...)
	report.Add(navErrs...)
	report.Dedup()
	report.Sort()
	return report
}

// AnalyzeProject runs the hybrid analysis: the real compiler for build
// errors and the batched remote scan for import errors, in parallel,
// plus navigation over the supplied fragment files. Any leg failure —
// remote timeout, malformed output, panic — degrades to AnalyzeFragment;
// a Report is always returned. The degraded flag tells callers the report
// came from the fragment fallback and misses compiler diagnostics, so it
// must not be persisted as the project's hybrid result.
func (a *Analyzer) AnalyzeProject(ctx context.Context, files map[string]string, sb sandbox.Sandbox) (report *diag.Report, degraded bool) {
	defer func() {
		if r := recover(); r != nil {
			a.warnf("hybrid analysis panicked (%v), falling back to fragment analysis", r)
			report, degraded = a.AnalyzeFragment(ctx, files), true
		}
	}()
	if sb == nil {
		return a.AnalyzeFragment(ctx, files), true
	}

	var (
		mu         sync.Mutex
		buildErrs  []diag.Error
		importErrs []diag.Error
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		idx := a.Timer.Begin("compile")
		defer a.Timer.End(idx)
		a.emit(Event{Stage: StageCompile})

		cctx, cancel := context.WithTimeout(gctx, scanner.CompilerTimeout)
		defer cancel()
		res, err := sb.Exec(cctx, compileCommand)
		if err != nil {
			return fmt.Errorf("compiler run: %w", err)
		}
		errs := detect.CompilerOutput(res.Stdout)
		mu.Lock()
		buildErrs = errs
		mu.Unlock()
		return nil
	})

	g.Go(func() error {
		idx := a.Timer.Begin("scan")
		defer a.Timer.End(idx)
		a.emit(Event{Stage: StageList})

		tree, err := scanner.ListTree(gctx, sb)
		if err != nil {
			return fmt.Errorf("tree enumeration: %w", err)
		}
		cfg := a.configs.Get(gctx, sb)

		a.emit(Event{Stage: StageScan})
		scanned, skipped, err := scanner.BatchScan(gctx, sb, tree)
		if err != nil {
			return fmt.Errorf("batch scan: %w", err)
		}
		for _, p := range skipped {
			a.warnf("unreadable during batch scan, skipped: %s", p)
		}

		opts := detect.ImportOptions{Config: cfg, Tree: tree}
		var errs []diag.Error
		for _, f := range scanned {
			a.emit(Event{Stage: StageDetect, Path: f.Path})
			errs = append(errs, detect.Imports(gctx, f.Path, f.Content, opts)...)
			errs = append(errs, detect.MissingExport(f.Path, f.Content)...)
		}
		mu.Lock()
		importErrs = errs
		mu.Unlock()
		return nil
	})

	if err := g.Wait(); err != nil {
		a.warnf("hybrid analysis degraded (%v), falling back to fragment analysis", err)
		return a.AnalyzeFragment(ctx, files), true
	}

	report = diag.NewReport(a.now())
	report.Add(buildErrs...)
	report.Add(importErrs...)
	for _, p := range sortedKeys(files) {
		report.Add(detect.Navigation(p, files[p])...)
	}
	report.Dedup()
	report.Sort()
	a.emit(Event{Stage: StageDone})
	return report, false
}

func (a *Analyzer) emit(ev Event) {
	if a.Events != nil {
		a.Events(ev)
	}
}

func (a *Analyzer) warnf(format string, args ...any) {
	if a.Warnf != nil {
		a.Warnf(format, args...)
	}
}

func sortedKeys(files map[string]string) []string {
	keys := make([]string, 0, len(files))
	for k := range files {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
