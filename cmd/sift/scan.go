package main

import (
	"fmt"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"

	"sift/internal/analyze"
	"sift/internal/diag"
	"sift/internal/sandbox"
	"sift/internal/scanner"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [directory]",
	Short: "Run the full hybrid analysis against a project",
	Long:  `Run the hybrid analysis: the project's own compiler for build errors plus a batched scan of the source tree for import errors. Falls back to fragment analysis when the project toolchain is unavailable.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	scanCmd.Flags().Bool("details", false, "include candidate paths and suggestions in output")
	scanCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	scanCmd.Flags().Bool("cache", false, "reuse the last report when the project tree is unchanged")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return fmt.Errorf("failed to get details flag: %w", err)
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("cache")
	if err != nil {
		return fmt.Errorf("failed to get cache flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts, err := readOutputOptions(cmd, format, details)
	if err != nil {
		return err
	}
	useTUI, err := wantProgressUI(uiValue)
	if err != nil {
		return err
	}

	startDir := "."
	if len(args) == 1 {
		startDir = args[0]
	}

	root := startDir
	var exclude []string
	if manifest, found, err := loadProjectManifest(startDir); err != nil {
		return err
	} else if found {
		root = manifest.Root
		exclude = manifest.Config.Analyze.Exclude
	}

	sb := sandbox.NewLocal(root)

	// Фрагментные файлы нужны гибридному анализу для навигации и как
	// запасной путь при деградации
	files, err := collectFragmentFiles([]string{root}, root, exclude)
	if err != nil {
		return err
	}

	analyzer := analyze.New()
	if showTimings {
		analyzer.Timer = analyze.NewTimer()
	}

	var cache *analyze.ReportCache
	var digest analyze.Digest
	if useCache {
		cache, err = analyze.OpenReportCache("sift")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: report cache unavailable: %v\n", err)
		} else if tree, err := scanner.ListTree(cmd.Context(), sb); err == nil {
			digest = analyze.TreeDigest(tree.Paths())
			if cached, ok := cache.Get(sb.ID(), digest); ok {
				return finishScan(cmd, cached, opts, analyzer, showTimings)
			}
		}
	}

	var result scanResult
	if useTUI && opts.format == "pretty" {
		result, err = runScanWithUI(cmd.Context(), "scanning "+root, analyzer, files, sb)
		if err != nil {
			return err
		}
	} else {
		stop := startPlainSpinner(opts)
		result.report, result.degraded = analyzer.AnalyzeProject(cmd.Context(), files, sb)
		stop()
	}

	// Кэшируем только полный гибридный результат: деградировавший отчёт
	// без диагностик компилятора закрепил бы пропуски до смены дерева
	if cache != nil && !result.degraded && digest != (analyze.Digest{}) {
		if err := cache.Put(sb.ID(), digest, result.report); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to store report cache: %v\n", err)
		}
	}

	return finishScan(cmd, result.report, opts, analyzer, showTimings)
}

func finishScan(cmd *cobra.Command, report *diag.Report, opts outputOptions, analyzer *analyze.Analyzer, showTimings bool) error {
	exitCode, err := renderReport(report, opts)
	if err != nil {
		return err
	}
	if showTimings {
		fmt.Fprint(os.Stderr, analyzer.Timer.Summary())
	}
	if exitCode != 0 {
		return silentExit(cmd)
	}
	return nil
}

// wantProgressUI interprets the --ui flag: "on" and "off" force the
// choice, "auto" (the default) follows whether stdout is a terminal.
func wantProgressUI(value string) (bool, error) {
	switch value {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(os.Stdout), nil
	}
	return false, fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
}

// startPlainSpinner shows a terminal spinner while the scan runs without
// the full TUI. Returns a stop function; a no-op off a TTY or in quiet mode.
func startPlainSpinner(opts outputOptions) func() {
	if opts.quiet || !isTerminal(os.Stdout) {
		return func() {}
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " scanning project..."
	s.Start()
	return s.Stop
}
