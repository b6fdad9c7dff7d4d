package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/analyze"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] <file|directory>...",
	Short: "Analyze local files without touching a sandbox",
	Long:  `Run the fragment-only analysis over local source files: build heuristics, import rules, missing exports and navigation checks. No compiler, no remote calls.`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().String("format", "pretty", "output format (pretty|json|sarif)")
	analyzeCmd.Flags().Bool("details", false, "include candidate paths and suggestions in output")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	details, err := cmd.Flags().GetBool("details")
	if err != nil {
		return fmt.Errorf("failed to get details flag: %w", err)
	}
	opts, err := readOutputOptions(cmd, format, details)
	if err != nil {
		return err
	}

	// sift.toml настраивает базовую директорию и исключения; его отсутствие
	// ничего не меняет
	baseDir := "."
	var exclude []string
	if manifest, found, err := loadProjectManifest("."); err != nil {
		return err
	} else if found {
		baseDir = manifest.Root
		exclude = manifest.Config.Analyze.Exclude
	}

	files, err := collectFragmentFiles(args, baseDir, exclude)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "no source files found")
		return nil
	}

	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}

	analyzer := analyze.New()
	if showTimings {
		analyzer.Timer = analyze.NewTimer()
	}

	report := analyzer.AnalyzeFragment(cmd.Context(), files)

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
