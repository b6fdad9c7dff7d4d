package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sift/internal/diag"
	"sift/internal/reportfmt"
	"sift/internal/version"
)

type outputOptions struct {
	format    string
	color     bool
	quiet     bool
	details   bool
	maxErrors int
}

// readOutputOptions собирает общие флаги вывода analyze и scan.
func readOutputOptions(cmd *cobra.Command, format string, details bool) (outputOptions, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return outputOptions{}, err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return outputOptions{}, err
	}
	maxErrors, err := cmd.Root().PersistentFlags().GetInt("max-errors")
	if err != nil {
		return outputOptions{}, err
	}
	switch format {
	case "pretty", "json", "sarif":
		// supported
	default:
		return outputOptions{}, fmt.Errorf("unknown format: %s", format)
	}
	return outputOptions{
		format:    format,
		color:     colorFlag == "on" || (colorFlag == "auto" && isTerminal(os.Stdout)),
		quiet:     quiet,
		details:   details,
		maxErrors: maxErrors,
	}, nil
}

// renderReport prints the report in the requested format and returns the
// process exit code: 1 when the aggregate severity is HIGH or CRITICAL.
func renderReport(report *diag.Report, opts outputOptions) (int, error) {
	truncateReport(report, opts.maxErrors)

	switch opts.format {
	case "pretty":
		reportfmt.Pretty(os.Stdout, report, reportfmt.PrettyOpts{
			Color:       opts.color,
			ShowDetails: opts.details,
			Quiet:       opts.quiet,
		})
	case "json":
		if err := reportfmt.JSON(os.Stdout, report, reportfmt.JSONOpts{
			IncludeDetails: opts.details,
			Indent:         true,
		}); err != nil {
			return 0, fmt.Errorf("failed to format report: %w", err)
		}
	case "sarif":
		meta := reportfmt.SarifRunMeta{ToolName: "sift", ToolVersion: version.Number}
		if err := reportfmt.Sarif(os.Stdout, report, meta); err != nil {
			return 0, fmt.Errorf("failed to format report: %w", err)
		}
	}

	if report.Severity >= diag.SevHigh {
		return 1, nil
	}
	return 0, nil
}

// truncateReport caps the total number of displayed errors, trimming the
// lowest-priority group first. Derived fields are left as computed: the
// summary still reflects everything detected.
func truncateReport(report *diag.Report, maxErrors int) {
	if maxErrors <= 0 {
		return
	}
	remaining := maxErrors
	for _, seq := range []*[]diag.Error{&report.BuildErrors, &report.ImportErrors, &report.NavigationErrors} {
		if len(*seq) > remaining {
			*seq = (*seq)[:remaining]
		}
		remaining -= len(*seq)
	}
}

// silentExit makes cobra propagate a non-zero exit without reprinting
// anything: the report itself is the error message.
func silentExit(cmd *cobra.Command) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	return fmt.Errorf("")
}
