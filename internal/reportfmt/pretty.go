package reportfmt

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"

	"sift/internal/diag"
)

var (
	criticalColor = color.New(color.FgRed, color.Bold)
	highColor     = color.New(color.FgRed)
	mediumColor   = color.New(color.FgYellow)
	lowColor      = color.New(color.FgHiBlack)
	fileColor     = color.New(color.FgCyan)
	fixableColor  = color.New(color.FgGreen)
)

// Pretty writes a human-readable listing:
// <path>:<line>:<col>: <SEVERITY> <CODE>: <message>
// grouped by kind, followed by a one-line summary. Expects the report to
// be sorted already.
func Pretty(w io.Writer, report *diag.Report, opts PrettyOpts) {
	color.NoColor = !opts.Color

	if !opts.Quiet {
		prettyGroup(w, "build", report.BuildErrors, opts)
		prettyGroup(w, "imports", report.ImportErrors, opts)
		prettyGroup(w, "navigation", report.NavigationErrors, opts)
	}

	if report.TotalErrors == 0 {
		fmt.Fprintln(w, "no issues found")
		return
	}
	fixable := ""
	if report.AutoFixable {
		fixable = " (" + fixableColor.Sprint("auto-fixable") + ")"
	}
	fmt.Fprintf(w, "%d issue(s), severity %s%s\n",
		report.TotalErrors, severityColor(report.Severity).Sprint(report.Severity), fixable)
}

func prettyGroup(w io.Writer, title string, errs []diag.Error, opts PrettyOpts) {
	if len(errs) == 0 {
		return
	}
	fmt.Fprintf(w, "%s:\n", title)
	for _, e := range errs {
		loc := e.File
		if loc == "" {
			loc = "<project>"
		}
		if e.Line > 0 {
			loc = fmt.Sprintf("%s:%d:%d", loc, e.Line, e.Column)
		}
		fmt.Fprintf(w, "  %s: %s %s: %s\n",
			fileColor.Sprint(loc),
			severityColor(e.Severity).Sprint(e.Severity),
			e.Code, firstLine(e.Message))
		if opts.ShowDetails {
			prettyDetails(w, e)
		}
	}
	fmt.Fprintln(w)
}

func prettyDetails(w io.Writer, e diag.Error) {
	if e.ImportPath != "" {
		fmt.Fprintf(w, "      import: %s\n", e.ImportPath)
	}
	keys := make([]string, 0, len(e.Details))
	for k := range e.Details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		switch v := e.Details[k].(type) {
		case []string:
			for _, item := range v {
				fmt.Fprintf(w, "      %s: %s\n", k, item)
			}
		default:
			fmt.Fprintf(w, "      %s: %v\n", k, v)
		}
	}
}

func severityColor(s diag.Severity) *color.Color {
	switch s {
	case diag.SevCritical:
		return criticalColor
	case diag.SevHigh:
		return highColor
	case diag.SevMedium:
		return mediumColor
	default:
		return lowColor
	}
}

func firstLine(s string) string {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			return s[:i] + " …"
		}
	}
	return s
}
