// Package reportfmt renders an analysis report for humans (pretty), for
// tooling (json) and for code-scanning integrations (sarif).
package reportfmt

// PrettyOpts configures pretty-printing of a report.
type PrettyOpts struct {
	Color       bool
	ShowDetails bool // candidate lists, suggestions, ts codes
	Quiet       bool // summary line only
}

// JSONOpts configures JSON output of a report.
type JSONOpts struct {
	IncludeDetails bool
	Indent         bool
}
