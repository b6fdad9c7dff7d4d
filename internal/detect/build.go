// Package detect holds the error detectors. Each detector is a pure
// function over file text (or compiler output) returning diag errors; none
// mutate shared state, so the orchestrator fans them out concurrently.
package detect

import (
	"regexp"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"sift/internal/diag"
)

// tscLineRE matches one tsc diagnostic header:
// src/App.tsx(10,5): error TS2307: Cannot find module './Foo'
var tscLineRE = regexp.MustCompile(`^(.+?)\((\d+),(\d+)\): error (TS\d+): (.*)$`)

// Severity classes for compiler codes. Codes absent from both tables are
// MEDIUM: real errors, but not the ones that break generated projects the
// hardest.
var (
	criticalTSCodes = map[string]bool{
		"TS2307": true, // cannot find module
		"TS2339": true, // property does not exist on type
	}
	highTSCodes = map[string]bool{
		"TS2304": true, // cannot find name
	}
	// autoFixableTSCodes are the classes automated tooling is believed
	// able to repair (add the import, create the module, rename).
	autoFixableTSCodes = map[string]bool{
		"TS2307": true,
		"TS2304": true,
		"TS2339": true,
	}
)

type tscDiagnostic struct {
	file    string
	line    uint32
	column  uint32
	tsCode  string
	message []string
}

// CompilerOutput parses tsc's per-line diagnostics into build errors.
// Lines that do not match the header pattern are continuations of a
// multi-line message and are appended to the previous diagnostic, so the
// message is reassembled before the error record (and its fingerprint)
// is built.
func CompilerOutput(out string) []diag.Error {
	var parsed []tscDiagnostic
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimRight(line, "\r")
		m := tscLineRE.FindStringSubmatch(line)
		if m == nil {
			if strings.TrimSpace(line) == "" || len(parsed) == 0 {
				continue
			}
			last := &parsed[len(parsed)-1]
			last.message = append(last.message, line)
			continue
		}
		parsed = append(parsed, tscDiagnostic{
			file:    m[1],
			line:    parseLineCol(m[2]),
			column:  parseLineCol(m[3]),
			tsCode:  m[4],
			message: []string{m[5]},
		})
	}

	errs := make([]diag.Error, 0, len(parsed))
	for _, d := range parsed {
		e := diag.New(diag.KindBuild, diag.BuildCompilerDiagnostic, tsSeverity(d.tsCode), d.file, strings.Join(d.message, "\n")).
			At(d.line, d.column).
			WithDetail("tsCode", d.tsCode)
		if autoFixableTSCodes[d.tsCode] {
			e = e.Fixable()
		}
		errs = append(errs, e)
	}
	return errs
}

func tsSeverity(code string) diag.Severity {
	switch {
	case criticalTSCodes[code]:
		return diag.SevCritical
	case highTSCodes[code]:
		return diag.SevHigh
	default:
		return diag.SevMedium
	}
}

func parseLineCol(s string) uint32 {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return 0
	}
	return v
}
