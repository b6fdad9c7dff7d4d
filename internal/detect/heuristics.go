package detect

import (
	"strings"

	"sift/internal/diag"
)

// riskRule is one content heuristic, data-described so the rule set can be
// extended and tested independently of the scanning loop.
type riskRule struct {
	needle      string
	code        diag.Code
	message     string
	autoFixable bool
	// commentDirective rules live inside comments (that is the point of
	// them); code rules are suppressed on commented-out lines.
	commentDirective bool
	// exclusions suppress the rule when any of these substrings share the
	// line: known benign developer-tooling annotations.
	exclusions []string
}

var riskRules = []riskRule{
	{
		needle:           "@ts-nocheck",
		code:             diag.BuildRiskyDirective,
		message:          "file opts out of type checking with @ts-nocheck",
		autoFixable:      true,
		commentDirective: true,
	},
	{
		needle:           "@ts-ignore",
		code:             diag.BuildRiskyDirective,
		message:          "type error suppressed with @ts-ignore",
		autoFixable:      true,
		commentDirective: true,
	},
	{
		needle:           "@ts-expect-error",
		code:             diag.BuildRiskyDirective,
		message:          "type error suppressed with @ts-expect-error",
		autoFixable:      true,
		commentDirective: true,
	},
	{
		needle:  " as any",
		code:    diag.BuildUncheckedAssertion,
		message: "unchecked type assertion to any",
		// word-boundary guard: "as anyOf(...)" is a different identifier
		exclusions: []string{" as anyOf", " as anything"},
	},
	{
		needle:  "as unknown as ",
		code:    diag.BuildUncheckedAssertion,
		message: "double assertion defeats the type checker",
	},
}

// benignAnnotations are developer-tooling markers whose lines are never
// flagged: the line is a deliberate, named suppression already.
var benignAnnotations = []string{
	"eslint-disable",
	"prettier-ignore",
	"biome-ignore",
}

// BuildHeuristics scans file content for risk patterns when no compiler
// run is available. Findings are always LOW severity: heuristic, not
// authoritative.
func BuildHeuristics(path, content string) []diag.Error {
	var errs []diag.Error
	inBlockComment := false
	for i, line := range strings.Split(content, "\n") {
		lineIsComment := inBlockComment || isLineComment(line)
		inBlockComment = trackBlockComment(line, inBlockComment)

	rules:
		for _, rule := range riskRules {
			if !strings.Contains(line, rule.needle) {
				continue
			}
			if lineIsComment && !rule.commentDirective {
				continue
			}
			for _, benign := range benignAnnotations {
				if strings.Contains(line, benign) {
					continue rules
				}
			}
			for _, excl := range rule.exclusions {
				if strings.Contains(line, excl) {
					continue rules
				}
			}
			e := diag.New(diag.KindBuild, rule.code, diag.SevLow, path, rule.message).
				At(uint32(i+1), 0)
			if rule.autoFixable {
				e = e.Fixable()
			}
			errs = append(errs, e)
		}
	}
	return errs
}

func isLineComment(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "*") || strings.HasPrefix(trimmed, "/*")
}

// trackBlockComment keeps a line-granular "inside /* */" state. Nested
// block comments are not a thing in TS, so a simple toggle is enough.
func trackBlockComment(line string, in bool) bool {
	for i := 0; i+1 < len(line); i++ {
		if in {
			if line[i] == '*' && line[i+1] == '/' {
				in = false
				i++
			}
		} else {
			if line[i] == '/' && line[i+1] == '*' {
				in = true
				i++
			}
		}
	}
	return in
}
