package detect

import (
	"fmt"
	"regexp"
	"strings"

	"sift/internal/diag"
)

// navTargetRE captures href/to attribute values in JSX, with or without a
// braced string expression.
var navTargetRE = regexp.MustCompile(`(?:href|to)\s*=\s*\{?["']([^"']+)["']\}?`)

// Navigation flags absolute link targets as potentially broken routes.
// This is a coarse heuristic, not a route-table cross-check: fragments,
// the root path and external URLs pass through untouched.
func Navigation(path, content string) []diag.Error {
	var errs []diag.Error
	for _, m := range navTargetRE.FindAllStringSubmatchIndex(content, -1) {
		target := content[m[2]:m[3]]
		if !suspiciousRoute(target) {
			continue
		}
		errs = append(errs, diag.New(diag.KindNavigation, diag.NavSuspiciousHref, diag.SevLow, path,
			fmt.Sprintf("link target %q may be a broken route", target)).
			At(lineOf(content, m[0]), 0).
			WithDetail("target", target))
	}
	return errs
}

func suspiciousRoute(target string) bool {
	if !strings.HasPrefix(target, "/") {
		return false // relative, fragment or external
	}
	if target == "/" {
		return false
	}
	return true
}
