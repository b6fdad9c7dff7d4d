package detect

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"sift/internal/diag"
)

// entryComponents are the capitalized declaration names treated as entry
// points of a generated page. A file defining one of these without a
// default export renders nothing when routed to.
var entryComponents = map[string]bool{
	"App":    true,
	"Home":   true,
	"Index":  true,
	"Main":   true,
	"Page":   true,
	"Layout": true,
	"Root":   true,
}

// appRootName is the application root; a missing export there takes the
// whole app down, not just one route.
const appRootName = "App"

var (
	defaultExportRE = regexp.MustCompile(`(?m)^\s*export\s+default\b|export\s*\{[^}]*\bas\s+default\b[^}]*\}`)
	// top-level declarations only: no leading whitespace
	componentDeclRE = regexp.MustCompile(`(?m)^(?:export\s+)?(?:async\s+)?function\s+([A-Z][\w$]*)|^(?:export\s+)?(?:const|let|var)\s+([A-Z][\w$]*)\s*[=:]`)
)

// MissingExport reports an entry component that is declared but never
// exported as the file's default. The application root file is CRITICAL;
// other entry-like components are HIGH.
func MissingExport(filePath, content string) []diag.Error {
	if defaultExportRE.MatchString(content) {
		return nil
	}

	base := strings.TrimSuffix(path.Base(filePath), path.Ext(filePath))
	var errs []diag.Error
	for _, m := range componentDeclRE.FindAllStringSubmatch(content, -1) {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		if !entryComponents[name] {
			continue
		}
		sev := diag.SevHigh
		code := diag.ImpMissingDefaultExport
		if name == appRootName && base == appRootName {
			sev = diag.SevCritical
			code = diag.ImpMissingRootExport
		}
		errs = append(errs, diag.New(diag.KindImport, code, sev, filePath,
			fmt.Sprintf("component %s is declared but not exported as default", name)).
			WithImportPath("./"+base).
			WithDetail("component", name).
			Fixable())
	}
	return errs
}
