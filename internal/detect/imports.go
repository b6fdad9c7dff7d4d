package detect

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"sift/internal/diag"
	"sift/internal/resolver"
	"sift/internal/sandbox"
	"sift/internal/tsconfig"
)

// importRE captures the specifier of import statements and re-exports in
// default, named, namespace and side-effect form. Deliberately permissive:
// generated code is not always pretty.
var importRE = regexp.MustCompile(`(?m)^\s*(?:import|export)\s+(?:type\s+)?(?:[^'"]*?\sfrom\s+)?["']([^"']+)["']`)

// ImportOptions selects resolution mode. With a Config/Tree/Reader
// available the resolver is consulted; with none of them supplied
// (pure fragment mode) only the pattern-matched known-problematic tables
// apply.
type ImportOptions struct {
	Config *tsconfig.Config
	Tree   *resolver.FileTree
	Reader sandbox.FileReader
}

func (o ImportOptions) fragmentOnly() bool {
	return o.Config == nil && o.Tree == nil && o.Reader == nil
}

// Imports detects unresolvable or known-problematic import statements in
// one file.
func Imports(ctx context.Context, path, content string, opts ImportOptions) []diag.Error {
	var errs []diag.Error
	for _, m := range importRE.FindAllStringSubmatchIndex(content, -1) {
		spec := content[m[2]:m[3]]
		line := lineOf(content, m[0])

		if opts.fragmentOnly() {
			// No resolution context at all: only the curated tables
			// apply. The tables include node builtins, so this check
			// runs before the builtin skip below.
			if e, bad := matchKnownBad(path, spec); bad {
				errs = append(errs, e.At(line, 0).WithImportPath(spec))
			}
			continue
		}

		if resolver.IsAsset(spec) || resolver.IsBuiltin(spec) {
			continue
		}

		if !resolver.IsRelative(spec) && !strings.HasPrefix(spec, "@/") && !strings.HasPrefix(spec, "~/") {
			// Bare package import: dependency resolution is out of scope.
			continue
		}

		res := resolver.Resolve(ctx, spec, path, opts.Config, opts.Tree, opts.Reader)
		if res.Found() {
			continue
		}
		e := diag.New(diag.KindImport, diag.ImpUnresolved, diag.SevHigh, path,
			fmt.Sprintf("cannot resolve import %q", spec)).
			At(line, 0).
			WithImportPath(spec).
			Fixable().
			WithDetail("candidates", res.Candidates)
		if suggestion := suggestFor(opts.Tree, spec, res); suggestion != "" {
			e = e.WithDetail("suggestion", suggestion)
		}
		errs = append(errs, e)
	}
	return errs
}

// suggestFor searches the file tree for the closest existing file to the
// first candidate's base name.
func suggestFor(tree *resolver.FileTree, spec string, res resolver.Resolution) string {
	if tree == nil {
		return ""
	}
	probe := spec
	if len(res.Candidates) > 0 {
		probe = res.Candidates[0]
	}
	return tree.Suggest(probe)
}

// --- fragment mode: pattern-matched "definitely problematic" imports ---

// badImportRule is one curated fragment-mode pattern. These fire without
// any sandbox or tsconfig context, so they only name imports that are
// wrong in every generated project; severity stays LOW.
type badImportRule struct {
	match   func(spec string) bool
	code    diag.Code
	message func(spec string) string
}

// knownMissingModules are internal paths the generator scaffolds lazily;
// importing them before they exist is the single most common generated
// defect.
var knownMissingModules = []string{
	"@/lib/db",
	"@/lib/prisma",
	"@/lib/supabase",
	"@/lib/auth",
}

// forbiddenPackages never work inside the generated runtime: node-only
// modules in client code and type-only packages imported at runtime.
var forbiddenPackages = []string{
	"fs",
	"child_process",
	"net",
	"tls",
}

// uiComponents is the generated UI-library surface. An import under
// components/ui outside this set points at a component that was never
// scaffolded.
var uiComponents = map[string]bool{
	"accordion": true, "alert": true, "alert-dialog": true, "avatar": true,
	"badge": true, "button": true, "calendar": true, "card": true,
	"checkbox": true, "dialog": true, "dropdown-menu": true, "form": true,
	"input": true, "label": true, "popover": true, "progress": true,
	"radio-group": true, "select": true, "separator": true, "sheet": true,
	"skeleton": true, "slider": true, "switch": true, "table": true,
	"tabs": true, "textarea": true, "toast": true, "toaster": true,
	"tooltip": true,
}

var knownBadRules = []badImportRule{
	{
		match: func(spec string) bool {
			for _, known := range knownMissingModules {
				if spec == known || strings.HasPrefix(spec, known+"/") {
					return true
				}
			}
			return false
		},
		code: diag.ImpKnownMissingModule,
		message: func(spec string) string {
			return fmt.Sprintf("import %q targets a module the generator has not scaffolded", spec)
		},
	},
	{
		match: func(spec string) bool {
			base := strings.TrimPrefix(spec, "node:")
			for _, pkg := range forbiddenPackages {
				if base == pkg {
					return true
				}
			}
			return strings.HasPrefix(spec, "@types/")
		},
		code: diag.ImpForbiddenPackage,
		message: func(spec string) string {
			return fmt.Sprintf("import %q is not available in the generated runtime", spec)
		},
	},
	{
		match: func(spec string) bool {
			name, ok := strings.CutPrefix(spec, "@/components/ui/")
			if !ok {
				return false
			}
			return !uiComponents[name]
		},
		code: diag.ImpUnknownUIComponent,
		message: func(spec string) string {
			return fmt.Sprintf("import %q is outside the generated UI component set", spec)
		},
	},
}

func matchKnownBad(path, spec string) (diag.Error, bool) {
	for _, rule := range knownBadRules {
		if rule.match(spec) {
			return diag.New(diag.KindImport, rule.code, diag.SevLow, path, rule.message(spec)), true
		}
	}
	return diag.Error{}, false
}

// lineOf converts a byte offset into a 1-based line number.
func lineOf(content string, offset int) uint32 {
	line := uint32(1)
	for i := 0; i < offset && i < len(content); i++ {
		if content[i] == '\n' {
			line++
		}
	}
	return line
}
