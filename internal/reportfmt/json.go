package reportfmt

import (
	"encoding/json"
	"io"

	"sift/internal/diag"
)

// ErrorJSON представляет одну найденную ошибку в JSON формате
type ErrorJSON struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Code        string         `json:"code"`
	Severity    string         `json:"severity"`
	Message     string         `json:"message"`
	File        string         `json:"file,omitempty"`
	Line        uint32         `json:"line,omitempty"`
	Column      uint32         `json:"column,omitempty"`
	ImportPath  string         `json:"import_path,omitempty"`
	AutoFixable bool           `json:"auto_fixable"`
	Details     map[string]any `json:"details,omitempty"`
}

// ReportJSON представляет корневую структуру JSON вывода
type ReportJSON struct {
	BuildErrors      []ErrorJSON `json:"build_errors"`
	ImportErrors     []ErrorJSON `json:"import_errors"`
	NavigationErrors []ErrorJSON `json:"navigation_errors"`
	RuntimeErrors    []ErrorJSON `json:"runtime_errors,omitempty"`
	Severity         string      `json:"severity"`
	AutoFixable      bool        `json:"auto_fixable"`
	TotalErrors      int         `json:"total_errors"`
	DetectedAt       string      `json:"detected_at"`
}

// BuildReportOutput формирует структуру JSON-вывода без сериализации.
func BuildReportOutput(report *diag.Report, opts JSONOpts) ReportJSON {
	return ReportJSON{
		BuildErrors:      errorsJSON(report.BuildErrors, opts),
		ImportErrors:     errorsJSON(report.ImportErrors, opts),
		NavigationErrors: errorsJSON(report.NavigationErrors, opts),
		RuntimeErrors:    errorsJSON(report.RuntimeErrors, opts),
		Severity:         report.Severity.String(),
		AutoFixable:      report.AutoFixable,
		TotalErrors:      report.TotalErrors,
		DetectedAt:       report.DetectedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
	}
}

// JSON сериализует отчёт в JSON. Пустые последовательности кодируются как
// [], а не null, чтобы потребителям не приходилось проверять оба случая.
func JSON(w io.Writer, report *diag.Report, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	if opts.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(BuildReportOutput(report, opts))
}

func errorsJSON(errs []diag.Error, opts JSONOpts) []ErrorJSON {
	out := make([]ErrorJSON, 0, len(errs))
	for _, e := range errs {
		ej := ErrorJSON{
			ID:          e.ID,
			Type:        e.Kind.String(),
			Code:        e.Code.String(),
			Severity:    e.Severity.String(),
			Message:     e.Message,
			File:        e.File,
			Line:        e.Line,
			Column:      e.Column,
			ImportPath:  e.ImportPath,
			AutoFixable: e.AutoFixable,
		}
		if opts.IncludeDetails {
			ej.Details = e.Details
		}
		out = append(out, ej)
	}
	return out
}
