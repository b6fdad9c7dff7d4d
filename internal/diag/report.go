package diag

import (
	"sort"
	"time"
)

// Report groups detected errors by kind and carries the derived aggregate
// fields. One Report is produced per analysis run.
type Report struct {
	BuildErrors      []Error
	ImportErrors     []Error
	NavigationErrors []Error

	// RuntimeErrors are sourced out-of-band from a live browser context;
	// the analysis core never populates them and they do not participate
	// in TotalErrors.
	RuntimeErrors []Error

	Severity    Severity
	AutoFixable bool
	TotalErrors int
	DetectedAt  time.Time
}

// NewReport builds an empty report stamped with the given time.
func NewReport(at time.Time) *Report {
	return &Report{DetectedAt: at, Severity: SevLow}
}

// Add routes an error into the sequence matching its kind and updates the
// derived fields.
func (r *Report) Add(errs ...Error) {
	for _, e := range errs {
		switch e.Kind {
		case KindBuild:
			r.BuildErrors = append(r.BuildErrors, e)
		case KindImport:
			r.ImportErrors = append(r.ImportErrors, e)
		case KindNavigation:
			r.NavigationErrors = append(r.NavigationErrors, e)
		case KindRuntime:
			r.RuntimeErrors = append(r.RuntimeErrors, e)
			continue // runtime errors do not count towards the aggregate
		default:
			continue
		}
		r.Severity = MaxSeverity(r.Severity, e.Severity)
		if e.AutoFixable {
			r.AutoFixable = true
		}
		r.TotalErrors++
	}
}

// Merge объединяет ошибки из другого отчёта; производные поля пересчитываются.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.Add(other.BuildErrors...)
	r.Add(other.ImportErrors...)
	r.Add(other.NavigationErrors...)
	r.Add(other.RuntimeErrors...)
}

// Len returns the number of errors counted by TotalErrors.
func (r *Report) Len() int {
	return len(r.BuildErrors) + len(r.ImportErrors) + len(r.NavigationErrors)
}

// Sort orders each sequence by: file, line, column, severity (desc),
// code (asc) for stable, deterministic output.
func (r *Report) Sort() {
	for _, seq := range [][]Error{r.BuildErrors, r.ImportErrors, r.NavigationErrors, r.RuntimeErrors} {
		sort.SliceStable(seq, func(i, j int) bool {
			ei, ej := seq[i], seq[j]
			if ei.File != ej.File {
				return ei.File < ej.File
			}
			if ei.Line != ej.Line {
				return ei.Line < ej.Line
			}
			if ei.Column != ej.Column {
				return ei.Column < ej.Column
			}
			if ei.Severity != ej.Severity {
				return ei.Severity > ej.Severity
			}
			return ei.Code < ej.Code
		})
	}
}

// Dedup removes errors that share an ID (the ID is a fingerprint of the
// identifying fields, so structural duplicates collapse).
func (r *Report) Dedup() {
	r.BuildErrors = dedupByID(r.BuildErrors)
	r.ImportErrors = dedupByID(r.ImportErrors)
	r.NavigationErrors = dedupByID(r.NavigationErrors)
	r.recompute()
}

func dedupByID(errs []Error) []Error {
	seen := make(map[string]bool, len(errs))
	out := errs[:0]
	for _, e := range errs {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		out = append(out, e)
	}
	return out
}

// recompute rebuilds the derived fields from scratch.
func (r *Report) recompute() {
	r.Severity = SevLow
	r.AutoFixable = false
	r.TotalErrors = 0
	for _, seq := range [][]Error{r.BuildErrors, r.ImportErrors, r.NavigationErrors} {
		for _, e := range seq {
			r.Severity = MaxSeverity(r.Severity, e.Severity)
			if e.AutoFixable {
				r.AutoFixable = true
			}
			r.TotalErrors++
		}
	}
}
