package diag

// Severity defines how urgently a finding should block further work.
type Severity uint8

const (
	// SevLow is for heuristic findings that are safe to ignore.
	SevLow Severity = iota
	// SevMedium is for findings that likely degrade the project.
	SevMedium
	// SevHigh is for findings that break a feature.
	SevHigh
	// SevCritical is for findings that break the whole build.
	SevCritical
)

func (s Severity) String() string {
	switch s {
	case SevLow:
		return "LOW"
	case SevMedium:
		return "MEDIUM"
	case SevHigh:
		return "HIGH"
	case SevCritical:
		return "CRITICAL"
	}
	return "UNKNOWN"
}

// MaxSeverity returns the higher of two severities under the total order
// CRITICAL > HIGH > MEDIUM > LOW.
func MaxSeverity(a, b Severity) Severity {
	if a > b {
		return a
	}
	return b
}
