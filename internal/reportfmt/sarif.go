package reportfmt

import (
	"encoding/json"
	"io"

	"sift/internal/diag"
)

// SarifRunMeta идентифицирует инструмент в SARIF выводе.
type SarifRunMeta struct {
	ToolName    string
	ToolVersion string
}

type sarifLog struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	Level     string          `json:"level"`
	Message   sarifMessage    `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine"`
	StartColumn uint32 `json:"startColumn,omitempty"`
}

// Sarif форматирует отчёт в SARIF формат (v2.1.0).
func Sarif(w io.Writer, report *diag.Report, meta SarifRunMeta) error {
	results := make([]sarifResult, 0, report.TotalErrors)
	for _, seq := range [][]diag.Error{report.BuildErrors, report.ImportErrors, report.NavigationErrors} {
		for _, e := range seq {
			results = append(results, sarifResultOf(e))
		}
	}

	log := sarifLog{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []sarifRun{{
			Tool: sarifTool{Driver: sarifDriver{
				Name:    meta.ToolName,
				Version: meta.ToolVersion,
			}},
			Results: results,
		}},
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(log)
}

func sarifResultOf(e diag.Error) sarifResult {
	res := sarifResult{
		RuleID:  e.Code.String(),
		Level:   sarifLevel(e.Severity),
		Message: sarifMessage{Text: e.Message},
	}
	if e.File != "" {
		loc := sarifLocation{PhysicalLocation: sarifPhysicalLocation{
			ArtifactLocation: sarifArtifactLocation{URI: e.File},
		}}
		if e.Line > 0 {
			loc.PhysicalLocation.Region = &sarifRegion{StartLine: e.Line, StartColumn: e.Column}
		}
		res.Locations = []sarifLocation{loc}
	}
	return res
}

// sarifLevel сводит четыре уровня серьёзности к трём уровням SARIF.
func sarifLevel(s diag.Severity) string {
	switch s {
	case diag.SevCritical, diag.SevHigh:
		return "error"
	case diag.SevMedium:
		return "warning"
	default:
		return "note"
	}
}
