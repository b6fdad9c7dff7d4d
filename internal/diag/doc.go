// Package diag defines the error model shared by all detectors.
//
// # Purpose
//
//   - Provide deterministic, serialisable data structures that capture
//     findings produced by the build / import / navigation detectors.
//   - Offer a light-weight aggregate (Report) that merges detector output
//     without coupling producers to storage or formatting layers.
//
// # Scope
//
// Package diag does not perform any formatting, IO, CLI integration, or
// remote access. Rendering lives in internal/reportfmt, orchestration in
// internal/analyze.
//
// # Data model
//
// Error is the central record. It contains:
//
//   - Kind – which detector family produced it (build, import, navigation,
//     runtime).
//   - Severity – four-level enum (Low, Medium, High, Critical) defined in
//     severity.go.
//   - Code – compact numeric identifier (see codes.go) with stable string
//     form.
//   - Message – human oriented text; keep it short and actionable.
//   - File/Line/Column – best-effort location; zero values mean unknown.
//   - AutoFixable – whether automated tooling is believed able to repair it.
//   - Details – detector-specific metadata (candidate paths, suggestions).
//
// Report groups errors by kind and derives the aggregate severity,
// auto-fixability and total count. Keep the data model deterministic: any
// new fields should avoid side effects so reports can be serialised for
// caching and testing.
package diag
