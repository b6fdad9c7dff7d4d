package diag

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Kind discriminates which detector family produced an Error.
type Kind uint8

const (
	KindBuild Kind = iota
	KindImport
	KindNavigation
	KindRuntime
)

func (k Kind) String() string {
	switch k {
	case KindBuild:
		return "build"
	case KindImport:
		return "import"
	case KindNavigation:
		return "navigation"
	case KindRuntime:
		return "runtime"
	}
	return "unknown"
}

// Error is a single detected defect. It is a value record produced once
// per detection; detectors never mutate it after emission.
type Error struct {
	ID          string
	Kind        Kind
	Code        Code
	Message     string
	File        string
	Line        uint32
	Column      uint32
	Severity    Severity
	AutoFixable bool

	// ImportPath is set only for KindImport errors (the raw specifier).
	ImportPath string

	// Details carries detector-specific metadata: candidate paths tried,
	// suggested replacement, compiler error code, etc.
	Details map[string]any
}

// New constructs an Error with a deterministic opaque ID derived from its
// identifying fields. Same defect — same ID, which keeps reports stable
// across runs and makes dedup trivial.
func New(kind Kind, code Code, sev Severity, file, msg string) Error {
	e := Error{
		Kind:     kind,
		Code:     code,
		Severity: sev,
		File:     file,
		Message:  msg,
	}
	e.ID = e.fingerprint()
	return e
}

// At returns a copy of the error with a location attached.
func (e Error) At(line, column uint32) Error {
	e.Line = line
	e.Column = column
	e.ID = e.fingerprint()
	return e
}

// Fixable marks the error as repairable by automated tooling.
func (e Error) Fixable() Error {
	e.AutoFixable = true
	return e
}

// WithImportPath records the raw specifier for import errors.
func (e Error) WithImportPath(spec string) Error {
	e.ImportPath = spec
	e.ID = e.fingerprint()
	return e
}

// WithDetail attaches one metadata entry, allocating the map lazily.
func (e Error) WithDetail(key string, value any) Error {
	if e.Details == nil {
		e.Details = make(map[string]any, 4)
	}
	e.Details[key] = value
	return e
}

func (e Error) fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%s|%d|%d|%s|%s",
		e.Kind, e.Code, e.File, e.Line, e.Column, e.ImportPath, e.Message)))
	return e.Kind.String() + "-" + hex.EncodeToString(sum[:6])
}
