// Package sandbox is the boundary to the remote execution environment that
// hosts a generated project. The analysis core only ever needs two
// primitives — run a shell command, read a file — and treats the sandbox
// identity as an opaque cache key.
//
// Backend responses come in whatever shape the provider returns; every
// implementation must adapt them into ExecResult at this boundary so the
// detectors never branch on optional fields.
package sandbox

import (
	"context"
	"errors"
)

// ErrNotFound reports that a requested file does not exist in the sandbox.
var ErrNotFound = errors.New("sandbox: file not found")

// ExecResult is the single normalized shape for remote command execution.
type ExecResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Executor runs a shell command inside the sandbox. The context deadline is
// the command timeout; implementations must return on ctx expiry.
type Executor interface {
	Exec(ctx context.Context, command string) (ExecResult, error)
}

// FileReader reads one file from the sandbox filesystem. A missing file is
// reported with an error wrapping ErrNotFound.
type FileReader interface {
	ReadFile(ctx context.Context, path string) (string, error)
}

// Sandbox is the full collaborator surface the analysis core consumes.
type Sandbox interface {
	Executor
	FileReader

	// ID identifies the sandbox for cache keying. Opaque to the core.
	ID() string
}
