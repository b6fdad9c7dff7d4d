package sandbox

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Local runs commands against a project checkout on the local filesystem.
// It exists so the CLI can analyze a directory without a remote backend and
// so tests exercise a real Executor.
type Local struct {
	root string
}

// NewLocal creates a local sandbox rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{root: dir}
}

func (l *Local) ID() string {
	return "local:" + l.root
}

// Exec runs command through `sh -c` with the sandbox root as working
// directory. A non-zero exit is not an error: it is normalized into
// ExecResult.ExitCode so callers treat it as "no data", not a failure.
func (l *Local) Exec(ctx context.Context, command string) (ExecResult, error) {
	cmd := exec.CommandContext(ctx, "sh", "-c", command)
	cmd.Dir = l.root

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	res := ExecResult{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
			return res, nil
		}
		return res, err
	}
	return res, nil
}

// ReadFile reads path relative to the sandbox root.
func (l *Local) ReadFile(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	full := filepath.Join(l.root, filepath.FromSlash(path))
	// #nosec G304 -- path is scoped to the sandbox root by construction
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}
