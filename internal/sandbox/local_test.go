package sandbox

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLocalExecNormalizesExit(t *testing.T) {
	sb := NewLocal(t.TempDir())
	ctx := context.Background()

	res, err := sb.Exec(ctx, "echo hello; exit 3")
	if err != nil {
		t.Fatalf("Exec returned error for non-zero exit: %v", err)
	}
	if res.ExitCode != 3 {
		t.Fatalf("ExitCode = %d, want 3", res.ExitCode)
	}
	if strings.TrimSpace(res.Stdout) != "hello" {
		t.Fatalf("Stdout = %q", res.Stdout)
	}
}

func TestLocalExecHonorsDeadline(t *testing.T) {
	sb := NewLocal(t.TempDir())
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, _ = sb.Exec(ctx, "sleep 5")
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Exec did not return on ctx expiry (took %v)", elapsed)
	}
}

func TestLocalReadFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "src", "a.ts"), []byte("export {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	sb := NewLocal(dir)

	got, err := sb.ReadFile(context.Background(), "src/a.ts")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if got != "export {}\n" {
		t.Fatalf("content = %q", got)
	}

	_, err = sb.ReadFile(context.Background(), "src/missing.ts")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
