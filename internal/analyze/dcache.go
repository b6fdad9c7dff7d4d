package analyze

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"sift/internal/diag"
)

// Current schema version - increment when reportPayload format changes
const reportCacheSchemaVersion uint16 = 1

// Digest is a content fingerprint of a project tree.
type Digest [32]byte

// TreeDigest fingerprints a file-tree listing. Paths are joined in the
// given (sorted) order, so an unchanged tree yields an unchanged digest.
func TreeDigest(paths []string) Digest {
	return sha256.Sum256([]byte(strings.Join(paths, "\n")))
}

// ReportCache persists the last Report per sandbox on disk so repeated
// scans of an unchanged project can short-circuit. Entries are keyed by
// sandbox identity and validated against the tree digest.
// Thread-safe for concurrent access.
type ReportCache struct {
	mu  sync.RWMutex
	dir string
}

type reportPayload struct {
	Schema     uint16
	SandboxID  string
	TreeDigest Digest
	Report     *diag.Report
}

// OpenReportCache initializes a report cache at the standard location.
func OpenReportCache(app string) (*ReportCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ReportCache{dir: dir}, nil
}

// OpenReportCacheAt uses an explicit directory, for tests.
func OpenReportCacheAt(dir string) (*ReportCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &ReportCache{dir: dir}, nil
}

func (c *ReportCache) pathFor(sandboxID string) string {
	sum := sha256.Sum256([]byte(sandboxID))
	return filepath.Join(c.dir, "reports", hex.EncodeToString(sum[:8])+".mp")
}

// Get returns the cached report for the sandbox when the schema matches
// and the tree digest is unchanged.
func (c *ReportCache) Get(sandboxID string, digest Digest) (*diag.Report, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(sandboxID))
	if err != nil {
		return nil, false
	}
	var payload reportPayload
	if err := msgpack.Unmarshal(data, &payload); err != nil {
		return nil, false
	}
	if payload.Schema != reportCacheSchemaVersion {
		return nil, false
	}
	if payload.SandboxID != sandboxID || payload.TreeDigest != digest {
		return nil, false
	}
	return payload.Report, true
}

// Put serializes and writes a report atomically (temp file + rename).
func (c *ReportCache) Put(sandboxID string, digest Digest, report *diag.Report) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(sandboxID)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	data, err := msgpack.Marshal(reportPayload{
		Schema:     reportCacheSchemaVersion,
		SandboxID:  sandboxID,
		TreeDigest: digest,
		Report:     report,
	})
	if err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, p)
}

// Drop removes the cached entry for one sandbox, if present.
func (c *ReportCache) Drop(sandboxID string) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	err := os.Remove(c.pathFor(sandboxID))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
