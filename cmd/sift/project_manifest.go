package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// projectManifest is the optional sift.toml found by walking up from the
// target directory. Everything in it has a default: the manifest only
// exists to pin a source root or silence known-noisy directories.
type projectManifest struct {
	Path   string
	Root   string
	Config projectConfig
}

type projectConfig struct {
	Project projectSection `toml:"project"`
	Analyze analyzeSection `toml:"analyze"`
}

type projectSection struct {
	Name string `toml:"name"`
	// Root is the directory scans run against, relative to the manifest.
	Root string `toml:"root"`
}

type analyzeSection struct {
	// Exclude lists extra directory names skipped during file collection.
	Exclude []string `toml:"exclude"`
}

func findSiftToml(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "sift.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadProjectManifest(startDir string) (*projectManifest, bool, error) {
	manifestPath, ok, err := findSiftToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg projectConfig
	if _, err := toml.DecodeFile(manifestPath, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", manifestPath, err)
	}
	root := filepath.Dir(manifestPath)
	if sub := strings.TrimSpace(cfg.Project.Root); sub != "" {
		root = filepath.Join(root, filepath.FromSlash(sub))
	}
	return &projectManifest{
		Path:   manifestPath,
		Root:   root,
		Config: cfg,
	}, true, nil
}
