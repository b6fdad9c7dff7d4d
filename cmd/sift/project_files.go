package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// sourceExts are the file extensions collected for fragment analysis.
var sourceExts = map[string]bool{".ts": true, ".tsx": true, ".js": true, ".jsx": true}

// skippedDirs are never walked: vendored or generated trees.
var skippedDirs = map[string]bool{"node_modules": true, "dist": true, "build": true, ".next": true, ".vercel": true}

// collectFragmentFiles reads the source files named by args (files or
// directories, walked recursively) into an in-memory map keyed by path
// relative to baseDir with forward slashes.
func collectFragmentFiles(args []string, baseDir string, extraExcluded []string) (map[string]string, error) {
	var paths []string
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		if st.IsDir() {
			dirFiles, err := listSourceFiles(arg, extraExcluded)
			if err != nil {
				return nil, err
			}
			paths = append(paths, dirFiles...)
		} else {
			paths = append(paths, arg)
		}
	}

	files := make(map[string]string, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p) // #nosec G304 -- paths come from CLI args
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		files[displayPath(p, baseDir)] = string(data)
	}
	return files, nil
}

func listSourceFiles(dir string, extraExcluded []string) ([]string, error) {
	excluded := make(map[string]bool, len(skippedDirs)+len(extraExcluded))
	for name := range skippedDirs {
		excluded[name] = true
	}
	for _, name := range extraExcluded {
		excluded[name] = true
	}

	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			name := d.Name()
			// Skip hidden directories and common build folders
			if len(name) > 1 && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			if excluded[name] {
				return filepath.SkipDir
			}
			return nil
		}
		if sourceExts[filepath.Ext(path)] {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// displayPath normalizes a path relative to baseDir, forward slashes only.
func displayPath(p, baseDir string) string {
	clean := filepath.Clean(p)
	if baseDir != "" {
		if rel, err := filepath.Rel(baseDir, clean); err == nil && !strings.HasPrefix(rel, "..") {
			clean = rel
		}
	}
	return filepath.ToSlash(clean)
}
