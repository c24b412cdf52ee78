package state

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoProjectRoot is returned when no ancestor directory carries a marker.
var ErrNoProjectRoot = errors.New("no project root found")

// RootMarkers identify a project root, checked in order at each level.
var RootMarkers = []string{".context", "PLAN.md", ".git"}

// FindRoot walks up from start (cwd when empty) looking for any of RootMarkers.
func FindRoot(start string) (string, error) {
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", err
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", err
	}
	for {
		for _, m := range RootMarkers {
			if _, err := os.Stat(filepath.Join(dir, m)); err == nil {
				return dir, nil
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w from %s (looking for %s)", ErrNoProjectRoot, start, strings.Join(RootMarkers, ", "))
		}
		dir = parent
	}
}

// ErrNotAFile is returned by ReadDocument for directories and other non-regular paths.
var ErrNotAFile = errors.New("path is not a file")

// ReadDocument reads a text document. A missing path yields an error
// matching fs.ErrNotExist.
func ReadDocument(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("%s: %w", path, ErrNotAFile)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// DescribeReadError renders a ReadDocument error as a diagnostic line.
func DescribeReadError(path string, err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return "File not found: " + path
	case errors.Is(err, ErrNotAFile):
		return "Path is not a file: " + path
	default:
		return fmt.Sprintf("Error reading file: %v", err)
	}
}

// Rel returns path relative to root with forward slashes, or path itself
// when it is outside root.
func Rel(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
