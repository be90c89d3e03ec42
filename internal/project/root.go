// Package project locates and describes the crate being fuzzed.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ManifestName is the build manifest the root locator searches for.
const ManifestName = "Cargo.toml"

// ErrNoManifest is returned when no Cargo.toml exists between the starting
// directory and the filesystem root.
var ErrNoManifest = errors.New("could not find `Cargo.toml` in current directory or any parent directory")

// FindManifest walks up from startDir to locate the build manifest.
func FindManifest(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, ManifestName)
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

// FindCrateRoot returns the directory containing the build manifest, if any.
func FindCrateRoot(startDir string) (root string, ok bool, err error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return "", ok, err
	}
	return filepath.Dir(manifestPath), true, nil
}

// EnterCrateRoot chdirs to the crate root above the current directory, to
// match the behavior of the build tool itself. This is the single
// process-wide mutation of an invocation; it happens once, before any other
// component runs, and is never rewritten.
func EnterCrateRoot() (string, error) {
	root, ok, err := FindCrateRoot(".")
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrNoManifest
	}
	if err := os.Chdir(root); err != nil {
		return "", fmt.Errorf("failed to enter crate root %q: %w", root, err)
	}
	return root, nil
}
