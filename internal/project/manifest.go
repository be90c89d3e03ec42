package project

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
)

// Manifest is the subset of Cargo.toml the orchestrator cares about: the
// package name and the declared binary targets. The build tool remains the
// authority on the manifest; this parse only powers diagnostics.
type Manifest struct {
	Path    string
	Root    string
	Package PackageInfo
	Bins    []BinInfo
}

// PackageInfo mirrors the [package] table.
type PackageInfo struct {
	Name string `toml:"name"`
}

// BinInfo mirrors one [[bin]] entry.
type BinInfo struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
}

type manifestFile struct {
	Package PackageInfo `toml:"package"`
	Bins    []BinInfo   `toml:"bin"`
}

// LoadManifest parses the Cargo.toml in dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	var file manifestFile
	if _, err := toml.DecodeFile(path, &file); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	root, err := filepath.Abs(dir)
	if err != nil {
		root = dir
	}
	return &Manifest{
		Path:    path,
		Root:    root,
		Package: file.Package,
		Bins:    file.Bins,
	}, nil
}

// BinTargets returns the names of every binary target the crate declares:
// explicit [[bin]] entries, src/bin/*.rs autodiscovery, and the package name
// itself when src/main.rs exists.
func (m *Manifest) BinTargets() []string {
	seen := make(map[string]struct{})
	var names []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, dup := seen[name]; dup {
			return
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}

	for _, bin := range m.Bins {
		add(bin.Name)
	}
	entries, err := os.ReadDir(filepath.Join(m.Root, "src", "bin"))
	if err == nil {
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".rs") {
				continue
			}
			add(strings.TrimSuffix(entry.Name(), ".rs"))
		}
	}
	if _, err := os.Stat(filepath.Join(m.Root, "src", "main.rs")); err == nil {
		add(m.Package.Name)
	}
	return names
}

// HasBin reports whether target is among the declared binary targets.
func (m *Manifest) HasBin(target string) bool {
	for _, name := range m.BinTargets() {
		if name == target {
			return true
		}
	}
	return false
}
