// Package loader resolves a piccolo project's module dependency graph:
// it reads piccolo.toml, loads each dependency's compiled object file,
// and attaches them to a symtab.Universe with cross-module rules
// replayed (§9's "Global module table" note).
//
// Modeled on pkg/dang/project.go's ProjectConfig/FindProjectConfig, with
// dang.toml's GraphQL import sources generalised to module dependency
// declarations: piccolo.toml maps a module name to the object file that
// provides it.
package loader

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// ManifestFile is the name piccolo looks for, walking up from the
// entry file's directory, exactly as dang.toml is discovered.
const ManifestFile = "piccolo.toml"

// Manifest is the decoded contents of a piccolo.toml.
type Manifest struct {
	Module ModuleConfig `toml:"module"`
}

// ModuleConfig describes the module this project builds, and where its
// dependencies' compiled object files live.
type ModuleConfig struct {
	// Name is this project's own module name, used to qualify bare
	// symbol references while parsing its source (pkg/surface.Parse).
	Name string `toml:"name"`
	// Requires lists the names of modules this one depends on, in
	// declaration order (symtab.Module.Requires).
	Requires []string `toml:"requires"`
	// Dependencies maps a required module's name to the path of its
	// compiled object file (relative to the manifest), overriding the
	// default of objfile.Filename(name) resolved next to the manifest.
	Dependencies map[string]string `toml:"dependencies,omitempty"`
}

// LoadManifest decodes a piccolo.toml file at path.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, fmt.Errorf("loader: parsing %s: %w", path, err)
	}
	return &m, nil
}

// FindManifest searches for piccolo.toml starting from dir and walking
// up to parent directories, stopping at a .git boundary the way
// FindProjectConfig does. Returns ("", nil, nil) if none is found.
func FindManifest(dir string) (string, *Manifest, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", nil, err
	}
	for {
		path := filepath.Join(dir, ManifestFile)
		if _, err := os.Stat(path); err == nil {
			m, err := LoadManifest(path)
			if err != nil {
				return "", nil, err
			}
			return path, m, nil
		}

		if _, err := os.Stat(filepath.Join(dir, ".git")); err == nil {
			return "", nil, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", nil, nil
		}
		dir = parent
	}
}

// dependencyPath resolves where the object file for a required module
// lives on disk, relative to the manifest's directory.
func dependencyPath(manifestDir string, m *Manifest, required, defaultFilename string) string {
	if p, ok := m.Module.Dependencies[required]; ok {
		return filepath.Join(manifestDir, p)
	}
	return filepath.Join(manifestDir, defaultFilename)
}
