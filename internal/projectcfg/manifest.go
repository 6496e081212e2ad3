// Package projectcfg loads the optional dp.toml project manifest consumed
// by cmd/dpc to seed compiler invocation settings (cmd/dp-lsp does not
// load it). The core
// dp package never sees this file; it only ever receives an injected
// Resolver and a source ID (spec §6), exactly as it does when there is no
// manifest at all.
package projectcfg

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml"
)

// ManifestFileName is the conventional name looked for in a project root.
const ManifestFileName = "dp.toml"

// tomlManifest mirrors dp.toml's on-disk shape.
type tomlManifest struct {
	Project *tomlProject `toml:"project"`
}

type tomlProject struct {
	EntranceLabel string   `toml:"entrance-label,omitempty"`
	ImportRoots   []string `toml:"import-roots,omitempty"`
	CacheLimit    int      `toml:"cache-limit,omitempty"`
}

// Manifest is the resolved, defaulted settings a CLI or LSP front-end uses
// to configure a dp.CompilationSession and its resolver.
type Manifest struct {
	EntranceLabel string
	ImportRoots   []string
	CacheLimit    int
}

// Default returns the settings used when no dp.toml is present.
func Default() Manifest {
	return Manifest{
		EntranceLabel: "",
		ImportRoots:   nil,
		CacheLimit:    0,
	}
}

// Load reads and validates dp.toml from dir. A missing file is not an
// error: it resolves to Default(), since a manifest is an optional
// convenience, not a requirement (spec's core has no notion of one).
func Load(dir string) (Manifest, error) {
	path := filepath.Join(dir, ManifestFileName)
	buf, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Manifest{}, fmt.Errorf("read %s: %w", path, err)
	}

	tm := &tomlManifest{}
	if err := toml.Unmarshal(buf, tm); err != nil {
		return Manifest{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if tm.Project == nil {
		return Default(), nil
	}

	m := Manifest{
		EntranceLabel: tm.Project.EntranceLabel,
		ImportRoots:   tm.Project.ImportRoots,
		CacheLimit:    tm.Project.CacheLimit,
	}
	if err := validate(m); err != nil {
		return Manifest{}, err
	}
	return m, nil
}

func validate(m Manifest) error {
	if m.CacheLimit < 0 {
		return fmt.Errorf("dp.toml: cache-limit must be >= 0, got %d", m.CacheLimit)
	}
	for _, root := range m.ImportRoots {
		if root == "" {
			return fmt.Errorf("dp.toml: import-roots entries must not be empty")
		}
	}
	return nil
}
