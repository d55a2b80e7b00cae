// Package manifest handles gap.toml session configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

// Manifest represents a gap.toml session configuration.
type Manifest struct {
	Session  Session        `toml:"session"`
	Kernel   KernelConfig   `toml:"kernel"`
	Snapshot SnapshotConfig `toml:"snapshot"`
	Regions  []RegionConfig `toml:"region"`

	// Dir is the directory containing the gap.toml file (set at load time).
	Dir string `toml:"-"`
}

// Session contains session metadata.
type Session struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// KernelConfig tunes the object kernel.
type KernelConfig struct {
	// MaxPrintDepth bounds the print engine's ancestor stack.
	MaxPrintDepth int `toml:"max-print-depth"`
	// SweepInterval is how often released bag masters are reclaimed,
	// as a Go duration string ("30s", "5m").
	SweepInterval string `toml:"sweep-interval"`
}

// SnapshotConfig configures snapshot output.
type SnapshotConfig struct {
	Output  string `toml:"output"`
	Catalog string `toml:"catalog"`
}

// RegionConfig declares a named region created at session start.
type RegionConfig struct {
	Name   string `toml:"name"`
	Public bool   `toml:"public"`
}

// Defaults applied when a field is absent from gap.toml.
const (
	DefaultMaxPrintDepth = 1024
	DefaultSweepInterval = 30 * time.Second
	DefaultOutput        = "session.gaps"
	DefaultCatalog       = "snapshots.db"
)

// Load parses a gap.toml file from the given directory.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, "gap.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if m.Kernel.MaxPrintDepth <= 0 {
		m.Kernel.MaxPrintDepth = DefaultMaxPrintDepth
	}
	if m.Kernel.SweepInterval == "" {
		m.Kernel.SweepInterval = DefaultSweepInterval.String()
	}
	if _, err := m.SweepInterval(); err != nil {
		return nil, fmt.Errorf("invalid sweep-interval in %s: %w", path, err)
	}
	if m.Snapshot.Output == "" {
		m.Snapshot.Output = DefaultOutput
	}
	if m.Snapshot.Catalog == "" {
		m.Snapshot.Catalog = DefaultCatalog
	}

	return &m, nil
}

// FindAndLoad walks up from startDir to find a gap.toml file, then loads
// and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "gap.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// SweepInterval returns the parsed sweep interval.
func (m *Manifest) SweepInterval() (time.Duration, error) {
	return time.ParseDuration(m.Kernel.SweepInterval)
}

// OutputPath returns the absolute path for snapshot output.
func (m *Manifest) OutputPath() string {
	return filepath.Join(m.Dir, m.Snapshot.Output)
}

// CatalogPath returns the absolute path of the snapshot catalog database.
func (m *Manifest) CatalogPath() string {
	return filepath.Join(m.Dir, m.Snapshot.Catalog)
}
