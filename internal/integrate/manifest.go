// Package integrate installs a feature package into a template project: it
// copies the feature's files, registers its reducer in the store index and
// adds a navigation entry, reporting each step as it goes.
package integrate

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ManifestName is the manifest file expected at the root of a feature directory.
const ManifestName = "install.yaml"

// ErrInvalidManifest wraps manifest parse and validation failures.
var ErrInvalidManifest = errors.New("integrate: invalid manifest")

// FileMapping copies From (relative to the feature) to To (relative to the project).
type FileMapping struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// StoreEntry registers a reducer in the store index.
type StoreEntry struct {
	Import      string `yaml:"import"`
	ReducerKey  string `yaml:"reducer_key"`
	ReducerName string `yaml:"reducer_name"`
}

// NavEntry is one navigation.json item.
type NavEntry struct {
	Title string `yaml:"title" json:"title"`
	Path  string `yaml:"path" json:"path"`
	Icon  string `yaml:"icon,omitempty" json:"icon,omitempty"`
}

// Manifest is the parsed install.yaml.
type Manifest struct {
	Name       string        `yaml:"name"`
	Files      []FileMapping `yaml:"files"`
	Store      *StoreEntry   `yaml:"store"`
	Navigation *NavEntry     `yaml:"navigation"`
}

// ParseManifest decodes and validates manifest bytes.
func ParseManifest(b []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidManifest, err)
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadManifest reads install.yaml from featureDir.
func LoadManifest(featureDir string) (*Manifest, error) {
	b, err := os.ReadFile(filepath.Join(featureDir, ManifestName))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", ManifestName, err)
	}
	return ParseManifest(b)
}

func (m *Manifest) validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidManifest)
	}
	for i, f := range m.Files {
		if !localPath(f.From) || !localPath(f.To) {
			return fmt.Errorf("%w: files[%d] must use relative paths inside the feature and project", ErrInvalidManifest, i)
		}
	}
	if s := m.Store; s != nil {
		if s.ReducerKey == "" || s.ReducerName == "" || s.Import == "" {
			return fmt.Errorf("%w: store needs import, reducer_key and reducer_name", ErrInvalidManifest)
		}
	}
	if n := m.Navigation; n != nil {
		if n.Title == "" || n.Path == "" {
			return fmt.Errorf("%w: navigation needs title and path", ErrInvalidManifest)
		}
	}
	return nil
}

func localPath(p string) bool {
	return p != "" && filepath.IsLocal(filepath.FromSlash(p))
}
