package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/remiblancher/mceliece/pkg/digest"
	"github.com/remiblancher/mceliece/pkg/mceliece"
	"github.com/remiblancher/mceliece/profiles"
)

// ErrNotFound is returned by Load when no builtin profile or file matches.
var ErrNotFound = errors.New("profile not found")

// profileYAML is the YAML representation of a Profile.
type profileYAML struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
	Algorithm   string `yaml:"algorithm"`
	M           int    `yaml:"m"`
	T           int    `yaml:"t"`
	FieldPoly   string `yaml:"field_poly,omitempty"` // "0x805"
	Digest      string `yaml:"digest,omitempty"`
}

// LoadFromBytes parses and validates a YAML profile.
func LoadFromBytes(data []byte) (*Profile, error) {
	var py profileYAML
	if err := yaml.Unmarshal(data, &py); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	poly, err := parseFieldPoly(py.FieldPoly)
	if err != nil {
		return nil, err
	}
	p := &Profile{
		Name:        py.Name,
		Description: py.Description,
		Algorithm:   mceliece.AlgorithmID(py.Algorithm),
		M:           py.M,
		T:           py.T,
		FieldPoly:   poly,
	}
	if py.Digest != "" {
		if p.Digest, err = digest.Parse(py.Digest); err != nil {
			return nil, err
		}
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// LoadFile loads a profile from a YAML file.
func LoadFile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}
	return LoadFromBytes(data)
}

// Builtin returns the embedded profiles keyed by name.
func Builtin() (map[string]*Profile, error) {
	result := make(map[string]*Profile)

	err := fs.WalkDir(profiles.FS, ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if ext := filepath.Ext(d.Name()); ext != ".yaml" && ext != ".yml" {
			return nil
		}

		data, err := profiles.FS.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		p, err := LoadFromBytes(data)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", path, err)
		}
		if _, exists := result[p.Name]; exists {
			return fmt.Errorf("duplicate profile name: %s", p.Name)
		}
		result[p.Name] = p
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load builtin profiles: %w", err)
	}
	return result, nil
}

// List returns the builtin profile names in sorted order.
func List() ([]string, error) {
	all, err := Builtin()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Load resolves nameOrPath as a builtin profile name first and as a file
// path otherwise.
func Load(nameOrPath string) (*Profile, error) {
	all, err := Builtin()
	if err != nil {
		return nil, err
	}
	if p, ok := all[nameOrPath]; ok {
		return p, nil
	}
	if _, err := os.Stat(nameOrPath); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, nameOrPath)
	}
	return LoadFile(nameOrPath)
}

// MarshalYAML renders p in the file format read by LoadFromBytes.
func (p *Profile) MarshalYAML() (interface{}, error) {
	return profileYAML{
		Name:        p.Name,
		Description: p.Description,
		Algorithm:   string(p.Algorithm),
		M:           p.M,
		T:           p.T,
		FieldPoly:   formatFieldPoly(p.FieldPoly),
		Digest:      string(p.Digest),
	}, nil
}

// SaveFile writes p as YAML to path.
func SaveFile(p *Profile, path string) error {
	data, err := yaml.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}
	return nil
}
