package character

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFromBytes parses and validates a single character definition.
//
// Precondition: data must be YAML for one Character.
// Postcondition: Returns a validated *Character of the requested kind, or an error.
// A missing kind field is filled in; a conflicting one is an error.
func LoadFromBytes(data []byte, kind Kind) (*Character, error) {
	var raw struct {
		Kind *string `yaml:"kind"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing character YAML: %w", err)
	}

	var c Character
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parsing character YAML: %w", err)
	}
	if raw.Kind == nil {
		c.Kind = kind
	} else if c.Kind != kind {
		return nil, fmt.Errorf("character %q: kind %s does not match expected %s", c.ID, c.Kind, kind)
	}
	if c.Level == 0 {
		c.Level = 1
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// LoadTemplates reads every *.yaml file in dir as a character of the given kind.
//
// Precondition: dir must be a readable directory.
// Postcondition: Returns characters sorted by ID, or an error on the first parse
// or validation failure or a duplicate ID.
func LoadTemplates(dir string, kind Kind) ([]*Character, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s dir %q: %w", kind, dir, err)
	}

	seen := make(map[string]string)
	var out []*Character
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %q: %w", path, err)
		}
		c, err := LoadFromBytes(data, kind)
		if err != nil {
			return nil, fmt.Errorf("loading %q: %w", path, err)
		}
		if prev, dup := seen[c.ID]; dup {
			return nil, fmt.Errorf("loading %q: duplicate %s id %q (first defined in %q)", path, kind, c.ID, prev)
		}
		seen[c.ID] = path
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}
