package dialogue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ParseProfile decodes a profile from JSON or YAML, chosen by the file
// extension in name (".json", ".yaml", ".yml"), and indexes its sets.
// Parsing does not validate; call Validate for authoring checks.
func ParseProfile(name string, data []byte) (*Profile, error) {
	var p Profile
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to parse profile JSON %s: %w", name, err)
		}
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&p); err != nil {
			return nil, fmt.Errorf("failed to parse profile YAML %s: %w", name, err)
		}
	default:
		return nil, fmt.Errorf("unsupported profile format: %s", name)
	}

	for _, s := range []*Set{p.Pickup, p.Ride} {
		if s == nil {
			continue
		}
		if err := s.Index(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", p.ID, err)
		}
	}
	return &p, nil
}

// LoadProfile reads and parses a profile file.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file: %w", err)
	}
	return ParseProfile(path, data)
}
