package manifest

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"
)

// Parse unmarshals YAML data into a Variant without schema validation.
func Parse(data []byte) (*Variant, error) {
	var v Variant
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("parsing variant manifest: %w", err)
	}
	return &v, nil
}

// ParseFile reads a manifest file and parses it without schema validation.
func ParseFile(path string) (*Variant, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Load validates data against the variant schema, parses it, and checks that
// the resulting directory names do not collide.
func Load(data []byte) (*Variant, error) {
	result, err := Validate(data)
	if err != nil {
		return nil, err
	}
	if !result.Valid {
		return nil, fmt.Errorf("invalid variant manifest: %s", result.Summary())
	}

	v, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := v.Check(); err != nil {
		return nil, err
	}
	return v, nil
}

// LoadFile reads and loads a user-supplied manifest.
func LoadFile(path string) (*Variant, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	v, err := Load(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return v, nil
}

// Check reports duplicate or colliding entry names. The schema cannot express
// uniqueness across the languages and auxiliary lists.
func (v *Variant) Check() error {
	seen := map[string]string{PropertiesFile: "properties file"}
	for _, l := range v.Languages {
		if prev, ok := seen[l.Code]; ok {
			return fmt.Errorf("variant %q: language %q collides with %s", v.Name, l.Code, prev)
		}
		seen[l.Code] = "language " + l.Code
	}
	for _, a := range v.Auxiliary {
		if prev, ok := seen[a]; ok {
			return fmt.Errorf("variant %q: auxiliary directory %q collides with %s", v.Name, a, prev)
		}
		seen[a] = "auxiliary directory " + a
	}
	return nil
}

// Marshal renders the variant as YAML.
func (v *Variant) Marshal() ([]byte, error) {
	var b strings.Builder
	enc := yaml.NewEncoder(&b)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("encoding variant %q: %w", v.Name, err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding variant %q: %w", v.Name, err)
	}
	return []byte(b.String()), nil
}

// readFile reads the contents of a file at the given path.
func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", path, err)
	}
	return data, nil
}
