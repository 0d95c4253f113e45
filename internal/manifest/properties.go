package manifest

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Encode renders the record as written to properties.json: two-space
// indentation, no HTML escaping, no trailing newline.
func (p Properties) Encode() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(p); err != nil {
		return nil, fmt.Errorf("encoding %s: %w", PropertiesFile, err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Check validates the record against the properties schema, so a step is
// never scaffolded with metadata that validate would later reject.
func (p Properties) Check() error {
	data, err := p.Encode()
	if err != nil {
		return err
	}
	result, err := ValidateProperties(data)
	if err != nil {
		return err
	}
	if !result.Valid {
		return fmt.Errorf("invalid %s: %s", PropertiesFile, result.Summary())
	}
	return nil
}
