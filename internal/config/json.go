package config

import (
	"encoding/json"
	"fmt"
	"os"

	"wafermap/internal/wafer"
)

// LoadJSON reads and validates a JSON document. Like LoadHCL it overlays
// the file on Default: sections left out keep their defaults. A lattice
// section replaces the whole lattice and drops the reference die list.
func LoadJSON(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	doc := Default()
	if _, ok := sections["lattice"]; ok {
		doc.Lattice = wafer.Lattice{}
		doc.Members = Members{}
	}
	if _, ok := sections["members"]; ok {
		doc.Members = Members{}
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	doc.normalize()

	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Save writes the document as indented JSON, whatever the extension.
func (d *Document) Save(path string) error {
	if d.Version == 0 {
		d.Version = CurrentVersion
	}

	data, err := json.MarshalIndent(d, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
