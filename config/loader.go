package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// zoneFile is the on-disk layout of a zone table
type zoneFile struct {
	Zones []Zone `json:"zones"`
}

// LoadZoneTable reads a zone table from a JSON file.
// An empty path yields the built-in table.
func LoadZoneTable(path string) (*ZoneTable, error) {
	if path == "" {
		return NewZoneTable(DefaultZones)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read zones file: %w", err)
	}

	var file zoneFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse zones file: %w", err)
	}

	table, err := NewZoneTable(file.Zones)
	if err != nil {
		return nil, fmt.Errorf("zones file %s: %w", absPath, err)
	}
	return table, nil
}
