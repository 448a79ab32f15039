package adapter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

// IndexFileName is the name of the export index written next to the modules.
const IndexFileName = "index.json"

// IndexStore persists the mapping from exported module files to test cells.
type IndexStore interface {
	SaveIndex(dir m.Path, entries []m.ExportEntry) error
	LoadIndex(dir m.Path) ([]m.ExportEntry, error)
}

type indexStore struct{}

// NewIndexStore constructs an IndexStore writing IndexFileName in a directory.
func NewIndexStore() IndexStore {
	return &indexStore{}
}

func (s *indexStore) SaveIndex(dir m.Path, entries []m.ExportEntry) error {
	if entries == nil {
		entries = []m.ExportEntry{}
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode index: %w", err)
	}

	path := filepath.Join(string(dir), IndexFileName)
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return fmt.Errorf("failed to write index %s: %w", path, err)
	}

	return nil
}

func (s *indexStore) LoadIndex(dir m.Path) ([]m.ExportEntry, error) {
	path := filepath.Join(string(dir), IndexFileName)

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read index %s: %w", path, err)
	}

	var entries []m.ExportEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode index %s: %w", path, err)
	}

	return entries, nil
}
