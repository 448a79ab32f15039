package adapter

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

//go:embed nbformat.v4.schema.json
var nbformatSchema string

const nbformatSchemaURL = "https://ipynb2.local/nbformat.v4.schema.json"

// NotebookAdapter decodes and validates raw notebook bytes.
type NotebookAdapter interface {
	// Decode validates data against the nbformat v4 schema and returns the
	// cells with their sources concatenated. Any failure wraps m.ErrFormat.
	Decode(data []byte) (m.RawNotebook, error)
}

// LocalNotebookAdapter validates with an embedded JSON Schema.
type LocalNotebookAdapter struct {
	schema *jsonschema.Schema
}

// NewLocalNotebookAdapter compiles the embedded schema.
func NewLocalNotebookAdapter() *LocalNotebookAdapter {
	return &LocalNotebookAdapter{schema: jsonschema.MustCompileString(nbformatSchemaURL, nbformatSchema)}
}

type notebookDocument struct {
	NBFormat      int            `json:"nbformat"`
	NBFormatMinor int            `json:"nbformat_minor"`
	Cells         []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string          `json:"cell_type"`
	Source   json.RawMessage `json:"source"`
}

// Decode implements NotebookAdapter.
func (a *LocalNotebookAdapter) Decode(data []byte) (m.RawNotebook, error) {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	var generic interface{}
	if err := decoder.Decode(&generic); err != nil {
		return m.RawNotebook{}, fmt.Errorf("%w: %w", m.ErrFormat, err)
	}

	if decoder.More() {
		return m.RawNotebook{}, fmt.Errorf("%w: trailing data after notebook document", m.ErrFormat)
	}

	if err := a.schema.Validate(generic); err != nil {
		return m.RawNotebook{}, fmt.Errorf("%w: %w", m.ErrFormat, err)
	}

	var doc notebookDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return m.RawNotebook{}, fmt.Errorf("%w: %w", m.ErrFormat, err)
	}

	raw := m.RawNotebook{
		Format:      doc.NBFormat,
		FormatMinor: doc.NBFormatMinor,
		Cells:       make([]m.RawCell, 0, len(doc.Cells)),
	}

	for i, cell := range doc.Cells {
		source, err := decodeSource(cell.Source)
		if err != nil {
			return m.RawNotebook{}, fmt.Errorf("%w: cell %d: %w", m.ErrFormat, i, err)
		}

		raw.Cells = append(raw.Cells, m.RawCell{Type: cell.CellType, Source: source})
	}

	return raw, nil
}

// decodeSource accepts both storage forms of a cell source: one string, or a
// list of strings that are concatenated as-is.
func decodeSource(raw json.RawMessage) (string, error) {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		return text, nil
	}

	var pieces []string
	if err := json.Unmarshal(raw, &pieces); err != nil {
		return "", fmt.Errorf("source is neither a string nor a list of strings: %w", err)
	}

	return strings.Join(pieces, ""), nil
}
