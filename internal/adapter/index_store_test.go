package adapter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/mouse-blink/ipynb2/internal/model"
)

func TestIndexStore_SaveAndLoad(t *testing.T) {
	store := NewIndexStore()
	dir := t.TempDir()

	entries := []m.ExportEntry{
		{File: "test_demo_cell2.py", Address: "<nb/demo.ipynb>[Cell2]", Notebook: "nb/demo.ipynb", Cell: 2, LineOffset: 3},
	}

	require.NoError(t, store.SaveIndex(m.Path(dir), entries))

	data, err := os.ReadFile(filepath.Join(dir, IndexFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"line_offset": 3`)

	loaded, err := store.LoadIndex(m.Path(dir))
	require.NoError(t, err)
	assert.Equal(t, entries, loaded)
}

func TestIndexStore_SaveEmpty(t *testing.T) {
	store := NewIndexStore()
	dir := t.TempDir()

	require.NoError(t, store.SaveIndex(m.Path(dir), nil))

	loaded, err := store.LoadIndex(m.Path(dir))
	require.NoError(t, err)
	assert.Empty(t, loaded)
}

func TestIndexStore_LoadErrors(t *testing.T) {
	store := NewIndexStore()

	_, err := store.LoadIndex(m.Path(t.TempDir()))
	assert.Error(t, err)

	dir := t.TempDir()
	writeTestFile(t, filepath.Join(dir, IndexFileName), "{")

	_, err = store.LoadIndex(m.Path(dir))
	assert.Error(t, err)
}
