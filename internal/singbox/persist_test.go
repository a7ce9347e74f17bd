package singbox

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalDeterministic(t *testing.T) {
	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)

	first, err := Marshal(doc)
	require.NoError(t, err)
	second, err := Marshal(doc)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, doc))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	expected, err := Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, expected, data)

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err), "no temp file left behind")
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "deeper", "config.json")

	doc, err := Render(testProfile(t, testMaterial()))
	require.NoError(t, err)
	require.NoError(t, WriteFile(path, doc))

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
