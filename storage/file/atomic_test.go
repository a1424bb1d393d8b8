package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")

	require.NoError(t, WriteAtomic(context.Background(), dest, strings.NewReader("hello"), 0o644))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assertNoTempFiles(t, dir)
}

func TestWriteAtomic_ReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(dest, []byte("old contents that are longer"), 0o644))

	require.NoError(t, WriteAtomic(context.Background(), dest, strings.NewReader("new"), 0o644))

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestWriteAtomic_CreatesDirectory(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "nested", "deeper", "out.json")

	require.NoError(t, WriteAtomic(context.Background(), dest, strings.NewReader("{}"), 0o644))

	_, err := os.Stat(dest)
	assert.NoError(t, err)
}

func TestWriteAtomic_CancelledKeepsOldContents(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "out.csv")
	require.NoError(t, os.WriteFile(dest, []byte("old"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := WriteAtomic(ctx, dest, strings.NewReader("new"), 0o644)
	require.ErrorIs(t, err, context.Canceled)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
	assertNoTempFiles(t, dir)
}

func assertNoTempFiles(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	for _, e := range entries {
		assert.False(t, strings.HasPrefix(e.Name(), ".tmp-"), "leftover temp file %s", e.Name())
	}
}
