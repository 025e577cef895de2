package atomicfile

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.go")

	assert.NoError(t, Write(path, []byte("first"), 0o644))
	got, err := os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "first", string(got))

	assert.NoError(t, Write(path, []byte("second"), 0o600))
	got, err = os.ReadFile(path)
	assert.NoError(t, err)
	assert.Equal(t, "second", string(got))

	info, err := os.Stat(path)
	assert.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	// No temp files are left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	assert.NoError(t, err)
	assert.Equal(t, 1, len(entries))
}

func TestRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gone")
	assert.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	assert.NoError(t, Remove(path))
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, Remove(path))
}
