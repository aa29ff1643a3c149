package diskutil

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestUsage_SumsRegularFileSizes(t *testing.T) {
	dir := t.TempDir()

	assert.NilError(t, os.WriteFile(filepath.Join(dir, "a"), make([]byte, 10), 0o600))
	sub := filepath.Join(dir, "sub")
	assert.NilError(t, os.Mkdir(sub, 0o700))
	assert.NilError(t, os.WriteFile(filepath.Join(sub, "b"), make([]byte, 20), 0o600))

	total, err := Usage(dir)
	assert.NilError(t, err)
	assert.Equal(t, total, int64(30))
}

func TestUsage_EmptyDir(t *testing.T) {
	total, err := Usage(t.TempDir())
	assert.NilError(t, err)
	assert.Equal(t, total, int64(0))
}
