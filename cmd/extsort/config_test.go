package main

import (
	"os"
	"path/filepath"
	"testing"

	"gotest.tools/v3/assert"
)

func TestLoadConfigFile_ParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	contents := "input: in.txt\noutput: out.txt\nsort: desc\nthreads: 4\nchunk_size_bytes: 1024\n"
	assert.NilError(t, os.WriteFile(path, []byte(contents), 0o600))

	cfg, err := loadConfigFile(path)
	assert.NilError(t, err)
	assert.Equal(t, cfg.Input, "in.txt")
	assert.Equal(t, cfg.Sort, "desc")
	assert.Equal(t, cfg.Threads, 4)
	assert.Equal(t, cfg.ChunkSizeBytes, 1024)
}

func TestLoadConfigFile_EmptyPathReturnsZeroValue(t *testing.T) {
	cfg, err := loadConfigFile("")
	assert.NilError(t, err)
	assert.Equal(t, cfg.Input, "")
}

func TestOverrideString_PrefersNonDefaultFlag(t *testing.T) {
	assert.Equal(t, overrideString("desc", "asc", "ignored"), "desc")
	assert.Equal(t, overrideString("asc", "asc", "from-file"), "from-file")
	assert.Equal(t, overrideString("asc", "asc", ""), "asc")
}

func TestOverrideInt_PrefersNonDefaultFlag(t *testing.T) {
	assert.Equal(t, overrideInt(8, 0, 4), 8)
	assert.Equal(t, overrideInt(0, 0, 4), 4)
	assert.Equal(t, overrideInt(0, 0, 0), 0)
}
