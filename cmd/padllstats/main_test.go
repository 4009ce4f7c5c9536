package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/padll/iointerpose/internal/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	m, err := parseMode("table")
	require.NoError(t, err)
	assert.Equal(t, stats.Table, m)

	m, err = parseMode("lines")
	require.NoError(t, err)
	assert.Equal(t, stats.Lines, m)

	_, err = parseMode("xml")
	assert.Error(t, err)
}

func TestRunRendersReport(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "padll.12345.stats")
	require.NoError(t, os.WriteFile(path, []byte("data.read ops=1 bytes=64 errors=0 bypasses=0\n"), 0600))

	out, err := os.CreateTemp(dir, "out")
	require.NoError(t, err)
	defer out.Close()

	require.NoError(t, run(path, stats.Table, out))

	contents, err := os.ReadFile(out.Name())
	require.NoError(t, err)
	assert.Contains(t, string(contents), "CATEGORY")
	assert.Contains(t, string(contents), "read")
}

func TestRunMissingFile(t *testing.T) {
	err := run(filepath.Join(t.TempDir(), "missing"), stats.Table, os.Stdout)
	assert.Error(t, err)
}
