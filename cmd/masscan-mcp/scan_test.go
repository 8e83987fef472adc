//go:build unix

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMasscan puts a shell script named masscan first on PATH.
func fakeMasscan(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, "masscan")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755)) //nolint:gosec
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestScanCommand(t *testing.T) {
	fakeMasscan(t, `printf '%s\n' "$@"`)

	out := runCommand(t, "scan", "10.0.0.1", "80", "--", "--banners")

	assert.Contains(t, out, "Masscan output:\n-p80\n10.0.0.1\n--banners")
	assert.Contains(t, out, "Scan completed successfully.")
}

func TestScanCommand_NonZeroExit(t *testing.T) {
	fakeMasscan(t, `echo "bad port"; exit 2`)

	out := runCommand(t, "scan", "10.0.0.1", "99999")

	assert.Contains(t, out, "Masscan exited with code 2.")
	assert.Contains(t, out, "bad port")
	assert.NotContains(t, out, "Scan completed successfully.")
}

func TestScanCommand_BinaryFlag(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "my-masscan")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho \"custom $1\"\n"), 0o755)) //nolint:gosec

	out := runCommand(t, "scan", "--binary", path, "10.0.0.1", "443")

	assert.Contains(t, out, "custom -p443")
	assert.Contains(t, out, "Scan completed successfully.")
}
