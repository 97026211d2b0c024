package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, doc string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	return path
}

func TestRun_Help(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	err := run(out, []string{"-h"})
	require.NoError(t, err, "help is a clean exit")
	assert.Contains(t, out.String(), "Usage:")
}

func TestRun_Check(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "contacts"), 0o755))

	cfgPath := writeConfig(t, `
[general]
status_path = "`+base+`/status/"

[pair bob]
a = "bob_a"
b = "bob_b"
collections = null

[storage bob_a]
type = "filesystem"
path = "`+base+`"
fileext = ".vcf"

[storage bob_b]
type = "filesystem"
path = "`+base+`"
fileext = ".vcf"
`)

	out := &bytes.Buffer{}
	err := run(out, []string{"-c", cfgPath, "-log-level", "error", "check"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `storage "bob_a" ok`)
	assert.Contains(t, out.String(), `pair "bob" ok`)
}

func TestRun_Discover(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "contacts"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(base, "calendar"), 0o755))

	cfgPath := writeConfig(t, `
[general]
status_path = "`+base+`/status/"

[pair bob]
a = "bob_a"
b = "bob_b"
collections = null

[storage bob_a]
type = "filesystem"
path = "`+base+`"
fileext = ".vcf"

[storage bob_b]
type = "filesystem"
path = "`+base+`"
fileext = ".vcf"
`)

	out := &bytes.Buffer{}
	err := run(out, []string{"-c", cfgPath, "-log-level", "error", "discover"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), `pair "bob":`)
	assert.Contains(t, out.String(), "contacts")
	assert.Contains(t, out.String(), "calendar")
}

func TestRun_InvalidConfigSurfacesProblems(t *testing.T) {
	t.Parallel()

	cfgPath := writeConfig(t, `
[general]
wrong = true
`)

	out := &bytes.Buffer{}
	err := run(out, []string{"-c", cfgPath, "check"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid general section.")
	assert.Contains(t, err.Error(), "doesn't take the parameters: wrong")
}

func TestRun_MissingConfigFile(t *testing.T) {
	t.Parallel()

	err := run(&bytes.Buffer{}, []string{"-c", filepath.Join(t.TempDir(), "nope"), "check"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening config file")
}
