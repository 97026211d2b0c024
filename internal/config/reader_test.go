package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFrom(t *testing.T, doc string) ([]*RawSection, error) {
	t.Helper()
	return readSections("config", strings.NewReader(doc))
}

func TestReadSections_SplitsDocument(t *testing.T) {
	t.Parallel()

	sections, err := readFrom(t, `
# top comment
[general]
status_path = /tmp/status/

[pair bob]
a = "bob_a"
b = "bob_b"
collections = null

[storage bob_a]
type = "filesystem"
number = 42
`)
	require.NoError(t, err)
	require.Len(t, sections, 3)

	general := sections[0]
	assert.Equal(t, KindGeneral, general.Kind)
	assert.Empty(t, general.Name)
	item, ok := general.Get("status_path")
	require.True(t, ok)
	assert.Equal(t, "/tmp/status/", item.Raw, "values stay raw text at this stage")
	assert.Equal(t, 4, item.Subject.Start.Line)

	pairSec := sections[1]
	assert.Equal(t, KindPair, pairSec.Kind)
	assert.Equal(t, "bob", pairSec.Name)
	require.Len(t, pairSec.Items, 3)
	assert.Equal(t, []string{"a", "b", "collections"},
		[]string{pairSec.Items[0].Key, pairSec.Items[1].Key, pairSec.Items[2].Key},
		"items keep document order")

	storageSec := sections[2]
	assert.Equal(t, KindStorage, storageSec.Kind)
	assert.Equal(t, "bob_a", storageSec.Name)
	item, ok = storageSec.Get("number")
	require.True(t, ok)
	assert.Equal(t, "42", item.Raw)
}

func TestReadSections_DuplicateNames(t *testing.T) {
	t.Parallel()

	t.Run("same kind same name fails", func(t *testing.T) {
		t.Parallel()

		_, err := readFrom(t, `
[storage foobar]
type = "filesystem"

[storage foobar]
type = "filesystem"
`)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"foobar"`, "the duplicate name must be cited literally")

		var structErr *StructureError
		require.ErrorAs(t, err, &structErr)
		assert.Equal(t, 5, structErr.Subject.Start.Line)
	})

	t.Run("same name across kinds is fine", func(t *testing.T) {
		t.Parallel()

		sections, err := readFrom(t, `
[pair foobar]
a = "x"

[storage foobar]
type = "filesystem"
`)
		require.NoError(t, err)
		assert.Len(t, sections, 2)
	})

	t.Run("repeated general section fails", func(t *testing.T) {
		t.Parallel()

		_, err := readFrom(t, "[general]\n\n[general]\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "More than one general section")
	})
}

func TestReadSections_HeaderRules(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{"unknown kind", "[bogus]\n", "Unknown section"},
		{"unknown kind keeps its name", "[bogus thing]\n", `"bogus"`},
		{"general with a name", "[general stuff]\n", "takes no name"},
		{"pair without a name", "[pair]\n", "requires a name"},
		{"storage without a name", "[storage]\n", "requires a name"},
		{"too many header fields", "[storage a b]\n", "Expected [kind] or [kind name]"},
		{"unterminated header", "[storage a\n", "Unterminated section header"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := readFrom(t, tc.doc)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestReadSections_KeyLineRules(t *testing.T) {
	t.Parallel()

	t.Run("key before any section", func(t *testing.T) {
		t.Parallel()

		_, err := readFrom(t, "status_path = /tmp/\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "before any section header")
	})

	t.Run("line without equals sign", func(t *testing.T) {
		t.Parallel()

		_, err := readFrom(t, "[general]\nstatus_path\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Expected section header or key = value")
	})

	t.Run("duplicate key in one section", func(t *testing.T) {
		t.Parallel()

		_, err := readFrom(t, "[general]\nstatus_path = /a/\nstatus_path = /b/\n")
		require.Error(t, err)
		assert.Contains(t, err.Error(), `"status_path"`)
		assert.Contains(t, err.Error(), "twice")
	})

	t.Run("value may contain equals signs", func(t *testing.T) {
		t.Parallel()

		sections, err := readFrom(t, "[storage s]\ntype = \"filesystem\"\nurl = \"http://x/?a=b\"\n")
		require.NoError(t, err)
		item, ok := sections[0].Get("url")
		require.True(t, ok)
		assert.Equal(t, `"http://x/?a=b"`, item.Raw)
	})
}
