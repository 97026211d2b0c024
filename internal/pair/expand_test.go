package pair

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/Croissong/vdirsyncer/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStorage is a stand-in endpoint with a fixed collection list.
type fakeStorage struct {
	name        string
	collections []string
	err         error
}

func (s *fakeStorage) InstanceName() string { return s.name }

func (s *fakeStorage) DiscoverCollections(context.Context) ([]string, error) {
	return s.collections, s.err
}

func pairConfig(t *testing.T, collectionsLiteral string) *config.PairConfig {
	t.Helper()
	doc := `
[general]
status_path = "/tmp/status/"

[pair bob]
a = "bob_a"
b = "bob_b"
collections = ` + collectionsLiteral + "\n"

	conf, err := config.Read(context.Background(), "config", strings.NewReader(doc))
	require.NoError(t, err)
	return conf.Pairs["bob"]
}

func TestExpand_ExplicitList(t *testing.T) {
	t.Parallel()

	p := pairConfig(t, `["plain", ["aliased", "on_a", "on_b"], ["defaulted", null, null], ["half", null, "other_b"]]`)

	jobs, err := Expand(context.Background(), p, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []CollectionJob{
		{Pair: "bob", Alias: "plain", A: "plain", B: "plain"},
		{Pair: "bob", Alias: "aliased", A: "on_a", B: "on_b"},
		{Pair: "bob", Alias: "defaulted", A: "defaulted", B: "defaulted"},
		{Pair: "bob", Alias: "half", A: "half", B: "other_b"},
	}, jobs)
}

func TestExpand_NullDiscoversIntersection(t *testing.T) {
	t.Parallel()

	p := pairConfig(t, "null")
	a := &fakeStorage{name: "bob_a", collections: []string{"shared", "only_a", "both"}}
	b := &fakeStorage{name: "bob_b", collections: []string{"both", "only_b", "shared"}}

	jobs, err := Expand(context.Background(), p, a, b)
	require.NoError(t, err)

	assert.Equal(t, []CollectionJob{
		{Pair: "bob", Alias: "shared", A: "shared", B: "shared"},
		{Pair: "bob", Alias: "both", A: "both", B: "both"},
	}, jobs, "intersection in side a's order")
}

func TestExpand_DiscoveryErrorIsAttributed(t *testing.T) {
	t.Parallel()

	p := pairConfig(t, "null")
	boom := errors.New("boom")
	a := &fakeStorage{name: "bob_a", collections: []string{"x"}}
	b := &fakeStorage{name: "bob_b", err: boom}

	_, err := Expand(context.Background(), p, a, b)
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), `pair "bob", side b`)
}

func TestExpand_EmptyListMeansNoJobs(t *testing.T) {
	t.Parallel()

	p := pairConfig(t, "[]")

	jobs, err := Expand(context.Background(), p, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}
