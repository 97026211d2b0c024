package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// singlefileOptions are the parameters of a `type = "singlefile"` storage.
// Path must contain exactly one %s placeholder naming the collection, e.g.
// `~/calendars/%s.ics`.
type singlefileOptions struct {
	Path string `cty:"path"`
}

// Singlefile keeps each collection in one file matching a path pattern.
type Singlefile struct {
	name    string
	pattern string
}

func newSinglefile(_ context.Context, cfg map[string]cty.Value) (Storage, error) {
	var opts singlefileOptions
	if err := decodeOptions(cfg, &opts); err != nil {
		return nil, err
	}
	if strings.Count(opts.Path, "%s") != 1 {
		return nil, fmt.Errorf("path %q must contain exactly one %%s placeholder", opts.Path)
	}
	pattern, err := expandPath(opts.Path)
	if err != nil {
		return nil, err
	}
	return &Singlefile{name: instanceName(cfg), pattern: pattern}, nil
}

func (s *Singlefile) InstanceName() string { return s.name }

// DiscoverCollections globs the path pattern and recovers the collection
// name from the part the placeholder matched.
func (s *Singlefile) DiscoverCollections(_ context.Context) ([]string, error) {
	prefix, suffix, _ := strings.Cut(s.pattern, "%s")
	matches, err := filepath.Glob(prefix + "*" + suffix)
	if err != nil {
		return nil, fmt.Errorf("discovering collections for pattern %q: %w", s.pattern, err)
	}

	var collections []string
	for _, m := range matches {
		name := strings.TrimSuffix(strings.TrimPrefix(m, prefix), suffix)
		if name != "" {
			collections = append(collections, name)
		}
	}
	sort.Strings(collections)
	return collections, nil
}
