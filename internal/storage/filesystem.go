package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Croissong/vdirsyncer/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// filesystemOptions are the parameters of a `type = "filesystem"` storage.
type filesystemOptions struct {
	Path    string `cty:"path"`
	Fileext string `cty:"fileext"`
}

// Filesystem exposes one directory per collection beneath a base path,
// with one file per item carrying a fixed extension.
type Filesystem struct {
	name    string
	path    string
	fileext string
}

func newFilesystem(_ context.Context, cfg map[string]cty.Value) (Storage, error) {
	var opts filesystemOptions
	if err := decodeOptions(cfg, &opts); err != nil {
		return nil, err
	}
	path, err := expandPath(opts.Path)
	if err != nil {
		return nil, err
	}
	return &Filesystem{
		name:    instanceName(cfg),
		path:    path,
		fileext: opts.Fileext,
	}, nil
}

func (s *Filesystem) InstanceName() string { return s.name }

// DiscoverCollections lists the subdirectories of the base path.
func (s *Filesystem) DiscoverCollections(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.path)
	if err != nil {
		return nil, fmt.Errorf("discovering collections under %q: %w", s.path, err)
	}

	logger := ctxlog.FromContext(ctx)
	var collections []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		collections = append(collections, entry.Name())
		items, _ := filepath.Glob(filepath.Join(s.path, entry.Name(), "*"+s.fileext))
		logger.Debug("Discovered collection.",
			"storage", s.name, "collection", entry.Name(), "items", len(items))
	}
	sort.Strings(collections)
	return collections, nil
}

// expandPath resolves a leading ~ against the user's home directory.
func expandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("expanding %q: %w", path, err)
		}
		return filepath.Join(home, strings.TrimPrefix(path[1:], "/")), nil
	}
	return path, nil
}
