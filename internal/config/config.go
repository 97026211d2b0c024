// Package config loads and validates the configuration document of the
// synchronization tool. It is the single place where free-form user text
// becomes typed data the rest of the program trusts without re-checking:
// a document either loads completely, yielding an immutable Config, or the
// load fails with a UserError describing every problem found in the
// offending section.
package config

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Croissong/vdirsyncer/internal/ctxlog"
	"github.com/zclconf/go-cty/cty"
)

// GeneralConfig holds the options of the general section.
type GeneralConfig map[string]cty.Value

// StatusPath returns the configured status directory.
func (g GeneralConfig) StatusPath() string {
	v := g["status_path"]
	if v.IsNull() || v.Type() != cty.String {
		return ""
	}
	return v.AsString()
}

// PairConfig declares a synchronization relationship between two storages.
type PairConfig struct {
	Name string
	// A and B name the two storage sections this pair connects. Whether
	// those sections exist is checked lazily by the layer instantiating
	// the storages, not here.
	A string
	B string
	// Collections is null ("sync everything discoverable") or a validated
	// list of names and (alias, a, b) triples.
	Collections cty.Value
	// Options carries any further parameters opaquely to the sync layer.
	Options map[string]cty.Value
}

// StorageConfig is the flat parameter mapping handed to the storage layer,
// always including `type` and the injected `instance_name`.
type StorageConfig map[string]cty.Value

// Config is the fully validated configuration document.
type Config struct {
	General  GeneralConfig
	Pairs    map[string]*PairConfig
	Storages map[string]StorageConfig
}

// Read parses and validates a whole configuration document. filename is
// only used in diagnostics. The returned error, if any, is a *UserError.
//
// Ambiguous values that fall back to strings are reported as warnings on
// the context logger; they never fail the load.
func Read(ctx context.Context, filename string, src io.Reader) (*Config, error) {
	sections, err := readSections(filename, src)
	if err != nil {
		return nil, newUserError(err, "Error parsing config:")
	}

	cfg := &Config{
		Pairs:    map[string]*PairConfig{},
		Storages: map[string]StorageConfig{},
	}

	for _, sec := range sections {
		values, err := parseSectionValues(ctx, sec)
		if err != nil {
			return nil, err
		}

		switch sec.Kind {
		case KindGeneral:
			general, err := validateGeneral(values)
			if err != nil {
				return nil, asUserError(err)
			}
			cfg.General = general
		case KindPair:
			pair, err := validatePair(sec.Name, values)
			if err != nil {
				return nil, asUserError(err)
			}
			cfg.Pairs[sec.Name] = pair
		case KindStorage:
			storage, err := validateStorage(sec.Name, values)
			if err != nil {
				return nil, asUserError(err)
			}
			cfg.Storages[sec.Name] = storage
		}
	}

	if cfg.General == nil {
		return nil, &UserError{
			Message:  "Invalid general section.",
			Problems: []string{"general section is missing"},
		}
	}
	return cfg, nil
}

// Load reads the configuration file at path.
func Load(ctx context.Context, path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening config file: %w", err)
	}
	defer f.Close()
	return Read(ctx, path, f)
}

// parseSectionValues runs the scalar parser over every raw item of one
// section, logging non-fatal parse warnings through the context logger.
func parseSectionValues(ctx context.Context, sec *RawSection) (map[string]cty.Value, error) {
	logger := ctxlog.FromContext(ctx)

	values := make(map[string]cty.Value, len(sec.Items))
	for _, item := range sec.Items {
		v, warnings, err := ParseValue(item.Raw)
		if err != nil {
			return nil, newUserError(err,
				"Error parsing value of %q in %s section:", item.Key, sec.Label())
		}
		for _, w := range warnings {
			logger.Warn(w, "section", sec.Label(), "key", item.Key, "position", item.Subject.String())
		}
		values[item.Key] = v
	}
	return values, nil
}

func asUserError(err error) *UserError {
	if ue, ok := err.(*UserError); ok {
		return ue
	}
	return &UserError{Message: err.Error(), cause: err}
}
