// Package storage instantiates sync endpoints from their validated config
// sections. Each backend registers a factory under its `type` value and
// receives the section's flat parameter mapping, including the injected
// instance_name. Config loading does not know any of these parameters;
// every backend validates its own.
package storage

import (
	"context"
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// Storage is one configured sync endpoint.
type Storage interface {
	// InstanceName reports the name of the storage section this endpoint
	// was built from.
	InstanceName() string
	// DiscoverCollections lists the collection names the endpoint exposes,
	// in a stable order.
	DiscoverCollections(ctx context.Context) ([]string, error)
}

// Factory builds a storage from its flat config mapping.
type Factory func(ctx context.Context, cfg map[string]cty.Value) (Storage, error)

// Registry maps storage type names to their factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with all built-in backends registered.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]Factory{}}
	r.Register("filesystem", newFilesystem)
	r.Register("singlefile", newSinglefile)
	return r
}

// Register binds a factory to a type name, replacing any previous binding.
func (r *Registry) Register(typeName string, f Factory) {
	r.factories[typeName] = f
}

// New builds the storage described by cfg. The `type` parameter selects the
// factory; an unknown type is this layer's error to raise, not the config
// loader's.
func (r *Registry) New(ctx context.Context, cfg map[string]cty.Value) (Storage, error) {
	typeVal, ok := cfg["type"]
	if !ok || typeVal.IsNull() || typeVal.Type() != cty.String {
		return nil, fmt.Errorf("storage config has no usable type parameter")
	}
	typeName := typeVal.AsString()

	factory, ok := r.factories[typeName]
	if !ok {
		return nil, fmt.Errorf("unknown storage type %q", typeName)
	}
	st, err := factory(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("storage %q: %w", instanceName(cfg), err)
	}
	return st, nil
}

func instanceName(cfg map[string]cty.Value) string {
	v, ok := cfg["instance_name"]
	if !ok || v.IsNull() || v.Type() != cty.String {
		return "?"
	}
	return v.AsString()
}
