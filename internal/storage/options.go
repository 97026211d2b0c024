package storage

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
)

// decodeOptions maps a flat config mapping onto a backend's option struct.
// Fields are matched by their `cty` tag; a `,optional` suffix allows the
// parameter to be absent. Parameters nothing declares are rejected so typos
// like `fileext` vs `file_ext` surface here instead of being ignored.
func decodeOptions(cfg map[string]cty.Value, out any) error {
	rv := reflect.ValueOf(out)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decodeOptions needs a struct pointer, got %T", out)
	}
	rv = rv.Elem()
	rt := rv.Type()

	known := map[string]struct{}{
		"type":          {},
		"instance_name": {},
	}

	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("cty")
		name, opts, _ := strings.Cut(tag, ",")
		if name == "" || name == "-" {
			continue
		}
		known[name] = struct{}{}
		optional := opts == "optional"

		raw, ok := cfg[name]
		if !ok || raw.IsNull() {
			if optional {
				continue
			}
			return fmt.Errorf("required parameter %q missing", name)
		}

		wantType, err := gocty.ImpliedType(rv.Field(i).Interface())
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		converted, err := convert.Convert(raw, wantType)
		if err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
		if err := gocty.FromCtyValue(converted, rv.Field(i).Addr().Interface()); err != nil {
			return fmt.Errorf("parameter %q: %w", name, err)
		}
	}

	var unknown []string
	for k := range cfg {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return fmt.Errorf("unknown parameters: %s", strings.Join(unknown, ", "))
	}
	return nil
}
