package config

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// storageNamePattern is the identifier alphabet for storage names. Anything
// else (dots in particular) breaks the status file layout downstream.
var storageNamePattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// validateGeneral checks the general section against its exact key set.
// All problems are collected before failing so the user sees every issue in
// one pass.
func validateGeneral(values map[string]cty.Value) (GeneralConfig, error) {
	required := []string{"status_path"}

	var problems []string
	if extra := extraKeys(values, required); len(extra) > 0 {
		problems = append(problems,
			fmt.Sprintf("general section doesn't take the parameters: %s", strings.Join(extra, ", ")))
	}
	if missing := missingKeys(values, required); len(missing) > 0 {
		problems = append(problems,
			fmt.Sprintf("general section is missing the parameters: %s", strings.Join(missing, ", ")))
	}
	if len(problems) > 0 {
		return nil, &UserError{Message: "Invalid general section.", Problems: problems}
	}
	return GeneralConfig(values), nil
}

// validatePair checks a pair section. The a/b storage references and the
// collections value are validated; everything else passes through opaquely
// for the sync layer to interpret.
func validatePair(name string, values map[string]cty.Value) (*PairConfig, error) {
	var problems []string

	a, err := stringParam(values, "a")
	if err != nil {
		problems = append(problems, err.Error())
	}
	b, err := stringParam(values, "b")
	if err != nil {
		problems = append(problems, err.Error())
	}

	collections, ok := values["collections"]
	if !ok {
		problems = append(problems, "collections parameter missing")
	} else if err := validateCollections(collections); err != nil {
		problems = append(problems, err.Error())
	}

	if len(problems) > 0 {
		return nil, &UserError{
			Message:  fmt.Sprintf("Invalid pair section %q.", name),
			Problems: problems,
		}
	}

	options := map[string]cty.Value{}
	for k, v := range values {
		switch k {
		case "a", "b", "collections":
		default:
			options[k] = v
		}
	}
	return &PairConfig{
		Name:        name,
		A:           a,
		B:           b,
		Collections: collections,
		Options:     options,
	}, nil
}

// validateStorage checks a storage section and injects the instance_name
// parameter derived from the section name.
func validateStorage(name string, values map[string]cty.Value) (StorageConfig, error) {
	if !storageNamePattern.MatchString(name) {
		return nil, &UserError{
			Message: fmt.Sprintf("The storage name %q contains invalid characters: %s. Names are restricted to letters, digits, underscores and hyphens.",
				name, invalidChars(name)),
		}
	}

	var problems []string
	if _, ok := values["instance_name"]; ok {
		problems = append(problems,
			"the instance_name parameter is set automatically and must not be given")
	}
	if _, err := stringParam(values, "type"); err != nil {
		problems = append(problems, err.Error())
	}
	if len(problems) > 0 {
		return nil, &UserError{
			Message:  fmt.Sprintf("Invalid storage section %q.", name),
			Problems: problems,
		}
	}

	cfg := make(StorageConfig, len(values)+1)
	for k, v := range values {
		cfg[k] = v
	}
	cfg["instance_name"] = cty.StringVal(name)
	return cfg, nil
}

// stringParam fetches a required parameter that must be a non-null string.
func stringParam(values map[string]cty.Value, key string) (string, error) {
	v, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%s parameter missing", key)
	}
	if v.IsNull() || v.Type() != cty.String {
		return "", fmt.Errorf("%s parameter must be a string", key)
	}
	return v.AsString(), nil
}

func extraKeys(values map[string]cty.Value, allowed []string) []string {
	var extra []string
	for k := range values {
		found := false
		for _, a := range allowed {
			if k == a {
				found = true
				break
			}
		}
		if !found {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	return extra
}

func missingKeys(values map[string]cty.Value, required []string) []string {
	var missing []string
	for _, k := range required {
		if _, ok := values[k]; !ok {
			missing = append(missing, k)
		}
	}
	sort.Strings(missing)
	return missing
}

func invalidChars(name string) string {
	var bad []rune
	seen := map[rune]struct{}{}
	for _, r := range name {
		if storageNamePattern.MatchString(string(r)) {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		bad = append(bad, r)
	}
	return fmt.Sprintf("%q", string(bad))
}
