package config

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// validateCollections checks the shape of a pair's collections value.
//
// Null means "sync everything both sides expose" and is always valid. A
// list is valid if every entry is either a collection name or a 3-element
// list (alias, name on side a, name on side b) where either side may be
// null to mean "same as the alias". Bare nulls and repeated aliases are
// rejected.
func validateCollections(v cty.Value) error {
	if v.IsNull() {
		return nil
	}
	ty := v.Type()
	if !ty.IsTupleType() && !ty.IsListType() {
		return &ValueError{
			Message: fmt.Sprintf("Expected null or a list of collections, got %s", ty.FriendlyName()),
		}
	}

	seen := map[string]struct{}{}
	for it := v.ElementIterator(); it.Next(); {
		_, entry := it.Element()
		alias, err := collectionAlias(entry)
		if err != nil {
			return err
		}
		if _, dup := seen[alias]; dup {
			return &ValueError{
				Message: fmt.Sprintf("Duplicate value for collection alias %q", alias),
			}
		}
		seen[alias] = struct{}{}
	}
	return nil
}

func collectionAlias(entry cty.Value) (string, error) {
	if entry.IsNull() {
		return "", &ValueError{Message: "Expected string or 3-element list in collections, got null"}
	}

	ty := entry.Type()
	switch {
	case ty == cty.String:
		return entry.AsString(), nil

	case ty.IsTupleType() || ty.IsListType():
		if entry.LengthInt() != 3 {
			return "", &ValueError{
				Message: fmt.Sprintf("Expected 3 elements in collections entry, got %d", entry.LengthInt()),
			}
		}
		elems := entry.AsValueSlice()
		alias := elems[0]
		if alias.IsNull() || alias.Type() != cty.String {
			return "", &ValueError{Message: "Expected string as alias in collections entry"}
		}
		for _, side := range elems[1:] {
			if !side.IsNull() && side.Type() != cty.String {
				return "", &ValueError{
					Message: fmt.Sprintf("Expected string or null in collections entry %q, got %s",
						alias.AsString(), side.Type().FriendlyName()),
				}
			}
		}
		return alias.AsString(), nil

	default:
		return "", &ValueError{
			Message: fmt.Sprintf("Expected string or 3-element list in collections, got %s", ty.FriendlyName()),
		}
	}
}
