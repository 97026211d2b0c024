package config

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// ParseValue converts one raw config token into a typed cty value.
//
// The value grammar is JSON: `true`/`false`, `null`, numbers, double-quoted
// strings and lists. Tokens that do not parse as a JSON literal are returned
// verbatim as a string along with a warning, so that bare words like `Yes`,
// `True` or an unquoted path surface a hint instead of silently becoming the
// wrong type. Only tokens that open a quote, bracket or brace and then fail
// to close it legally are hard errors.
func ParseValue(raw string) (cty.Value, []string, error) {
	token := strings.TrimSpace(raw)
	if token == "" {
		return cty.StringVal(""), []string{ambiguousWarning(token)}, nil
	}

	val, err := parseLiteral(token)
	if err == nil {
		return val, nil, nil
	}

	// A token that starts like a quoted string or a collection literal is
	// never a plausible bare word; treat its failure as fatal.
	switch token[0] {
	case '"', '[', '{':
		return cty.NilVal, nil, &ParseError{Raw: token, Reason: err.Error()}
	}
	return cty.StringVal(token), []string{ambiguousWarning(token)}, nil
}

func ambiguousWarning(token string) string {
	return fmt.Sprintf("The value %q is an ambiguous unquoted value and is interpreted as a string. Write %q to silence this warning.", token, token)
}

// parseLiteral decodes token as a single JSON literal with nothing trailing.
func parseLiteral(token string) (cty.Value, error) {
	dec := json.NewDecoder(strings.NewReader(token))
	dec.UseNumber()

	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return cty.NilVal, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return cty.NilVal, fmt.Errorf("trailing characters after literal")
	}
	return goToCty(decoded)
}

// goToCty converts the output of encoding/json into the cty value space.
// Numbers keep their integer/float distinction.
func goToCty(v any) (cty.Value, error) {
	switch v := v.(type) {
	case nil:
		return cty.NullVal(cty.DynamicPseudoType), nil
	case bool:
		return cty.BoolVal(v), nil
	case string:
		return cty.StringVal(v), nil
	case json.Number:
		if i, err := v.Int64(); err == nil {
			return cty.NumberIntVal(i), nil
		}
		f, err := v.Float64()
		if err != nil {
			return cty.NilVal, fmt.Errorf("invalid number literal %q", v.String())
		}
		return cty.NumberFloatVal(f), nil
	case []any:
		if len(v) == 0 {
			return cty.EmptyTupleVal, nil
		}
		elems := make([]cty.Value, 0, len(v))
		for _, raw := range v {
			el, err := goToCty(raw)
			if err != nil {
				return cty.NilVal, err
			}
			elems = append(elems, el)
		}
		return cty.TupleVal(elems), nil
	case map[string]any:
		if len(v) == 0 {
			return cty.EmptyObjectVal, nil
		}
		attrs := make(map[string]cty.Value, len(v))
		for k, raw := range v {
			el, err := goToCty(raw)
			if err != nil {
				return cty.NilVal, err
			}
			attrs[k] = el
		}
		return cty.ObjectVal(attrs), nil
	default:
		return cty.NilVal, fmt.Errorf("unsupported literal of type %T", v)
	}
}
