package config

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/hcl/v2"
)

// Kind identifies one of the three section kinds the config format knows.
type Kind string

const (
	KindGeneral Kind = "general"
	KindPair    Kind = "pair"
	KindStorage Kind = "storage"
)

// Item is one `key = value` line of a section. Raw holds the untyped text
// to the right of the equals sign; typing happens later in ParseValue.
type Item struct {
	Key     string
	Raw     string
	Subject hcl.Range
}

// RawSection is one `[kind]` or `[kind name]` block with its key lines in
// document order.
type RawSection struct {
	Kind    Kind
	Name    string
	Items   []Item
	Subject hcl.Range
}

// Get returns the item for key, if present.
func (s *RawSection) Get(key string) (Item, bool) {
	for _, it := range s.Items {
		if it.Key == key {
			return it, true
		}
	}
	return Item{}, false
}

// Label renders the section for error messages, e.g. `storage "work"`.
func (s *RawSection) Label() string {
	if s.Name == "" {
		return string(s.Kind)
	}
	return fmt.Sprintf("%s %q", s.Kind, s.Name)
}

// readSections splits a document into its sections without interpreting any
// values. It enforces the structural rules: known section kinds, `general`
// takes no name while `pair` and `storage` require one, and no two sections
// of the same kind may share a name.
func readSections(filename string, src io.Reader) ([]*RawSection, error) {
	var (
		sections []*RawSection
		current  *RawSection
		seen     = map[Kind]map[string]struct{}{}
	)

	scanner := bufio.NewScanner(src)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		subject := lineRange(filename, lineNum, line)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if strings.HasPrefix(trimmed, "[") {
			sec, err := parseHeader(trimmed, subject)
			if err != nil {
				return nil, err
			}
			names, ok := seen[sec.Kind]
			if !ok {
				names = map[string]struct{}{}
				seen[sec.Kind] = names
			}
			if _, dup := names[sec.Name]; dup {
				if sec.Kind == KindGeneral {
					return nil, &StructureError{
						Summary: "More than one general section",
						Subject: subject,
					}
				}
				return nil, &StructureError{
					Summary: fmt.Sprintf("Name %q already used for another %s section", sec.Name, sec.Kind),
					Subject: subject,
				}
			}
			names[sec.Name] = struct{}{}
			sections = append(sections, sec)
			current = sec
			continue
		}

		key, raw, ok := strings.Cut(trimmed, "=")
		if !ok {
			return nil, &StructureError{
				Summary: fmt.Sprintf("Expected section header or key = value, got %q", trimmed),
				Subject: subject,
			}
		}
		key = strings.TrimSpace(key)
		raw = strings.TrimSpace(raw)
		if key == "" {
			return nil, &StructureError{
				Summary: "Missing key before =",
				Subject: subject,
			}
		}
		if current == nil {
			return nil, &StructureError{
				Summary: fmt.Sprintf("Key %q appears before any section header", key),
				Subject: subject,
			}
		}
		if _, dup := current.Get(key); dup {
			return nil, &StructureError{
				Summary: fmt.Sprintf("Key %q given twice in %s section", key, current.Label()),
				Subject: subject,
			}
		}
		current.Items = append(current.Items, Item{Key: key, Raw: raw, Subject: subject})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return sections, nil
}

func parseHeader(trimmed string, subject hcl.Range) (*RawSection, error) {
	if !strings.HasSuffix(trimmed, "]") {
		return nil, &StructureError{
			Summary: fmt.Sprintf("Unterminated section header %q", trimmed),
			Subject: subject,
		}
	}
	fields := strings.Fields(trimmed[1 : len(trimmed)-1])

	var kind, name string
	switch len(fields) {
	case 1:
		kind = fields[0]
	case 2:
		kind, name = fields[0], fields[1]
	default:
		return nil, &StructureError{
			Summary: fmt.Sprintf("Expected [kind] or [kind name], got %q", trimmed),
			Subject: subject,
		}
	}

	switch Kind(kind) {
	case KindGeneral:
		if name != "" {
			return nil, &StructureError{
				Summary: fmt.Sprintf("The general section takes no name, got %q", name),
				Subject: subject,
			}
		}
	case KindPair, KindStorage:
		if name == "" {
			return nil, &StructureError{
				Summary: fmt.Sprintf("The %s section requires a name", kind),
				Subject: subject,
			}
		}
	default:
		summary := fmt.Sprintf("Unknown section type %q", kind)
		if name != "" {
			summary = fmt.Sprintf("Unknown section type %q with name %q", kind, name)
		}
		return nil, &StructureError{Summary: summary, Subject: subject}
	}

	return &RawSection{Kind: Kind(kind), Name: name, Subject: subject}, nil
}

func lineRange(filename string, lineNum int, line string) hcl.Range {
	return hcl.Range{
		Filename: filename,
		Start:    hcl.Pos{Line: lineNum, Column: 1},
		End:      hcl.Pos{Line: lineNum, Column: len(line) + 1},
	}
}
