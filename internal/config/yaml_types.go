package config

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"isomorphic/internal/common"
)

// UnmarshalYAML implements custom YAML unmarshaling for EntryArray.
// Accepts:
//   - Single string: "A = B"
//   - Single map: {decl: "A = B", name: AToB}
//   - Array of strings and/or maps
func (e *EntryArray) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode, yaml.MappingNode:
		entry, err := decodeEntry(node)
		if err != nil {
			return err
		}

		*e = EntryArray{entry}

		return nil

	case yaml.SequenceNode:
		entries := make(EntryArray, 0, len(node.Content))

		for _, item := range node.Content {
			entry, err := decodeEntry(item)
			if err != nil {
				return err
			}

			entries = append(entries, entry)
		}

		*e = entries

		return nil

	default:
		return fmt.Errorf("line %d: expected string, map, or array, got %v", node.Line, node.Kind)
	}
}

func decodeEntry(node *yaml.Node) (Entry, error) {
	switch node.Kind {
	case yaml.ScalarNode:
		var text string
		if err := node.Decode(&text); err != nil {
			return Entry{}, err
		}

		if text == "" {
			return Entry{}, fmt.Errorf("line %d: empty declaration", node.Line)
		}

		return Entry{Decl: text}, nil

	case yaml.MappingNode:
		// Decode through an alias type so we don't recurse into this method.
		type plain Entry

		var p plain
		if err := node.Decode(&p); err != nil {
			return Entry{}, err
		}

		if p.Decl == "" {
			return Entry{}, fmt.Errorf("line %d: %w", node.Line, errors.New(`entry is missing "decl"`))
		}

		return Entry(p), nil

	default:
		return Entry{}, fmt.Errorf("line %d: expected string or map entry, got %v", node.Line, node.Kind)
	}
}

// MarshalYAML implements custom YAML marshaling for EntryArray.
// Entries without a custom name are written as plain strings, and a single
// entry is written without the surrounding list.
func (e EntryArray) MarshalYAML() (any, error) {
	items := make([]any, 0, len(e))

	for _, entry := range e {
		if entry.Name == "" {
			items = append(items, entry.Decl)
		} else {
			items = append(items, entry)
		}
	}

	if common.IsSingle(items) {
		return items[0], nil
	}

	return items, nil
}
