package secrets

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Store holds the parsed secrets document. The YAML mapping order is
// preserved so that "first connection in the table" is well defined.
type Store struct {
	root *yaml.Node
}

// NewStore returns an empty store with no keys.
func NewStore() *Store {
	return &Store{}
}

// Load reads and parses a secrets file.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read secrets file '%s': %w", path, err)
	}
	return Parse(data)
}

// Parse parses YAML secrets content
func Parse(data []byte) (*Store, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal secrets: %w", err)
	}
	if len(doc.Content) == 0 {
		return &Store{}, nil
	}
	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("secrets document must be a mapping, got %s", kindName(root.Kind))
	}
	return &Store{root: root}, nil
}

// Keys returns the top-level key names in document order.
func (s *Store) Keys() []string {
	keys := []string{}
	if s == nil || s.root == nil {
		return keys
	}
	for i := 0; i+1 < len(s.root.Content); i += 2 {
		keys = append(keys, s.root.Content[i].Value)
	}
	return keys
}

// Section returns the named top-level section decoded as a field map.
// The second return is false when the key is absent or its value is not
// a mapping.
func (s *Store) Section(name string) (map[string]any, bool) {
	node, ok := s.lookup(name)
	if !ok || node.Kind != yaml.MappingNode {
		return nil, false
	}
	var section map[string]any
	if err := node.Decode(&section); err != nil {
		return nil, false
	}
	return section, true
}

// NamedSection is an entry of the connections table.
type NamedSection struct {
	Name   string
	Fields map[string]any
}

// Connections returns the entries of the top-level "connections" table
// in document order. Entries whose value is not a mapping are skipped.
func (s *Store) Connections() ([]NamedSection, bool) {
	node, ok := s.lookup("connections")
	if !ok || node.Kind != yaml.MappingNode {
		return nil, false
	}
	var entries []NamedSection
	for i := 0; i+1 < len(node.Content); i += 2 {
		key := node.Content[i]
		value := node.Content[i+1]
		if value.Kind != yaml.MappingNode {
			continue
		}
		var fields map[string]any
		if err := value.Decode(&fields); err != nil {
			continue
		}
		entries = append(entries, NamedSection{Name: key.Value, Fields: fields})
	}
	return entries, true
}

func (s *Store) lookup(name string) (*yaml.Node, bool) {
	if s == nil || s.root == nil {
		return nil, false
	}
	for i := 0; i+1 < len(s.root.Content); i += 2 {
		if s.root.Content[i].Value == name {
			return s.root.Content[i+1], true
		}
	}
	return nil, false
}

func kindName(kind yaml.Kind) string {
	switch kind {
	case yaml.DocumentNode:
		return "document"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return "unknown"
	}
}
