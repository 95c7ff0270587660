package mapping

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"xpathbind/node"
)

// --- DirectiveDef YAML methods ---

// UnmarshalYAML accepts either a tag string or a mapping.
func (d *DirectiveDef) UnmarshalYAML(n *yaml.Node) error {
	switch n.Kind {
	case yaml.ScalarNode:
		var tag string

		err := n.Decode(&tag)
		if err != nil {
			return err
		}

		dir, err := node.ParseTag(tag)
		if err != nil {
			return fmt.Errorf("line %d: %w", n.Line, err)
		}

		trim := dir.Trim
		*d = DirectiveDef{Path: dir.Path, Trim: &trim, Append: dir.Append, Char: dir.Char}

		return nil

	case yaml.MappingNode:
		type plain DirectiveDef

		var p plain

		err := n.Decode(&p)
		if err != nil {
			return err
		}

		*d = DirectiveDef(p)

		return nil

	default:
		return fmt.Errorf("line %d: expected tag string or mapping, got %v", n.Line, n.Kind)
	}
}

// MarshalYAML outputs the tag string form.
func (d DirectiveDef) MarshalYAML() (any, error) {
	return d.Directive().String(), nil
}

// --- DirectiveMap YAML methods ---

// UnmarshalYAML decodes a mapping keeping the entries in file order.
func (m *DirectiveMap) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected mapping of member names, got %v", n.Line, n.Kind)
	}

	out := make(DirectiveMap, 0, len(n.Content)/2)
	seen := map[string]bool{}

	for i := 0; i+1 < len(n.Content); i += 2 {
		key, value := n.Content[i], n.Content[i+1]

		if seen[key.Value] {
			return fmt.Errorf("line %d: duplicate member %q", key.Line, key.Value)
		}
		seen[key.Value] = true

		var def DirectiveDef
		if err := value.Decode(&def); err != nil {
			return fmt.Errorf("member %q: %w", key.Value, err)
		}

		out = append(out, NamedDirective{Name: key.Value, Directive: def})
	}

	*m = out

	return nil
}

// MarshalYAML outputs an ordered mapping.
func (m DirectiveMap) MarshalYAML() (any, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}

	for _, nd := range m {
		var value yaml.Node
		if err := value.Encode(nd.Directive); err != nil {
			return nil, err
		}

		n.Content = append(n.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: nd.Name},
			&value)
	}

	return n, nil
}
