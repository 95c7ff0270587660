package mapping

import (
	"xpathbind/node"
)

// Version is the only overlay schema version understood by this package.
const Version = "1"

// MappingFile represents the root of a YAML overlay file.
type MappingFile struct {
	// Version of the overlay schema (for future compatibility).
	Version string `yaml:"version,omitempty"`

	// Types lists the directives of each overlaid struct type.
	Types []TypeOverlay `yaml:"types"`
}

// TypeOverlay attaches directives to the fields and setters of one type.
type TypeOverlay struct {
	// Type identifier, "Name" or "alias.Name" (e.g. "feed.Item").
	Type string `yaml:"type"`

	// Fields maps struct field names to directives.
	Fields DirectiveMap `yaml:"fields,omitempty"`

	// Setters maps method names to directives. Setters run in file order.
	Setters DirectiveMap `yaml:"setters,omitempty"`
}

// DirectiveMap is an ordered YAML mapping of member names to directives.
type DirectiveMap []NamedDirective

// NamedDirective is one entry of a DirectiveMap.
type NamedDirective struct {
	Name      string
	Directive DirectiveDef
}

// DirectiveDef is a directive as written in YAML. It accepts either the
// struct tag syntax ("./title,notrim") or a mapping with explicit keys.
type DirectiveDef struct {
	Path   string `yaml:"path"`
	Trim   *bool  `yaml:"trim,omitempty"`
	Append bool   `yaml:"append,omitempty"`
	Char   bool   `yaml:"char,omitempty"`
}

// Names returns the member names in file order.
func (m DirectiveMap) Names() []string {
	out := make([]string, 0, len(m))
	for _, nd := range m {
		out = append(out, nd.Name)
	}

	return out
}

// Lookup finds the directive of the named member.
func (m DirectiveMap) Lookup(name string) (DirectiveDef, bool) {
	for _, nd := range m {
		if nd.Name == name {
			return nd.Directive, true
		}
	}

	return DirectiveDef{}, false
}

// Directive converts the definition into a node.Directive. Trim defaults to true.
func (d DirectiveDef) Directive() node.Directive {
	trim := true
	if d.Trim != nil {
		trim = *d.Trim
	}

	return node.Directive{
		Path:   d.Path,
		Trim:   trim,
		Append: d.Append,
		Char:   d.Char,
	}
}
