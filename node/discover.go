package node

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sync"
)

var ErrUnexported = errors.New("field is unexported, export it or bind through a setter")

// Overlay attaches directives to types that cannot carry struct tags.
// Overlay entries win over tags on the same field.
type Overlay map[reflect.Type]TypeOverlay

// TypeOverlay holds the directives of a single type.
type TypeOverlay struct {
	Fields  map[string]Directive
	Setters []SetterDirective
}

// SetterDirective binds a method of the overlaid type.
type SetterDirective struct {
	Method    string
	Directive Directive
}

// Member is a field or a setter carrying a directive.
type Member struct {
	// Name is "Type.Field" or "Type.Method()", used in messages.
	Name string
	// Index is the field index path from the discovered struct. For setters it
	// leads to the receiver struct and is empty when the receiver is the root.
	Index []int
	// Type is the field type, or the setter argument type (nil for zero-argument setters).
	Type      reflect.Type
	Directive Directive
	// Setter is set for method members.
	Setter *Setter
	// Err is a static misuse found during discovery. It is reported when the
	// member is dispatched, before its directive is evaluated.
	Err error
}

// IsSetter reports whether the member is bound through a method.
func (m Member) IsSetter() bool {
	return m.Setter != nil
}

// Discoverer finds members of struct types. Member lists are memoized per type,
// so a Discoverer may be shared between concurrent binds.
type Discoverer struct {
	overlay Overlay
	cache   sync.Map // reflect.Type -> []Member
}

var defaultDiscoverer = NewDiscoverer(nil)

// NewDiscoverer returns a discoverer applying the given overlay. A nil overlay is valid.
func NewDiscoverer(overlay Overlay) *Discoverer {
	return &Discoverer{overlay: overlay}
}

// Members discovers t with the default discoverer.
func Members(t reflect.Type) []Member {
	return defaultDiscoverer.Members(t)
}

// Members returns the directive-carrying members of the struct type t:
// own fields in declaration order, then own setters (overlay, then XPathSetters),
// then the members of each embedded struct, most-derived type first. Shadowed
// members are not merged.
func (d *Discoverer) Members(t reflect.Type) []Member {
	if t.Kind() != reflect.Struct {
		return nil
	}

	if cached, ok := d.cache.Load(t); ok {
		return cached.([]Member)
	}

	var out []Member
	d.collect(t, nil, map[reflect.Type]bool{}, &out)

	actual, _ := d.cache.LoadOrStore(t, out)
	return actual.([]Member)
}

type parsedDirective struct {
	dir Directive
	err error
}

func parseDirective(tag string) parsedDirective {
	dir, err := ParseTag(tag)
	return parsedDirective{dir: dir, err: err}
}

func (d *Discoverer) collect(t reflect.Type, prefix []int, seen map[reflect.Type]bool, out *[]Member) {
	seen[t] = true
	ov := d.overlay[t]

	var ancestors []reflect.StructField

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		pd, ok := d.fieldDirective(ov, f)
		if !ok {
			if f.Anonymous && Base(f.Type).Kind() == reflect.Struct {
				ancestors = append(ancestors, f)
			}
			continue
		}

		m := Member{
			Name:      t.Name() + "." + f.Name,
			Index:     append(slices.Clone(prefix), i),
			Type:      f.Type,
			Directive: pd.dir,
			Err:       pd.err,
		}
		if m.Err == nil && !f.IsExported() {
			m.Err = fmt.Errorf("%w: %s", ErrUnexported, m.Name)
		}

		*out = append(*out, m)
	}

	for _, sd := range ov.Setters {
		*out = append(*out, setterMember(t, prefix, sd.Method, parsedDirective{dir: sd.Directive}))
	}

	for _, st := range ownSetters(t) {
		*out = append(*out, setterMember(t, prefix, st.Method, parseDirective(st.Tag)))
	}

	for _, f := range ancestors {
		bt := Base(f.Type)
		if seen[bt] {
			continue
		}

		d.collect(bt, append(slices.Clone(prefix), f.Index...), seen, out)
	}
}

func (d *Discoverer) fieldDirective(ov TypeOverlay, f reflect.StructField) (parsedDirective, bool) {
	if dir, ok := ov.Fields[f.Name]; ok {
		return parsedDirective{dir: dir}, true
	}

	tag, ok := f.Tag.Lookup(TagKey)
	if !ok || tag == "-" {
		return parsedDirective{}, false
	}

	return parseDirective(tag), true
}

func setterMember(recv reflect.Type, prefix []int, method string, pd parsedDirective) Member {
	m := Member{
		Name:      recv.Name() + "." + method + "()",
		Index:     slices.Clone(prefix),
		Directive: pd.dir,
		Err:       pd.err,
		Setter:    &Setter{Name: method},
	}

	setter, err := ParseSetter(recv, method)
	if err != nil {
		if m.Err == nil {
			m.Err = err
		}
		return m
	}

	m.Setter = &setter
	m.Type = setter.Arg

	return m
}
