package mapping

import (
	"fmt"
	"reflect"
	"slices"

	"github.com/antchfx/xpath"

	"xpathbind/internal/common"
	"xpathbind/internal/diagnostic"
	"xpathbind/internal/match"
	"xpathbind/node"
)

const maxSuggestions = 3

// Lint checks what can be checked without Go types: the schema version,
// duplicate type entries, empty paths and XPath syntax.
func Lint(mf *MappingFile) *diagnostic.Diagnostics {
	res := &diagnostic.Diagnostics{}
	if mf == nil {
		res.AddError("overlay_is_nil", "overlay file is nil", "", "")
		return res
	}

	if mf.Version != Version {
		res.AddError("unsupported_version", fmt.Sprintf("unsupported overlay version %q", mf.Version), "", "")
	}

	seen := map[string]bool{}

	for _, to := range mf.Types {
		if to.Type == "" {
			res.AddError("type_is_empty", "type entry without a name", "", "")
			continue
		}

		if seen[to.Type] {
			res.AddError("duplicate_type", fmt.Sprintf("type %q is listed twice", to.Type), to.Type, "")
			continue
		}
		seen[to.Type] = true

		for _, nd := range slices.Concat(to.Fields, to.Setters) {
			lintDirective(res, to.Type, nd)
		}
	}

	return res
}

func lintDirective(res *diagnostic.Diagnostics, typ string, nd NamedDirective) {
	if nd.Directive.Path == "" {
		res.AddError("empty_path", node.ErrEmptyPath.Error(), typ, nd.Name)
		return
	}

	if _, err := xpath.Compile(nd.Directive.Path); err != nil {
		res.AddError("invalid_xpath", fmt.Sprintf("%q: %v", nd.Directive.Path, err), typ, nd.Name)
	}
}

// Resolve matches the overlay entries against the given struct types and
// builds the node.Overlay used by the binder. Entries are matched by
// "alias.Name" first, then by bare "Name".
func Resolve(mf *MappingFile, types ...reflect.Type) (node.Overlay, *diagnostic.Diagnostics) {
	res := Lint(mf)
	if mf == nil {
		return nil, res
	}

	index := indexTypes(types)
	overlay := node.Overlay{}

	for _, to := range mf.Types {
		if to.Type == "" {
			continue
		}

		t, ok := index[to.Type]
		if !ok {
			res.AddError("type_not_found", fmt.Sprintf("type %q is not registered", to.Type), to.Type, "",
				match.Suggest(to.Type, common.Keys(index), maxSuggestions)...)
			continue
		}

		if _, dup := overlay[t]; dup {
			continue
		}

		overlay[t] = resolveType(res, to, t)
	}

	// static misuses the overlay introduces, e.g. append on a string field
	d := node.NewDiscoverer(overlay)
	for t := range overlay {
		for _, m := range d.Members(t) {
			if _, err := d.Validate(m); err != nil {
				res.AddError("invalid_member", err.Error(), "", m.Name)
			}
		}
	}

	return overlay, res
}

func resolveType(res *diagnostic.Diagnostics, to TypeOverlay, t reflect.Type) node.TypeOverlay {
	out := node.TypeOverlay{Fields: map[string]node.Directive{}}

	fields := fieldNames(t)

	for _, nd := range to.Fields {
		f, ok := t.FieldByName(nd.Name)
		if !ok || len(f.Index) != 1 {
			res.AddError("field_not_found", fmt.Sprintf("field %q not declared on %s", nd.Name, to.Type), to.Type, nd.Name,
				match.Suggest(nd.Name, fields, maxSuggestions)...)
			continue
		}

		if !f.IsExported() {
			res.AddError("field_unexported", node.ErrUnexported.Error(), to.Type, nd.Name)
			continue
		}

		out.Fields[nd.Name] = nd.Directive.Directive()
	}

	methods := methodNames(t)

	for _, nd := range to.Setters {
		if _, err := node.ParseSetter(t, nd.Name); err != nil {
			code := "invalid_setter"
			var suggestions []string
			if !slices.Contains(methods, nd.Name) {
				code = "setter_not_found"
				suggestions = match.Suggest(nd.Name, methods, maxSuggestions)
			}

			res.AddError(code, err.Error(), to.Type, nd.Name, suggestions...)
			continue
		}

		out.Setters = append(out.Setters, node.SetterDirective{Method: nd.Name, Directive: nd.Directive.Directive()})
	}

	return out
}

func indexTypes(types []reflect.Type) map[string]reflect.Type {
	index := map[string]reflect.Type{}

	for _, t := range types {
		t = node.Base(t)
		if t.Kind() != reflect.Struct || t.Name() == "" {
			continue
		}

		index[common.QualifiedName(t.PkgPath(), t.Name())] = t
		if _, taken := index[t.Name()]; !taken {
			index[t.Name()] = t
		}
	}

	return index
}

func fieldNames(t reflect.Type) []string {
	out := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		out = append(out, t.Field(i).Name)
	}

	return out
}

func methodNames(t reflect.Type) []string {
	pt := reflect.PointerTo(t)

	out := make([]string, 0, pt.NumMethod())
	for i := 0; i < pt.NumMethod(); i++ {
		out = append(out, pt.Method(i).Name)
	}

	return out
}
