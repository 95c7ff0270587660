package analyze

import (
	"errors"
	"fmt"
	"go/token"
	"go/types"
	"reflect"

	"github.com/antchfx/xpath"
	"golang.org/x/tools/go/packages"

	"xpathbind/internal/diagnostic"
	"xpathbind/node"
)

// NodePkgPath is the import path of the package declaring node.Target.
const NodePkgPath = "xpathbind/node"

var (
	ErrDoublePointer = errors.New("more than one level of pointer")
	ErrNotATarget    = errors.New("struct has no directives, embed node.Target or tag its fields")
)

// Checker walks target types and collects their misuses.
type Checker struct {
	fset   *token.FileSet
	diags  *diagnostic.Diagnostics
	dealer node.Dealer[*types.Named]
}

// Check reports every misuse in the target types declared by pkgs and the
// types they reach. The returned diagnostics also list the checked types as infos.
func Check(pkgs []*packages.Package) *diagnostic.Diagnostics {
	c := &Checker{diags: &diagnostic.Diagnostics{}}

	for _, pkg := range pkgs {
		if c.fset == nil {
			c.fset = pkg.Fset
		}

		scope := pkg.Types.Scope()
		for _, name := range scope.Names() {
			typeName, ok := scope.Lookup(name).(*types.TypeName)
			if !ok || typeName.IsAlias() {
				continue
			}

			if named, ok := typeName.Type().(*types.Named); ok && isTarget(named) {
				c.dealer.Needs(named)
			}
		}
	}

	c.run()

	return c.diags
}

func (c *Checker) run() {
	for {
		named, ok := c.dealer.NextNeeds()
		if !ok {
			return
		}

		id := NewTypeID(named)
		c.diags.AddInfo("checked", "target type checked", id.Short(), "")

		st, ok := named.Underlying().(*types.Struct)
		if !ok {
			continue
		}

		c.checkStruct(id, st)
	}
}

func (c *Checker) checkStruct(id TypeID, st *types.Struct) {
	for i := 0; i < st.NumFields(); i++ {
		field := st.Field(i)

		tag, ok := reflect.StructTag(st.Tag(i)).Lookup(node.TagKey)
		if !ok || tag == "-" {
			if field.Embedded() {
				if named, ok := baseNamed(field.Type()); ok && isTarget(named) && !isMarker(named) {
					c.dealer.Needs(named)
				}
			}
			continue
		}

		c.checkField(id, field, tag)
	}
}

func (c *Checker) checkField(id TypeID, field *types.Var, tag string) {
	report := func(code string, err error, member string) {
		c.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticError,
			Code:     code,
			Message:  err.Error(),
			Type:     id.Short(),
			Member:   member,
			Pos:      c.pos(field.Pos()),
		})
	}

	name := field.Name()

	dir, err := node.ParseTag(tag)
	if err != nil {
		report("bad_tag", err, name)
		return
	}

	if _, err := xpath.Compile(dir.Path); err != nil {
		report("invalid_xpath", fmt.Errorf("%q: %w", dir.Path, err), name)
	}

	if !field.Exported() {
		report("field_unexported", node.ErrUnexported, name)
	}

	dispatch, err := classify(field.Type())
	if err != nil {
		report(errorCode(err), err, name)
		return
	}

	if dir.Append && dispatch != node.DispatcherTarget {
		report("append_immutable", fmt.Errorf("%w: can't append to %s", node.ErrAppendImmutable, dispatch), name)
	}

	if dir.Char && !isInteger(field.Type()) {
		c.diags.Add(diagnostic.Diagnostic{
			Severity: diagnostic.DiagnosticWarning,
			Code:     "char_ignored",
			Message:  "char flag only applies to integer members",
			Type:     id.Short(),
			Member:   name,
			Pos:      c.pos(field.Pos()),
		})
	}

	switch dispatch {
	case node.DispatcherTarget:
		c.needs(id, name, field.Type())

	case node.DispatcherArray:
		elem := arrayElem(field.Type())
		item := NewTypePath(name).Slice().String()

		elemDispatch, err := classify(elem)
		switch {
		case err != nil:
			report(errorCode(err), err, item)
		case elemDispatch == node.DispatcherArray:
			report("array_of_array", fmt.Errorf("%w: %s", node.ErrArrayOfArray, elem), item)
		case elemDispatch == node.DispatcherTarget:
			c.needs(id, item, elem)
		}
	}
}

// needs queues a named target, or checks an unnamed one in place.
func (c *Checker) needs(parent TypeID, member string, t types.Type) {
	if named, ok := baseNamed(t); ok {
		c.dealer.Needs(named)
		return
	}

	_, base := ptrDepthAndBase(t)
	if st, ok := base.(*types.Struct); ok {
		c.checkStruct(TypeID{PkgPath: parent.PkgPath, Name: parent.Name + "." + member}, st)
	}
}

func (c *Checker) pos(p token.Pos) string {
	if c.fset == nil || !p.IsValid() {
		return ""
	}

	return c.fset.Position(p).String()
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, ErrDoublePointer):
		return "double_pointer"
	case errors.Is(err, ErrNotATarget):
		return "not_a_target"
	default:
		return "unsupported_type"
	}
}
