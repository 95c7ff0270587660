package analyze

import (
	"fmt"
	"go/types"
	"reflect"

	"xpathbind/node"
)

// classify mirrors node.Classify on go/types.
func classify(t types.Type) (node.DispatcherEnum, error) {
	depth, base := ptrDepthAndBase(t)
	if depth > 1 {
		return node.DispatcherUnsupported, fmt.Errorf("%w: %s", ErrDoublePointer, t)
	}

	if isText(base) {
		return node.DispatcherString, nil
	}

	if isPrimitive(base) {
		return node.DispatcherPrimitive, nil
	}

	switch base.Underlying().(type) {
	case *types.Slice, *types.Array:
		return node.DispatcherArray, nil

	case *types.Struct:
		if !isTargetType(base) {
			return node.DispatcherUnsupported, fmt.Errorf("%w: %s", ErrNotATarget, base)
		}
		return node.DispatcherTarget, nil
	}

	return node.DispatcherUnsupported, fmt.Errorf("%w %s", node.ErrUnsupportedType, t)
}

// isPrimitive reports whether the binder coerces text into t: basic
// numbers and bools, time.Time, time.Duration, named basic types and
// encoding.TextUnmarshaler implementations.
func isPrimitive(t types.Type) bool {
	if named, ok := t.(*types.Named); ok {
		if isTime(named) || implementsTextUnmarshaler(named) {
			return true
		}
	}

	b, ok := t.Underlying().(*types.Basic)
	if !ok {
		return false
	}

	info := b.Info()
	if info&types.IsComplex != 0 || b.Kind() == types.UnsafePointer || b.Kind() == types.Uintptr {
		return false
	}

	return info&(types.IsBoolean|types.IsInteger|types.IsFloat|types.IsString) != 0
}

// isText mirrors the binder: string, and named string types without IsValid
// or UnmarshalText.
func isText(t types.Type) bool {
	b, ok := t.Underlying().(*types.Basic)
	if !ok || b.Kind() != types.String {
		return false
	}

	named, ok := t.(*types.Named)
	if !ok {
		return true
	}

	return !implementsTextUnmarshaler(named) && types.NewMethodSet(named).Lookup(nil, "IsValid") == nil
}

func isInteger(t types.Type) bool {
	_, base := ptrDepthAndBase(t)
	b, ok := base.Underlying().(*types.Basic)
	return ok && b.Info()&types.IsInteger != 0
}

func isTime(named *types.Named) bool {
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == "time" && (obj.Name() == "Time" || obj.Name() == "Duration")
}

func implementsTextUnmarshaler(named *types.Named) bool {
	sel := types.NewMethodSet(types.NewPointer(named)).Lookup(nil, "UnmarshalText")
	if sel == nil {
		return false
	}

	sig, ok := sel.Type().(*types.Signature)
	return ok && sig.Params().Len() == 1 && sig.Results().Len() == 1
}

// isTarget reports whether the struct type opted in to binding: it embeds
// node.Target, has a tagged field (own or embedded) or declares XPathSetters.
func isTarget(named *types.Named) bool {
	if !isStruct(named) {
		return false
	}

	if types.NewMethodSet(types.NewPointer(named)).Lookup(nil, "XPathSetters") != nil {
		return true
	}

	return hasDirectives(named, map[*types.Named]bool{})
}

// isTargetType is isTarget extended to unnamed struct types.
func isTargetType(t types.Type) bool {
	if named, ok := t.(*types.Named); ok {
		return isTarget(named)
	}

	st, ok := t.(*types.Struct)
	return ok && structDirectives(st, map[*types.Named]bool{})
}

func hasDirectives(named *types.Named, seen map[*types.Named]bool) bool {
	if seen[named] {
		return false
	}
	seen[named] = true

	if isMarker(named) {
		return true
	}

	st, ok := named.Underlying().(*types.Struct)
	return ok && structDirectives(st, seen)
}

func structDirectives(st *types.Struct, seen map[*types.Named]bool) bool {
	for i := 0; i < st.NumFields(); i++ {
		if tag, ok := reflect.StructTag(st.Tag(i)).Lookup(node.TagKey); ok && tag != "-" {
			return true
		}

		if !st.Field(i).Embedded() {
			continue
		}

		if embedded, ok := baseNamed(st.Field(i).Type()); ok && hasDirectives(embedded, seen) {
			return true
		}
	}

	return false
}

// isMarker reports whether named is node.Target.
func isMarker(named *types.Named) bool {
	obj := named.Obj()
	return obj.Pkg() != nil && obj.Pkg().Path() == NodePkgPath && obj.Name() == "Target"
}

func isStruct(named *types.Named) bool {
	_, ok := named.Underlying().(*types.Struct)
	return ok
}

// baseNamed strips pointers and aliases and returns the named type, if any.
func baseNamed(t types.Type) (*types.Named, bool) {
	_, base := ptrDepthAndBase(t)
	named, ok := base.(*types.Named)
	return named, ok
}

// arrayElem returns the item type of a (pointer to) slice or array.
func arrayElem(t types.Type) types.Type {
	_, base := ptrDepthAndBase(t)

	switch u := base.Underlying().(type) {
	case *types.Slice:
		return u.Elem()
	case *types.Array:
		return u.Elem()
	}

	return nil
}

func ptrDepthAndBase(t types.Type) (depth int, base types.Type) {
	base = types.Unalias(t)
	for {
		p, ok := base.(*types.Pointer)
		if !ok {
			return depth, base
		}

		depth++
		base = types.Unalias(p.Elem())
	}
}
