package node

import (
	"reflect"

	"xpathbind/primitive"
)

var stringType = reflect.TypeFor[string]()

// Classify dispatches t using the default discoverer.
func Classify(t reflect.Type) DispatcherEnum {
	return defaultDiscoverer.Classify(t)
}

// Classify dispatches a destination type into one of the binding branches.
// A single level of pointer is looked through; deeper pointers are unsupported.
//
// Structs are bindable targets only when they opt in: they embed Target,
// declare at least one directive, or appear in the overlay. Every other
// struct, as well as maps, channels, funcs and interfaces, is unsupported.
func (d *Discoverer) Classify(t reflect.Type) DispatcherEnum {
	if t == nil {
		return DispatcherUnsupported
	}

	depth, b := ptrDepthAndBase(t)
	if depth > 1 {
		return DispatcherUnsupported
	}

	switch {
	case isText(b):
		return DispatcherString
	case primitive.FromReflectType(b) != 0:
		return DispatcherPrimitive
	case b.Kind() == reflect.Slice || b.Kind() == reflect.Array:
		return DispatcherArray
	case b.Kind() == reflect.Struct && d.IsTarget(b):
		return DispatcherTarget
	}

	return DispatcherUnsupported
}

// IsTarget reports whether the struct type t opted in to binding.
func (d *Discoverer) IsTarget(t reflect.Type) bool {
	if t.Kind() != reflect.Struct {
		return false
	}

	if reflect.PointerTo(t).Implements(targetMarkerType) {
		return true
	}

	if _, ok := d.overlay[t]; ok {
		return true
	}

	return len(d.Members(t)) > 0
}

type validEnum interface{ IsValid() bool }

var validEnumType = reflect.TypeFor[validEnum]()

// isText reports whether t is read as plain text: string itself, or a named
// string type that neither validates its values nor implements
// encoding.TextUnmarshaler.
func isText(t reflect.Type) bool {
	if t == stringType {
		return true
	}

	return t.Kind() == reflect.String &&
		primitive.FromReflectType(t) == primitive.KindPrimitiveEnum &&
		!t.Implements(validEnumType)
}

// PrimitiveKind resolves the coercion kind of a primitive member type.
func PrimitiveKind(t reflect.Type, dir Directive) primitive.KindEnum {
	b := Base(t)
	if dir.Char && (b.Kind() == reflect.Int32 || b.Kind() == reflect.Uint8 ||
		b.Kind() == reflect.Uint16 || b.Kind() == reflect.Int || b.Kind() == reflect.Uint32) {
		return primitive.KindChar
	}

	return primitive.FromReflectType(b)
}

// Base strips every pointer level from t.
func Base(t reflect.Type) reflect.Type {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t
}

// ptrDepthAndBase returns the pointer depth and the final base type.
func ptrDepthAndBase(t reflect.Type) (depth int, base reflect.Type) {
	depth, base = 0, t
	for t != nil && base.Kind() == reflect.Ptr {
		depth++
		base = base.Elem()
	}

	return
}
