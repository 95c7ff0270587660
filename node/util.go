package node

import (
	"reflect"
	"strconv"
)

func typeStr(t reflect.Type) string {
	// fully qualified named types, or builtin string for basics
	switch t.Kind() {
	case reflect.Ptr:
		return "*" + typeStr(t.Elem())
	case reflect.Slice:
		return "[]" + typeStr(t.Elem())
	case reflect.Array:
		return "[" + strconv.Itoa(t.Len()) + "]" + typeStr(t.Elem())
	case reflect.Map:
		return "map[" + typeStr(t.Key()) + "]" + typeStr(t.Elem())
	default:
		if t.PkgPath() == "" || t.Name() == "" {
			return t.String()
		}
		return t.PkgPath() + "." + t.Name()
	}
}

// TypeName returns the fully qualified name of t, used in messages.
func TypeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return typeStr(t)
}

func isError(t reflect.Type) bool {
	if t == nil {
		return false
	}

	terr := reflect.TypeOf((*error)(nil)).Elem()

	return t == terr || (t.Kind() == reflect.Interface && t.Implements(terr))
}
