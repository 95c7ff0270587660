package analyze

import (
	"go/types"

	"xpathbind/internal/common"
)

// TypeID uniquely identifies a type by its package path and name.
type TypeID struct {
	PkgPath string // e.g., "example.com/app/feed"
	Name    string // e.g., "Item"
}

// NewTypeID identifies a named type.
func NewTypeID(named *types.Named) TypeID {
	obj := named.Obj()
	if obj.Pkg() == nil {
		return TypeID{Name: obj.Name()}
	}

	return TypeID{PkgPath: obj.Pkg().Path(), Name: obj.Name()}
}

// String returns a human-readable representation of the TypeID.
func (t TypeID) String() string {
	if t.PkgPath == "" {
		return t.Name
	}

	return t.PkgPath + "." + t.Name
}

// Short returns "alias.Name".
func (t TypeID) Short() string {
	return common.QualifiedName(t.PkgPath, t.Name)
}
