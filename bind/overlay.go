package bind

import (
	"fmt"
	"reflect"

	"xpathbind/internal/mapping"
	"xpathbind/node"
)

// ParseOverlay reads a YAML overlay and resolves it against types. Every
// overlaid type must be listed, as well as the types its entries refer to by name.
func ParseOverlay(data []byte, types ...reflect.Type) (node.Overlay, error) {
	mf, err := mapping.Parse(data)
	if err != nil {
		return nil, newError("parse overlay failed", err)
	}

	return resolveOverlay(mf, types)
}

// LoadOverlay is ParseOverlay for a file.
func LoadOverlay(path string, types ...reflect.Type) (node.Overlay, error) {
	mf, err := mapping.LoadFile(path)
	if err != nil {
		return nil, newError("load overlay failed", err)
	}

	return resolveOverlay(mf, types)
}

func resolveOverlay(mf *mapping.MappingFile, types []reflect.Type) (node.Overlay, error) {
	overlay, diags := mapping.Resolve(mf, types...)
	if err := diags.Error(); err != nil {
		return nil, newError(fmt.Sprintf("resolve overlay with %d errors", len(diags.Errors)), err)
	}

	return overlay, nil
}
