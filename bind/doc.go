// Package bind populates Go structs from XML or HTML documents, driven by
// XPath directives in struct tags.
//
//	type Content struct {
//		Name string `xpath:"./root/@name"`
//		Subs []Sub  `xpath:"./root/sub"`
//		Ints []int  `xpath:"./root/int"`
//	}
//
//	content, err := bind.Bind[Content](r)
//
// Each directive is evaluated relative to the node of its enclosing struct.
// Members are dispatched by type:
//   - primitives (numbers, bools, time, durations, enums, encoding.TextUnmarshaler)
//     read the trimmed string value of the path
//   - strings read the string value, trimmed unless the tag says "notrim"
//   - slices and arrays read one item per selected node; primitive and string
//     items use the node's own text, struct items are bound with the node as root
//   - nested targets are bound with the first selected node as root, and are
//     left untouched when nothing is selected
//
// A nested member tagged "append" is populated in place when it already holds a
// value, otherwise a fresh instance replaces it. Primitive, string and array
// members cannot be appended to.
//
// Every failure is returned as a *ParseError whose message names the member
// being bound and whose cause is the underlying error.
package bind
