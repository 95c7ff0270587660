// Package analyze statically checks xpath binding directives in Go packages.
//
// It uses golang.org/x/tools/go/packages with go/types to find struct types
// that opted in to binding and reports the misuses the binder would only
// raise at bind time: malformed tags, XPath syntax errors, "append" on
// primitive, string and array members, unexported tagged fields and member
// types the binder cannot populate.
//
// Key types:
//   - TypeID: package import path + type name
//   - Checker: walks reachable target types once each
//   - TypePath: readable member paths such as "Feed.Items[].Title"
package analyze
