// Package query evaluates XPath expressions against parsed documents.
//
// A document is any tree exposed through xpath.NodeNavigator. ParseXML and
// ParseHTML build one from raw input with github.com/antchfx/xmlquery and
// github.com/antchfx/htmlquery; NewNode adapts any other navigator.
//
// Evaluation is shaped by the caller:
//   - ShapeString: the XPath string() of the result
//   - ShapeNode: the first selected node, if any
//   - ShapeNodeSet: every selected node, in document order
package query
