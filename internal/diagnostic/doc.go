// Package diagnostic provides structured errors and warnings collected while
// resolving directive overlays and statically checking tagged types.
//
// Key capabilities:
//   - Unknown overlay types, fields and setters
//   - Malformed tags and XPath expressions
//   - Misused "append" flags and unsupported member types
//   - "did you mean" suggestions
package diagnostic
