// Package match ranks member and type names by edit distance to produce
// "did you mean" suggestions for overlay and checker diagnostics.
//
// Key functions:
//   - Levenshtein: computes edit distance between strings
//   - Similarity: case-insensitive normalized similarity score
//   - Suggest: picks the closest candidates for a misspelled name
package match
