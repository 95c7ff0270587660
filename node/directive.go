package node

import (
	"errors"
	"fmt"
	"strings"
)

// TagKey is the struct tag key carrying binding directives.
const TagKey = "xpath"

var (
	ErrEmptyPath   = errors.New("directive path is empty")
	ErrUnknownFlag = errors.New("unknown directive flag")
)

// Directive describes how one member is read from the document.
type Directive struct {
	// Path is the XPath expression, evaluated relative to the current node.
	Path string
	// Trim strips surrounding whitespace from string members, including named
	// string types. Primitives (numbers, bools, times, validated enums) are always trimmed.
	Trim bool
	// Append populates an existing nested target instead of replacing it.
	Append bool
	// Char reads an integer member as a single character.
	Char bool
}

// ParseTag parses a tag value of the form "path[,notrim][,trim][,append][,char]".
//
// The path may contain commas inside brackets, parentheses or quotes,
// e.g. "concat(./a, ./b)" or "./item[@k='a,b']".
func ParseTag(tag string) (Directive, error) {
	parts := splitTag(tag)

	dir := Directive{Path: strings.TrimSpace(parts[0]), Trim: true}
	if dir.Path == "" {
		return Directive{}, ErrEmptyPath
	}

	for _, flag := range parts[1:] {
		switch strings.TrimSpace(flag) {
		case "trim":
			dir.Trim = true
		case "notrim":
			dir.Trim = false
		case "append":
			dir.Append = true
		case "char":
			dir.Char = true
		case "":
		default:
			return Directive{}, fmt.Errorf("%w %q in %q", ErrUnknownFlag, flag, tag)
		}
	}

	return dir, nil
}

// String renders the directive back into its tag form.
func (d Directive) String() string {
	var b strings.Builder
	b.WriteString(d.Path)
	if !d.Trim {
		b.WriteString(",notrim")
	}
	if d.Append {
		b.WriteString(",append")
	}
	if d.Char {
		b.WriteString(",char")
	}
	return b.String()
}

// splitTag splits on top-level commas only.
func splitTag(tag string) []string {
	var (
		parts []string
		depth int
		quote rune
		start int
	)

	for i, r := range tag {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
		case r == '\'' || r == '"':
			quote = r
		case r == '[' || r == '(':
			depth++
		case r == ']' || r == ')':
			depth--
		case r == ',' && depth == 0:
			parts = append(parts, tag[start:i])
			start = i + 1
		}
	}

	return append(parts, tag[start:])
}
