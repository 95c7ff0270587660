// Package mapping provides the YAML directive overlay: binding directives for
// types that cannot carry struct tags, e.g. types from another module.
//
// # Schema Overview
//
// The overlay file has the following structure:
//
//	version: "1"
//	types:
//	  - type: feed.Item
//	    fields:
//	      Title: ./title                  # tag syntax
//	      Body: ./body,notrim
//	      Author: {path: ./author, append: true}
//	    setters:                          # invoked in file order
//	      SetLink: ./link/@href
//
// # Matching
//
// Type entries are matched against the types handed to Resolve by
// "alias.Name", where alias is the last element of the package path, and
// then by bare "Name". Fields must be declared directly on the type;
// setters may be promoted from embedded types.
//
// Overlay directives win over struct tags on the same field.
package mapping
