package query

import (
	"fmt"
	"io"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"
	"golang.org/x/net/html"
)

// Node is a read-only handle on one node of a parsed document.
// The zero Node points nowhere.
type Node struct {
	nav xpath.NodeNavigator
}

// NewNode wraps a navigator positioned on the node of interest.
func NewNode(nav xpath.NodeNavigator) Node {
	if nav == nil {
		return Node{}
	}
	return Node{nav: nav.Copy()}
}

// IsZero reports whether n points nowhere.
func (n Node) IsZero() bool {
	return n.nav == nil
}

// Navigator returns a fresh navigator positioned on n.
func (n Node) Navigator() xpath.NodeNavigator {
	if n.nav == nil {
		return nil
	}
	return n.nav.Copy()
}

// Name returns the local name of the node.
func (n Node) Name() string {
	if n.nav == nil {
		return ""
	}
	return n.nav.LocalName()
}

// IsElement reports whether n is an element or the document root.
func (n Node) IsElement() bool {
	if n.nav == nil {
		return false
	}
	t := n.nav.NodeType()
	return t == xpath.ElementNode || t == xpath.RootNode
}

// Text returns the string-value of the node.
func (n Node) Text() string {
	if n.nav == nil {
		return ""
	}
	return n.nav.Value()
}

// XML returns the underlying xmlquery node when n comes from ParseXML.
func (n Node) XML() (*xmlquery.Node, bool) {
	nav, ok := n.nav.(*xmlquery.NodeNavigator)
	if !ok {
		return nil, false
	}
	return nav.Current(), true
}

// HTML returns the underlying html node when n comes from ParseHTML.
func (n Node) HTML() (*html.Node, bool) {
	nav, ok := n.nav.(*htmlquery.NodeNavigator)
	if !ok {
		return nil, false
	}
	return nav.Current(), true
}

// Parser turns raw input into the root node of a document.
type Parser func(r io.Reader) (Node, error)

// ParseXML parses an XML document.
func ParseXML(r io.Reader) (Node, error) {
	doc, err := xmlquery.Parse(r)
	if err != nil {
		return Node{}, fmt.Errorf("failed to parse xml document: %w", err)
	}

	return NewNode(xmlquery.CreateXPathNavigator(doc)), nil
}

// ParseHTML parses an HTML document. Malformed markup is repaired the way browsers do.
func ParseHTML(r io.Reader) (Node, error) {
	doc, err := htmlquery.Parse(r)
	if err != nil {
		return Node{}, fmt.Errorf("failed to parse html document: %w", err)
	}

	return NewNode(htmlquery.CreateXPathNavigator(doc)), nil
}
