// Package markup builds and parses the HTML fragments carried by layout blocks.
package markup

import (
	"bytes"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Node is a markup tree node.
type Node = html.Node

// Attr is a single attribute on an element built with El.
type Attr struct {
	Key string
	Val string
}

// Class is shorthand for a class attribute.
func Class(names ...string) Attr {
	return Attr{Key: "class", Val: strings.Join(names, " ")}
}

// Data is shorthand for a data-* attribute.
func Data(name, value string) Attr {
	return Attr{Key: "data-" + name, Val: value}
}

// El creates an element node with the given attributes and children.
// Nil children are skipped so callers can build optional parts inline.
func El(tag string, attrs []Attr, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.Key, Val: a.Val})
	}
	for _, c := range children {
		if c != nil {
			n.AppendChild(c)
		}
	}
	return n
}

// Text creates a text node. Its content is escaped when rendered.
func Text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// Raw creates a node whose content is written verbatim when rendered.
func Raw(s string) *html.Node {
	return &html.Node{Type: html.RawNode, Data: s}
}

// Render serializes nodes in order.
func Render(nodes ...*html.Node) (string, error) {
	var buf bytes.Buffer
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := html.Render(&buf, n); err != nil {
			return "", err
		}
	}
	return buf.String(), nil
}

// MustRender is Render for trees built entirely in process, where
// serialization cannot fail short of a programming error.
func MustRender(nodes ...*html.Node) string {
	s, err := Render(nodes...)
	if err != nil {
		panic("markup: " + err.Error())
	}
	return s
}

// Parser parses block fragments in a <body> context.
type Parser struct {
	context *html.Node
}

// NewParser creates a fragment parser.
func NewParser() *Parser {
	return &Parser{context: &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}}
}

// ParseString parses a fragment held in a string.
func (p *Parser) ParseString(content string) ([]*html.Node, error) {
	return p.Parse(strings.NewReader(content))
}

// Parse parses a fragment from r and returns its top-level nodes.
func (p *Parser) Parse(r io.Reader) ([]*html.Node, error) {
	return html.ParseFragment(r, p.context)
}

// AttrValue returns the value of attribute key on n.
func AttrValue(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, key) {
			return a.Val, true
		}
	}
	return "", false
}

// Classes returns the class list of n.
func Classes(n *html.Node) []string {
	v, _ := AttrValue(n, "class")
	return strings.Fields(v)
}

// TextContent concatenates all descendant text of n.
func TextContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(cur *html.Node) {
		if cur.Type == html.TextNode {
			b.WriteString(cur.Data)
		}
		for c := cur.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return b.String()
}
