// Package xmltree parses XML documents into a mutable tree of elements and
// serializes them back. It models exactly what the LIMS resource format
// needs: tag names, attributes, character data, and child elements.
// Namespace prefixes are resolved away; elements and attributes are
// addressed by their local names.
package xmltree

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Attr is a single element attribute. Attribute order from the source
// document is preserved.
type Attr struct {
	Name  string
	Value string
}

// Node is one element in the tree.
type Node struct {
	Tag      string
	Attrs    []Attr
	Text     string
	Children []*Node
}

// ErrNoRoot is returned when a document contains no root element.
var ErrNoRoot = errors.New("xmltree: document has no root element")

// Parse decodes an XML document into its root Node.
func Parse(doc []byte) (*Node, error) {
	dec := xml.NewDecoder(strings.NewReader(string(doc)))

	var root *Node
	var stack []*Node
	var text []*strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("xmltree: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local}
			for _, a := range t.Attr {
				// Namespace declarations are dropped; everything is
				// addressed by local name.
				if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, errors.New("xmltree: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})

		case xml.EndElement:
			n := stack[len(stack)-1]
			n.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]

		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}

	if len(stack) != 0 {
		return nil, errors.New("xmltree: unexpected end of document")
	}
	if root == nil {
		return nil, ErrNoRoot
	}
	return root, nil
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr replaces the named attribute or appends it if absent.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Find returns the first direct child with the given tag, or nil.
func (n *Node) Find(tag string) *Node {
	for _, c := range n.Children {
		if c.Tag == tag {
			return c
		}
	}
	return nil
}

// FindAll returns all direct children with the given tag.
func (n *Node) FindAll(tag string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.Tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// RemoveAll removes every element with the given tag from the subtree
// rooted at n, at any depth. It returns the number of removed elements.
func (n *Node) RemoveAll(tag string) int {
	removed := 0
	kept := n.Children[:0]
	for _, c := range n.Children {
		if c.Tag == tag {
			removed++
			continue
		}
		removed += c.RemoveAll(tag)
		kept = append(kept, c)
	}
	n.Children = kept
	return removed
}

// AppendChild appends c to n's children.
func (n *Node) AppendChild(c *Node) {
	n.Children = append(n.Children, c)
}

// String serializes the subtree rooted at n. Character data and attribute
// values are escaped; elements without text or children are self-closed.
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)
	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	b.WriteByte('<')
	b.WriteString(n.Tag)
	for _, a := range n.Attrs {
		b.WriteByte(' ')
		b.WriteString(a.Name)
		b.WriteString(`="`)
		xml.EscapeText(b, []byte(a.Value))
		b.WriteByte('"')
	}
	if n.Text == "" && len(n.Children) == 0 {
		b.WriteString("/>")
		return
	}
	b.WriteByte('>')
	xml.EscapeText(b, []byte(n.Text))
	for _, c := range n.Children {
		c.write(b)
	}
	b.WriteString("</")
	b.WriteString(n.Tag)
	b.WriteByte('>')
}
