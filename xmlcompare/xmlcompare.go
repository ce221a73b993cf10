// Package xmlcompare decides semantic equality between XML documents whose
// sibling-element order carries no meaning, such as unordered collections of
// sub-resources serialized as repeated elements. Tag names and attribute
// values remain significant.
package xmlcompare

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nkongenelly/genologics/xmltree"
)

var whitespace = regexp.MustCompile(`\s+`)

type options struct {
	exclude []string
}

// Option configures document normalization.
type Option func(*options)

// Exclude removes every element with the given tag, at any depth, before the
// canonical form is produced. Use it to ignore fields known to vary between
// otherwise-equivalent documents. A tag matching no element is a no-op.
func Exclude(tag string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, tag)
	}
}

// ComparableXML is a parsed document normalized into canonical form: children
// sorted recursively, excluded tags pruned.
type ComparableXML struct {
	root *xmltree.Node
}

// New parses doc and normalizes it. Malformed XML is reported as a parse
// error from the xmltree package.
func New(doc []byte, opts ...Option) (*ComparableXML, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	root, err := xmltree.Parse(doc)
	if err != nil {
		return nil, err
	}

	sortTree(root)
	for _, tag := range o.exclude {
		root.RemoveAll(tag)
	}
	return &ComparableXML{root: root}, nil
}

// sortTree orders children bottom-up. The sort key depends only on an
// element's own tag and attributes, never on its content, so siblings that
// agree on both tie and keep their original relative order.
func sortTree(n *xmltree.Node) {
	for _, c := range n.Children {
		sortTree(c)
	}
	sort.SliceStable(n.Children, func(i, j int) bool {
		return sortKey(n.Children[i]) < sortKey(n.Children[j])
	})
}

// sortKey is the element's tag followed by its attribute values in attribute
// name order.
func sortKey(n *xmltree.Node) string {
	attrs := make([]xmltree.Attr, len(n.Attrs))
	copy(attrs, n.Attrs)
	sort.Slice(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	var b strings.Builder
	b.WriteString(n.Tag)
	for _, a := range attrs {
		b.WriteString(a.Value)
	}
	return b.String()
}

// Canonical returns the whitespace-free serialization of the normalized
// document. Two documents are semantically equal iff their canonical forms
// are identical strings.
func (c *ComparableXML) Canonical() string {
	return whitespace.ReplaceAllString(c.root.String(), "")
}

// Equal reports whether a and b are semantically equal under the given
// options.
func Equal(a, b []byte, opts ...Option) (bool, error) {
	ca, err := New(a, opts...)
	if err != nil {
		return false, err
	}
	cb, err := New(b, opts...)
	if err != nil {
		return false, err
	}
	return ca.Canonical() == cb.Canonical(), nil
}
