package savexml

import (
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/perankh/perankh/internal/oldworld"
)

// Node is a read-only view over one element of the document tree.
type Node struct {
	el *etree.Element
}

// Tag returns the element name.
func (n Node) Tag() string { return n.el.Tag }

// Text returns the element's trimmed text content.
func (n Node) Text() string { return strings.TrimSpace(n.el.Text()) }

// Path renders the element's location for error messages, tagging any
// element that carries an ID attribute: /Root/Player[ID=5]/Character[ID=10].
func (n Node) Path() string {
	var parts []string
	for el := n.el; el != nil && el.Tag != ""; el = el.Parent() {
		seg := el.Tag
		if id := el.SelectAttrValue("ID", ""); id != "" {
			seg += "[ID=" + id + "]"
		}
		parts = append(parts, seg)
	}
	var b strings.Builder
	for i := len(parts) - 1; i >= 0; i-- {
		b.WriteByte('/')
		b.WriteString(parts[i])
	}
	return b.String()
}

// ---------------------------------------------------------------------------
// Attributes
// ---------------------------------------------------------------------------

// ReqAttr returns a required attribute, or a MissingAttributeError named
// "path.attr".
func (n Node) ReqAttr(name string) (string, error) {
	if a := n.el.SelectAttr(name); a != nil {
		return a.Value, nil
	}
	return "", &oldworld.MissingAttributeError{Path: n.Path() + "." + name}
}

// OptAttr returns an attribute value and whether it was present.
func (n Node) OptAttr(name string) (string, bool) {
	if a := n.el.SelectAttr(name); a != nil {
		return a.Value, true
	}
	return "", false
}

// ReqAttrInt parses a required integer attribute.
func (n Node) ReqAttrInt(name string) (int, error) {
	s, err := n.ReqAttr(name)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &oldworld.InvalidFormatError{Path: n.Path() + "." + name, Value: s, Err: err}
	}
	return v, nil
}

// OptAttrInt parses an optional integer attribute; unparseable values
// count as absent.
func (n Node) OptAttrInt(name string) (int, bool) {
	s, ok := n.OptAttr(name)
	if !ok {
		return 0, false
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ---------------------------------------------------------------------------
// Children
// ---------------------------------------------------------------------------

// Child returns the first child element with the given tag.
func (n Node) Child(tag string) (Node, bool) {
	if el := n.el.SelectElement(tag); el != nil {
		return Node{el: el}, true
	}
	return Node{}, false
}

// HasChild reports whether a child element with the tag exists. Saves use
// bare presence elements like <Capital/> and <Road/> as booleans.
func (n Node) HasChild(tag string) bool {
	return n.el.SelectElement(tag) != nil
}

// Children returns all child elements with the given tag.
func (n Node) Children(tag string) []Node {
	els := n.el.SelectElements(tag)
	nodes := make([]Node, len(els))
	for i, el := range els {
		nodes[i] = Node{el: el}
	}
	return nodes
}

// Elements returns every child element regardless of tag. Map-style
// containers (FamilyClass, TribeDiplomacy) encode keys as tag names, so
// callers iterate these directly.
func (n Node) Elements() []Node {
	var nodes []Node
	for _, el := range n.el.ChildElements() {
		nodes = append(nodes, Node{el: el})
	}
	return nodes
}

// FindDescendant locates the first element with the tag anywhere below
// this node.
func (n Node) FindDescendant(tag string) (Node, bool) {
	if el := n.el.FindElement(".//" + tag); el != nil {
		return Node{el: el}, true
	}
	return Node{}, false
}

// ReqChildText returns the text of a required child element, or a
// MissingElementError named "path/tag".
func (n Node) ReqChildText(tag string) (string, error) {
	if c, ok := n.Child(tag); ok {
		return c.Text(), nil
	}
	return "", &oldworld.MissingElementError{Path: n.Path() + "/" + tag}
}

// OptChildText returns the text of an optional child element.
func (n Node) OptChildText(tag string) (string, bool) {
	if c, ok := n.Child(tag); ok {
		return c.Text(), true
	}
	return "", false
}

// ---------------------------------------------------------------------------
// Typed child helpers
// ---------------------------------------------------------------------------

// ReqChildInt parses a required integer child.
func (n Node) ReqChildInt(tag string) (int, error) {
	s, err := n.ReqChildText(tag)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, &oldworld.InvalidFormatError{Path: n.Path() + "/" + tag, Value: s, Err: err}
	}
	return v, nil
}

// OptChildInt parses an optional integer child, falling back to def when
// the element is absent or unparseable.
func (n Node) OptChildInt(tag string, def int) int {
	s, ok := n.OptChildText(tag)
	if !ok {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}

// OptChildIntPtr parses an optional integer child into a nullable value.
func (n Node) OptChildIntPtr(tag string) *int {
	s, ok := n.OptChildText(tag)
	if !ok {
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &v
}

// OptChildInt64Ptr parses an optional 64-bit integer child (seeds).
func (n Node) OptChildInt64Ptr(tag string) *int64 {
	s, ok := n.OptChildText(tag)
	if !ok {
		return nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil
	}
	return &v
}

// OptChildBool parses an optional boolean child ("true"/"false").
func (n Node) OptChildBool(tag string, def bool) bool {
	s, ok := n.OptChildText(tag)
	if !ok {
		return def
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return def
	}
	return v
}

// OptChildString returns an optional non-empty string child.
func (n Node) OptChildString(tag string) *string {
	s, ok := n.OptChildText(tag)
	if !ok || s == "" {
		return nil
	}
	return &s
}
