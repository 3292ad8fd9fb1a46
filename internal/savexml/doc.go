// Package savexml wraps a parsed save document in a read-only tree with
// accessors that turn lookup failures into precise, pathed errors.
package savexml

import (
	"encoding/xml"
	"errors"
	"fmt"

	"github.com/beevik/etree"

	"github.com/perankh/perankh/internal/oldworld"
)

// contextRadius is how many bytes of surrounding document a malformed-XML
// error carries on each side of the failure point.
const contextRadius = 150

// Document is an immutable save document. The underlying tree is never
// mutated after Parse returns, so it is safe to share across goroutines.
type Document struct {
	root Node
}

// Parse builds a document tree and verifies the save's <Root> envelope.
func Parse(data []byte) (*Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, malformed(data, err)
	}

	root := doc.Root()
	if root == nil {
		return nil, &oldworld.MalformedXMLError{
			Location: "document",
			Message:  "document has no root element",
		}
	}
	if root.Tag != "Root" {
		return nil, &oldworld.MalformedXMLError{
			Location: "/" + root.Tag,
			Message:  fmt.Sprintf("expected <Root> document element, found <%s>", root.Tag),
		}
	}

	return &Document{root: Node{el: root}}, nil
}

// Root returns the <Root> element.
func (d *Document) Root() Node { return d.root }

func malformed(data []byte, err error) error {
	location := "document"
	offset := 0

	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		location = fmt.Sprintf("line %d", syntaxErr.Line)
		offset = lineOffset(data, syntaxErr.Line)
	}

	return &oldworld.MalformedXMLError{
		Location: location,
		Message:  err.Error(),
		Context:  contextAround(data, offset),
	}
}

// lineOffset returns the byte offset of the start of a 1-based line.
func lineOffset(data []byte, line int) int {
	if line <= 1 {
		return 0
	}
	n := 1
	for i, b := range data {
		if b == '\n' {
			n++
			if n == line {
				return i + 1
			}
		}
	}
	return len(data)
}

// contextAround extracts a window around offset with "..." affixes when
// the document continues beyond the window.
func contextAround(data []byte, offset int) string {
	if len(data) == 0 {
		return ""
	}
	if offset < 0 {
		offset = 0
	}
	if offset > len(data) {
		offset = len(data)
	}

	start := offset - contextRadius
	end := offset + contextRadius
	if start < 0 {
		start = 0
	}
	if end > len(data) {
		end = len(data)
	}

	ctx := string(data[start:end])
	if start > 0 {
		ctx = "..." + ctx
	}
	if end < len(data) {
		ctx += "..."
	}
	return ctx
}
