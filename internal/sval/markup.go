package sval

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is one child of an Element: either *Element or Text.
type Node interface {
	node()
}

// Text is character data between tags.
type Text string

func (Text) node() {}

// Attr is a single name="value" attribute in source order.
type Attr struct {
	Name  string
	Value string
}

// Element is a tagged node with attributes and ordered children.
type Element struct {
	Name     string
	Attrs    []Attr
	Children []Node
}

func (*Element) node() {}

// Attr returns the value of the named attribute and whether it was present.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// Elements returns the element children of e, skipping text.
func (e *Element) Elements() []*Element {
	out := make([]*Element, 0, len(e.Children))
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			out = append(out, el)
		}
	}
	return out
}

// FirstElement returns the first element child of e, or nil.
func (e *Element) FirstElement() *Element {
	for _, c := range e.Children {
		if el, ok := c.(*Element); ok {
			return el
		}
	}
	return nil
}

// Document is a parsed SVAL file: its top-level elements in source order.
type Document struct {
	Elements []*Element
}

// SyntaxError reports malformed markup. No partial tree accompanies it.
type SyntaxError struct {
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("markup syntax error at line %d, column %d: %v", e.Line, e.Column, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// ParseMarkup parses cleaned SVAL text into an element tree.
//
// Self-closing elements, nesting, and text content are supported. Processing
// instructions, comments, and directives are skipped, as is text outside any
// element.
//
// Postcondition: returns a non-nil Document, or a *SyntaxError and no Document.
func ParseMarkup(text string) (*Document, error) {
	dec := xml.NewDecoder(strings.NewReader(text))
	dec.Strict = true

	doc := &Document{}
	var stack []*Element
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			line, col := dec.InputPos()
			return nil, &SyntaxError{Line: line, Column: col, Err: err}
		}

		switch tok := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: tok.Name.Local, Attrs: make([]Attr, 0, len(tok.Attr))}
			for _, a := range tok.Attr {
				el.Attrs = append(el.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if n := len(stack); n > 0 {
				stack[n-1].Children = append(stack[n-1].Children, el)
			} else {
				doc.Elements = append(doc.Elements, el)
			}
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			n := len(stack)
			if n == 0 {
				continue
			}
			parent := stack[n-1]
			// CDATA sections arrive as separate tokens; keep one text run.
			if last := len(parent.Children) - 1; last >= 0 {
				if prev, ok := parent.Children[last].(Text); ok {
					parent.Children[last] = prev + Text(tok)
					continue
				}
			}
			parent.Children = append(parent.Children, Text(tok))
		}
	}

	if len(stack) > 0 {
		line, col := dec.InputPos()
		return nil, &SyntaxError{Line: line, Column: col, Err: fmt.Errorf("element <%s> is never closed", stack[len(stack)-1].Name)}
	}
	return doc, nil
}
