package kml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

var (
	// ErrNotKML is returned when the document root is not a KML element.
	ErrNotKML = errors.New("not a kml document")
	// ErrEmptyDocument is returned when the input holds no element at all.
	ErrEmptyDocument = errors.New("empty document")
	// ErrMultipleRoots is returned when the input holds more than one
	// top-level element.
	ErrMultipleRoots = errors.New("more than one root element")
)

// Parse reads one KML document. A <kml> root yields a *Root; a bare
// <Document>, <Folder> or <Placemark> root is classified directly.
func Parse(r io.Reader) (Element, error) {
	root, err := ParseTree(r)
	if err != nil {
		return nil, err
	}
	switch root.Tag {
	case TagKML:
		return &Root{Attrs: root.Attrs, Elements: classifyAll(root.Children)}, nil
	case TagDocument, TagFolder, TagPlacemark:
		return classify(root), nil
	default:
		return nil, fmt.Errorf("%w: root element <%s>", ErrNotKML, root.Tag)
	}
}

// ParseTree reads an XML document into a generic Node tree.
// Namespaces are dropped from tag and attribute names.
func ParseTree(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var (
		root  *Node
		stack []*Node
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read xml: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Tag: t.Name.Local, Attrs: make(map[string]string, len(t.Attr))}
			for _, a := range t.Attr {
				n.Attrs[a.Name.Local] = a.Value
			}
			switch {
			case len(stack) > 0:
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			case root == nil:
				root = n
			default:
				return nil, fmt.Errorf("%w: <%s> after <%s>", ErrMultipleRoots, n.Tag, root.Tag)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				top := stack[len(stack)-1]
				top.raw = append(top.raw, t...)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, fmt.Errorf("read xml: unexpected </%s>", t.Name.Local)
			}
			stack[len(stack)-1].finish()
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

func (n *Node) finish() {
	if s := strings.TrimSpace(string(n.raw)); s != "" {
		n.Content = s
		n.HasContent = true
	}
	n.raw = nil
}
