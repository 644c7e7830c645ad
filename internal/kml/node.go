// Package kml reads KML documents into a generic labeled tree and
// classifies the structural elements the activity pipeline cares about.
package kml

// Node is one XML element of a parsed document.
type Node struct {
	Tag        string
	Attrs      map[string]string
	Content    string
	HasContent bool
	Children   []*Node

	raw []byte
}

// Child returns the first child with the given tag.
func (n *Node) Child(tag string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if c.Tag == tag {
			return c, true
		}
	}
	return nil, false
}

// ChildByAttr returns the first child whose attribute key equals value.
func (n *Node) ChildByAttr(key, value string) (*Node, bool) {
	if n == nil {
		return nil, false
	}
	for _, c := range n.Children {
		if v, ok := c.Attrs[key]; ok && v == value {
			return c, true
		}
	}
	return nil, false
}

// Text returns the trimmed character data of the node, if it has any.
func (n *Node) Text() (string, bool) {
	if n == nil || !n.HasContent {
		return "", false
	}
	return n.Content, true
}

// ChildText is Child followed by Text.
func (n *Node) ChildText(tag string) (string, bool) {
	c, ok := n.Child(tag)
	if !ok {
		return "", false
	}
	return c.Text()
}
