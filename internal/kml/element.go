package kml

// Element is one structural piece of a KML document. The set of
// implementations is closed: *Root, *Container, *Placemark and *Other.
type Element interface {
	element()
}

// Root is the top-level <kml> wrapper.
type Root struct {
	Attrs    map[string]string
	Elements []Element
}

// Container is a <Document> or <Folder> grouping other elements.
type Container struct {
	Tag      string
	Attrs    map[string]string
	Elements []Element
}

// Placemark holds the raw subtree of a <Placemark>; its metadata is
// interpreted by the caller.
type Placemark struct {
	*Node
}

// Other is any element that is neither a container nor a placemark.
type Other struct {
	*Node
}

func (*Root) element()      {}
func (*Container) element() {}
func (*Placemark) element() {}
func (*Other) element()     {}

const (
	TagKML       = "kml"
	TagDocument  = "Document"
	TagFolder    = "Folder"
	TagPlacemark = "Placemark"
)

func classify(n *Node) Element {
	switch n.Tag {
	case TagDocument, TagFolder:
		return &Container{Tag: n.Tag, Attrs: n.Attrs, Elements: classifyAll(n.Children)}
	case TagPlacemark:
		return &Placemark{Node: n}
	default:
		return &Other{Node: n}
	}
}

func classifyAll(nodes []*Node) []Element {
	out := make([]Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, classify(n))
	}
	return out
}
