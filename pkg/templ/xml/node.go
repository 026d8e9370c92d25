package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Attr is an attribute with a prefixed name such as "w:val".
type Attr struct {
	Name  string
	Value string
}

// Node is an XML element preserved as-is. Character data is stored as a child
// Node with an empty Name.
type Node struct {
	Name     string
	Attrs    []Attr
	Children []*Node
	Text     string
}

func (n *Node) isBodyElement()      {}
func (n *Node) isParagraphContent() {}
func (n *Node) isRunContent()       {}

// NewNode creates an element with the given attributes and children.
func NewNode(name string, attrs []Attr, children ...*Node) *Node {
	return &Node{Name: name, Attrs: attrs, Children: children}
}

// CharData creates a character data node.
func CharData(s string) *Node {
	return &Node{Text: s}
}

// IsCharData reports whether n holds character data.
func (n *Node) IsCharData() bool {
	return n.Name == ""
}

// Attr returns the value of the named attribute.
func (n *Node) Attr(name string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

// SetAttr sets or adds the named attribute.
func (n *Node) SetAttr(name, value string) {
	for i := range n.Attrs {
		if n.Attrs[i].Name == name {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, Attr{Name: name, Value: value})
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// Find returns the first descendant with the given name, depth first.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// RemoveChild removes the first direct child with the given name.
func (n *Node) RemoveChild(name string) bool {
	for i, c := range n.Children {
		if c.Name == name {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// InnerText concatenates all character data below n.
func (n *Node) InnerText() string {
	if n == nil {
		return ""
	}
	if n.IsCharData() {
		return n.Text
	}
	var sb strings.Builder
	for _, c := range n.Children {
		sb.WriteString(c.InnerText())
	}
	return sb.String()
}

// Clone returns a deep copy of n.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := &Node{Name: n.Name, Text: n.Text}
	if n.Attrs != nil {
		c.Attrs = append([]Attr(nil), n.Attrs...)
	}
	if n.Children != nil {
		c.Children = make([]*Node, len(n.Children))
		for i, child := range n.Children {
			c.Children[i] = child.Clone()
		}
	}
	return c
}

// ParseNode decodes a single XML fragment. Prefixes that are not declared in the
// fragment itself are resolved with the well-known Word prefixes.
func ParseNode(data string) (*Node, error) {
	d := xml.NewDecoder(strings.NewReader(data))
	ns := namespaces{}
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("no element in fragment")
		}
		if err != nil {
			return nil, err
		}
		if start, ok := tok.(xml.StartElement); ok {
			return decodeNode(d, start, ns)
		}
	}
}

// MustParseNode is like ParseNode but panics on malformed input. It is meant for
// fragments that are constants in the program.
func MustParseNode(data string) *Node {
	n, err := ParseNode(data)
	if err != nil {
		panic(fmt.Sprintf("xml: bad fragment: %v", err))
	}
	return n
}

func decodeNode(d *xml.Decoder, start xml.StartElement, ns namespaces) (*Node, error) {
	ns.declare(start.Attr)
	n := &Node{Name: ns.qualify(start.Name)}
	if len(start.Attr) > 0 {
		n.Attrs = make([]Attr, 0, len(start.Attr))
		for _, a := range start.Attr {
			n.Attrs = append(n.Attrs, Attr{Name: ns.qualify(a.Name), Value: a.Value})
		}
	}
	for {
		tok, err := d.Token()
		if err != nil {
			if err == io.EOF {
				return nil, fmt.Errorf("unexpected end of document inside %s", n.Name)
			}
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			child, err := decodeNode(d, t, ns)
			if err != nil {
				return nil, err
			}
			n.Children = append(n.Children, child)
		case xml.CharData:
			n.Children = append(n.Children, CharData(string(t)))
		case xml.EndElement:
			return n, nil
		}
	}
}

func (n *Node) encode(e *xml.Encoder) error {
	if n.IsCharData() {
		return e.EncodeToken(xml.CharData(n.Text))
	}
	start := xml.StartElement{Name: xml.Name{Local: n.Name}}
	for _, a := range n.Attrs {
		start.Attr = append(start.Attr, xml.Attr{Name: xml.Name{Local: a.Name}, Value: a.Value})
	}
	if err := e.EncodeToken(start); err != nil {
		return err
	}
	for _, c := range n.Children {
		if err := c.encode(e); err != nil {
			return err
		}
	}
	return e.EncodeToken(start.End())
}

// String renders n as XML. It is used in tests and diagnostics.
func (n *Node) String() string {
	var buf bytes.Buffer
	e := xml.NewEncoder(&buf)
	if err := n.encode(e); err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	if err := e.Flush(); err != nil {
		return fmt.Sprintf("<!-- %v -->", err)
	}
	return buf.String()
}
