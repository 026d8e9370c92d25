package xml

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
)

// Document is a decoded story part: the main document (w:document), a header
// (w:hdr) or a footer (w:ftr).
type Document struct {
	Name  string
	Attrs []Attr
	// Before holds root children that precede the body, e.g. w:background.
	Before []*Node
	Body   *Body
}

// Body is the block container of a part. It is a Container.
type Body struct {
	Elements []BodyElement
	// SectionProperties is the w:sectPr of the final section, main document only.
	SectionProperties *Node
}

// Blocks implements Container.
func (b *Body) Blocks() []BodyElement { return b.Elements }

// SetBlocks implements Container.
func (b *Body) SetBlocks(blocks []BodyElement) { b.Elements = blocks }

// IsMain reports whether d is the main document part.
func (d *Document) IsMain() bool {
	return d.Name == "w:document"
}

// Parse decodes a story part.
func Parse(data []byte) (*Document, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	ns := namespaces{}
	var root *Node
	for root == nil {
		tok, err := dec.Token()
		if err == io.EOF {
			return nil, fmt.Errorf("empty document")
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse XML: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			root, err = decodeNode(dec, start, ns)
			if err != nil {
				return nil, fmt.Errorf("failed to parse XML: %w", err)
			}
		}
	}

	doc := &Document{Name: root.Name, Attrs: root.Attrs}
	switch root.Name {
	case "w:document":
		for _, c := range root.Children {
			if c.Name == "w:body" {
				doc.Body = bodyFromNode(c)
			} else if c.Name != "" {
				doc.Before = append(doc.Before, c)
			}
		}
		if doc.Body == nil {
			doc.Body = &Body{}
		}
	case "w:hdr", "w:ftr", "w:footnotes", "w:endnotes":
		doc.Body = bodyFromNode(root)
	default:
		return nil, fmt.Errorf("unsupported root element %q", root.Name)
	}
	return doc, nil
}

func bodyFromNode(n *Node) *Body {
	b := &Body{}
	var blocks []*Node
	for _, c := range n.Children {
		if c.Name == "w:sectPr" {
			b.SectionProperties = c
			continue
		}
		blocks = append(blocks, c)
	}
	b.Elements = blocksFromNodes(blocks)
	return b
}

// Marshal encodes the part with a standalone XML declaration.
func (d *Document) Marshal() ([]byte, error) {
	root := &Node{Name: d.Name, Attrs: d.Attrs}
	children := blocksToNodes(d.Body.Elements)
	if d.Body.SectionProperties != nil {
		children = append(children, d.Body.SectionProperties)
	}
	if d.IsMain() {
		root.Children = append(root.Children, d.Before...)
		root.Children = append(root.Children, &Node{Name: "w:body", Children: children})
	} else {
		root.Children = children
	}

	var buf bytes.Buffer
	buf.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n")
	enc := xml.NewEncoder(&buf)
	if err := root.encode(enc); err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", d.Name, err)
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Clone returns a deep copy of the part.
func (d *Document) Clone() *Document {
	c := &Document{Name: d.Name, Attrs: append([]Attr(nil), d.Attrs...)}
	for _, n := range d.Before {
		c.Before = append(c.Before, n.Clone())
	}
	c.Body = &Body{
		Elements:          CloneBlocks(d.Body.Elements),
		SectionProperties: d.Body.SectionProperties.Clone(),
	}
	return c
}

// NewDocument creates an empty main document part declaring the common
// WordprocessingML namespaces.
func NewDocument() *Document {
	return &Document{
		Name: "w:document",
		Attrs: []Attr{
			{Name: "xmlns:w", Value: NamespaceW},
			{Name: "xmlns:r", Value: NamespaceR},
			{Name: "xmlns:wp", Value: NamespaceWP},
			{Name: "xmlns:a", Value: NamespaceA},
			{Name: "xmlns:pic", Value: NamespacePic},
		},
		Body: &Body{
			SectionProperties: MustParseNode(`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/>` +
				`<w:pgMar w:top="1440" w:right="1440" w:bottom="1440" w:left="1440" w:header="708" w:footer="708" w:gutter="0"/></w:sectPr>`),
		},
	}
}
