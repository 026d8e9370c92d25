package xml

import (
	"strconv"
	"strings"
)

// EMUPerPixel converts between DrawingML extents and pixels at 96 dpi.
const EMUPerPixel = 9525

// RunContent is an element inside a run (text, drawings, raw nodes).
type RunContent interface {
	isRunContent()
}

// Run is a contiguous piece of content sharing one set of run properties.
type Run struct {
	Attrs      []Attr
	Properties *Node
	Content    []RunContent
}

func (r *Run) isParagraphContent() {}

// Text is a w:t element. A literal text holds a substituted value: its
// content is never searched for placeholders.
type Text struct {
	Value    string
	Preserve bool
	literal  bool
}

func (t *Text) isRunContent() {}

// Drawing is a w:drawing element holding an inline or anchored picture.
type Drawing struct {
	Node *Node
}

func (d *Drawing) isRunContent() {}

// NewRun creates a run holding a single text element.
func NewRun(text string) *Run {
	return &Run{Content: []RunContent{newText(text)}}
}

func newText(s string) *Text {
	return &Text{Value: s, Preserve: needsPreserve(s)}
}

func needsPreserve(s string) bool {
	return s != strings.TrimSpace(s)
}

// Clone returns a deep copy of r.
func (r *Run) Clone() *Run {
	c := &Run{Properties: r.Properties.Clone()}
	if r.Attrs != nil {
		c.Attrs = append([]Attr(nil), r.Attrs...)
	}
	c.Content = make([]RunContent, len(r.Content))
	for i, rc := range r.Content {
		c.Content[i] = cloneRunContent(rc)
	}
	return c
}

func cloneRunContent(rc RunContent) RunContent {
	switch v := rc.(type) {
	case *Text:
		t := *v
		return &t
	case *Drawing:
		return &Drawing{Node: v.Node.Clone()}
	case *Node:
		return v.Clone()
	}
	return rc
}

// Text returns the text of the run's w:t elements.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, rc := range r.Content {
		if t, ok := rc.(*Text); ok {
			sb.WriteString(t.Value)
		}
	}
	return sb.String()
}

func runFromNode(n *Node) *Run {
	r := &Run{Attrs: n.Attrs}
	for _, c := range n.Children {
		switch c.Name {
		case "":
			// whitespace between elements
		case "w:rPr":
			r.Properties = c
		case "w:t":
			v, _ := c.Attr("xml:space")
			r.Content = append(r.Content, &Text{Value: c.InnerText(), Preserve: v == "preserve"})
		case "w:drawing":
			r.Content = append(r.Content, &Drawing{Node: c})
		default:
			r.Content = append(r.Content, c)
		}
	}
	return r
}

func (r *Run) toNode() *Node {
	n := &Node{Name: "w:r", Attrs: r.Attrs}
	if r.Properties != nil {
		n.Children = append(n.Children, r.Properties)
	}
	for _, rc := range r.Content {
		switch v := rc.(type) {
		case *Text:
			t := &Node{Name: "w:t", Children: []*Node{CharData(v.Value)}}
			if v.Preserve || needsPreserve(v.Value) {
				t.Attrs = []Attr{{Name: "xml:space", Value: "preserve"}}
			}
			n.Children = append(n.Children, t)
		case *Drawing:
			n.Children = append(n.Children, v.Node)
		case *Node:
			n.Children = append(n.Children, v)
		}
	}
	return n
}

// Description returns the alternative text of the picture (wp:docPr descr).
func (d *Drawing) Description() string {
	v, _ := d.Node.Find("wp:docPr").Attr("descr")
	return v
}

// SetDescription replaces the alternative text of the picture.
func (d *Drawing) SetDescription(s string) {
	if pr := d.Node.Find("wp:docPr"); pr != nil {
		pr.SetAttr("descr", s)
	}
}

// Extent returns the displayed size in EMU.
func (d *Drawing) Extent() (cx, cy int64) {
	ext := d.Node.Find("wp:extent")
	if ext == nil {
		return 0, 0
	}
	x, _ := ext.Attr("cx")
	y, _ := ext.Attr("cy")
	cx, _ = strconv.ParseInt(x, 10, 64)
	cy, _ = strconv.ParseInt(y, 10, 64)
	return cx, cy
}

// Width returns the displayed width in pixels.
func (d *Drawing) Width() int {
	cx, _ := d.Extent()
	return int(cx / EMUPerPixel)
}

// EmbedID returns the relationship id of the embedded image.
func (d *Drawing) EmbedID() string {
	v, _ := d.Node.Find("a:blip").Attr("r:embed")
	return v
}

// ID returns the drawing object id (wp:docPr id), or 0.
func (d *Drawing) ID() int {
	v, _ := d.Node.Find("wp:docPr").Attr("id")
	id, _ := strconv.Atoi(v)
	return id
}

// SetID replaces the drawing object id. Ids must be unique within a document.
func (d *Drawing) SetID(id int) {
	if pr := d.Node.Find("wp:docPr"); pr != nil {
		pr.SetAttr("id", strconv.Itoa(id))
	}
}
