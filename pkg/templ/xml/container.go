package xml

// BodyElement is a block that can appear in a body or a table cell.
type BodyElement interface {
	isBodyElement()
}

// Container owns an ordered list of blocks.
type Container interface {
	Blocks() []BodyElement
	SetBlocks([]BodyElement)
}

// CloneBlock returns a deep copy of a block.
func CloneBlock(e BodyElement) BodyElement {
	switch v := e.(type) {
	case *Paragraph:
		return v.Clone()
	case *Table:
		return v.Clone()
	case *Node:
		return v.Clone()
	}
	return e
}

// CloneBlocks returns deep copies of blocks.
func CloneBlocks(blocks []BodyElement) []BodyElement {
	if blocks == nil {
		return nil
	}
	out := make([]BodyElement, len(blocks))
	for i, b := range blocks {
		out[i] = CloneBlock(b)
	}
	return out
}

// IndexOf returns the position of e among the blocks of c, or -1.
func IndexOf(c Container, e BodyElement) int {
	for i, b := range c.Blocks() {
		if b == e {
			return i
		}
	}
	return -1
}

// Contains reports whether e is a direct block of c.
func Contains(c Container, e BodyElement) bool {
	return IndexOf(c, e) >= 0
}

// RemoveBlock removes e from c.
func RemoveBlock(c Container, e BodyElement) bool {
	i := IndexOf(c, e)
	if i < 0 {
		return false
	}
	blocks := c.Blocks()
	c.SetBlocks(append(blocks[:i:i], blocks[i+1:]...))
	return true
}

// InsertAfter inserts elems directly after ref.
func InsertAfter(c Container, ref BodyElement, elems ...BodyElement) bool {
	i := IndexOf(c, ref)
	if i < 0 {
		return false
	}
	c.SetBlocks(insertBlocks(c.Blocks(), i+1, elems))
	return true
}

// InsertBefore inserts elems directly before ref.
func InsertBefore(c Container, ref BodyElement, elems ...BodyElement) bool {
	i := IndexOf(c, ref)
	if i < 0 {
		return false
	}
	c.SetBlocks(insertBlocks(c.Blocks(), i, elems))
	return true
}

func insertBlocks(blocks []BodyElement, at int, elems []BodyElement) []BodyElement {
	out := make([]BodyElement, 0, len(blocks)+len(elems))
	out = append(out, blocks[:at]...)
	out = append(out, elems...)
	out = append(out, blocks[at:]...)
	return out
}

// ParagraphRef is a paragraph together with the container that owns it.
type ParagraphRef struct {
	Container Container
	Paragraph *Paragraph
}

// Paragraphs returns every paragraph in blocks, which belong to c, descending
// into table cells.
func Paragraphs(c Container, blocks []BodyElement) []ParagraphRef {
	var out []ParagraphRef
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			out = append(out, ParagraphRef{Container: c, Paragraph: v})
		case *Table:
			for _, r := range v.Rows {
				for _, cell := range r.Cells {
					out = append(out, Paragraphs(cell, cell.Content)...)
				}
			}
		}
	}
	return out
}

// TableRef is a table together with the container that owns it.
type TableRef struct {
	Container Container
	Table     *Table
}

// Tables returns every table in blocks, which belong to c, including nested
// tables. Outer tables come before the tables nested in them.
func Tables(c Container, blocks []BodyElement) []TableRef {
	var out []TableRef
	for _, b := range blocks {
		t, ok := b.(*Table)
		if !ok {
			continue
		}
		out = append(out, TableRef{Container: c, Table: t})
		for _, r := range t.Rows {
			for _, cell := range r.Cells {
				out = append(out, Tables(cell, cell.Content)...)
			}
		}
	}
	return out
}

func blocksFromNodes(nodes []*Node) []BodyElement {
	var out []BodyElement
	for _, n := range nodes {
		switch n.Name {
		case "":
		case "w:p":
			out = append(out, paragraphFromNode(n))
		case "w:tbl":
			out = append(out, tableFromNode(n))
		default:
			out = append(out, n)
		}
	}
	return out
}

func blocksToNodes(blocks []BodyElement) []*Node {
	out := make([]*Node, 0, len(blocks))
	for _, b := range blocks {
		switch v := b.(type) {
		case *Paragraph:
			out = append(out, v.toNode())
		case *Table:
			out = append(out, v.toNode())
		case *Node:
			out = append(out, v)
		}
	}
	return out
}
