package xml

// Table is a w:tbl element.
type Table struct {
	Properties *Node
	Grid       *Node
	Rows       []*TableRow
	// Extra holds children other than rows (bookmarks, custom xml), written after the rows.
	Extra []*Node
}

func (t *Table) isBodyElement() {}

// TableRow is a w:tr element.
type TableRow struct {
	Attrs      []Attr
	Exceptions *Node // w:tblPrEx
	Properties *Node // w:trPr
	Cells      []*TableCell
	Extra      []*Node
}

// TableCell is a w:tc element. It is a Container.
type TableCell struct {
	Properties *Node
	Content    []BodyElement
}

// Blocks implements Container.
func (c *TableCell) Blocks() []BodyElement { return c.Content }

// SetBlocks implements Container.
func (c *TableCell) SetBlocks(blocks []BodyElement) { c.Content = blocks }

// Clone returns a deep copy of t.
func (t *Table) Clone() *Table {
	c := &Table{Properties: t.Properties.Clone(), Grid: t.Grid.Clone()}
	c.Rows = make([]*TableRow, len(t.Rows))
	for i, r := range t.Rows {
		c.Rows[i] = r.Clone()
	}
	for _, n := range t.Extra {
		c.Extra = append(c.Extra, n.Clone())
	}
	return c
}

// Clone returns a deep copy of r without its unique paragraph ids.
func (r *TableRow) Clone() *TableRow {
	c := &TableRow{Exceptions: r.Exceptions.Clone(), Properties: r.Properties.Clone()}
	for _, a := range r.Attrs {
		if !paragraphIDAttrs[a.Name] {
			c.Attrs = append(c.Attrs, a)
		}
	}
	c.Cells = make([]*TableCell, len(r.Cells))
	for i, cell := range r.Cells {
		c.Cells[i] = cell.Clone()
	}
	for _, n := range r.Extra {
		c.Extra = append(c.Extra, n.Clone())
	}
	return c
}

// Clone returns a deep copy of c.
func (c *TableCell) Clone() *TableCell {
	return &TableCell{Properties: c.Properties.Clone(), Content: CloneBlocks(c.Content)}
}

// RowIndex returns the position of r in the table, or -1.
func (t *Table) RowIndex(r *TableRow) int {
	for i, row := range t.Rows {
		if row == r {
			return i
		}
	}
	return -1
}

// InsertRows inserts rows at position at.
func (t *Table) InsertRows(at int, rows ...*TableRow) {
	at = max(0, min(at, len(t.Rows)))
	out := make([]*TableRow, 0, len(t.Rows)+len(rows))
	out = append(out, t.Rows[:at]...)
	out = append(out, rows...)
	out = append(out, t.Rows[at:]...)
	t.Rows = out
}

// RemoveRow removes r from the table.
func (t *Table) RemoveRow(r *TableRow) bool {
	i := t.RowIndex(r)
	if i < 0 {
		return false
	}
	t.Rows = append(t.Rows[:i], t.Rows[i+1:]...)
	return true
}

// CellIndex returns the position of c in the row, or -1.
func (r *TableRow) CellIndex(c *TableCell) int {
	for i, cell := range r.Cells {
		if cell == c {
			return i
		}
	}
	return -1
}

// Clear removes the text and pictures of the cell and every paragraph but the
// first. A cell always keeps one paragraph.
func (c *TableCell) Clear() {
	var first *Paragraph
	for _, b := range c.Content {
		if p, ok := b.(*Paragraph); ok {
			first = p
			break
		}
	}
	if first == nil {
		first = &Paragraph{}
	}
	first.Clear()
	c.Content = []BodyElement{first}
}

// CopyFrom replaces the content and formatting of c with a copy of src. The
// width and span of c are kept so the table grid stays intact.
func (c *TableCell) CopyFrom(src *TableCell) {
	props := src.Properties.Clone()
	if c.Properties != nil {
		for _, keep := range []string{"w:tcW", "w:gridSpan"} {
			if own := c.Properties.Child(keep); own != nil {
				if props == nil {
					props = &Node{Name: "w:tcPr"}
				}
				replaceChild(props, own.Clone())
			}
		}
	}
	c.Properties = props
	c.Content = CloneBlocks(src.Content)
	if len(c.Content) == 0 {
		c.Content = []BodyElement{&Paragraph{}}
	}
}

func replaceChild(parent, child *Node) {
	for i, n := range parent.Children {
		if n.Name == child.Name {
			parent.Children[i] = child
			return
		}
	}
	parent.Children = append([]*Node{child}, parent.Children...)
}

func tableFromNode(n *Node) *Table {
	t := &Table{}
	for _, c := range n.Children {
		switch c.Name {
		case "":
		case "w:tblPr":
			t.Properties = c
		case "w:tblGrid":
			t.Grid = c
		case "w:tr":
			t.Rows = append(t.Rows, rowFromNode(c))
		default:
			t.Extra = append(t.Extra, c)
		}
	}
	return t
}

func rowFromNode(n *Node) *TableRow {
	r := &TableRow{Attrs: n.Attrs}
	for _, c := range n.Children {
		switch c.Name {
		case "":
		case "w:tblPrEx":
			r.Exceptions = c
		case "w:trPr":
			r.Properties = c
		case "w:tc":
			r.Cells = append(r.Cells, cellFromNode(c))
		default:
			r.Extra = append(r.Extra, c)
		}
	}
	return r
}

func cellFromNode(n *Node) *TableCell {
	cell := &TableCell{}
	var blocks []*Node
	for _, c := range n.Children {
		if c.Name == "w:tcPr" {
			cell.Properties = c
			continue
		}
		blocks = append(blocks, c)
	}
	cell.Content = blocksFromNodes(blocks)
	return cell
}

func (t *Table) toNode() *Node {
	n := &Node{Name: "w:tbl"}
	if t.Properties != nil {
		n.Children = append(n.Children, t.Properties)
	}
	if t.Grid != nil {
		n.Children = append(n.Children, t.Grid)
	}
	for _, r := range t.Rows {
		n.Children = append(n.Children, r.toNode())
	}
	n.Children = append(n.Children, t.Extra...)
	return n
}

func (r *TableRow) toNode() *Node {
	n := &Node{Name: "w:tr", Attrs: r.Attrs}
	if r.Exceptions != nil {
		n.Children = append(n.Children, r.Exceptions)
	}
	if r.Properties != nil {
		n.Children = append(n.Children, r.Properties)
	}
	for _, c := range r.Cells {
		n.Children = append(n.Children, c.toNode())
	}
	n.Children = append(n.Children, r.Extra...)
	return n
}

func (c *TableCell) toNode() *Node {
	n := &Node{Name: "w:tc"}
	if c.Properties != nil {
		n.Children = append(n.Children, c.Properties)
	}
	n.Children = append(n.Children, blocksToNodes(c.Content)...)
	return n
}

// NewTable creates a table of rows x cols cells, each holding one empty
// paragraph, with single borders.
func NewTable(rows, cols int) *Table {
	t := &Table{
		Properties: MustParseNode(`<w:tblPr><w:tblStyle w:val="TableGrid"/><w:tblW w:w="0" w:type="auto"/>` +
			`<w:tblBorders><w:top w:val="single" w:sz="4"/><w:left w:val="single" w:sz="4"/>` +
			`<w:bottom w:val="single" w:sz="4"/><w:right w:val="single" w:sz="4"/>` +
			`<w:insideH w:val="single" w:sz="4"/><w:insideV w:val="single" w:sz="4"/></w:tblBorders></w:tblPr>`),
		Grid: &Node{Name: "w:tblGrid"},
	}
	for i := 0; i < cols; i++ {
		t.Grid.Children = append(t.Grid.Children, &Node{Name: "w:gridCol"})
	}
	for i := 0; i < rows; i++ {
		r := &TableRow{}
		for j := 0; j < cols; j++ {
			r.Cells = append(r.Cells, &TableCell{Content: []BodyElement{&Paragraph{}}})
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}
