package xml

import (
	"testing"
)

func TestTableRows(t *testing.T) {
	tbl := NewTable(2, 2)
	first, second := tbl.Rows[0], tbl.Rows[1]
	copy1, copy2 := first.Clone(), first.Clone()

	tbl.InsertRows(tbl.RowIndex(first)+1, copy1, copy2)
	if got := len(tbl.Rows); got != 4 {
		t.Fatalf("len(Rows) = %d, want 4", got)
	}
	if tbl.RowIndex(copy2) != 2 || tbl.RowIndex(second) != 3 {
		t.Errorf("rows inserted at the wrong place")
	}
	if !tbl.RemoveRow(first) || tbl.RemoveRow(first) {
		t.Error("RemoveRow must succeed once")
	}
	if tbl.RowIndex(first) != -1 {
		t.Error("removed row still indexed")
	}
	tbl.InsertRows(99, first)
	if tbl.Rows[len(tbl.Rows)-1] != first {
		t.Error("InsertRows past the end must append")
	}
}

func TestTableCellClear(t *testing.T) {
	cell := &TableCell{Content: []BodyElement{
		runsParagraph("one"),
		runsParagraph("two"),
	}}
	pic := &Run{Content: []RunContent{&Drawing{Node: MustParseNode(`<w:drawing><wp:inline/></w:drawing>`)}}}
	cell.Content[0].(*Paragraph).Content = append(cell.Content[0].(*Paragraph).Content, pic)

	cell.Clear()
	if len(cell.Content) != 1 {
		t.Fatalf("len(Content) = %d, want 1", len(cell.Content))
	}
	p := cell.Content[0].(*Paragraph)
	if p.Text() != "" || len(p.Drawings()) != 0 {
		t.Error("Clear() must remove text and pictures")
	}

	empty := &TableCell{}
	empty.Clear()
	if len(empty.Content) != 1 {
		t.Error("a cleared cell must keep one paragraph")
	}
}

func TestTableCellCopyFrom(t *testing.T) {
	src := &TableCell{
		Properties: MustParseNode(`<w:tcPr><w:tcW w:w="100" w:type="dxa"/><w:shd w:fill="FF0000"/></w:tcPr>`),
		Content:    []BodyElement{runsParagraph("{$:txt:name}")},
	}
	dst := &TableCell{
		Properties: MustParseNode(`<w:tcPr><w:tcW w:w="300" w:type="dxa"/></w:tcPr>`),
		Content:    []BodyElement{runsParagraph("old")},
	}
	dst.CopyFrom(src)

	if got := dst.Content[0].(*Paragraph).Text(); got != "{$:txt:name}" {
		t.Errorf("content = %q, want copy of source", got)
	}
	if w, _ := dst.Properties.Child("w:tcW").Attr("w:w"); w != "300" {
		t.Errorf("tcW = %s, want own width 300", w)
	}
	if dst.Properties.Child("w:shd") == nil {
		t.Error("shading not copied")
	}
	dst.Content[0].(*Paragraph).ReplaceText("{$:txt:name}", "x")
	if src.Content[0].(*Paragraph).Text() != "{$:txt:name}" {
		t.Error("CopyFrom shares content with the source")
	}
}

func TestWalkers(t *testing.T) {
	inner := NewTable(1, 1)
	inner.Rows[0].Cells[0].Content = []BodyElement{runsParagraph("inner")}
	outer := NewTable(1, 2)
	outer.Rows[0].Cells[1].Content = []BodyElement{runsParagraph("cell"), inner}
	body := &Body{Elements: []BodyElement{runsParagraph("top"), outer}}

	refs := Paragraphs(body, body.Elements)
	var texts []string
	for _, r := range refs {
		texts = append(texts, r.Paragraph.Text())
	}
	want := []string{"top", "", "cell", "inner"}
	if len(texts) != len(want) {
		t.Fatalf("Paragraphs() = %q, want %q", texts, want)
	}
	for i := range want {
		if texts[i] != want[i] {
			t.Errorf("Paragraphs()[%d] = %q, want %q", i, texts[i], want[i])
		}
	}
	if refs[0].Container != Container(body) || refs[3].Container != Container(inner.Rows[0].Cells[0]) {
		t.Error("paragraph refs carry the wrong container")
	}

	tables := Tables(body, body.Elements)
	if len(tables) != 2 || tables[0].Table != outer || tables[1].Table != inner {
		t.Errorf("Tables() returned %d tables in the wrong order", len(tables))
	}

	p := refs[0].Paragraph
	extra := runsParagraph("after")
	if !InsertAfter(body, p, extra) || IndexOf(body, extra) != 1 {
		t.Error("InsertAfter failed")
	}
	if !InsertBefore(body, p, runsParagraph("before")) || IndexOf(body, p) != 1 {
		t.Error("InsertBefore failed")
	}
	if !RemoveBlock(body, p) || Contains(body, p) {
		t.Error("RemoveBlock failed")
	}
	if InsertAfter(body, p, extra) {
		t.Error("InsertAfter must fail for a detached reference")
	}
}
