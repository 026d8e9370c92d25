package xml

import (
	"strings"
	"testing"
)

func runsParagraph(texts ...string) *Paragraph {
	p := &Paragraph{}
	for _, s := range texts {
		p.Content = append(p.Content, NewRun(s))
	}
	return p
}

func TestReplaceText(t *testing.T) {
	tests := []struct {
		name      string
		runs      []string
		old       string
		new       string
		wantText  string
		wantCount int
	}{
		{
			name:      "single run",
			runs:      []string{"Hello {txt:Name}!"},
			old:       "{txt:Name}",
			new:       "World",
			wantText:  "Hello World!",
			wantCount: 1,
		},
		{
			name:      "split across three runs",
			runs:      []string{"Hello {tx", "t:Na", "me}!"},
			old:       "{txt:Name}",
			new:       "World",
			wantText:  "Hello World!",
			wantCount: 1,
		},
		{
			name:      "every occurrence",
			runs:      []string{"{a}-{a}", "-{", "a}"},
			old:       "{a}",
			new:       "x",
			wantText:  "x-x-x",
			wantCount: 3,
		},
		{
			name:      "replacement contains the old text",
			runs:      []string{"{a}{a}"},
			old:       "{a}",
			new:       "[{a}]",
			wantText:  "[{a}][{a}]",
			wantCount: 2,
		},
		{
			name:      "remove",
			runs:      []string{"x {!:note", "} y"},
			old:       "{!:note}",
			new:       "",
			wantText:  "x  y",
			wantCount: 1,
		},
		{
			name:      "absent",
			runs:      []string{"nothing"},
			old:       "{txt:x}",
			new:       "y",
			wantText:  "nothing",
			wantCount: 0,
		},
		{
			name:      "empty old",
			runs:      []string{"abc"},
			old:       "",
			new:       "y",
			wantText:  "abc",
			wantCount: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := runsParagraph(tt.runs...)
			got := p.ReplaceText(tt.old, tt.new)
			if got != tt.wantCount {
				t.Errorf("ReplaceText() = %d, want %d", got, tt.wantCount)
			}
			if text := p.Text(); text != tt.wantText {
				t.Errorf("Text() = %q, want %q", text, tt.wantText)
			}
		})
	}
}

func TestReplaceTextInsideHyperlink(t *testing.T) {
	p := &Paragraph{Content: []ParagraphContent{
		NewRun("see "),
		&Hyperlink{Content: []ParagraphContent{NewRun("{txt:"), NewRun("site}")}},
	}}
	p.ReplaceText("{txt:site}", "example")
	if got := p.Text(); got != "see example" {
		t.Errorf("Text() = %q, want %q", got, "see example")
	}
	if got := p.Hyperlinks()[0].Text(); got != "example" {
		t.Errorf("hyperlink Text() = %q, want %q", got, "example")
	}
}

func TestReplaceLiteral(t *testing.T) {
	p := runsParagraph("{txt:a} {tx", "t:b}")
	if got := p.ReplaceLiteral("{txt:a}", "{txt:b}"); got != 1 {
		t.Fatalf("ReplaceLiteral() = %d, want 1", got)
	}
	if got := p.Text(); got != "{txt:b} {txt:b}" {
		t.Errorf("Text() = %q", got)
	}
	if got, want := p.TemplateText(), strings.Repeat("\x00", 7)+" {txt:b}"; got != want {
		t.Errorf("TemplateText() = %q, want %q", got, want)
	}
	if got := p.ReplaceText("{txt:b}", "B"); got != 1 {
		t.Errorf("ReplaceText() = %d, want 1", got)
	}
	if got := p.Text(); got != "{txt:b} B" {
		t.Errorf("Text() = %q, want %q", got, "{txt:b} B")
	}

	p.InsertRunAt(3, NewRun("!"))
	if got := p.Text(); got != "{tx!t:b} B" {
		t.Errorf("Text() = %q", got)
	}
	if got, want := p.TemplateText(), "\x00\x00\x00!\x00\x00\x00\x00 B"; got != want {
		t.Errorf("TemplateText() after split = %q, want %q", got, want)
	}
}

func TestHyperlinkSetTextIsLiteral(t *testing.T) {
	p := &Paragraph{Content: []ParagraphContent{
		&Hyperlink{Content: []ParagraphContent{NewRun("x")}},
	}}
	p.Hyperlinks()[0].SetText("{txt:y}")
	if got := p.ReplaceText("{txt:y}", "z"); got != 0 {
		t.Errorf("ReplaceText() = %d, want 0", got)
	}
	if got := p.Text(); got != "{txt:y}" {
		t.Errorf("Text() = %q", got)
	}
}

func TestInsertRunAt(t *testing.T) {
	drawingRun := func(name string) *Run {
		return &Run{Content: []RunContent{&Drawing{Node: MustParseNode(
			`<w:drawing><wp:inline><wp:docPr id="1" name="` + name + `" descr="` + name + `"/></wp:inline></w:drawing>`)}}}
	}
	p := runsParagraph("ab{pic:x}cd")
	offset := strings.Index(p.Text(), "{pic:x}") + len("{pic:x}")

	// Inserting at the same offset puts each run before the previous ones.
	p.InsertRunAt(offset, drawingRun("second"))
	p.InsertRunAt(offset, drawingRun("first"))

	if got := p.Text(); got != "ab{pic:x}cd" {
		t.Errorf("Text() = %q, insertion must not change text", got)
	}
	var names []string
	for _, d := range p.Drawings() {
		names = append(names, d.Description())
	}
	if strings.Join(names, ",") != "first,second" {
		t.Errorf("drawing order = %v, want [first second]", names)
	}
	p.ReplaceText("{pic:x}", "")
	if got := p.Text(); got != "abcd" {
		t.Errorf("Text() = %q, want %q", got, "abcd")
	}
	if len(p.Drawings()) != 2 {
		t.Errorf("placeholder removal dropped drawings")
	}

	for _, d := range p.Drawings() {
		p.RemoveDrawing(d)
	}
	if len(p.Drawings()) != 0 {
		t.Errorf("RemoveDrawing left %d drawings", len(p.Drawings()))
	}
	for _, pc := range p.Content {
		if r, ok := pc.(*Run); ok && len(r.Content) == 0 {
			t.Error("empty run left behind")
		}
	}
}

func TestInsertRunAtBounds(t *testing.T) {
	p := runsParagraph("abc")
	p.InsertRunAt(0, NewRun(">"))
	p.InsertRunAt(100, NewRun("<"))
	if got := p.Text(); got != ">abc<" {
		t.Errorf("Text() = %q, want %q", got, ">abc<")
	}
}

func TestPrependText(t *testing.T) {
	p := &Paragraph{}
	p.PrependText("x")
	p.PrependText("{pic:a:10}")
	if got := p.Text(); got != "{pic:a:10}x" {
		t.Errorf("Text() = %q", got)
	}
}

func TestSetAlignment(t *testing.T) {
	p := &Paragraph{Properties: MustParseNode(`<w:pPr><w:spacing w:after="0"/><w:rPr><w:b/></w:rPr></w:pPr>`)}
	p.SetAlignment("center")
	var order []string
	for _, c := range p.Properties.Children {
		order = append(order, c.Name)
	}
	if strings.Join(order, ",") != "w:spacing,w:jc,w:rPr" {
		t.Errorf("pPr order = %v", order)
	}
	p.SetAlignment("right")
	if p.Alignment() != "right" || len(p.Properties.Children) != 3 {
		t.Errorf("SetAlignment must update an existing w:jc")
	}

	empty := &Paragraph{}
	empty.SetAlignment("left")
	if empty.Alignment() != "left" {
		t.Errorf("Alignment() = %q, want left", empty.Alignment())
	}
}

func TestParagraphClone(t *testing.T) {
	p := runsParagraph("a")
	p.Attrs = []Attr{{Name: "w14:paraId", Value: "1"}, {Name: "w:rsidR", Value: "2"}}
	c := p.Clone()
	if _, ok := (&Node{Attrs: c.Attrs}).Attr("w14:paraId"); ok {
		t.Error("Clone() kept w14:paraId")
	}
	c.ReplaceText("a", "b")
	if p.Text() != "a" {
		t.Error("Clone() shares text with the original")
	}
}

func TestHyperlinkSetText(t *testing.T) {
	bold := MustParseNode(`<w:rPr><w:b/></w:rPr>`)
	h := &Hyperlink{Content: []ParagraphContent{
		&Run{Properties: bold, Content: []RunContent{&Text{Value: "{url:"}}},
		NewRun("site}"),
	}}
	h.SetText("Example")
	if h.Text() != "Example" {
		t.Errorf("Text() = %q", h.Text())
	}
	if r := h.Content[0].(*Run); r.Properties != bold || len(h.Content) != 1 {
		t.Error("SetText must keep only the first run and its formatting")
	}
}
