package xml

import (
	"strings"
)

// ParagraphContent is an element inside a paragraph (runs, hyperlinks, raw nodes).
type ParagraphContent interface {
	isParagraphContent()
}

// Paragraph is a w:p element.
type Paragraph struct {
	Attrs      []Attr
	Properties *Node
	Content    []ParagraphContent
}

func (p *Paragraph) isBodyElement() {}

// Hyperlink is a w:hyperlink element. External targets are referenced through
// the r:id relationship; internal ones through w:anchor.
type Hyperlink struct {
	Attrs   []Attr
	Content []ParagraphContent
}

func (h *Hyperlink) isParagraphContent() {}

// NewParagraph creates a paragraph with a single run of text. An empty string
// yields an empty paragraph.
func NewParagraph(text string) *Paragraph {
	p := &Paragraph{}
	if text != "" {
		p.Content = []ParagraphContent{NewRun(text)}
	}
	return p
}

// Word identifies paragraphs by these ids; copies must not carry them.
var paragraphIDAttrs = map[string]bool{"w14:paraId": true, "w14:textId": true}

// Clone returns a deep copy of p without its unique paragraph ids.
func (p *Paragraph) Clone() *Paragraph {
	c := &Paragraph{Properties: p.Properties.Clone()}
	for _, a := range p.Attrs {
		if !paragraphIDAttrs[a.Name] {
			c.Attrs = append(c.Attrs, a)
		}
	}
	c.Content = cloneParagraphContent(p.Content)
	return c
}

func cloneParagraphContent(content []ParagraphContent) []ParagraphContent {
	out := make([]ParagraphContent, len(content))
	for i, pc := range content {
		switch v := pc.(type) {
		case *Run:
			out[i] = v.Clone()
		case *Hyperlink:
			out[i] = v.Clone()
		case *Node:
			out[i] = v.Clone()
		default:
			out[i] = pc
		}
	}
	return out
}

// Clone returns a deep copy of h.
func (h *Hyperlink) Clone() *Hyperlink {
	c := &Hyperlink{Content: cloneParagraphContent(h.Content)}
	if h.Attrs != nil {
		c.Attrs = append([]Attr(nil), h.Attrs...)
	}
	return c
}

// RelationshipID returns the r:id of an external hyperlink.
func (h *Hyperlink) RelationshipID() string {
	for _, a := range h.Attrs {
		if a.Name == "r:id" {
			return a.Value
		}
	}
	return ""
}

// SetRelationshipID points the hyperlink at another relationship.
func (h *Hyperlink) SetRelationshipID(id string) {
	for i := range h.Attrs {
		if h.Attrs[i].Name == "r:id" {
			h.Attrs[i].Value = id
			return
		}
	}
	h.Attrs = append(h.Attrs, Attr{Name: "r:id", Value: id})
}

// Text returns the display text of the hyperlink.
func (h *Hyperlink) Text() string {
	var sb strings.Builder
	for _, pc := range h.Content {
		if r, ok := pc.(*Run); ok {
			sb.WriteString(r.Text())
		}
	}
	return sb.String()
}

// SetText replaces the display text, keeping the formatting of the first run.
func (h *Hyperlink) SetText(s string) {
	var first *Run
	var rest []ParagraphContent
	for _, pc := range h.Content {
		r, ok := pc.(*Run)
		if !ok {
			rest = append(rest, pc)
			continue
		}
		if first == nil {
			first = r
		}
	}
	if first == nil {
		first = &Run{}
	}
	t := newText(s)
	t.literal = true
	first.Content = []RunContent{t}
	h.Content = append([]ParagraphContent{first}, rest...)
}

func paragraphFromNode(n *Node) *Paragraph {
	p := &Paragraph{Attrs: n.Attrs}
	p.Content = paragraphContentFromNodes(n.Children, func(c *Node) { p.Properties = c })
	return p
}

func paragraphContentFromNodes(children []*Node, props func(*Node)) []ParagraphContent {
	var content []ParagraphContent
	for _, c := range children {
		switch c.Name {
		case "":
		case "w:pPr":
			props(c)
		case "w:r":
			content = append(content, runFromNode(c))
		case "w:hyperlink":
			h := &Hyperlink{Attrs: c.Attrs}
			h.Content = paragraphContentFromNodes(c.Children, func(*Node) {})
			content = append(content, h)
		default:
			content = append(content, c)
		}
	}
	return content
}

func (p *Paragraph) toNode() *Node {
	n := &Node{Name: "w:p", Attrs: p.Attrs}
	if p.Properties != nil {
		n.Children = append(n.Children, p.Properties)
	}
	n.Children = append(n.Children, paragraphContentToNodes(p.Content)...)
	return n
}

func paragraphContentToNodes(content []ParagraphContent) []*Node {
	var out []*Node
	for _, pc := range content {
		switch v := pc.(type) {
		case *Run:
			out = append(out, v.toNode())
		case *Hyperlink:
			out = append(out, &Node{Name: "w:hyperlink", Attrs: v.Attrs, Children: paragraphContentToNodes(v.Content)})
		case *Node:
			out = append(out, v)
		}
	}
	return out
}

// textRef locates one w:t element inside a paragraph.
type textRef struct {
	text   *Text
	run    *Run
	owner  *[]ParagraphContent
	index  int // index of run in *owner
	offset int // offset of text in the paragraph text
}

func (p *Paragraph) textRefs() []textRef {
	var refs []textRef
	offset := 0
	var walk func(owner *[]ParagraphContent)
	walk = func(owner *[]ParagraphContent) {
		for i, pc := range *owner {
			switch v := pc.(type) {
			case *Run:
				for _, rc := range v.Content {
					if t, ok := rc.(*Text); ok {
						refs = append(refs, textRef{text: t, run: v, owner: owner, index: i, offset: offset})
						offset += len(t.Value)
					}
				}
			case *Hyperlink:
				walk(&v.Content)
			}
		}
	}
	walk(&p.Content)
	return refs
}

// Text returns the concatenated text of every run in the paragraph, hyperlinks
// included.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, ref := range p.textRefs() {
		sb.WriteString(ref.text.Value)
	}
	return sb.String()
}

// TemplateText returns the paragraph text with every literal text masked by
// NUL bytes. Offsets are those of Text.
func (p *Paragraph) TemplateText() string {
	return joinRefs(p.textRefs(), true)
}

// ReplaceText replaces every occurrence of old with new, even when old spans
// several runs. The replacement takes the formatting of the run where the
// occurrence starts. Literal texts are not searched. It returns the number of
// replacements.
func (p *Paragraph) ReplaceText(old, new string) int {
	return p.replace(old, new, false)
}

// ReplaceLiteral is ReplaceText for substituted values: new is kept in a text
// of its own that later searches skip.
func (p *Paragraph) ReplaceLiteral(old, new string) int {
	return p.replace(old, new, true)
}

func (p *Paragraph) replace(old, new string, literal bool) int {
	if old == "" {
		return 0
	}
	count := 0
	from := 0
	for {
		refs := p.textRefs()
		full := joinRefs(refs, true)
		if from > len(full) {
			break
		}
		idx := strings.Index(full[from:], old)
		if idx < 0 {
			break
		}
		start := from + idx
		end := start + len(old)
		replaced := false
		for _, ref := range refs {
			v := ref.text.Value
			segEnd := ref.offset + len(v)
			if segEnd <= start || ref.offset >= end {
				continue
			}
			lo := max(start-ref.offset, 0)
			hi := min(end-ref.offset, len(v))
			ref.text.Preserve = true
			switch {
			case replaced:
				ref.text.Value = v[:lo] + v[hi:]
			case literal && new != "":
				ref.text.Value = v[:lo]
				splitLiteral(ref, new, v[hi:])
			default:
				ref.text.Value = v[:lo] + new + v[hi:]
			}
			replaced = true
		}
		count++
		from = start + len(new)
	}
	return count
}

// splitLiteral places a literal text holding value, then tail, right after
// ref.text in its run.
func splitLiteral(ref textRef, value, tail string) {
	content := ref.run.Content
	ci := 0
	for i, rc := range content {
		if rc == RunContent(ref.text) {
			ci = i
			break
		}
	}
	ins := []RunContent{&Text{Value: value, Preserve: true, literal: true}}
	if tail != "" {
		ins = append(ins, &Text{Value: tail, Preserve: true})
	}
	out := make([]RunContent, 0, len(content)+len(ins))
	out = append(out, content[:ci+1]...)
	out = append(out, ins...)
	out = append(out, content[ci+1:]...)
	ref.run.Content = out
}

func joinRefs(refs []textRef, masked bool) string {
	var sb strings.Builder
	for _, ref := range refs {
		if masked && ref.text.literal {
			sb.WriteString(strings.Repeat("\x00", len(ref.text.Value)))
			continue
		}
		sb.WriteString(ref.text.Value)
	}
	return sb.String()
}

// PrependText inserts s at the start of the paragraph text.
func (p *Paragraph) PrependText(s string) {
	refs := p.textRefs()
	if len(refs) == 0 {
		p.Content = append([]ParagraphContent{NewRun(s)}, p.Content...)
		return
	}
	if refs[0].text.literal {
		run := refs[0].run
		run.Content = append([]RunContent{&Text{Value: s, Preserve: true}}, run.Content...)
		return
	}
	refs[0].text.Value = s + refs[0].text.Value
	refs[0].text.Preserve = true
}

// InsertRunAt inserts r so that it follows the first offset bytes of the
// paragraph text. The run holding that position is split in two. Inserting
// repeatedly at the same offset places each new run before the previous ones.
func (p *Paragraph) InsertRunAt(offset int, r *Run) {
	if offset <= 0 {
		p.Content = append([]ParagraphContent{r}, p.Content...)
		return
	}
	var target *textRef
	refs := p.textRefs()
	for i := range refs {
		ref := &refs[i]
		if ref.offset < offset && offset <= ref.offset+len(ref.text.Value) {
			target = ref
			break
		}
	}
	if target == nil {
		p.Content = append(p.Content, r)
		return
	}

	k := offset - target.offset
	head := target.text.Value[:k]
	tail := target.text.Value[k:]
	src := target.run

	ci := 0
	for i, rc := range src.Content {
		if rc == RunContent(target.text) {
			ci = i
			break
		}
	}
	before := &Run{Attrs: src.Attrs, Properties: src.Properties}
	before.Content = append(append([]RunContent(nil), src.Content[:ci]...), &Text{Value: head, Preserve: true, literal: target.text.literal})
	after := &Run{Attrs: src.Attrs, Properties: src.Properties.Clone()}
	if tail != "" {
		after.Content = append(after.Content, &Text{Value: tail, Preserve: true, literal: target.text.literal})
	}
	after.Content = append(after.Content, src.Content[ci+1:]...)

	replacement := []ParagraphContent{before, r}
	if len(after.Content) > 0 {
		replacement = append(replacement, after)
	}
	owner := *target.owner
	out := make([]ParagraphContent, 0, len(owner)+2)
	out = append(out, owner[:target.index]...)
	out = append(out, replacement...)
	out = append(out, owner[target.index+1:]...)
	*target.owner = out
}

// Drawings returns the pictures in the paragraph in document order.
func (p *Paragraph) Drawings() []*Drawing {
	var out []*Drawing
	var walk func(content []ParagraphContent)
	walk = func(content []ParagraphContent) {
		for _, pc := range content {
			switch v := pc.(type) {
			case *Run:
				for _, rc := range v.Content {
					if d, ok := rc.(*Drawing); ok {
						out = append(out, d)
					}
				}
			case *Hyperlink:
				walk(v.Content)
			}
		}
	}
	walk(p.Content)
	return out
}

// RemoveDrawing removes d from the paragraph. Runs left empty are dropped.
func (p *Paragraph) RemoveDrawing(d *Drawing) bool {
	var walk func(owner *[]ParagraphContent) bool
	walk = func(owner *[]ParagraphContent) bool {
		for i, pc := range *owner {
			switch v := pc.(type) {
			case *Run:
				for j, rc := range v.Content {
					if rc == RunContent(d) {
						v.Content = append(v.Content[:j], v.Content[j+1:]...)
						if len(v.Content) == 0 {
							*owner = append((*owner)[:i], (*owner)[i+1:]...)
						}
						return true
					}
				}
			case *Hyperlink:
				if walk(&v.Content) {
					return true
				}
			}
		}
		return false
	}
	return walk(&p.Content)
}

// ReplaceDrawing puts text where d was. The text keeps the properties of the
// run that held the picture.
func (p *Paragraph) ReplaceDrawing(d *Drawing, text string) bool {
	var walk func(content []ParagraphContent) bool
	walk = func(content []ParagraphContent) bool {
		for _, pc := range content {
			switch v := pc.(type) {
			case *Run:
				for j, rc := range v.Content {
					if rc == RunContent(d) {
						v.Content[j] = newText(text)
						return true
					}
				}
			case *Hyperlink:
				if walk(v.Content) {
					return true
				}
			}
		}
		return false
	}
	return walk(p.Content)
}

// RemoveDrawings removes every picture in the paragraph.
func (p *Paragraph) RemoveDrawings() {
	for _, d := range p.Drawings() {
		p.RemoveDrawing(d)
	}
}

// Hyperlinks returns the hyperlinks in the paragraph.
func (p *Paragraph) Hyperlinks() []*Hyperlink {
	var out []*Hyperlink
	for _, pc := range p.Content {
		if h, ok := pc.(*Hyperlink); ok {
			out = append(out, h)
		}
	}
	return out
}

// RemoveHyperlink removes h and its display text.
func (p *Paragraph) RemoveHyperlink(h *Hyperlink) bool {
	for i, pc := range p.Content {
		if pc == ParagraphContent(h) {
			p.Content = append(p.Content[:i], p.Content[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes all content, keeping the paragraph properties.
func (p *Paragraph) Clear() {
	p.Content = nil
}

// pPr children that must follow w:jc.
var afterJustification = map[string]bool{
	"w:textDirection": true, "w:textAlignment": true, "w:textboxTightWrap": true,
	"w:outlineLvl": true, "w:divId": true, "w:cnfStyle": true, "w:rPr": true,
	"w:sectPr": true, "w:pPrChange": true,
}

// Alignment returns the paragraph justification (w:jc), or "".
func (p *Paragraph) Alignment() string {
	v, _ := p.Properties.Child("w:jc").Attr("w:val")
	return v
}

// SetAlignment sets the paragraph justification, e.g. "center".
func (p *Paragraph) SetAlignment(val string) {
	if p.Properties == nil {
		p.Properties = &Node{Name: "w:pPr"}
	}
	if jc := p.Properties.Child("w:jc"); jc != nil {
		jc.SetAttr("w:val", val)
		return
	}
	jc := &Node{Name: "w:jc", Attrs: []Attr{{Name: "w:val", Value: val}}}
	children := p.Properties.Children
	at := len(children)
	for i, c := range children {
		if afterJustification[c.Name] {
			at = i
			break
		}
	}
	out := make([]*Node, 0, len(children)+1)
	out = append(out, children[:at]...)
	out = append(out, jc)
	out = append(out, children[at:]...)
	p.Properties.Children = out
}

// SectionBreak returns the w:sectPr carried by this paragraph, if any.
func (p *Paragraph) SectionBreak() *Node {
	return p.Properties.Child("w:sectPr")
}
