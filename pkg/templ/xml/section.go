package xml

// Section is a run of body blocks sharing one set of section properties. Every
// section but the last ends with the paragraph carrying its w:sectPr.
type Section struct {
	Blocks []BodyElement
	Break  *Paragraph
}

// Sections splits the body into sections.
func Sections(b *Body) []*Section {
	var out []*Section
	cur := &Section{}
	for _, e := range b.Elements {
		cur.Blocks = append(cur.Blocks, e)
		if p, ok := e.(*Paragraph); ok && p.SectionBreak() != nil {
			cur.Break = p
			out = append(out, cur)
			cur = &Section{}
		}
	}
	if len(cur.Blocks) > 0 {
		out = append(out, cur)
	}
	return out
}

// Paragraphs returns every paragraph of the section, table cells included.
func (s *Section) Paragraphs(b *Body) []ParagraphRef {
	return Paragraphs(b, s.Blocks)
}

// Remove deletes the content of the section from b. The break paragraph is
// emptied rather than removed so the section layout survives.
func (s *Section) Remove(b *Body) {
	for _, e := range s.Blocks {
		if p, ok := e.(*Paragraph); ok && p == s.Break {
			p.Clear()
			continue
		}
		RemoveBlock(b, e)
	}
}
