package templ

import (
	"strings"

	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// Match is one placeholder found in a document scope.
//
// A handler either edits the document and removes the placeholder, or marks
// the match expired. Expired matches are removed by the pipeline with Remove,
// whose effect depends on the variant: a text match loses its placeholder, a
// section or table match loses all of its content.
type Match interface {
	// Body is the text between the prefix separator and the closing brace.
	Body() string
	// Fields is Body split on the field separator.
	Fields() []string
	Pattern() *Pattern
	// Placeholder is the literal placeholder text.
	Placeholder() string
	Expired() bool
	SetExpired(bool)
	Removed() bool
	PlaceholderRemoved() bool
	// Remove removes the match from the document. It is idempotent.
	Remove()
	// RemovePlaceholder removes the placeholder only. It is idempotent.
	RemovePlaceholder()
}

// RemoveExpired removes m if it is expired and reports whether m is removed.
func RemoveExpired(m Match) bool {
	if m.Expired() {
		m.Remove()
	}
	return m.Removed()
}

// ParagraphScoped is a match bound to a paragraph.
type ParagraphScoped interface {
	Match
	ParagraphRef() xml.ParagraphRef
}

// SectionScoped is a match that owns a document section.
type SectionScoped interface {
	ParagraphScoped
	Section() *xml.Section
}

// TableScoped is a match that owns a table and knows its row and cell.
type TableScoped interface {
	ParagraphScoped
	Coordinates() (table *xml.Table, row, cell int)
	Validate() error
}

// ImageScoped is a match found in the description of a picture.
type ImageScoped interface {
	ParagraphScoped
	Drawing() *xml.Drawing
}

// LinkScoped is a match found in the target of a hyperlink.
type LinkScoped interface {
	ParagraphScoped
	Hyperlink() *xml.Hyperlink
}

// match holds the state shared by every variant.
type match struct {
	body               string
	pattern            *Pattern
	expired            bool
	removed            bool
	placeholderRemoved bool
}

func newMatch(p *Pattern, body string) match {
	return match{body: body, pattern: p}
}

func (m *match) Body() string        { return m.body }
func (m *match) Fields() []string    { return strings.Split(m.body, FieldSep) }
func (m *match) Pattern() *Pattern   { return m.pattern }
func (m *match) Placeholder() string { return m.pattern.Text(m.body) }
func (m *match) Expired() bool       { return m.expired }
func (m *match) SetExpired(v bool)   { m.expired = v }
func (m *match) Removed() bool       { return m.removed }

func (m *match) PlaceholderRemoved() bool { return m.placeholderRemoved }

// MatchString is a placeholder found in a plain string, such as a picture
// description or a hyperlink target. Edits apply to the string it was found in.
type MatchString struct {
	match
	target *string
}

// FindStrings returns the matches of p in *s. Edits through the matches update *s.
func FindStrings(p *Pattern, s *string, n int) []*MatchString {
	var out []*MatchString
	for _, body := range p.FindAllString(*s, n) {
		out = append(out, &MatchString{match: newMatch(p, body), target: s})
	}
	return out
}

// ToText replaces the placeholder with text.
func (m *MatchString) ToText(text string) {
	if m.removed || m.placeholderRemoved {
		return
	}
	*m.target = strings.ReplaceAll(*m.target, m.Placeholder(), text)
	m.placeholderRemoved = true
}

func (m *MatchString) RemovePlaceholder() {
	m.ToText("")
}

func (m *MatchString) Remove() {
	if m.removed {
		return
	}
	m.RemovePlaceholder()
	m.removed = true
}

// MatchText is a placeholder found in the text of a paragraph.
type MatchText struct {
	match
	Part      *Part
	Container xml.Container
	Paragraph *xml.Paragraph
}

// findText returns the matches of p in the given paragraphs, at most max per
// paragraph.
func findText(p *Pattern, refs []paragraphRef, max int) []*MatchText {
	var out []*MatchText
	for _, ref := range refs {
		for _, body := range p.FindAllString(ref.paragraph.TemplateText(), max) {
			out = append(out, newMatchText(p, body, ref))
		}
	}
	return out
}

func newMatchText(p *Pattern, body string, ref paragraphRef) *MatchText {
	return &MatchText{
		match:     newMatch(p, body),
		Part:      ref.part,
		Container: ref.container,
		Paragraph: ref.paragraph,
	}
}

func (m *MatchText) ParagraphRef() xml.ParagraphRef {
	return xml.ParagraphRef{Container: m.Container, Paragraph: m.Paragraph}
}

// ToText replaces every occurrence of the placeholder in the paragraph. The
// inserted text is literal: it is never matched as a placeholder.
func (m *MatchText) ToText(text string) {
	if m.removed || m.placeholderRemoved {
		return
	}
	m.Paragraph.ReplaceLiteral(m.Placeholder(), text)
	m.placeholderRemoved = true
}

// ToPicture inserts the graphic after each occurrence of the placeholder, then
// removes the placeholder. A width of zero or less keeps the natural size.
func (m *MatchText) ToPicture(g *Graphic, width int) error {
	return m.ToPictures([]*Graphic{g}, width)
}

// ToPictures inserts the graphics, in order, after each occurrence of the
// placeholder, then removes the placeholder.
func (m *MatchText) ToPictures(graphics []*Graphic, width int) error {
	if m.removed || m.placeholderRemoved || m.expired {
		return nil
	}
	ph := m.Placeholder()
	offsets := occurrences(m.Paragraph.TemplateText(), ph)
	// each insert lands before the runs inserted earlier at the same offset
	for i := len(graphics) - 1; i >= 0; i-- {
		g := graphics[i]
		for _, off := range offsets {
			run, err := m.Part.pictureRun(g, width)
			if err != nil {
				return err
			}
			m.Paragraph.InsertRunAt(off+len(ph), run)
		}
		if g.Alignment != "" {
			m.Paragraph.SetAlignment(g.Alignment)
		}
	}
	m.RemovePlaceholder()
	return nil
}

// RemoveParagraph removes the whole paragraph. A paragraph that is the last
// block of a table cell, or that carries a section break, is emptied instead.
func (m *MatchText) RemoveParagraph() {
	if m.removed {
		return
	}
	_, inCell := m.Container.(*xml.TableCell)
	if m.Paragraph.SectionBreak() != nil || (inCell && len(m.Container.Blocks()) == 1) {
		m.Paragraph.Clear()
	} else {
		xml.RemoveBlock(m.Container, m.Paragraph)
	}
	m.placeholderRemoved = true
	m.removed = true
}

func (m *MatchText) RemovePlaceholder() {
	if m.placeholderRemoved {
		return
	}
	m.Paragraph.ReplaceText(m.Placeholder(), "")
	m.placeholderRemoved = true
}

func (m *MatchText) Remove() {
	if m.removed {
		return
	}
	m.RemovePlaceholder()
	m.removed = true
}

func occurrences(s, sub string) []int {
	var out []int
	for from := 0; ; {
		i := strings.Index(s[from:], sub)
		if i < 0 {
			return out
		}
		out = append(out, from+i)
		from += i + len(sub)
	}
}
