package templ

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// MatchSection is a placeholder that owns the section it appears in.
// Removing it deletes the content of the section.
type MatchSection struct {
	MatchText
	section *xml.Section
	body    *xml.Body
}

func (m *MatchSection) Section() *xml.Section { return m.section }

// Remove deletes every block of the section. The paragraph holding the
// section break is emptied and kept.
func (m *MatchSection) Remove() {
	if m.removed {
		return
	}
	m.RemovePlaceholder()
	m.section.Remove(m.body)
	m.removed = true
}

// MatchTable is a placeholder found in a table cell. Removing it deletes the
// whole table.
type MatchTable struct {
	MatchText
	Table          *xml.Table
	TableContainer xml.Container
	Row            *xml.TableRow
	Cell           *xml.TableCell
}

// Coordinates returns the table and the current positions of the row and cell
// of the match. Positions are -1 when the row or cell is gone.
func (m *MatchTable) Coordinates() (*xml.Table, int, int) {
	return m.Table, m.Table.RowIndex(m.Row), m.Row.CellIndex(m.Cell)
}

// Validate checks that the table, row and cell of the match still exist.
func (m *MatchTable) Validate() error {
	if m.Table == nil || m.Row == nil || m.Cell == nil {
		return &CoordinateError{Placeholder: m.Placeholder(), Message: "table, row or cell is missing"}
	}
	if !xml.Contains(m.TableContainer, m.Table) {
		return &CoordinateError{Placeholder: m.Placeholder(), Message: "table is no longer part of the document"}
	}
	_, row, cell := m.Coordinates()
	if row < 0 {
		return &CoordinateError{Placeholder: m.Placeholder(), Message: "row is no longer part of the table"}
	}
	if cell < 0 {
		return &CoordinateError{Placeholder: m.Placeholder(), Message: fmt.Sprintf("cell is no longer part of row %d", row)}
	}
	return nil
}

func (m *MatchTable) Remove() {
	if m.removed {
		return
	}
	m.RemovePlaceholder()
	xml.RemoveBlock(m.TableContainer, m.Table)
	m.removed = true
}

// removeRow deletes the template row of an expanded collection. A table left
// without rows is deleted as well; a cell left without content gets an empty
// paragraph.
func (m *MatchTable) removeRow() {
	m.Table.RemoveRow(m.Row)
	m.removed = true
	if len(m.Table.Rows) > 0 {
		return
	}
	xml.RemoveBlock(m.TableContainer, m.Table)
	if cell, ok := m.TableContainer.(*xml.TableCell); ok && len(cell.Blocks()) == 0 {
		cell.SetBlocks([]xml.BodyElement{xml.NewParagraph("")})
	}
}

// MatchPicture is a placeholder found in the description of a picture.
type MatchPicture struct {
	match
	Part      *Part
	Container xml.Container
	Paragraph *xml.Paragraph
	drawing   *xml.Drawing
	// Width is the displayed width of the picture in pixels.
	Width int
}

func (m *MatchPicture) Drawing() *xml.Drawing { return m.drawing }

func (m *MatchPicture) ParagraphRef() xml.ParagraphRef {
	return xml.ParagraphRef{Container: m.Container, Paragraph: m.Paragraph}
}

// ToText puts text in place of the picture and expires the match.
func (m *MatchPicture) ToText(text string) {
	if m.removed {
		return
	}
	m.Paragraph.ReplaceDrawing(m.drawing, text)
	m.placeholderRemoved = true
	m.expired = true
}

// RemovePlaceholder strips the placeholder from the description.
func (m *MatchPicture) RemovePlaceholder() {
	if m.removed || m.placeholderRemoved {
		return
	}
	m.drawing.SetDescription(strings.ReplaceAll(m.drawing.Description(), m.Placeholder(), ""))
	m.placeholderRemoved = true
}

// Remove deletes the picture.
func (m *MatchPicture) Remove() {
	if m.removed {
		return
	}
	m.Paragraph.RemoveDrawing(m.drawing)
	m.placeholderRemoved = true
	m.removed = true
}

// MatchHyperlink is a placeholder found in the target of a hyperlink.
type MatchHyperlink struct {
	match
	Part      *Part
	Container xml.Container
	Paragraph *xml.Paragraph
	link      *xml.Hyperlink
	// URL is the unescaped target the placeholder was found in.
	URL string
}

func (m *MatchHyperlink) Hyperlink() *xml.Hyperlink { return m.link }

func (m *MatchHyperlink) ParagraphRef() xml.ParagraphRef {
	return xml.ParagraphRef{Container: m.Container, Paragraph: m.Paragraph}
}

// SetURL points the hyperlink at target.
func (m *MatchHyperlink) SetURL(target string) {
	if m.removed {
		return
	}
	m.URL = target
	m.link.SetRelationshipID(m.Part.AddHyperlink(target))
	m.placeholderRemoved = true
}

// SetText replaces the display text of the hyperlink.
func (m *MatchHyperlink) SetText(text string) {
	if m.removed {
		return
	}
	m.link.SetText(text)
}

// RemovePlaceholder strips the placeholder from the target.
func (m *MatchHyperlink) RemovePlaceholder() {
	if m.removed || m.placeholderRemoved {
		return
	}
	m.SetURL(strings.ReplaceAll(m.URL, m.Placeholder(), ""))
}

// Remove deletes the hyperlink with its display text.
func (m *MatchHyperlink) Remove() {
	if m.removed {
		return
	}
	m.Paragraph.RemoveHyperlink(m.link)
	m.placeholderRemoved = true
	m.removed = true
}

// FindParagraphs finds placeholders in the text of every paragraph of the
// scope.
func FindParagraphs(ctx *BuildContext, s *Scope, p *Pattern) []*MatchText {
	return findText(p, s.paragraphs(), ctx.maxMatches())
}

// FindLists finds the first placeholder of every paragraph of the scope.
func FindLists(ctx *BuildContext, s *Scope, p *Pattern) []*MatchText {
	return findText(p, s.paragraphs(), 1)
}

// FindSections finds the first placeholder of every section of the scope.
func FindSections(ctx *BuildContext, s *Scope, p *Pattern) []*MatchSection {
	var out []*MatchSection
	for _, sec := range s.sections() {
		for _, ref := range xml.Paragraphs(sec.body, sec.section.Blocks) {
			pref := paragraphRef{part: sec.part, container: ref.Container, paragraph: ref.Paragraph}
			found := findText(p, []paragraphRef{pref}, 1)
			if len(found) == 0 {
				continue
			}
			out = append(out, &MatchSection{MatchText: *found[0], section: sec.section, body: sec.body})
			break
		}
	}
	return out
}

// FindTables finds the first placeholder of every table of the scope.
func FindTables(ctx *BuildContext, s *Scope, p *Pattern) []*MatchTable {
	var out []*MatchTable
	for _, t := range s.tables() {
	rows:
		for _, row := range t.table.Rows {
			for _, cell := range row.Cells {
				if m := firstInCell(p, t, row, cell); m != nil {
					out = append(out, m)
					break rows
				}
			}
		}
	}
	return out
}

// FindRows finds the first placeholder of every table row of the scope. The
// result runs from the last row to the first so that expanding a row never
// moves a row still to be processed.
func FindRows(ctx *BuildContext, s *Scope, p *Pattern) []*MatchTable {
	var out []*MatchTable
	for _, t := range s.tables() {
		for _, row := range t.table.Rows {
			for _, cell := range row.Cells {
				if m := firstInCell(p, t, row, cell); m != nil {
					out = append(out, m)
					break
				}
			}
		}
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out
}

func firstInCell(p *Pattern, t tableRef, row *xml.TableRow, cell *xml.TableCell) *MatchTable {
	found := findText(p, cellParagraphs(t.part, cell), 1)
	if len(found) == 0 {
		return nil
	}
	return &MatchTable{
		MatchText:      *found[0],
		Table:          t.table,
		TableContainer: t.container,
		Row:            row,
		Cell:           cell,
	}
}

// FindPictures finds the first placeholder in the description of every
// picture of the scope.
func FindPictures(ctx *BuildContext, s *Scope, p *Pattern) []*MatchPicture {
	var out []*MatchPicture
	for _, d := range s.drawings() {
		bodies := p.FindAllString(d.drawing.Description(), 1)
		if len(bodies) == 0 {
			continue
		}
		out = append(out, &MatchPicture{
			match:     newMatch(p, bodies[0]),
			Part:      d.part,
			Container: d.container,
			Paragraph: d.paragraph,
			drawing:   d.drawing,
			Width:     d.drawing.Width(),
		})
	}
	return out
}

// FindHyperlinks finds the first placeholder in the target of every external
// hyperlink of the scope.
func FindHyperlinks(ctx *BuildContext, s *Scope, p *Pattern) []*MatchHyperlink {
	var out []*MatchHyperlink
	for _, h := range s.hyperlinks() {
		target, ok := h.part.HyperlinkTarget(h.link.RelationshipID())
		if !ok {
			continue
		}
		target = unescapeURL(target)
		bodies := p.FindAllString(target, 1)
		if len(bodies) == 0 {
			continue
		}
		out = append(out, &MatchHyperlink{
			match:     newMatch(p, bodies[0]),
			Part:      h.part,
			Container: h.container,
			Paragraph: h.paragraph,
			link:      h.link,
			URL:       target,
		})
	}
	return out
}

// unescapeURL undoes the percent-encoding Word applies to braces in link
// targets.
func unescapeURL(s string) string {
	if u, err := url.PathUnescape(s); err == nil {
		return u
	}
	return s
}
