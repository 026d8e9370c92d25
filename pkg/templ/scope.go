package templ

import (
	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// Scope is the content a pipeline runs over: the whole document, or the
// element created by a collection expansion together with everything nested
// in it.
type Scope struct {
	regions []region
}

// region is one container of a scope. When only is set the region is limited
// to that block, for as long as the container still holds it.
type region struct {
	part      *Part
	container xml.Container
	only      xml.BodyElement
	sections  bool
}

type paragraphRef struct {
	part      *Part
	container xml.Container
	paragraph *xml.Paragraph
}

type tableRef struct {
	part      *Part
	container xml.Container
	table     *xml.Table
}

type sectionRef struct {
	part    *Part
	body    *xml.Body
	section *xml.Section
}

// DocumentScope covers the main document, then every header and footer.
func DocumentScope(doc *Document) *Scope {
	s := &Scope{}
	for _, p := range doc.Parts() {
		s.regions = append(s.regions, region{
			part:      p,
			container: p.Body(),
			sections:  p.IsMain(),
		})
	}
	return s
}

// BlockScope covers a single block of container, such as a paragraph created
// by a list expansion.
func BlockScope(part *Part, container xml.Container, block xml.BodyElement) *Scope {
	return &Scope{regions: []region{{part: part, container: container, only: block}}}
}

// CellScope covers the content of the given table cells.
func CellScope(part *Part, cells ...*xml.TableCell) *Scope {
	s := &Scope{}
	for _, c := range cells {
		s.regions = append(s.regions, region{part: part, container: c})
	}
	return s
}

func (r region) blocks() []xml.BodyElement {
	if r.only == nil {
		return r.container.Blocks()
	}
	if !xml.Contains(r.container, r.only) {
		return nil
	}
	return []xml.BodyElement{r.only}
}

// paragraphs returns every paragraph of the scope, table cells included, in
// document order.
func (s *Scope) paragraphs() []paragraphRef {
	var out []paragraphRef
	for _, r := range s.regions {
		for _, ref := range xml.Paragraphs(r.container, r.blocks()) {
			out = append(out, paragraphRef{part: r.part, container: ref.Container, paragraph: ref.Paragraph})
		}
	}
	return out
}

// tables returns every table of the scope. Outer tables precede the tables
// nested in their cells.
func (s *Scope) tables() []tableRef {
	var out []tableRef
	for _, r := range s.regions {
		for _, ref := range xml.Tables(r.container, r.blocks()) {
			out = append(out, tableRef{part: r.part, container: ref.Container, table: ref.Table})
		}
	}
	return out
}

// sections returns the sections of the main document body. Scopes narrower
// than a whole body have none.
func (s *Scope) sections() []sectionRef {
	var out []sectionRef
	for _, r := range s.regions {
		if !r.sections || r.only != nil {
			continue
		}
		body, ok := r.container.(*xml.Body)
		if !ok {
			continue
		}
		for _, sec := range xml.Sections(body) {
			out = append(out, sectionRef{part: r.part, body: body, section: sec})
		}
	}
	return out
}

// drawings returns every picture of the scope with its paragraph.
func (s *Scope) drawings() []drawingRef {
	var out []drawingRef
	for _, ref := range s.paragraphs() {
		for _, d := range ref.paragraph.Drawings() {
			out = append(out, drawingRef{paragraphRef: ref, drawing: d})
		}
	}
	return out
}

type drawingRef struct {
	paragraphRef
	drawing *xml.Drawing
}

// hyperlinks returns every external hyperlink of the scope with its paragraph.
func (s *Scope) hyperlinks() []hyperlinkRef {
	var out []hyperlinkRef
	for _, ref := range s.paragraphs() {
		for _, h := range ref.paragraph.Hyperlinks() {
			if h.RelationshipID() == "" {
				continue
			}
			out = append(out, hyperlinkRef{paragraphRef: ref, link: h})
		}
	}
	return out
}

type hyperlinkRef struct {
	paragraphRef
	link *xml.Hyperlink
}

// cellParagraphs returns the paragraphs placed directly in a cell. Paragraphs
// of nested tables belong to those tables.
func cellParagraphs(part *Part, cell *xml.TableCell) []paragraphRef {
	var out []paragraphRef
	for _, b := range cell.Content {
		if p, ok := b.(*xml.Paragraph); ok {
			out = append(out, paragraphRef{part: part, container: cell, paragraph: p})
		}
	}
	return out
}
