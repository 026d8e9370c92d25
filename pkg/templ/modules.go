package templ

import (
	"fmt"
	"strconv"

	"github.com/benjaminschreck/go-templ/pkg/templ/model"
	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// Module names.
const (
	ModuleSection          = "section"
	ModulePictureReference = "picture-reference"
	ModuleList             = "list"
	ModuleCell             = "cell"
	ModuleRow              = "row"
	ModuleTable            = "table"
	ModuleRemove           = "remove"
	ModulePicture          = "picture"
	ModuleHyperlink        = "hyperlink"
	ModuleText             = "text"
	ModuleContents         = "contents"
	ModuleComment          = "comment"
)

// DefaultModules returns a fresh pipeline in build order. Pictures are turned
// into placeholders twice: row and cell expansion copy pictures the first pass
// has not seen.
func DefaultModules() []Module {
	return []Module{
		SectionModule(),
		PictureReferenceModule(ModulePictureReference + "-1"),
		ListModule(),
		CellModule(),
		RowModule(),
		PictureReferenceModule(ModulePictureReference + "-2"),
		TableModule(),
		RemoveModule(),
		PictureModule(),
		HyperlinkModule(),
		TextModule(),
		ContentsModule(),
		CommentModule(),
	}
}

// SectionModule handles {sec:[boolPath][:label]}: the content of the section
// is deleted when the path resolves to true.
func SectionModule() Module {
	return mustModule[*MatchSection](ModuleSection, []string{PrefixSection}, 1, 2, FindSections, handleDeletion[*MatchSection])
}

// TableModule handles {tab:[boolPath][:label]}: the table is deleted when the
// path resolves to true.
func TableModule() Module {
	return mustModule[*MatchTable](ModuleTable, []string{PrefixTable}, 1, 2, FindTables, handleDeletion[*MatchTable])
}

func handleDeletion[T Match](ctx *BuildContext, stats *Statistics, m T) error {
	path := m.Fields()[0]
	m.RemovePlaceholder()
	if path == "" {
		return nil
	}
	e, err := ctx.Get(path)
	if err != nil {
		return err
	}
	remove, err := e.Bool()
	if err != nil {
		return err
	}
	m.SetExpired(remove)
	return nil
}

// ListModule handles {li:path}: the paragraph is repeated once per element of
// the collection.
func ListModule() Module {
	return mustModule[*MatchText](ModuleList, []string{PrefixList}, 1, 1, FindLists, handleList)
}

func handleList(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	e, keys, err := ctx.collection(m.Fields()[0])
	if err != nil {
		return err
	}
	m.RemovePlaceholder()
	// each copy goes directly below the template, so the last key comes first
	for i := len(keys) - 1; i >= 0; i-- {
		p := m.Paragraph.Clone()
		if p.Properties != nil {
			p.Properties.RemoveChild("w:sectPr")
		}
		xml.InsertAfter(m.Container, m.Paragraph, p)
		if err := ctx.expand(m, BlockScope(m.Part, m.Container, p), indexPath(e.Path, keys[i])); err != nil {
			return err
		}
	}
	m.RemoveParagraph()
	stats.Add("paragraphs", len(keys))
	return nil
}

// RowModule handles {row:path}: the table row is repeated once per element of
// the collection.
func RowModule() Module {
	return mustModule[*MatchTable](ModuleRow, []string{PrefixRow}, 1, 1, FindRows, handleRow)
}

func handleRow(ctx *BuildContext, stats *Statistics, m *MatchTable) error {
	if err := m.Validate(); err != nil {
		return err
	}
	e, keys, err := ctx.collection(m.Fields()[0])
	if err != nil {
		return err
	}
	m.RemovePlaceholder()
	prev := m.Row
	for _, key := range keys {
		row := m.Row.Clone()
		m.Table.InsertRows(m.Table.RowIndex(prev)+1, row)
		prev = row
		if err := ctx.expand(m, CellScope(m.Part, row.Cells...), indexPath(e.Path, key)); err != nil {
			return err
		}
	}
	m.removeRow()
	stats.Add("rows", len(keys))
	return nil
}

// CellModule handles {cel:path}: the elements of the collection are laid out
// row by row over the cells of the table row, adding rows as needed.
func CellModule() Module {
	return mustModule[*MatchTable](ModuleCell, []string{PrefixCell}, 1, 1, FindRows, handleCell)
}

func handleCell(ctx *BuildContext, stats *Statistics, m *MatchTable) error {
	if err := m.Validate(); err != nil {
		return err
	}
	e, keys, err := ctx.collection(m.Fields()[0])
	if err != nil {
		return err
	}
	m.RemovePlaceholder()
	n, width := len(keys), len(m.Row.Cells)
	rows := (n + width - 1) / width

	for _, c := range m.Row.Cells {
		if c != m.Cell {
			c.CopyFrom(m.Cell)
		}
	}
	prev := m.Row
	k := 0
	for r := 0; r < rows; r++ {
		row := m.Row.Clone()
		m.Table.InsertRows(m.Table.RowIndex(prev)+1, row)
		prev = row
		for _, cell := range row.Cells {
			if k < n {
				if err := ctx.expand(m, CellScope(m.Part, cell), indexPath(e.Path, keys[k])); err != nil {
					return err
				}
			} else {
				cell.Clear()
			}
			k++
		}
	}
	m.removeRow()
	stats.Add("rows", rows)
	return nil
}

// PictureReferenceModule handles pictures described {pic:path}. The picture is
// replaced by a text placeholder carrying its width, {pic:path:width} for a
// single graphic or {li:path}{$:pic::width} for a collection of graphics.
func PictureReferenceModule(name string) Module {
	return mustModule[*MatchPicture](name, []string{PrefixPicture}, 1, 1, FindPictures, handlePictureReference)
}

func handlePictureReference(ctx *BuildContext, stats *Statistics, m *MatchPicture) error {
	e, err := ctx.Get(m.Fields()[0])
	if err != nil {
		return err
	}
	var width []string
	if m.Width > 0 {
		width = []string{strconv.Itoa(m.Width)}
	}
	if _, ok := graphicOf(e.Value); ok {
		m.ToText(placeholder(PrefixPicture, append([]string{e.Path}, width...)...))
		return nil
	}
	if _, err := e.Keys(); err != nil {
		return &model.TypeError{Path: e.Path, Want: "graphic or collection of graphics", Got: e.Type()}
	}
	inner := append([]string{PrefixPicture, ""}, width...)
	m.ToText(placeholder(PrefixList, e.Path) + placeholder(PrefixCollection, inner...))
	return nil
}

// PictureModule handles {pic:path[:width]} in text: the graphic, or every
// graphic of a collection, is inserted in place of the placeholder.
func PictureModule() Module {
	return mustModule[*MatchText](ModulePicture, []string{PrefixPicture}, 1, 2, FindParagraphs, handlePicture)
}

func handlePicture(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	fields := m.Fields()
	width := 0
	if len(fields) > 1 && fields[1] != "" {
		w, err := strconv.Atoi(fields[1])
		if err != nil || w < 0 {
			return NewGrammarError(ModulePicture, m.Placeholder(), fmt.Sprintf("width %q is not a number of pixels", fields[1]))
		}
		width = w
	}
	e, err := ctx.Get(fields[0])
	if err != nil {
		return err
	}
	if g, ok := graphicOf(e.Value); ok {
		stats.Add("pictures", 1)
		return m.ToPicture(g, width)
	}
	keys, err := e.Keys()
	if err != nil {
		return &model.TypeError{Path: e.Path, Want: "graphic or collection of graphics", Got: e.Type()}
	}
	graphics := make([]*Graphic, 0, len(keys))
	for _, key := range keys {
		item, err := e.Index(key)
		if err != nil {
			return err
		}
		g, ok := graphicOf(item.Value)
		if !ok {
			return &model.TypeError{Path: item.Path, Want: "graphic", Got: item.Type()}
		}
		graphics = append(graphics, g)
	}
	stats.Add("pictures", len(graphics))
	return m.ToPictures(graphics, width)
}

// HyperlinkModule handles {url:path} in hyperlink targets. The path resolves
// to a Link.
func HyperlinkModule() Module {
	return mustModule[*MatchHyperlink](ModuleHyperlink, []string{PrefixHyperlink}, 1, 1, FindHyperlinks, handleHyperlink)
}

func handleHyperlink(ctx *BuildContext, stats *Statistics, m *MatchHyperlink) error {
	e, err := ctx.Get(m.Fields()[0])
	if err != nil {
		return err
	}
	link, err := linkOf(e)
	if err != nil {
		return err
	}
	if link.Delete {
		m.SetExpired(true)
		return nil
	}
	if link.Text != "" {
		m.SetText(link.Text)
	}
	if link.URL == "" {
		m.RemovePlaceholder()
		return nil
	}
	target, err := NormalizeURL(link.URL)
	if err != nil {
		return err
	}
	m.SetURL(target)
	return nil
}

// TextModule handles {txt:path}: the placeholder is replaced by the value as
// text, formatted by the member's format directive.
func TextModule() Module {
	return mustModule[*MatchText](ModuleText, []string{PrefixText}, 1, 1, FindParagraphs, handleText)
}

func handleText(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	e, err := ctx.Get(m.Fields()[0])
	if err != nil {
		return err
	}
	m.ToText(e.String())
	return nil
}

// RemoveModule handles {rm:boolPath}: the paragraph is deleted when the path
// resolves to true, otherwise the placeholder is stripped.
func RemoveModule() Module {
	return mustModule[*MatchText](ModuleRemove, []string{PrefixRemove}, 1, 1, FindParagraphs, handleRemove)
}

func handleRemove(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	e, err := ctx.Get(m.Fields()[0])
	if err != nil {
		return err
	}
	remove, err := e.Bool()
	if err != nil {
		return err
	}
	if remove {
		m.RemoveParagraph()
		return nil
	}
	m.RemovePlaceholder()
	return nil
}

// ContentsModule handles {toc:title}: a table of contents headed by title is
// inserted before the paragraph. Word fills it in when the document is opened.
func ContentsModule() Module {
	return mustModule[*MatchText](ModuleContents, []string{PrefixContents}, 1, 1, FindParagraphs, handleContents)
}

func handleContents(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	xml.InsertBefore(m.Container, m.Paragraph, tableOfContents(m.Fields()[0]))
	m.RemovePlaceholder()
	if m.Paragraph.Text() == "" && len(m.Paragraph.Drawings()) == 0 {
		m.RemoveParagraph()
	}
	ctx.Document.RequestFieldUpdate()
	return nil
}

// tableOfContents builds a content control holding a heading and a TOC field
// over heading levels 1 to 3.
func tableOfContents(title string) *xml.Node {
	attr := func(name, value string) []xml.Attr { return []xml.Attr{{Name: name, Value: value}} }
	run := func(children ...*xml.Node) *xml.Node { return xml.NewNode("w:r", nil, children...) }
	field := func(typ string, extra ...xml.Attr) *xml.Node {
		return run(xml.NewNode("w:fldChar", append(attr("w:fldCharType", typ), extra...)))
	}

	var content []*xml.Node
	if title != "" {
		content = append(content, xml.NewNode("w:p", nil,
			xml.NewNode("w:pPr", nil, xml.NewNode("w:pStyle", attr("w:val", "TOCHeading"))),
			run(xml.NewNode("w:t", nil, xml.CharData(title))),
		))
	}
	content = append(content, xml.NewNode("w:p", nil,
		field("begin", xml.Attr{Name: "w:dirty", Value: "true"}),
		run(xml.NewNode("w:instrText", attr("xml:space", "preserve"), xml.CharData(` TOC \o "1-3" \h \z \u `))),
		field("separate"),
		field("end"),
	))

	return xml.NewNode("w:sdt", nil,
		xml.NewNode("w:sdtPr", nil,
			xml.NewNode("w:docPartObj", nil,
				xml.NewNode("w:docPartGallery", attr("w:val", "Table of Contents")),
				xml.NewNode("w:docPartUnique", nil),
			),
		),
		xml.NewNode("w:sdtContent", nil, content...),
	)
}

// CommentModule strips {!:text} placeholders.
func CommentModule() Module {
	return mustModule[*MatchText](ModuleComment, []string{PrefixComment}, 1, Unlimited, FindParagraphs, handleComment)
}

func handleComment(ctx *BuildContext, stats *Statistics, m *MatchText) error {
	m.SetExpired(true)
	return nil
}
