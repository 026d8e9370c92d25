// Package xml provides the WordprocessingML tree used by go-templ.
//
// DOCX parts are XML documents. This package decodes a part into a small typed
// tree that keeps everything it does not understand as raw nodes, so a part can
// be edited and written back without losing content.
//
// # Structure Organization
//
//   - node.go: the generic Node and its encoder/decoder
//   - namespace.go: namespace URI to prefix mapping
//   - document.go: Document (document, header and footer parts) and Body
//   - paragraph.go: Paragraph, Hyperlink and cross-run text editing
//   - run.go: Run, Text and Drawing
//   - table.go: Table, TableRow and TableCell
//   - container.go: the Container interface and the block walkers
//   - section.go: splitting a body into sections
//
// # Key Concepts
//
// BodyElement: a block that can appear in a body or a table cell (paragraphs,
// tables, raw nodes such as content controls).
//
// ParagraphContent: an element inside a paragraph (runs, hyperlinks, raw nodes).
//
// Container: anything that owns a list of blocks. Body and TableCell are the
// containers; blocks are located and removed by pointer identity, so a
// reference stays valid while siblings are inserted or deleted.
//
// Placeholders often span several runs because Word splits text on edits and
// spell checking. Paragraph.Text and Paragraph.ReplaceText therefore work on the
// concatenated text of all runs in a paragraph.
//
//	p := xml.NewParagraph("Hello {txt:Name}!")
//	p.ReplaceText("{txt:Name}", "World")
//	p.Text() // "Hello World!"
package xml
