package templ

import (
	"archive/zip"
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

const testContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"><Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/><Default Extension="xml" ContentType="application/xml"/><Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/></Types>`

const testRootRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"><Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/></Relationships>`

const testNamespaces = `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main" ` +
	`xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships" ` +
	`xmlns:wp="http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing" ` +
	`xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" ` +
	`xmlns:pic="http://schemas.openxmlformats.org/drawingml/2006/picture"`

// docxFiles holds the parts of a test package. word/document.xml is given as
// body content only.
type docxFiles struct {
	body     string
	rels     []string
	header   string
	settings string
	extra    map[string][]byte
}

// createTestDocx builds a DOCX package in memory.
func createTestDocx(t *testing.T, files docxFiles) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name, content string) {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("zip write %s: %v", name, err)
		}
	}
	write("[Content_Types].xml", testContentTypes)
	write("_rels/.rels", testRootRels)
	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
		`<w:document `+testNamespaces+`><w:body>`+files.body+
		`<w:sectPr><w:pgSz w:w="11906" w:h="16838"/></w:sectPr></w:body></w:document>`)
	write("word/_rels/document.xml.rels", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`+
		strings.Join(files.rels, "")+`</Relationships>`)
	if files.header != "" {
		write("word/header1.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`+"\n"+
			`<w:hdr `+testNamespaces+`>`+files.header+`</w:hdr>`)
	}
	if files.settings != "" {
		write("word/settings.xml", files.settings)
	}
	for name, data := range files.extra {
		write(name, string(data))
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

// loadTestDocx builds and opens a test package.
func loadTestDocx(t *testing.T, files docxFiles) *Document {
	t.Helper()
	doc, err := LoadBytes(createTestDocx(t, files))
	if err != nil {
		t.Fatalf("LoadBytes() error = %v", err)
	}
	return doc
}

// para renders a paragraph with one run per text.
func para(texts ...string) string {
	var sb strings.Builder
	sb.WriteString("<w:p>")
	for _, s := range texts {
		fmt.Fprintf(&sb, `<w:r><w:t xml:space="preserve">%s</w:t></w:r>`, s)
	}
	sb.WriteString("</w:p>")
	return sb.String()
}

// table renders a table; each row is a list of cell texts.
func table(rows ...[]string) string {
	var sb strings.Builder
	sb.WriteString("<w:tbl><w:tblPr><w:tblW w:w=\"0\" w:type=\"auto\"/></w:tblPr>")
	for _, row := range rows {
		sb.WriteString("<w:tr>")
		for _, cell := range row {
			sb.WriteString(`<w:tc><w:tcPr><w:tcW w:w="1000" w:type="dxa"/></w:tcPr>` + para(cell) + `</w:tc>`)
		}
		sb.WriteString("</w:tr>")
	}
	sb.WriteString("</w:tbl>")
	return sb.String()
}

// drawing renders a paragraph holding one inline picture with the given
// alternative text and width in pixels.
func drawing(id int, descr string, width int) string {
	return fmt.Sprintf(`<w:p><w:r><w:drawing><wp:inline><wp:extent cx="%[1]d" cy="%[1]d"/>`+
		`<wp:docPr id="%[2]d" name="Picture %[2]d" descr="%[3]s"/>`+
		`<a:graphic><a:graphicData uri="http://schemas.openxmlformats.org/drawingml/2006/picture">`+
		`<pic:pic><pic:blipFill><a:blip r:embed="rId90"/></pic:blipFill></pic:pic>`+
		`</a:graphicData></a:graphic></wp:inline></w:drawing></w:r></w:p>`, width*9525, id, descr)
}

// hyperlink renders a paragraph holding one hyperlink.
func hyperlink(rid, text string) string {
	return fmt.Sprintf(`<w:p><w:hyperlink r:id="%s"><w:r><w:t>%s</w:t></w:r></w:hyperlink></w:p>`, rid, text)
}

func hyperlinkRel(rid, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s" TargetMode="External"/>`, rid, hyperlinkRelationshipType, target)
}

// testPNG encodes a solid PNG of the given size.
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 200, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("png.Encode() error = %v", err)
	}
	return buf.Bytes()
}

// testGraphic wraps a generated PNG.
func testGraphic(t *testing.T, w, h int, alignment string) *Graphic {
	t.Helper()
	g, err := NewGraphic(testPNG(t, w, h), alignment)
	if err != nil {
		t.Fatalf("NewGraphic() error = %v", err)
	}
	return g
}

// lines returns the paragraph texts of the document.
func lines(doc *Document) []string {
	return strings.Split(strings.TrimSuffix(doc.Text(), "\n"), "\n")
}

// buildTestDocx opens files and builds them against root with the default
// pipeline.
func buildTestDocx(t *testing.T, files docxFiles, root any) *Document {
	t.Helper()
	doc := loadTestDocx(t, files)
	b, err := NewBuilder(WithLogger(NewLogger(&bytes.Buffer{}, LogOff)))
	if err != nil {
		t.Fatalf("NewBuilder() error = %v", err)
	}
	if _, err := b.Build(doc, root); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return doc
}
