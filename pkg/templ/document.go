package templ

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"regexp"
	"sort"

	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

const (
	mainPartName         = "word/document.xml"
	contentTypesPartName = "[Content_Types].xml"
	settingsPartName     = "word/settings.xml"
)

var storyPartPattern = regexp.MustCompile(`^word/(header|footer)\d+\.xml$`)

// Document is a DOCX package opened for building. Story parts (the main
// document, headers and footers) are decoded; every other part is kept as
// bytes and written back unchanged.
type Document struct {
	files        []*packageFile
	index        map[string]*packageFile
	parts        []*Part
	contentTypes *ContentTypes
	typesChanged bool
	updateFields bool
	drawingID    int
	mediaCount   int
}

type packageFile struct {
	name string
	data []byte
}

// Part is a decoded story part with its relationships.
type Part struct {
	Name        string
	doc         *Document
	xml         *xml.Document
	rels        *Relationships
	relsChanged bool
	images      map[*Graphic]string
	imageData   map[string]string
}

// Load reads a DOCX package.
func Load(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, NewDocumentError("read", "", err)
	}
	return LoadBytes(data)
}

// LoadFile reads a DOCX package from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read", path, err)
	}
	return LoadBytes(data)
}

// LoadBytes decodes a DOCX package held in memory.
func LoadBytes(data []byte) (*Document, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewDocumentError("open", "", fmt.Errorf("failed to read zip file: %w", err))
	}
	d := &Document{index: make(map[string]*packageFile)}
	for _, file := range zr.File {
		content, err := readZipFile(file)
		if err != nil {
			return nil, NewDocumentError("read", file.Name, err)
		}
		d.addFile(file.Name, content)
	}
	if _, ok := d.index[mainPartName]; !ok {
		return nil, NewDocumentError("open", mainPartName, fmt.Errorf("not a valid DOCX file: missing %s", mainPartName))
	}
	if err := d.decode(); err != nil {
		return nil, err
	}
	return d, nil
}

func readZipFile(file *zip.File) ([]byte, error) {
	rc, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// decode parses the story parts, their relationships and the content types.
func (d *Document) decode() error {
	names := []string{mainPartName}
	var stories []string
	for _, f := range d.files {
		if storyPartPattern.MatchString(f.name) {
			stories = append(stories, f.name)
		}
	}
	sort.Strings(stories)
	names = append(names, stories...)

	for _, name := range names {
		doc, err := xml.Parse(d.index[name].data)
		if err != nil {
			return NewDocumentError("parse", name, err)
		}
		p := &Part{Name: name, doc: d, xml: doc}
		if f, ok := d.index[relationshipsPath(name)]; ok {
			if p.rels, err = parseRelationships(f.data); err != nil {
				return NewDocumentError("parse", f.name, err)
			}
		}
		d.parts = append(d.parts, p)
		d.drawingID = max(d.drawingID, maxDrawingID(doc.Body))
	}

	if f, ok := d.index[contentTypesPartName]; ok {
		ct, err := parseContentTypes(f.data)
		if err != nil {
			return NewDocumentError("parse", contentTypesPartName, err)
		}
		d.contentTypes = ct
	} else {
		d.contentTypes = &ContentTypes{}
		d.typesChanged = true
		d.addFile(contentTypesPartName, nil)
	}
	return nil
}

func maxDrawingID(b *xml.Body) int {
	id := 0
	for _, ref := range xml.Paragraphs(b, b.Elements) {
		for _, dr := range ref.Paragraph.Drawings() {
			id = max(id, dr.ID())
		}
	}
	return id
}

// NewDocument creates a blank document with an empty body.
func NewDocument() *Document {
	d := &Document{index: make(map[string]*packageFile)}
	d.contentTypes = &ContentTypes{
		Defaults: []ContentTypeDefault{
			{Extension: "rels", ContentType: "application/vnd.openxmlformats-package.relationships+xml"},
			{Extension: "xml", ContentType: "application/xml"},
		},
	}
	d.contentTypes.addOverride(mainPartName, mainContentType)
	d.typesChanged = true
	d.addFile(contentTypesPartName, nil)

	root := &Relationships{}
	root.Add(officeDocumentRelationshipType, mainPartName, "")
	rootRels, _ := root.marshal()
	d.addFile("_rels/.rels", rootRels)

	main := &Part{Name: mainPartName, doc: d, xml: xml.NewDocument(), rels: &Relationships{}, relsChanged: true}
	d.addFile(mainPartName, nil)
	d.addFile(relationshipsPath(mainPartName), nil)
	d.parts = []*Part{main}
	return d
}

func (d *Document) addFile(name string, data []byte) *packageFile {
	if f, ok := d.index[name]; ok {
		f.data = data
		return f
	}
	f := &packageFile{name: name, data: data}
	d.files = append(d.files, f)
	d.index[name] = f
	return f
}

// Main returns the main document part.
func (d *Document) Main() *Part {
	return d.parts[0]
}

// Body returns the body of the main document part.
func (d *Document) Body() *xml.Body {
	return d.Main().Body()
}

// Parts returns the story parts: the main document first, then headers and
// footers ordered by name.
func (d *Document) Parts() []*Part {
	return d.parts
}

// Part returns the story part with the given name.
func (d *Document) Part(name string) *Part {
	for _, p := range d.parts {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// FileNames lists every part of the package in writing order.
func (d *Document) FileNames() []string {
	names := make([]string, len(d.files))
	for i, f := range d.files {
		names[i] = f.name
	}
	return names
}

// File returns the current content of a package part.
func (d *Document) File(name string) ([]byte, bool) {
	f, ok := d.index[name]
	if !ok {
		return nil, false
	}
	data, err := d.fileData(f)
	if err != nil {
		return nil, false
	}
	return data, true
}

// Text returns the text of every paragraph of every story part, one line per
// paragraph.
func (d *Document) Text() string {
	var buf bytes.Buffer
	for _, p := range d.parts {
		for _, ref := range xml.Paragraphs(p.Body(), p.Body().Elements) {
			buf.WriteString(ref.Paragraph.Text())
			buf.WriteByte('\n')
		}
	}
	return buf.String()
}

// Bytes encodes the package.
func (d *Document) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := d.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes the package to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, f := range d.files {
		data, err := d.fileData(f)
		if err != nil {
			return 0, NewDocumentError("marshal", f.name, err)
		}
		fw, err := zw.Create(f.name)
		if err != nil {
			return 0, NewDocumentError("write", f.name, fmt.Errorf("failed to create %s: %w", f.name, err))
		}
		if _, err := fw.Write(data); err != nil {
			return 0, NewDocumentError("write", f.name, fmt.Errorf("failed to write %s: %w", f.name, err))
		}
	}
	if err := zw.Close(); err != nil {
		return 0, NewDocumentError("write", "", fmt.Errorf("failed to close zip writer: %w", err))
	}
	return buf.WriteTo(w)
}

// SaveAs writes the package to a file.
func (d *Document) SaveAs(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewDocumentError("write", path, err)
	}
	return nil
}

// Copy returns an independent copy of the document in its current state.
func (d *Document) Copy() (*Document, error) {
	data, err := d.Bytes()
	if err != nil {
		return nil, err
	}
	return LoadBytes(data)
}

// fileData returns what is written for f: decoded parts are encoded again,
// everything else is copied.
func (d *Document) fileData(f *packageFile) ([]byte, error) {
	if p := d.Part(f.name); p != nil {
		return p.xml.Marshal()
	}
	switch f.name {
	case contentTypesPartName:
		if d.typesChanged {
			return d.contentTypes.marshal()
		}
	case settingsPartName:
		if d.updateFields {
			return withUpdateFields(f.data)
		}
	}
	for _, p := range d.parts {
		if p.relsChanged && f.name == relationshipsPath(p.Name) {
			return p.rels.marshal()
		}
	}
	return f.data, nil
}

// RequestFieldUpdate asks Word to update fields, such as tables of contents,
// when it opens the document.
func (d *Document) RequestFieldUpdate() {
	if d.updateFields {
		return
	}
	d.updateFields = true
	if _, ok := d.index[settingsPartName]; ok {
		return
	}
	d.addFile(settingsPartName, []byte(xmlHeader+`<w:settings xmlns:w="`+xml.NamespaceW+`"></w:settings>`))
	d.Main().relationships().Add(settingsRelationshipType, "settings.xml", "")
	d.Main().relsChanged = true
	if d.contentTypes.addOverride(settingsPartName, settingsContentType) {
		d.typesChanged = true
	}
}

// settings children that must follow w:updateFields.
var afterUpdateFields = map[string]bool{
	"w:hdrShapeDefaults": true, "w:footnotePr": true, "w:endnotePr": true, "w:compat": true,
	"w:docVars": true, "w:rsids": true, "m:mathPr": true, "w:attachedSchema": true,
	"w:themeFontLang": true, "w:clrSchemeMapping": true, "w:doNotIncludeSubdocsInStats": true,
	"w:doNotAutoCompressPictures": true, "w:forceUpgrade": true, "w:captions": true,
	"w:readModeInkLockDown": true, "w:smartTagType": true, "sl:schemaLibrary": true,
	"w:shapeDefaults": true, "w:doNotEmbedSmartTags": true, "w:decimalSymbol": true,
	"w:listSeparator": true,
}

func withUpdateFields(data []byte) ([]byte, error) {
	root, err := xml.ParseNode(string(data))
	if err != nil {
		return nil, err
	}
	if n := root.Child("w:updateFields"); n != nil {
		n.SetAttr("w:val", "true")
	} else {
		n := xml.NewNode("w:updateFields", []xml.Attr{{Name: "w:val", Value: "true"}})
		at := len(root.Children)
		for i, c := range root.Children {
			if afterUpdateFields[c.Name] {
				at = i
				break
			}
		}
		children := make([]*xml.Node, 0, len(root.Children)+1)
		children = append(children, root.Children[:at]...)
		children = append(children, n)
		children = append(children, root.Children[at:]...)
		root.Children = children
	}
	return []byte(xmlHeader + root.String()), nil
}

func (d *Document) nextDrawingID() int {
	d.drawingID++
	return d.drawingID
}

// Body returns the block container of the part.
func (p *Part) Body() *xml.Body {
	return p.xml.Body
}

// IsMain reports whether p is the main document part.
func (p *Part) IsMain() bool {
	return p.xml.IsMain()
}

// Document returns the package the part belongs to.
func (p *Part) Document() *Document {
	return p.doc
}

func (p *Part) relationships() *Relationships {
	if p.rels == nil {
		p.rels = &Relationships{}
		p.doc.addFile(relationshipsPath(p.Name), nil)
	}
	return p.rels
}

// HyperlinkTarget returns the target of an external relationship.
func (p *Part) HyperlinkTarget(id string) (string, bool) {
	if p.rels == nil || id == "" {
		return "", false
	}
	rel, ok := p.rels.Get(id)
	if !ok || rel.Type != hyperlinkRelationshipType {
		return "", false
	}
	return rel.Target, true
}

// AddHyperlink registers an external target and returns its relationship id.
func (p *Part) AddHyperlink(target string) string {
	p.relsChanged = true
	return p.relationships().Add(hyperlinkRelationshipType, target, "External")
}

// AddImage stores the image in the package and returns the id of the
// relationship from p to it. Each graphic is stored once per part, and equal
// image data is stored once per document.
func (p *Part) AddImage(g *Graphic) (string, error) {
	if id, ok := p.images[g]; ok {
		return id, nil
	}
	ext, contentType, err := g.extension()
	if err != nil {
		return "", err
	}
	d := p.doc
	key := string(g.Data)
	if id, ok := p.imageData[key]; ok {
		p.rememberImage(g, key, id)
		return id, nil
	}
	var name string
	for {
		d.mediaCount++
		name = fmt.Sprintf("word/media/templ_image%d.%s", d.mediaCount, ext)
		if _, taken := d.index[name]; !taken {
			break
		}
	}
	d.addFile(name, g.Data)
	if d.contentTypes.addDefault(ext, contentType) {
		d.typesChanged = true
	}
	rel, err := relativeTarget(p.Name, name)
	if err != nil {
		return "", err
	}
	id := p.relationships().Add(imageRelationshipType, rel, "")
	p.relsChanged = true
	p.rememberImage(g, key, id)
	return id, nil
}

func (p *Part) rememberImage(g *Graphic, key, id string) {
	if p.images == nil {
		p.images = make(map[*Graphic]string)
		p.imageData = make(map[string]string)
	}
	p.images[g] = id
	p.imageData[key] = id
}

func relativeTarget(from, to string) (string, error) {
	dir := path.Dir(from)
	if dir == path.Dir(path.Dir(to)) {
		return path.Base(path.Dir(to)) + "/" + path.Base(to), nil
	}
	return "", fmt.Errorf("cannot reference %s from %s", to, from)
}

// inlinePicture is a wp:inline drawing. Arguments: cx, cy, object id, object
// name, relationship id.
const inlinePicture = `<w:drawing><wp:inline distT="0" distB="0" distL="0" distR="0">` +
	`<wp:extent cx="%[1]d" cy="%[2]d"/><wp:effectExtent l="0" t="0" r="0" b="0"/>` +
	`<wp:docPr id="%[3]d" name="%[4]s"/>` +
	`<wp:cNvGraphicFramePr><a:graphicFrameLocks xmlns:a="` + xml.NamespaceA + `" noChangeAspect="1"/></wp:cNvGraphicFramePr>` +
	`<a:graphic xmlns:a="` + xml.NamespaceA + `"><a:graphicData uri="` + xml.NamespacePic + `">` +
	`<pic:pic xmlns:pic="` + xml.NamespacePic + `"><pic:nvPicPr><pic:cNvPr id="%[3]d" name="%[4]s"/><pic:cNvPicPr/></pic:nvPicPr>` +
	`<pic:blipFill><a:blip r:embed="%[5]s"/><a:stretch><a:fillRect/></a:stretch></pic:blipFill>` +
	`<pic:spPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="%[1]d" cy="%[2]d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom></pic:spPr>` +
	`</pic:pic></a:graphicData></a:graphic></wp:inline></w:drawing>`

// pictureRun renders g as a run holding an inline picture. A width of zero or
// less keeps the natural size of the image.
func (p *Part) pictureRun(g *Graphic, width int) (*xml.Run, error) {
	rid, err := p.AddImage(g)
	if err != nil {
		return nil, err
	}
	cx, cy, err := g.extent(width)
	if err != nil {
		return nil, err
	}
	id := p.doc.nextDrawingID()
	node, err := xml.ParseNode(fmt.Sprintf(inlinePicture, cx, cy, id, fmt.Sprintf("Picture %d", id), rid))
	if err != nil {
		return nil, err
	}
	return &xml.Run{Content: []xml.RunContent{&xml.Drawing{Node: node}}}, nil
}
