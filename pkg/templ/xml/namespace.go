package xml

import (
	"encoding/xml"
)

const (
	NamespaceW   = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	NamespaceR   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NamespaceWP  = "http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing"
	NamespaceA   = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NamespacePic = "http://schemas.openxmlformats.org/drawingml/2006/picture"
	namespaceXML = "http://www.w3.org/XML/1998/namespace"
)

// wellKnownPrefixes maps the namespaces Word writes to the prefixes it uses for them.
var wellKnownPrefixes = map[string]string{
	// Core Word namespaces
	NamespaceW:   "w",
	NamespaceR:   "r",
	namespaceXML: "xml",
	"http://schemas.openxmlformats.org/officeDocument/2006/math": "m",
	// Drawing namespaces
	NamespaceWP:  "wp",
	NamespaceA:   "a",
	NamespacePic: "pic",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingDrawing": "wp14",
	"http://schemas.microsoft.com/office/drawing/2010/main":               "a14",
	"http://schemas.microsoft.com/office/drawing/2014/main":               "a16",
	// VML namespaces
	"urn:schemas-microsoft-com:vml":          "v",
	"urn:schemas-microsoft-com:office:office": "o",
	"urn:schemas-microsoft-com:office:word":  "w10",
	// Markup compatibility
	"http://schemas.openxmlformats.org/markup-compatibility/2006": "mc",
	// Shapes, canvas, groups and ink
	"http://schemas.microsoft.com/office/word/2010/wordprocessingShape":  "wps",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingCanvas": "wpc",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingGroup":  "wpg",
	"http://schemas.microsoft.com/office/word/2010/wordprocessingInk":    "wpi",
	// Extended Word namespaces
	"http://schemas.microsoft.com/office/word/2010/wordml":             "w14",
	"http://schemas.microsoft.com/office/word/2012/wordml":             "w15",
	"http://schemas.microsoft.com/office/word/2015/wordml/symex":       "w16se",
	"http://schemas.microsoft.com/office/word/2016/wordml/cid":         "w16cid",
	"http://schemas.microsoft.com/office/word/2018/wordml":             "w16",
	"http://schemas.microsoft.com/office/word/2018/wordml/cex":         "w16cex",
	"http://schemas.microsoft.com/office/word/2020/wordml/sdtdatahash": "w16sdtdh",
	"http://schemas.microsoft.com/office/word/2006/wordml":             "wne",
}

// namespaces resolves the namespace URIs reported by encoding/xml back to the
// prefixes declared in the part. Declarations found anywhere in the part win
// over the well-known table.
type namespaces map[string]string

func (ns namespaces) declare(attrs []xml.Attr) {
	for _, a := range attrs {
		if a.Name.Space == "xmlns" {
			ns[a.Value] = a.Name.Local
		}
	}
}

func (ns namespaces) prefix(uri string) string {
	if p, ok := ns[uri]; ok {
		return p
	}
	if p, ok := wellKnownPrefixes[uri]; ok {
		return p
	}
	// Undeclared prefixes are reported verbatim by the decoder.
	return uri
}

// qualify turns a decoded name into its "prefix:local" form.
func (ns namespaces) qualify(name xml.Name) string {
	switch name.Space {
	case "":
		return name.Local
	case "xmlns":
		return "xmlns:" + name.Local
	}
	return ns.prefix(name.Space) + ":" + name.Local
}
