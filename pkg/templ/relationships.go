package templ

import (
	"encoding/xml"
	"fmt"
	"path"
	"strconv"
	"strings"
)

const (
	relationshipsNamespace = "http://schemas.openxmlformats.org/package/2006/relationships"
	contentTypesNamespace  = "http://schemas.openxmlformats.org/package/2006/content-types"

	officeDocumentRelationshipType = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	imageRelationshipType          = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/image"
	hyperlinkRelationshipType      = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/hyperlink"
	settingsRelationshipType       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/settings"

	mainContentType     = "application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"
	settingsContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.settings+xml"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

// Relationship represents a relationship in the DOCX package
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr,omitempty"`
}

// Relationships is the content of a .rels part.
type Relationships struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Namespace    string         `xml:"xmlns,attr"`
	Relationship []Relationship `xml:"Relationship"`
}

func parseRelationships(data []byte) (*Relationships, error) {
	rels := &Relationships{}
	if err := xml.Unmarshal(data, rels); err != nil {
		return nil, fmt.Errorf("failed to parse relationships: %w", err)
	}
	return rels, nil
}

// Get returns the relationship with the given id.
func (r *Relationships) Get(id string) (Relationship, bool) {
	for _, rel := range r.Relationship {
		if rel.ID == id {
			return rel, true
		}
	}
	return Relationship{}, false
}

// Add appends a relationship under a fresh id and returns the id.
func (r *Relationships) Add(typ, target, mode string) string {
	id := r.nextID()
	r.Relationship = append(r.Relationship, Relationship{ID: id, Type: typ, Target: target, TargetMode: mode})
	return id
}

func (r *Relationships) nextID() string {
	maxID := 0
	for _, rel := range r.Relationship {
		if strings.HasPrefix(rel.ID, "rId") {
			if id, err := strconv.Atoi(rel.ID[3:]); err == nil && id > maxID {
				maxID = id
			}
		}
	}
	return fmt.Sprintf("rId%d", maxID+1)
}

func (r *Relationships) marshal() ([]byte, error) {
	// the decoded name carries the namespace, which Namespace writes again
	r.XMLName = xml.Name{}
	r.Namespace = relationshipsNamespace
	out, err := xml.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal relationships: %w", err)
	}
	return append([]byte(xmlHeader), out...), nil
}

// relationshipsPath maps a part to its relationships part, e.g.
// "word/document.xml" to "word/_rels/document.xml.rels".
func relationshipsPath(partName string) string {
	dir, base := path.Split(partName)
	return dir + "_rels/" + base + ".rels"
}

// ContentTypes is the content of [Content_Types].xml.
type ContentTypes struct {
	XMLName   xml.Name              `xml:"Types"`
	Namespace string                `xml:"xmlns,attr"`
	Defaults  []ContentTypeDefault  `xml:"Default"`
	Overrides []ContentTypeOverride `xml:"Override"`
}

// ContentTypeDefault maps a file extension to a content type.
type ContentTypeDefault struct {
	Extension   string `xml:"Extension,attr"`
	ContentType string `xml:"ContentType,attr"`
}

// ContentTypeOverride sets the content type of one part.
type ContentTypeOverride struct {
	PartName    string `xml:"PartName,attr"`
	ContentType string `xml:"ContentType,attr"`
}

func parseContentTypes(data []byte) (*ContentTypes, error) {
	ct := &ContentTypes{}
	if err := xml.Unmarshal(data, ct); err != nil {
		return nil, fmt.Errorf("failed to parse content types: %w", err)
	}
	return ct, nil
}

// addDefault registers an extension and reports whether it was missing.
func (c *ContentTypes) addDefault(ext, contentType string) bool {
	for _, d := range c.Defaults {
		if strings.EqualFold(d.Extension, ext) {
			return false
		}
	}
	c.Defaults = append(c.Defaults, ContentTypeDefault{Extension: ext, ContentType: contentType})
	return true
}

// addOverride registers a part and reports whether it was missing.
func (c *ContentTypes) addOverride(partName, contentType string) bool {
	partName = "/" + strings.TrimPrefix(partName, "/")
	for _, o := range c.Overrides {
		if o.PartName == partName {
			return false
		}
	}
	c.Overrides = append(c.Overrides, ContentTypeOverride{PartName: partName, ContentType: contentType})
	return true
}

func (c *ContentTypes) marshal() ([]byte, error) {
	c.XMLName = xml.Name{}
	c.Namespace = contentTypesNamespace
	out, err := xml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal content types: %w", err)
	}
	return append([]byte(xmlHeader), out...), nil
}
