package templ

import (
	"archive/zip"
	"bytes"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// Debugger records the state of a document during a build: once before the
// first module and once after each module. Bytes packages the snapshots and a
// report of the module statistics into a zip archive.
type Debugger struct {
	snapshots []snapshot
	report    *Document
}

type snapshot struct {
	name string
	data []byte
}

// NewDebugger creates an empty debugger.
func NewDebugger() *Debugger {
	return &Debugger{}
}

// Capture stores the current state of doc under name.
func (d *Debugger) Capture(name string, doc *Document) error {
	data, err := doc.Bytes()
	if err != nil {
		return WithContext(err, "capturing debug snapshot", map[string]interface{}{"name": name})
	}
	d.snapshots = append(d.snapshots, snapshot{name: name, data: data})
	return nil
}

// Snapshots returns the file names the captured states are packaged under.
func (d *Debugger) Snapshots() []string {
	names := make([]string, len(d.snapshots))
	for i, s := range d.snapshots {
		names[i] = snapshotName(i, s.name)
	}
	return names
}

func snapshotName(i int, name string) string {
	return fmt.Sprintf("%d-%s.docx", i, name)
}

// Snapshot returns the document captured under the given file name.
func (d *Debugger) Snapshot(fileName string) (*Document, error) {
	for i, s := range d.snapshots {
		if snapshotName(i, s.name) == fileName {
			return LoadBytes(s.data)
		}
	}
	return nil, NewDocumentError("open snapshot", fileName, os.ErrNotExist)
}

var reportColumns = []string{"Module", "Prefixes", "Matches", "Removals", "Elapsed (ms)", "Details"}

// Report builds the module report: a document with one table row per module.
func (d *Debugger) Report(modules []Module) *Document {
	doc := NewDocument()
	body := doc.Body()
	body.Elements = append(body.Elements, xml.NewParagraph("Module report"))

	table := xml.NewTable(len(modules)+1, len(reportColumns))
	setRow(table.Rows[0], reportColumns)
	for i, m := range modules {
		s := m.Statistics()
		setRow(table.Rows[i+1], []string{
			m.Name(),
			strings.Join(m.Prefixes(), " "),
			strconv.Itoa(s.Matches),
			strconv.Itoa(s.Removals),
			strconv.FormatFloat(float64(s.Elapsed.Microseconds())/1000, 'f', 3, 64),
			customDetails(s.Custom),
		})
	}
	body.Elements = append(body.Elements, table)
	d.report = doc
	return doc
}

func setRow(row *xml.TableRow, values []string) {
	for i, cell := range row.Cells {
		cell.Content = []xml.BodyElement{xml.NewParagraph(values[i])}
	}
}

func customDetails(custom map[string]string) string {
	keys := make([]string, 0, len(custom))
	for k := range custom {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + custom[k]
	}
	return strings.Join(parts, ", ")
}

// Bytes packages the snapshots and the report as a zip archive.
func (d *Debugger) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	write := func(name string, data []byte) error {
		fw, err := zw.Create(name)
		if err != nil {
			return NewDocumentError("write", name, err)
		}
		if _, err := fw.Write(data); err != nil {
			return NewDocumentError("write", name, err)
		}
		return nil
	}
	for i, s := range d.snapshots {
		if err := write(snapshotName(i, s.name), s.data); err != nil {
			return nil, err
		}
	}
	if d.report != nil {
		data, err := d.report.Bytes()
		if err != nil {
			return nil, err
		}
		if err := write("report.docx", data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, NewDocumentError("write", "", err)
	}
	return buf.Bytes(), nil
}

// SaveAs writes the archive to a file.
func (d *Debugger) SaveAs(path string) error {
	data, err := d.Bytes()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return NewDocumentError("write", path, err)
	}
	return nil
}

// Reset drops everything recorded so far.
func (d *Debugger) Reset() {
	d.snapshots = nil
	d.report = nil
}
