package templ

import (
	"archive/zip"
	"bytes"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDebuggerSnapshots(t *testing.T) {
	doc := loadTestDocx(t, docxFiles{body: para("{txt:a}") + para("{rm:x}gone")})
	b := quietBuilder(t, WithBuildConfig(&Config{Debug: true}))
	d := b.Debugger()
	if d == nil {
		t.Fatal("Debugger() = nil with Debug enabled")
	}
	if _, err := b.Build(doc, map[string]any{"a": "A", "x": true}); err != nil {
		t.Fatal(err)
	}

	names := d.Snapshots()
	if len(names) != len(b.Modules())+1 {
		t.Fatalf("got %d snapshots, want %d", len(names), len(b.Modules())+1)
	}
	if diff := cmp.Diff([]string{"0-initial.docx", "1-section.docx", "2-picture-reference-1.docx"}, names[:3]); diff != "" {
		t.Errorf("snapshot names mismatch (-want +got):\n%s", diff)
	}

	initial, err := d.Snapshot("0-initial.docx")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"{txt:a}", "{rm:x}gone"}, lines(initial)); diff != "" {
		t.Errorf("initial snapshot mismatch (-want +got):\n%s", diff)
	}
	// the remove module runs before the text module
	afterRemove, err := d.Snapshot("8-remove.docx")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"{txt:a}"}, lines(afterRemove)); diff != "" {
		t.Errorf("remove snapshot mismatch (-want +got):\n%s", diff)
	}
	if _, err := d.Snapshot("99-nothing.docx"); !IsDocumentError(err) {
		t.Errorf("Snapshot(unknown) error = %v, want document error", err)
	}

	// a second build starts over
	if _, err := b.Build(loadTestDocx(t, docxFiles{body: para("x")}), nil); err != nil {
		t.Fatal(err)
	}
	if len(d.Snapshots()) != len(names) {
		t.Errorf("second build left %d snapshots, want %d", len(d.Snapshots()), len(names))
	}
}

func TestDebuggerReport(t *testing.T) {
	doc := loadTestDocx(t, docxFiles{body: para("{txt:a} {txt:b}")})
	d := NewDebugger()
	b := quietBuilder(t, WithDebugger(d))
	if _, err := b.Build(doc, map[string]any{"a": 1, "b": 2}); err != nil {
		t.Fatal(err)
	}

	report := d.Report(b.Modules())
	got := lines(report)
	want := []string{"Module report", "Module", "Prefixes", "Matches", "Removals", "Elapsed (ms)", "Details"}
	if diff := cmp.Diff(want, got[:len(want)]); diff != "" {
		t.Errorf("report header mismatch (-want +got):\n%s", diff)
	}
	found := false
	for i, line := range got {
		if line == ModuleText {
			found = true
			if diff := cmp.Diff([]string{PrefixText, "2"}, got[i+1:i+3]); diff != "" {
				t.Errorf("text row mismatch (-want +got):\n%s", diff)
			}
		}
	}
	if !found {
		t.Errorf("report has no row for the text module: %q", got)
	}

	data, err := d.Bytes()
	if err != nil {
		t.Fatal(err)
	}
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatal(err)
	}
	var files []string
	for _, f := range zr.File {
		files = append(files, f.Name)
	}
	if len(files) != len(b.Modules())+2 || files[len(files)-1] != "report.docx" {
		t.Errorf("archive files = %q", files)
	}

	if err := d.SaveAs(filepath.Join(t.TempDir(), "debug.zip")); err != nil {
		t.Errorf("SaveAs() error = %v", err)
	}
	d.Reset()
	if len(d.Snapshots()) != 0 {
		t.Error("Reset() kept snapshots")
	}
}
