package templ

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGraphicSize(t *testing.T) {
	tests := []struct {
		name         string
		w, h         int
		width        int
		wantW, wantH int
	}{
		{"natural", 200, 100, 0, 200, 100},
		{"same width", 200, 100, 200, 200, 100},
		{"half", 200, 100, 100, 100, 50},
		{"rounded", 200, 100, 3, 3, 2},
		{"never flat", 200, 1, 1, 1, 1},
		{"upscaled", 10, 20, 30, 30, 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := testGraphic(t, tt.w, tt.h, "")
			w, h, err := g.Size(tt.width)
			if err != nil {
				t.Fatal(err)
			}
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("Size(%d) = %dx%d, want %dx%d", tt.width, w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestGraphicErrors(t *testing.T) {
	if _, err := NewGraphic([]byte("not an image"), ""); err == nil {
		t.Error("NewGraphic(garbage) error = nil")
	}
	g := &Graphic{Data: []byte("junk")}
	if _, _, err := g.Size(10); err == nil {
		t.Error("Size() on garbage error = nil")
	}

	dir := t.TempDir()
	if _, err := LoadGraphic(filepath.Join(dir, "missing.png"), ""); !IsDocumentError(err) {
		t.Errorf("LoadGraphic(missing) error = %v, want document error", err)
	}
	bad := filepath.Join(dir, "bad.png")
	os.WriteFile(bad, []byte("junk"), 0o644)
	if _, err := LoadGraphic(bad, ""); !IsDocumentError(err) {
		t.Errorf("LoadGraphic(bad) error = %v, want document error", err)
	}
}

func TestLoadGraphic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logo.png")
	if err := os.WriteFile(path, testPNG(t, 8, 4), 0o644); err != nil {
		t.Fatal(err)
	}
	g, err := LoadGraphic(path, "right")
	if err != nil {
		t.Fatalf("LoadGraphic() error = %v", err)
	}
	if g.Alignment != "right" {
		t.Errorf("Alignment = %q, want right", g.Alignment)
	}
	ext, contentType, err := g.extension()
	if err != nil || ext != "png" || contentType != "image/png" {
		t.Errorf("extension() = %q, %q, %v", ext, contentType, err)
	}
	cx, cy, err := g.extent(4)
	if err != nil || cx != 4*9525 || cy != 2*9525 {
		t.Errorf("extent(4) = %d, %d, %v", cx, cy, err)
	}
}

func TestGraphicOf(t *testing.T) {
	g := testGraphic(t, 2, 2, "")
	for _, v := range []any{g, *g} {
		if got, ok := graphicOf(v); !ok || got == nil {
			t.Errorf("graphicOf(%T) = %v, %v", v, got, ok)
		}
	}
	var none *Graphic
	for _, v := range []any{none, "logo.png", nil} {
		if _, ok := graphicOf(v); ok {
			t.Errorf("graphicOf(%T) = true", v)
		}
	}
}
