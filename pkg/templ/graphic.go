package templ

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/benjaminschreck/go-templ/pkg/templ/xml"
)

// Graphic is an image a model provides for a picture placeholder.
type Graphic struct {
	Data []byte
	// Alignment is the justification given to the paragraph that receives the
	// image: "left", "center", "right" or "both". Empty keeps the paragraph's.
	Alignment string
}

// NewGraphic checks that data holds a supported image and wraps it.
func NewGraphic(data []byte, alignment string) (*Graphic, error) {
	g := &Graphic{Data: data, Alignment: alignment}
	if _, _, err := g.Config(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadGraphic reads an image file.
func LoadGraphic(path, alignment string) (*Graphic, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewDocumentError("read image", path, err)
	}
	g, err := NewGraphic(data, alignment)
	if err != nil {
		return nil, NewDocumentError("decode image", path, err)
	}
	return g, nil
}

// Config decodes the dimensions and the format name of the image.
func (g *Graphic) Config() (image.Config, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(g.Data))
	if err != nil {
		return image.Config{}, "", fmt.Errorf("unsupported image: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return image.Config{}, "", fmt.Errorf("image has no size (%dx%d)", cfg.Width, cfg.Height)
	}
	return cfg, format, nil
}

// Size returns the pixel size of the image scaled to width. A width of zero
// or less keeps the natural size.
func (g *Graphic) Size(width int) (int, int, error) {
	cfg, _, err := g.Config()
	if err != nil {
		return 0, 0, err
	}
	if width <= 0 || width == cfg.Width {
		return cfg.Width, cfg.Height, nil
	}
	height := (cfg.Height*width + cfg.Width/2) / cfg.Width
	return width, max(height, 1), nil
}

// extent returns the displayed size in EMU.
func (g *Graphic) extent(width int) (int64, int64, error) {
	w, h, err := g.Size(width)
	if err != nil {
		return 0, 0, err
	}
	return int64(w) * xml.EMUPerPixel, int64(h) * xml.EMUPerPixel, nil
}

// extension returns the file extension and the content type of the image.
func (g *Graphic) extension() (string, string, error) {
	_, format, err := g.Config()
	if err != nil {
		return "", "", err
	}
	format = strings.ToLower(format)
	return format, "image/" + format, nil
}

// graphicOf narrows a model value to a graphic.
func graphicOf(v any) (*Graphic, bool) {
	switch g := v.(type) {
	case *Graphic:
		return g, g != nil
	case Graphic:
		return &g, true
	}
	return nil, false
}
