package preview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/HugoSmits86/nativewebp"
	"github.com/chazu/cornermesh/pkg/meshlog"
	"github.com/chazu/cornermesh/pkg/scene"
)

// Format is an output image encoding.
type Format int

const (
	WebP Format = iota
	PNG
)

func (f Format) String() string {
	switch f {
	case WebP:
		return "webp"
	case PNG:
		return "png"
	}
	return fmt.Sprintf("Format(%d)", int(f))
}

// ErrUnknownFormat is returned for file extensions other than .webp and .png.
var ErrUnknownFormat = errors.New("preview: unknown image format")

// FormatFromPath picks the encoding from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".webp":
		return WebP, nil
	case ".png":
		return PNG, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format Format) error {
	switch format {
	case WebP:
		return nativewebp.Encode(w, img, nil)
	case PNG:
		return png.Encode(w, img)
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, format)
}

// Save renders g and writes it to path, choosing the format from the
// extension. No file is created if rendering or encoding fails.
func Save(path string, g *scene.SceneGraph, opts Options) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	img, err := Render(g, opts)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, img, format); err != nil {
		return fmt.Errorf("preview: encode %s: %w", format, err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("preview: write %s: %w", path, err)
	}

	meshlog.Logger().Info("preview: saved", "path", path, "format", format, "size", img.Bounds().Dx())
	return nil
}
