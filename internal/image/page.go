// Package image provides page loading, panel encoding, and debug overlays.
package image

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Page is a decoded source image ready for segmentation.
type Page struct {
	Path   string       // Original file path
	Format string       // Decoder name reported by image.DecodeConfig, e.g. "png"
	Image  *image.NRGBA // Pixels, non-premultiplied, origin at (0,0)
}

// Load reads and decodes the page at path. JPEG EXIF orientation is applied
// so that seed coordinates refer to the upright page.
func Load(path string) (*Page, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	page, err := Decode(file)
	if err != nil {
		return nil, err
	}
	page.Path = path
	return page, nil
}

// Decode reads a page from r, which must support seeking back to its start.
func Decode(r io.ReadSeeker) (*Page, error) {
	_, format, err := image.DecodeConfig(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to rewind image: %w", err)
	}

	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return &Page{
		Format: format,
		Image:  ToNRGBA(img),
	}, nil
}

// Width returns the page width in pixels.
func (p *Page) Width() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dx()
}

// Height returns the page height in pixels.
func (p *Page) Height() int {
	if p.Image == nil {
		return 0
	}
	return p.Image.Bounds().Dy()
}

// Name returns the file name without directory or extension.
func (p *Page) Name() string {
	base := filepath.Base(p.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// ToNRGBA returns img as an NRGBA whose bounds start at (0,0). An NRGBA that
// already starts at the origin is returned as is.
func ToNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}

// Save encodes img to path, choosing the format from the extension.
func Save(img image.Image, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := imaging.Save(img, path, imaging.JPEGQuality(95)); err != nil {
		return fmt.Errorf("failed to save %s: %w", filepath.Base(path), err)
	}
	return nil
}

// Encode writes img to w in the named format ("png", "jpg", "tif", ...).
func Encode(w io.Writer, img image.Image, format string) error {
	f, err := imaging.FormatFromExtension(format)
	if err != nil {
		return fmt.Errorf("unsupported output format %q: %w", format, err)
	}
	return imaging.Encode(w, img, f, imaging.JPEGQuality(95))
}

// SupportedFormats returns the list of readable image extensions.
func SupportedFormats() []string {
	return []string{".png", ".jpg", ".jpeg", ".gif", ".tif", ".tiff", ".bmp", ".webp"}
}

// OutputFormats returns the list of extensions panels can be written as.
func OutputFormats() []string {
	return []string{"png", "jpg", "jpeg", "gif", "tif", "tiff", "bmp"}
}

// IsSupportedFormat checks if the given path has a readable image extension.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}

// IsOutputFormat checks if panels can be encoded with the given extension.
func IsOutputFormat(format string) bool {
	format = strings.ToLower(strings.TrimPrefix(format, "."))
	for _, f := range OutputFormats() {
		if format == f {
			return true
		}
	}
	return false
}
