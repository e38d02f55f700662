// Package manifest records which panel files were cut from a page.
package manifest

import (
	"encoding/json"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"time"
)

// FileName is the manifest's name inside a page's output directory.
const FileName = "manifest.json"

// Manifest describes one segmented page (manifest.json).
type Manifest struct {
	Version int       `json:"version"`
	Source  string    `json:"source"` // Relative to the manifest when possible
	Created time.Time `json:"created"`
	Width   int       `json:"width"`
	Height  int       `json:"height"`

	Settings Settings `json:"settings"`

	Crop        Rect   `json:"crop"`
	FramePixels int    `json:"frame_pixels"`
	RawLabels   int    `json:"raw_labels"`
	Dropped     int    `json:"dropped,omitempty"`
	Overlay     string `json:"overlay,omitempty"`

	Panels []Entry `json:"panels"`
}

// Settings captures the parameters the page was segmented with.
type Settings struct {
	Tolerance      uint32 `json:"tolerance"`
	SeedX          int    `json:"seed_x"`
	SeedY          int    `json:"seed_y"`
	ReadingOrder   string `json:"reading_order"`
	MinPanelPixels int    `json:"min_panel_pixels,omitempty"`
}

// Entry is one emitted panel file.
type Entry struct {
	Index  int    `json:"index"`
	File   string `json:"file"`
	Area   Rect   `json:"area"`
	Pixels int    `json:"pixels"`
}

// Rect is a half-open pixel rectangle in source-page coordinates.
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// FromRectangle converts an image.Rectangle.
func FromRectangle(r image.Rectangle) Rect {
	return Rect{X: r.Min.X, Y: r.Min.Y, Width: r.Dx(), Height: r.Dy()}
}

// Rectangle converts back to an image.Rectangle.
func (r Rect) Rectangle() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.Width, r.Y+r.Height)
}

// New creates a manifest for a page of the given size.
func New(width, height int) *Manifest {
	return &Manifest{
		Version: 1,
		Created: time.Now(),
		Width:   width,
		Height:  height,
	}
}

// PanelFileName returns the conventional name of the n-th panel, e.g. panel_3.png.
func PanelFileName(n int, format string) string {
	return fmt.Sprintf("panel_%d.%s", n, format)
}

// Add appends a panel entry named after its index.
func (m *Manifest) Add(index int, area image.Rectangle, pixels int, format string) Entry {
	e := Entry{
		Index:  index,
		File:   PanelFileName(index, format),
		Area:   FromRectangle(area),
		Pixels: pixels,
	}
	m.Panels = append(m.Panels, e)
	return e
}

// SetSource records the source image path relative to the manifest location.
func (m *Manifest) SetSource(manifestPath, imagePath string) {
	abs, err := filepath.Abs(imagePath)
	if err != nil {
		abs = imagePath
	}
	dir, err := filepath.Abs(filepath.Dir(manifestPath))
	if err != nil {
		m.Source = imagePath
		return
	}
	rel, err := filepath.Rel(dir, abs)
	if err != nil {
		m.Source = imagePath
	} else {
		m.Source = rel
	}
}

// SourcePath returns the absolute path to the source image.
func (m *Manifest) SourcePath(manifestPath string) string {
	if m.Source == "" || filepath.IsAbs(m.Source) {
		return m.Source
	}
	return filepath.Join(filepath.Dir(manifestPath), m.Source)
}

// TotalPixels returns the summed pixel count of all entries.
func (m *Manifest) TotalPixels() int {
	n := 0
	for _, e := range m.Panels {
		n += e.Pixels
	}
	return n
}

// Load loads a manifest from path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// Save writes the manifest to path.
func (m *Manifest) Save(path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
