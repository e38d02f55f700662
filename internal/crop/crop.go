// Package crop finds the content bounds of a page by trimming its margins.
package crop

import (
	"image"

	"panel-splitter/internal/panel"
	"panel-splitter/pkg/colorutil"
)

// Bounds returns the tightest half-open rectangle containing every pixel of
// img that does not match the colour at seed within tolerance.
//
// Every pixel is tested individually, so a stray dot in the margin widens the
// result. A page with no such pixel yields img.Bounds() unchanged.
func Bounds(img *image.NRGBA, seed image.Point, tolerance uint32) (image.Rectangle, error) {
	b := img.Bounds()
	if !seed.In(b) {
		return image.Rectangle{}, &panel.RangeError{Point: seed, Bounds: b}
	}
	ref := colorutil.NRGBAAt(img, seed.X, seed.Y)

	var content image.Rectangle
	for y := b.Min.Y; y < b.Max.Y; y++ {
		minX, maxX := b.Max.X, b.Min.X-1
		for x := b.Min.X; x < b.Max.X; x++ {
			if colorutil.Matches(colorutil.NRGBAAt(img, x, y), ref, tolerance) {
				continue
			}
			if x < minX {
				minX = x
			}
			maxX = x
		}
		if maxX >= minX {
			content = content.Union(image.Rect(minX, y, maxX+1, y+1))
		}
	}

	if content.Empty() {
		return b, nil
	}
	return content, nil
}

// Pad grows r by margin pixels on every side, clamped to limit.
func Pad(r image.Rectangle, margin int, limit image.Rectangle) image.Rectangle {
	if margin <= 0 {
		return r
	}
	return r.Inset(-margin).Intersect(limit)
}
