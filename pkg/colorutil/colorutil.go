// Package colorutil provides shared color utilities for the panel splitter.
package colorutil

import (
	"image"
	"image/color"
)

// Common colors used for backgrounds and debug overlays.
var (
	Black       = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
	White       = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	Red         = color.NRGBA{R: 255, G: 0, B: 0, A: 255}
	Cyan        = color.NRGBA{R: 0, G: 255, B: 255, A: 255}
	Transparent = color.NRGBA{}
)

// MaxSquaredDistance is the largest value SquaredDistance can return (4 * 255^2).
const MaxSquaredDistance = 4 * 255 * 255

// SquaredDistance returns the sum of squared per-channel differences between
// two non-premultiplied colors, alpha included.
func SquaredDistance(a, b color.NRGBA) int32 {
	dr := int32(a.R) - int32(b.R)
	dg := int32(a.G) - int32(b.G)
	db := int32(a.B) - int32(b.B)
	da := int32(a.A) - int32(b.A)
	return dr*dr + dg*dg + db*db + da*da
}

// Matches reports whether pixel lies strictly within tolerance of reference.
// A tolerance of zero never matches, not even an identical pixel.
func Matches(pixel, reference color.NRGBA, tolerance uint32) bool {
	limit := int64(tolerance) * int64(tolerance)
	return int64(SquaredDistance(pixel, reference)) < limit
}

// NRGBAAt returns the pixel at (x, y) without going through the color.Color interface.
// The point must lie inside img.Rect.
func NRGBAAt(img *image.NRGBA, x, y int) color.NRGBA {
	i := img.PixOffset(x, y)
	s := img.Pix[i : i+4 : i+4]
	return color.NRGBA{R: s[0], G: s[1], B: s[2], A: s[3]}
}

// ToNRGBA converts any color to its non-premultiplied 8-bit form.
func ToNRGBA(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}
