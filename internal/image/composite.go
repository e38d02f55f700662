package image

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"panel-splitter/pkg/colorutil"
)

// BlendMode specifies how the overlay tint is combined with the page.
type BlendMode int

const (
	BlendNormal BlendMode = iota
	BlendMultiply
	BlendScreen
	BlendOverlay
	BlendDifference
)

func (m BlendMode) String() string {
	switch m {
	case BlendNormal:
		return "Normal"
	case BlendMultiply:
		return "Multiply"
	case BlendScreen:
		return "Screen"
	case BlendOverlay:
		return "Overlay"
	case BlendDifference:
		return "Difference"
	default:
		return "Unknown"
	}
}

// Overlay renders a diagnostic view of a segmented page: masked pixels are
// tinted and every box is outlined.
type Overlay struct {
	Tint     color.NRGBA
	Mode     BlendMode
	Opacity  float64 // 0.0 - 1.0
	BoxColor color.NRGBA
}

// DefaultOverlay tints the background red and outlines panels in cyan.
func DefaultOverlay() Overlay {
	return Overlay{
		Tint:     colorutil.Red,
		Mode:     BlendMultiply,
		Opacity:  0.6,
		BoxColor: colorutil.Cyan,
	}
}

// Render returns a copy of src with the overlay applied. mask reports the
// pixels to tint; it may be nil.
func (o Overlay) Render(src *image.NRGBA, mask func(x, y int) bool, boxes []image.Rectangle) *image.NRGBA {
	b := src.Bounds()
	result := image.NewNRGBA(b)
	draw.Draw(result, b, src, b.Min, draw.Src)

	if mask != nil {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				if !mask(x, y) {
					continue
				}
				dst := result.NRGBAAt(x, y)
				result.SetNRGBA(x, y, blend(dst, o.Tint, o.Mode, o.Opacity))
			}
		}
	}

	for _, r := range boxes {
		outline(result, r.Intersect(b), o.BoxColor)
	}
	return result
}

// outline draws the one-pixel border of r.
func outline(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// blend performs the blend operation between two colors.
func blend(dst, src color.NRGBA, mode BlendMode, opacity float64) color.NRGBA {
	sf := [4]float64{float64(src.R) / 255, float64(src.G) / 255, float64(src.B) / 255, float64(src.A) / 255}
	df := [4]float64{float64(dst.R) / 255, float64(dst.G) / 255, float64(dst.B) / 255, float64(dst.A) / 255}

	var rf [3]float64
	for i := 0; i < 3; i++ {
		switch mode {
		case BlendMultiply:
			rf[i] = sf[i] * df[i]
		case BlendScreen:
			rf[i] = 1 - (1-sf[i])*(1-df[i])
		case BlendOverlay:
			if df[i] < 0.5 {
				rf[i] = 2 * sf[i] * df[i]
			} else {
				rf[i] = 1 - 2*(1-sf[i])*(1-df[i])
			}
		case BlendDifference:
			rf[i] = math.Abs(sf[i] - df[i])
		default:
			rf[i] = sf[i]
		}
	}

	alpha := sf[3] * clamp(opacity, 0, 1)
	return color.NRGBA{
		R: to8(rf[0]*alpha + df[0]*(1-alpha)),
		G: to8(rf[1]*alpha + df[1]*(1-alpha)),
		B: to8(rf[2]*alpha + df[2]*(1-alpha)),
		A: to8(alpha + df[3]*(1-alpha)),
	}
}

func to8(v float64) uint8 {
	return uint8(math.Round(clamp(v, 0, 1) * 255))
}

func clamp(x, min, max float64) float64 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
