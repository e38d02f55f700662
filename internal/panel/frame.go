package panel

import (
	"image"
	"image/color"

	"panel-splitter/pkg/colorutil"
)

// Judge reports whether pixel matches reference within tolerance.
// The squared channel distance must be strictly below tolerance squared,
// so a tolerance of zero never matches.
func Judge(pixel, reference color.NRGBA, tolerance uint32) bool {
	return colorutil.Matches(pixel, reference, tolerance)
}

// DetectFrame flood-fills the background reachable from seed and marks it
// Frame in table. Pixels are visited breadth-first over 4-connected
// neighbours, each at most once. A visited pixel that does not match
// reference is left unset and does not expand further.
//
// maxQueue bounds the number of pending pixels; zero means no bound beyond
// the image size. It returns the number of pixels newly marked Frame.
// Cells already holding a Region are never overwritten.
func DetectFrame(img *image.NRGBA, table *LabelTable, seed image.Point, reference color.NRGBA, tolerance uint32, maxQueue int) (int, error) {
	bounds := img.Bounds()
	if err := checkPoint(seed, bounds); err != nil {
		return 0, err
	}
	if err := checkRect(bounds, table.Bounds()); err != nil {
		return 0, err
	}

	w, h := bounds.Dx(), bounds.Dy()
	visited := make([]bool, w*h)

	sx, sy := seed.X-bounds.Min.X, seed.Y-bounds.Min.Y
	queue := []int{sy*w + sx}
	visited[sy*w+sx] = true
	marked := 0

	push := func(x, y int) {
		idx := y*w + x
		if visited[idx] {
			return
		}
		visited[idx] = true
		queue = append(queue, idx)
	}

	for head := 0; head < len(queue); head++ {
		if maxQueue > 0 && len(queue)-head > maxQueue {
			return marked, &ResourceError{Limit: maxQueue}
		}

		idx := queue[head]
		x, y := idx%w, idx/w
		cell := &table.cells[table.index(x+bounds.Min.X, y+bounds.Min.Y)]
		if cell.kind == KindRegion {
			continue
		}
		px := colorutil.NRGBAAt(img, x+bounds.Min.X, y+bounds.Min.Y)
		if !Judge(px, reference, tolerance) {
			continue
		}
		if cell.kind == KindUnset {
			*cell = Frame()
			marked++
		}

		if y+1 < h {
			push(x, y+1)
		}
		if x > 0 {
			push(x-1, y)
		}
		if y > 0 {
			push(x, y-1)
		}
		if x+1 < w {
			push(x+1, y)
		}
	}

	return marked, nil
}
