package panel

import (
	"image"
	"image/color"
	"testing"

	"panel-splitter/pkg/colorutil"

	"github.com/stretchr/testify/require"
)

// newPage returns a w x h page filled with bg.
func newPage(w, h int, bg color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, bg)
		}
	}
	return img
}

// paint sets every listed point of img to c.
func paint(img *image.NRGBA, c color.NRGBA, pts ...image.Point) {
	for _, p := range pts {
		img.SetNRGBA(p.X, p.Y, c)
	}
}

// hline returns the points (x0..x1, y) inclusive.
func hline(x0, x1, y int) []image.Point {
	var pts []image.Point
	for x := x0; x <= x1; x++ {
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}

// vline returns the points (x, y0..y1) inclusive.
func vline(x, y0, y1 int) []image.Point {
	var pts []image.Point
	for y := y0; y <= y1; y++ {
		pts = append(pts, image.Pt(x, y))
	}
	return pts
}

// regionIDs returns the distinct canonical ids present inside r.
func regionIDs(table *LabelTable, r image.Rectangle) map[int]bool {
	ids := make(map[int]bool)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if id, ok := table.At(x, y).ID(); ok {
				ids[id] = true
			}
		}
	}
	return ids
}

// requireLabellingInvariants checks the post-conditions every labelling must satisfy.
func requireLabellingInvariants(t *testing.T, table *LabelTable, bounds image.Rectangle, areas map[int]image.Rectangle) {
	t.Helper()

	tight := make(map[int]image.Rectangle)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			l := table.At(x, y)
			require.True(t, l.IsSet(), "cell (%d,%d) left unset", x, y)
			if l.IsFrame() {
				continue
			}
			id, _ := l.ID()
			tight[id] = tight[id].Union(image.Rect(x, y, x+1, y+1))

			// No two distinct regions may touch.
			for _, n := range []image.Point{image.Pt(x+1, y), image.Pt(x, y+1)} {
				if !n.In(bounds) {
					continue
				}
				nl := table.At(n.X, n.Y)
				if nl.IsRegion() {
					require.Equal(t, l, nl, "adjacent cells (%d,%d) and %v differ", x, y, n)
				}
			}
		}
	}
	require.Equal(t, tight, areas, "areas must be the minimal bounding boxes")
}

// referenceComponents counts 4-connected components of non-Frame cells in bounds
// with a plain BFS, independent of the two-pass labeller.
func referenceComponents(table *LabelTable, bounds image.Rectangle) int {
	seen := make(map[image.Point]bool)
	count := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			start := image.Pt(x, y)
			if seen[start] || table.At(x, y).IsFrame() {
				continue
			}
			count++
			seen[start] = true
			queue := []image.Point{start}
			for len(queue) > 0 {
				p := queue[0]
				queue = queue[1:]
				for _, d := range []image.Point{image.Pt(1, 0), image.Pt(-1, 0), image.Pt(0, 1), image.Pt(0, -1)} {
					n := p.Add(d)
					if !n.In(bounds) || seen[n] || table.At(n.X, n.Y).IsFrame() {
						continue
					}
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return count
}

// frameByStack marks the background with a depth-first traversal, as an
// alternative visit order to DetectFrame's breadth-first one.
func frameByStack(img *image.NRGBA, seed image.Point, tolerance uint32) map[image.Point]bool {
	ref := colorutil.NRGBAAt(img, seed.X, seed.Y)
	frame := make(map[image.Point]bool)
	visited := map[image.Point]bool{seed: true}
	stack := []image.Point{seed}
	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !Judge(colorutil.NRGBAAt(img, p.X, p.Y), ref, tolerance) {
			continue
		}
		frame[p] = true
		for _, d := range []image.Point{image.Pt(-1, 0), image.Pt(0, -1), image.Pt(1, 0), image.Pt(0, 1)} {
			n := p.Add(d)
			if n.In(img.Bounds()) && !visited[n] {
				visited[n] = true
				stack = append(stack, n)
			}
		}
	}
	return frame
}
