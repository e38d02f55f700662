// Package panel segments a scanned comic page into independent panel images.
//
// Segmentation runs in three strictly sequential phases over one LabelTable:
// a flood fill from a seed pixel marks the page background as Frame, a
// two-pass connected-component labelling assigns Region ids to everything
// else, and an extractor copies each region into its own raster.
package panel

import (
	"fmt"
	"image"
)

// Kind discriminates the states a LabelTable cell can be in.
type Kind uint8

const (
	KindUnset  Kind = iota // Not yet visited or not part of any phase
	KindFrame              // Background reachable from the seed
	KindRegion             // Part of a connected non-background region
)

func (k Kind) String() string {
	switch k {
	case KindUnset:
		return "Unset"
	case KindFrame:
		return "Frame"
	case KindRegion:
		return "Region"
	default:
		return "Unknown"
	}
}

// Label is the value held by a LabelTable cell. The zero Label is unset.
type Label struct {
	kind Kind
	id   uint32
}

// Frame returns the background label.
func Frame() Label { return Label{kind: KindFrame} }

// Region returns the label for region id.
func Region(id int) Label { return Label{kind: KindRegion, id: uint32(id)} }

// Kind returns the label's variant.
func (l Label) Kind() Kind { return l.kind }

// IsSet reports whether the label is Frame or Region.
func (l Label) IsSet() bool { return l.kind != KindUnset }

// IsFrame reports whether the label is Frame.
func (l Label) IsFrame() bool { return l.kind == KindFrame }

// IsRegion reports whether the label is a Region.
func (l Label) IsRegion() bool { return l.kind == KindRegion }

// ID returns the region id and true, or 0 and false for non-region labels.
func (l Label) ID() (int, bool) {
	if l.kind != KindRegion {
		return 0, false
	}
	return int(l.id), true
}

// Less orders labels: unset < Frame < Region(0) < Region(1) < ...
func (l Label) Less(other Label) bool {
	if l.kind != other.kind {
		return l.kind < other.kind
	}
	return l.kind == KindRegion && l.id < other.id
}

func (l Label) String() string {
	if l.kind == KindRegion {
		return fmt.Sprintf("Region(%d)", l.id)
	}
	return l.kind.String()
}

// LabelTable is a width x height grid of labels covering an image's bounds.
//
// A cell set to Frame never changes. A Region cell may only be rewritten to a
// Region with a smaller or equal id.
type LabelTable struct {
	rect  image.Rectangle
	cells []Label
}

// NewLabelTable allocates an all-unset table covering r.
func NewLabelTable(r image.Rectangle) *LabelTable {
	return &LabelTable{
		rect:  r,
		cells: make([]Label, r.Dx()*r.Dy()),
	}
}

// Bounds returns the rectangle the table covers.
func (t *LabelTable) Bounds() image.Rectangle { return t.rect }

// At returns the label at (x, y). Points outside the table are unset.
func (t *LabelTable) At(x, y int) Label {
	if !image.Pt(x, y).In(t.rect) {
		return Label{}
	}
	return t.cells[t.index(x, y)]
}

// FrameCount returns the number of Frame cells.
func (t *LabelTable) FrameCount() int {
	n := 0
	for _, c := range t.cells {
		if c.kind == KindFrame {
			n++
		}
	}
	return n
}

// CountIn returns the number of cells inside r holding label l.
func (t *LabelTable) CountIn(r image.Rectangle, l Label) int {
	r = r.Intersect(t.rect)
	n := 0
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := t.row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			if row[x-t.rect.Min.X] == l {
				n++
			}
		}
	}
	return n
}

func (t *LabelTable) index(x, y int) int {
	return (y-t.rect.Min.Y)*t.rect.Dx() + (x - t.rect.Min.X)
}

// row returns the cells of row y, indexed by x - Bounds().Min.X.
func (t *LabelTable) row(y int) []Label {
	i := (y - t.rect.Min.Y) * t.rect.Dx()
	return t.cells[i : i+t.rect.Dx()]
}

// relabel rewrites every Region(id) cell inside r to Region(canonical[id]).
// Callers guarantee canonical[id] <= id.
func (t *LabelTable) relabel(r image.Rectangle, canonical []uint32) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := t.row(y)
		for x := r.Min.X; x < r.Max.X; x++ {
			c := &row[x-t.rect.Min.X]
			if c.kind == KindRegion {
				c.id = canonical[c.id]
			}
		}
	}
}
