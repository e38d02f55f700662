package panel

import (
	"fmt"
	"image"
	"sort"
	"strings"
)

// ReadingOrder decides how extracted panels are numbered.
type ReadingOrder int

const (
	// RightToLeft numbers panels top row first, right to left within a row (manga).
	RightToLeft ReadingOrder = iota
	// LeftToRight numbers panels top row first, left to right within a row.
	LeftToRight
)

func (o ReadingOrder) String() string {
	switch o {
	case RightToLeft:
		return "rtl"
	case LeftToRight:
		return "ltr"
	default:
		return "unknown"
	}
}

// ParseReadingOrder accepts "rtl" or "ltr" (case-insensitive).
func ParseReadingOrder(s string) (ReadingOrder, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rtl", "right-to-left":
		return RightToLeft, nil
	case "ltr", "left-to-right":
		return LeftToRight, nil
	default:
		return 0, fmt.Errorf("unknown reading order %q", s)
	}
}

// Panel is one extracted region.
type Panel struct {
	Index  int             // 1-based position in reading order
	Label  Label           // Canonical region label
	Area   image.Rectangle // Bounding box in source coordinates
	Pixels int             // Number of source pixels carrying Label
	Image  *image.NRGBA    // Area-sized raster; pixels of other labels stay transparent
}

// ExtractPanels copies every labelled region of img into its own raster.
// The returned panels are sorted by order and numbered from 1.
func ExtractPanels(img *image.NRGBA, table *LabelTable, areas map[int]image.Rectangle, order ReadingOrder) []Panel {
	panels := make([]Panel, 0, len(areas))
	for id, area := range areas {
		panels = append(panels, extractPanel(img, table, Region(id), area))
	}

	sortPanels(panels, order)
	for i := range panels {
		panels[i].Index = i + 1
	}
	return panels
}

func extractPanel(img *image.NRGBA, table *LabelTable, label Label, area image.Rectangle) Panel {
	area = area.Intersect(img.Bounds()).Intersect(table.Bounds())
	dst := image.NewNRGBA(image.Rect(0, 0, area.Dx(), area.Dy()))
	pixels := 0

	for y := area.Min.Y; y < area.Max.Y; y++ {
		row := table.row(y)
		for x := area.Min.X; x < area.Max.X; x++ {
			if row[x-table.rect.Min.X] != label {
				continue
			}
			si := img.PixOffset(x, y)
			di := dst.PixOffset(x-area.Min.X, y-area.Min.Y)
			copy(dst.Pix[di:di+4], img.Pix[si:si+4])
			pixels++
		}
	}

	return Panel{
		Label:  label,
		Area:   area,
		Pixels: pixels,
		Image:  dst,
	}
}

// sortPanels orders panels by the top edge of their area, then horizontally.
// Ties fall back to the label so the order is deterministic.
func sortPanels(panels []Panel, order ReadingOrder) {
	sort.Slice(panels, func(i, j int) bool {
		a, b := panels[i].Area, panels[j].Area
		if a.Min.Y != b.Min.Y {
			return a.Min.Y < b.Min.Y
		}
		if order == RightToLeft {
			if a.Max.X != b.Max.X {
				return a.Max.X > b.Max.X
			}
		} else if a.Min.X != b.Min.X {
			return a.Min.X < b.Min.X
		}
		return panels[i].Label.Less(panels[j].Label)
	})
}
