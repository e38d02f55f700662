package panel

import "image"

// Labeling is the outcome of LabelRegions.
type Labeling struct {
	RawLabels int                     // ids handed out by the raster scan
	Areas     map[int]image.Rectangle // canonical id -> bounding box
}

// LabelRegions assigns a canonical Region id to every non-Frame cell inside
// bounds, so that two cells share an id exactly when they are 4-connected
// through non-Frame cells within bounds.
//
// The first pass scans rows top to bottom, left to right, and derives each
// cell's label from its upper and left neighbours, recording an equivalence
// whenever two different ids meet. The second pass folds every id into its
// smallest equivalent and rewrites the table.
//
// A positive maxLabels bounds the number of raw ids; exceeding it returns a
// CapacityError and leaves the table partially labelled.
func LabelRegions(table *LabelTable, bounds image.Rectangle, maxLabels int) (*Labeling, error) {
	if err := checkRect(bounds, table.Bounds()); err != nil {
		return nil, err
	}

	eq := NewEquivalences(maxLabels)
	var tracker AreaTracker

	// Pass 1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		row := table.row(y)
		var above []Label
		if y > bounds.Min.Y {
			above = table.row(y - 1)
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			i := x - table.rect.Min.X
			if row[i].kind == KindFrame {
				continue
			}

			var up, left Label
			if above != nil {
				up = above[i]
			}
			if x > bounds.Min.X {
				left = row[i-1]
			}

			var id int
			switch {
			case up.kind == KindRegion && left.kind == KindRegion:
				u, l := int(up.id), int(left.id)
				id = min(u, l)
				if u != l {
					eq.Union(u, l)
				}
			case up.kind == KindRegion:
				id = int(up.id)
			case left.kind == KindRegion:
				id = int(left.id)
			default:
				var err error
				if id, err = eq.New(); err != nil {
					return nil, err
				}
			}

			row[i] = Region(id)
			tracker.Extend(id, x, y)
		}
	}

	// Pass 2: highest id first so each area lands on its final root.
	canonical := eq.Canonical()
	for id := len(canonical) - 1; id >= 0; id-- {
		if root := int(canonical[id]); root != id {
			tracker.Merge(root, id)
		}
	}
	table.relabel(bounds, canonical)

	return &Labeling{
		RawLabels: eq.Len(),
		Areas:     tracker.Areas(),
	}, nil
}
