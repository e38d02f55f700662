package panel

import "image"

// AreaTracker maintains the minimal half-open bounding box of every region id.
type AreaTracker struct {
	areas []image.Rectangle
}

// Extend grows the area of id to include (x, y).
func (a *AreaTracker) Extend(id, x, y int) {
	for len(a.areas) <= id {
		a.areas = append(a.areas, image.Rectangle{})
	}
	r := &a.areas[id]
	if r.Empty() {
		*r = image.Rect(x, y, x+1, y+1)
		return
	}
	if x < r.Min.X {
		r.Min.X = x
	} else if x >= r.Max.X {
		r.Max.X = x + 1
	}
	if y < r.Min.Y {
		r.Min.Y = y
	} else if y >= r.Max.Y {
		r.Max.Y = y + 1
	}
}

// Merge folds the area of id into root and drops id.
func (a *AreaTracker) Merge(root, id int) {
	if root == id || id >= len(a.areas) {
		return
	}
	from := a.areas[id]
	a.areas[id] = image.Rectangle{}
	if from.Empty() {
		return
	}
	for len(a.areas) <= root {
		a.areas = append(a.areas, image.Rectangle{})
	}
	// image.Rectangle.Union treats an empty receiver as the identity.
	a.areas[root] = a.areas[root].Union(from)
}

// Area returns the area of id and whether it has any pixels.
func (a *AreaTracker) Area(id int) (image.Rectangle, bool) {
	if id < 0 || id >= len(a.areas) || a.areas[id].Empty() {
		return image.Rectangle{}, false
	}
	return a.areas[id], true
}

// Areas returns every non-empty area keyed by id.
func (a *AreaTracker) Areas() map[int]image.Rectangle {
	out := make(map[int]image.Rectangle)
	for id, r := range a.areas {
		if !r.Empty() {
			out[id] = r
		}
	}
	return out
}
