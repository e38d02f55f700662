package panel

// Equivalences records which raw region ids belong to the same region.
// It is a union-find whose root is always the smallest id in its set, so the
// canonical id of a region is the first id the raster scan assigned to it.
type Equivalences struct {
	parent []uint32
	limit  int
}

// NewEquivalences returns an empty table. A positive limit caps the number of
// raw ids that can be allocated; zero grows without bound.
func NewEquivalences(limit int) *Equivalences {
	return &Equivalences{limit: limit}
}

// Len returns the number of raw ids allocated so far.
func (e *Equivalences) Len() int { return len(e.parent) }

// New allocates the next raw id.
func (e *Equivalences) New() (int, error) {
	id := len(e.parent)
	if e.limit > 0 && id >= e.limit {
		return 0, &CapacityError{Limit: e.limit}
	}
	e.parent = append(e.parent, uint32(id))
	return id, nil
}

// Find returns the canonical id for id, compressing the path on the way.
func (e *Equivalences) Find(id int) int {
	x := uint32(id)
	for e.parent[x] != x {
		// Path halving
		e.parent[x] = e.parent[e.parent[x]]
		x = e.parent[x]
	}
	return int(x)
}

// Union records that a and b are the same region and returns the resulting root.
func (e *Equivalences) Union(a, b int) int {
	ra, rb := e.Find(a), e.Find(b)
	switch {
	case ra == rb:
		return ra
	case ra < rb:
		e.parent[rb] = uint32(ra)
		return ra
	default:
		e.parent[ra] = uint32(rb)
		return rb
	}
}

// Canonical returns a lookup from every raw id to its root.
func (e *Equivalences) Canonical() []uint32 {
	out := make([]uint32, len(e.parent))
	for id := range e.parent {
		out[id] = uint32(e.Find(id))
	}
	return out
}
