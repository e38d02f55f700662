package panel

import "image"

// Params holds the tunables for one segmentation run.
type Params struct {
	// Tolerance is the colour distance below which a pixel counts as background.
	Tolerance uint32
	// Seed is the pixel whose colour defines the background and where the fill starts.
	Seed image.Point

	// Resource bounds (0 = unbounded)
	MaxLabels    int // Raw region ids the first labelling pass may allocate
	MaxFillQueue int // Pending pixels in the flood fill queue

	// MinPanelPixels drops regions with fewer labelled pixels (speckles, stray dots).
	MinPanelPixels int

	Order ReadingOrder
}

// DefaultParams returns parameters tuned for white-gutter pages scanned at
// typical resolutions with the background sampled at the top-left corner.
func DefaultParams() Params {
	return Params{
		Tolerance: 100,
		Seed:      image.Point{},
		Order:     RightToLeft,
	}
}

// WithTolerance returns a copy of p with a different colour tolerance.
func (p Params) WithTolerance(tolerance uint32) Params {
	p.Tolerance = tolerance
	return p
}

// WithSeed returns a copy of p seeded at (x, y).
func (p Params) WithSeed(x, y int) Params {
	p.Seed = image.Pt(x, y)
	return p
}

// WithOrder returns a copy of p with a different reading order.
func (p Params) WithOrder(order ReadingOrder) Params {
	p.Order = order
	return p
}

// WithLimits returns a copy of p with the given resource bounds.
func (p Params) WithLimits(maxLabels, maxFillQueue int) Params {
	p.MaxLabels = maxLabels
	p.MaxFillQueue = maxFillQueue
	return p
}
