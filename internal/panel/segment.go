package panel

import (
	"image"
	"image/color"

	"panel-splitter/pkg/colorutil"
)

// Result holds everything a segmentation run produced.
type Result struct {
	Reference   color.NRGBA     // Colour sampled at the seed
	Bounds      image.Rectangle // Range that was labelled
	FramePixels int             // Pixels marked Frame across the whole buffer
	RawLabels   int             // Ids allocated by the first labelling pass
	Panels      []Panel         // In reading order
	Dropped     int             // Panels removed by MinPanelPixels
	Table       *LabelTable
}

// Segment splits img into panels. Flood fill runs over the whole buffer;
// labelling and extraction only consider bounds, which must lie inside the
// buffer. The zero Rectangle means the whole buffer; any other empty
// rectangle is rejected.
func Segment(img *image.NRGBA, bounds image.Rectangle, p Params) (*Result, error) {
	full := img.Bounds()
	if err := checkPoint(p.Seed, full); err != nil {
		return nil, err
	}
	switch {
	case bounds == image.Rectangle{}:
		bounds = full
	case bounds.Empty():
		return nil, &RangeError{Point: bounds.Max, Bounds: full}
	}
	if err := checkRect(bounds, full); err != nil {
		return nil, err
	}

	reference := colorutil.NRGBAAt(img, p.Seed.X, p.Seed.Y)
	table := NewLabelTable(full)

	framed, err := DetectFrame(img, table, p.Seed, reference, p.Tolerance, p.MaxFillQueue)
	if err != nil {
		return nil, err
	}

	labeling, err := LabelRegions(table, bounds, p.MaxLabels)
	if err != nil {
		return nil, err
	}

	panels := ExtractPanels(img, table, labeling.Areas, p.Order)
	kept, dropped := filterPanels(panels, p.MinPanelPixels)

	return &Result{
		Reference:   reference,
		Bounds:      bounds,
		FramePixels: framed,
		RawLabels:   labeling.RawLabels,
		Panels:      kept,
		Dropped:     dropped,
		Table:       table,
	}, nil
}

// filterPanels removes panels below minPixels and renumbers the rest.
func filterPanels(panels []Panel, minPixels int) ([]Panel, int) {
	if minPixels <= 0 {
		return panels, 0
	}
	kept := panels[:0]
	for _, pn := range panels {
		if pn.Pixels >= minPixels {
			pn.Index = len(kept) + 1
			kept = append(kept, pn)
		}
	}
	return kept, len(panels) - len(kept)
}
