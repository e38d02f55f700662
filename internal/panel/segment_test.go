package panel

import (
	"errors"
	"image"
	"testing"

	"panel-splitter/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scenarioParams() Params {
	return DefaultParams().WithTolerance(10).WithSeed(0, 0).WithOrder(LeftToRight)
}

func TestSegment_ScenarioDiagonalPixels(t *testing.T) {
	img := newPage(5, 5, colorutil.White)
	paint(img, colorutil.Black, image.Pt(1, 1), image.Pt(3, 3))

	res, err := Segment(img, image.Rectangle{}, scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, colorutil.White, res.Reference)
	assert.Equal(t, 23, res.FramePixels)
	for i := 0; i < 5; i++ {
		assert.True(t, res.Table.At(i, 0).IsFrame())
		assert.True(t, res.Table.At(i, 4).IsFrame())
		assert.True(t, res.Table.At(0, i).IsFrame())
		assert.True(t, res.Table.At(4, i).IsFrame())
	}

	require.Len(t, res.Panels, 2)
	assert.Equal(t, image.Rect(1, 1, 2, 2), res.Panels[0].Area)
	assert.Equal(t, image.Rect(3, 3, 4, 4), res.Panels[1].Area)
	for _, p := range res.Panels {
		assert.Equal(t, image.Rect(0, 0, 1, 1), p.Image.Bounds())
		assert.Equal(t, colorutil.Black, p.Image.NRGBAAt(0, 0))
		assert.Equal(t, 1, p.Pixels)
	}
}

func TestSegment_ScenarioAdjacentPixels(t *testing.T) {
	img := newPage(5, 5, colorutil.White)
	paint(img, colorutil.Black, image.Pt(1, 1), image.Pt(1, 2))

	res, err := Segment(img, image.Rectangle{}, scenarioParams())
	require.NoError(t, err)

	require.Len(t, res.Panels, 1)
	assert.Equal(t, image.Rect(1, 1, 2, 3), res.Panels[0].Area)
	assert.Equal(t, 2, res.Panels[0].Pixels)
}

func TestSegment_ScenarioUShape(t *testing.T) {
	img := newPage(6, 6, colorutil.White)
	paint(img, colorutil.Black, vline(1, 1, 4)...)
	paint(img, colorutil.Black, vline(4, 1, 4)...)
	paint(img, colorutil.Black, hline(2, 3, 4)...)

	res, err := Segment(img, image.Rectangle{}, scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, 2, res.RawLabels)
	require.Len(t, res.Panels, 1)
	p := res.Panels[0]
	assert.Equal(t, image.Rect(1, 1, 5, 5), p.Area)
	assert.Equal(t, 10, p.Pixels)
	assert.Equal(t, colorutil.Transparent, p.Image.NRGBAAt(1, 0), "inside of the U is frame")
}

func TestSegment_CropBoundsLimitLabelling(t *testing.T) {
	img := newPage(5, 5, colorutil.White)
	paint(img, colorutil.Black, image.Pt(1, 1), image.Pt(3, 3))

	res, err := Segment(img, image.Rect(0, 0, 3, 3), scenarioParams())
	require.NoError(t, err)

	assert.Equal(t, image.Rect(0, 0, 3, 3), res.Bounds)
	assert.Equal(t, 23, res.FramePixels, "fill still covers the whole buffer")
	require.Len(t, res.Panels, 1)
	assert.Equal(t, image.Rect(1, 1, 2, 2), res.Panels[0].Area)
}

func TestSegment_Errors(t *testing.T) {
	img := newPage(5, 5, colorutil.White)

	_, err := Segment(img, image.Rectangle{}, scenarioParams().WithSeed(5, 5))
	assert.True(t, errors.Is(err, ErrOutOfRange))
	assert.EqualError(t, err, "image: [5,5], point: (5,5)")

	_, err = Segment(img, image.Rect(-1, 0, 3, 3), scenarioParams())
	assert.True(t, errors.Is(err, ErrOutOfRange))

	for _, r := range []image.Rectangle{
		{Min: image.Pt(3, 3), Max: image.Pt(1, 1)}, // inverted
		image.Rect(2, 0, 2, 5),                      // zero width
	} {
		_, err = Segment(img, r, scenarioParams())
		assert.True(t, errors.Is(err, ErrOutOfRange), "%v", r)
	}

	_, err = Segment(img, image.Rectangle{}, scenarioParams().WithLimits(0, 1))
	assert.True(t, errors.Is(err, ErrResourceLimit))

	paint(img, colorutil.Black, image.Pt(1, 1), image.Pt(3, 3))
	_, err = Segment(img, image.Rectangle{}, scenarioParams().WithLimits(1, 0))
	assert.True(t, errors.Is(err, ErrCapacityExceeded))
}

func TestSegment_MinPanelPixels(t *testing.T) {
	img := newPage(8, 5, colorutil.White)
	paint(img, colorutil.Black, image.Pt(1, 1))
	paint(img, colorutil.Black, hline(3, 6, 2)...)

	p := scenarioParams()
	p.MinPanelPixels = 2
	res, err := Segment(img, image.Rectangle{}, p)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Dropped)
	require.Len(t, res.Panels, 1)
	assert.Equal(t, 1, res.Panels[0].Index)
	assert.Equal(t, image.Rect(3, 2, 7, 3), res.Panels[0].Area)
}

func TestSegment_ZeroToleranceYieldsWholePage(t *testing.T) {
	img := newPage(4, 3, colorutil.White)
	res, err := Segment(img, image.Rectangle{}, scenarioParams().WithTolerance(0))
	require.NoError(t, err)

	assert.Zero(t, res.FramePixels)
	require.Len(t, res.Panels, 1)
	assert.Equal(t, img.Bounds(), res.Panels[0].Area)
	assert.Equal(t, img.Pix, res.Panels[0].Image.Pix)
}

func TestSegment_OffsetImageBounds(t *testing.T) {
	// Sub-images keep their parent's coordinates.
	parent := newPage(10, 10, colorutil.White)
	paint(parent, colorutil.Black, image.Pt(6, 6))
	sub := parent.SubImage(image.Rect(4, 4, 9, 9)).(*image.NRGBA)

	res, err := Segment(sub, image.Rectangle{}, scenarioParams().WithSeed(4, 4))
	require.NoError(t, err)

	require.Len(t, res.Panels, 1)
	assert.Equal(t, image.Rect(6, 6, 7, 7), res.Panels[0].Area)
	assert.Equal(t, colorutil.Black, res.Panels[0].Image.NRGBAAt(0, 0))
}
