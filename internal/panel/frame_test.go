package panel

import (
	"errors"
	"image"
	"image/color"
	"math/rand"
	"testing"

	"panel-splitter/pkg/colorutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJudge(t *testing.T) {
	assert.False(t, Judge(colorutil.White, colorutil.White, 0), "zero tolerance never matches")
	assert.True(t, Judge(colorutil.White, colorutil.White, 1))
	assert.False(t, Judge(colorutil.Black, colorutil.White, 10))
}

func TestDetectFrame_UniformPageIsAllFrame(t *testing.T) {
	img := newPage(9, 7, colorutil.White)
	for _, seed := range []image.Point{image.Pt(0, 0), image.Pt(4, 3), image.Pt(8, 6)} {
		table := NewLabelTable(img.Bounds())
		n, err := DetectFrame(img, table, seed, colorutil.White, 1, 0)
		require.NoError(t, err)
		assert.Equal(t, 63, n)
		assert.Equal(t, 63, table.FrameCount())
	}
}

func TestDetectFrame_SeedOutOfRange(t *testing.T) {
	img := newPage(5, 5, colorutil.White)
	table := NewLabelTable(img.Bounds())

	for _, seed := range []image.Point{image.Pt(5, 0), image.Pt(0, 5), image.Pt(-1, 2)} {
		_, err := DetectFrame(img, table, seed, colorutil.White, 10, 0)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrOutOfRange))

		var rangeErr *RangeError
		require.True(t, errors.As(err, &rangeErr))
		assert.Equal(t, seed, rangeErr.Point)
		assert.Equal(t, img.Bounds(), rangeErr.Bounds)
	}
	assert.Equal(t, 0, table.FrameCount(), "no mutation on range error")
}

func TestDetectFrame_NonMatchingPixelsStopExpansion(t *testing.T) {
	// A black ring encloses a white pocket the fill must not reach.
	img := newPage(7, 7, colorutil.White)
	paint(img, colorutil.Black, hline(1, 5, 1)...)
	paint(img, colorutil.Black, hline(1, 5, 5)...)
	paint(img, colorutil.Black, vline(1, 1, 5)...)
	paint(img, colorutil.Black, vline(5, 1, 5)...)

	table := NewLabelTable(img.Bounds())
	n, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 10, 0)
	require.NoError(t, err)

	assert.Equal(t, 24, n, "only the outer ring of white is reachable")
	assert.False(t, table.At(3, 3).IsSet(), "enclosed pocket stays unset")
	assert.False(t, table.At(1, 1).IsSet(), "non-matching pixel stays unset")
	assert.True(t, table.At(6, 6).IsFrame())
}

func TestDetectFrame_ZeroToleranceMarksNothing(t *testing.T) {
	img := newPage(4, 4, colorutil.White)
	table := NewLabelTable(img.Bounds())
	n, err := DetectFrame(img, table, image.Pt(1, 1), colorutil.White, 0, 0)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Zero(t, table.FrameCount())
}

func TestDetectFrame_TraversalOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 20; trial++ {
		img := newPage(24, 18, colorutil.White)
		for y := 0; y < 18; y++ {
			for x := 0; x < 24; x++ {
				if rng.Intn(3) == 0 {
					img.SetNRGBA(x, y, colorutil.Black)
				}
			}
		}
		img.SetNRGBA(0, 0, colorutil.White)

		table := NewLabelTable(img.Bounds())
		_, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 10, 0)
		require.NoError(t, err)

		want := frameByStack(img, image.Pt(0, 0), 10)
		for y := 0; y < 18; y++ {
			for x := 0; x < 24; x++ {
				assert.Equal(t, want[image.Pt(x, y)], table.At(x, y).IsFrame(),
					"trial %d pixel (%d,%d)", trial, x, y)
			}
		}
	}
}

func TestDetectFrame_QueueLimit(t *testing.T) {
	img := newPage(10, 10, colorutil.White)
	table := NewLabelTable(img.Bounds())
	_, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 10, 2)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrResourceLimit))

	// The same page fits when the bound covers the widest BFS frontier.
	table = NewLabelTable(img.Bounds())
	n, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, n)
}

func TestDetectFrame_NeverOverwritesRegions(t *testing.T) {
	img := newPage(3, 1, colorutil.White)
	table := NewLabelTable(img.Bounds())
	table.cells[table.index(1, 0)] = Region(4)

	n, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, n, "the region cell blocks the fill")
	assert.Equal(t, Region(4), table.At(1, 0))
	assert.False(t, table.At(2, 0).IsSet())
}

func TestDetectFrame_AlphaCountsTowardsDistance(t *testing.T) {
	img := newPage(2, 1, colorutil.White)
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	table := NewLabelTable(img.Bounds())
	_, err := DetectFrame(img, table, image.Pt(0, 0), colorutil.White, 100, 0)
	require.NoError(t, err)
	assert.False(t, table.At(1, 0).IsSet(), "transparent white is far from opaque white")
}
