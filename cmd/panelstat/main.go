// Command panelstat segments one page and prints what the engine found.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"panel-splitter/internal/crop"
	pimage "panel-splitter/internal/image"
	"panel-splitter/internal/panel"

	"github.com/dustin/go-humanize"
	"gonum.org/v1/gonum/stat"
)

func main() {
	imagePath := flag.String("image", "", "Path to page image (PNG, JPEG, TIFF, BMP, WebP, GIF)")
	tolerance := flag.Uint("tolerance", uint(panel.DefaultParams().Tolerance), "Colour tolerance")
	seedX := flag.Int("x", 0, "Seed pixel X")
	seedY := flag.Int("y", 0, "Seed pixel Y")
	order := flag.String("order", "rtl", "Reading order: rtl or ltr")
	doCrop := flag.Bool("crop", true, "Crop margins before labelling")
	grid := flag.Bool("grid", false, "Print the label table (small pages only)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: panelstat -image <path> [-tolerance 100] [-x 0 -y 0] [-order rtl|ltr] [-crop] [-grid]")
		os.Exit(1)
	}

	page, err := pimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded %s image: %dx%d pixels\n", page.Format, page.Width(), page.Height())

	ro, err := panel.ParseReadingOrder(*order)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	params := panel.DefaultParams().
		WithTolerance(uint32(*tolerance)).
		WithSeed(*seedX, *seedY).
		WithOrder(ro)

	bounds := page.Image.Bounds()
	if *doCrop {
		bounds, err = crop.Bounds(page.Image, params.Seed, params.Tolerance)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Crop failed: %v\n", err)
			os.Exit(1)
		}
	}

	res, err := panel.Segment(page.Image, bounds, params)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Segmentation failed: %v\n", err)
		os.Exit(1)
	}

	report(os.Stdout, res)
	if *grid {
		fmt.Println()
		printGrid(os.Stdout, res.Table)
	}
}

func report(w io.Writer, res *panel.Result) {
	fmt.Fprintf(w, "\nReference colour: %v\n", res.Reference)
	fmt.Fprintf(w, "Labelled range: %v\n", res.Bounds)
	fmt.Fprintf(w, "Frame pixels: %s\n", humanize.Comma(int64(res.FramePixels)))
	fmt.Fprintf(w, "Raw labels: %d, regions: %d (%d dropped)\n",
		res.RawLabels, len(res.Panels)+res.Dropped, res.Dropped)

	fmt.Fprintf(w, "\n%-6s %-10s %-22s %12s\n", "Index", "Label", "Area", "Pixels")
	fmt.Fprintln(w, strings.Repeat("-", 53))
	for _, p := range res.Panels {
		fmt.Fprintf(w, "%-6d %-10s %-22s %12s\n", p.Index, p.Label, p.Area, humanize.Comma(int64(p.Pixels)))
	}

	s := summarize(res.Panels)
	if s.Count == 0 {
		fmt.Fprintln(w, "\nNo panels found")
		return
	}
	fmt.Fprintf(w, "\nPanel pixels: mean %.1f, stddev %.1f, median %.0f, min %.0f, max %.0f\n",
		s.Mean, s.StdDev, s.Median, s.Min, s.Max)
}

// summary describes the distribution of panel pixel counts.
type summary struct {
	Count                int
	Mean, StdDev, Median float64
	Min, Max             float64
}

func summarize(panels []panel.Panel) summary {
	if len(panels) == 0 {
		return summary{}
	}
	xs := make([]float64, len(panels))
	for i, p := range panels {
		xs[i] = float64(p.Pixels)
	}
	sort.Float64s(xs)

	mean, std := stat.MeanStdDev(xs, nil)
	if len(xs) == 1 {
		std = 0
	}
	return summary{
		Count:  len(xs),
		Mean:   mean,
		StdDev: std,
		Median: stat.Quantile(0.5, stat.Empirical, xs, nil),
		Min:    xs[0],
		Max:    xs[len(xs)-1],
	}
}

// printGrid writes one character per cell: '#' for frame, '.' for unset and
// the region id in base 36 otherwise ('+' once ids no longer fit).
func printGrid(w io.Writer, t *panel.LabelTable) {
	b := t.Bounds()
	if b.Dx() > 200 || b.Dy() > 200 {
		fmt.Fprintf(w, "Page too large for -grid (%dx%d)\n", b.Dx(), b.Dy())
		return
	}
	var sb strings.Builder
	for y := b.Min.Y; y < b.Max.Y; y++ {
		sb.Reset()
		for x := b.Min.X; x < b.Max.X; x++ {
			sb.WriteByte(cellChar(t.At(x, y)))
		}
		fmt.Fprintln(w, sb.String())
	}
}

func cellChar(l panel.Label) byte {
	if l.IsFrame() {
		return '#'
	}
	id, ok := l.ID()
	if !ok {
		return '.'
	}
	if id >= 36 {
		return '+'
	}
	return strconv.FormatInt(int64(id), 36)[0]
}
