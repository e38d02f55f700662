// Package batch runs the full split pipeline over many pages.
package batch

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"panel-splitter/internal/config"
	"panel-splitter/internal/crop"
	pimage "panel-splitter/internal/image"
	"panel-splitter/internal/manifest"
	"panel-splitter/internal/panel"

	"golang.org/x/sync/errgroup"
)

// OverlayFile is the debug overlay's name inside a page's output directory.
const OverlayFile = "overlay.png"

// Result describes the outcome for one source file.
type Result struct {
	Source   string
	OutDir   string
	Manifest *manifest.Manifest
	Bytes    int64 // Total size of the files written
	Err      error
}

// Runner processes pages with a fixed configuration. Each page is an
// independent pipeline run, so pages may be processed concurrently.
type Runner struct {
	cfg    *config.Config
	params panel.Params
	logger *log.Logger
}

// NewRunner validates cfg and returns a Runner. A nil logger uses log.Default().
func NewRunner(cfg *config.Config, logger *log.Logger) (*Runner, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{cfg: cfg, params: params, logger: logger}, nil
}

// OutDir returns the directory panels of the page at path are written to
// when it is processed on its own: the file name without its extension.
func (r *Runner) OutDir(path string) string {
	return filepath.Join(r.cfg.OutputDir, stem(path))
}

// OutDirs returns one output directory per path. Pages whose names collide
// (a/page.png and b/page.png, or page.png and page.jpg) get a numeric
// suffix in input order: page, page_2, page_3.
func (r *Runner) OutDirs(paths []string) []string {
	used := make(map[string]bool, len(paths))
	dirs := make([]string, len(paths))
	for i, p := range paths {
		name := stem(p)
		for n := 2; used[name]; n++ {
			name = fmt.Sprintf("%s_%d", stem(p), n)
		}
		used[name] = true
		dirs[i] = filepath.Join(r.cfg.OutputDir, name)
	}
	return dirs
}

// ProcessFile loads, segments and writes one page.
func (r *Runner) ProcessFile(path string) Result {
	return r.processFile(path, r.OutDir(path))
}

func (r *Runner) processFile(path, outDir string) Result {
	res := Result{Source: path, OutDir: outDir}

	page, err := pimage.Load(path)
	if err != nil {
		res.Err = err
		return res
	}
	res.Manifest, res.Bytes, res.Err = r.ProcessPage(page, res.OutDir)
	return res
}

// ProcessPage segments page and writes its panels, overlay and manifest to outDir.
func (r *Runner) ProcessPage(page *pimage.Page, outDir string) (*manifest.Manifest, int64, error) {
	img := page.Image

	bounds := img.Bounds()
	if r.cfg.Crop {
		b, err := crop.Bounds(img, r.params.Seed, r.cfg.CropTolerance)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to crop margins: %w", err)
		}
		bounds = crop.Pad(b, r.cfg.CropMargin, img.Bounds())
	}

	seg, err := panel.Segment(img, bounds, r.params)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to segment page: %w", err)
	}

	m := manifest.New(page.Width(), page.Height())
	m.Settings = manifest.Settings{
		Tolerance:      r.params.Tolerance,
		SeedX:          r.params.Seed.X,
		SeedY:          r.params.Seed.Y,
		ReadingOrder:   r.params.Order.String(),
		MinPanelPixels: r.params.MinPanelPixels,
	}
	m.Crop = manifest.FromRectangle(seg.Bounds)
	m.FramePixels = seg.FramePixels
	m.RawLabels = seg.RawLabels
	m.Dropped = seg.Dropped

	if err := clearOutputs(outDir); err != nil {
		return nil, 0, fmt.Errorf("failed to clear previous output: %w", err)
	}

	var written int64
	for _, p := range seg.Panels {
		e := m.Add(p.Index, p.Area, p.Pixels, r.cfg.OutputFormat)
		n, err := save(p.Image, filepath.Join(outDir, e.File))
		if err != nil {
			return nil, written, err
		}
		written += n
	}

	if r.cfg.Overlay {
		boxes := make([]image.Rectangle, 0, len(seg.Panels))
		for _, p := range seg.Panels {
			boxes = append(boxes, p.Area)
		}
		isFrame := func(x, y int) bool { return seg.Table.At(x, y).IsFrame() }
		ov := pimage.DefaultOverlay().Render(img, isFrame, boxes)
		n, err := save(ov, filepath.Join(outDir, OverlayFile))
		if err != nil {
			return nil, written, err
		}
		written += n
		m.Overlay = OverlayFile
	}

	manifestPath := filepath.Join(outDir, manifest.FileName)
	if page.Path != "" {
		m.SetSource(manifestPath, page.Path)
	}
	if err := m.Save(manifestPath); err != nil {
		return nil, written, fmt.Errorf("failed to write manifest: %w", err)
	}
	return m, written, nil
}

// Run processes every path with at most cfg.Workers pages in flight.
// Results are returned in input order. With SkipErrors a failing page is
// logged and recorded in its Result; otherwise the first failure cancels
// the remaining pages and is returned.
func (r *Runner) Run(ctx context.Context, paths []string) ([]Result, error) {
	results := make([]Result, len(paths))
	dirs := r.OutDirs(paths)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)

	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				results[i] = Result{Source: path, OutDir: dirs[i], Err: err}
				return err
			}

			res := r.processFile(path, dirs[i])
			results[i] = res
			if res.Err != nil {
				r.logger.Printf("Batch: %s failed: %v", path, res.Err)
				if !r.cfg.SkipErrors {
					return fmt.Errorf("%s: %w", path, res.Err)
				}
				return nil
			}
			r.logger.Printf("Batch: %s -> %d panels in %s", path, len(res.Manifest.Panels), res.OutDir)
			return nil
		})
	}

	err := g.Wait()
	return results, err
}

// Expand replaces every directory in paths with the supported images it
// directly contains, sorted by name. Plain files are kept as given.
func Expand(paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			out = append(out, p)
			continue
		}

		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to list directory: %w", err)
		}
		var files []string
		for _, e := range entries {
			if !e.IsDir() && pimage.IsSupportedFormat(e.Name()) {
				files = append(files, filepath.Join(p, e.Name()))
			}
		}
		sort.Strings(files)
		out = append(out, files...)
	}
	return out, nil
}

// clearOutputs removes panel images, the overlay and the manifest left in
// dir by an earlier run. Other files are kept.
func clearOutputs(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() {
			continue
		}
		if strings.HasPrefix(name, "panel_") || name == OverlayFile || name == manifest.FileName {
			if err := os.Remove(filepath.Join(dir, name)); err != nil {
				return err
			}
		}
	}
	return nil
}

func stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// save writes img to path and returns the resulting file size.
func save(img image.Image, path string) (int64, error) {
	if err := pimage.Save(img, path); err != nil {
		return 0, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}
	return info.Size(), nil
}
