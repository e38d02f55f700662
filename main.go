// Package main provides the entry point for Panel Splitter, which cuts
// scanned comic pages into one image per panel.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"panel-splitter/internal/batch"
	"panel-splitter/internal/config"
	"panel-splitter/internal/version"
	"panel-splitter/internal/watch"

	"github.com/dustin/go-humanize"
)

const appTitle = "Panel Splitter"

// options holds the raw flag values. Only flags set on the command line
// override the loaded configuration.
type options struct {
	configPath  string
	initConfig  bool
	tolerance   uint
	seed        string
	out         string
	format      string
	order       string
	minPixels   int
	workers     int
	overlay     bool
	crop        bool
	cropMargin  int
	skipErrors  bool
	watchDir    string
	settle      time.Duration
	showVersion bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	opts := registerFlags(fs)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s [flags] <page or directory>...\n", fs.Name())
		fs.PrintDefaults()
	}
	fs.Parse(os.Args[1:])

	if opts.showVersion {
		fmt.Printf("%s %s\n", appTitle, version.String())
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := applyFlags(fs, opts, cfg); err != nil {
		log.Fatalf("Invalid flags: %v", err)
	}

	if opts.initConfig {
		if err := cfg.Save(opts.configPath); err != nil {
			log.Fatalf("Failed to save config: %v", err)
		}
		log.Printf("Wrote config to %s", opts.configPath)
		return
	}

	if fs.NArg() == 0 && opts.watchDir == "" {
		fs.Usage()
		os.Exit(2)
	}

	runner, err := batch.NewRunner(cfg, nil)
	if err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Printf("Starting %s v%s", appTitle, version.Version)

	if fs.NArg() > 0 {
		if err := runBatch(ctx, runner, fs.Args()); err != nil {
			log.Fatalf("Batch failed: %v", err)
		}
	}

	if opts.watchDir != "" {
		if err := runWatch(ctx, runner, opts.watchDir, opts.settle, cfg.Workers); err != nil {
			log.Fatalf("Watch failed: %v", err)
		}
	}
}

func registerFlags(fs *flag.FlagSet) *options {
	o := &options{}
	fs.StringVar(&o.configPath, "config", config.DefaultPath(), "Config file (.json, .toml, .yaml)")
	fs.BoolVar(&o.initConfig, "init-config", false, "Write the effective config to -config and exit")
	fs.UintVar(&o.tolerance, "tolerance", 0, "Colour tolerance for frame detection")
	fs.StringVar(&o.seed, "seed", "", "Frame seed pixel as x,y")
	fs.StringVar(&o.out, "out", "", "Output directory")
	fs.StringVar(&o.format, "format", "", "Panel image format (png, jpg, gif, tif, bmp)")
	fs.StringVar(&o.order, "order", "", "Reading order: rtl or ltr")
	fs.IntVar(&o.minPixels, "min-pixels", 0, "Drop panels with fewer pixels than this")
	fs.IntVar(&o.workers, "workers", 0, "Pages processed in parallel")
	fs.BoolVar(&o.overlay, "overlay", false, "Write a debug overlay per page")
	fs.BoolVar(&o.crop, "crop", true, "Crop page margins before labelling")
	fs.IntVar(&o.cropMargin, "crop-margin", 0, "Pixels kept around the cropped content")
	fs.BoolVar(&o.skipErrors, "skip-errors", true, "Continue with the next page when one fails")
	fs.StringVar(&o.watchDir, "watch", "", "Process pages dropped into this directory until interrupted")
	fs.DurationVar(&o.settle, "settle", time.Second, "Quiet time before a watched page is processed")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
	return o
}

// applyFlags copies every explicitly set flag into cfg.
func applyFlags(fs *flag.FlagSet, o *options, cfg *config.Config) error {
	var err error
	fs.Visit(func(f *flag.Flag) {
		if err != nil {
			return
		}
		switch f.Name {
		case "tolerance":
			if o.tolerance > math.MaxUint32 {
				err = fmt.Errorf("tolerance %d exceeds %d", o.tolerance, uint64(math.MaxUint32))
				return
			}
			cfg.Tolerance = uint32(o.tolerance)
		case "seed":
			cfg.SeedX, cfg.SeedY, err = parseSeed(o.seed)
		case "out":
			cfg.OutputDir = o.out
		case "format":
			cfg.OutputFormat = strings.ToLower(o.format)
		case "order":
			cfg.ReadingOrder = o.order
		case "min-pixels":
			cfg.MinPanelPixels = o.minPixels
		case "workers":
			cfg.Workers = o.workers
		case "overlay":
			cfg.Overlay = o.overlay
		case "crop":
			cfg.Crop = o.crop
		case "crop-margin":
			cfg.CropMargin = o.cropMargin
		case "skip-errors":
			cfg.SkipErrors = o.skipErrors
		}
	})
	return err
}

// parseSeed parses "x,y".
func parseSeed(s string) (int, int, error) {
	xs, ys, ok := strings.Cut(s, ",")
	if !ok {
		return 0, 0, fmt.Errorf("seed %q: want x,y", s)
	}
	x, err := strconv.Atoi(strings.TrimSpace(xs))
	if err != nil {
		return 0, 0, fmt.Errorf("seed %q: %w", s, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(ys))
	if err != nil {
		return 0, 0, fmt.Errorf("seed %q: %w", s, err)
	}
	return x, y, nil
}

func runBatch(ctx context.Context, runner *batch.Runner, args []string) error {
	paths, err := batch.Expand(args)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		log.Println("No supported images found")
		return nil
	}

	start := time.Now()
	results, err := runner.Run(ctx, paths)

	var pages, panels, failed int
	var written int64
	for _, r := range results {
		written += r.Bytes
		if r.Err != nil {
			failed++
			continue
		}
		if r.Manifest != nil {
			pages++
			panels += len(r.Manifest.Panels)
		}
	}
	log.Printf("Split %d pages into %d panels (%d failed), wrote %s in %s",
		pages, panels, failed, humanize.Bytes(uint64(written)), time.Since(start).Round(time.Millisecond))
	return err
}

func runWatch(ctx context.Context, runner *batch.Runner, dir string, settle time.Duration, workers int) error {
	w := watch.New(dir, settle, nil)
	w.SetConcurrency(workers)
	w.OnNewPage(func(path string) {
		res := runner.ProcessFile(path)
		if res.Err != nil {
			log.Printf("Watch: %s failed: %v", path, res.Err)
			return
		}
		log.Printf("Watch: %s -> %d panels (%s)", path, len(res.Manifest.Panels), humanize.Bytes(uint64(res.Bytes)))
	})
	if err := w.Start(); err != nil {
		return err
	}
	log.Printf("Watch: waiting for pages in %s", dir)

	<-ctx.Done()
	w.Stop()
	log.Println("Watch: stopped")
	return nil
}
