package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/fsnotify/fsnotify"
	"github.com/muesli/termenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
	"github.com/df07/go-whitted-raytracer/web/server"
)

const usage = `Whitted Raytracer

Usage: raytracer [options] [mode]

Modes:
  progressive  render coarse-to-fine passes and save the final image (default)
  chunked      render the image as resumable chunk files
  stitch       compose a chunk directory into <dir>_FINISHED.png
  serve        stream progressive renders to a browser

Options:
`

// options holds the parsed command line
type options struct {
	mode       string
	configFile string
	list       bool
	watch      bool
	verbose    bool
	dumpConfig bool
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run parses args and executes one mode. Progress logs go to stderr and the
// summary to stdout.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cfg, opts, err := parseArgs(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	out := termenv.NewOutput(stdout)

	switch {
	case opts.dumpConfig:
		return toml.NewEncoder(stdout).Encode(cfg)
	case opts.list:
		return listScenes(cfg, logger, out)
	}

	switch opts.mode {
	case "progressive":
		if opts.watch {
			return watchScene(ctx, cfg, logger, out)
		}
		_, err := renderProgressive(ctx, cfg, logger, out)
		return err
	case "chunked":
		return renderChunked(ctx, cfg, logger, out)
	case "stitch":
		return stitch(cfg, out)
	case "serve":
		return server.NewServer(cfg, logger).Start(ctx)
	}
	return fmt.Errorf("unknown mode %q", opts.mode)
}

// parseArgs loads the config file, if any, and applies flag overrides
func parseArgs(args []string, stderr io.Writer) (config.Config, options, error) {
	var opts options
	fs := flag.NewFlagSet("raytracer", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configFile, "config", "", "TOML configuration file")
	fs.BoolVar(&opts.list, "list", false, "List available scenes and exit")
	fs.BoolVar(&opts.watch, "watch", false, "Re-render when the scene file changes (progressive mode)")
	fs.BoolVar(&opts.verbose, "v", false, "Enable debug logging")
	fs.BoolVar(&opts.dumpConfig, "dump-config", false, "Print the effective configuration as TOML and exit")
	sceneID := fs.String("scene", "", "Scene ID: built-in name, yaml:<name> or a .yaml path")
	width := fs.Int("width", 0, "Image width (0 uses the scene's)")
	height := fs.Int("height", 0, "Image height (0 uses the scene's)")
	spp := fs.Int("spp", 0, "Samples per pixel per axis; 0 uses the scene's")
	depth := fs.Int("depth", 0, "Maximum reflection/refraction depth")
	shadows := fs.String("shadows", "", "Shadow mode: first-occluder or per-light")
	workers := fs.Int("workers", 0, "Number of render workers (0 = one per core)")
	chunkDir := fs.String("dir", "", "Chunk directory for chunked and stitch modes")
	outputDir := fs.String("output", "", "Output directory for progressive renders")
	port := fs.Int("port", 0, "Port for serve mode")

	if err := fs.Parse(args); err != nil {
		return config.Config{}, opts, err
	}

	opts.mode = "progressive"
	switch fs.NArg() {
	case 0:
	case 1:
		opts.mode = fs.Arg(0)
	default:
		return config.Config{}, opts, fmt.Errorf("expected at most one mode, got %q", fs.Args())
	}

	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		if cfg, err = config.Open(opts.configFile); err != nil {
			return cfg, opts, err
		}
	}

	// Only flags given on the command line override the file
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "scene":
			cfg.Scene = *sceneID
		case "width":
			cfg.Width = *width
		case "height":
			cfg.Height = *height
		case "spp":
			cfg.Progressive.SamplesPerPixel = *spp
			cfg.Chunked.SamplesPerPixel = *spp
		case "depth":
			cfg = cfg.WithMaxDepth(*depth)
		case "shadows":
			cfg.Shading.ShadowMode = *shadows
		case "workers":
			cfg.Progressive.Workers = *workers
			cfg.Chunked.Workers = *workers
		case "dir":
			cfg.Chunked.Dir = *chunkDir
		case "output":
			cfg.OutputDir = *outputDir
		case "port":
			cfg.Server.Port = *port
		}
	})
	return cfg, opts, cfg.Validate()
}

// loadScene builds the configured scene at the configured resolution
func loadScene(cfg config.Config) (*scene.Scene, *renderer.PixelSampler, error) {
	s, err := scene.Load(cfg.Scene, cfg.ScenesDir, cfg.NoiseSet())
	if err != nil {
		return nil, nil, err
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		s.SetResolution(cfg.Width, cfg.Height)
	}

	whitted, err := cfg.Whitted(s.SamplingConfig)
	if err != nil {
		return nil, nil, err
	}
	return s, renderer.NewPixelSampler(s, integrator.NewWhittedIntegrator(whitted)), nil
}

// renderProgressive renders every pass and saves the final image. It returns
// the path of the saved PNG.
func renderProgressive(ctx context.Context, cfg config.Config, logger *slog.Logger, out *termenv.Output) (string, error) {
	s, sampler, err := loadScene(cfg)
	if err != nil {
		return "", err
	}

	pr := renderer.NewProgressiveRenderer(sampler, cfg.ProgressiveConfig(s.SamplingConfig), logger)
	fmt.Fprintf(out, "Rendering %s at %dx%d with %d objects\n",
		out.String(cfg.Scene).Bold(), sampler.Width(), sampler.Height(), s.GetPrimitiveCount())

	startTime := time.Now()
	passChan, _, errChan := pr.RenderProgressive(ctx, renderer.RenderOptions{})

	var final *image.RGBA
	for pass := range passChan {
		final = pass.Image
		fmt.Fprintf(out, "  pass %d/%d  pixel size %-3d sampled %-7d reused %-7d %v\n",
			pass.PassNumber, len(pr.PixelSizes()), pass.PixelSize,
			pass.Stats.SampledPixels, pass.Stats.ReusedPixels, pass.Duration.Round(time.Millisecond))
	}
	if err := <-errChan; err != nil {
		return "", err
	}
	if final == nil {
		return "", errors.New("render produced no passes")
	}

	outputDir := filepath.Join(cfg.OutputDir, sceneDirName(cfg.Scene))
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	filename := filepath.Join(outputDir, fmt.Sprintf("render_%s.png", time.Now().Format("20060102_150405.000")))
	if err := imgio.Save(filename, final, imgio.PNGEncoder()); err != nil {
		return "", fmt.Errorf("saving render: %w", err)
	}

	fmt.Fprintf(out, "%s in %v, saved %s\n",
		out.String("Render complete").Foreground(out.Color("2")).Bold(),
		time.Since(startTime).Round(time.Millisecond), filename)
	return filename, nil
}

// renderChunked renders missing chunks into the chunk directory
func renderChunked(ctx context.Context, cfg config.Config, logger *slog.Logger, out *termenv.Output) error {
	s, sampler, err := loadScene(cfg)
	if err != nil {
		return err
	}
	store, err := renderer.NewChunkStore(cfg.Chunked.Dir)
	if err != nil {
		return err
	}

	startTime := time.Now()
	stats, err := renderer.NewChunkRenderer(sampler, store, cfg.ChunkConfig(s.SamplingConfig), logger).Render(ctx)
	if err != nil {
		fmt.Fprintf(out, "%s after %d of %d chunks; run again to resume\n",
			out.String("Stopped").Foreground(out.Color("3")).Bold(), stats.Rendered+stats.Skipped, stats.Chunks)
		return err
	}

	fmt.Fprintf(out, "%s %d chunks (%d rendered, %d already present) in %v into %s\n",
		out.String("Chunked render complete:").Foreground(out.Color("2")).Bold(),
		stats.Chunks, stats.Rendered, stats.Skipped, time.Since(startTime).Round(time.Millisecond), store.Dir)
	return nil
}

// stitch composes the chunk directory into one image
func stitch(cfg config.Config, out *termenv.Output) error {
	img, err := renderer.Stitch(cfg.Chunked.Dir)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%s %dx%d image saved as %s\n",
		out.String("Stitched").Foreground(out.Color("2")).Bold(),
		img.Bounds().Dx(), img.Bounds().Dy(), renderer.FinishedPath(cfg.Chunked.Dir))
	return nil
}

// listScenes prints every scene ID grouped the way the preview server shows them
func listScenes(cfg config.Config, logger *slog.Logger, out *termenv.Output) error {
	groups, err := scene.ListAllScenes(cfg.ScenesDir, logger)
	if err != nil {
		return err
	}
	for _, group := range groups {
		fmt.Fprintln(out, out.String(group.Name).Bold())
		for _, info := range group.Scenes {
			fmt.Fprintf(out, "  %-24s %s\n", info.ID, out.String(info.Description).Faint())
		}
	}
	return nil
}

// watchScene renders once, then again each time the scene file is written,
// until ctx is cancelled. Only file-based scenes can be watched.
func watchScene(ctx context.Context, cfg config.Config, logger *slog.Logger, out *termenv.Output) error {
	path, ok := scene.ResolveFile(cfg.Scene, cfg.ScenesDir)
	if !ok {
		return fmt.Errorf("-watch needs a scene file, %q is built in or missing", cfg.Scene)
	}
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}

	render := func() error {
		if _, err := renderProgressive(ctx, cfg, logger, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// A half-edited scene file is not fatal while watching
			logger.Warn("render failed", "scene", cfg.Scene, "error", err)
		}
		return nil
	}
	if err := render(); err != nil {
		return nil
	}

	logger.Info("watching scene file", "path", path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !(event.Has(fsnotify.Write) || event.Has(fsnotify.Create)) {
				continue
			}
			logger.Debug("scene file changed", "op", event.Op.String())
			if err := render(); err != nil {
				return nil
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

// sceneDirName turns a scene ID into a directory name
func sceneDirName(id string) string {
	id = strings.TrimPrefix(id, "yaml:")
	base := filepath.Base(id)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
