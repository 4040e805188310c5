package renderer

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"time"
)

// ProgressiveConfig contains configuration for progressive rendering
type ProgressiveConfig struct {
	TileSize        int // Size of each tile, rounded up to a multiple of StartPixelSize
	StartPixelSize  int // Block size of the first pass, rounded down to a power of two
	MinPixelSize    int // Block size of the last pass (1 = every pixel)
	SamplesPerPixel int // Supersampling per traced block, squared
	NumWorkers      int // Number of parallel workers (0 = use CPU count)
}

// DefaultProgressiveConfig returns sensible default values
func DefaultProgressiveConfig() ProgressiveConfig {
	return ProgressiveConfig{
		TileSize:        64,
		StartPixelSize:  64,
		MinPixelSize:    1,
		SamplesPerPixel: 1,
		NumWorkers:      0, // Auto-detect CPU count
	}
}

// ProgressiveRenderer renders coarse-to-fine: every pass samples one color per
// pixelSize block and halves the block size until MinPixelSize is reached
type ProgressiveRenderer struct {
	width, height int
	config        ProgressiveConfig
	tiles         []*Tile
	frame         *Frame
	renderer      *TileRenderer
	workerPool    *WorkerPool
	logger        *slog.Logger
}

// NewProgressiveRenderer creates a new progressive renderer. A nil logger
// discards output.
func NewProgressiveRenderer(sampler *PixelSampler, config ProgressiveConfig, logger *slog.Logger) *ProgressiveRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	config = normalizeProgressiveConfig(config)

	width, height := sampler.Width(), sampler.Height()
	tiles := NewTileGrid(width, height, config.TileSize)

	pr := &ProgressiveRenderer{
		width:    width,
		height:   height,
		config:   config,
		tiles:    tiles,
		frame:    NewFrame(width, height),
		renderer: NewTileRenderer(sampler),
		logger:   logger,
	}
	pr.workerPool = NewWorkerPool(len(tiles), config.NumWorkers, pr.renderTask)
	return pr
}

func normalizeProgressiveConfig(config ProgressiveConfig) ProgressiveConfig {
	defaults := DefaultProgressiveConfig()
	if config.StartPixelSize <= 0 {
		config.StartPixelSize = defaults.StartPixelSize
	}
	config.StartPixelSize = floorPowerOfTwo(config.StartPixelSize)
	config.MinPixelSize = max(1, min(config.MinPixelSize, config.StartPixelSize))
	if config.TileSize <= 0 {
		config.TileSize = defaults.TileSize
	}
	// Blocks never straddle tiles, so workers write disjoint regions
	config.TileSize = (config.TileSize + config.StartPixelSize - 1) / config.StartPixelSize * config.StartPixelSize
	config.SamplesPerPixel = max(1, config.SamplesPerPixel)
	return config
}

func floorPowerOfTwo(n int) int {
	p := 1
	for p*2 <= n {
		p *= 2
	}
	return p
}

// Config returns the normalized configuration
func (pr *ProgressiveRenderer) Config() ProgressiveConfig {
	return pr.config
}

// PixelSizes returns the block size of every pass in order
func (pr *ProgressiveRenderer) PixelSizes() []int {
	var sizes []int
	for size := pr.config.StartPixelSize; size >= pr.config.MinPixelSize; size /= 2 {
		sizes = append(sizes, size)
		if size == 1 {
			break
		}
	}
	return sizes
}

// renderTask is the worker pool callback for one tile of a pass
func (pr *ProgressiveRenderer) renderTask(task TileTask) (RenderStats, error) {
	stats := pr.renderer.RenderBlocks(pr.frame, task.Tile.Bounds, task.PixelSize, pr.config.SamplesPerPixel)
	return stats, nil
}

// RenderPass renders a single progressive pass using parallel processing.
// The worker pool must have been started.
func (pr *ProgressiveRenderer) RenderPass(passNumber, pixelSize int, tileCallback func(TileCompletionResult)) (*image.RGBA, RenderStats, error) {
	pr.logger.Debug("starting pass", "pass", passNumber, "pixelSize", pixelSize, "workers", pr.workerPool.GetNumWorkers())

	for taskID, tile := range pr.tiles {
		pr.workerPool.SubmitTask(TileTask{
			Tile:       tile,
			PassNumber: passNumber,
			PixelSize:  pixelSize,
			TaskID:     taskID,
		})
	}

	stats := RenderStats{PixelSize: pixelSize}
	for i := 0; i < len(pr.tiles); i++ {
		result, ok := pr.workerPool.GetResult()
		if !ok {
			return nil, RenderStats{}, fmt.Errorf("worker pool closed unexpectedly")
		}
		if result.Error != nil {
			return nil, RenderStats{}, result.Error
		}
		stats.Add(result.Stats)

		tile := pr.tiles[result.TaskID]
		tile.PassesCompleted++

		// Callbacks are dispatched from this goroutine only
		if tileCallback != nil {
			tileCallback(TileCompletionResult{
				TileX:      tile.Bounds.Min.X / pr.config.TileSize,
				TileY:      tile.Bounds.Min.Y / pr.config.TileSize,
				TileImage:  pr.frame.Image(tile.Bounds),
				PassNumber: passNumber,

				TileNumber:  i + 1,
				TotalTiles:  len(pr.tiles),
				TotalPasses: len(pr.PixelSizes()),
			})
		}
	}

	return pr.frame.Image(image.Rect(0, 0, pr.width, pr.height)), stats, nil
}

// PassResult contains the result of a single pass
type PassResult struct {
	PassNumber int
	PixelSize  int
	Image      *image.RGBA
	Stats      RenderStats
	Duration   time.Duration
	IsLast     bool
}

// TileCompletionResult contains information about a completed tile for callbacks
type TileCompletionResult struct {
	TileX      int // Tile coordinates (not pixel coordinates)
	TileY      int
	TileImage  *image.RGBA // Image data for just this tile, in image coordinates
	PassNumber int         // Which pass this tile was rendered in

	// Progress information
	TileNumber  int // Current tile number in this pass (1-based)
	TotalTiles  int // Total number of tiles in the image
	TotalPasses int // Total number of passes planned
}

// RenderOptions configures progressive rendering behavior
type RenderOptions struct {
	TileUpdates bool // Whether to generate tile completion events
}

// RenderProgressive renders every pass in the background and streams the
// results. The pass and error channels are closed when rendering stops. If
// options.TileUpdates is false, the tile channel is closed immediately.
// A renderer can run RenderProgressive only once.
func (pr *ProgressiveRenderer) RenderProgressive(ctx context.Context, options RenderOptions) (<-chan PassResult, <-chan TileCompletionResult, <-chan error) {
	passChan := make(chan PassResult, 1)
	tileChan := make(chan TileCompletionResult, 100)
	errChan := make(chan error, 1)

	if !options.TileUpdates {
		close(tileChan)
	}

	go func() {
		defer close(passChan)
		if options.TileUpdates {
			defer close(tileChan)
		}
		defer close(errChan)
		defer pr.workerPool.Stop()

		sizes := pr.PixelSizes()
		pr.logger.Info("starting progressive render", "passes", len(sizes), "width", pr.width, "height", pr.height)
		pr.workerPool.Start()

		for i, pixelSize := range sizes {
			pass := i + 1
			select {
			case <-ctx.Done():
				pr.logger.Info("rendering cancelled", "beforePass", pass)
				errChan <- ctx.Err()
				return
			default:
			}

			var tileCallback func(TileCompletionResult)
			if options.TileUpdates {
				tileCallback = func(result TileCompletionResult) {
					select {
					case tileChan <- result:
					case <-ctx.Done():
					default:
						// Channel full, drop the update
					}
				}
			}

			startTime := time.Now()
			img, stats, err := pr.RenderPass(pass, pixelSize, tileCallback)
			if err != nil {
				errChan <- err
				return
			}
			duration := time.Since(startTime)

			pr.logger.Info("pass completed", "pass", pass, "pixelSize", pixelSize,
				"sampled", stats.SampledPixels, "reused", stats.ReusedPixels, "duration", duration)

			result := PassResult{
				PassNumber: pass,
				PixelSize:  pixelSize,
				Image:      img,
				Stats:      stats,
				Duration:   duration,
				IsLast:     pass == len(sizes),
			}

			select {
			case passChan <- result:
			case <-ctx.Done():
				errChan <- ctx.Err()
				return
			}
		}
	}()

	return passChan, tileChan, errChan
}

// Tile represents a rectangular region of the image to be rendered
type Tile struct {
	ID              int             // Unique tile identifier
	Bounds          image.Rectangle // Pixel bounds (x0,y0,x1,y1)
	PassesCompleted int             // Number of passes completed for this tile
}

// NewTile creates a new tile with the specified bounds
func NewTile(id int, bounds image.Rectangle) *Tile {
	return &Tile{
		ID:     id,
		Bounds: bounds,
	}
}

// NewTileGrid creates a grid of tiles covering the entire image, row by row
func NewTileGrid(width, height, tileSize int) []*Tile {
	var tiles []*Tile
	tileID := 0

	tilesX := (width + tileSize - 1) / tileSize // Ceiling division
	tilesY := (height + tileSize - 1) / tileSize

	for tileY := 0; tileY < tilesY; tileY++ {
		for tileX := 0; tileX < tilesX; tileX++ {
			x0 := tileX * tileSize
			y0 := tileY * tileSize
			x1 := min(x0+tileSize, width) // Don't exceed image bounds
			y1 := min(y0+tileSize, height)

			tiles = append(tiles, NewTile(tileID, image.Rect(x0, y0, x1, y1)))
			tileID++
		}
	}

	return tiles
}
