package renderer

import (
	"context"
	"fmt"
	"log/slog"
)

// ChunkConfig contains configuration for chunked rendering
type ChunkConfig struct {
	ChunkSize       int // Width and height of each chunk file
	SamplesPerPixel int // Supersampling per pixel, squared
	NumWorkers      int // Number of parallel workers (0 = use CPU count)
}

// DefaultChunkConfig returns sensible default values
func DefaultChunkConfig() ChunkConfig {
	return ChunkConfig{
		ChunkSize:       100,
		SamplesPerPixel: 1,
		NumWorkers:      0,
	}
}

// ChunkStats summarizes a chunked run
type ChunkStats struct {
	RenderStats
	Chunks   int // Chunks covering the image
	Rendered int // Chunks rendered and saved by this run
	Skipped  int // Chunks already present on disk
}

// ChunkRenderer renders the image as independent chunk files. Chunks that
// already exist are skipped, so an interrupted run can be resumed. The
// existence check is not atomic: two processes sharing a directory may
// render the same chunk.
type ChunkRenderer struct {
	config   ChunkConfig
	store    *ChunkStore
	renderer *TileRenderer
	width    int
	height   int
	logger   *slog.Logger
}

// NewChunkRenderer creates a new chunk renderer. A nil logger discards output.
func NewChunkRenderer(sampler *PixelSampler, store *ChunkStore, config ChunkConfig, logger *slog.Logger) *ChunkRenderer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if config.ChunkSize <= 0 {
		config.ChunkSize = DefaultChunkConfig().ChunkSize
	}
	config.SamplesPerPixel = max(1, config.SamplesPerPixel)

	return &ChunkRenderer{
		config:   config,
		store:    store,
		renderer: NewTileRenderer(sampler),
		width:    sampler.Width(),
		height:   sampler.Height(),
		logger:   logger,
	}
}

// Render writes the info file and every missing chunk. It returns ctx.Err()
// if cancelled; chunks finished before that stay on disk.
func (cr *ChunkRenderer) Render(ctx context.Context) (ChunkStats, error) {
	if err := cr.store.WriteInfo(cr.width, cr.height); err != nil {
		return ChunkStats{}, err
	}

	tiles := NewTileGrid(cr.width, cr.height, cr.config.ChunkSize)
	stats := ChunkStats{Chunks: len(tiles)}

	var pending []*Tile
	for _, tile := range tiles {
		x, y := tile.Bounds.Min.X, tile.Bounds.Min.Y
		if cr.store.Exists(x, y) {
			cr.logger.Info("chunk already generated, skipping", "chunk", fmt.Sprintf("%d_%d", x, y))
			stats.Skipped++
			continue
		}
		pending = append(pending, tile)
	}
	if len(pending) == 0 {
		return stats, nil
	}

	pool := NewWorkerPool(len(pending), cr.config.NumWorkers, func(task TileTask) (RenderStats, error) {
		if err := ctx.Err(); err != nil {
			return RenderStats{}, err
		}
		return cr.renderChunk(task.Tile)
	})
	pool.Start()
	for i, tile := range pending {
		pool.SubmitTask(TileTask{Tile: tile, PixelSize: 1, TaskID: i})
	}

	var firstErr error
	for range pending {
		result, ok := pool.GetResult()
		if !ok {
			break
		}
		if result.Error != nil {
			if firstErr == nil {
				firstErr = result.Error
			}
			continue
		}
		stats.Rendered++
		stats.Add(result.Stats)
	}
	pool.Stop()

	if firstErr != nil {
		return stats, firstErr
	}
	return stats, nil
}

// renderChunk renders and saves one chunk
func (cr *ChunkRenderer) renderChunk(tile *Tile) (RenderStats, error) {
	x, y := tile.Bounds.Min.X, tile.Bounds.Min.Y
	cr.logger.Debug("chunk starting", "chunk", fmt.Sprintf("%d_%d", x, y))

	img, stats := cr.renderer.RenderTile(tile.Bounds, cr.config.SamplesPerPixel)
	if err := cr.store.Save(x, y, img); err != nil {
		return RenderStats{}, err
	}

	cr.logger.Debug("chunk completed", "chunk", fmt.Sprintf("%d_%d", x, y))
	return stats, nil
}
