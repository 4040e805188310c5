package renderer

import (
	"context"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, name string) *ChunkStore {
	t.Helper()
	store, err := NewChunkStore(filepath.Join(t.TempDir(), name))
	require.NoError(t, err)
	return store
}

func TestChunkStore_Info(t *testing.T) {
	store := newTestStore(t, "info")

	_, _, err := store.ReadInfo()
	assert.ErrorIs(t, err, ErrNoInfo)

	require.NoError(t, store.WriteInfo(675, 450))
	data, err := os.ReadFile(filepath.Join(store.Dir, InfoFileName))
	require.NoError(t, err)
	assert.Equal(t, "675 450", string(data))

	width, height, err := store.ReadInfo()
	require.NoError(t, err)
	assert.Equal(t, 675, width)
	assert.Equal(t, 450, height)

	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, InfoFileName), []byte("675"), 0o644))
	_, _, err = store.ReadInfo()
	assert.ErrorIs(t, err, ErrNoInfo)
}

func TestChunkStore_SaveAndList(t *testing.T) {
	store := newTestStore(t, "list")
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))

	assert.False(t, store.Exists(100, 0))
	require.NoError(t, store.Save(100, 0, img))
	require.NoError(t, store.Save(0, 100, img))
	require.NoError(t, store.Save(0, 0, img))
	assert.True(t, store.Exists(100, 0))
	assert.Equal(t, filepath.Join(store.Dir, "100_0.png"), store.Path(100, 0))

	// Files that are not chunks are ignored
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "preview.png"), nil, 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Dir, "a_b.png"), nil, 0o644))

	chunks, err := store.Chunks()
	require.NoError(t, err)
	require.Len(t, chunks, 3)
	assert.Equal(t, [2]int{0, 0}, [2]int{chunks[0].X, chunks[0].Y})
	assert.Equal(t, [2]int{100, 0}, [2]int{chunks[1].X, chunks[1].Y})
	assert.Equal(t, [2]int{0, 100}, [2]int{chunks[2].X, chunks[2].Y})
}

func TestChunkRenderer_WritesAllChunks(t *testing.T) {
	s := createTestScene(25, 15)
	store := newTestStore(t, "all")
	counter := newCountingIntegrator()

	cr := NewChunkRenderer(NewPixelSampler(s, counter), store, ChunkConfig{ChunkSize: 10, SamplesPerPixel: 1, NumWorkers: 2}, nil)
	stats, err := cr.Render(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 6, stats.Chunks)
	assert.Equal(t, 6, stats.Rendered)
	assert.Equal(t, 0, stats.Skipped)
	assert.Equal(t, 25*15, stats.SampledPixels)
	assert.Equal(t, int64(25*15), counter.rays.Load())

	for _, name := range []string{"0_0.png", "10_0.png", "20_0.png", "0_10.png", "10_10.png", "20_10.png"} {
		assert.FileExists(t, filepath.Join(store.Dir, name))
	}

	edge, err := imgio.Open(store.Path(20, 10))
	require.NoError(t, err)
	assert.Equal(t, 5, edge.Bounds().Dx())
	assert.Equal(t, 5, edge.Bounds().Dy())
}

func TestChunkRenderer_Resumes(t *testing.T) {
	s := createTestScene(25, 15)
	config := ChunkConfig{ChunkSize: 10, SamplesPerPixel: 2, NumWorkers: 3}

	// Uninterrupted run
	full := newTestStore(t, "full")
	_, err := NewChunkRenderer(NewPixelSampler(s, newCountingIntegrator()), full, config, nil).Render(context.Background())
	require.NoError(t, err)
	expected, err := Stitch(full.Dir)
	require.NoError(t, err)

	// Interrupted run that got as far as the first chunk
	resumed := newTestStore(t, "resumed")
	first, err := os.ReadFile(full.Path(0, 0))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(resumed.Path(0, 0), first, 0o644))
	before, err := os.Stat(resumed.Path(0, 0))
	require.NoError(t, err)

	counter := newCountingIntegrator()
	stats, err := NewChunkRenderer(NewPixelSampler(s, counter), resumed, config, nil).Render(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Skipped)
	assert.Equal(t, 5, stats.Rendered)
	assert.Equal(t, int64((25*15-10*10)*4), counter.rays.Load())

	after, err := os.Stat(resumed.Path(0, 0))
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
	data, err := os.ReadFile(resumed.Path(0, 0))
	require.NoError(t, err)
	assert.Equal(t, first, data)

	stitched, err := Stitch(resumed.Dir)
	require.NoError(t, err)
	assertImagesEqual(t, expected, stitched)
}

func TestChunkRenderer_DoesNotOverwriteExisting(t *testing.T) {
	s := createTestScene(20, 10)
	store := newTestStore(t, "marker")

	marker := image.NewRGBA(image.Rect(0, 0, 10, 10))
	magenta := color.RGBA{255, 0, 255, 255}
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			marker.SetRGBA(x, y, magenta)
		}
	}
	require.NoError(t, store.Save(0, 0, marker))

	_, err := NewChunkRenderer(NewPixelSampler(s, newCountingIntegrator()), store, ChunkConfig{ChunkSize: 10}, nil).Render(context.Background())
	require.NoError(t, err)

	stitched, err := Stitch(store.Dir)
	require.NoError(t, err)
	r, g, b, a := stitched.At(5, 5).RGBA()
	assert.Equal(t, []uint32{0xffff, 0, 0xffff, 0xffff}, []uint32{r, g, b, a})
	assert.FileExists(t, FinishedPath(store.Dir))
}

func TestChunkRenderer_Cancelled(t *testing.T) {
	s := createTestScene(20, 10)
	store := newTestStore(t, "cancelled")
	counter := newCountingIntegrator()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats, err := NewChunkRenderer(NewPixelSampler(s, counter), store, ChunkConfig{ChunkSize: 10, NumWorkers: 1}, nil).Render(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, stats.Rendered)
	assert.Equal(t, int64(0), counter.rays.Load())
	assert.False(t, store.Exists(0, 0))
	assert.FileExists(t, filepath.Join(store.Dir, InfoFileName))
}

func TestStitch_MissingInfo(t *testing.T) {
	_, err := Stitch(t.TempDir())
	assert.ErrorIs(t, err, ErrNoInfo)
}

func TestFinishedPath(t *testing.T) {
	assert.Equal(t, filepath.Join("quilt", "scene")+"_FINISHED.png", FinishedPath(filepath.Join("quilt", "scene")+"/"))
}
