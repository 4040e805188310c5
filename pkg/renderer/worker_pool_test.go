package renderer

import (
	"errors"
	"image"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkerPool_RunsEveryTask(t *testing.T) {
	pool := NewWorkerPool(10, 3, func(task TileTask) (RenderStats, error) {
		return RenderStats{TotalPixels: task.Tile.Bounds.Dx()}, nil
	})
	assert.Equal(t, 3, pool.GetNumWorkers())
	pool.Start()
	pool.Start()

	for i := 0; i < 10; i++ {
		pool.SubmitTask(TileTask{Tile: NewTile(i, image.Rect(0, 0, i, 1)), TaskID: i})
	}

	var ids []int
	for i := 0; i < 10; i++ {
		result, ok := pool.GetResult()
		require.True(t, ok)
		require.NoError(t, result.Error)
		assert.Equal(t, result.TaskID, result.Stats.TotalPixels)
		ids = append(ids, result.TaskID)
	}
	pool.Stop()

	sort.Ints(ids)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ids)

	_, ok := pool.GetResult()
	assert.False(t, ok)
}

func TestWorkerPool_ReportsErrors(t *testing.T) {
	boom := errors.New("boom")
	pool := NewWorkerPool(1, 1, func(task TileTask) (RenderStats, error) {
		return RenderStats{}, boom
	})
	pool.Start()
	pool.SubmitTask(TileTask{Tile: NewTile(0, image.Rect(0, 0, 1, 1))})

	result, ok := pool.GetResult()
	require.True(t, ok)
	assert.ErrorIs(t, result.Error, boom)
	pool.Stop()
}

func TestDefaultWorkerCount(t *testing.T) {
	assert.Positive(t, DefaultWorkerCount())
	assert.Positive(t, NewWorkerPool(1, 0, nil).GetNumWorkers())
}
