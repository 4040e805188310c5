package renderer

import (
	"errors"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/fogleman/gg"
)

const (
	// InfoFileName holds "<width> <height>" of the full image
	InfoFileName = "info.txt"
	// FinishedSuffix is appended to the chunk directory name for the stitched image
	FinishedSuffix = "_FINISHED.png"
)

// ErrNoInfo is returned when a chunk directory has no readable info file
var ErrNoInfo = errors.New("chunk directory has no image info")

// ChunkStore persists rendered chunks as <x>_<y>.png files named by their
// top-left pixel, next to an info file with the full image size
type ChunkStore struct {
	Dir string
}

// ChunkFile describes one chunk found on disk
type ChunkFile struct {
	X, Y int
	Path string
}

// NewChunkStore creates the directory if needed
func NewChunkStore(dir string) (*ChunkStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating chunk directory: %w", err)
	}
	return &ChunkStore{Dir: dir}, nil
}

// Path returns the file path of the chunk whose top-left pixel is (x, y)
func (cs *ChunkStore) Path(x, y int) string {
	return filepath.Join(cs.Dir, fmt.Sprintf("%d_%d.png", x, y))
}

// Exists reports whether the chunk at (x, y) was already rendered
func (cs *ChunkStore) Exists(x, y int) bool {
	info, err := os.Stat(cs.Path(x, y))
	return err == nil && info.Mode().IsRegular()
}

// Save writes a chunk image as PNG
func (cs *ChunkStore) Save(x, y int, img image.Image) error {
	if err := imgio.Save(cs.Path(x, y), img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("saving chunk %d_%d: %w", x, y, err)
	}
	return nil
}

// WriteInfo records the full image size
func (cs *ChunkStore) WriteInfo(width, height int) error {
	data := fmt.Sprintf("%d %d", width, height)
	if err := os.WriteFile(filepath.Join(cs.Dir, InfoFileName), []byte(data), 0o644); err != nil {
		return fmt.Errorf("writing chunk info: %w", err)
	}
	return nil
}

// ReadInfo returns the full image size recorded by WriteInfo
func (cs *ChunkStore) ReadInfo() (width, height int, err error) {
	data, err := os.ReadFile(filepath.Join(cs.Dir, InfoFileName))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, 0, fmt.Errorf("%w: %s", ErrNoInfo, cs.Dir)
		}
		return 0, 0, fmt.Errorf("reading chunk info: %w", err)
	}

	fields := strings.Fields(string(data))
	if len(fields) != 2 {
		return 0, 0, fmt.Errorf("%w: malformed %q", ErrNoInfo, string(data))
	}
	if width, err = strconv.Atoi(fields[0]); err != nil {
		return 0, 0, fmt.Errorf("%w: width: %v", ErrNoInfo, err)
	}
	if height, err = strconv.Atoi(fields[1]); err != nil {
		return 0, 0, fmt.Errorf("%w: height: %v", ErrNoInfo, err)
	}
	return width, height, nil
}

// Chunks lists the chunk files in the directory, ordered by row then column.
// PNG files whose names are not <x>_<y> are ignored.
func (cs *ChunkStore) Chunks() ([]ChunkFile, error) {
	entries, err := os.ReadDir(cs.Dir)
	if err != nil {
		return nil, fmt.Errorf("listing chunks: %w", err)
	}

	var chunks []ChunkFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".png") {
			continue
		}
		xs, ys, ok := strings.Cut(strings.TrimSuffix(name, ".png"), "_")
		if !ok {
			continue
		}
		x, errX := strconv.Atoi(xs)
		y, errY := strconv.Atoi(ys)
		if errX != nil || errY != nil {
			continue
		}
		chunks = append(chunks, ChunkFile{X: x, Y: y, Path: filepath.Join(cs.Dir, name)})
	}

	sort.Slice(chunks, func(i, j int) bool {
		if chunks[i].Y != chunks[j].Y {
			return chunks[i].Y < chunks[j].Y
		}
		return chunks[i].X < chunks[j].X
	})
	return chunks, nil
}

// FinishedPath returns where Stitch writes the image for dir
func FinishedPath(dir string) string {
	return filepath.Clean(dir) + FinishedSuffix
}

// Stitch composes every chunk in dir into one image of the recorded size and
// saves it to FinishedPath(dir). The composed image is returned.
func Stitch(dir string) (image.Image, error) {
	store := &ChunkStore{Dir: dir}
	width, height, err := store.ReadInfo()
	if err != nil {
		return nil, err
	}
	chunks, err := store.Chunks()
	if err != nil {
		return nil, err
	}

	dc := gg.NewContext(width, height)
	for _, chunk := range chunks {
		img, err := imgio.Open(chunk.Path)
		if err != nil {
			return nil, fmt.Errorf("loading chunk %s: %w", chunk.Path, err)
		}
		dc.DrawImage(img, chunk.X, chunk.Y)
	}

	if err := dc.SavePNG(FinishedPath(dir)); err != nil {
		return nil, fmt.Errorf("saving stitched image: %w", err)
	}
	return dc.Image(), nil
}
