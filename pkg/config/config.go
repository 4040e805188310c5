// Package config loads the TOML render configuration shared by the command
// line and the preview server.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/noise"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// ErrInvalid is wrapped by every validation error
var ErrInvalid = errors.New("invalid configuration")

// Config is the complete render configuration. Zero-valued image settings
// fall back to the scene's own resolution; an unset max_depth and zero
// samples_per_pixel fall back to the scene's sampling settings.
type Config struct {
	Scene      string  `toml:"scene"`
	ScenesDir  string  `toml:"scenes_dir"`
	OutputDir  string  `toml:"output_dir"`
	Width      int     `toml:"width"`
	Height     int     `toml:"height"`
	NoiseSeeds []int64 `toml:"noise_seeds"`

	Shading     Shading     `toml:"shading"`
	Progressive Progressive `toml:"progressive"`
	Chunked     Chunked     `toml:"chunked"`
	Server      Server      `toml:"server"`
}

// Shading configures the Whitted integrator. A nil MaxDepth uses the scene's.
type Shading struct {
	MaxDepth   *int   `toml:"max_depth,omitempty"`
	ShadowMode string `toml:"shadow_mode"`
}

// Progressive configures the coarse-to-fine renderer
type Progressive struct {
	TileSize        int `toml:"tile_size"`
	StartPixelSize  int `toml:"start_pixel_size"`
	MinPixelSize    int `toml:"min_pixel_size"`
	SamplesPerPixel int `toml:"samples_per_pixel"`
	Workers         int `toml:"workers"`
}

// Chunked configures the resumable chunk renderer
type Chunked struct {
	Dir             string `toml:"dir"`
	ChunkSize       int    `toml:"chunk_size"`
	SamplesPerPixel int    `toml:"samples_per_pixel"`
	Workers         int    `toml:"workers"`
}

// Server configures the preview server
type Server struct {
	Port      int    `toml:"port"`
	StaticDir string `toml:"static_dir"`
}

// Default returns the configuration used when no file is given
func Default() Config {
	progressive := renderer.DefaultProgressiveConfig()
	chunked := renderer.DefaultChunkConfig()
	return Config{
		Scene:      "default",
		ScenesDir:  scene.ScenesDir(),
		OutputDir:  "output",
		NoiseSeeds: noise.DefaultSeeds(),
		Shading: Shading{
			ShadowMode: integrator.ShadowFirstOccluder.String(),
		},
		Progressive: Progressive{
			TileSize:       progressive.TileSize,
			StartPixelSize: progressive.StartPixelSize,
			MinPixelSize:   progressive.MinPixelSize,
			Workers:        progressive.NumWorkers,
		},
		Chunked: Chunked{
			Dir:       "quilt",
			ChunkSize: chunked.ChunkSize,
			Workers:   chunked.NumWorkers,
		},
		Server: Server{
			Port: 8080,
		},
	}
}

// Open reads a TOML file over the defaults. Keys missing from the file keep
// their default values; unknown keys are an error.
func Open(filename string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		var strict *toml.StrictMissingError
		if errors.As(err, &strict) {
			return cfg, fmt.Errorf("%w: %s: %s", ErrInvalid, filename, strict.String())
		}
		return cfg, fmt.Errorf("parsing config %s: %w", filename, err)
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration as TOML
func (c Config) Save(filename string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Validate checks ranges that would otherwise fail deep inside a render
func (c Config) Validate() error {
	switch {
	case c.Width < 0 || c.Height < 0:
		return fmt.Errorf("%w: negative resolution %dx%d", ErrInvalid, c.Width, c.Height)
	case (c.Width == 0) != (c.Height == 0):
		return fmt.Errorf("%w: width and height must be set together", ErrInvalid)
	case c.Shading.MaxDepth != nil && *c.Shading.MaxDepth < 0:
		return fmt.Errorf("%w: max_depth %d", ErrInvalid, *c.Shading.MaxDepth)
	case c.Progressive.SamplesPerPixel < 0 || c.Chunked.SamplesPerPixel < 0:
		return fmt.Errorf("%w: negative samples_per_pixel", ErrInvalid)
	case c.Chunked.ChunkSize < 0 || c.Progressive.TileSize < 0:
		return fmt.Errorf("%w: negative tile size", ErrInvalid)
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("%w: port %d", ErrInvalid, c.Server.Port)
	}
	if _, err := integrator.ParseShadowMode(c.Shading.ShadowMode); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Whitted returns the integrator settings for a scene
func (c Config) Whitted(sampling scene.SamplingConfig) (integrator.WhittedConfig, error) {
	mode, err := integrator.ParseShadowMode(c.Shading.ShadowMode)
	if err != nil {
		return integrator.WhittedConfig{}, err
	}
	maxDepth := sampling.MaxDepth
	if c.Shading.MaxDepth != nil {
		maxDepth = *c.Shading.MaxDepth
	}
	return integrator.WhittedConfig{MaxDepth: maxDepth, ShadowMode: mode}, nil
}

// ProgressiveConfig returns the progressive renderer settings for a scene
func (c Config) ProgressiveConfig(sampling scene.SamplingConfig) renderer.ProgressiveConfig {
	return renderer.ProgressiveConfig{
		TileSize:        c.Progressive.TileSize,
		StartPixelSize:  c.Progressive.StartPixelSize,
		MinPixelSize:    c.Progressive.MinPixelSize,
		SamplesPerPixel: samplesOr(c.Progressive.SamplesPerPixel, sampling),
		NumWorkers:      c.Progressive.Workers,
	}
}

// ChunkConfig returns the chunk renderer settings for a scene
func (c Config) ChunkConfig(sampling scene.SamplingConfig) renderer.ChunkConfig {
	return renderer.ChunkConfig{
		ChunkSize:       c.Chunked.ChunkSize,
		SamplesPerPixel: samplesOr(c.Chunked.SamplesPerPixel, sampling),
		NumWorkers:      c.Chunked.Workers,
	}
}

// WithMaxDepth returns a copy of c with max_depth set
func (c Config) WithMaxDepth(depth int) Config {
	c.Shading.MaxDepth = &depth
	return c
}

func samplesOr(samples int, sampling scene.SamplingConfig) int {
	if samples > 0 {
		return samples
	}
	return max(1, sampling.SamplesPerPixel)
}

// NoiseSet builds the noise fields named by NoiseSeeds
func (c Config) NoiseSet() *noise.Set {
	if len(c.NoiseSeeds) == 0 {
		return noise.NewDefaultSet()
	}
	return noise.NewSet(c.NoiseSeeds...)
}
