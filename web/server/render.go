package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"log/slog"
	"net/http"
	"time"

	"github.com/anthonynsimon/bild/imgio"

	"github.com/df07/go-whitted-raytracer/pkg/integrator"
	"github.com/df07/go-whitted-raytracer/pkg/renderer"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// TileUpdate represents a single tile update sent via SSE
type TileUpdate struct {
	TileX       int    `json:"tileX"`
	TileY       int    `json:"tileY"`
	ImageData   string `json:"imageData"` // Base64 encoded PNG of just this tile
	PassNumber  int    `json:"passNumber"`
	TileNumber  int    `json:"tileNumber"`  // Current tile number in this pass (1-based)
	TotalTiles  int    `json:"totalTiles"`  // Total number of tiles in the image
	TotalPasses int    `json:"totalPasses"` // Total number of passes planned
}

// PassUpdate is sent via SSE when a pass finishes
type PassUpdate struct {
	PassNumber     int    `json:"passNumber"`
	TotalPasses    int    `json:"totalPasses"`
	PixelSize      int    `json:"pixelSize"`
	ElapsedMs      int64  `json:"elapsedMs"`
	SampledPixels  int    `json:"sampledPixels"`
	ReusedPixels   int    `json:"reusedPixels"`
	TotalSamples   int    `json:"totalSamples"`
	PrimitiveCount int    `json:"primitiveCount"`
	ImageData      string `json:"imageData"` // Base64 encoded PNG of the whole frame
	IsComplete     bool   `json:"isComplete"`
}

// SSEEvent represents a unified SSE event for thread-safe writing
type SSEEvent struct {
	Type string `json:"type"` // "console", "tile", "passComplete", "error", "complete"
	Data string `json:"data"` // JSON-encoded data
}

// RenderingPipeline contains the configured scene and renderer
type RenderingPipeline struct {
	Scene    *scene.Scene
	Renderer *renderer.ProgressiveRenderer
}

// handleRender handles progressive rendering with real-time tile streaming via SSE
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	s.setSSEHeaders(w)

	ctx := r.Context()

	// All writes to w happen on the writer goroutine
	sseEventChan := make(chan SSEEvent, 100)
	writerDone := make(chan struct{})
	go func() {
		s.writeSSEEvents(ctx, w, sseEventChan)
		close(writerDone)
	}()
	defer func() {
		close(sseEventChan)
		<-writerDone
	}()

	req, err := s.parseRenderRequest(r)
	if err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Invalid request: %v", err))
		return
	}

	consoleChan, webLogger := s.setupConsoleLogging()
	consoleDone := make(chan struct{})
	go func() {
		s.streamConsoleMessages(ctx, consoleChan, sseEventChan)
		close(consoleDone)
	}()
	defer func() {
		close(consoleChan)
		<-consoleDone
	}()

	pipeline, err := s.setupRenderingPipeline(req, webLogger)
	if err != nil {
		s.handleError(ctx, sseEventChan, err.Error())
		return
	}

	startTime := time.Now()
	passChan, tileChan, errChan := pipeline.Renderer.RenderProgressive(ctx, renderer.RenderOptions{TileUpdates: true})
	s.handleRenderingEvents(ctx, sseEventChan, passChan, tileChan, errChan, pipeline, startTime)
}

// setSSEHeaders sets the required headers for Server-Sent Events
func (s *Server) setSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

// setupConsoleLogging creates console channel and web logger for a render
func (s *Server) setupConsoleLogging() (chan ConsoleMessage, *slog.Logger) {
	consoleChan := make(chan ConsoleMessage, 50)
	renderID := fmt.Sprintf("render-%d", time.Now().UnixNano())
	return consoleChan, NewWebLogger(renderID, consoleChan, s.logger.Handler())
}

// writeSSEEvents handles writing all SSE events in a single goroutine
func (s *Server) writeSSEEvents(ctx context.Context, w http.ResponseWriter, sseEventChan <-chan SSEEvent) {
	for {
		select {
		case event, ok := <-sseEventChan:
			if !ok {
				return
			}
			if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Type, event.Data); err != nil {
				// Client disconnected during write; keep draining so senders never block
				continue
			}
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}

		case <-ctx.Done():
			// Client disconnected; drain until the handler closes the channel
			for range sseEventChan {
			}
			return
		}
	}
}

// streamConsoleMessages forwards console messages as SSE events
func (s *Server) streamConsoleMessages(ctx context.Context, consoleChan <-chan ConsoleMessage, sseEventChan chan<- SSEEvent) {
	for consoleMsg := range consoleChan {
		data, err := json.Marshal(consoleMsg)
		if err != nil {
			s.logger.Error("marshaling console message", "error", err)
			continue
		}

		select {
		case sseEventChan <- SSEEvent{Type: "console", Data: string(data)}:
		case <-ctx.Done():
		default:
			// Channel full, skip message to avoid blocking
		}
	}
}

// parseRenderRequest parses request parameters
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	req := &RenderRequest{}
	if err := s.parseCommonSceneParams(r, req); err != nil {
		return nil, err
	}

	query := r.URL.Query()
	defaults := s.config.Progressive
	var err error
	if req.StartPixelSize, err = parseIntParam(query, "startPixelSize", defaults.StartPixelSize, 1, 512); err != nil {
		return nil, err
	}
	if req.MinPixelSize, err = parseIntParam(query, "minPixelSize", defaults.MinPixelSize, 1, 512); err != nil {
		return nil, err
	}
	// Absent sampling parameters resolve against the scene once it is loaded
	if req.SamplesPerPixel, err = parseIntParam(query, "samplesPerPixel", defaults.SamplesPerPixel, 1, 16); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(query, "maxDepth", -1, 0, 20); err != nil {
		return nil, err
	}

	req.ShadowMode = query.Get("shadowMode")
	if req.ShadowMode == "" {
		req.ShadowMode = s.config.Shading.ShadowMode
	}
	if _, err := integrator.ParseShadowMode(req.ShadowMode); err != nil {
		return nil, err
	}

	if req.Width*req.Height > 1920*1080 && req.SamplesPerPixel > 4 {
		s.logger.Warn("large image with high samples may render slowly", "width", req.Width, "height", req.Height)
	}
	return req, nil
}

// setupRenderingPipeline creates and configures the scene and renderer
func (s *Server) setupRenderingPipeline(req *RenderRequest, logger *slog.Logger) (*RenderingPipeline, error) {
	sceneObj, err := s.loadScene(req.Scene)
	if err != nil {
		return nil, err
	}
	if req.Width > 0 && req.Height > 0 {
		sceneObj.SetResolution(req.Width, req.Height)
	}

	cfg := s.config
	cfg.Shading.ShadowMode = req.ShadowMode
	cfg.Progressive.StartPixelSize = req.StartPixelSize
	cfg.Progressive.MinPixelSize = req.MinPixelSize
	cfg.Progressive.SamplesPerPixel = req.SamplesPerPixel
	if req.MaxDepth >= 0 {
		cfg = cfg.WithMaxDepth(req.MaxDepth)
	}

	whitted, err := cfg.Whitted(sceneObj.SamplingConfig)
	if err != nil {
		return nil, err
	}
	integ := integrator.NewWhittedIntegrator(whitted)
	config := cfg.ProgressiveConfig(sceneObj.SamplingConfig)

	return &RenderingPipeline{
		Scene:    sceneObj,
		Renderer: renderer.NewProgressiveRenderer(renderer.NewPixelSampler(sceneObj, integ), config, logger),
	}, nil
}

// handleRenderingEvents processes the main rendering event loop
func (s *Server) handleRenderingEvents(ctx context.Context, sseEventChan chan<- SSEEvent,
	passChan <-chan renderer.PassResult, tileChan <-chan renderer.TileCompletionResult, errChan <-chan error,
	pipeline *RenderingPipeline, startTime time.Time) {

	for passChan != nil || tileChan != nil {
		select {
		case passResult, ok := <-passChan:
			if !ok {
				passChan = nil
				continue
			}
			s.handlePassComplete(ctx, sseEventChan, passResult, pipeline, startTime)

		case tileResult, ok := <-tileChan:
			if !ok {
				tileChan = nil
				continue
			}
			s.handleTileUpdate(ctx, sseEventChan, tileResult)

		case <-ctx.Done():
			// The render goroutine still logs until it stops
			for range errChan {
			}
			return
		}
	}

	// errChan is closed once rendering stops
	if err := <-errChan; err != nil {
		s.handleError(ctx, sseEventChan, fmt.Sprintf("Rendering failed: %v", err))
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "complete", Data: "Rendering completed"}:
	case <-ctx.Done():
	}
}

// handlePassComplete processes and sends pass completion events
func (s *Server) handlePassComplete(ctx context.Context, sseEventChan chan<- SSEEvent, passResult renderer.PassResult, pipeline *RenderingPipeline, startTime time.Time) {
	imageData, err := imageToBase64PNG(passResult.Image)
	if err != nil {
		s.logger.Error("encoding pass image", "pass", passResult.PassNumber, "error", err)
		return
	}

	update := PassUpdate{
		PassNumber:     passResult.PassNumber,
		TotalPasses:    len(pipeline.Renderer.PixelSizes()),
		PixelSize:      passResult.PixelSize,
		ElapsedMs:      time.Since(startTime).Milliseconds(),
		SampledPixels:  passResult.Stats.SampledPixels,
		ReusedPixels:   passResult.Stats.ReusedPixels,
		TotalSamples:   passResult.Stats.TotalSamples,
		PrimitiveCount: pipeline.Scene.GetPrimitiveCount(),
		ImageData:      imageData,
		IsComplete:     passResult.IsLast,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Error("marshaling pass update", "error", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "passComplete", Data: string(data)}:
	case <-ctx.Done():
	}
}

// handleTileUpdate processes and sends tile update events
func (s *Server) handleTileUpdate(ctx context.Context, sseEventChan chan<- SSEEvent, tileResult renderer.TileCompletionResult) {
	tileData, err := imageToBase64PNG(tileResult.TileImage)
	if err != nil {
		s.logger.Error("encoding tile image", "tileX", tileResult.TileX, "tileY", tileResult.TileY, "error", err)
		return
	}

	update := TileUpdate{
		TileX:       tileResult.TileX,
		TileY:       tileResult.TileY,
		ImageData:   tileData,
		PassNumber:  tileResult.PassNumber,
		TileNumber:  tileResult.TileNumber,
		TotalTiles:  tileResult.TotalTiles,
		TotalPasses: tileResult.TotalPasses,
	}

	data, err := json.Marshal(update)
	if err != nil {
		s.logger.Error("marshaling tile update", "error", err)
		return
	}

	select {
	case sseEventChan <- SSEEvent{Type: "tile", Data: string(data)}:
	case <-ctx.Done():
	}
}

// imageToBase64PNG converts an image to base64-encoded PNG
func imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := imgio.PNGEncoder()(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// handleError sends an error event to the SSE channel
func (s *Server) handleError(ctx context.Context, sseEventChan chan<- SSEEvent, message string) {
	s.logger.Warn("render request failed", "error", message)
	select {
	case sseEventChan <- SSEEvent{Type: "error", Data: message}:
	case <-ctx.Done():
	}
}
