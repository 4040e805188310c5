package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/df07/go-whitted-raytracer/pkg/config"
	"github.com/df07/go-whitted-raytracer/pkg/scene"
)

// Server streams progressive renders to a browser
type Server struct {
	config config.Config
	logger *slog.Logger
}

// NewServer creates a new web server. A nil logger discards output.
func NewServer(cfg config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{config: cfg, logger: logger}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene           string `json:"scene"`           // Scene ID (e.g., "default", "yaml:glass")
	Width           int    `json:"width"`           // Image width
	Height          int    `json:"height"`          // Image height
	StartPixelSize  int    `json:"startPixelSize"`  // Block size of the first pass
	MinPixelSize    int    `json:"minPixelSize"`    // Block size of the last pass
	SamplesPerPixel int    `json:"samplesPerPixel"` // Supersampling per block, squared; 0 uses the scene's
	MaxDepth        int    `json:"maxDepth"`        // Recursion bound; negative uses the scene's
	ShadowMode      string `json:"shadowMode"`      // "first-occluder" or "per-light"
}

// Handler returns the HTTP routes of the server
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	if s.config.Server.StaticDir != "" {
		mux.Handle("/", http.FileServer(http.Dir(s.config.Server.StaticDir)))
	}
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/scene-config", s.handleSceneConfig)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start serves until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info("starting web server", "url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists the built-in scenes and the scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	groups, err := scene.ListAllScenes(s.config.ScenesDir, s.logger)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, groups)
}

// handleSceneConfig returns the default configuration for a scene
func (s *Server) handleSceneConfig(w http.ResponseWriter, r *http.Request) {
	sceneID := r.URL.Query().Get("scene")
	if sceneID == "" {
		sceneID = s.config.Scene
	}

	sceneObj, err := s.loadScene(sceneID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	sampling := sceneObj.SamplingConfig
	whitted, err := s.config.Whitted(sampling)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	camera := sceneObj.CameraConfig
	response := map[string]interface{}{
		"scene": sceneID,
		"defaults": map[string]interface{}{
			"width":           sampling.Width,
			"height":          sampling.Height,
			"samplesPerPixel": s.config.ProgressiveConfig(sampling).SamplesPerPixel,
			"maxDepth":        whitted.MaxDepth,
			"startPixelSize":  s.config.Progressive.StartPixelSize,
			"minPixelSize":    s.config.Progressive.MinPixelSize,
			"shadowMode":      s.config.Shading.ShadowMode,
			"fieldOfView":     camera.FieldOfView,
		},
		"objects": len(sceneObj.Objects),
		"lights":  len(sceneObj.Lights),
		"limits": map[string]interface{}{
			"width":           map[string]int{"min": 1, "max": 4000},
			"height":          map[string]int{"min": 1, "max": 4000},
			"startPixelSize":  map[string]int{"min": 1, "max": 512},
			"minPixelSize":    map[string]int{"min": 1, "max": 512},
			"samplesPerPixel": map[string]int{"min": 1, "max": 16},
			"maxDepth":        map[string]int{"min": 0, "max": 20},
		},
	}
	writeJSON(w, http.StatusOK, response)
}

// loadScene builds a fresh scene for one request
func (s *Server) loadScene(id string) (*scene.Scene, error) {
	return scene.Load(id, s.config.ScenesDir, s.config.NoiseSet())
}

// parseCommonSceneParams parses the scene and resolution shared by render
// and inspect requests. A zero resolution means the scene's own.
func (s *Server) parseCommonSceneParams(r *http.Request, req *RenderRequest) error {
	query := r.URL.Query()
	req.Scene = query.Get("scene")
	if req.Scene == "" {
		req.Scene = s.config.Scene
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", s.config.Width, 1, 4000); err != nil {
		return err
	}
	if req.Height, err = parseIntParam(query, "height", s.config.Height, 1, 4000); err != nil {
		return err
	}
	return nil
}

// parseIntParam parses an integer parameter from URL query with validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got: %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
