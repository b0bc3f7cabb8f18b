package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ppsrender/pathtracer/pkg/geometry"
	"github.com/ppsrender/pathtracer/pkg/integrator"
	"github.com/ppsrender/pathtracer/pkg/loaders"
	"github.com/ppsrender/pathtracer/pkg/renderer"
	"github.com/ppsrender/pathtracer/pkg/scene"
)

// Server handles web requests for the path tracer
type Server struct {
	port      int
	scenesDir string
}

// NewServer creates a new web server that resolves JSON scenes from scenesDir
func NewServer(port int, scenesDir string) *Server {
	return &Server{port: port, scenesDir: scenesDir}
}

// RenderRequest represents a render request from the client
type RenderRequest struct {
	Scene  string                      `json:"scene"`  // Scene name or JSON file name
	Width  int                         `json:"width"`  // Image width, 0 = scene default
	Height int                         `json:"height"` // Image height, 0 = scene default
	Depth  int                         `json:"depth"`  // Maximum bounce depth, 0 = scene default
	Policy integrator.RefractionPolicy `json:"-"`
	Format string                      `json:"format"` // "png" or "json"
}

// RenderResponse is the JSON form of a finished render
type RenderResponse struct {
	ImageData string           `json:"imageData"` // Base64 encoded PNG
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Stats     Stats            `json:"stats"`
	Console   []ConsoleMessage `json:"console"`
	ElapsedMs int64            `json:"elapsedMs"`
}

// Stats represents render statistics
type Stats struct {
	TotalPixels     int     `json:"totalPixels"`
	BlackPixels     int     `json:"blackPixels"`
	NaNPixels       int     `json:"nanPixels"`
	InfPixels       int     `json:"infPixels"`
	Luminance       float64 `json:"luminance"`
	PixelsPerSecond float64 `json:"pixelsPerSecond"`
}

// Handler returns the server's routes
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start starts the web server
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.port)
	log.Printf("Starting web server on http://localhost%s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleScenes lists built-in scenes followed by JSON scene files
func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	scenes := scene.ListBuiltInScenes()
	files, err := scene.ListSceneFiles(s.scenesDir)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list scenes: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, append(scenes, files...))
}

// handleRender renders a whole frame and returns it as PNG or JSON
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRenderRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	sceneObj, err := s.createScene(req)
	if err != nil {
		writeSceneError(w, req.Scene, err)
		return
	}

	consoleChan := make(chan ConsoleMessage, 64)
	logger := NewWebLogger(req.Scene, consoleChan)

	config := integrator.DefaultConfig()
	config.MaxDepth = sceneObj.SamplingConfig.MaxDepth
	if req.Depth > 0 {
		config.MaxDepth = req.Depth
	}
	config.Background = sceneObj.Background
	config.Policy = req.Policy

	startTime := time.Now()
	raytracer := renderer.NewRaytracer(sceneObj, sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height,
		integrator.NewPathTracingIntegrator(config), logger)
	fb, renderStats, err := raytracer.Render(r.Context())
	if err != nil {
		// The client is gone or gave up
		log.Printf("Render of %s aborted: %v", req.Scene, err)
		return
	}

	if req.Format == "png" {
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		if err := png.Encode(w, fb.ToImage()); err != nil {
			log.Printf("Failed to write PNG: %v", err)
		}
		return
	}

	imageData, err := s.imageToBase64PNG(fb.ToImage())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to encode image: "+err.Error())
		return
	}

	close(consoleChan)
	var console []ConsoleMessage
	for msg := range consoleChan {
		console = append(console, msg)
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		ImageData: imageData,
		Width:     fb.Width,
		Height:    fb.Height,
		Stats: Stats{
			TotalPixels:     renderStats.TotalPixels,
			BlackPixels:     renderStats.BlackPixels,
			NaNPixels:       renderStats.NaNPixels,
			InfPixels:       renderStats.InfPixels,
			Luminance:       renderStats.Luminance,
			PixelsPerSecond: renderStats.PixelsPerSecond(),
		},
		Console:   console,
		ElapsedMs: time.Since(startTime).Milliseconds(),
	})
}

// parseRenderRequest parses the scene parameters shared by render and inspect
func (s *Server) parseRenderRequest(r *http.Request) (*RenderRequest, error) {
	query := r.URL.Query()
	req := &RenderRequest{
		Scene:  query.Get("scene"),
		Format: query.Get("format"),
	}
	if req.Scene == "" {
		req.Scene = "checkerboard"
	}

	var err error
	if req.Width, err = parseIntParam(query, "width", 0, 0, 4096); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(query, "height", 0, 0, 4096); err != nil {
		return nil, err
	}
	if req.Depth, err = parseIntParam(query, "depth", 0, 0, 100); err != nil {
		return nil, err
	}

	policy, ok := integrator.ParseRefractionPolicy(query.Get("policy"))
	if !ok {
		return nil, fmt.Errorf("unknown refraction policy %q", query.Get("policy"))
	}
	req.Policy = policy

	switch req.Format {
	case "":
		req.Format = "json"
	case "json", "png":
	default:
		return nil, fmt.Errorf("unknown format %q", req.Format)
	}
	return req, nil
}

// parseIntParam parses an optional bounded integer query parameter
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	str := values.Get(key)
	if str == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(str)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if value < min || value > max {
		return 0, fmt.Errorf("%s must be between %d and %d", key, min, max)
	}
	return value, nil
}

// createScene resolves the requested scene and applies size overrides.
// Only names are accepted, never paths.
func (s *Server) createScene(req *RenderRequest) (*scene.Scene, error) {
	name := req.Scene
	if strings.ContainsAny(name, `/\`) || strings.HasSuffix(name, ".json") {
		return nil, fmt.Errorf("%w: %s", scene.ErrUnknownScene, name)
	}

	// IDs from /api/scenes name JSON scenes as json:<file name>
	var sceneObj *scene.Scene
	var err error
	if fileName, ok := strings.CutPrefix(name, scene.JSONScenePrefix); ok {
		sceneObj, err = loadSceneFile(s.scenesDir, fileName)
	} else {
		sceneObj, err = loaders.ResolveScene(name, s.scenesDir)
	}
	if err != nil {
		return nil, err
	}

	width, height := sceneObj.SamplingConfig.Width, sceneObj.SamplingConfig.Height
	if req.Width > 0 {
		width = req.Width
	}
	if req.Height > 0 {
		height = req.Height
	}
	if width != sceneObj.SamplingConfig.Width || height != sceneObj.SamplingConfig.Height {
		sceneObj.SamplingConfig.Width = width
		sceneObj.SamplingConfig.Height = height
		sceneObj.CameraConfig.AspectRatio = float64(width) / float64(height)
		sceneObj.Camera = geometry.NewCamera(sceneObj.CameraConfig)
	}
	return sceneObj, nil
}

// loadSceneFile loads <dir>/<name>.json, reporting a missing file as an unknown scene
func loadSceneFile(dir, name string) (*scene.Scene, error) {
	path := filepath.Join(dir, name+".json")
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("%w: %s%s", scene.ErrUnknownScene, scene.JSONScenePrefix, name)
	}
	return loaders.LoadScene(path)
}

// imageToBase64PNG converts an image to base64 encoded PNG
func (s *Server) imageToBase64PNG(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("Failed to write response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeSceneError reports unknown scenes as 404 and broken scene files as 400
func writeSceneError(w http.ResponseWriter, name string, err error) {
	if errors.Is(err, scene.ErrUnknownScene) {
		writeError(w, http.StatusNotFound, "Unknown scene: "+name)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid scene: "+err.Error())
}
