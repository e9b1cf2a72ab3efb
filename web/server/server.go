package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/df07/go-weekend-raytracer/pkg/geometry"
	"github.com/df07/go-weekend-raytracer/pkg/renderer"
	"github.com/df07/go-weekend-raytracer/pkg/scene"
	"github.com/golang/glog"
)

// Server serves the live preview of a render over HTTP
type Server struct {
	addr    string
	preview *Preview
	console *Console

	mu     sync.RWMutex
	world  *geometry.HittableList // Held only while the render owns it
	camera renderer.Camera

	httpServer *http.Server
	listener   net.Listener
}

// NewServer creates a preview server. console may be nil.
func NewServer(addr string, preview *Preview, console *Console) *Server {
	if console == nil {
		console = NewConsole(0)
	}
	return &Server{addr: addr, preview: preview, console: console}
}

// SetScene enables pixel inspection against a scene; nil disables it.
// The scene's world is captured here, so the caller may clear
// sceneObj.World once inspection is disabled.
func (s *Server) SetScene(sceneObj *scene.Scene, camera renderer.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.world = nil
	if sceneObj != nil {
		s.world = sceneObj.World
	}
	s.camera = camera
}

// StatusResponse describes render progress
type StatusResponse struct {
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	PixelsWritten int     `json:"pixelsWritten"`
	PixelsTotal   int     `json:"pixelsTotal"`
	Progress      float64 `json:"progress"`
	Complete      bool    `json:"complete"`
}

// Handler returns the HTTP routes of the preview
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/api/preview.png", s.handlePreview)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/console", s.handleConsole)
	mux.HandleFunc("/api/inspect", s.handleInspect)
	return mux
}

// Start listens on the configured address and serves in the background.
// Only listen errors are returned; later serve errors are logged.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener
	s.httpServer = &http.Server{Handler: s.Handler()}

	glog.Infof("Preview available at http://%s", listener.Addr())
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			glog.Errorf("preview server stopped: %v", err)
		}
	}()
	return nil
}

// Addr returns the bound address once started
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.addr
	}
	return s.listener.Addr().String()
}

// Shutdown stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

// handleHealth provides a simple health check endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	written, total := s.preview.Progress()
	status := StatusResponse{
		Width:         s.preview.Bounds().Dx(),
		Height:        s.preview.Bounds().Dy(),
		PixelsWritten: written,
		PixelsTotal:   total,
		Complete:      s.preview.Complete(),
	}
	if total > 0 {
		status.Progress = float64(written) / float64(total)
	}
	writeJSON(w, http.StatusOK, status)
}

// handlePreview encodes the current preview as PNG
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	scale, err := parseIntParam(r.URL.Query(), "scale", 1, 1, 8)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-cache")
	if err := png.Encode(w, s.preview.Snapshot(scale)); err != nil {
		glog.Warningf("failed to encode preview: %v", err)
	}
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.List())
}

func (s *Server) handleConsole(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.console.Messages())
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexHTML)
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
	if err := json.NewEncoder(w).Encode(v); err != nil {
		glog.Warningf("failed to write response: %v", err)
	}
}

const indexHTML = `<!DOCTYPE html>
<html>
<head><title>Raytracer preview</title></head>
<body style="background:#222;color:#ddd;font-family:monospace">
<img id="preview" src="/api/preview.png" style="image-rendering:pixelated">
<pre id="status"></pre>
<script>
async function refresh() {
  const status = await (await fetch('/api/status')).json();
  document.getElementById('status').textContent =
    (status.progress * 100).toFixed(1) + '% ' + (status.complete ? 'complete' : 'rendering');
  document.getElementById('preview').src = '/api/preview.png?t=' + Date.now();
  if (!status.complete) setTimeout(refresh, 500);
}
refresh();
</script>
</body>
</html>
`
