// Package server exposes the merged scene over HTTP for external drawing
// sinks. The surface is read-only: layout is recomputed per request from
// the location source and merged with the persisted overlay, never stored.
package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/mhagen/loreatlas/pkg/errors"
	"github.com/mhagen/loreatlas/pkg/layout"
	"github.com/mhagen/loreatlas/pkg/observability"
	"github.com/mhagen/loreatlas/pkg/overlay"
	"github.com/mhagen/loreatlas/pkg/render"
	"github.com/mhagen/loreatlas/pkg/scene"
	"github.com/mhagen/loreatlas/pkg/world"
)

// DefaultMapKey is the overlay record key used when the request does not
// name one.
const DefaultMapKey = "default"

// Server serves the scene API.
type Server struct {
	source world.Source
	store  overlay.Store
	logger *log.Logger
	router chi.Router
}

// New wires the routes. source provides the location records; store
// provides the persisted overlays.
func New(source world.Source, store overlay.Store, logger *log.Logger) *Server {
	s := &Server{
		source: source,
		store:  store,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/layout", s.handleLayout)
	r.Get("/api/scene", s.handleScene)
	r.Get("/api/scene.svg", s.handleSceneSVG)

	s.router = r
	return s
}

// Handler returns the http handler for the server.
func (s *Server) Handler() http.Handler { return s.router }

// logRequests emits one structured line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Microsecond),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleLayout returns the raw generated layout (no overrides applied).
// Query: seed (optional, overrides the stored layout seed).
func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	locs, err := s.source.Load(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	st, err := s.loadOverlay(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	nodes := layout.Generate(locs, layout.Options{Seed: st.LayoutSeed})
	edges := layout.BuildRoads(nodes, locs)

	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": nodes,
		"edges": edges,
	})
}

// handleScene returns the merged scene: generated layout with the overlay
// applied. Query: key (map key, default "default").
func (s *Server) handleScene(w http.ResponseWriter, r *http.Request) {
	sc, err := s.buildScene(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	data, err := render.RenderJSON(sc)
	observability.Render().OnRender(r.Context(), render.FormatJSON, len(data), time.Since(start), err)
	if err != nil {
		s.writeError(w, apperrors.Wrap(apperrors.ErrCodeRender, err, "encode scene"))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// handleSceneSVG returns the merged scene rendered through the SVG sink.
func (s *Server) handleSceneSVG(w http.ResponseWriter, r *http.Request) {
	sc, err := s.buildScene(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	start := time.Now()
	data := render.RenderSVG(sc, render.WithLabels())
	observability.Render().OnRender(r.Context(), render.FormatSVG, len(data), time.Since(start), nil)

	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (s *Server) buildScene(r *http.Request) (scene.Scene, error) {
	locs, err := s.source.Load(r.Context())
	if err != nil {
		return scene.Scene{}, err
	}
	st, err := s.loadOverlay(r)
	if err != nil {
		return scene.Scene{}, err
	}
	return scene.Build(r.Context(), locs, st), nil
}

func (s *Server) loadOverlay(r *http.Request) (*overlay.State, error) {
	key := r.URL.Query().Get("key")
	if key == "" {
		key = DefaultMapKey
	}
	return s.store.Load(r.Context(), key)
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeNotFound, apperrors.ErrCodeMapNotFound:
		status = http.StatusNotFound
	case apperrors.ErrCodeInvalidSource, apperrors.ErrCodeInvalidLocation:
		status = http.StatusBadGateway
	}

	s.logger.Error("request failed", "err", err)
	writeJSON(w, status, map[string]string{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
