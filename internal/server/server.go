// Package server exposes the resolver surface over HTTP for the
// presentation layer. Map rendering itself happens client-side; the server
// runs headless with a no-op render target.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"station-walk-router/internal/models"
	"station-walk-router/internal/resolver"
	"station-walk-router/internal/stations"
)

// Server wraps the HTTP server and its dependencies
type Server struct {
	httpServer *http.Server
	resolver   *resolver.Resolver
	directory  *stations.Directory
	renderer   resolver.RouteRenderer
}

// Config holds server configuration
type Config struct {
	Addr string
}

// New creates a server over the given resolver and directory
func New(cfg Config, res *resolver.Resolver, directory *stations.Directory) *Server {
	s := &Server{
		resolver:  res,
		directory: directory,
		renderer:  resolver.NopRenderer{},
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"*"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(r chi.Router) {
		r.Post("/resolve", s.handleResolve)
		r.Post("/clear", s.handleClear)
		r.Get("/routes", s.handleRoutes)
		r.Post("/routes/{id}/activate", s.handleActivate)
		r.Get("/routes/station/{name}", s.handleRouteForStation)
		r.Get("/stations/near", s.handleStationsNear)
	})

	s.httpServer = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
	return s
}

// Start begins serving; blocks until the server stops
func (s *Server) Start() error {
	log.Printf("[SERVER] Listening on %s", s.httpServer.Addr)
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Handler returns the HTTP handler, for tests
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// ErrorResponse is the JSON error envelope
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"state":     s.resolver.State(),
		"timestamp": time.Now().UTC(),
	})
}

type resolveRequest struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "body must be JSON with lng and lat")
		return
	}
	if req.Lat < -90 || req.Lat > 90 || req.Lng < -180 || req.Lng > 180 {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "coordinates out of range")
		return
	}

	result, err := s.resolver.Resolve(models.Coordinates{Lng: req.Lng, Lat: req.Lat}, s.renderer)
	if err != nil {
		var resErr *resolver.ErrResolutionFailed
		if errors.As(err, &resErr) {
			writeError(w, http.StatusBadGateway, "RESOLUTION_FAILED", resErr.Reason)
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error())
		return
	}
	if result == nil {
		// Superseded by a newer request; nothing to report
		writeJSON(w, http.StatusOK, map[string]interface{}{"superseded": true})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	s.resolver.Clear(s.renderer)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, resolver.ResolutionResult{
		Routes:        s.resolver.CurrentRoutes(),
		ActiveRouteID: s.resolver.ActiveRouteID(),
	})
}

type activateRequest struct {
	Lng float64 `json:"lng"`
	Lat float64 `json:"lat"`
}

func (s *Server) handleActivate(w http.ResponseWriter, r *http.Request) {
	routeID := chi.URLParam(r, "id")

	var req activateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "body must be JSON with the destination lng and lat")
		return
	}

	err := s.resolver.SwitchActive(routeID, s.renderer, models.Coordinates{Lng: req.Lng, Lat: req.Lat})
	if err != nil {
		if errors.Is(err, resolver.ErrRouteNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "no route with id "+routeID)
			return
		}
		writeError(w, http.StatusConflict, "INVALID_STATE", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"active_route_id": routeID})
}

func (s *Server) handleRouteForStation(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	route, err := s.resolver.FindRouteForStationName(name)
	if err != nil {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "no resolved route for station "+name)
		return
	}
	writeJSON(w, http.StatusOK, route)
}

func (s *Server) handleStationsNear(w http.ResponseWriter, r *http.Request) {
	lng, errLng := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if errLng != nil || errLat != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION_ERROR", "lng and lat query params are required")
		return
	}
	radius := 800.0
	if raw := r.URL.Query().Get("radius"); raw != "" {
		if v, err := strconv.ParseFloat(raw, 64); err == nil && v > 0 {
			radius = v
		}
	}

	near := s.directory.FindNear(models.Coordinates{Lng: lng, Lat: lat}, radius)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stations": near,
		"count":    len(near),
	})
}
