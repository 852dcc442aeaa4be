package web

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"foretime/internal/infrastructure/logging"
	"foretime/internal/services"
	"foretime/internal/types"
)

//go:embed static/*
var staticFS embed.FS

// DashboardProvider answers dashboard reads. Implemented by the tracker.
type DashboardProvider interface {
	Dashboard(ctx context.Context) *types.DashboardData
}

// HealthChecker reports storage health. Nil check means no storage.
type HealthChecker func(ctx context.Context) error

// ApiResponse is the JSON envelope every API endpoint answers with.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Server serves the polling dashboard and its JSON API. It binds to
// loopback only; the dashboard is a local window, not a network service.
type Server struct {
	tracker  DashboardProvider
	siteInfo *services.SiteInfoScraper
	health   HealthChecker
	logger   logging.Logger

	httpServer *http.Server
	boundAddr  string
}

// NewServer creates a dashboard server listening on addr once started.
func NewServer(addr string, tracker DashboardProvider, siteInfo *services.SiteInfoScraper, health HealthChecker, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewDefaultLogger()
	}

	s := &Server{
		tracker:  tracker,
		siteInfo: siteInfo,
		health:   health,
		logger:   logger,
	}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.Handle("/static/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/api/dashboard", s.handleDashboard)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/siteinfo", s.handleSiteInfo)
	return mux
}

// Start begins listening and serving in the background. It returns once
// the listener is bound so callers know the port is live.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	s.boundAddr = listener.Addr().String()

	s.logger.Info("Dashboard available", "addr", "http://"+s.boundAddr)
	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("Dashboard server stopped", "error", err)
		}
	}()
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// Addr returns the bound listen address once Start has succeeded, and the
// configured address before that.
func (s *Server) Addr() string {
	if s.boundAddr != "" {
		return s.boundAddr
	}
	return s.httpServer.Addr
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	data, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		http.Error(w, "dashboard assets missing", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(data)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	s.writeSuccess(w, s.tracker.Dashboard(r.Context()))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	status := map[string]any{
		"status":  "ok",
		"storage": "disabled",
	}
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			// Tracking still runs in memory; report degraded, not down.
			status["status"] = "degraded"
			status["storage"] = "unavailable"
		} else {
			status["storage"] = "ok"
		}
	}
	s.writeSuccess(w, status)
}

func (s *Server) handleSiteInfo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if s.siteInfo == nil {
		s.writeError(w, http.StatusNotFound, "site info disabled")
		return
	}

	pageURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if pageURL == "" {
		s.writeError(w, http.StatusBadRequest, "missing url parameter")
		return
	}

	info, err := s.siteInfo.Lookup(pageURL)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.writeSuccess(w, info)
}

func (s *Server) writeSuccess(w http.ResponseWriter, data any) {
	s.writeJSON(w, http.StatusOK, ApiResponse{Success: true, Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, ApiResponse{Success: false, Error: msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, response ApiResponse) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error("Failed to encode API response", "error", err)
	}
}
