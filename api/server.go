// Package api exposes the process viewer over HTTP JSON. It is a thin
// transport: handlers invoke the core and serialize its results.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"procview/models"
)

const (
	defaultReadHeader      = 5 * time.Second
	defaultShutdownTimeout = 5 * time.Second
)

// Roster is the roster-side core contract consumed by the transport.
type Roster interface {
	UserProcesses() ([]models.ClassifiedProcess, error)
	EnhancedProcesses() ([]models.ClassifiedProcess, error)
	Details(pid int32) (*models.ProcessDetail, error)
	Containers() []models.ContainerInfo
}

// Metrics samples host utilization accompanying a roster response.
type Metrics func() models.SystemMetrics

// Killer is the termination-side core contract.
type Killer interface {
	Kill(pid int32) models.KillResult
	KillGroup(mainPID int32, relatedPIDs []int32) models.GroupKillResult
}

// Config controls construction of the API server.
type Config struct {
	Addr              string
	Roster            Roster
	Killer            Killer
	Metrics           Metrics
	Listener          net.Listener
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server wraps an http.Server exposing the viewer endpoints.
type Server struct {
	roster          Roster
	killer          Killer
	metrics         Metrics
	srv             *http.Server
	listener        net.Listener
	shutdownTimeout time.Duration
}

// NewServer constructs a Server with sane defaults.
func NewServer(cfg Config) (*Server, error) {
	if cfg.Roster == nil {
		return nil, fmt.Errorf("roster is required")
	}
	if cfg.Killer == nil {
		return nil, fmt.Errorf("killer is required")
	}
	if cfg.Metrics == nil {
		cfg.Metrics = func() models.SystemMetrics { return models.SystemMetrics{} }
	}

	mux := http.NewServeMux()
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
	if srv.ReadHeaderTimeout == 0 {
		srv.ReadHeaderTimeout = defaultReadHeader
	}
	server := &Server{
		roster:          cfg.Roster,
		killer:          cfg.Killer,
		metrics:         cfg.Metrics,
		srv:             srv,
		listener:        cfg.Listener,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
	if server.shutdownTimeout == 0 {
		server.shutdownTimeout = defaultShutdownTimeout
	}
	server.registerRoutes(mux)
	return server, nil
}

// Run starts serving until the provided context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	errCh := make(chan error, 1)
	stop := make(chan struct{})
	go func() {
		select {
		case <-ctx.Done():
			shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
			defer cancel()
			_ = s.srv.Shutdown(shutdownCtx)
		case <-stop:
		}
	}()

	go func() {
		var err error
		if s.listener != nil {
			err = s.srv.Serve(s.listener)
		} else {
			err = s.srv.ListenAndServe()
		}
		errCh <- err
	}()

	err := <-errCh
	close(stop)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.srv.Addr
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/api/processes", s.handleProcesses)
	mux.HandleFunc("/api/processes/", s.handleProcessSub)
	mux.HandleFunc("/api/kill", s.handleKill)
	mux.HandleFunc("/api/kill/group", s.handleKillGroup)
}

type rosterResponse struct {
	Processes  []models.ClassifiedProcess `json:"processes"`
	Containers []models.ContainerInfo     `json:"containers,omitempty"`
	SystemInfo models.SystemMetrics       `json:"system_info"`
}

func (s *Server) handleProcesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	processes, err := s.roster.UserProcesses()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, rosterResponse{
		Processes:  processes,
		SystemInfo: s.metrics(),
	})
}

// handleProcessSub serves /api/processes/enhanced and /api/processes/{pid}.
func (s *Server) handleProcessSub(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/api/processes/")

	if rest == "enhanced" {
		processes, err := s.roster.EnhancedProcesses()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		s.writeJSON(w, http.StatusOK, rosterResponse{
			Processes:  processes,
			Containers: s.roster.Containers(),
			SystemInfo: s.metrics(),
		})
		return
	}

	pid, err := strconv.ParseInt(rest, 10, 32)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid pid")
		return
	}
	detail, err := s.roster.Details(int32(pid))
	if err != nil {
		s.writeError(w, http.StatusNotFound, "Process not found")
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

type killRequest struct {
	PID         int32   `json:"pid"`
	RelatedPIDs []int32 `json:"related_pids"`
}

func (s *Server) handleKill(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req killRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.writeJSON(w, http.StatusOK, s.killer.Kill(req.PID))
}

func (s *Server) handleKillGroup(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}
	var req killRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	s.writeJSON(w, http.StatusOK, s.killer.KillGroup(req.PID, req.RelatedPIDs))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
