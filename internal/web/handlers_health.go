package web

import (
	"context"
	"net/http"
	"time"
)

// healthResponse is returned by /health.
type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Version  string `json:"version"`
}

const dbProbeTimeout = 2 * time.Second

func (s *Server) dbReachable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, dbProbeTimeout)
	defer cancel()
	return s.pool.Ping(ctx)
}

// handleHealth reports database connectivity. No authentication.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{Status: "healthy", Database: "connected", Version: Version}
	if err := s.dbReachable(r.Context()); err != nil {
		resp.Status = "unhealthy"
		resp.Database = "disconnected"
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// handleReady is the readiness probe: 200 only if the database answers.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.dbReachable(r.Context()); err != nil {
		s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": err.Error(),
		})
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleLive is the liveness probe: 200 whenever the process is up.
func (s *Server) handleLive(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}
