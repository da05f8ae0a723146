package server

import (
	"net/http"
	"time"
)

type healthBody struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Version   string `json:"version"`
	Uptime    string `json:"uptime"`
}

func (s *Server) healthBody(status string) healthBody {
	return healthBody{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Version:   s.cfg.ServerVersion,
		Uptime:    time.Since(s.start).Round(time.Second).String(),
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.healthBody("healthy"))
}

// handleReady reports whether the catalog and reference tables are in place.
// Both are built before the listener starts, so an unready answer indicates a
// wiring defect rather than a transient condition.
func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	tools, err := s.registry.ListTools(nil)
	if err != nil || len(tools.Tools) == 0 || s.ref == nil {
		s.writeJSON(w, http.StatusServiceUnavailable, s.healthBody("not_ready"))
		return
	}
	s.writeJSON(w, http.StatusOK, s.healthBody("ready"))
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.healthBody("alive"))
}
