package api

import (
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"lqd/internal/index"
	"lqd/internal/metrics"
)

// Server is the admin HTTP surface: snapshot reload and status.
type Server struct {
	addr     string
	filePath string
	snap     *index.Swappable // nil when running in live mode
	started  time.Time
}

func NewServer(addr, filePath string, snap *index.Swappable) *Server {
	return &Server{
		addr:     addr,
		filePath: filePath,
		snap:     snap,
		started:  time.Now(),
	}
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/reload", s.handleReload)
	mux.HandleFunc("/api/status", s.handleStatus)
	return mux
}

func (s *Server) Start() error {
	log.Info().Msgf("Admin server starting on %s", s.addr)
	return http.ListenAndServe(s.addr, s.Routes())
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
		return
	}

	if s.snap == nil {
		writeJSON(w, http.StatusConflict, map[string]any{
			"error": "live mode re-reads the file on every query, nothing to reload",
		})
		return
	}

	snapshot, err := index.BuildSnapshot(s.filePath)
	if err != nil {
		log.Err(err).Msg("Snapshot reload failed:")
		metrics.ErrorsTotal.WithLabelValues(metrics.ErrorTypeReload).Inc()
		writeJSON(w, http.StatusInternalServerError, map[string]any{"error": err.Error()})
		return
	}

	s.snap.Swap(snapshot)
	metrics.SnapshotLines.Set(float64(snapshot.Len()))
	log.Info().Msgf("Snapshot reloaded with %d lines", snapshot.Len())

	writeJSON(w, http.StatusOK, map[string]any{
		"status": "success",
		"lines":  snapshot.Len(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	status := map[string]any{
		"mode":   "live",
		"uptime": time.Since(s.started).String(),
	}
	if s.snap != nil {
		status["mode"] = "cached"
		status["lines"] = s.snap.Len()
	}
	writeJSON(w, http.StatusOK, status)
}

func writeJSON(w http.ResponseWriter, code int, body map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Err(err).Msg("Error encoding admin response:")
	}
}
