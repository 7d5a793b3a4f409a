package http

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"time"

	"catatan/internal/middleware/trace"
	"catatan/internal/sheets"
)

// Server exposes liveness and readiness endpoints next to the bot. The bot
// itself has no inbound HTTP surface; this exists for container health
// checks.
type Server struct {
	http.Server
	categories sheets.CategoryReader
	startedAt  time.Time
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, categories sheets.CategoryReader) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr: addr,
		},
		categories: categories,
		startedAt:  time.Now(),
	}

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)

	tracer := trace.NewMiddleware(clientIP)
	s.Handler = tracer.Middleware(mux)

	return s
}

// handleHealth performs a basic liveness check
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady verifies the store answers before reporting ready.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := map[string]any{}

	if s.categories == nil {
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
		checks["store"] = "failed: no backend configured"
	} else if _, err := s.categories.ListCategories(ctx); err != nil {
		status = "not ready"
		httpStatus = http.StatusServiceUnavailable
		checks["store"] = "failed: " + err.Error()
	} else {
		checks["store"] = "ok"
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
