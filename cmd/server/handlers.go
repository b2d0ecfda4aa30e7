package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"x4-ledger/internal/observability"
	"x4-ledger/internal/reporting"
)

// routes builds the HTTP mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// Prometheus metrics
	mux.Handle("/metrics", observability.Handler())

	mux.HandleFunc("/status", s.instrument("status", s.handleStatus))
	mux.HandleFunc("/stats/sales", s.instrument("sales", s.handleSales))
	mux.HandleFunc("/stats/per-entity", s.instrument("per_entity", s.handlePerEntity))
	mux.HandleFunc("/stats/per-commander", s.instrument("per_commander", s.handlePerCommander))
	mux.HandleFunc("/stats/idle", s.instrument("idle", s.handleIdle))
	mux.HandleFunc("/stats/profit", s.instrument("profit", s.handleProfit))
	mux.HandleFunc("/report", s.instrument("report", s.handleReport))

	mux.HandleFunc("/ws", s.hub.HandleWS)

	return mux
}

// instrument wraps a handler with request metrics.
func (s *Server) instrument(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next(sw, r)
		observability.RecordRequest(route, strconv.Itoa(sw.status), time.Since(start).Seconds())
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// refresh picks up a new savegame before answering. A failed reload is
// logged and the previous snapshot keeps serving.
func (s *Server) refresh(ctx context.Context) {
	if _, err := s.service.ReloadIfNew(ctx); err != nil {
		s.logger.Printf("Reload failed, keeping previous snapshot: %v", err)
	}
}

// parseHours reads the optional hours query parameter. Nil means all time.
func parseHours(r *http.Request) (*int, error) {
	raw := r.URL.Query().Get("hours")
	if raw == "" {
		return nil, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 1 {
		return nil, fmt.Errorf("hours must be a positive integer, got %q", raw)
	}
	return &hours, nil
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	status := s.service.Status()
	writeJSON(w, map[string]any{
		"uptime": time.Since(s.started).String(),
		"status": status,
	})
}

func (s *Server) handleSales(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	hours, err := parseHours(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	excludeZero := r.URL.Query().Get("nonzero") == "1"

	if r.URL.Query().Get("sorted") == "1" {
		writeJSON(w, s.service.SalesRowsSorted(hours, excludeZero))
		return
	}
	writeJSON(w, s.service.SalesRows(hours, excludeZero))
}

func (s *Server) handlePerEntity(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	hours, err := parseHours(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.service.PerEntity(hours))
}

func (s *Server) handlePerCommander(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	hours, err := parseHours(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, s.service.PerCommander(hours))
}

func (s *Server) handleIdle(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	hours, err := parseHours(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	// "All time" makes no sense for an idle check, the window is mandatory.
	if hours == nil {
		http.Error(w, "hours is required", http.StatusBadRequest)
		return
	}
	writeJSON(w, s.service.IdleAssets(*hours))
}

// handleReport renders the current snapshot as the Markdown report, same
// content the report command writes to REPORT.md.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	snap := s.service.Current()
	if snap == nil {
		http.Error(w, "no snapshot loaded", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(reporting.RenderMarkdown(s.reporter.Generate(snap))))
}

func (s *Server) handleProfit(w http.ResponseWriter, r *http.Request) {
	s.refresh(r.Context())

	hours, err := parseHours(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	writeJSON(w, map[string]any{
		"game_time_seconds": s.service.GameTimeSeconds(),
		"profit":            s.service.TotalProfit(hours),
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
