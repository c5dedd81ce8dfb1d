package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"veriscan/internal/ports"
	"veriscan/internal/scan"
	scanrunner "veriscan/internal/workers/scanrunner"
)

// Server exposes the scan queue and report lookups over JSON.
type Server struct {
	scanner   ports.Scanner
	reports   ports.Reports
	jobs      ports.JobRepository
	processor scanrunner.ScanProcessor
	log       *zap.Logger
}

func New(scanner ports.Scanner, reports ports.Reports, jobs ports.JobRepository, processor scanrunner.ScanProcessor, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{scanner: scanner, reports: reports, jobs: jobs, processor: processor, log: log}
}

func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/healthz", s.health)
	r.Post("/scans", s.createScan)
	r.Get("/scans/{id}", s.scanStatus)
	r.Get("/reports/{domain}", s.latestReport)
	return r
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type scanRequest struct {
	URL string `json:"url"`
}

type scanStatusResponse struct {
	ID       string  `json:"id"`
	Status   string  `json:"status"`
	Progress float64 `json:"progress"`
}

func (s *Server) createScan(w http.ResponseWriter, r *http.Request) {
	var req scanRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		s.writeError(w, http.StatusBadRequest, "body must be a JSON object with a url field")
		return
	}

	id, err := s.scanner.Enqueue(r.Context(), req.URL)
	if err != nil {
		if errors.Is(err, scan.ErrInvalidTarget) {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.serverError(w, r, err)
		return
	}

	// Blocking path for callers that want the result in one round trip.
	if r.URL.Query().Get("wait") == "true" {
		timeout := 30
		if t, err := strconv.Atoi(r.URL.Query().Get("timeout")); err == nil && t > 0 {
			timeout = t
		}
		ctx, cancel := context.WithTimeout(r.Context(), time.Duration(timeout)*time.Second)
		defer cancel()
		if err := scanrunner.ProcessInline(ctx, s.jobs, s.processor, id); err != nil {
			s.serverError(w, r, err)
			return
		}
		status, progress, err := s.scanner.Status(ctx, id)
		if err != nil {
			s.serverError(w, r, err)
			return
		}
		s.writeJSON(w, http.StatusOK, scanStatusResponse{ID: id, Status: status, Progress: progress})
		return
	}

	s.writeJSON(w, http.StatusAccepted, map[string]string{"scan_id": id})
}

func (s *Server) scanStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	status, progress, err := s.scanner.Status(r.Context(), id)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "scan not found")
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, scanStatusResponse{ID: id, Status: status, Progress: progress})
}

func (s *Server) latestReport(w http.ResponseWriter, r *http.Request) {
	registrable := chi.URLParam(r, "domain")
	res, err := s.reports.LatestByDomain(r.Context(), registrable)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			s.writeError(w, http.StatusNotFound, "no report for domain")
			return
		}
		s.serverError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, res)
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("failed to write response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, code int, msg string) {
	s.writeJSON(w, code, map[string]string{"error": msg})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err))
	s.writeError(w, http.StatusInternalServerError, "internal error")
}
