// Package server exposes the demo data loader over HTTP for hosted
// deployments: a health check plus a load endpoint that pipes a remote
// template through the materializer to a webhook.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"demo-data/internal/emit"
	"demo-data/internal/render"
	"demo-data/internal/source"

	"github.com/gorilla/mux"
)

// Server handles the HTTP API.
type Server struct {
	loader       *source.Loader
	mat          *render.Materializer
	sendTimeout  time.Duration
	defaultDelay time.Duration
}

// New creates a server around the given loader and materializer.
func New(loader *source.Loader, mat *render.Materializer, sendTimeout, defaultDelay time.Duration) *Server {
	return &Server{
		loader:       loader,
		mat:          mat,
		sendTimeout:  sendTimeout,
		defaultDelay: defaultDelay,
	}
}

// LoadRequest is the body of POST /load.
type LoadRequest struct {
	TemplateURL string  `json:"template_url"`
	WebhookURL  string  `json:"webhook_url"`
	Delay       float64 `json:"delay"` // seconds between events, optional
}

// LoadResponse reports the outcome of a load run.
type LoadResponse struct {
	Status      string `json:"status"` // "success" or "partial"
	TemplateURL string `json:"template_url"`
	emit.Summary
}

// Router builds the HTTP routes.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/", s.handleIndex).Methods(http.MethodGet)
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/load", s.handleLoad).Methods(http.MethodPost)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service":     "demo-data",
		"description": "Generates sample security events for detection rule testing",
		"endpoints": map[string]string{
			"POST /load":  "Load demo events from template URL to webhook",
			"GET /health": "Health check",
		},
	})
}

func (s *Server) handleLoad(w http.ResponseWriter, r *http.Request) {
	var req LoadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "request body must be JSON")
		return
	}
	if req.TemplateURL == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: template_url")
		return
	}
	if req.WebhookURL == "" {
		writeError(w, http.StatusBadRequest, "missing required parameter: webhook_url")
		return
	}
	if !source.IsURL(req.TemplateURL) {
		writeError(w, http.StatusBadRequest, "template_url must be a valid URL")
		return
	}
	if !source.IsURL(req.WebhookURL) {
		writeError(w, http.StatusBadRequest, "webhook_url must be a valid URL")
		return
	}

	templates, err := s.loader.Load(r.Context(), req.TemplateURL)
	if err != nil {
		slog.Error("template load failed", "url", req.TemplateURL, "err", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	events := s.mat.Render(templates)

	delay := s.defaultDelay
	if req.Delay > 0 {
		delay = time.Duration(req.Delay * float64(time.Second))
	}
	sender := emit.NewSender(req.WebhookURL, s.sendTimeout).WithDelay(delay)
	sum := sender.Send(r.Context(), events)

	resp := LoadResponse{Status: "success", TemplateURL: req.TemplateURL, Summary: sum}
	code := http.StatusOK
	if sum.Failed > 0 {
		resp.Status = "partial"
		code = http.StatusMultiStatus
	}
	writeJSON(w, code, resp)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response failed", "err", err)
	}
}
