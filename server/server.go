// Package server exposes the proposal generator over HTTP. It validates
// incoming render requests, builds the replacement map, runs the core
// generation pipeline, and streams the result back as a file download,
// optionally converting it to PDF through an injected render.Renderer.
package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/tsawler/deckgen"
	"github.com/tsawler/deckgen/pptx"
	"github.com/tsawler/deckgen/render"
)

// Content types for the two download formats.
const (
	contentTypePPTX = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	contentTypePDF  = "application/pdf"
)

// Config configures a Server.
type Config struct {
	// Template is the PPTX template every request is generated from.
	Template []byte

	// Renderer converts output to PDF when a request asks for it. nil
	// disables PDF output.
	Renderer render.Renderer

	// AllowedOrigins lists origins granted CORS access. "*" allows any.
	AllowedOrigins []string

	// Logger receives request logs. nil means slog.Default().
	Logger *slog.Logger
}

// Server handles proposal render requests. One Server is safe for
// concurrent use: every request builds and discards its own package.
type Server struct {
	template []byte
	renderer render.Renderer
	origins  map[string]bool
	log      *slog.Logger
}

// New creates a Server from cfg.
func New(cfg Config) *Server {
	s := &Server{
		template: cfg.Template,
		renderer: cfg.Renderer,
		origins:  make(map[string]bool, len(cfg.AllowedOrigins)),
		log:      cfg.Logger,
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = true
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	return s
}

// Handler returns the HTTP handler for the service.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/render", s.cors(http.HandlerFunc(s.handleRender)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

// cors grants configured origins access and answers preflight requests.
func (s *Server) cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" && (s.origins["*"] || s.origins[origin]) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if r.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
				h.Set("Access-Control-Allow-Headers", "Content-Type")
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	reqID := uuid.NewString()
	log := s.log.With("request_id", reqID)
	start := time.Now()

	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	out, err := deckgen.Generate(s.template, req.Replacements(), req.SlideToggles)
	if err != nil {
		if errors.Is(err, pptx.ErrMalformedPackage) {
			log.Error("template is not a valid package", "error", err)
		} else {
			log.Error("generation failed", "error", err)
		}
		writeError(w, http.StatusInternalServerError, "could not build the document")
		return
	}

	contentType, ext := contentTypePPTX, FormatPPTX
	if req.Format == FormatPDF {
		if s.renderer == nil {
			writeError(w, http.StatusBadRequest, "pdf output is not enabled")
			return
		}
		pdf, err := s.renderer.Convert(r.Context(), out)
		if err != nil {
			log.Error("pdf conversion failed", "error", err)
			writeError(w, http.StatusBadGateway, "could not convert the document")
			return
		}
		out, contentType, ext = pdf, contentTypePDF, FormatPDF
	}

	log.Info("proposal generated",
		"company", req.CompanyName,
		"format", ext,
		"bytes", len(out),
		"duration", time.Since(start))

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", req.Filename(ext)))
	w.Write(out)
}

// writeError sends a JSON error body, mirroring the shape API clients
// already consume.
func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
