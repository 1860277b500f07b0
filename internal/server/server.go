// Package server exposes layout passes over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/gompdf/cvpager/internal/config"
	"github.com/gompdf/cvpager/internal/cv"
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pass"
)

// maxBodySize bounds request documents.
const maxBodySize = 2 << 20

// Engine runs layout passes for the server.
type Engine interface {
	LayoutTemplate(ctx context.Context, template string, doc cv.Document) (*pass.Result, error)
	Templates() []string
}

// Server serves the layout API.
type Server struct {
	engine  Engine
	logger  *log.Logger
	router  chi.Router
	timeout time.Duration
}

// New creates a server backed by engine. Each pass is bounded by timeout;
// zero means no bound beyond the request's own context.
func New(engine Engine, logger *log.Logger, timeout time.Duration) *Server {
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{engine: engine, logger: logger, timeout: timeout}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/templates", s.handleTemplates)
		r.Post("/layout", s.handleLayout)
		r.Post("/preview", s.handlePreview)
	})
	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"elapsed", time.Since(start),
			"id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, "ok\n")
}

func (s *Server) handleTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]string{"templates": s.engine.Templates()})
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	res, ok := s.layout(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, Summarize(r.URL.Query().Get("template"), res))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	res, ok := s.layout(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	io.WriteString(w, res.HTML())
}

func (s *Server) layout(w http.ResponseWriter, r *http.Request) (*pass.Result, bool) {
	var doc cv.Document
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err := dec.Decode(&doc); err != nil {
		writeError(w, http.StatusBadRequest, "invalid document: "+err.Error())
		return nil, false
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	res, err := s.engine.LayoutTemplate(ctx, r.URL.Query().Get("template"), doc)
	switch {
	case err == nil:
		return res, true
	case errors.Is(err, config.ErrUnknownTemplate):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusGatewayTimeout, "layout timed out")
	default:
		s.logger.Error("layout failed", "err", err, "id", middleware.GetReqID(r.Context()))
		writeError(w, http.StatusInternalServerError, "layout failed")
	}
	return nil, false
}

// BlockSummary describes one placed block.
type BlockSummary struct {
	Kind      model.Kind `json:"kind"`
	SectionID string     `json:"sectionId,omitempty"`
	Order     int        `json:"order"`
	Height    float64    `json:"height"`
}

// PageSummary describes one page. Blocks is set for single layouts,
// Sidebar and Main for dual ones.
type PageSummary struct {
	Number  int            `json:"number"`
	Blocks  []BlockSummary `json:"blocks,omitempty"`
	Sidebar []BlockSummary `json:"sidebar,omitempty"`
	Main    []BlockSummary `json:"main,omitempty"`
}

// LayoutResponse is the body of a successful /v1/layout call.
type LayoutResponse struct {
	PassID    string        `json:"passId"`
	Template  string        `json:"template,omitempty"`
	Layout    model.Layout  `json:"layout"`
	PageCount int           `json:"pageCount"`
	Degraded  int           `json:"degraded"`
	Pages     []PageSummary `json:"pages"`
}

// Summarize describes where each block of res was placed.
func Summarize(template string, res *pass.Result) LayoutResponse {
	out := LayoutResponse{
		PassID:    res.Layout.PassID,
		Template:  template,
		Layout:    res.Layout.Layout,
		PageCount: res.Layout.PageCount(),
		Degraded:  res.Degraded,
	}
	if res.Layout.Layout == model.LayoutDual {
		for i, p := range res.Layout.DualPages {
			out.Pages = append(out.Pages, PageSummary{Number: i + 1, Sidebar: summarize(p.Sidebar), Main: summarize(p.Main)})
		}
		return out
	}
	for i, p := range res.Layout.Pages {
		out.Pages = append(out.Pages, PageSummary{Number: i + 1, Blocks: summarize(p)})
	}
	return out
}

func summarize(p model.Page) []BlockSummary {
	out := make([]BlockSummary, len(p))
	for i, b := range p {
		out[i] = BlockSummary{Kind: b.Kind, SectionID: b.SectionID, Order: b.Order, Height: b.Height}
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
