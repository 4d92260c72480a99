package web

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/nao1215/brochure/internal/crawler"
	"github.com/nao1215/brochure/internal/model"
)

// DefaultRequestTimeout bounds one brochure request, which makes several
// sequential text-generation calls.
const DefaultRequestTimeout = 5 * time.Minute

// maxFormSize limits the submitted form body.
const maxFormSize = 8 * 1024

// Generator produces a brochure run for a website URL.
type Generator interface {
	RunWithReport(ctx context.Context, rawURL string) (*model.Run, error)
}

// Server is the single-page web UI. Each submission runs the generator
// synchronously within the request.
type Server struct {
	gen     Generator
	logger  *slog.Logger
	timeout time.Duration
	render  *renderer
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRequestTimeout sets the per-request deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		if d > 0 {
			s.timeout = d
		}
	}
}

// NewServer creates a Server backed by gen.
func NewServer(gen Generator, opts ...Option) (*Server, error) {
	r, err := newRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		gen:     gen,
		timeout: DefaultRequestTimeout,
		render:  r,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s, nil
}

// Routes returns the HTTP handler of the UI.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Get("/healthz", s.handleHealth)

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.writePage(w, http.StatusOK, pageData{})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
	if err := r.ParseForm(); err != nil {
		s.writePage(w, http.StatusBadRequest, pageData{Error: "The form could not be read."})
		return
	}

	target := strings.TrimSpace(r.PostFormValue("url"))
	if target == "" {
		s.writePage(w, http.StatusBadRequest, pageData{Error: "Please enter a website URL."})
		return
	}

	run, err := s.gen.RunWithReport(r.Context(), target)
	if err != nil {
		s.logger.Warn("brochure request failed",
			"request_id", middleware.GetReqID(r.Context()),
			"url", target,
			"kind", model.KindOf(err).String(),
			"error", err,
		)
		s.writePage(w, statusFor(err), pageData{URL: target, Error: model.UserMessage(err)})
		return
	}

	body, err := s.render.markdownToHTML(run.Brochure.Markdown)
	if err != nil {
		s.logger.Error("failed to render brochure", "error", err)
		s.writePage(w, http.StatusInternalServerError, pageData{URL: target, Error: "The brochure could not be displayed."})
		return
	}

	s.writePage(w, http.StatusOK, pageData{
		URL:      run.URL,
		Brochure: body,
		Model:    run.Brochure.Model,
		Duration: run.Duration().Round(time.Millisecond).String(),
		RunID:    run.ID,
	})
}

func (s *Server) writePage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.render.page(w, data); err != nil {
		s.logger.Error("failed to render page", "error", err)
	}
}

// statusFor maps a run failure to an HTTP status. Input the generator
// rejects is a client error; failures of the website or the text-generation
// service are upstream errors.
func statusFor(err error) int {
	switch {
	case errors.Is(err, crawler.ErrNoHost), errors.Is(err, crawler.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}

	switch model.KindOf(err) {
	case model.KindFetch, model.KindSelection, model.KindSummarization, model.KindComposition:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// requestLogger logs one line per request through slog.
func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()

			next.ServeHTTP(ww, r)

			logger.Info("http request",
				"request_id", middleware.GetReqID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"remote", r.RemoteAddr,
				"elapsed", time.Since(start),
			)
		})
	}
}
