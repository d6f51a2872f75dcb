// Package server serves the dashboard pages and the JSON chart API.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/apex/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/KaramelBytes/jknstat/internal/dataset"
	"github.com/KaramelBytes/jknstat/internal/plotly"
)

//go:embed templates/*.html
var templateFS embed.FS

var numberPrinter = message.NewPrinter(language.English)

var pages = template.Must(template.New("pages").Funcs(template.FuncMap{
	"int":   func(n int) string { return numberPrinter.Sprintf("%d", n) },
	"fixed": func(n plotly.Number) string { return numberPrinter.Sprintf("%.2f", float64(n)) },
}).ParseFS(templateFS, "templates/*.html"))

// Options configures a Server.
type Options struct {
	Addr            string
	StaticDir       string
	Title           string
	PreviewRows     int
	ShutdownTimeout time.Duration
}

// Server holds the read-only table and the precomputed summaries served to
// every request.
type Server struct {
	table  *dataset.Table
	stats  Stats
	opts   Options
	router chi.Router
}

// New builds a server for t. A nil table yields a server whose data routes
// answer 500.
func New(t *dataset.Table, opts Options) *Server {
	if opts.Title == "" {
		opts.Title = "JKN Outpatient Dashboard"
	}
	if opts.PreviewRows <= 0 {
		opts.PreviewRows = DefaultPreviewRows
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}
	s := &Server{table: t, opts: opts}
	if t != nil {
		s.stats = computeStats(t)
		metricDatasetRows.Set(float64(t.Len()))
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.RealIP)
	r.Use(instrument)
	r.Use(Logger)
	r.Use(Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/visualizations", s.handleVisualizations)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/data", s.handleData)
		r.Get("/stats", s.handleStats)
		r.Get("/artifacts", s.handleArtifacts)
		r.Route("/visualization", func(r chi.Router) {
			r.Get("/distribution/{column}", s.handleDistribution)
			r.Get("/comparison/{cat_col}/{num_col}", s.handleComparison)
			r.Get("/correlation", s.handleCorrelation)
			r.Get("/timeseries/{time_col}/{num_col}", s.handleTimeSeries)
		})
	})

	if s.opts.StaticDir != "" {
		r.Route("/static", func(r chi.Router) {
			r.Use(middleware.Compress(5))
			r.Handle("/*", http.StripPrefix("/static", http.FileServer(http.Dir(s.opts.StaticDir))))
		})
	}
	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.WithField("addr", s.opts.Addr).Info("dashboard listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down dashboard")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	return nil
}
