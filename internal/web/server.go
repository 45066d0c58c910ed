// Package web serves the upload-and-explore dashboard over HTTP.
package web

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"golang.org/x/sync/errgroup"

	"github.com/KaramelBytes/dataglance/internal/render"
	"github.com/KaramelBytes/dataglance/internal/session"
)

const shutdownTimeout = 5 * time.Second

// Config holds configuration for the web server.
type Config struct {
	Addr           string
	SessionSecret  string
	SessionTTL     time.Duration
	MaxUploadBytes int64 // 0 = unlimited
	PreviewRows    int
	Chart          render.Options
	Version        string
	Logger         *slog.Logger
}

// Server is the dashboard server.
type Server struct {
	cfg      Config
	logger   *slog.Logger
	cookies  *sessions.CookieStore
	sessions *session.Store
	page     *template.Template
}

// NewServer creates a server. An empty SessionSecret gets a random key, so
// sessions do not survive a restart.
func NewServer(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	secret := []byte(cfg.SessionSecret)
	if len(secret) == 0 {
		secret = securecookie.GenerateRandomKey(32)
		if secret == nil {
			return nil, errors.New("generate session key")
		}
		logger.Warn("session_secret not set, using an ephemeral key")
	}
	page, err := parseTemplates()
	if err != nil {
		return nil, err
	}

	cookies := sessions.NewCookieStore(secret)
	if cfg.SessionTTL > 0 {
		cookies.MaxAge(int(cfg.SessionTTL / time.Second))
	}
	cookies.Options.Path = "/"
	cookies.Options.HttpOnly = true
	cookies.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		cfg:      cfg,
		logger:   logger,
		cookies:  cookies,
		sessions: session.NewStore(cfg.SessionTTL),
		page:     page,
	}, nil
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)

	r.Get("/healthz", s.handleHealth)

	r.Group(func(r chi.Router) {
		r.Use(s.withSession)

		r.Get("/", s.handleIndex)
		r.Post("/upload", s.handleUpload)
		r.Post("/reset", s.handleReset)

		r.Get("/charts/scatter.png", s.handleScatter)
		r.Get("/charts/heatmap.png", s.handleHeatmap)
		r.Get("/charts/bar.png", s.handleBar)

		r.Get("/download", s.handleDownloadCSV)
		r.Get("/download.xlsx", s.handleDownloadXLSX)

		r.Get("/api/summary", s.handleAPISummary)
	})
	return r
}

// Serve listens on cfg.Addr and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("starting server", "addr", fmt.Sprintf("http://%s", ln.Addr()))

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
