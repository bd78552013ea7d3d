// Package server serves the evdash dashboard over HTTP.
//
// The page itself is a thin client: every click is posted to the server,
// which applies it to the shared [dashboard.Controller] and pushes the
// resulting state or tree frame to all connected browsers over a websocket.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/matzehuels/evdash/pkg/dashboard"
)

// Config holds server settings.
type Config struct {
	Addr           string
	AllowedOrigins []string
	// ImageDir, when set, is served under ImageBase for leaf tooltips.
	ImageDir       string
	ImageBase      string
	RequestTimeout time.Duration
	Title          string
}

// Server hosts one dashboard.
type Server struct {
	cfg        Config
	ctl        *dashboard.Controller
	logger     *log.Logger
	hub        *hub
	router     chi.Router
	httpServer *http.Server
	unsub      func()
}

// New builds the router for ctl. Events from ctl are forwarded to websocket
// clients until [Server.Shutdown].
func New(cfg Config, ctl *dashboard.Controller, logger *log.Logger) *Server {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}
	if cfg.Title == "" {
		cfg.Title = "EV Charging Stations"
	}
	if logger == nil {
		logger = log.Default()
	}
	s := &Server{
		cfg:    cfg,
		ctl:    ctl,
		logger: logger,
		hub:    newHub(logger),
	}
	s.unsub = ctl.Subscribe(s.hub.broadcast)
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.logger))
	r.Use(middleware.Recoverer)

	origins := s.cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:*", "http://127.0.0.1:*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/ws", s.handleWebSocket)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))

		r.Get("/", s.handleIndex)
		r.Route("/api", func(r chi.Router) {
			r.Get("/state", s.handleState)
			r.Post("/filters/all/toggle", s.handleToggleAll)
			r.Post("/filters/{key}/toggle", s.handleToggleFilter)
			r.Get("/markers", s.handleMarkers)
			r.Get("/distribution", s.handleDistribution)
			r.Get("/distribution.svg", s.handleDistributionSVG)
			r.Get("/tree.svg", s.handleTreeSVG)
			r.Get("/tree/frame", s.handleTreeFrame)
			r.Post("/tree/nodes/{id}/toggle", s.handleToggleNode)
			r.Post("/tree/reveal", s.handleReveal)
		})

		if s.cfg.ImageDir != "" && s.cfg.ImageBase != "" {
			base := "/" + strings.Trim(s.cfg.ImageBase, "/")
			fs := http.StripPrefix(base, http.FileServer(http.Dir(s.cfg.ImageDir)))
			r.Handle(base+"/*", fs)
		}
	})

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until [Server.Shutdown] is called.
func (s *Server) ListenAndServe() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.logger.Info("dashboard listening", "addr", s.cfg.Addr)
	if err := s.httpServer.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting requests and disconnects websocket clients.
func (s *Server) Shutdown(ctx context.Context) error {
	s.unsub()
	s.hub.closeAll()
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}

func requestLogger(logger *log.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start).Round(time.Microsecond),
				"request_id", middleware.GetReqID(r.Context()))
		})
	}
}
