// Package server implements the mermaidflow HTTP API.
//
// Routes are versioned under /api/v1:
//
//	POST /api/v1/parse      parse mermaid text to a diagram document
//	POST /api/v1/convert    parse and convert to an object model
//	POST /api/v1/render     parse, convert, and render to svg/png/pdf
//	CRUD /api/v1/diagrams   saved diagram management
//
// Rendered artifacts are cached; parse results are not.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/mermaidflow/pkg/cache"
	"github.com/matzehuels/mermaidflow/pkg/engine"
	"github.com/matzehuels/mermaidflow/pkg/store"
)

// Server is the mermaidflow HTTP server.
type Server struct {
	cfg      Config
	log      *charmlog.Logger
	engines  *engine.Registry
	cache    cache.Cache
	cacheTTL time.Duration
	store    store.Store
	router   chi.Router
}

// New creates a Server, connecting the configured cache and store
// backends.
func New(ctx context.Context, cfg Config, logger *charmlog.Logger) (*Server, error) {
	if logger == nil {
		logger = charmlog.Default()
	}

	ttl, err := cfg.Cache.ParseTTL()
	if err != nil {
		return nil, err
	}
	artifactCache, err := newCache(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	diagramStore, err := newStore(ctx, cfg.Store)
	if err != nil {
		_ = artifactCache.Close()
		return nil, err
	}

	s := &Server{
		cfg:      cfg,
		log:      logger,
		engines:  engine.Default(),
		cache:    artifactCache,
		cacheTTL: ttl,
		store:    diagramStore,
	}
	s.router = s.buildRouter()
	return s, nil
}

func newCache(ctx context.Context, cfg CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "file":
		return cache.NewFileCache(cfg.Dir)
	case "redis":
		return cache.NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, errors.New("unknown cache backend " + cfg.Backend)
	}
}

func newStore(ctx context.Context, cfg StoreConfig) (store.Store, error) {
	switch cfg.Backend {
	case "", "memory":
		return store.NewMemoryStore(), nil
	case "mongo":
		return store.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection)
	default:
		return nil, errors.New("unknown store backend " + cfg.Backend)
	}
}

// Router returns the HTTP handler, exposed for tests.
func (s *Server) Router() http.Handler { return s.router }

// buildRouter constructs the chi router with all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/parse", s.handleParse)
		r.Post("/convert", s.handleConvert)
		r.Post("/render", s.handleRender)

		r.Route("/diagrams", func(r chi.Router) {
			r.Get("/", s.handleDiagramList)
			r.Post("/", s.handleDiagramCreate)
			r.Route("/{diagramID}", func(r chi.Router) {
				r.Get("/", s.handleDiagramGet)
				r.Put("/", s.handleDiagramUpdate)
				r.Delete("/", s.handleDiagramDelete)
				r.Get("/render", s.handleDiagramRender)
			})
		})
	})

	return r
}

// Run serves HTTP until the context is cancelled, then shuts down
// gracefully and closes the backends.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Listen.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", s.cfg.Listen.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.closeBackends()
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.closeBackends()
	return err
}

func (s *Server) closeBackends() {
	if err := s.cache.Close(); err != nil {
		s.log.Warn("closing cache", "err", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.store.Close(ctx); err != nil {
		s.log.Warn("closing store", "err", err)
	}
}
