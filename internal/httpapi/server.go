package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/metrics"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/wizard"
)

// Properties reads and updates persisted properties.
type Properties interface {
	GetProperty(ctx context.Context, id string) (*store.Record, error)
	ListProperties(ctx context.Context, f store.Filter) (*store.Page, error)
	SetStatus(ctx context.Context, id string, status store.Status) error
	Ping(ctx context.Context) error
}

// Deps are the collaborators of a Server.
type Deps struct {
	Creator    wizard.Creator
	Properties Properties
	Photos     creator.PhotoStore
	Auth       *auth.Authenticator
	Observer   observe.Observer
}

// Options tunes a Server.
type Options struct {
	SessionTTL  time.Duration
	MaxSessions int
}

// Server is the HTTP API.
type Server struct {
	engine     *gin.Engine
	sessions   *Sessions
	creator    wizard.Creator
	properties Properties
	photos     creator.PhotoStore
	auth       *auth.Authenticator
	observer   observe.Observer
	sessionTTL time.Duration
}

// New builds the router.
func New(deps Deps, opts Options) *Server {
	if deps.Observer == nil {
		deps.Observer = observe.Nop{}
	}
	if opts.SessionTTL <= 0 {
		opts.SessionTTL = 30 * time.Minute
	}
	if opts.MaxSessions <= 0 {
		opts.MaxSessions = 1000
	}

	s := &Server{
		sessions:   NewSessions(deps.Creator, opts.SessionTTL, opts.MaxSessions, deps.Observer),
		creator:    deps.Creator,
		properties: deps.Properties,
		photos:     deps.Photos,
		auth:       deps.Auth,
		observer:   deps.Observer,
		sessionTTL: opts.SessionTTL,
	}
	s.engine = s.routes()
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", s.healthz)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))
	r.GET("/photos/*key", s.getPhoto)

	api := r.Group("/api")
	api.POST("/auth/login", s.login)

	protected := api.Group("/")
	protected.Use(s.requireAuth())
	{
		protected.POST("/wizards", s.createWizard)
		protected.GET("/wizards/:id", s.getWizard)
		protected.DELETE("/wizards/:id", s.discardWizard)
		protected.PATCH("/wizards/:id/draft", s.patchDraft)
		protected.POST("/wizards/:id/amenities/:amenity/toggle", s.toggleAmenity)
		protected.POST("/wizards/:id/next", s.next)
		protected.POST("/wizards/:id/previous", s.previous)
		protected.POST("/wizards/:id/photos", s.addPhotos)
		protected.DELETE("/wizards/:id/photos/:index", s.removePhoto)
		protected.GET("/wizards/:id/photos/:index/preview", s.previewPhoto)
		protected.POST("/wizards/:id/submit", s.submit)

		protected.POST("/properties", s.createProperty)
		protected.GET("/properties", s.listProperties)
		protected.GET("/properties/:id", s.getProperty)
		protected.PATCH("/properties/:id/status", s.setStatus)
	}
	return r
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Sessions returns the session cache.
func (s *Server) Sessions() *Sessions {
	return s.sessions
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully
// and discards every open session.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	go s.sessions.Run(sweepCtx, sweepInterval(s.sessionTTL))

	errCh := make(chan error, 1)
	go func() {
		s.observer.Printf("listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		s.sessions.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	s.sessions.Close()
	if err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}

func sweepInterval(ttl time.Duration) time.Duration {
	interval := ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	return interval
}

func (s *Server) healthz(c *gin.Context) {
	if err := s.properties.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sessions": s.sessions.Len()})
}
