package handlers

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/httpapi"
	"github.com/imamik/rentwise/internal/observe"
)

// Factory function variables for serve - can be replaced in tests.
var (
	// runServer blocks serving srv until ctx is done.
	runServer = func(ctx context.Context, srv *httpapi.Server, addr string) error {
		return srv.Run(ctx, addr)
	}

	newServeObserver = func() observe.Observer {
		return observe.NewLogrObserver(observe.NewJSONLogger(os.Stderr, 0))
	}
)

// Serve runs the HTTP API until interrupted.
func Serve(ctx context.Context, configPath, addr string) error {
	cfg, _, err := loadConfig(configPath, "")
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid server configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	obs := newServeObserver()

	users, err := cfg.Users()
	if err != nil {
		return err
	}
	issuer, err := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	photos, closePhotos, err := openPhotoStore(ctx, cfg, obs)
	if err != nil {
		return fmt.Errorf("failed to open photo store: %w", err)
	}
	defer closePhotos()

	pub, err := dialEvents(ctx, cfg, obs, true)
	if err != nil {
		return fmt.Errorf("failed to connect to event broker: %w", err)
	}
	if pub != nil {
		defer pub.Close()
	}

	svc := creator.NewService(st, photos, serviceOptions(pub, obs)...)
	srv := httpapi.New(httpapi.Deps{
		Creator:    svc,
		Properties: st,
		Photos:     photos,
		Auth:       auth.NewAuthenticator(issuer, users),
		Observer:   obs,
	}, httpapi.Options{
		SessionTTL:  cfg.Server.SessionTTL,
		MaxSessions: cfg.Server.MaxSessions,
	})

	obs.Printf("photo backend %s, events enabled: %t", cfg.Photos.Backend, pub != nil)
	return runServer(ctx, srv, cfg.Server.Addr)
}
