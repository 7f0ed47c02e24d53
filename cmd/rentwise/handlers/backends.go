package handlers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/imamik/rentwise/internal/config"
	"github.com/imamik/rentwise/internal/creator"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/platform/amqp"
	"github.com/imamik/rentwise/internal/platform/gridfs"
	"github.com/imamik/rentwise/internal/platform/s3"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/util/retry"
)

// Factory function variables for backends - can be replaced in tests.
var (
	openStore = store.Open

	connectGridFS = gridfs.Connect

	newS3PhotoStore = func(ctx context.Context, opts s3.Options) (s3PhotoStore, error) {
		return s3.NewPhotoStore(ctx, opts)
	}

	dialAMQP = func(url, queue string) (publisher, error) {
		return amqp.Dial(url, queue)
	}
)

// s3PhotoStore is the part of *s3.PhotoStore the handlers use.
type s3PhotoStore interface {
	creator.PhotoStore
	EnsureBucket(ctx context.Context) error
}

// publisher is a closable creator.EventPublisher.
type publisher interface {
	creator.EventPublisher
	Close() error
}

// startupRetries bounds how long backends may take to come up, for example
// when started alongside the server by docker compose.
var startupRetries = []retry.Option{
	retry.WithMaxRetries(5),
	retry.WithInitialDelay(time.Second),
	retry.WithMaxDelay(10 * time.Second),
}

// photoBaseURL is where photos kept outside S3 are served from.
func photoBaseURL(cfg *config.Config) string {
	base := strings.TrimRight(cfg.Server.PublicURL, "/")
	if base == "" {
		host := cfg.Server.Addr
		if strings.HasPrefix(host, ":") {
			host = "localhost" + host
		}
		base = "http://" + host
	}
	return base + "/photos"
}

// openPhotoStore opens the configured photo backend. The returned close
// function is never nil.
func openPhotoStore(ctx context.Context, cfg *config.Config, obs observe.Observer) (creator.PhotoStore, func(), error) {
	onRetry := func(what string) retry.Option {
		return retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			obs.Printf("%s not ready (attempt %d): %v, retrying in %s", what, attempt, err, next)
		})
	}

	switch cfg.Photos.Backend {
	case config.PhotoBackendS3:
		s3cfg := cfg.Photos.S3
		ps, err := newS3PhotoStore(ctx, s3.Options{
			Endpoint:  s3cfg.Endpoint,
			Region:    s3cfg.Region,
			Bucket:    s3cfg.Bucket,
			AccessKey: s3cfg.AccessKey,
			SecretKey: s3cfg.SecretKey,
			PathStyle: s3cfg.PathStyle,
			PublicURL: s3cfg.PublicURL,
		})
		if err != nil {
			return nil, nil, err
		}
		err = retry.WithExponentialBackoff(ctx, func(ctx context.Context) error {
			if err := ps.EnsureBucket(ctx); err != nil {
				if s3.IsAccessDenied(err) {
					return retry.Fatal(err)
				}
				return err
			}
			return nil
		}, append(startupRetries, onRetry("s3 bucket"))...)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to prepare bucket %s: %w", s3cfg.Bucket, err)
		}
		return ps, func() {}, nil

	case config.PhotoBackendGridFS:
		var ps *gridfs.PhotoStore
		err := retry.WithExponentialBackoff(ctx, func(ctx context.Context) error {
			var err error
			ps, err = connectGridFS(ctx, cfg.Photos.Mongo.URI, cfg.Photos.Mongo.Database, photoBaseURL(cfg))
			return err
		}, append(startupRetries, onRetry("mongo"))...)
		if err != nil {
			return nil, nil, err
		}
		return ps, func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := ps.Close(closeCtx); err != nil {
				obs.Printf("failed to disconnect from mongo: %v", err)
			}
		}, nil

	default:
		obs.Printf("photos.backend is %q: photos are kept in memory and lost on exit", cfg.Photos.Backend)
		return creator.NewMemoryPhotoStore(photoBaseURL(cfg)), func() {}, nil
	}
}

// dialEvents connects the event publisher when events are enabled. A nil
// publisher means events are off.
func dialEvents(ctx context.Context, cfg *config.Config, obs observe.Observer, retries bool) (publisher, error) {
	if !cfg.Events.Enabled() {
		return nil, nil
	}

	var pub publisher
	dial := func(context.Context) error {
		var err error
		pub, err = dialAMQP(cfg.Events.AMQPURL, cfg.Events.Queue)
		return err
	}
	if !retries {
		if err := dial(ctx); err != nil {
			return nil, err
		}
		return pub, nil
	}

	err := retry.WithExponentialBackoff(ctx, dial, append(startupRetries,
		retry.WithOnRetry(func(attempt int, err error, next time.Duration) {
			obs.Printf("rabbitmq not ready (attempt %d): %v, retrying in %s", attempt, err, next)
		}))...)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// serviceOptions builds the creation service options.
func serviceOptions(pub publisher, obs observe.Observer) []creator.ServiceOption {
	opts := []creator.ServiceOption{creator.WithServiceObserver(obs)}
	if pub != nil {
		opts = append(opts, creator.WithEvents(pub))
	}
	return opts
}
