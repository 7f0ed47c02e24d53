package creator

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/metrics"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/store"
	"github.com/imamik/rentwise/internal/util/async"
	"github.com/imamik/rentwise/internal/util/naming"
	"github.com/imamik/rentwise/internal/wizard"
)

// Repository persists created properties.
type Repository interface {
	CreateProperty(ctx context.Context, rec *store.Record) error
}

// EventPublisher announces created properties.
type EventPublisher interface {
	PublishCreated(ctx context.Context, propertyID string) error
}

// defaultUploadConcurrency bounds parallel photo store writes.
const defaultUploadConcurrency = 4

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithEvents sets the event publisher.
func WithEvents(p EventPublisher) ServiceOption {
	return func(s *Service) { s.events = p }
}

// WithServiceObserver sets the observer.
func WithServiceObserver(o observe.Observer) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// WithUploadConcurrency bounds parallel photo uploads.
func WithUploadConcurrency(n int) ServiceOption {
	return func(s *Service) { s.uploadConcurrency = n }
}

// Service is the local creation boundary.
type Service struct {
	repo              Repository
	photos            PhotoStore
	events            EventPublisher
	observer          observe.Observer
	uploadConcurrency int
	newID             func() string
	now               func() time.Time
}

// NewService returns a Service writing records to repo and photos to photos.
func NewService(repo Repository, photos PhotoStore, opts ...ServiceOption) *Service {
	s := &Service{
		repo:              repo,
		photos:            photos,
		observer:          observe.Nop{},
		uploadConcurrency: defaultUploadConcurrency,
		newID:             uuid.NewString,
		now:               func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create implements wizard.Creator. Nothing is left behind on failure: if
// any photo write or the insert fails, photos already written are deleted.
func (s *Service) Create(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error) {
	if err := property.Validate(draft); err != nil {
		return nil, err
	}
	if err := checkPhotos(photos); err != nil {
		return nil, err
	}

	id := s.newID()
	refs, err := s.uploadPhotos(ctx, id, photos)
	if err != nil {
		return nil, err
	}

	rec := &store.Record{
		ID:        id,
		Status:    store.StatusActive,
		Draft:     draft,
		Photos:    refs,
		CreatedAt: s.now(),
	}
	if claims, ok := auth.ClaimsFromContext(ctx); ok {
		rec.OwnerID = claims.Subject
	}

	if err := s.repo.CreateProperty(ctx, rec); err != nil {
		s.deletePhotos(refs)
		return nil, fmt.Errorf("failed to store property: %w", err)
	}

	s.observer.Event(observe.Event{
		Type:     observe.EventPropertyCreated,
		Resource: id,
		Message:  draft.Name,
		Fields:   map[string]string{"photos": strconv.Itoa(len(refs)), "owner": rec.OwnerID},
	})

	if s.events != nil {
		if err := s.events.PublishCreated(ctx, id); err != nil {
			metrics.RecordEventPublished("error")
			s.observer.Event(observe.Event{
				Type:     observe.EventPublishFailed,
				Resource: id,
				Message:  err.Error(),
			})
		} else {
			metrics.RecordEventPublished("success")
		}
	}

	created := &property.Created{ID: id, CreatedAt: rec.CreatedAt}
	for _, r := range refs {
		created.PhotoURLs = append(created.PhotoURLs, r.URL)
	}
	return created, nil
}

func (s *Service) uploadPhotos(ctx context.Context, id string, photos []property.Photo) ([]store.PhotoRef, error) {
	if len(photos) == 0 {
		return nil, nil
	}

	refs := make([]store.PhotoRef, len(photos))
	var (
		mu      sync.Mutex
		written []store.PhotoRef
	)

	tasks := make([]async.Task, len(photos))
	for i, p := range photos {
		i, p := i, p
		photoID := p.ID
		if photoID == "" {
			photoID = s.newID()
		}
		key := naming.PhotoKey(id, i, photoID, p.Name)
		tasks[i] = async.Task{
			Name: "upload photo " + p.Name,
			Func: func(ctx context.Context) error {
				url, err := s.photos.Put(ctx, key, p.ContentType, p.Data)
				if err != nil {
					metrics.RecordPhotoUpload(s.photos.Backend(), "error")
					return err
				}
				metrics.RecordPhotoUpload(s.photos.Backend(), "success")
				ref := store.PhotoRef{Key: key, URL: url, Name: p.Name, ContentType: p.ContentType, Size: p.Size()}
				mu.Lock()
				refs[i] = ref
				written = append(written, ref)
				mu.Unlock()
				return nil
			},
		}
	}

	err := async.RunParallel(ctx, tasks, async.WithLimit(s.uploadConcurrency), async.WithCancelOnError())
	if err != nil {
		s.deletePhotos(written)
		return nil, err
	}
	return refs, nil
}

// deletePhotos removes photos best-effort. It ignores the caller's context
// so cleanup still runs after cancellation.
func (s *Service) deletePhotos(refs []store.PhotoRef) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, r := range refs {
		if err := s.photos.Delete(ctx, r.Key); err != nil {
			s.observer.Printf("failed to delete orphaned photo %s: %v", r.Key, err)
		}
	}
}

func checkPhotos(photos []property.Photo) error {
	if len(photos) > wizard.MaxPhotos {
		return &wizard.UploadError{Kind: wizard.TooManyPhotos, Size: int64(len(photos)), Limit: wizard.MaxPhotos}
	}
	for _, p := range photos {
		if p.Size() > wizard.MaxPhotoSize {
			return &wizard.UploadError{Kind: wizard.OversizeFile, File: p.Name, Size: p.Size(), Limit: wizard.MaxPhotoSize}
		}
	}
	return nil
}
