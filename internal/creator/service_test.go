package creator

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rentwise/internal/auth"
	"github.com/imamik/rentwise/internal/property"
	"github.com/imamik/rentwise/internal/store"
	testutil "github.com/imamik/rentwise/internal/testing"
	"github.com/imamik/rentwise/internal/wizard"
)

type failingRepo struct{}

func (failingRepo) CreateProperty(context.Context, *store.Record) error {
	return errors.New("disk full")
}

// flakyPhotos fails Put for names containing "bad".
type flakyPhotos struct {
	*MemoryPhotoStore
}

func (f flakyPhotos) Put(ctx context.Context, key, ct string, data []byte) (string, error) {
	if strings.Contains(key, "bad") {
		return "", errors.New("bucket unavailable")
	}
	return f.MemoryPhotoStore.Put(ctx, key, ct, data)
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestService_Create(t *testing.T) {
	t.Parallel()
	repo := openStore(t)
	photos := NewMemoryPhotoStore("http://localhost:8080")
	events := &testutil.MockPublisher{}
	events.On("PublishCreated", mock.Anything, "fixed-id").Return(nil)
	svc := NewService(repo, photos, WithEvents(events))
	svc.newID = func() string { return "fixed-id" }

	claims := &auth.Claims{Username: "host"}
	claims.Subject = "user-7"
	ctx := auth.WithClaims(context.Background(), claims)

	d := testutil.NewDraftBuilder().WithAmenities("wifi").Build()
	created, err := svc.Create(ctx, d, []property.Photo{testutil.Photo("a.jpg"), testutil.Photo("b.png")})
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created.ID)
	assert.Len(t, created.PhotoURLs, 2)
	assert.True(t, strings.HasPrefix(created.PhotoURLs[0], "http://localhost:8080/photos/properties/fixed-id/00-"))

	rec, err := repo.GetProperty(context.Background(), "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "Cabin", rec.Draft.Name)
	assert.Equal(t, "user-7", rec.OwnerID)
	assert.Equal(t, store.StatusActive, rec.Status)
	assert.Equal(t, []string{"wifi"}, rec.Draft.Amenities.IDs())
	require.Len(t, rec.Photos, 2)
	assert.Equal(t, "a.jpg", rec.Photos[0].Name)
	assert.Equal(t, "b.png", rec.Photos[1].Name)

	data, err := photos.Get(context.Background(), rec.Photos[1].Key)
	require.NoError(t, err)
	assert.Equal(t, "data-b.png", string(data))

	events.AssertExpectations(t)
}

func TestService_Create_InvalidDraft(t *testing.T) {
	t.Parallel()
	photos := NewMemoryPhotoStore("")
	svc := NewService(openStore(t), photos)

	d := testutil.ValidDraft()
	d.Name = ""
	_, err := svc.Create(context.Background(), d, []property.Photo{testutil.Photo("a.jpg")})
	ve, ok := property.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"name"}, ve.Fields())
	assert.Empty(t, photos.Keys())
}

func TestService_Create_PhotoLimits(t *testing.T) {
	t.Parallel()
	svc := NewService(openStore(t), NewMemoryPhotoStore(""))

	many := make([]property.Photo, wizard.MaxPhotos+1)
	for i := range many {
		many[i] = testutil.Photo("p.jpg")
	}
	_, err := svc.Create(context.Background(), testutil.ValidDraft(), many)
	var uerr *wizard.UploadError
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, wizard.TooManyPhotos, uerr.Kind)

	big := property.Photo{Name: "big.jpg", Data: make([]byte, wizard.MaxPhotoSize+1)}
	_, err = svc.Create(context.Background(), testutil.ValidDraft(), []property.Photo{big})
	require.ErrorAs(t, err, &uerr)
	assert.Equal(t, wizard.OversizeFile, uerr.Kind)
}

func TestService_Create_UploadFailureCleansUp(t *testing.T) {
	t.Parallel()
	mem := NewMemoryPhotoStore("")
	repo := openStore(t)
	svc := NewService(repo, flakyPhotos{mem}, WithUploadConcurrency(1))

	_, err := svc.Create(context.Background(), testutil.ValidDraft(),
		[]property.Photo{testutil.Photo("good.jpg"), testutil.Photo("bad.jpg"), testutil.Photo("fine.jpg")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket unavailable")
	assert.Empty(t, mem.Keys())

	page, err := repo.ListProperties(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestService_Create_InsertFailureCleansUp(t *testing.T) {
	t.Parallel()
	mem := NewMemoryPhotoStore("")
	svc := NewService(failingRepo{}, mem)

	_, err := svc.Create(context.Background(), testutil.ValidDraft(), []property.Photo{testutil.Photo("a.jpg"), testutil.Photo("b.jpg")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Empty(t, mem.Keys())
}

func TestService_Create_PublishFailureIsNotFatal(t *testing.T) {
	t.Parallel()
	repo := openStore(t)
	events := &testutil.MockPublisher{}
	events.On("PublishCreated", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	svc := NewService(repo, NewMemoryPhotoStore(""), WithEvents(events))

	created, err := svc.Create(context.Background(), testutil.ValidDraft(), nil)
	require.NoError(t, err)
	_, err = repo.GetProperty(context.Background(), created.ID)
	assert.NoError(t, err)
}

func TestService_AsWizardCreator(t *testing.T) {
	t.Parallel()
	repo := openStore(t)
	svc := NewService(repo, NewMemoryPhotoStore(""))
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	w := wizard.New(svc, wizard.WithPreviewStore(wizard.NewMemoryStore()))
	require.NoError(t, w.Update(func(d *property.Draft) { *d = testutil.ValidDraft() }))
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	require.NoError(t, w.Next())
	_, err := w.AddPhotos([]wizard.PhotoFile{{Name: "a.jpg", Data: []byte("jpeg")}})
	require.NoError(t, err)

	created, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), created.CreatedAt)

	rec, err := repo.GetProperty(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Len(t, rec.Photos, 1)
}
