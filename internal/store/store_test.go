package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rentwise/internal/property"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "rentwise.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testDraft(name, city string) property.Draft {
	d := property.NewDraft()
	d.Name = name
	d.Type = property.TypeHouse
	d.Street = "12 Elm St"
	d.City = city
	d.State = "CA"
	d.Zip = "90210"
	d.Country = "US"
	d.Bedrooms = property.Int(3)
	d.Bathrooms = property.Int(2)
	d.MaxGuests = property.Int(6)
	d.BaseRate = property.Float(180)
	return d
}

func TestCreateAndGetProperty(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	d := testDraft("Beach House", "Malibu")
	d.Description = "Steps from the sand"
	d.HouseRules = "No parties"
	d.CleaningFee = 75
	d.MinNights = 2
	d.MaxNights = property.Int(30)
	d.Amenities, _ = property.NewAmenitySet("wifi", "pool")

	rec := &Record{
		ID:      "p-1",
		OwnerID: "owner-1",
		Draft:   d,
		Photos: []PhotoRef{
			{Key: "properties/p-1/0.jpg", URL: "http://x/0.jpg", Name: "front.jpg", ContentType: "image/jpeg", Size: 10},
			{Key: "properties/p-1/1.jpg", URL: "http://x/1.jpg", Name: "back.jpg", ContentType: "image/jpeg", Size: 20},
		},
	}
	require.NoError(t, s.CreateProperty(ctx, rec))
	assert.Equal(t, StatusActive, rec.Status)
	assert.False(t, rec.CreatedAt.IsZero())

	got, err := s.GetProperty(ctx, "p-1")
	require.NoError(t, err)
	assert.Equal(t, "owner-1", got.OwnerID)
	assert.Equal(t, StatusActive, got.Status)
	assert.Equal(t, "Beach House", got.Draft.Name)
	assert.Equal(t, property.TypeHouse, got.Draft.Type)
	assert.Equal(t, 3, *got.Draft.Bedrooms)
	assert.Equal(t, 180.0, *got.Draft.BaseRate)
	assert.Equal(t, 75.0, got.Draft.CleaningFee)
	assert.Equal(t, 2, got.Draft.MinNights)
	assert.Equal(t, 30, *got.Draft.MaxNights)
	assert.Equal(t, "No parties", got.Draft.HouseRules)
	assert.Equal(t, []string{"pool", "wifi"}, got.Draft.Amenities.IDs())
	require.Len(t, got.Photos, 2)
	assert.Equal(t, "front.jpg", got.Photos[0].Name)
	assert.Equal(t, "back.jpg", got.Photos[1].Name)
	assert.WithinDuration(t, rec.CreatedAt, got.CreatedAt, time.Second)
}

func TestGetProperty_NotFound(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)

	_, err := s.GetProperty(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProperty_NilMaxNights(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProperty(ctx, &Record{ID: "p", Draft: testDraft("A", "B")}))
	got, err := s.GetProperty(ctx, "p")
	require.NoError(t, err)
	assert.Nil(t, got.Draft.MaxNights)
	assert.Empty(t, got.Photos)
	assert.Empty(t, got.Draft.Amenities)
}

func TestCreateProperty_DuplicateRollsBack(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateProperty(ctx, &Record{ID: "p", Draft: testDraft("First", "X")}))

	// Same id: the insert fails and no photo rows survive.
	err := s.CreateProperty(ctx, &Record{
		ID:     "p",
		Draft:  testDraft("Second", "Y"),
		Photos: []PhotoRef{{Key: "k", URL: "u", Name: "n", ContentType: "image/png"}},
	})
	require.Error(t, err)

	got, err := s.GetProperty(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, "First", got.Draft.Name)
	assert.Empty(t, got.Photos)
}

func TestCreateProperty_RequiresID(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	assert.Error(t, s.CreateProperty(context.Background(), &Record{Draft: testDraft("A", "B")}))
}

func seed(t *testing.T, s *Store, n int) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		city := "Springfield"
		if i%2 == 1 {
			city = "Shelbyville"
		}
		rec := &Record{
			ID:        fmt.Sprintf("p-%02d", i),
			Draft:     testDraft(fmt.Sprintf("Property %02d", i), city),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, s.CreateProperty(context.Background(), rec))
	}
}

func TestListProperties_Pagination(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	seed(t, s, 23)
	ctx := context.Background()

	page, err := s.ListProperties(ctx, Filter{})
	require.NoError(t, err)
	assert.Equal(t, 23, page.Total)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultPageSize, page.PageSize)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Items, 10)
	assert.Equal(t, "p-22", page.Items[0].ID, "newest first")

	last, err := s.ListProperties(ctx, Filter{Page: 3})
	require.NoError(t, err)
	assert.Len(t, last.Items, 3)
	assert.Equal(t, "p-00", last.Items[2].ID)

	beyond, err := s.ListProperties(ctx, Filter{Page: 9})
	require.NoError(t, err)
	assert.Empty(t, beyond.Items)
}

func TestListProperties_Search(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	seed(t, s, 6)
	ctx := context.Background()

	tests := []struct {
		name  string
		query string
		want  int
	}{
		{"by city case-insensitive", "SHELBY", 3},
		{"by name", "property 04", 1},
		{"by street", "elm st", 6},
		{"by full address", "12 Elm St, Springfield, CA", 3},
		{"no match", "atlantis", 0},
		{"like wildcard is literal", "%", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := s.ListProperties(ctx, Filter{Query: tt.query})
			require.NoError(t, err)
			assert.Equal(t, tt.want, page.Total)
			assert.Len(t, page.Items, tt.want)
		})
	}
}

func TestListProperties_Status(t *testing.T) {
	t.Parallel()
	s := openTestStore(t)
	seed(t, s, 4)
	ctx := context.Background()

	require.NoError(t, s.SetStatus(ctx, "p-01", StatusInactive))
	require.NoError(t, s.SetStatus(ctx, "p-02", StatusDraft))

	active, err := s.ListProperties(ctx, Filter{Status: StatusActive})
	require.NoError(t, err)
	assert.Equal(t, 2, active.Total)

	inactive, err := s.ListProperties(ctx, Filter{Status: StatusInactive, Query: "shelbyville"})
	require.NoError(t, err)
	require.Equal(t, 1, inactive.Total)
	assert.Equal(t, "p-01", inactive.Items[0].ID)

	assert.ErrorIs(t, s.SetStatus(ctx, "nope", StatusActive), ErrNotFound)
}

func TestParseStatus(t *testing.T) {
	t.Parallel()
	for in, want := range map[string]Status{"": "", "all": "", "Active": StatusActive, "draft": StatusDraft} {
		got, err := ParseStatus(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseStatus("archived")
	assert.Error(t, err)
}
