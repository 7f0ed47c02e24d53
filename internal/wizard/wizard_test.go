package wizard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/imamik/rentwise/internal/property"
	testutil "github.com/imamik/rentwise/internal/testing"
)

func newTestWizard(c Creator) (*Wizard, *MemoryStore) {
	store := NewMemoryStore()
	return New(c, WithPreviewStore(store), WithID("test")), store
}

func TestNew_Defaults(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})

	assert.Equal(t, StepBasicInfo, w.Step())
	assert.Equal(t, "test", w.ID())
	d := w.Draft()
	assert.Equal(t, 1, d.MinNights)
	assert.Zero(t, d.CleaningFee)
	assert.Empty(t, w.Photos())
	assert.False(t, w.Submitting())
}

func TestNext_StaysOnInvalidStep(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})

	err := w.Next()
	ve, ok := property.AsValidationErrors(err)
	require.True(t, ok)
	assert.Len(t, ve.Errors, 10)
	assert.Equal(t, StepBasicInfo, w.Step())
}

func TestNext_AdvancesThroughSteps(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})

	fillBasicInfo(w)
	require.NoError(t, w.Next())
	assert.Equal(t, StepDetails, w.Step())

	// Description is optional.
	require.NoError(t, w.Next())
	assert.Equal(t, StepPricing, w.Step())

	require.NoError(t, w.SetBaseRate(0))
	err := w.Next()
	require.Error(t, err)
	assert.Equal(t, StepPricing, w.Step())

	require.NoError(t, w.SetBaseRate(99))
	require.NoError(t, w.Next())
	assert.Equal(t, StepPhotos, w.Step())

	// Capped at the last step.
	require.NoError(t, w.Next())
	assert.Equal(t, StepPhotos, w.Step())
}

func TestNext_OnlyValidatesCurrentStep(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})
	toPhotos(w)
	require.Equal(t, StepPhotos, w.Step())

	// Step-1 data broken after the fact does not block Next on step 4.
	require.NoError(t, w.SetName(""))
	assert.NoError(t, w.Next())
}

func TestPrevious_KeepsData(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})
	toPhotos(w)
	require.NoError(t, w.Previous())
	require.NoError(t, w.SetMaxNights(property.Int(14)))
	require.NoError(t, w.Previous())
	assert.Equal(t, StepDetails, w.Step())

	d := w.Draft()
	assert.Equal(t, 150.0, *d.BaseRate)
	assert.Equal(t, 14, *d.MaxNights)

	require.NoError(t, w.Previous())
	require.NoError(t, w.Previous())
	assert.Equal(t, StepBasicInfo, w.Step())
}

func TestToggleAmenity(t *testing.T) {
	t.Parallel()
	w, _ := newTestWizard(&recordingCreator{})

	on, err := w.ToggleAmenity("wifi")
	require.NoError(t, err)
	assert.True(t, on)

	_, err = w.ToggleAmenity("moat")
	assert.ErrorIs(t, err, property.ErrUnknownAmenity)

	on, err = w.ToggleAmenity("wifi")
	require.NoError(t, err)
	assert.False(t, on)
	assert.Empty(t, w.Draft().Amenities)
}

func TestSubmit_NotOnFinalStep(t *testing.T) {
	t.Parallel()
	c := &recordingCreator{}
	w, _ := newTestWizard(c)
	fillBasicInfo(w)

	_, err := w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrNotOnFinalStep)
	assert.Equal(t, StepBasicInfo, w.Step())
	assert.Zero(t, c.count())
}

func TestSubmit_ValidatesWholeDraft(t *testing.T) {
	t.Parallel()
	c := &recordingCreator{}
	w, _ := newTestWizard(c)
	toPhotos(w)
	require.NoError(t, w.Update(func(d *property.Draft) { d.City = "" }))

	_, err := w.Submit(context.Background())
	ve, ok := property.AsValidationErrors(err)
	require.True(t, ok)
	assert.Equal(t, []string{"addressCity"}, ve.Fields())
	assert.Zero(t, c.count())
	assert.False(t, w.Closed())
}

func TestSubmit_Success(t *testing.T) {
	t.Parallel()
	c := &recordingCreator{}
	w, store := newTestWizard(c)
	toPhotos(w)
	_, err := w.AddPhotos(files(2, 10))
	require.NoError(t, err)

	created, err := w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "prop-1", created.ID)

	require.Equal(t, 1, c.count())
	call := c.calls[0]
	assert.Equal(t, "Sunny Loft", call.draft.Name)
	assert.Equal(t, 150.0, *call.draft.BaseRate)
	assert.Len(t, call.photos, 2)

	assert.True(t, w.Closed())
	assert.Zero(t, store.Live())
	assert.ErrorIs(t, w.SetName("x"), ErrClosed)
	_, err = w.Submit(context.Background())
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSubmit_FailurePreservesState(t *testing.T) {
	t.Parallel()
	backend := errors.New("connection refused")
	c := &recordingCreator{err: backend}
	w, store := newTestWizard(c)
	toPhotos(w)
	_, err := w.AddPhotos(files(3, 10))
	require.NoError(t, err)
	before := w.Draft()

	_, err = w.Submit(context.Background())
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	assert.ErrorIs(t, err, backend)

	assert.False(t, w.Closed())
	assert.False(t, w.Submitting())
	assert.Equal(t, StepPhotos, w.Step())
	assert.Len(t, w.Photos(), 3)
	assert.Equal(t, 3, store.Live())
	assert.Equal(t, before, w.Draft())
	assert.Equal(t, 1, c.count(), "no automatic retry")

	// Retry succeeds once the backend recovers.
	c.mu.Lock()
	c.err = nil
	c.mu.Unlock()
	_, err = w.Submit(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, c.count())
}

func TestSubmit_BackendValidationErrors(t *testing.T) {
	t.Parallel()
	rejected := &property.ValidationErrors{Errors: []property.FieldError{{Field: "name", Message: "already taken"}}}
	w, _ := newTestWizard(&recordingCreator{err: rejected})
	toPhotos(w)

	_, err := w.Submit(context.Background())
	var serr *SubmitError
	require.ErrorAs(t, err, &serr)
	ve, ok := property.AsValidationErrors(err)
	require.True(t, ok)
	assert.Same(t, rejected, ve)
}

func TestSubmit_SingleInFlight(t *testing.T) {
	t.Parallel()
	c := &recordingCreator{block: make(chan struct{}), called: make(chan struct{}, 1)}
	w, _ := newTestWizard(c)
	toPhotos(w)

	var (
		wg      sync.WaitGroup
		created *property.Created
		err     error
	)
	wg.Add(1)
	go func() {
		defer wg.Done()
		created, err = w.Submit(context.Background())
	}()

	select {
	case <-c.called:
	case <-time.After(5 * time.Second):
		t.Fatal("creator was not called")
	}
	assert.True(t, w.Submitting())

	_, second := w.Submit(context.Background())
	assert.ErrorIs(t, second, ErrSubmissionInFlight)
	assert.ErrorIs(t, w.SetName("changed"), ErrSubmissionInFlight)
	assert.ErrorIs(t, w.Previous(), ErrSubmissionInFlight)

	close(c.block)
	wg.Wait()
	require.NoError(t, err)
	assert.Equal(t, "prop-1", created.ID)
	assert.Equal(t, 1, c.count())
}

func TestSubmit_ContextCancelled(t *testing.T) {
	t.Parallel()
	c := &recordingCreator{block: make(chan struct{})}
	w, _ := newTestWizard(c)
	toPhotos(w)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := w.Submit(ctx)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, w.Submitting())
	assert.False(t, w.Closed())
}

func TestSubmit_NilResult(t *testing.T) {
	t.Parallel()
	nilCreator := CreatorFunc(func(context.Context, property.Draft, []property.Photo) (*property.Created, error) {
		return nil, nil
	})
	w, _ := newTestWizard(nilCreator)
	toPhotos(w)

	_, err := w.Submit(context.Background())
	var serr *SubmitError
	assert.ErrorAs(t, err, &serr)
	assert.False(t, w.Closed())
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()
	w, store := newTestWizard(&recordingCreator{})
	toPhotos(w)
	_, err := w.AddPhotos(files(4, 10))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	require.NoError(t, w.Close())
	assert.Zero(t, store.Live())
	assert.Equal(t, 4, store.Released())
	assert.ErrorIs(t, w.Next(), ErrClosed)
}

func TestWithDraft(t *testing.T) {
	t.Parallel()
	d := property.NewDraft()
	d.Name = "Seeded"
	w := New(&recordingCreator{}, WithDraft(d), WithPreviewStore(NewMemoryStore()))

	d.Name = "changed"
	assert.Equal(t, "Seeded", w.Draft().Name)
}

func TestSubmit_SeededDraftReachesCreator(t *testing.T) {
	t.Parallel()
	d := testutil.NewDraftBuilder().WithName("Seeded Loft").WithAmenities("wifi", "pool").Build()

	c := testutil.NewMockCreator()
	c.On("Create", mock.Anything, mock.MatchedBy(func(got property.Draft) bool {
		return got.Name == "Seeded Loft" && got.Amenities.Has("pool")
	}), mock.MatchedBy(func(photos []property.Photo) bool {
		return len(photos) == 1 && string(photos[0].Data) == "abc"
	})).Return(&property.Created{ID: "p-9"}, nil)

	w := New(c, WithDraft(d), WithPreviewStore(NewMemoryStore()))
	for i := 0; i < 3; i++ {
		require.NoError(t, w.Next())
	}
	_, err := w.AddPhotos([]PhotoFile{{Name: "a.jpg", Data: []byte("abc")}})
	require.NoError(t, err)

	created, err := w.Submit(testutil.TestContext(t))
	require.NoError(t, err)
	assert.Equal(t, "p-9", created.ID)
	c.AssertExpectations(t)
}

func TestStep_Strings(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "pricing", StepPricing.String())
	assert.Equal(t, "Photos", StepPhotos.Title())
	assert.False(t, Step(0).Valid())
	assert.Empty(t, StepPhotos.Fields())
	assert.Contains(t, StepBasicInfo.Fields(), property.FieldMaxGuests)
}
