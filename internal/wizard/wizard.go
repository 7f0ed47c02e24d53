package wizard

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/imamik/rentwise/internal/metrics"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/property"
)

// Creator is the property creation boundary. A *property.ValidationErrors
// return means the backend rejected fields; anything else is a transport or
// backend failure.
type Creator interface {
	Create(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error)
}

// CreatorFunc adapts a function to Creator.
type CreatorFunc func(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error)

// Create implements Creator.
func (f CreatorFunc) Create(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error) {
	return f(ctx, draft, photos)
}

// Option configures a Wizard.
type Option func(*Wizard)

// WithObserver sets the event observer.
func WithObserver(obs observe.Observer) Option {
	return func(w *Wizard) { w.observer = obs }
}

// WithPreviewStore sets the preview store. The wizard closes it on Close.
func WithPreviewStore(store PreviewStore) Option {
	return func(w *Wizard) { w.previews = store }
}

// WithID sets the wizard id used in events. Defaults to a random UUID.
func WithID(id string) Option {
	return func(w *Wizard) { w.id = id }
}

// WithDraft seeds the draft, e.g. from CLI flags.
func WithDraft(d property.Draft) Option {
	return func(w *Wizard) { w.draft = d.Clone() }
}

// Wizard is the property creation form controller.
type Wizard struct {
	mu         sync.Mutex
	id         string
	step       Step
	draft      property.Draft
	photos     []Photo
	previews   PreviewStore
	creator    Creator
	observer   observe.Observer
	submitting bool
	closed     bool
}

// New returns a wizard on the first step with an empty draft.
func New(creator Creator, opts ...Option) *Wizard {
	w := &Wizard{
		step:  StepBasicInfo,
		draft: property.NewDraft(),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.id == "" {
		w.id = uuid.NewString()
	}
	if w.previews == nil {
		w.previews = NewTempDirStore("")
	}
	if w.observer == nil {
		w.observer = observe.Nop{}
	}
	if w.draft.Amenities == nil {
		w.draft.Amenities = property.AmenitySet{}
	}
	w.observer = w.observer.WithFields(map[string]string{"wizard": w.id})
	w.creator = creator
	return w
}

// ID returns the wizard id.
func (w *Wizard) ID() string {
	return w.id
}

// Step returns the current step.
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// Draft returns a copy of the current draft.
func (w *Wizard) Draft() property.Draft {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.Clone()
}

// Submitting reports whether a submission is in flight.
func (w *Wizard) Submitting() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.submitting
}

// Closed reports whether the wizard has been closed.
func (w *Wizard) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// Next validates the current step and advances. On the last step it only
// validates. A validation failure is returned as *property.ValidationErrors
// and the step is unchanged.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return err
	}

	if err := property.ValidateFields(w.draft, stepFields[w.step]); err != nil {
		w.validationFailed(w.step, err)
		return err
	}
	if w.step < StepPhotos {
		w.moveTo(w.step+1, "next")
	}
	return nil
}

// Previous moves back one step without validating or clearing anything.
func (w *Wizard) Previous() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return err
	}
	if w.step > StepBasicInfo {
		w.moveTo(w.step-1, "previous")
	}
	return nil
}

// Submit validates the whole draft and hands it with the photos to the
// Creator. It is only allowed on the photos step. On failure the draft,
// photos and step are preserved; on success the wizard is closed.
func (w *Wizard) Submit(ctx context.Context) (*property.Created, error) {
	w.mu.Lock()
	if err := w.checkMutable(); err != nil {
		w.mu.Unlock()
		return nil, err
	}
	if w.step != StepPhotos {
		w.mu.Unlock()
		return nil, ErrNotOnFinalStep
	}
	if err := property.Validate(w.draft); err != nil {
		w.validationFailed(w.step, err)
		w.mu.Unlock()
		return nil, err
	}

	w.submitting = true
	draft := w.draft.Clone()
	photos := make([]property.Photo, len(w.photos))
	for i, p := range w.photos {
		photos[i] = p.Photo
	}
	w.observer.Event(observe.Event{
		Type:    observe.EventSubmissionStarted,
		Step:    w.step.String(),
		Message: "submitting property",
		Fields:  map[string]string{"photos": strconv.Itoa(len(photos))},
	})
	w.mu.Unlock()

	start := time.Now()
	created, err := w.creator.Create(ctx, draft, photos)
	if err == nil && created == nil {
		err = errors.New("creator returned no result")
	}
	duration := time.Since(start)

	w.mu.Lock()
	defer w.mu.Unlock()
	w.submitting = false

	if err != nil {
		metrics.RecordSubmission("error", duration.Seconds())
		w.observer.Event(observe.Event{
			Type:    observe.EventSubmissionFailed,
			Step:    w.step.String(),
			Message: err.Error(),
		})
		return nil, &SubmitError{Err: err}
	}

	metrics.RecordSubmission("success", duration.Seconds())
	w.observer.Event(observe.Event{
		Type:     observe.EventSubmissionSucceeded,
		Step:     w.step.String(),
		Resource: created.ID,
		Message:  "property created in " + duration.Round(time.Millisecond).String(),
	})
	if err := w.closeLocked(); err != nil {
		w.observer.Printf("failed to release previews: %v", err)
	}
	return created, nil
}

// Close discards the wizard and releases every preview handle. It is safe
// to call more than once.
func (w *Wizard) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closeLocked()
}

func (w *Wizard) closeLocked() error {
	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	for _, p := range w.photos {
		if err := w.previews.Release(p.Preview); err != nil {
			errs = append(errs, err)
		}
	}
	w.photos = nil
	if err := w.previews.Close(); err != nil {
		errs = append(errs, err)
	}

	w.observer.Event(observe.Event{
		Type:    observe.EventWizardClosed,
		Step:    w.step.String(),
		Message: "wizard closed",
	})
	return errors.Join(errs...)
}

// checkMutable must be called with mu held.
func (w *Wizard) checkMutable() error {
	if w.closed {
		return ErrClosed
	}
	if w.submitting {
		return ErrSubmissionInFlight
	}
	return nil
}

func (w *Wizard) moveTo(step Step, direction string) {
	from := w.step
	w.step = step
	metrics.RecordStep(direction, step.String())
	w.observer.Event(observe.Event{
		Type:    observe.EventStepChanged,
		Step:    step.String(),
		Message: direction,
		Fields:  map[string]string{"from": from.String()},
	})
}

func (w *Wizard) validationFailed(step Step, err error) {
	metrics.RecordValidationFailure(step.String())
	fields := map[string]string{}
	if ve, ok := property.AsValidationErrors(err); ok {
		fields["fields"] = strings.Join(ve.Fields(), ",")
	}
	w.observer.Event(observe.Event{
		Type:    observe.EventValidationFailed,
		Step:    step.String(),
		Message: "validation failed",
		Fields:  fields,
	})
}

