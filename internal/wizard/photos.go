package wizard

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/imamik/rentwise/internal/metrics"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/property"
)

// Photo limits.
const (
	MaxPhotoSize int64 = 5 << 20
	MaxPhotos          = 10
)

// PhotoFile is a candidate upload. Size is the declared size and may exceed
// len(Data) when the reader stopped early. The larger of the two counts.
type PhotoFile struct {
	Name        string
	ContentType string
	Size        int64
	Data        []byte
}

func (f PhotoFile) size() int64 {
	return max(f.Size, int64(len(f.Data)))
}

// Photo is an accepted photo and its live preview handle.
type Photo struct {
	property.Photo
	Preview PreviewHandle
}

// AddResult reports the outcome of AddPhotos.
type AddResult struct {
	Added   []Photo
	Notices []*UploadError
}

// AddPhotos adds a batch of files. Files over MaxPhotoSize are skipped and
// reported as notices. If the remaining files would take the collection
// over MaxPhotos the whole batch is rejected with a TooManyPhotos
// *UploadError and nothing is added.
func (w *Wizard) AddPhotos(files []PhotoFile) (*AddResult, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return nil, err
	}

	result := &AddResult{}
	accepted := make([]PhotoFile, 0, len(files))
	for _, f := range files {
		if f.size() > MaxPhotoSize {
			notice := &UploadError{Kind: OversizeFile, File: f.Name, Size: f.size(), Limit: MaxPhotoSize}
			result.Notices = append(result.Notices, notice)
			w.uploadRejected(notice)
			continue
		}
		accepted = append(accepted, f)
	}

	if total := len(w.photos) + len(accepted); total > MaxPhotos {
		uerr := &UploadError{Kind: TooManyPhotos, Size: int64(total), Limit: MaxPhotos}
		w.uploadRejected(uerr)
		return result, uerr
	}

	added := make([]Photo, 0, len(accepted))
	for _, f := range accepted {
		p := property.Photo{
			ID:          uuid.NewString(),
			Name:        f.Name,
			ContentType: contentType(f),
			Data:        f.Data,
		}
		h, err := w.previews.Acquire(p)
		if err != nil {
			for _, a := range added {
				_ = w.previews.Release(a.Preview)
			}
			return result, fmt.Errorf("failed to acquire preview for %s: %w", f.Name, err)
		}
		added = append(added, Photo{Photo: p, Preview: h})
	}

	w.photos = append(w.photos, added...)
	result.Added = added
	for _, p := range added {
		w.observer.Event(observe.Event{
			Type:     observe.EventPhotoAdded,
			Step:     w.step.String(),
			Resource: p.ID,
			Message:  p.Name,
			Fields:   map[string]string{"bytes": strconv.FormatInt(p.Size(), 10)},
		})
	}
	return result, nil
}

// RemovePhoto removes the photo at index and releases its preview handle.
// Later photos shift down by one.
func (w *Wizard) RemovePhoto(index int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.checkMutable(); err != nil {
		return err
	}
	if index < 0 || index >= len(w.photos) {
		return fmt.Errorf("%w: %d (have %d)", ErrPhotoIndex, index, len(w.photos))
	}

	removed := w.photos[index]
	w.photos = append(w.photos[:index], w.photos[index+1:]...)
	if err := w.previews.Release(removed.Preview); err != nil && !errors.Is(err, ErrUnknownHandle) {
		return fmt.Errorf("failed to release preview: %w", err)
	}
	return nil
}

// Photos returns a copy of the photo collection in order.
func (w *Wizard) Photos() []Photo {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Photo(nil), w.photos...)
}

// Previews returns the wizard's preview store.
func (w *Wizard) Previews() PreviewStore {
	return w.previews
}

func (w *Wizard) uploadRejected(uerr *UploadError) {
	metrics.RecordUploadRejection(string(uerr.Kind))
	w.observer.Event(observe.Event{
		Type:    observe.EventUploadRejected,
		Step:    w.step.String(),
		Message: uerr.Error(),
		Fields:  map[string]string{"kind": string(uerr.Kind)},
	})
}

func contentType(f PhotoFile) string {
	if f.ContentType != "" {
		return f.ContentType
	}
	if len(f.Data) == 0 {
		return "application/octet-stream"
	}
	return http.DetectContentType(f.Data)
}
