package wizard

import (
	"bytes"
	"context"
	"sync"

	"github.com/imamik/rentwise/internal/property"
)

// recordingCreator captures every Create call.
type recordingCreator struct {
	mu     sync.Mutex
	calls  []createCall
	err    error
	block  chan struct{}
	called chan struct{}
}

type createCall struct {
	draft  property.Draft
	photos []property.Photo
}

func (c *recordingCreator) Create(ctx context.Context, d property.Draft, photos []property.Photo) (*property.Created, error) {
	c.mu.Lock()
	c.calls = append(c.calls, createCall{draft: d, photos: photos})
	block, called, err := c.block, c.called, c.err
	c.mu.Unlock()

	if called != nil {
		called <- struct{}{}
	}
	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return &property.Created{ID: "prop-1"}, nil
}

func (c *recordingCreator) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

func fillBasicInfo(w *Wizard) {
	_ = w.SetName("Sunny Loft")
	_ = w.SetType(property.TypeApartment)
	_ = w.SetAddress("1 Main St", "Springfield", "IL", "62701", "US")
	_ = w.SetBedrooms(2)
	_ = w.SetBathrooms(1)
	_ = w.SetMaxGuests(4)
}

func fillPricing(w *Wizard) {
	_ = w.SetBaseRate(150)
	_ = w.SetMinNights(1)
	_ = w.SetCleaningFee(0)
}

// toPhotos fills every step and advances to the photos step.
func toPhotos(w *Wizard) {
	fillBasicInfo(w)
	_ = w.Next()
	_ = w.SetDescription("Bright loft near the park")
	_ = w.Next()
	fillPricing(w)
	_ = w.Next()
}

func files(n int, size int) []PhotoFile {
	out := make([]PhotoFile, n)
	for i := range out {
		out[i] = PhotoFile{Name: "photo.jpg", ContentType: "image/jpeg", Data: bytes.Repeat([]byte{0xff}, size)}
	}
	return out
}
