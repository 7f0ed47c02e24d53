package testing

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/imamik/rentwise/internal/property"
)

// MockCreator is a mock creation boundary. It satisfies wizard.Creator.
type MockCreator struct {
	mock.Mock
}

// NewMockCreator creates a new MockCreator with no expectations.
func NewMockCreator() *MockCreator {
	return &MockCreator{}
}

// Create records the call and returns the configured result.
func (m *MockCreator) Create(ctx context.Context, draft property.Draft, photos []property.Photo) (*property.Created, error) {
	args := m.Called(ctx, draft, photos)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*property.Created), args.Error(1)
}

// Succeeds makes every call return a property with id.
func (m *MockCreator) Succeeds(id string) *MockCreator {
	m.On("Create", mock.Anything, mock.Anything, mock.Anything).
		Return(&property.Created{ID: id, CreatedAt: time.Now()}, nil)
	return m
}

// Fails makes every call return err.
func (m *MockCreator) Fails(err error) *MockCreator {
	m.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(nil, err)
	return m
}

// MockPublisher is a mock event publisher. It satisfies
// creator.EventPublisher.
type MockPublisher struct {
	mock.Mock
}

// PublishCreated records the call and returns the configured error.
func (m *MockPublisher) PublishCreated(ctx context.Context, propertyID string) error {
	return m.Called(ctx, propertyID).Error(0)
}
