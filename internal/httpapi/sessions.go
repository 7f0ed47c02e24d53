package httpapi

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/karlseguin/ccache/v3"

	"github.com/imamik/rentwise/internal/metrics"
	"github.com/imamik/rentwise/internal/observe"
	"github.com/imamik/rentwise/internal/wizard"
)

// ErrSessionNotFound is returned for unknown, expired or foreign sessions.
var ErrSessionNotFound = errors.New("wizard session not found")

// session is a wizard owned by one user.
type session struct {
	wizard *wizard.Wizard
	owner  string
	once   sync.Once
}

// close discards the wizard once, however many eviction paths reach it.
func (s *session) close(obs observe.Observer) {
	s.once.Do(func() {
		if err := s.wizard.Close(); err != nil {
			obs.Printf("failed to close wizard %s: %v", s.wizard.ID(), err)
		}
		metrics.SessionClosed()
	})
}

// Sessions holds live wizard sessions.
type Sessions struct {
	cache    *ccache.Cache[*session]
	ttl      time.Duration
	creator  wizard.Creator
	observer observe.Observer
	stopOnce sync.Once
}

// NewSessions returns a session cache. Sessions idle for ttl are swept;
// beyond maxSessions the least recently used are evicted. Either way the
// wizard is closed and its previews released.
func NewSessions(creator wizard.Creator, ttl time.Duration, maxSessions int, obs observe.Observer) *Sessions {
	if obs == nil {
		obs = observe.Nop{}
	}
	s := &Sessions{ttl: ttl, creator: creator, observer: obs}
	s.cache = ccache.New(ccache.Configure[*session]().
		MaxSize(int64(maxSessions)).
		OnDelete(func(item *ccache.Item[*session]) {
			item.Value().close(s.observer)
		}))
	return s
}

// Create opens a session for owner.
func (s *Sessions) Create(owner string) *wizard.Wizard {
	id := uuid.NewString()
	w := wizard.New(s.creator,
		wizard.WithID(id),
		wizard.WithPreviewStore(wizard.NewMemoryStore()),
		wizard.WithObserver(s.observer.WithFields(map[string]string{"owner": owner})),
	)
	s.cache.Set(id, &session{wizard: w, owner: owner}, s.ttl)
	metrics.SessionOpened()
	s.observer.Event(observe.Event{
		Type:     observe.EventSessionOpened,
		Resource: id,
		Fields:   map[string]string{"owner": owner},
	})
	return w
}

// Get returns owner's session id and extends its TTL.
func (s *Sessions) Get(id, owner string) (*wizard.Wizard, error) {
	item := s.cache.Get(id)
	if item == nil || item.Expired() || item.Value().owner != owner {
		return nil, ErrSessionNotFound
	}
	item.Extend(s.ttl)
	return item.Value().wizard, nil
}

// Delete discards session id. It reports whether the session existed.
func (s *Sessions) Delete(id string) bool {
	item := s.cache.Get(id)
	if item == nil {
		return false
	}
	s.cache.Delete(id)
	item.Value().close(s.observer)
	return true
}

// Len returns the number of cached sessions, expired ones included.
func (s *Sessions) Len() int {
	return s.cache.ItemCount()
}

// Sweep discards every expired session and returns how many it removed.
func (s *Sessions) Sweep() int {
	var expired []string
	s.cache.ForEachFunc(func(key string, item *ccache.Item[*session]) bool {
		if item.Expired() {
			expired = append(expired, key)
		}
		return true
	})
	for _, id := range expired {
		if s.Delete(id) {
			s.observer.Event(observe.Event{Type: observe.EventSessionExpired, Resource: id})
		}
	}
	return len(expired)
}

// Run sweeps expired sessions until ctx is done.
func (s *Sessions) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// Close discards every session and stops the cache.
func (s *Sessions) Close() {
	s.stopOnce.Do(func() {
		var ids []string
		s.cache.ForEachFunc(func(key string, _ *ccache.Item[*session]) bool {
			ids = append(ids, key)
			return true
		})
		for _, id := range ids {
			s.Delete(id)
		}
		s.cache.Stop()
	})
}
