// Package session keeps per-visitor browsing state in memory.
package session

import (
	"time"

	"github.com/couchcryptid/solarsite-service/internal/domain"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// CookieName carries the session id between page loads.
const CookieName = "solarsite_session"

// Store maps session ids to browsers. Idle sessions expire after the TTL; every
// successful Get restarts the clock.
type Store struct {
	cache *cache.Cache
	seed  []domain.Location
}

// NewStore creates a store whose new sessions start from seed.
func NewStore(seed []domain.Location, ttl time.Duration) *Store {
	return &Store{
		cache: cache.New(ttl, cleanupInterval(ttl)),
		seed:  seed,
	}
}

// Get returns the browser for id and extends its lifetime.
func (s *Store) Get(id string) (*domain.Browser, bool) {
	if id == "" {
		return nil, false
	}
	v, ok := s.cache.Get(id)
	if !ok {
		return nil, false
	}
	b := v.(*domain.Browser)
	s.cache.Set(id, b, cache.DefaultExpiration)
	return b, true
}

// Create starts a new session showing the seed set.
func (s *Store) Create() (string, *domain.Browser) {
	id := uuid.NewString()
	b := domain.NewBrowser(s.seed)
	s.cache.Set(id, b, cache.DefaultExpiration)
	return id, b
}

// GetOrCreate returns the session for id, or a new one when id is unknown or
// expired. created reports whether a new id was issued.
func (s *Store) GetOrCreate(id string) (sid string, b *domain.Browser, created bool) {
	if b, ok := s.Get(id); ok {
		return id, b, false
	}
	sid, b = s.Create()
	return sid, b, true
}

// Delete forgets a session.
func (s *Store) Delete(id string) {
	s.cache.Delete(id)
}

// Len reports how many sessions are held, including expired ones not yet swept.
func (s *Store) Len() int {
	return s.cache.ItemCount()
}

func cleanupInterval(ttl time.Duration) time.Duration {
	if ttl <= 0 {
		return time.Minute
	}
	return max(ttl/2, time.Second)
}
