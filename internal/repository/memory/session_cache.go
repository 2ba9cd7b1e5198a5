package memory

import (
	"time"

	"rag-compare-be/internal/dto"

	"github.com/patrickmn/go-cache"
)

// SessionCache keeps assembled session responses so repeated detail reads
// skip the message reload. Writers must invalidate on every mutation.
type SessionCache struct {
	cache *cache.Cache
}

func NewSessionCache() *SessionCache {
	// Default expiration of 1 hour, purge of expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionCache{
		cache: c,
	}
}

func (r *SessionCache) Save(session *dto.SessionResponse) {
	r.cache.Set(session.SessionId, session, cache.DefaultExpiration)
}

func (r *SessionCache) Get(sessionID string) (*dto.SessionResponse, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*dto.SessionResponse), true
	}
	return nil, false
}

func (r *SessionCache) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

func (r *SessionCache) Flush() {
	r.cache.Flush()
}
