package amadeus

import (
	"sync"
	"time"
)

const (
	DefaultTokenBuffer = 60 * time.Second
	defaultTokenTTL    = 1799 * time.Second
)

// TokenCache holds one bearer token and its expiry. Readers see a token only
// while now < expiry - buffer. Concurrent writers are last-writer-wins; any
// stored token is valid for any request.
type TokenCache struct {
	mu      sync.Mutex
	token   string
	expires time.Time
	buffer  time.Duration
	now     func() time.Time
}

func NewTokenCache(buffer time.Duration, now func() time.Time) *TokenCache {
	if now == nil {
		now = time.Now
	}
	return &TokenCache{buffer: buffer, now: now}
}

func (c *TokenCache) Get() (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token == "" || !c.now().Before(c.expires.Add(-c.buffer)) {
		return "", false
	}
	return c.token, true
}

func (c *TokenCache) Set(token string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	c.mu.Lock()
	c.token = token
	c.expires = c.now().Add(ttl)
	c.mu.Unlock()
}

// Invalidate drops the token if it is still the one the caller used.
func (c *TokenCache) Invalidate(token string) {
	c.mu.Lock()
	if c.token == token {
		c.token = ""
		c.expires = time.Time{}
	}
	c.mu.Unlock()
}
