package linkedin

import (
	"context"
	"sync"
	"time"
)

// FetchTokenFunc obtains a fresh access token and reports its lifetime.
type FetchTokenFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// TokenCache holds an access token and its expiry. Refresh is proactive:
// a token inside the expiry buffer is treated as already expired.
//
// The fetch happens under the lock, so concurrent callers never observe a
// half-written token; at worst a caller blocks behind an in-flight refresh.
type TokenCache struct {
	mu        sync.Mutex
	token     string
	expiresAt time.Time
	buffer    time.Duration
	now       func() time.Time
}

func NewTokenCache(buffer time.Duration) *TokenCache {
	return &TokenCache{
		buffer: buffer,
		now:    time.Now,
	}
}

// Get returns the cached token, fetching a new one when the cache is empty
// or the token expires within the buffer.
func (tc *TokenCache) Get(ctx context.Context, fetch FetchTokenFunc) (string, error) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	if tc.token != "" && tc.now().Add(tc.buffer).Before(tc.expiresAt) {
		return tc.token, nil
	}

	token, ttl, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	tc.token = token
	tc.expiresAt = tc.now().Add(ttl)
	return token, nil
}

// Invalidate drops the cached token so the next Get refetches.
func (tc *TokenCache) Invalidate() {
	tc.mu.Lock()
	defer tc.mu.Unlock()
	tc.token = ""
	tc.expiresAt = time.Time{}
}
