package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
)

// RateLimitPolicy bounds how many statement imports a user may start
// inside a sliding window. The policy is injected where imports run, not
// buried in HTTP middleware, so non-HTTP callers get the same ceiling.
type RateLimitPolicy struct {
	Window time.Duration
	Max    int
}

// CounterStore records one import attempt for a key and reports how many
// attempts the key has made inside the window, oldest pruned.
type CounterStore interface {
	Increment(key string, window time.Duration) (int, error)
}

// RateLimiter applies a RateLimitPolicy keyed by user id.
type RateLimiter struct {
	policy RateLimitPolicy
	store  CounterStore
}

func NewRateLimiter(policy RateLimitPolicy, store CounterStore) *RateLimiter {
	return &RateLimiter{policy: policy, store: store}
}

// Allow records an attempt and returns ErrRateLimited once the user
// exceeds the window maximum. A zero Max disables limiting.
func (r *RateLimiter) Allow(userID int64) error {
	if r == nil || r.policy.Max <= 0 {
		return nil
	}
	key := fmt.Sprintf("import_rate_user_%d", userID)
	count, err := r.store.Increment(key, r.policy.Window)
	if err != nil {
		return err
	}
	if count > r.policy.Max {
		logger.L.Warn("Import rate limit exceeded", "userID", userID, "count", count, "max", r.policy.Max)
		return fmt.Errorf("%w: %d imports in %s", ErrRateLimited, count, r.policy.Window)
	}
	return nil
}

// CacheCounterStore is the default CounterStore, a timestamp list per key
// held in the shared in-process cache. The mutex serializes the
// get/prune/set sequence; the cached slice itself is never mutated, each
// increment stores a fresh one.
type CacheCounterStore struct {
	mu sync.Mutex
	c  *cache.Cache
}

func NewCacheCounterStore(c *cache.Cache) *CacheCounterStore {
	return &CacheCounterStore{c: c}
}

func (s *CacheCounterStore) Increment(key string, window time.Duration) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	var stamps []time.Time
	if cached, found := s.c.Get(key); found {
		stamps = cached.([]time.Time)
	}

	kept := make([]time.Time, 0, len(stamps)+1)
	for _, t := range stamps {
		if now.Sub(t) < window {
			kept = append(kept, t)
		}
	}
	kept = append(kept, now)
	s.c.Set(key, kept, window)
	return len(kept), nil
}
