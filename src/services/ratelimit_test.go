package services

import (
	"sync"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Dionizioaf/opensheets-app-sub000/src/logger"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	m.Run()
}

func newTestLimiter(max int) *RateLimiter {
	store := NewCacheCounterStore(cache.New(time.Minute, time.Minute))
	return NewRateLimiter(RateLimitPolicy{Window: time.Minute, Max: max}, store)
}

func TestRateLimiterAllowsUpToMax(t *testing.T) {
	limiter := newTestLimiter(3)
	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.Allow(7), "attempt %d", i+1)
	}

	err := limiter.Allow(7)
	assert.ErrorIs(t, err, ErrRateLimited)
}

func TestRateLimiterKeysByUser(t *testing.T) {
	limiter := newTestLimiter(1)
	require.NoError(t, limiter.Allow(7))
	assert.ErrorIs(t, limiter.Allow(7), ErrRateLimited)

	// A different user has their own counter.
	assert.NoError(t, limiter.Allow(8))
}

func TestRateLimiterDisabledWhenMaxIsZero(t *testing.T) {
	limiter := newTestLimiter(0)
	for i := 0; i < 100; i++ {
		require.NoError(t, limiter.Allow(7))
	}
}

func TestRateLimiterNilIsSafe(t *testing.T) {
	var limiter *RateLimiter
	assert.NoError(t, limiter.Allow(7))
}

func TestCacheCounterStoreCountsConcurrentAttempts(t *testing.T) {
	store := NewCacheCounterStore(cache.New(time.Minute, time.Minute))

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.Increment("k", time.Minute)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := store.Increment("k", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, 26, count)
}

func TestCacheCounterStorePrunesOldAttempts(t *testing.T) {
	store := NewCacheCounterStore(cache.New(time.Minute, time.Minute))

	count, err := store.Increment("k", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = store.Increment("k", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	time.Sleep(60 * time.Millisecond)

	count, err = store.Increment("k", 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
