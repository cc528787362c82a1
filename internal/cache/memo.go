package cache

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"lsx-portal/internal/metrics"
)

// Memo caches the result of a parameterless loader for a fixed TTL.
// Concurrent misses share one load. Entries are replaced wholesale and
// never modified after they are stored.
type Memo[T any] struct {
	ttl  time.Duration
	load func(context.Context) (T, error)
	now  func() time.Time

	mu      sync.RWMutex
	value   T
	expires time.Time
	valid   bool
	gen     uint64

	group singleflight.Group
}

func NewMemo[T any](ttl time.Duration, load func(context.Context) (T, error)) *Memo[T] {
	return &Memo[T]{ttl: ttl, load: load, now: time.Now}
}

// Get returns the cached value, loading it when absent or expired. Failed
// loads are not cached.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	if v, ok := m.Peek(); ok {
		metrics.CacheLookups.WithLabelValues("hit").Inc()
		return v, nil
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	m.mu.RLock()
	gen := m.gen
	m.mu.RUnlock()

	res, err, _ := m.group.Do("value", func() (any, error) {
		v, err := m.load(context.WithoutCancel(ctx))
		if err != nil {
			return v, err
		}
		m.mu.Lock()
		// an Invalidate during the load wins over the stale result
		if m.gen == gen {
			m.value = v
			m.expires = m.now().Add(m.ttl)
			m.valid = true
		}
		m.mu.Unlock()
		return v, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return res.(T), nil
}

// Peek returns the cached value without loading.
func (m *Memo[T]) Peek() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.valid && m.now().Before(m.expires) {
		return m.value, true
	}
	var zero T
	return zero, false
}

// Invalidate drops the cached value so the next Get reloads.
func (m *Memo[T]) Invalidate() {
	m.mu.Lock()
	var zero T
	m.value = zero
	m.valid = false
	m.gen++
	m.mu.Unlock()
	m.group.Forget("value")
}
