package memory

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	"golang.org/x/sync/singleflight"
)

// CatalogRepository caches subject levels with TTL in front of a content.Loader.
// A zero TTL caches forever.
type CatalogRepository struct {
	loader content.Loader
	ttl    time.Duration
	clock  func() time.Time
	sf     singleflight.Group
	rnd    *rand.Rand

	mu    sync.RWMutex
	cache map[domain.Subject]cachedSubject
}

type cachedSubject struct {
	levels    []domain.Level
	expiresAt time.Time
}

func NewCatalogRepository(loader content.Loader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		loader: loader,
		ttl:    ttl,
		clock:  time.Now,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
		cache:  make(map[domain.Subject]cachedSubject),
	}
}

func (r *CatalogRepository) GetSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error) {
	if levels, ok := r.lookup(subject, r.clock()); ok {
		return levels, nil
	}

	result, err, _ := r.sf.Do(string(subject), func() (interface{}, error) {
		now := r.clock()
		if levels, ok := r.lookup(subject, now); ok {
			return levels, nil
		}

		levels, err := r.loader.LoadSubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		if err := content.ValidateLevels(subject, levels); err != nil {
			return nil, err
		}

		entry := cachedSubject{levels: levels}
		if ttl := r.ttlWithJitter(); ttl > 0 {
			entry.expiresAt = now.Add(ttl)
		}
		r.mu.Lock()
		r.cache[subject] = entry
		r.mu.Unlock()
		return levels, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Level), nil
}

func (r *CatalogRepository) lookup(subject domain.Subject, now time.Time) ([]domain.Level, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.cache[subject]
	if !ok {
		return nil, false
	}
	if !entry.expiresAt.IsZero() && !entry.expiresAt.After(now) {
		return nil, false
	}
	return entry.levels, true
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	// add up to 10% jitter to spread expirations
	jitterMax := int64(r.ttl) / 10
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
