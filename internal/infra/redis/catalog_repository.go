package redis

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"sync"
	"time"

	"ar-quiz-service/internal/content"
	"ar-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// CatalogRepository caches subject levels in Redis and falls back to a loader on cache miss.
// Levels are stored as: SET catalog:{subject}:levels <json>
type CatalogRepository struct {
	client *redis.Client
	loader content.Loader
	ttl    time.Duration
	sf     singleflight.Group
	rndMu  sync.Mutex
	rnd    *rand.Rand
}

func NewCatalogRepository(client *redis.Client, loader content.Loader, ttl time.Duration) *CatalogRepository {
	return &CatalogRepository{
		client: client,
		loader: loader,
		ttl:    ttl,
		rnd:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (r *CatalogRepository) GetSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error) {
	if levels, ok := r.cached(ctx, subject); ok {
		return levels, nil
	}

	result, err, _ := r.sf.Do(string(subject), func() (interface{}, error) {
		// Re-check cache in case another goroutine filled it.
		if levels, ok := r.cached(ctx, subject); ok {
			return levels, nil
		}

		levels, err := r.loader.LoadSubject(ctx, subject)
		if err != nil {
			return nil, err
		}
		if err := content.ValidateLevels(subject, levels); err != nil {
			return nil, err
		}

		raw, err := json.Marshal(levels)
		if err != nil {
			return nil, err
		}
		if err := r.client.Set(ctx, r.levelsKey(subject), raw, r.ttlWithJitter()).Err(); err != nil {
			log.Printf("warn: cache catalog %s: %v", subject, err)
		}
		return levels, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Level), nil
}

func (r *CatalogRepository) cached(ctx context.Context, subject domain.Subject) ([]domain.Level, bool) {
	raw, err := r.client.Get(ctx, r.levelsKey(subject)).Bytes()
	if err != nil {
		return nil, false
	}
	var levels []domain.Level
	if err := json.Unmarshal(raw, &levels); err != nil {
		log.Printf("warn: corrupt cached catalog %s: %v", subject, err)
		return nil, false
	}
	if err := content.ValidateLevels(subject, levels); err != nil {
		log.Printf("warn: invalid cached catalog %s: %v", subject, err)
		return nil, false
	}
	return levels, true
}

func (r *CatalogRepository) levelsKey(subject domain.Subject) string {
	return "catalog:" + string(subject) + ":levels"
}

func (r *CatalogRepository) ttlWithJitter() time.Duration {
	if r.ttl <= 0 {
		return 0
	}
	jitterMax := int64(r.ttl) / 10
	r.rndMu.Lock()
	defer r.rndMu.Unlock()
	return r.ttl + time.Duration(r.rnd.Int63n(jitterMax+1))
}
