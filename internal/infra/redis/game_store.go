package redis

import (
	"context"
	"sync"
	"time"

	"ar-quiz-service/internal/app"
	"github.com/redis/go-redis/v9"
)

// GameStore is a Redis-aware implementation of app.GameRepository.
// Games hold live timers and a socket, so they stay in the local map;
// Redis only carries a liveness marker per game that other instances can see.
type GameStore struct {
	client *redis.Client
	ttl    time.Duration
	mu     sync.RWMutex
	games  map[string]*app.Game
}

func NewGameStore(client *redis.Client, ttl time.Duration) *GameStore {
	return &GameStore{
		client: client,
		ttl:    ttl,
		games:  make(map[string]*app.Game),
	}
}

func (s *GameStore) Put(game *app.Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[game.ID()] = game
	// best-effort liveness marker
	_ = s.client.Set(context.Background(), s.key(game.ID()), "1", s.ttl).Err()
}

func (s *GameStore) Get(id string) (*app.Game, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	return game, ok
}

func (s *GameStore) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return
	}
	delete(s.games, id)
	_ = s.client.Del(context.Background(), s.key(id)).Err()
}

// Touch extends the liveness marker of a game.
func (s *GameStore) Touch(ctx context.Context, id string) error {
	return s.client.Expire(ctx, s.key(id), s.ttl).Err()
}

func (s *GameStore) key(id string) string {
	return "arquiz:game:" + id
}
