package app

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sort"
	"sync"

	"ar-quiz-service/internal/domain"
)

// LeaderboardKey is the storage key of the global leaderboard.
const LeaderboardKey = "arQuizLeaderboard"

// DefaultLeaderboard seeds an empty or unreadable leaderboard.
var DefaultLeaderboard = []domain.LeaderboardEntry{
	{Name: "AR Hero", Score: 18},
	{Name: "Quiz Virtuoso", Score: 16},
	{Name: "Geology Pro", Score: 14},
	{Name: "Botany Expert", Score: 12},
	{Name: "Anatomy Master", Score: 10},
}

// LeaderboardStore persists the top results. Add is a serialized read-modify-write.
type LeaderboardStore struct {
	kv   domain.KeyValueStore
	size int
	mu   sync.Mutex
}

func NewLeaderboardStore(kv domain.KeyValueStore, size int) *LeaderboardStore {
	if size <= 0 {
		size = domain.LeaderboardSize
	}
	return &LeaderboardStore{kv: kv, size: size}
}

// Load returns the stored leaderboard, falling back to DefaultLeaderboard.
func (s *LeaderboardStore) Load(ctx context.Context) []domain.LeaderboardEntry {
	raw, err := s.kv.Get(ctx, LeaderboardKey)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("warn: read leaderboard: %v", err)
		}
		return defaultLeaderboard()
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil || entries == nil {
		log.Printf("warn: corrupt leaderboard, using defaults: %v", err)
		return defaultLeaderboard()
	}
	return entries
}

// Save writes entries as given.
func (s *LeaderboardStore) Save(ctx context.Context, entries []domain.LeaderboardEntry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, LeaderboardKey, raw)
}

// Add inserts a result, keeps the list sorted by score descending and truncated, and persists it.
// The updated list is returned even when persisting fails.
func (s *LeaderboardStore) Add(ctx context.Context, entry domain.LeaderboardEntry) ([]domain.LeaderboardEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries := rankEntries(append(s.Load(ctx), entry), s.size)
	return entries, s.Save(ctx, entries)
}

// rankEntries sorts by score descending (stable, so earlier results win ties) and truncates to size.
func rankEntries(entries []domain.LeaderboardEntry, size int) []domain.LeaderboardEntry {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > size {
		entries = entries[:size]
	}
	return entries
}

func defaultLeaderboard() []domain.LeaderboardEntry {
	return append([]domain.LeaderboardEntry(nil), DefaultLeaderboard...)
}
