package content

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"slices"
	"time"

	"ar-quiz-service/internal/domain"
)

const progressKeyPrefix = "arQuizProgress"

// ProgressStore reads and writes the per-player progress record.
type ProgressStore struct {
	kv  domain.KeyValueStore
	now func() time.Time
}

func NewProgressStore(kv domain.KeyValueStore) *ProgressStore {
	return &ProgressStore{kv: kv, now: time.Now}
}

func progressKey(profile string) string {
	if profile == "" {
		return progressKeyPrefix
	}
	return progressKeyPrefix + ":" + profile
}

// Load returns the stored record. Missing or corrupt data yields an empty record.
func (s *ProgressStore) Load(ctx context.Context, profile string) domain.ProgressRecord {
	raw, err := s.kv.Get(ctx, progressKey(profile))
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("warn: read progress %q: %v", profile, err)
		}
		return domain.NewProgressRecord()
	}
	record := domain.NewProgressRecord()
	if err := json.Unmarshal(raw, &record); err != nil {
		log.Printf("warn: corrupt progress %q: %v", profile, err)
		return domain.NewProgressRecord()
	}
	if record.Completed == nil {
		record.Completed = make(map[domain.Subject][]int)
	}
	if record.Scores == nil {
		record.Scores = make(map[domain.Subject]map[int]int)
	}
	return record
}

// MarkCompleted records level completion and keeps the best score for the level.
func (s *ProgressStore) MarkCompleted(ctx context.Context, profile string, subject domain.Subject, level, score int) (domain.ProgressRecord, error) {
	record := s.Load(ctx, profile)

	if !slices.Contains(record.Completed[subject], level) {
		record.Completed[subject] = append(record.Completed[subject], level)
	}
	if record.Scores[subject] == nil {
		record.Scores[subject] = make(map[int]int)
	}
	if best, ok := record.Scores[subject][level]; !ok || score > best {
		record.Scores[subject][level] = score
	}
	record.LastPlayed = &domain.LastPlayed{Subject: subject, Level: level}
	record.UpdatedAt = s.now().UTC()

	raw, err := json.Marshal(record)
	if err != nil {
		return record, err
	}
	if err := s.kv.Set(ctx, progressKey(profile), raw); err != nil {
		return record, err
	}
	return record, nil
}

// IsCompleted reports whether the level is recorded as complete.
func (s *ProgressStore) IsCompleted(ctx context.Context, profile string, subject domain.Subject, level int) bool {
	record := s.Load(ctx, profile)
	return slices.Contains(record.Completed[subject], level)
}
