package content

import (
	"context"
	"fmt"

	"ar-quiz-service/internal/domain"
)

// Catalog is the full subject -> levels table.
type Catalog map[domain.Subject][]domain.Level

// Level looks up one level of a subject.
func (c Catalog) Level(subject domain.Subject, level int) (domain.Level, error) {
	levels, ok := c[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubject, subject)
	}
	if level < 0 || level >= len(levels) {
		return nil, fmt.Errorf("%w: %s/%d", domain.ErrUnknownLevel, subject, level)
	}
	return levels[level], nil
}

// Loader fetches a subject's levels from a backing store.
type Loader interface {
	LoadSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error)
}

// Source serves catalog content to providers (usually a cache in front of a Loader).
type Source interface {
	GetSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error)
}

// StaticLoader serves a catalog generated once at startup.
type StaticLoader struct {
	catalog Catalog
}

func NewStaticLoader(catalog Catalog) *StaticLoader {
	return &StaticLoader{catalog: catalog}
}

func (l *StaticLoader) LoadSubject(_ context.Context, subject domain.Subject) ([]domain.Level, error) {
	levels, ok := l.catalog[subject]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownSubject, subject)
	}
	return levels, nil
}

// GetSubject lets a StaticLoader stand in for a Source when no cache is needed.
func (l *StaticLoader) GetSubject(ctx context.Context, subject domain.Subject) ([]domain.Level, error) {
	return l.LoadSubject(ctx, subject)
}

// ValidateLevels checks the catalog shape: fixed level/question/answer counts and exactly one correct answer.
func ValidateLevels(subject domain.Subject, levels []domain.Level) error {
	if len(levels) != domain.LevelsPerSubject {
		return fmt.Errorf("subject %s: expected %d levels, got %d", subject, domain.LevelsPerSubject, len(levels))
	}
	for li, level := range levels {
		if len(level) != domain.QuestionsPerLevel {
			return fmt.Errorf("subject %s level %d: expected %d questions, got %d", subject, li, domain.QuestionsPerLevel, len(level))
		}
		for _, q := range level {
			if len(q.Answers) != domain.AnswersPerQuestion {
				return fmt.Errorf("subject %s level %d question %s: expected %d answers, got %d", subject, li, q.ID, domain.AnswersPerQuestion, len(q.Answers))
			}
			correct := 0
			for _, a := range q.Answers {
				if a.IsCorrect {
					correct++
				}
			}
			if correct != 1 {
				return fmt.Errorf("subject %s level %d question %s: %d correct answers", subject, li, q.ID, correct)
			}
		}
	}
	return nil
}
