package content

import (
	"context"
	"math/rand"
	"strings"
	"sync"
	"testing"

	"ar-quiz-service/internal/domain"
)

// mapKV is a minimal in-memory KeyValueStore for package tests.
type mapKV struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMapKV() *mapKV { return &mapKV{data: make(map[string][]byte)} }

func (m *mapKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, domain.ErrKeyNotFound
	}
	return v, nil
}

func (m *mapKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func generate(seed int64) Catalog {
	return NewGenerator(DefaultTexts, rand.New(rand.NewSource(seed)), NewPrinter("en")).Generate(domain.Subjects)
}

func newProvider(kv domain.KeyValueStore, seed int64) *Provider {
	return NewProvider(NewStaticLoader(generate(1)), NewProgressStore(kv), rand.New(rand.NewSource(seed)), NewPrinter("en"))
}

func TestGeneratedCatalogShape(t *testing.T) {
	catalog := generate(42)
	if len(catalog) != len(domain.Subjects) {
		t.Fatalf("expected %d subjects, got %d", len(domain.Subjects), len(catalog))
	}
	for subject, levels := range catalog {
		if err := ValidateLevels(subject, levels); err != nil {
			t.Fatalf("invalid catalog: %v", err)
		}
		for li, level := range levels {
			for qi, q := range level {
				if q.Difficulty != li+1 {
					t.Fatalf("%s/%d/%d: difficulty %d", subject, li, qi, q.Difficulty)
				}
				// the correct answer carries the table's first text
				want := DefaultTexts[subject][qi].Answers[0]
				if got := q.Answers[q.CorrectIndex()].Text; got != want {
					t.Fatalf("%s/%d/%s: correct text %q, want %q", subject, li, q.ID, got, want)
				}
			}
		}
	}
}

func TestGeneratorFallsBackToPlaceholders(t *testing.T) {
	catalog := NewGenerator(TextTable{}, rand.New(rand.NewSource(1)), NewPrinter("en")).Generate([]domain.Subject{domain.SubjectAnatomy})
	q := catalog[domain.SubjectAnatomy][2][4]
	if q.Text != "Question 5 on anatomy, level 3" {
		t.Fatalf("unexpected placeholder %q", q.Text)
	}
	if !strings.HasPrefix(q.Answers[0].Text, "Answer ") || q.Explanation != "Explanation for question 5" {
		t.Fatalf("unexpected placeholders: %+v", q)
	}
}

func TestNewPrinterLocalizes(t *testing.T) {
	if got := NewPrinter("ru").Sprintf(levelName, 3); got != "Уровень 3" {
		t.Fatalf("expected russian level name, got %q", got)
	}
	if got := NewPrinter("not a tag").Sprintf(levelName, 3); got != "Level 3" {
		t.Fatalf("expected english fallback, got %q", got)
	}
}

func TestStartQuizShufflesLevel(t *testing.T) {
	ctx := context.Background()
	p := newProvider(newMapKV(), 9)
	if !p.StartQuiz(ctx, domain.SubjectGeology, 0) {
		t.Fatalf("expected quiz to start")
	}
	level, _ := generate(1).Level(domain.SubjectGeology, 0)
	seen := make(map[string]bool)
	for i := 0; i < domain.QuestionsPerLevel; i++ {
		payload, ok := p.GetQuestion(domain.SubjectGeology, 0, i)
		if !ok {
			t.Fatalf("question %d missing", i)
		}
		seen[payload.Text] = true
	}
	for _, q := range level {
		if !seen[q.Text] {
			t.Fatalf("question %q missing from shuffled session", q.Text)
		}
	}
	if _, ok := p.GetQuestion(domain.SubjectGeology, 0, domain.QuestionsPerLevel); ok {
		t.Fatalf("expected end of quiz at index %d", domain.QuestionsPerLevel)
	}
	if _, ok := p.GetQuestion(domain.SubjectBotany, 0, 0); ok {
		t.Fatalf("expected no question for a subject without a session")
	}
}

func TestStartQuizRejectsUnknownLevel(t *testing.T) {
	ctx := context.Background()
	p := newProvider(newMapKV(), 1)
	if p.StartQuiz(ctx, domain.SubjectBotany, domain.LevelsPerSubject) {
		t.Fatalf("expected level out of range to fail")
	}
	if p.StartQuiz(ctx, domain.Subject("alchemy"), 0) {
		t.Fatalf("expected unknown subject to fail")
	}
	if _, ok := p.Session(); ok {
		t.Fatalf("expected no session after failed starts")
	}
}

func TestCheckAnswerRecordsResult(t *testing.T) {
	ctx := context.Background()
	p := newProvider(newMapKV(), 3)
	p.StartQuiz(ctx, domain.SubjectAnatomy, 1)

	q, _ := p.CurrentQuestion()
	correct := q.Answers[q.CorrectIndex()]
	check, err := p.CheckAnswer(correct.ID)
	if err != nil || !check.IsCorrect {
		t.Fatalf("expected correct answer, got %+v (%v)", check, err)
	}
	if _, err := p.CheckAnswer("nope"); err == nil {
		t.Fatalf("expected unknown answer error")
	}
	if !p.NextQuestion() {
		t.Fatalf("expected a second question")
	}
	res := p.Results()
	if res.Correct != 1 || len(res.Answered) != 1 || res.Percentage != 10 {
		t.Fatalf("unexpected results %+v", res)
	}
	p.Reset()
	if p.TotalQuestions() != 0 {
		t.Fatalf("expected no session after reset")
	}
}

func TestLevelAvailability(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	p := newProvider(kv, 1)
	p.SetProfile("ada")

	if !p.IsLevelAvailable(ctx, domain.SubjectBotany, 0) {
		t.Fatalf("level 0 is always available")
	}
	if p.IsLevelAvailable(ctx, domain.SubjectBotany, 3) {
		t.Fatalf("level 3 locked before level 2 is complete")
	}
	p.SaveProgress(ctx, domain.SubjectBotany, 2, 6)
	if !p.IsLevelAvailable(ctx, domain.SubjectBotany, 3) {
		t.Fatalf("level 3 available once level 2 is complete")
	}
	if p.IsLevelAvailable(ctx, domain.SubjectGeology, 3) {
		t.Fatalf("progress must not leak across subjects")
	}

	levels := p.GetLevelsForSubject(ctx, domain.SubjectBotany)
	if len(levels) != domain.LevelsPerSubject || !levels[2].Completed || !levels[3].Available || levels[4].Available {
		t.Fatalf("unexpected grid %+v", levels[:5])
	}
	if got := p.GetLevelsForSubject(ctx, domain.Subject("alchemy")); len(got) != 0 {
		t.Fatalf("expected empty grid for unknown subject, got %d", len(got))
	}
}

func TestProgressKeepsBestScore(t *testing.T) {
	ctx := context.Background()
	store := NewProgressStore(newMapKV())
	if _, err := store.MarkCompleted(ctx, "ada", domain.SubjectGeology, 0, 8); err != nil {
		t.Fatalf("mark: %v", err)
	}
	record, err := store.MarkCompleted(ctx, "ada", domain.SubjectGeology, 0, 5)
	if err != nil {
		t.Fatalf("mark: %v", err)
	}
	if record.Scores[domain.SubjectGeology][0] != 8 || len(record.Completed[domain.SubjectGeology]) != 1 {
		t.Fatalf("unexpected record %+v", record)
	}
	if record.LastPlayed == nil || record.LastPlayed.Subject != domain.SubjectGeology {
		t.Fatalf("expected last played geology, got %+v", record.LastPlayed)
	}
}

func TestCorruptProgressIsEmpty(t *testing.T) {
	ctx := context.Background()
	kv := newMapKV()
	_ = kv.Set(ctx, progressKey("ada"), []byte("{not json"))
	store := NewProgressStore(kv)

	record := store.Load(ctx, "ada")
	if len(record.Completed) != 0 || len(record.Scores) != 0 {
		t.Fatalf("expected empty record, got %+v", record)
	}
	if _, err := store.MarkCompleted(ctx, "ada", domain.SubjectBotany, 0, 3); err != nil {
		t.Fatalf("mark after corruption: %v", err)
	}
	if !store.IsCompleted(ctx, "ada", domain.SubjectBotany, 0) {
		t.Fatalf("expected record rewritten")
	}
}
