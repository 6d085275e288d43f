package content

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"slices"

	"ar-quiz-service/internal/domain"
	"golang.org/x/text/message"
)

// QuizSession is the ephemeral state of one quiz attempt.
type QuizSession struct {
	Subject   domain.Subject
	Level     int
	Questions []domain.Question
	Index     int
	Answered  []domain.AnsweredQuestion
	Correct   int
}

// Provider serves catalog lookups and owns the active QuizSession.
// It is not safe for concurrent use; a Game serializes access.
type Provider struct {
	source   Source
	progress *ProgressStore
	rnd      *rand.Rand
	printer  *message.Printer
	profile  string
	session  *QuizSession
}

func NewProvider(source Source, progress *ProgressStore, rnd *rand.Rand, printer *message.Printer) *Provider {
	return &Provider{source: source, progress: progress, rnd: rnd, printer: printer}
}

// SetProfile selects whose progress record availability checks read.
func (p *Provider) SetProfile(profile string) {
	p.profile = profile
}

// Subjects lists the catalog subjects.
func (p *Provider) Subjects() []domain.Subject {
	return append([]domain.Subject(nil), domain.Subjects...)
}

// GetLevelsForSubject returns the level grid. Unknown subjects yield an empty slice.
func (p *Provider) GetLevelsForSubject(ctx context.Context, subject domain.Subject) []domain.LevelSummary {
	levels, err := p.source.GetSubject(ctx, subject)
	if err != nil {
		log.Printf("warn: levels for %s: %v", subject, err)
		return []domain.LevelSummary{}
	}
	record := p.progress.Load(ctx, p.profile)
	out := make([]domain.LevelSummary, len(levels))
	for i, level := range levels {
		out[i] = domain.LevelSummary{
			ID:             i,
			Name:           p.printer.Sprintf(levelName, i+1),
			QuestionsCount: len(level),
			Available:      i == 0 || slices.Contains(record.Completed[subject], i-1),
			Completed:      slices.Contains(record.Completed[subject], i),
		}
	}
	return out
}

// StartQuiz clones and shuffles the level's questions into a fresh session.
// It reports false, leaving the previous session untouched, for unknown subjects or levels.
func (p *Provider) StartQuiz(ctx context.Context, subject domain.Subject, level int) bool {
	levels, err := p.source.GetSubject(ctx, subject)
	if err != nil {
		log.Printf("warn: start quiz %s/%d: %v", subject, level, err)
		return false
	}
	if level < 0 || level >= len(levels) {
		log.Printf("warn: start quiz %s/%d: %v", subject, level, domain.ErrUnknownLevel)
		return false
	}

	questions := append([]domain.Question(nil), levels[level]...)
	shuffle(p.rnd, questions)
	p.session = &QuizSession{
		Subject:   subject,
		Level:     level,
		Questions: questions,
	}
	log.Printf("quiz started: %s level %d, %d questions", subject, level+1, len(questions))
	return true
}

// Session exposes the active quiz session, if any.
func (p *Provider) Session() (*QuizSession, bool) {
	return p.session, p.session != nil
}

// TotalQuestions is the question count of the active session.
func (p *Provider) TotalQuestions() int {
	if p.session == nil {
		return 0
	}
	return len(p.session.Questions)
}

// GetQuestion returns the index-th question of the shuffled session.
// ok is false past the end of the quiz, or when subject/level do not match the active session.
func (p *Provider) GetQuestion(subject domain.Subject, level, index int) (domain.QuestionPayload, bool) {
	if p.session == nil || p.session.Subject != subject || p.session.Level != level {
		log.Printf("warn: no active quiz for %s/%d", subject, level)
		return domain.QuestionPayload{}, false
	}
	if index < 0 || index >= len(p.session.Questions) {
		return domain.QuestionPayload{}, false
	}
	return p.session.Questions[index].Payload(), true
}

// CurrentQuestion returns the question at the session's running index.
func (p *Provider) CurrentQuestion() (domain.Question, bool) {
	if p.session == nil || p.session.Index >= len(p.session.Questions) {
		return domain.Question{}, false
	}
	return p.session.Questions[p.session.Index], true
}

// CurrentARObjects lists the answers of the current question.
func (p *Provider) CurrentARObjects() []domain.Answer {
	q, ok := p.CurrentQuestion()
	if !ok {
		return nil
	}
	return append([]domain.Answer(nil), q.Answers...)
}

// CheckAnswer grades an answer of the current question by id and records it.
func (p *Provider) CheckAnswer(answerID string) (domain.AnswerCheck, error) {
	q, ok := p.CurrentQuestion()
	if !ok {
		return domain.AnswerCheck{}, domain.ErrNoActiveQuiz
	}
	var selected *domain.Answer
	for i := range q.Answers {
		if q.Answers[i].ID == answerID {
			selected = &q.Answers[i]
			break
		}
	}
	if selected == nil {
		return domain.AnswerCheck{}, fmt.Errorf("%w: %s", domain.ErrAnswerNotFound, answerID)
	}

	p.record(q.ID, answerID, selected.IsCorrect)
	return domain.AnswerCheck{
		IsCorrect:     selected.IsCorrect,
		CorrectAnswer: q.Answers[q.CorrectIndex()],
		Explanation:   q.Explanation,
		Progress:      p.Progress(),
	}, nil
}

// RecordSelection records an answer reported by a tap on a placed object.
func (p *Provider) RecordSelection(sel domain.AnswerSelection) error {
	q, ok := p.CurrentQuestion()
	if !ok {
		return domain.ErrNoActiveQuiz
	}
	p.record(q.ID, "", sel.IsCorrect)
	return nil
}

func (p *Provider) record(questionID, answerID string, correct bool) {
	p.session.Answered = append(p.session.Answered, domain.AnsweredQuestion{
		QuestionID: questionID,
		AnswerID:   answerID,
		IsCorrect:  correct,
	})
	if correct {
		p.session.Correct++
	}
}

// NextQuestion advances the running index; false means the quiz is complete.
func (p *Provider) NextQuestion() bool {
	if p.session == nil || len(p.session.Questions) == 0 {
		return false
	}
	if p.session.Index < len(p.session.Questions)-1 {
		p.session.Index++
		return true
	}
	return false
}

// Progress counts answers in the active session.
func (p *Provider) Progress() domain.QuizProgress {
	if p.session == nil {
		return domain.QuizProgress{}
	}
	return domain.QuizProgress{
		Total:    len(p.session.Questions),
		Answered: len(p.session.Answered),
		Correct:  p.session.Correct,
	}
}

// Results summarizes the active session.
func (p *Provider) Results() domain.QuizResults {
	if p.session == nil {
		return domain.QuizResults{}
	}
	total := len(p.session.Questions)
	percentage := 0
	if total > 0 {
		percentage = int(float64(p.session.Correct)/float64(total)*100 + 0.5)
	}
	return domain.QuizResults{
		Subject:        p.session.Subject,
		Level:          p.session.Level,
		TotalQuestions: total,
		Correct:        p.session.Correct,
		Score:          p.session.Correct,
		MaxScore:       total,
		Percentage:     percentage,
		Answered:       append([]domain.AnsweredQuestion(nil), p.session.Answered...),
	}
}

// Reset drops the active session.
func (p *Provider) Reset() {
	p.session = nil
}

// IsLevelCompleted reports whether the level is recorded complete for the current profile.
func (p *Provider) IsLevelCompleted(ctx context.Context, subject domain.Subject, level int) bool {
	return p.progress.IsCompleted(ctx, p.profile, subject, level)
}

// IsLevelAvailable: level 0 always, level N once level N-1 is complete.
func (p *Provider) IsLevelAvailable(ctx context.Context, subject domain.Subject, level int) bool {
	if level == 0 {
		return true
	}
	if level < 0 || level >= domain.LevelsPerSubject {
		return false
	}
	return p.IsLevelCompleted(ctx, subject, level-1)
}

// SaveProgress records the level as completed with score. Storage failures are logged, not returned.
func (p *Provider) SaveProgress(ctx context.Context, subject domain.Subject, level, score int) {
	if _, err := p.progress.MarkCompleted(ctx, p.profile, subject, level, score); err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("warn: save progress %s/%d: %v", subject, level, err)
		}
	}
}
