package domain

import "time"

const (
	// LevelsPerSubject is the number of generated levels per subject.
	LevelsPerSubject = 10
	// QuestionsPerLevel is the fixed size of a level.
	QuestionsPerLevel = 10
	// AnswersPerQuestion is the number of choices shown for each question.
	AnswersPerQuestion = 4
	// LeaderboardSize bounds the persisted leaderboard.
	LeaderboardSize = 10
)

// Answer is one choice of a question.
type Answer struct {
	ID        string `json:"id" yaml:"id"`
	Text      string `json:"text" yaml:"text"`
	IsCorrect bool   `json:"isCorrect" yaml:"isCorrect"`
	Color     string `json:"color" yaml:"color"`
}

// Question models an MCQ question with exactly one correct answer.
type Question struct {
	ID          string   `json:"id" yaml:"id"`
	Text        string   `json:"text" yaml:"text"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Answers     []Answer `json:"answers" yaml:"answers"`
	Difficulty  int      `json:"difficulty" yaml:"difficulty"`
}

// CorrectIndex returns the index of the correct answer or -1.
func (q Question) CorrectIndex() int {
	for i, a := range q.Answers {
		if a.IsCorrect {
			return i
		}
	}
	return -1
}

// Payload converts a question into the shape the placement bridge consumes.
func (q Question) Payload() QuestionPayload {
	choices := make([]string, len(q.Answers))
	for i, a := range q.Answers {
		choices[i] = a.Text
	}
	return QuestionPayload{
		Text:          q.Text,
		Choices:       choices,
		CorrectAnswer: q.CorrectIndex(),
		Explanation:   q.Explanation,
	}
}

// Level is an ordered list of questions.
type Level []Question

// LevelSummary is the level grid entry shown on the level selection screen.
type LevelSummary struct {
	ID             int    `json:"id"`
	Name           string `json:"name"`
	QuestionsCount int    `json:"questionsCount"`
	Available      bool   `json:"available"`
	Completed      bool   `json:"completed"`
}

// QuestionPayload is the text, choices and correct index handed to the bridge.
type QuestionPayload struct {
	Text          string   `json:"text"`
	Choices       []string `json:"choices"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation"`
}

// AnswerSelection is what a tap on a placed object reports.
type AnswerSelection struct {
	IsCorrect bool `json:"isCorrect"`
	Index     int  `json:"index"`
}

// AnsweredQuestion records a single answer within a quiz attempt.
type AnsweredQuestion struct {
	QuestionID string `json:"questionId"`
	AnswerID   string `json:"answerId"`
	IsCorrect  bool   `json:"isCorrect"`
}

// AnswerCheck is the outcome of checking an answer by id.
type AnswerCheck struct {
	IsCorrect     bool         `json:"isCorrect"`
	CorrectAnswer Answer       `json:"correctAnswer"`
	Explanation   string       `json:"explanation"`
	Progress      QuizProgress `json:"progress"`
}

// QuizProgress counts answers within the active quiz.
type QuizProgress struct {
	Total    int `json:"total"`
	Answered int `json:"answered"`
	Correct  int `json:"correct"`
}

// QuizResults summarizes a finished (or abandoned) attempt.
type QuizResults struct {
	Subject        Subject            `json:"subject"`
	Level          int                `json:"level"`
	TotalQuestions int                `json:"totalQuestions"`
	Correct        int                `json:"correctAnswers"`
	Score          int                `json:"score"`
	MaxScore       int                `json:"maxScore"`
	Percentage     int                `json:"percentage"`
	Answered       []AnsweredQuestion `json:"answeredQuestions"`
}

// LeaderboardEntry is one persisted result.
type LeaderboardEntry struct {
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// LastPlayed remembers the most recently completed level.
type LastPlayed struct {
	Subject Subject `json:"subject"`
	Level   int     `json:"level"`
}

// ProgressRecord is the persisted per-player progress blob.
type ProgressRecord struct {
	Completed  map[Subject][]int       `json:"completed"`
	Scores     map[Subject]map[int]int `json:"scores"`
	LastPlayed *LastPlayed             `json:"lastPlayed,omitempty"`
	UpdatedAt  time.Time               `json:"updatedAt,omitempty"`
}

// NewProgressRecord returns an empty record.
func NewProgressRecord() ProgressRecord {
	return ProgressRecord{
		Completed: make(map[Subject][]int),
		Scores:    make(map[Subject]map[int]int),
	}
}
