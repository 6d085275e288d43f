package content

import (
	"fmt"
	"math/rand"

	"ar-quiz-service/internal/domain"
	"golang.org/x/text/message"
)

// Generator builds the catalog once at startup.
type Generator struct {
	texts   TextTable
	rnd     *rand.Rand
	printer *message.Printer
}

func NewGenerator(texts TextTable, rnd *rand.Rand, printer *message.Printer) *Generator {
	if texts == nil {
		texts = DefaultTexts
	}
	return &Generator{texts: texts, rnd: rnd, printer: printer}
}

// Generate returns LevelsPerSubject levels for every subject.
func (g *Generator) Generate(subjects []domain.Subject) Catalog {
	catalog := make(Catalog, len(subjects))
	for _, subject := range subjects {
		levels := make([]domain.Level, domain.LevelsPerSubject)
		for level := range levels {
			levels[level] = g.generateLevel(subject, level)
		}
		catalog[subject] = levels
	}
	return catalog
}

func (g *Generator) generateLevel(subject domain.Subject, level int) domain.Level {
	questions := make(domain.Level, domain.QuestionsPerLevel)
	for i := range questions {
		correct := g.rnd.Intn(domain.AnswersPerQuestion)
		texts := g.answerTexts(subject, level, i)
		// the table lists the correct text first; move it to the drawn slot
		texts[0], texts[correct] = texts[correct], texts[0]

		colors := append([]string(nil), Palette...)
		shuffle(g.rnd, colors)

		answers := make([]domain.Answer, domain.AnswersPerQuestion)
		for j := range answers {
			answers[j] = domain.Answer{
				ID:        fmt.Sprintf("q%d_a%d", i, j),
				Text:      texts[j],
				IsCorrect: j == correct,
				Color:     colors[j%len(colors)],
			}
		}
		questions[i] = domain.Question{
			ID:          fmt.Sprintf("q%d", i),
			Text:        g.questionText(subject, level, i),
			Explanation: g.explanationText(subject, i),
			Answers:     answers,
			Difficulty:  level + 1,
		}
	}
	return questions
}

func (g *Generator) row(subject domain.Subject, index int) (TextRow, bool) {
	rows, ok := g.texts[subject]
	if !ok || index >= len(rows) {
		return TextRow{}, false
	}
	return rows[index], true
}

func (g *Generator) questionText(subject domain.Subject, level, index int) string {
	if row, ok := g.row(subject, index); ok && row.Question != "" {
		return row.Question
	}
	return g.printer.Sprintf(questionPlaceholder, index+1, subject, level+1)
}

func (g *Generator) answerTexts(subject domain.Subject, level, index int) []string {
	out := make([]string, domain.AnswersPerQuestion)
	row, ok := g.row(subject, index)
	for j := range out {
		if ok && row.Answers[j] != "" {
			out[j] = row.Answers[j]
			continue
		}
		out[j] = g.printer.Sprintf(answerPlaceholder, j+1)
	}
	return out
}

func (g *Generator) explanationText(subject domain.Subject, index int) string {
	if row, ok := g.row(subject, index); ok && row.Explanation != "" {
		return row.Explanation
	}
	return g.printer.Sprintf(explanationPlaceholder, index+1)
}

// shuffle is an in-place Fisher-Yates shuffle.
func shuffle[T any](rnd *rand.Rand, items []T) {
	for i := len(items) - 1; i > 0; i-- {
		j := rnd.Intn(i + 1)
		items[i], items[j] = items[j], items[i]
	}
}
