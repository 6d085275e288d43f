package content

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	questionPlaceholder    = "Question %d on %s, level %d"
	answerPlaceholder      = "Answer %d"
	explanationPlaceholder = "Explanation for question %d"
	levelName              = "Level %d"
)

func init() {
	message.SetString(language.English, questionPlaceholder, "Question %d on %s, level %d")
	message.SetString(language.English, answerPlaceholder, "Answer %d")
	message.SetString(language.English, explanationPlaceholder, "Explanation for question %d")
	message.SetString(language.English, levelName, "Level %d")

	message.SetString(language.Russian, questionPlaceholder, "Вопрос %d по предмету %s, уровень %d")
	message.SetString(language.Russian, answerPlaceholder, "Ответ %d")
	message.SetString(language.Russian, explanationPlaceholder, "Объяснение для вопроса %d")
	message.SetString(language.Russian, levelName, "Уровень %d")
}

var supported = language.NewMatcher([]language.Tag{language.English, language.Russian})

// NewPrinter returns a printer for the closest supported language; unknown tags fall back to English.
func NewPrinter(lang string) *message.Printer {
	tag, err := language.Parse(lang)
	if err != nil {
		return message.NewPrinter(language.English)
	}
	matched, _, _ := supported.Match(tag)
	base, _ := matched.Base()
	return message.NewPrinter(language.Make(base.String()))
}
