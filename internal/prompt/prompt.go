// Package prompt renders the four fixed tutoring prompts. Every function is
// a pure substitution over a template constant; no conditional logic lives
// inside a template.
package prompt

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"tutorgo/internal/models"
)

const (
	// MaxContextMessages bounds the history window supplied to a
	// question-answering turn. Older messages are dropped silently.
	MaxContextMessages = 5

	// maxEvaluationContent caps the covered-content excerpt (in runes)
	// interpolated into an evaluation question prompt.
	maxEvaluationContent = 1000

	difficultyLevel = "beginners to intermediate learners"
	lengthTarget    = "300-500 words"
	answerFormat    = "1-3 sentences"
)

// Tutorial renders the introductory lesson prompt for a subject.
func Tutorial(subject string) string {
	return fmt.Sprintf(tutorialTemplate, subject, difficultyLevel, lengthTarget)
}

// Question renders the follow-up question prompt with the recent
// conversation context.
func Question(subject, context, question string) string {
	return fmt.Sprintf(questionTemplate, subject, context, question, subject)
}

// EvaluationQuestion renders the comprehension-check prompt. The covered
// content is capped before interpolation so oversized histories cannot blow
// up the request.
func EvaluationQuestion(subject, content string, questionNumber int) string {
	return fmt.Sprintf(evaluationTemplate, subject, capContent(content), answerFormat, questionNumber)
}

// Feedback renders the answer-grading prompt.
func Feedback(subject, question, answer string) string {
	return fmt.Sprintf(feedbackTemplate, subject, question, answer)
}

// FormatContext renders messages as role-labeled lines, oldest first.
func FormatContext(messages []models.Message) string {
	lines := lo.Map(messages, func(m models.Message, _ int) string {
		return fmt.Sprintf("%s: %s", roleLabel(m.Role), m.Content)
	})
	return strings.Join(lines, "\n")
}

func roleLabel(r models.Role) string {
	if r == models.RoleUser {
		return "User"
	}
	return "Assistant"
}

func capContent(content string) string {
	runes := []rune(content)
	if len(runes) <= maxEvaluationContent {
		return content
	}
	return string(runes[:maxEvaluationContent]) + "..."
}
