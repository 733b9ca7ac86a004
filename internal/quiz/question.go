// Package quiz turns a deck into multiple-choice questions. It asks a
// cascade of LLMs for questions, parses their replies defensively, and
// falls back to questions built from the cards themselves.
package quiz

// MaxQuestions is the number of questions in one quiz.
const MaxQuestions = 5

// ChoiceCount is the number of choices on every question.
const ChoiceCount = 4

// Question is one multiple-choice question.
type Question struct {
	Question     string   `json:"question"`
	Choices      []string `json:"choices"`
	CorrectIndex int      `json:"correctIndex"`
}

// Source says where a quiz's questions came from.
type Source string

const (
	SourceAI       Source = "ai"
	SourceFallback Source = "fallback"
)
