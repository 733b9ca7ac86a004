package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/flashmaster/internal/deck"
)

// SystemPrompt constrains the reply to one of the two accepted shapes.
const SystemPrompt = `Reply with ONLY JSON. Either a JSON array of MCQs, or {"mcqs": [...]}.`

// BuildPrompt renders the user message for d. Every card is included.
func BuildPrompt(d deck.Deck) string {
	lines := []string{
		"Generate 5 MCQs as JSON only. Each item must be:",
		`{ "question": string, "choices": string[4], "correctIndex": 0|1|2|3 }`,
		`Deck: "` + d.Name + `"`,
		"Cards:",
	}
	for _, c := range d.Cards {
		lines = append(lines, fmt.Sprintf("- Q: %s | A: %s", c.Question, c.Answer))
	}
	return strings.Join(lines, "\n")
}
