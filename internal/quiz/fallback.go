package quiz

import "github.com/abhisek/flashmaster/internal/deck"

// fillerChoices pad every fallback question after the correct answer.
var fillerChoices = [ChoiceCount - 1]string{"Not sure", "Another option", "None of the above"}

// Fallback builds a quiz from the first MaxQuestions cards of d in deck
// order. The card's answer is always choice 0. It needs no network and
// cannot fail.
func Fallback(d deck.Deck) []Question {
	n := min(len(d.Cards), MaxQuestions)
	out := make([]Question, 0, n)
	for _, c := range d.Cards[:n] {
		out = append(out, Question{
			Question:     c.Question,
			Choices:      []string{c.Answer, fillerChoices[0], fillerChoices[1], fillerChoices[2]},
			CorrectIndex: 0,
		})
	}
	return out
}
