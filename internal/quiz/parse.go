package quiz

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// WrapperField is the object field an LLM may nest its question array under.
const WrapperField = "mcqs"

var fenceRe = regexp.MustCompile("(?s)```[a-zA-Z0-9_-]*[ \t]*\r?\n?(.*?)```")

// ParseQuestions extracts questions from raw LLM output. It tries, in
// order: the interior of a fenced code block, the span from the first '['
// to the last ']', and the whole text. Each candidate may be a bare array
// or an object holding the array under WrapperField. Items that do not have
// the question shape are dropped; the first candidate with at least one
// usable item wins. At most MaxQuestions are returned. Unusable text yields
// an empty slice.
func ParseQuestions(text string) []Question {
	for _, candidate := range candidates(text) {
		items, ok := decodeArray(candidate)
		if !ok {
			continue
		}
		if qs := promote(items); len(qs) > 0 {
			if len(qs) > MaxQuestions {
				qs = qs[:MaxQuestions]
			}
			return qs
		}
	}
	return []Question{}
}

// candidates returns the substrings worth trying, most specific first.
func candidates(text string) []string {
	var out []string
	if m := fenceRe.FindStringSubmatch(text); m != nil {
		out = append(out, strings.TrimSpace(m[1]))
	}
	if start, end := strings.IndexByte(text, '['), strings.LastIndexByte(text, ']'); start >= 0 && end > start {
		out = append(out, text[start:end+1])
	}
	return append(out, strings.TrimSpace(text))
}

// decodeArray strictly decodes s and returns its question array.
func decodeArray(s string) ([]any, bool) {
	if s == "" {
		return nil, false
	}
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	// Strict: trailing content means the candidate was not one JSON value.
	if strings.TrimSpace(s[dec.InputOffset():]) != "" {
		return nil, false
	}

	switch x := v.(type) {
	case []any:
		return x, true
	case map[string]any:
		arr, ok := x[WrapperField].([]any)
		return arr, ok
	}
	return nil, false
}

// promote converts schema-valid items into Questions.
func promote(items []any) []Question {
	var out []Question
	for _, item := range items {
		if err := validateItem(item); err != nil {
			continue
		}
		if q, ok := toQuestion(item); ok {
			out = append(out, q)
		}
	}
	return out
}

// toQuestion reads a schema-valid item. JSON integers may arrive as 2.0 or
// 2e0; any integral number is accepted as correctIndex.
func toQuestion(item any) (Question, bool) {
	obj, ok := item.(map[string]any)
	if !ok {
		return Question{}, false
	}
	text, _ := obj["question"].(string)
	raw, _ := obj["choices"].([]any)
	choices := make([]string, 0, len(raw))
	for _, c := range raw {
		s, ok := c.(string)
		if !ok {
			return Question{}, false
		}
		choices = append(choices, s)
	}

	num, ok := obj["correctIndex"].(json.Number)
	if !ok {
		return Question{}, false
	}
	f, err := num.Float64()
	if err != nil || f != math.Trunc(f) {
		return Question{}, false
	}
	return Question{Question: text, Choices: choices, CorrectIndex: int(f)}, true
}
