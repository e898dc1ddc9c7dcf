package intent

import (
	"regexp"

	"virtual-assistant-be/pkg/rag/rules"
)

// Pass selects which pattern set an intent is matched with.
type Pass int

const (
	// PassInput uses the strict patterns meant for the raw user message.
	PassInput Pass = iota
	// PassAnswer uses the looser keyword patterns meant for generated text.
	PassAnswer
)

// Classifier matches text against intents in priority order.
type Classifier struct {
	intents []rules.Intent
}

func NewClassifier(intents []rules.Intent) *Classifier {
	return &Classifier{intents: intents}
}

// Classify returns the first intent, by priority, with a pattern matching text.
func (c *Classifier) Classify(text string, pass Pass) (rules.Intent, bool) {
	if text == "" {
		return rules.Intent{}, false
	}
	for _, in := range c.intents {
		if matchAny(patternsFor(in, pass), text) {
			return in, true
		}
	}
	return rules.Intent{}, false
}

// ClassifyInput runs the strict pass on a raw user message.
func (c *Classifier) ClassifyInput(text string) (rules.Intent, bool) {
	return c.Classify(text, PassInput)
}

// ClassifyAnswer runs the loose pass on generated answer text.
func (c *Classifier) ClassifyAnswer(text string) (rules.Intent, bool) {
	return c.Classify(text, PassAnswer)
}

func patternsFor(in rules.Intent, pass Pass) []*regexp.Regexp {
	if pass == PassAnswer {
		return in.AnswerPatterns
	}
	return in.InputPatterns
}

func matchAny(patterns []*regexp.Regexp, text string) bool {
	for _, re := range patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
