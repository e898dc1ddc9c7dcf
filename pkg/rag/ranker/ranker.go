package ranker

import (
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"virtual-assistant-be/pkg/rag/rules"
)

// DefaultMaxSections is used when a caller passes a non-positive limit.
const DefaultMaxSections = 5

// TopicBoost is added per matching topic.
const TopicBoost = 5

var (
	delimiter      = regexp.MustCompile(`(?m)^[ \t]*-{3,}[ \t]*$`)
	introHeading   = regexp.MustCompile(`(?im)^[ \t]*introduction:`)
	nonWord        = regexp.MustCompile(`[^\p{L}\p{N}_]+`)
	minTokenLength = 3
)

type Section struct {
	Text           string
	IsIntroduction bool
}

type ScoredSection struct {
	Section Section
	Score   int
}

// Ranker scores knowledge sections against a question using keyword overlap
// and topic boosts. It holds no mutable state.
type Ranker struct {
	topics []rules.Topic
}

func New(topics []rules.Topic) *Ranker {
	return &Ranker{topics: topics}
}

// Split cuts the document on delimiter lines. The first section carrying an
// "Introduction:" heading is flagged.
func Split(document string) []Section {
	parts := delimiter.Split(strings.ReplaceAll(document, "\r\n", "\n"), -1)
	sections := make([]Section, 0, len(parts))
	introFound := false
	for _, p := range parts {
		text := strings.TrimSpace(p)
		if text == "" {
			continue
		}
		s := Section{Text: text}
		if !introFound && introHeading.MatchString(text) {
			s.IsIntroduction = true
			introFound = true
		}
		sections = append(sections, s)
	}
	return sections
}

// Introduction returns the introduction section text, or "" if there is none.
func Introduction(sections []Section) string {
	for _, s := range sections {
		if s.IsIntroduction {
			return s.Text
		}
	}
	return ""
}

// Tokenize lower-cases the question, splits it on non-word runs and drops short tokens.
func Tokenize(question string) []string {
	raw := nonWord.Split(strings.ToLower(question), -1)
	tokens := make([]string, 0, len(raw))
	for _, t := range raw {
		if utf8.RuneCountInString(t) >= minTokenLength {
			tokens = append(tokens, t)
		}
	}
	return tokens
}

// Score returns every section with its keyword and topic score, in document order.
func (r *Ranker) Score(sections []Section, question string) []ScoredSection {
	tokens := Tokenize(question)

	var boosted []string
	for _, topic := range r.topics {
		if topic.Pattern.MatchString(question) {
			boosted = append(boosted, strings.ToLower(topic.Name))
		}
	}

	scored := make([]ScoredSection, len(sections))
	for i, s := range sections {
		lower := strings.ToLower(s.Text)
		score := 0
		for _, tok := range tokens {
			if strings.Contains(lower, tok) {
				score++
			}
		}
		for _, name := range boosted {
			if strings.Contains(lower, name) {
				score += TopicBoost
			}
		}
		scored[i] = ScoredSection{Section: s, Score: score}
	}
	return scored
}

// Rank returns the most relevant sections for question, introduction first
// when it was not selected on its own merit. The result never exceeds maxSections.
func (r *Ranker) Rank(document, question string, maxSections int) []Section {
	if maxSections <= 0 {
		maxSections = DefaultMaxSections
	}

	sections := Split(document)
	if len(sections) == 0 {
		return []Section{{Text: document}}
	}

	scored := r.Score(sections, question)
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	take := min(maxSections-1, len(scored))
	take = max(1, take)

	selected := make([]Section, 0, take+1)
	for _, s := range scored[:take] {
		selected = append(selected, s.Section)
	}

	intro := Introduction(sections)
	if intro == "" || containsText(selected, intro) {
		return selected
	}
	if len(selected)+1 > maxSections {
		selected = selected[:len(selected)-1]
	}
	return append([]Section{{Text: intro, IsIntroduction: true}}, selected...)
}

func containsText(sections []Section, text string) bool {
	for _, s := range sections {
		if s.Text == text {
			return true
		}
	}
	return false
}
