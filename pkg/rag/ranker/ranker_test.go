package ranker

import (
	"fmt"
	"strings"
	"testing"

	"virtual-assistant-be/pkg/rag/rules"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `Introduction:
I am a developer who builds web apps.

---

Skills:
Go, TypeScript, React and PostgreSQL.

---

Projects:
- Portfolio Website
- Task Manager
- Dev Toolkit

-----

Education:
Computer science degree.

---
Hobbies:
Photography and hiking.`

func texts(sections []Section) []string {
	out := make([]string, len(sections))
	for i, s := range sections {
		out[i] = strings.SplitN(s.Text, "\n", 2)[0]
	}
	return out
}

func TestSplit(t *testing.T) {
	sections := Split(sampleDoc)

	require.Len(t, sections, 5)
	assert.True(t, sections[0].IsIntroduction)
	for _, s := range sections[1:] {
		assert.False(t, s.IsIntroduction)
	}
	assert.Equal(t, "Hobbies:\nPhotography and hiking.", sections[4].Text)
	assert.Equal(t, sections[0].Text, Introduction(sections))
}

func TestSplitWithoutIntroduction(t *testing.T) {
	sections := Split("Skills:\nGo\n---\nProjects:\nThings")

	require.Len(t, sections, 2)
	assert.Equal(t, "", Introduction(sections))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"what", "are", "your", "top", "projects"}, Tokenize("What are your top 3 projects?"))
	assert.Empty(t, Tokenize("Go is ok"))
	assert.Empty(t, Tokenize(""))
}

func TestTokenizeKeepsAccentedWords(t *testing.T) {
	tokens := Tokenize("Résumé tips for Zürich?")

	assert.Equal(t, []string{"résumé", "tips", "for", "zürich"}, tokens)
	assert.NotContains(t, tokens, "sum")
}

func TestScoreCountsEachTokenOnce(t *testing.T) {
	r := New(nil)
	scored := r.Score([]Section{
		{Text: "React react REACT hooks"},
		{Text: "nothing relevant"},
	}, "react hooks")

	assert.Equal(t, 2, scored[0].Score)
	assert.Equal(t, 0, scored[1].Score)
}

func TestScoreMatchingSectionBeatsUnrelated(t *testing.T) {
	r := New(rules.Default().Topics)
	questions := []string{"Tell me about photography", "Which degree do you have?", "postgresql experience"}

	for _, q := range questions {
		t.Run(q, func(t *testing.T) {
			sections := []Section{{Text: "zzz qqq"}, {Text: "Photography, a degree and PostgreSQL"}}
			scored := r.Score(sections, q)
			assert.Greater(t, scored[1].Score, scored[0].Score)
		})
	}
}

func TestScoreTopicBoost(t *testing.T) {
	r := New(rules.Default().Topics)
	scored := r.Score([]Section{{Text: "Projects:\n- Site"}, {Text: "Hobbies"}}, "show me what you made")

	// "made" hits no section and no topic.
	assert.Equal(t, 0, scored[0].Score)

	scored = r.Score([]Section{{Text: "Projects:\n- Site"}, {Text: "Hobbies"}}, "show me your portfolio")
	assert.Equal(t, TopicBoost, scored[0].Score)
	assert.Equal(t, 0, scored[1].Score)
}

func TestRankPutsIntroductionFirst(t *testing.T) {
	r := New(rules.Default().Topics)

	got := r.Rank(sampleDoc, "skills and projects", 3)

	assert.Equal(t, []string{"Introduction:", "Skills:", "Projects:"}, texts(got))
	assert.True(t, got[0].IsIntroduction)
}

func TestRankKeepsIntroductionWhenSelected(t *testing.T) {
	r := New(nil)

	got := r.Rank(sampleDoc, "introduction developer", 3)

	assert.Equal(t, "Introduction:", texts(got)[0])
	assert.Len(t, got, 2)
}

func TestRankStableForTies(t *testing.T) {
	r := New(nil)

	got := r.Rank(sampleDoc, "unrelated words entirely", 10)

	assert.Equal(t, []string{"Introduction:", "Skills:", "Projects:", "Education:", "Hobbies:"}, texts(got))
}

func TestRankBounds(t *testing.T) {
	r := New(rules.Default().Topics)
	questions := []string{"", "projects", "skills and education", "hiking photography"}

	for maxSections := 1; maxSections <= 7; maxSections++ {
		for _, q := range questions {
			t.Run(fmt.Sprintf("%d/%s", maxSections, q), func(t *testing.T) {
				got := r.Rank(sampleDoc, q, maxSections)
				assert.LessOrEqual(t, len(got), maxSections)
				assert.GreaterOrEqual(t, len(got), 1)
				assert.Contains(t, texts(got), "Introduction:")
			})
		}
	}
}

func TestRankDefaultLimit(t *testing.T) {
	got := New(nil).Rank(sampleDoc+"\n---\nExtra:\none\n---\nMore:\ntwo", "extra more skills projects", 0)
	assert.Len(t, got, DefaultMaxSections)
}

func TestRankWithoutSections(t *testing.T) {
	got := New(nil).Rank("---\n---", "anything", 5)

	require.Len(t, got, 1)
	assert.Equal(t, "---\n---", got[0].Text)
}

func TestRankWithoutIntroduction(t *testing.T) {
	got := New(nil).Rank("Skills:\nGo\n---\nProjects:\nGo tools", "projects", 5)

	assert.Equal(t, []string{"Projects:", "Skills:"}, texts(got))
}
