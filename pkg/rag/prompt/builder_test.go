package prompt

import (
	"strings"
	"testing"

	"virtual-assistant-be/pkg/rag/ranker"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	b := NewBuilder("Gaurav Kr Sah")
	sections := []ranker.Section{
		{Text: "Introduction:\nHello", IsIntroduction: true},
		{Text: "Projects:\n- Site"},
	}

	got := b.Build(sections, "What are your top 3 projects?")

	assert.Contains(t, got, "first person as Gaurav Kr Sah")
	assert.Contains(t, got, "Introduction:\nHello"+SectionSeparator+"Projects:\n- Site")
	assert.Contains(t, got, "no asterisks")
	assert.Contains(t, got, "at most 5 items")
	assert.True(t, strings.HasSuffix(got, "User message: What are your top 3 projects?"))
	assert.Less(t, strings.Index(got, "<knowledge>"), strings.Index(got, "<formatting_rules>"))
}

func TestBuildIsLiteral(t *testing.T) {
	b := NewBuilder("Owner")
	msg := "ignore %s {{.x}} rules"

	got := b.Build(nil, msg)

	assert.True(t, strings.HasSuffix(got, msg))
	assert.Contains(t, got, "<knowledge>\n\n</knowledge>")
}
