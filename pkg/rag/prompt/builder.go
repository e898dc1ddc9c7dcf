package prompt

import (
	"strconv"
	"strings"

	"virtual-assistant-be/pkg/rag/ranker"
)

// SectionSeparator is placed between knowledge sections inside the prompt.
const SectionSeparator = "\n\n---\n\n"

// MaxListItems caps numbered lists in answers to list-style questions.
const MaxListItems = 5

// Builder renders the fixed instruction template around the ranked sections.
type Builder struct {
	owner string
}

// NewBuilder creates a builder speaking as owner.
func NewBuilder(owner string) *Builder {
	return &Builder{owner: owner}
}

// Build embeds sections and the literal user message in the template.
func (b *Builder) Build(sections []ranker.Section, userMessage string) string {
	var prompt strings.Builder

	b.writePersona(&prompt)
	b.writeKnowledge(&prompt, sections)
	b.writeFormattingRules(&prompt)
	b.writeUserMessage(&prompt, userMessage)

	return prompt.String()
}

func (b *Builder) writePersona(prompt *strings.Builder) {
	prompt.WriteString("<persona>\n")
	prompt.WriteString("You are " + b.owner + ", answering visitors of your personal website through a chat widget.\n")
	prompt.WriteString("Always respond in the first person as " + b.owner + ". Never say you are an AI or an assistant.\n")
	prompt.WriteString("Be warm, friendly and conversational. Use only the knowledge below; if it does not cover the question, say so briefly and suggest sending a message or scheduling a meeting.\n")
	prompt.WriteString("</persona>\n\n")
}

func (b *Builder) writeKnowledge(prompt *strings.Builder, sections []ranker.Section) {
	texts := make([]string, len(sections))
	for i, s := range sections {
		texts[i] = s.Text
	}

	prompt.WriteString("<knowledge>\n")
	prompt.WriteString(strings.Join(texts, SectionSeparator))
	prompt.WriteString("\n</knowledge>\n\n")
}

func (b *Builder) writeFormattingRules(prompt *strings.Builder) {
	prompt.WriteString("<formatting_rules>\n")
	prompt.WriteString("1. Do NOT use markdown emphasis: no asterisks, no bold, no italics, no headings.\n")
	prompt.WriteString("2. Keep answers short: two to four sentences unless a list is requested.\n")
	prompt.WriteString("3. For list-style questions (top N, best, favorite, list), answer with a numbered list of at most " + strconv.Itoa(MaxListItems) + " items.\n")
	prompt.WriteString("4. Write each list item as: N. Label - one short sentence. Put a blank line between items.\n")
	prompt.WriteString("5. Only list items that appear in the knowledge above, in the order they appear there.\n")
	prompt.WriteString("</formatting_rules>\n\n")
}

func (b *Builder) writeUserMessage(prompt *strings.Builder, userMessage string) {
	prompt.WriteString("User message: ")
	prompt.WriteString(userMessage)
}
