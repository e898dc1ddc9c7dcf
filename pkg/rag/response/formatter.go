package response

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLength is the response ceiling in characters.
	DefaultMaxLength = 5000

	// TruncationNotice is appended, after a blank line, to shortened responses.
	TruncationNotice = "(Message truncated for readability)"

	// sentenceLookback bounds how far back truncation searches for a period.
	sentenceLookback = 500

	maxLabelRunes = 40
	maxLabelWords = 6

	// maxPolishRounds bounds the polish loop. Every round removes markup or
	// rewrites an opening apology, so real text settles in two or three.
	maxPolishRounds = 8
)

var (
	blankRuns = regexp.MustCompile(`\n{3,}`)
	spaceRuns = regexp.MustCompile(`[ \t]{2,}`)

	numberedHint = regexp.MustCompile(`(?m)^[ \t]*\d+[.)][ \t]+\S`)
	listQuestion = regexp.MustCompile(`(?i)\b(top\s+\d+|best|favou?rites?|list)\b`)

	starBullet   = regexp.MustCompile(`^(\s*)\*\s+`)
	glyphBullet  = regexp.MustCompile(`^(\s*)[•+–]\s+`)
	numberedLine = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.+)$`)
	labeled      = regexp.MustCompile(`^([^:—–]+?)\s*(?:—|–|:|\s-)\s+(.+)$`)
	sentenceEnd  = regexp.MustCompile(`[.!?]\s`)

	labeledItem = regexp.MustCompile(`^(\d+\. \*\*[^*]+\*\*)(.*)$`)
	italic      = regexp.MustCompile(`\*([^*\n]+?)\*`)

	apologyPunct = regexp.MustCompile(`(?i)^(?:i'?m\s+(?:so\s+|very\s+|really\s+)?sorry|i\s+am\s+(?:so\s+|very\s+|really\s+)?sorry|sorry|my\s+apologies|apologies)[,.!]+[ \t]*`)
	apologyBut   = regexp.MustCompile(`(?i)^(?:i'?m\s+(?:so\s+|very\s+|really\s+)?sorry|i\s+am\s+(?:so\s+|very\s+|really\s+)?sorry|sorry),?[ \t]+but[ \t]+`)
	lowerI       = regexp.MustCompile(`(?m)(^|[\s("'*])i((?:'|’)(?:m|ve|ll|d))?([\s,;:!?)"'*]|$)`)
)

// Formatter turns raw generated text into clean, bounded chat text.
// Format is idempotent: formatting its own output changes nothing.
type Formatter struct {
	maxLength int
}

func NewFormatter(maxLength int) *Formatter {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Formatter{maxLength: maxLength}
}

// MaxLength returns the configured ceiling.
func (f *Formatter) MaxLength() int {
	return f.maxLength
}

// Format cleans raw text with no knowledge of the question asked.
func (f *Formatter) Format(raw string) string {
	return f.FormatFor(raw, "")
}

// FormatFor cleans raw text. A question asking for a list forces list
// formatting even when the text carries no numbering.
func (f *Formatter) FormatFor(raw, question string) string {
	text := tidy(raw)
	if text == "" {
		return ""
	}

	if numberedHint.MatchString(strings.ReplaceAll(text, "*", "")) || listQuestion.MatchString(question) {
		text = formatLists(text)
	}

	text = polish(text)
	return f.truncate(text)
}

// polish strips emphasis and normalizes tone until the text stops changing.
// Removing markup can expose an opening apology or a star bullet, so a
// single round is not enough for the result to be stable.
func polish(text string) string {
	for range maxPolishRounds {
		next := polishOnce(text)
		if next == text {
			break
		}
		text = next
	}
	return text
}

func polishOnce(text string) string {
	text = tidy(stripEmphasis(text))
	text = normalizeTone(text)
	return tidy(text)
}

func tidy(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	text = strings.Join(lines, "\n")
	text = blankRuns.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// formatLists normalizes bullets and rewrites numbered items as
// "N. **Label**: text". Markers are detected with emphasis removed so
// that stripping it later never reveals a new list line.
func formatLists(text string) string {
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))

	for _, line := range lines {
		plain := spaceRuns.ReplaceAllString(strings.ReplaceAll(line, "*", ""), " ")

		switch {
		case starBullet.MatchString(line):
			line = starBullet.ReplaceAllString(line, "$1- ")
		case glyphBullet.MatchString(plain):
			line = glyphBullet.ReplaceAllString(plain, "$1- ")
		case numberedLine.MatchString(plain):
			m := numberedLine.FindStringSubmatch(plain)
			line = formatNumbered(m[1], m[2])
			if len(out) > 0 && strings.TrimSpace(out[len(out)-1]) != "" {
				out = append(out, "")
			}
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func formatNumbered(num, rest string) string {
	rest = strings.TrimSpace(rest)

	if m := labeled.FindStringSubmatch(rest); m != nil {
		label := strings.TrimSpace(m[1])
		if isLabel(label) {
			return num + ". **" + label + "**: " + strings.TrimSpace(m[2])
		}
	}
	return num + ". " + rest
}

func isLabel(label string) bool {
	if label == "" || strings.HasSuffix(label, ".") {
		return false
	}
	if utf8.RuneCountInString(label) > maxLabelRunes {
		return false
	}
	if len(strings.Fields(label)) > maxLabelWords {
		return false
	}
	return !sentenceEnd.MatchString(label)
}

// stripEmphasis drops bold markers before looking for a star bullet, so
// "** * item" becomes "- item". The bullet is split off before italics are
// removed so that its star never pairs with one inside the item.
func stripEmphasis(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		prefix := ""
		if m := labeledItem.FindStringSubmatch(line); m != nil {
			prefix, line = m[1], m[2]
		}

		line = strings.ReplaceAll(line, "**", "")
		if prefix == "" {
			if m := starBullet.FindStringSubmatch(line); m != nil {
				prefix, line = m[1]+"- ", line[len(m[0]):]
			}
		}

		for {
			next := italic.ReplaceAllString(line, "$1")
			if next == line {
				break
			}
			line = next
		}
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}

func normalizeTone(text string) string {
	if apologyBut.MatchString(text) {
		text = apologyBut.ReplaceAllString(text, "I apologize, but ")
	} else {
		text = apologyPunct.ReplaceAllString(text, "I apologize, ")
	}

	for {
		next := lowerI.ReplaceAllString(text, "${1}I${2}${3}")
		if next == text {
			break
		}
		text = next
	}

	return spaceRuns.ReplaceAllString(text, " ")
}

// truncate cuts at the last period within the lookback window before the
// cutoff, or hard at the cutoff when there is none.
func (f *Formatter) truncate(text string) string {
	runes := []rune(text)
	if len(runes) <= f.maxLength {
		return text
	}

	cutoff := f.maxLength - utf8.RuneCountInString(TruncationNotice) - 2
	if cutoff < 1 {
		notice := []rune(TruncationNotice)
		return string(notice[:min(f.maxLength, len(notice))])
	}

	cut := cutoff
	for i := cutoff - 1; i >= 0 && i >= cutoff-sentenceLookback; i-- {
		if runes[i] == '.' {
			cut = i + 1
			break
		}
	}

	body := polish(string(runes[:cut]))
	if body == "" {
		return TruncationNotice
	}
	return body + "\n\n" + TruncationNotice
}
