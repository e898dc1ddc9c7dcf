package response

import (
	"html"
	"regexp"
	"strconv"
	"strings"
)

type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockListItem  BlockKind = "list_item"
	BlockBullet    BlockKind = "bullet"
)

// Block is one display unit of a formatted answer. Text never carries
// emphasis markers.
type Block struct {
	Kind   BlockKind `json:"kind"`
	Number int       `json:"number,omitempty"`
	Text   string    `json:"text"`
}

var (
	renderNumbered = regexp.MustCompile(`^\s*(\d+)[.)]\s+(.*)$`)
	renderBullet   = regexp.MustCompile(`^\s*[-*•+–]\s+(.*)$`)
)

// Render splits formatted text into paragraphs, numbered items and bullets.
// A plain line directly under a list item continues that item.
func Render(text string) []Block {
	var blocks []Block

	for _, chunk := range strings.Split(tidy(text), "\n\n") {
		var para []string
		inItem := false

		flush := func() {
			if len(para) > 0 {
				blocks = append(blocks, Block{Kind: BlockParagraph, Text: strings.Join(para, "\n")})
				para = nil
			}
		}

		for _, line := range strings.Split(chunk, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}

			if m := renderNumbered.FindStringSubmatch(line); m != nil {
				flush()
				n, _ := strconv.Atoi(m[1])
				blocks = append(blocks, Block{Kind: BlockListItem, Number: n, Text: plain(m[2])})
				inItem = true
				continue
			}
			if m := renderBullet.FindStringSubmatch(line); m != nil {
				flush()
				blocks = append(blocks, Block{Kind: BlockBullet, Text: plain(m[1])})
				inItem = true
				continue
			}

			if inItem {
				last := &blocks[len(blocks)-1]
				last.Text = strings.TrimSpace(last.Text + " " + plain(line))
				continue
			}
			para = append(para, plain(line))
		}
		flush()
	}
	return blocks
}

// RenderHTML renders blocks as escaped HTML for the widget's message bubble.
func RenderHTML(blocks []Block) string {
	var sb strings.Builder
	open := BlockKind("")

	closeList := func() {
		switch open {
		case BlockListItem:
			sb.WriteString("</ol>")
		case BlockBullet:
			sb.WriteString("</ul>")
		}
		open = ""
	}

	for _, b := range blocks {
		if b.Kind != open {
			closeList()
		}
		switch b.Kind {
		case BlockListItem:
			if open == "" {
				sb.WriteString("<ol>")
				open = BlockListItem
			}
			sb.WriteString(`<li value="` + strconv.Itoa(b.Number) + `">` + html.EscapeString(b.Text) + "</li>")
		case BlockBullet:
			if open == "" {
				sb.WriteString("<ul>")
				open = BlockBullet
			}
			sb.WriteString("<li>" + html.EscapeString(b.Text) + "</li>")
		default:
			escaped := html.EscapeString(b.Text)
			sb.WriteString("<p>" + strings.ReplaceAll(escaped, "\n", "<br>") + "</p>")
		}
	}
	closeList()

	return sb.String()
}

func plain(s string) string {
	s = strings.ReplaceAll(s, "*", "")
	return strings.TrimSpace(spaceRuns.ReplaceAllString(s, " "))
}
