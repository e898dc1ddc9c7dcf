package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

const previewRunes = 60

func newRankCmd(app *App) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "rank <question>",
		Short: "Show how knowledge sections score against a question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := app.NewAssistant(cmd.Context())
			if err != nil {
				return err
			}

			scored, doc := assistant.Rank(cmd.Context(), strings.Join(args, " "))
			out := cmd.OutOrStdout()
			if doc.Fallback {
				warnColor.Fprintln(out, "knowledge document unavailable, ranking built-in profile")
			}
			if limit > 0 && len(scored) > limit {
				scored = scored[:limit]
			}

			for i, s := range scored {
				marker := " "
				if s.Section.IsIntroduction {
					marker = "*"
				}
				actionColor.Fprintf(out, "%2d. %4d %s ", i+1, s.Score, marker)
				fmt.Fprintln(out, preview(s.Section.Text))
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum sections to show (0 shows all)")
	return cmd
}

func preview(text string) string {
	line := strings.TrimSpace(text)
	if i := strings.IndexByte(line, '\n'); i >= 0 {
		line = strings.TrimSpace(line[:i])
	}
	r := []rune(line)
	if len(r) > previewRunes {
		return string(r[:previewRunes-3]) + "..."
	}
	return line
}
