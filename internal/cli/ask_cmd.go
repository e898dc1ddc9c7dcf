package cli

import (
	"fmt"
	"io"
	"strings"

	"virtual-assistant-be/pkg/rag/rules"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	assistantColor = color.New(color.FgCyan, color.Bold)
	userColor      = color.New(color.FgGreen, color.Bold)
	actionColor    = color.New(color.FgYellow)
	warnColor      = color.New(color.FgRed)
	dimColor       = color.New(color.Faint)
)

func newAskCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a single question from the knowledge document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question := strings.TrimSpace(strings.Join(args, " "))
			if question == "" {
				return fmt.Errorf("question is empty")
			}

			assistant, err := app.NewAssistant(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			reply := assistant.Answer(cmd.Context(), question)
			if reply.Fallback {
				warnColor.Fprintln(out, "knowledge document unavailable, using built-in profile")
			}
			printAssistant(out, reply.Text, reply.Actions)
			return nil
		},
	}
}

func printAssistant(w io.Writer, text string, actions []rules.ActionButton) {
	assistantColor.Fprint(w, "assistant> ")
	fmt.Fprintln(w, text)
	for _, a := range actions {
		actionColor.Fprintf(w, "  [%s] ", a.Label)
		dimColor.Fprintln(w, a.Action)
	}
}
