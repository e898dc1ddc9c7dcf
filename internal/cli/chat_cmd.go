package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"virtual-assistant-be/pkg/rag/session"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

func newChatCmd(app *App) *cobra.Command {
	var noDelay bool

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session (/clear resets, /quit exits)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			assistant, err := app.NewAssistant(cmd.Context())
			if err != nil {
				return err
			}

			opts := session.Options{Delay: session.DefaultDelay()}
			if noDelay {
				opts.Sleep = func(context.Context, time.Duration) error { return nil }
			}
			return runChat(cmd, session.New(uuid.NewString(), assistant, opts))
		},
	}

	cmd.Flags().BoolVar(&noDelay, "no-delay", false, "Skip the simulated typing delay")
	return cmd
}

func runChat(cmd *cobra.Command, s *session.Session) error {
	out := cmd.OutOrStdout()
	for _, m := range s.Messages() {
		printAssistant(out, m.Text, m.Actions)
	}

	in := cmd.InOrStdin()
	interactive := isTerminal(in)

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			userColor.Fprint(out, "you> ")
		}
		if !scanner.Scan() {
			if interactive {
				fmt.Fprintln(out)
			}
			return scanner.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/clear":
			s.Clear()
			for _, m := range s.Messages() {
				printAssistant(out, m.Text, m.Actions)
			}
			continue
		}

		replies, err := s.Submit(cmd.Context(), line)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			warnColor.Fprintln(out, err.Error())
			continue
		}
		for _, m := range replies {
			printAssistant(out, m.Text, m.Actions)
		}
	}
}

// isTerminal reports whether r is an interactive terminal. Piped input gets no prompts.
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
