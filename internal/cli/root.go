package cli

import (
	"context"
	"errors"

	"virtual-assistant-be/pkg/knowledge"
	pktNats "virtual-assistant-be/pkg/nats"
	"virtual-assistant-be/pkg/rag/ranker"
	"virtual-assistant-be/pkg/rag/session"

	"github.com/spf13/cobra"
)

var errEventsDisabled = errors.New("NATS_URL is not configured")

// Assistant is the answer pipeline as used from the terminal.
type Assistant interface {
	session.Responder
	Rank(ctx context.Context, question string) ([]ranker.ScoredSection, knowledge.Result)
}

// EventSource streams action events. *nats.Subscriber satisfies it.
type EventSource interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
	Close()
}

// App holds the constructors used by CLI commands. Dependencies are built
// lazily so that commands which do not need a generator or a broker run
// without credentials.
type App struct {
	NewAssistant func(ctx context.Context) (Assistant, error)
	NewEvents    func() (EventSource, error)
	Serve        func(ctx context.Context) error
}

// NewRootCmd creates the top-level "assistant" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "assistant",
		Short:         "Portfolio virtual assistant",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newAskCmd(app),
		newRankCmd(app),
		newChatCmd(app),
		newEventsCmd(app),
		newServeCmd(app),
	)

	return root
}

func newServeCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server for the chat widget",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.Serve(cmd.Context())
		},
	}
}
