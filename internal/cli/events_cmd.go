package cli

import (
	"context"
	"fmt"

	"virtual-assistant-be/internal/constant"
	"virtual-assistant-be/pkg/events"

	"github.com/spf13/cobra"
)

func newEventsCmd(app *App) *cobra.Command {
	var subject, durable string

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Tail action events forwarded to NATS",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if app.NewEvents == nil {
				return errEventsDisabled
			}
			source, err := app.NewEvents()
			if err != nil {
				return err
			}
			defer source.Close()

			out := cmd.OutOrStdout()
			handler := func(ctx context.Context, e events.Event) error {
				data := e.Payload()
				actionColor.Fprintf(out, "%s ", e.Timestamp().Format("15:04:05"))
				fmt.Fprintf(out, "%s session=%v\n", e.EventType(), data["session_id"])
				return nil
			}
			if err := source.Subscribe(cmd.Context(), subject, durable, handler); err != nil {
				return err
			}

			dimColor.Fprintf(out, "listening on %s\n", subject)
			<-cmd.Context().Done()
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", constant.AssistantActionSubjects, "Subject filter")
	cmd.Flags().StringVar(&durable, "durable", "", "Durable consumer name (empty for an ephemeral consumer)")
	return cmd
}
