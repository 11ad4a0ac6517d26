package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/teemow/schedassist/internal/config"
	"github.com/teemow/schedassist/internal/instrumentation"
	"github.com/teemow/schedassist/internal/logging"
)

// welcomeText is printed when chat is invoked without a message.
const welcomeText = `Hello! I'm your scheduling assistant.

I can help you:
  - Schedule interviews ("schedule an interview with Jane for the backend role")
  - Create meetings ("set up a meeting about the roadmap")
  - Show your calendar ("what meetings do I have today?")
  - Show recent emails ("check my inbox")
  - Cancel meetings ("delete the meeting with Jane")

Interviews default to 6 PM for 60 minutes.`

func newChatCmd() *cobra.Command {
	var requester string

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Process a single chat message and print the reply",
		Long: `Run one turn of the assistant from the command line. The message is taken
from the arguments; with no arguments the welcome text is printed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				fmt.Println(welcomeText)
				return nil
			}
			message := strings.Join(args, " ")

			cfg := config.Load()
			if requester != "" {
				cfg.Requester = requester
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}

			logging.Setup(cfg.LogLevel, cfg.LogFormat)

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.TurnTimeout)
			defer cancel()

			// One-shot turns skip the exporter pipeline; a disabled
			// provider gives noop tracers and a nil metrics recorder.
			provider, err := instrumentation.NewProvider(ctx, instrumentation.Config{})
			if err != nil {
				return fmt.Errorf("failed to create instrumentation provider: %w", err)
			}

			a, err := buildAssistant(ctx, cfg, provider)
			if err != nil {
				return err
			}

			fmt.Println(a.HandleTurn(ctx, message, cfg.Requester))
			return nil
		},
	}

	cmd.Flags().StringVar(&requester, "requester", "", "identity attributed to this turn")
	return cmd
}
