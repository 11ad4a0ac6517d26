package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command for the schedassist application
var rootCmd = &cobra.Command{
	Use:   "schedassist",
	Short: "Natural-language scheduling assistant for Microsoft 365 calendars",
	Long: `schedassist turns chat messages like "schedule an interview with Jane for
the backend role" into Microsoft Graph calendar operations. An LLM extracts
the structured details; scheduling policy fills in the rest (default slot
6 PM, default duration 60 minutes).

It can run as:
  - An HTTP chat API server (serve)
  - A one-shot CLI turn (chat)`,
	SilenceUsage: true,
}

// version will be set by main
var version = "dev"

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "schedassist version %s\n" .Version}}`)

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newChatCmd())
	rootCmd.AddCommand(newVersionCmd())
}
