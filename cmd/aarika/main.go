// Package main provides the Aarika CLI entry point: an interactive Hinglish
// to-do assistant for the terminal, plus one-shot ask and speak commands.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aarika/internal/logger"
	"aarika/internal/version"
)

// globalFlags holds the persistent flags shared by every subcommand.
type globalFlags struct {
	logLevel   string
	logFile    string
	configFile string
	provider   string
	model      string
	testMode   bool
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "aarika",
		Short: "Aarika - Hinglish to-do assistant",
		Long: `Aarika is a friendly Hinglish-speaking assistant that keeps your to-do list.
Chat in plain language and she adds, completes, removes and lists tasks for you.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if err := logger.Configure(flags.logLevel, flags.logFile, flags.testMode); err != nil {
				return fmt.Errorf("error configuring logger: %w", err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runShell(cmd, flags)
		},
	}
	rootCmd.SetVersionTemplate(version.GetFormattedVersion() + "\n")

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", "", "Set log level (debug|info|warn|error) [default: info]")
	pf.StringVar(&flags.logFile, "log-file", "", "Write logs to file instead of stderr")
	pf.StringVar(&flags.configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/aarika/config.yaml)")
	pf.StringVar(&flags.provider, "provider", "", "Model provider (gemini|openai|anthropic)")
	pf.StringVar(&flags.model, "model", "", "Chat model name")
	pf.BoolVar(&flags.testMode, "test-mode", false, "Run offline with a mock model and deterministic IDs")

	rootCmd.AddCommand(
		newChatCmd(flags),
		newAskCmd(flags),
		newSpeakCmd(flags),
		newToolsCmd(),
		newVersionCmd(),
	)
	return rootCmd
}
