package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

const programName = "gatebot"

var globalFlags = struct {
	env   string
	debug bool
}{}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Channel-subscription gated Telegram bot",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().
		StringVarP(&globalFlags.env, "env", "e", "", "config environment name (configs/<env>.yaml), defaults to APP_ENV")
	rootCmd.PersistentFlags().
		BoolVarP(&globalFlags.debug, "debug", "D", false, "enable debug logging")

	rootCmd.AddCommand(runCommand())
	rootCmd.AddCommand(versionCommand())

	if _, err := maxprocs.Set(maxprocs.Logger(func(format string, args ...any) {
		slog.Debug(fmt.Sprintf(format, args...))
	})); err != nil {
		slog.Warn("failed to set GOMAXPROCS", slog.Any("error", err))
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", programName, err)
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the bot until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBot(cmd.Context())
		},
	}
}
