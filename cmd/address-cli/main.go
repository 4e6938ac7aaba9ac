// Package main provides the address-cli, a terminal client for the
// validation, search and activity-log resolvers.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0-dev"

	globalConfigPath string
	globalNoLog      bool
	globalJSON       bool
	globalVerbose    bool
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "address-cli",
		Short:         "Validate Australian addresses and search localities",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&globalConfigPath, "config", "c", "", "Path to a config file (defaults to ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&globalNoLog, "no-log", false, "Do not record VERIFY/SEARCH activity")
	rootCmd.PersistentFlags().BoolVar(&globalJSON, "json", false, "Print results as JSON")
	rootCmd.PersistentFlags().BoolVarP(&globalVerbose, "verbose", "v", false, "Log at debug level")

	rootCmd.AddCommand(
		newValidateCmd(),
		newSearchCmd(),
		newLogsCmd(),
	)

	return rootCmd
}
