package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"address-validator/internal/app"
	"address-validator/internal/models"
	getlogs "address-validator/internal/resolvers/activity/get-logs"
)

func newLogsCmd() *cobra.Command {
	var input getlogs.Input

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "List recorded activity, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Type = strings.ToUpper(input.Type)
			if input.Type != "" && !models.ActivityType(input.Type).Valid() {
				return fmt.Errorf("invalid type %q, valid types: VERIFY, SEARCH", input.Type)
			}
			return runLogs(cmd, input)
		},
	}

	cmd.Flags().IntVarP(&input.Limit, "limit", "l", getlogs.DefaultLimit, "Maximum number of entries")
	cmd.Flags().IntVar(&input.Offset, "offset", 0, "Number of entries to skip")
	cmd.Flags().StringVarP(&input.Type, "type", "t", "", "Filter by activity type (VERIFY, SEARCH)")

	return cmd
}

func runLogs(cmd *cobra.Command, input getlogs.Input) error {
	return withApp(func(a *app.App) error {
		out := a.LogReader.Execute(cmd.Context(), &input)
		return writeLogs(cmd.OutOrStdout(), out.Logs, globalJSON)
	})
}

func writeLogs(w io.Writer, logs []models.LogEntry, asJSON bool) error {
	if asJSON {
		return printJSON(w, logs)
	}
	if len(logs) == 0 {
		_, err := fmt.Fprintln(w, "No activity recorded.")
		return err
	}

	for _, entry := range logs {
		status := "ok"
		if !entry.Success {
			status = "failed"
		}
		fmt.Fprintf(w, "%s  %-6s  %-6s  %s\n", entry.Timestamp, entry.Type, status, entry.ID)
		if entry.Input != "" {
			fmt.Fprintf(w, "    input:  %s\n", entry.Input)
		}
		if entry.Output != "" {
			fmt.Fprintf(w, "    output: %s\n", entry.Output)
		}
	}
	return nil
}
