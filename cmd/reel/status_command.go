package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"reel/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show daemon state, live sessions, and tool availability",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var status api.StatusResponse
			if err := client.getJSON("/api/status", &status); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "daemon: running (pid %d)\n", status.PID)
			if status.LockFilePath != "" {
				fmt.Fprintf(out, "lock:   %s\n", status.LockFilePath)
			}
			if status.HistoryDBPath != "" {
				fmt.Fprintf(out, "ledger: %s\n", status.HistoryDBPath)
			}

			fmt.Fprintln(out)
			if len(status.Sessions) == 0 {
				fmt.Fprintln(out, "no sessions in flight")
			} else {
				rows := make([][]string, len(status.Sessions))
				for i, sess := range status.Sessions {
					rows[i] = []string{
						sess.Key,
						sess.Kind,
						sess.State,
						time.Since(sess.StartedAt).Round(time.Second).String(),
					}
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Key", "Kind", "State", "Age"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight},
				))
			}

			fmt.Fprintln(out)
			rows := make([][]string, len(status.Dependencies))
			for i, dep := range status.Dependencies {
				availability := "ok"
				if !dep.Available {
					availability = "missing"
					if dep.Detail != "" {
						availability = dep.Detail
					}
				}
				rows[i] = []string{dep.Name, dep.Command, availability}
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Tool", "Command", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
