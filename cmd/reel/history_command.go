package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"reel/internal/api"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limitFlag int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recently finished requests",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var payload api.HistoryResponse
			path := "/api/history"
			if limitFlag > 0 {
				path += "?limit=" + strconv.Itoa(limitFlag)
			}
			if err := client.getJSON(path, &payload); err != nil {
				return err
			}
			if len(payload.Entries) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "history is empty")
				return nil
			}
			rows := make([][]string, len(payload.Entries))
			for i, entry := range payload.Entries {
				rows[i] = []string{
					strconv.FormatInt(entry.ID, 10),
					entry.FinishedAt.Format("2006-01-02 15:04"),
					entry.Kind,
					entry.Platform,
					entry.State,
					entry.Key,
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Finished", "Kind", "Platform", "State", "Key"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limitFlag, "limit", "n", 20, "Maximum entries to show")
	return cmd
}
