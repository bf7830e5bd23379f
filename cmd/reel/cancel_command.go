package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/api"
)

func newCancelCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cancel KEY",
		Short: "Cancel an in-flight request by its key (the URL or input path)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			var response api.CancelResponse
			payload := api.CancelRequest{Key: strings.TrimSpace(args[0])}
			if err := client.postJSON("/api/cancel", payload, &response); err != nil {
				return err
			}
			if !response.Cancelled {
				fmt.Fprintln(cmd.OutOrStdout(), "no live session for that key")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "cancellation requested")
			return nil
		},
	}
	return cmd
}
