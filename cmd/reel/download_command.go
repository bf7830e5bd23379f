package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/api"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var qualityFlag string
	var filenameFlag string
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "download URL",
		Short: "Download media from a URL through the daemon",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			payload := api.DownloadRequest{
				URL:      strings.TrimSpace(args[0]),
				Quality:  qualityFlag,
				Filename: filenameFlag,
			}
			path, written, err := client.postStream("/api/download", payload, outputFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", path, formatBytes(written))
			return nil
		},
	}

	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Quality tier (best, high, medium, low, audio)")
	cmd.Flags().StringVar(&filenameFlag, "filename", "", "Override the output file name")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the result to this path")
	return cmd
}

func formatBytes(count int64) string {
	const unit = 1024
	if count < unit {
		return fmt.Sprintf("%d B", count)
	}
	div, exp := int64(unit), 0
	for n := count / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(count)/float64(div), "KMGTPE"[exp])
}
