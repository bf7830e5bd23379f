package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/api"
)

func newConvertCommand(ctx *commandContext) *cobra.Command {
	var formatFlag string
	var qualityFlag string
	var leftFlag int
	var rightFlag int
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "convert INPUT",
		Short: "Transcode a file or URL, optionally remapping audio channels",
		Long: `Transcode a local file or URL into another container.

When --left and --right are given, the source's audio channels are
remapped into a stereo track using aggregate channel indices: every
channel of every audio stream is numbered 0..N-1 in stream order. Use
"reel probe" semantics via the daemon's /api/probe endpoint to inspect
a file's topology.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := ctx.client()
			if err != nil {
				return err
			}
			payload := api.ConvertRequest{
				Input:   strings.TrimSpace(args[0]),
				Format:  formatFlag,
				Quality: qualityFlag,
			}
			if cmd.Flags().Changed("left") || cmd.Flags().Changed("right") {
				if !cmd.Flags().Changed("left") || !cmd.Flags().Changed("right") {
					return fmt.Errorf("--left and --right must be used together")
				}
				payload.LeftChannel = &leftFlag
				payload.RightChannel = &rightFlag
			}
			path, written, err := client.postStream("/api/convert", payload, outputFlag)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "saved %s (%s)\n", path, formatBytes(written))
			return nil
		},
	}

	cmd.Flags().StringVarP(&formatFlag, "format", "f", "mp4", "Output format (mp4, webm, mov, mkv, mp3, m4a, opus, flac, wav)")
	cmd.Flags().StringVarP(&qualityFlag, "quality", "q", "", "Quality tier (best, high, medium, low, audio)")
	cmd.Flags().IntVar(&leftFlag, "left", 0, "Aggregate channel index for the left output channel")
	cmd.Flags().IntVar(&rightFlag, "right", 0, "Aggregate channel index for the right output channel")
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Write the result to this path")
	return cmd
}
