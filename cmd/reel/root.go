package main

import (
	"strings"

	"github.com/spf13/cobra"

	"reel/internal/config"
)

// commandContext resolves configuration once and shares the API client
// across subcommands.
type commandContext struct {
	configFlag *string
	serverFlag *string

	cfg *config.Config
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, _, _, err := config.Load(strings.TrimSpace(*c.configFlag))
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

func (c *commandContext) client() (*apiClient, error) {
	server := strings.TrimSpace(*c.serverFlag)
	if server == "" {
		cfg, err := c.ensureConfig()
		if err != nil {
			return nil, err
		}
		server = cfg.Paths.APIBind
	}
	return newAPIClient(server), nil
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var serverFlag string

	ctx := &commandContext{configFlag: &configFlag, serverFlag: &serverFlag}

	rootCmd := &cobra.Command{
		Use:           "reel",
		Short:         "Reel media acquisition CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().StringVar(&serverFlag, "server", "", "Daemon address (host:port)")

	rootCmd.AddCommand(newDownloadCommand(ctx))
	rootCmd.AddCommand(newConvertCommand(ctx))
	rootCmd.AddCommand(newCancelCommand(ctx))
	rootCmd.AddCommand(newStatusCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))
	rootCmd.AddCommand(newConfigCommand())

	return rootCmd
}
