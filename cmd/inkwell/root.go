package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-blog/inkwell"
)

type rootFlags struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "inkwell",
		Short:         "inkwell serves a personal blog from a headless content source",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", inkwell.EnvOr("INKWELL_CONFIG", ""), "Path to a YAML config file")

	cmd.AddCommand(newServeCmd(flags))
	cmd.AddCommand(newExportCmd(flags))
	cmd.AddCommand(newImportCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

func loadConfig(flags *rootFlags) (inkwell.SiteConfig, error) {
	cfg, err := inkwell.LoadConfig(flags.configPath)
	if err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inkwell version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "inkwell %s\n", version)
		},
	}
}
