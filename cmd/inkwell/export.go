package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inkwell-blog/inkwell"
)

type exportOptions struct {
	out       string
	staticDir string
}

func newExportCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Render the site to static files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootFlags)
			if err != nil {
				return err
			}
			app := inkwell.New(cfg, inkwell.WithStaticDir(opts.staticDir))
			defer app.Close()
			if err := app.Export(cmd.Context(), opts.out); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported site to %s\n", opts.out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "dist", "Output directory")
	cmd.Flags().StringVar(&opts.staticDir, "static", "public", "Directory of user static assets copied under /public/")

	return cmd
}
