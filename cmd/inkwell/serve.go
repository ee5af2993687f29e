package main

import (
	"github.com/spf13/cobra"

	"github.com/inkwell-blog/inkwell"
)

type serveOptions struct {
	addr      string
	staticDir string
}

func newServeCmd(rootFlags *rootFlags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the blog HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(rootFlags)
			if err != nil {
				return err
			}
			if opts.addr != "" {
				cfg.Addr = opts.addr
			}
			app := inkwell.New(cfg, inkwell.WithStaticDir(opts.staticDir))
			defer app.Close()
			return app.Start(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (overrides config)")
	cmd.Flags().StringVar(&opts.staticDir, "static", "public", "Directory of user static assets served under /public/")

	return cmd
}
