package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/gantry/internal/api"
	"github.com/alexanderramin/gantry/internal/render"
)

func newServeCmd(app *App) *cobra.Command {
	var addr, stylePath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve charts and conflict reports over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := app.config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			if stylePath == "" {
				stylePath = cfg.Chart.StyleFile
			}
			style, err := render.LoadStyle(stylePath)
			if err != nil {
				return err
			}

			logger := loggerFromContext(ctx)
			logger.Debug("serve options", "cache", cfg.Cache.Backend, "style", stylePath, "width", cfg.Chart.Width)
			srv := api.NewServer(app.Projects, app.Schedule, logger, api.Options{
				DefaultWidth: cfg.Chart.Width,
				Style:        style,
			})
			return srv.Run(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	cmd.Flags().StringVar(&stylePath, "style", "", "YAML style file for SVG charts")

	return cmd
}
