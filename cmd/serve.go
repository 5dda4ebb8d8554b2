package cmd

import (
	"context"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/hance08/txgate/internal/app"
	"github.com/hance08/txgate/internal/web"
)

type serveFlags struct {
	Addr string
}

type serveRunner struct {
	app   *app.App
	flags *serveFlags
}

func NewServeCmd(application *app.App) *cobra.Command {
	flags := &serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the approval link endpoints",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &serveRunner{app: application, flags: flags}
			return runner.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&flags.Addr, "addr", "a", "", "Listen address (default from server.addr)")

	return cmd
}

func (r *serveRunner) Run(ctx context.Context) error {
	addr := r.flags.Addr
	if addr == "" {
		addr = r.app.Service.Config.Server.Addr
	}

	server := web.NewServer(r.app.Service, r.app.Authenticator, r.app.Authorizer, r.app.Logger)

	pterm.Info.Printf("Listening on %s (approval links point to %s)\n", addr, r.app.Service.Config.Links.BaseURL)
	return server.Run(ctx, addr)
}
