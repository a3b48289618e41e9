package servecmder

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/papercomputeco/docgpt/cmd/docgpt/bootstrap"
	"github.com/papercomputeco/docgpt/form"
)

const serveLongDesc string = `Serve the DocGPT web form.

GET / renders the form, POST / handles submissions and POST /api/advice
accepts JSON ({"text", "image_url", "image_base64"}).

Examples:
  docgpt serve
  docgpt serve --listen :9000 --config docgpt.toml`

const serveShortDesc string = "Serve the web form"

type serveCommander struct {
	opts   bootstrap.Options
	listen string
}

func NewServeCmd() *cobra.Command {
	cmder := &serveCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmder.run(cmd.Context())
		},
	}

	bootstrap.AddFlags(cmd, &cmder.opts)
	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address to listen on (overrides config)")

	return cmd
}

func (c *serveCommander) run(ctx context.Context) error {
	app, err := bootstrap.Build(c.opts)
	if err != nil {
		return err
	}
	defer app.Logger.Sync()

	cfg := form.Config{
		ListenAddr: app.Config.Server.ListenAddr,
		BodyLimit:  app.Config.Server.BodyLimit,
	}
	if c.listen != "" {
		cfg.ListenAddr = c.listen
	}

	srv := form.New(cfg, app.Pipeline, app.Logger.Named("form"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down form server")
	if err := srv.Shutdown(); err != nil {
		app.Logger.Error("shutdown failed", zap.Error(err))
	}
	return <-errCh
}
