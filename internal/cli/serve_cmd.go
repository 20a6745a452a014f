package cli

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tutor HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				app.Config.Server.Addr = addr
			}
			if err := app.Config.LLM.Check(); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(app.context(cmd), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := app.runtime(ctx)
			if err != nil {
				return err
			}
			app.logger().Info("corpus loaded",
				"glossary", rt.Corpus.Stats().Glossary,
				"topics", rt.Corpus.Stats().Topics,
				"excerpts", rt.Corpus.Stats().Excerpts,
			)
			return rt.Server().Run(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}
