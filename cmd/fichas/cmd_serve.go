package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/fichas-go/pkg/fichas/metrics"
	"github.com/ukaji3/fichas-go/pkg/fichas/server"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			m := metrics.New()
			ctrl, j, err := a.newController(ctx, m)
			if err != nil {
				return err
			}
			var history server.History
			if j != nil {
				defer j.Close()
				history = j
			}

			if err := ctrl.Reload(ctx); err != nil {
				a.logger.Warn("Initial load failed, serving anyway", zap.Error(err))
			}

			if addr == "" {
				addr = a.cfg.Server.Addr
			}
			srv := server.New(server.Config{
				Addr:            addr,
				ShutdownTimeout: a.cfg.GetShutdownTimeout(),
			}, ctrl, history, m, a.logger)
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
