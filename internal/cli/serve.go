package cli

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/tangram/internal/board"
	"github.com/mesh-intelligence/tangram/internal/metrics"
	"github.com/mesh-intelligence/tangram/internal/server"
)

const shutdownTimeout = 5 * time.Second

func newServeCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a board over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, cfg, err := attachStore()
			if err != nil {
				return err
			}
			defer store.Detach()

			logger := newLogger(cmd)
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector())
			b := board.New(store,
				board.WithConfig(cfg),
				board.WithLogger(logger),
				board.WithMetrics(metrics.New(reg)),
			)

			if !flags.verbose {
				gin.SetMode(gin.ReleaseMode)
			}
			srv := &http.Server{
				Addr:              addr,
				Handler:           server.New(b, store, reg, logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			errc := make(chan error, 1)
			go func() {
				logger.Info("listening", "addr", addr)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return systemError("serve: %w", err)
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				return systemError("shutdown: %w", err)
			}
			logger.Info("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "127.0.0.1:8080", "listen address")
	return cmd
}
