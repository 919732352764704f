package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	httpSrv "github.com/jobpulse/jobpulse/internal/http"
	"github.com/jobpulse/jobpulse/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the status HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		server := httpSrv.NewServer(a.store, a.quota, a.attempts)

		errCh := make(chan error, 1)
		go func() {
			logger.L().Info("starting http", zap.String("addr", a.cfg.HTTP.Addr))
			errCh <- server.Start(a.cfg.HTTP.Addr)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

		select {
		case sig := <-sigCh:
			logger.L().Info("signal received, shutting down", zap.String("signal", sig.String()))
		case err := <-errCh:
			if err != nil {
				logger.L().Error("http server exited", zap.Error(err))
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(ctx)

		return nil
	},
}
