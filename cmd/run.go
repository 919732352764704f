package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/aggregator"
	httpSrv "github.com/jobpulse/jobpulse/internal/http"
	"github.com/jobpulse/jobpulse/internal/logger"
	"github.com/jobpulse/jobpulse/internal/outreach"
)

// runCmd drives the full loop: periodic scans, periodic outreach, periodic
// checkpoints, and the status server, until interrupted. Cadence lives here;
// the pipeline itself only exposes cycle-shaped entry points.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scan/outreach loop with the status server",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		providers := a.buildProviders()
		agg := aggregator.New(a.store)

		sched := outreach.NewScheduler(a.store, a.quota, a.buildChannel(), a.attempts)
		sched.Personal = a.personal()
		if a.cfg.Outreach.LeadBatchSize > 0 {
			sched.LeadBatchSize = a.cfg.Outreach.LeadBatchSize
		}
		if a.cfg.Outreach.CompanyBatchSize > 0 {
			sched.CompanyBatchSize = a.cfg.Outreach.CompanyBatchSize
		}
		if a.cfg.Outreach.CoolDown > 0 {
			sched.CoolDown = a.cfg.Outreach.CoolDown
		}

		server := httpSrv.NewServer(a.store, a.quota, a.attempts)
		go func() {
			logger.L().Info("starting http", zap.String("addr", a.cfg.HTTP.Addr))
			if err := server.Start(a.cfg.HTTP.Addr); err != nil {
				logger.L().Warn("http server exited", zap.Error(err))
			}
		}()

		scanEvery := a.cfg.Scheduler.ScanEvery
		if scanEvery <= 0 {
			scanEvery = 2 * time.Hour
		}
		outreachEvery := a.cfg.Scheduler.OutreachEvery
		if outreachEvery <= 0 {
			outreachEvery = 8 * time.Hour
		}
		saveEvery := a.cfg.Scheduler.SaveEvery
		if saveEvery <= 0 {
			saveEvery = 24 * time.Hour
		}

		scanTick := time.NewTicker(scanEvery)
		outreachTick := time.NewTicker(outreachEvery)
		saveTick := time.NewTicker(saveEvery)
		defer scanTick.Stop()
		defer outreachTick.Stop()
		defer saveTick.Stop()

		// Initial scan on startup, matching the long-lived bot behavior.
		agg.RunCycle(ctx, providers)

		for {
			select {
			case <-ctx.Done():
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				_ = server.Shutdown(shutdownCtx)
				cancel()
				return a.store.Save()

			case <-scanTick.C:
				agg.RunCycle(ctx, providers)

			case <-outreachTick.C:
				sched.RunCycle(ctx)

			case <-saveTick.C:
				if err := a.store.Save(); err != nil {
					logger.L().Error("checkpoint save failed", zap.Error(err))
				}
			}
		}
	},
}
