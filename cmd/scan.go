package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/aggregator"
	"github.com/jobpulse/jobpulse/internal/logger"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run one ingestion cycle over all enabled sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		agg := aggregator.New(a.store)
		sum := agg.RunCycle(ctx, a.buildProviders())

		logger.L().Info("scan complete",
			zap.Int("admitted_leads", sum.AdmittedLeads),
			zap.Int("admitted_companies", sum.AdmittedCompanies),
			zap.Int("duplicates", sum.Duplicates),
			zap.Int("rejected", sum.Rejected),
			zap.Int("provider_errors", sum.ProviderErrors))

		return a.store.Save()
	},
}
