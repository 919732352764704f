package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jobpulse/jobpulse/internal/outreach"
)

var outreachCmd = &cobra.Command{
	Use:   "outreach",
	Short: "Run one outreach cycle against the admitted record set",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}
		defer a.close()

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

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

		sched.RunCycle(ctx)

		return a.store.Save()
	},
}
