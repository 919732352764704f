// Package outreach runs the dispatch cycle: pick a bounded batch of new
// entities, ask the quota tracker before every send, deliver once per
// candidate, and mark only successful contacts. A cycle ends on batch cap,
// candidate exhaustion, or quota exhaustion, whichever comes first.
package outreach

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/delivery"
	"github.com/jobpulse/jobpulse/internal/discovery"
	"github.com/jobpulse/jobpulse/internal/logger"
	"github.com/jobpulse/jobpulse/internal/metrics"
	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/quota"
	"github.com/jobpulse/jobpulse/internal/repository"
	"github.com/jobpulse/jobpulse/internal/store"
	"github.com/jobpulse/jobpulse/internal/util"
)

// Summary is the outcome of one outreach cycle.
type Summary struct {
	LeadsSent     int
	CompaniesSent int
	Failed        int
	QuotaStopped  bool
}

type Scheduler struct {
	Store    *store.Store
	Quota    *quota.Tracker
	Channel  delivery.Channel
	Attempts repository.AttemptsRepository
	Personal delivery.PersonalInfo

	LeadBatchSize    int
	CompanyBatchSize int
	CoolDown         time.Duration

	// Finders resolve addresses per kind; overridable in tests.
	LeadFinder    discovery.Finder
	CompanyFinder discovery.Finder

	sleep func(time.Duration)
}

func NewScheduler(st *store.Store, qt *quota.Tracker, ch delivery.Channel, attempts repository.AttemptsRepository) *Scheduler {
	return &Scheduler{
		Store:            st,
		Quota:            qt,
		Channel:          ch,
		Attempts:         attempts,
		LeadBatchSize:    5,
		CompanyBatchSize: 3,
		CoolDown:         10 * time.Second,
		LeadFinder:       discovery.ContentFinder{},
		CompanyFinder:    discovery.StaticFinder{},
		sleep:            time.Sleep,
	}
}

// RunCycle processes leads then companies, each under its own batch cap but
// sharing the one daily quota.
func (s *Scheduler) RunCycle(ctx context.Context) Summary {
	var sum Summary

	sum.LeadsSent = s.runKind(ctx, model.KindLead, s.LeadBatchSize, s.LeadFinder, nil, &sum)
	sum.CompaniesSent = s.runKind(ctx, model.KindCompany, s.CompanyBatchSize, s.CompanyFinder,
		model.Entity.HasCandidateEmails, &sum)

	logger.L().Info("outreach cycle complete",
		zap.Int("leads_sent", sum.LeadsSent),
		zap.Int("companies_sent", sum.CompaniesSent),
		zap.Int("failed", sum.Failed),
		zap.Bool("quota_stopped", sum.QuotaStopped))
	return sum
}

func (s *Scheduler) runKind(ctx context.Context, kind model.Kind, batchSize int, finder discovery.Finder, eligible func(model.Entity) bool, sum *Summary) int {
	if batchSize <= 0 {
		return 0
	}

	candidates := s.Store.ListNew(kind, batchSize, eligible)

	sent := 0
	for i, e := range candidates {
		if ctx.Err() != nil {
			return sent
		}
		if !s.Quota.MayProceed() {
			// Remaining candidates stay new and come back next cycle.
			sum.QuotaStopped = true
			return sent
		}

		addrs := finder.Find(ctx, e)
		addrs = discovery.FilterRelevant(addrs)
		if len(addrs) == 0 {
			continue
		}
		address := addrs[0]

		subject, body := delivery.Compose(e, s.Personal)
		err := s.Channel.Send(ctx, address, subject, body)
		s.Quota.Record(err == nil)
		s.recordAttempt(ctx, e, address, err)

		if err != nil {
			// Entity stays new; it is retried on a future cycle.
			sum.Failed++
			metrics.OutreachTotal.WithLabelValues("failed", kind.String()).Inc()
			logger.L().Warn("delivery failed",
				zap.Int64("entity_id", e.ID), zap.String("address", address), zap.Error(err))
			continue
		}

		if err := s.Store.MarkContacted(e.ID, address); err != nil {
			logger.L().Error("mark contacted failed", zap.Int64("entity_id", e.ID), zap.Error(err))
		}
		sent++
		metrics.OutreachTotal.WithLabelValues("sent", kind.String()).Inc()

		// Courtesy pacing between sends, independent of the quota.
		if s.CoolDown > 0 && i < len(candidates)-1 {
			s.sleep(s.CoolDown)
		}
	}
	return sent
}

func (s *Scheduler) recordAttempt(ctx context.Context, e model.Entity, address string, sendErr error) {
	if s.Attempts == nil {
		return
	}

	a := repository.Attempt{
		ID:        util.NewULID(),
		EntityID:  e.ID,
		Kind:      e.Kind.String(),
		Address:   address,
		Status:    "sent",
		CreatedAt: time.Now(),
	}
	if sendErr != nil {
		a.Status = "failed"
		a.Error = sendErr.Error()
	}

	if err := s.Attempts.Insert(ctx, a); err != nil {
		logger.L().Warn("attempt insert failed", zap.Error(err))
	}
}
