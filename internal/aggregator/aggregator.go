// Package aggregator runs the ingestion cycle: fan out to every source
// provider, normalize what comes back, and route each candidate through the
// record store's admission path.
package aggregator

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/jobpulse/jobpulse/internal/logger"
	"github.com/jobpulse/jobpulse/internal/metrics"
	"github.com/jobpulse/jobpulse/internal/model"
	"github.com/jobpulse/jobpulse/internal/normalize"
	"github.com/jobpulse/jobpulse/internal/source"
	"github.com/jobpulse/jobpulse/internal/store"
)

// Enricher supplies candidate addresses for a company that arrived without
// any. Optional; a nil enricher leaves companies as fetched.
type Enricher interface {
	Find(ctx context.Context, e model.Entity) []string
}

// Summary is the outcome of one ingestion cycle. Per-unit failures are
// reported here as counts, never as a cycle error.
type Summary struct {
	AdmittedLeads     int
	AdmittedCompanies int
	Duplicates        int
	Rejected          int
	ProviderErrors    int
}

type Aggregator struct {
	Store  *store.Store
	Enrich Enricher
}

func New(st *store.Store) *Aggregator {
	return &Aggregator{Store: st}
}

type fetchResult struct {
	records []model.RawRecord
	err     error
}

// RunCycle fetches from all providers concurrently, then admits results
// provider by provider in invocation order. A failed provider contributes
// zero records; admission itself serializes inside the store.
func (a *Aggregator) RunCycle(ctx context.Context, providers []source.Provider) Summary {
	results := make([]fetchResult, len(providers))

	var wg sync.WaitGroup
	for i, p := range providers {
		wg.Add(1)
		go func(i int, p source.Provider) {
			defer wg.Done()
			recs, err := p.Fetch(ctx)
			results[i] = fetchResult{records: recs, err: err}
		}(i, p)
	}
	wg.Wait()

	var sum Summary
	for i, p := range providers {
		res := results[i]
		if res.err != nil {
			sum.ProviderErrors++
			metrics.SourceErrorsTotal.WithLabelValues(p.Name()).Inc()
			logger.L().Warn("provider fetch failed",
				zap.String("provider", p.Name()), zap.Error(res.err))
			continue
		}

		for _, raw := range res.records {
			a.admitOne(ctx, raw, p.Name(), &sum)
		}

		logger.L().Info("provider fetched",
			zap.String("provider", p.Name()), zap.Int("records", len(res.records)))
	}
	return sum
}

func (a *Aggregator) admitOne(ctx context.Context, raw model.RawRecord, sourceTag string, sum *Summary) {
	e, err := normalize.Normalize(raw, sourceTag)
	if err != nil {
		if !errors.Is(err, normalize.ErrRejected) {
			logger.L().Warn("normalize failed", zap.String("source", sourceTag), zap.Error(err))
		}
		kind, _ := model.ParseKind(raw.Get("kind"))
		sum.Rejected++
		metrics.RecordsTotal.WithLabelValues("rejected", kind.String()).Inc()
		return
	}

	if e.Kind == model.KindCompany && len(e.CandidateEmails) == 0 && a.Enrich != nil {
		e.CandidateEmails = a.Enrich.Find(ctx, e)
	}

	admitted, err := a.Store.Admit(e)
	if err != nil {
		// In-memory admission held; only the append write failed.
		logger.L().Error("admission append failed", zap.Error(err))
	}
	if !admitted {
		sum.Duplicates++
		metrics.RecordsTotal.WithLabelValues("duplicate", e.Kind.String()).Inc()
		return
	}

	metrics.RecordsTotal.WithLabelValues("admitted", e.Kind.String()).Inc()
	if e.Kind == model.KindCompany {
		sum.AdmittedCompanies++
	} else {
		sum.AdmittedLeads++
	}
}
