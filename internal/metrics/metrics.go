package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpulse_records_total",
			Help: "Ingestion lifecycle counter by stage and kind",
		},
		[]string{"stage", "kind"}, // admitted|duplicate|rejected , lead|company
	)

	SourceErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpulse_source_errors_total",
			Help: "Failed provider fetches by source",
		},
		[]string{"source"},
	)

	OutreachTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobpulse_outreach_total",
			Help: "Delivery attempts by outcome and kind",
		},
		[]string{"outcome", "kind"}, // sent|failed , lead|company
	)
)

func MustRegister(r prometheus.Registerer) {
	r.MustRegister(
		RecordsTotal,
		SourceErrorsTotal,
		OutreachTotal,
	)
}
