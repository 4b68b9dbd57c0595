package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/joelkehle/protocol-check/internal/protocheck"
)

var (
	validationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "protocol_validations_total",
		Help: "Protocol validation runs served over HTTP.",
	})
	issuesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "protocol_issues_total",
		Help: "Issues reported across all validation runs, by severity.",
	}, []string{"severity"})
	validationSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "protocol_validation_seconds",
		Help:    "Wall-clock duration of a validation run.",
		Buckets: prometheus.DefBuckets,
	})
)

func observeValidation(report protocheck.ProtocolReport, elapsed time.Duration) {
	validationsTotal.Inc()
	validationSeconds.Observe(elapsed.Seconds())
	for _, res := range report.PerSection {
		for sev, n := range res.SeverityCounts {
			issuesTotal.WithLabelValues(string(sev)).Add(float64(n))
		}
	}
	for _, issue := range report.DuplicationIssues {
		issuesTotal.WithLabelValues(string(issue.Severity)).Inc()
	}
}
