package metrics

import "github.com/prometheus/client_golang/prometheus"

// Domain Prometheus metrics.
var (
	ChatResponsesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mentor",
			Name:      "chat_responses_total",
			Help:      "Chat resolutions by response source",
		},
		[]string{"source"},
	)

	LedgerFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mentor",
			Name:      "ledger_failures_total",
			Help:      "Interaction ledger operations that degraded to a fallback",
		},
		[]string{"op"},
	)
)

// RegisterDomainMetrics registers the domain metrics explicitly (no init()).
func RegisterDomainMetrics() {
	prometheus.MustRegister(ChatResponsesTotal)
	prometheus.MustRegister(LedgerFailuresTotal)
}
