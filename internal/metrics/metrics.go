package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "jobboard"

var (
	ApplicationTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "application_transitions_total",
		Help:      "Application status changes by target status.",
	}, []string{"to"})

	CreditOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "credit_operations_total",
		Help:      "Ledger operations by credit type, operation and result.",
	}, []string{"type", "op", "result"})

	BillingEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "billing_events_total",
		Help:      "Payment provider webhook events by type and result.",
	}, []string{"type", "result"})

	InterviewEmails = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "interview_emails_total",
		Help:      "Interview invitation emails by result.",
	}, []string{"result"})

	SubscriptionsLapsed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "subscriptions_lapsed_total",
		Help:      "Subscriptions moved to past_due by the renewal sweep.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route, method and status.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method", "status"})
)

func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
