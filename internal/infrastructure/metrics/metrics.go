package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	linksCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "links_created_total",
			Help: "Total number of link records committed",
		},
	)

	batchesRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_batches_rejected_total",
			Help: "Total number of creation batches rejected, by reason",
		},
		[]string{"reason"},
	)

	redirectsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_redirects_total",
			Help: "Total number of resolutions, by outcome",
		},
		[]string{"outcome"},
	)

	eventsPublishFailedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "link_events_publish_failed_total",
			Help: "Total number of link events that could not be published",
		},
		[]string{"event"},
	)
)

func LinksCreated(n int) {
	linksCreatedTotal.Add(float64(n))
}

func BatchRejected(reason string) {
	batchesRejectedTotal.WithLabelValues(reason).Inc()
}

func Redirect(outcome string) {
	redirectsTotal.WithLabelValues(outcome).Inc()
}

func EventPublishFailed(event string) {
	eventsPublishFailedTotal.WithLabelValues(event).Inc()
}
