// Package metrics registers the process-wide Prometheus collectors.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Transitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_transitions_total",
		Help: "Applied state machine transitions.",
	}, []string{"entity", "event"})

	Notifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_notifications_total",
		Help: "Notification deliveries by result.",
	}, []string{"result"})

	ContentGeneration = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "procurement_content_generation_total",
		Help: "Text generation calls by kind and result.",
	}, []string{"kind", "result"})
)

func Handler() http.Handler {
	return promhttp.Handler()
}
