package grievances

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var transitionsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "redress",
		Subsystem: "grievances",
		Name:      "transitions_total",
		Help:      "Grievance lifecycle transitions, by destination stage.",
	},
	[]string{"stage"},
)

func recordTransition(s Stage) {
	transitionsTotal.WithLabelValues(string(s)).Inc()
}
