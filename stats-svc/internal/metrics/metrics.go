package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var EventsConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "canteen_stats_events_consumed_total",
		Help: "Order events read from the stream by outcome",
	},
	[]string{"result"},
)
