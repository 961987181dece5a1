// Package metrics holds the order service's Prometheus instruments.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrderTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_order_transitions_total",
			Help: "Order lifecycle operations by transition and result",
		},
		[]string{"transition", "result"}, // create|pay|accept|reject, ok|<reason code>
	)

	ChatMessages = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "canteen_chat_messages_total",
			Help: "Chat messages persisted",
		},
	)

	HubClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "canteen_realtime_clients",
			Help: "Currently connected realtime clients",
		},
	)

	HubDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_realtime_deliveries_total",
			Help: "Envelopes handed to client send buffers, by event type",
		},
		[]string{"event"},
	)

	HubDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_realtime_dropped_total",
			Help: "Envelopes dropped, by stage (broadcast_full, client_full, relay_full, malformed)",
		},
		[]string{"stage"},
	)

	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_order_events_published_total",
			Help: "Order events handed to the event stream, by result",
		},
		[]string{"result"},
	)
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "canteen_http_requests_total",
			Help: "HTTP requests by method, route template and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "canteen_http_request_duration_seconds",
			Help:    "HTTP request latency by route template",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
