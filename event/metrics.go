package event

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	eventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calldetect_events_published_total",
		Help: "The total number of events published to the relay, partitioned by category",
	}, []string{"category"})

	eventsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calldetect_events_delivered_total",
		Help: "The total number of successful subscriber callback deliveries, partitioned by category",
	}, []string{"category"})

	callbackPanics = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calldetect_callback_panics_total",
		Help: "The total number of panics recovered from subscriber callbacks, partitioned by category",
	}, []string{"category"})
)
