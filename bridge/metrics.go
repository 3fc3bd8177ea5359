package bridge

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "calldetect_ws_clients",
		Help: "Number of connected WebSocket clients.",
	})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "calldetect_ws_commands_total",
		Help: "Total WebSocket commands received, by command type.",
	}, []string{"type"})

	droppedMessages = promauto.NewCounter(prometheus.CounterOpts{
		Name: "calldetect_ws_dropped_messages_total",
		Help: "Messages dropped because a client send queue was full.",
	})
)
