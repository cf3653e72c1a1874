package osc

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts traffic through a Client or Server. A nil *Metrics records
// nothing, so it can be left unset.
type Metrics struct {
	packetsReceived prometheus.Counter
	bytesReceived   prometheus.Counter
	decodeErrors    prometheus.Counter
	packetsSent     *prometheus.CounterVec
	encodeErrors    prometheus.Counter
}

// NewMetrics creates the OSC counters and registers them with reg. A nil reg
// uses the default registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)

	return &Metrics{
		packetsReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "server",
			Name:      "packets_received_total",
			Help:      "Datagrams read from the socket",
		}),
		bytesReceived: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "server",
			Name:      "bytes_received_total",
			Help:      "Bytes read from the socket",
		}),
		decodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "server",
			Name:      "decode_errors_total",
			Help:      "Datagrams that failed to decode",
		}),
		packetsSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "client",
			Name:      "packets_sent_total",
			Help:      "Packets written to the socket",
		}, []string{"type"}),
		encodeErrors: f.NewCounter(prometheus.CounterOpts{
			Namespace: "osc",
			Subsystem: "client",
			Name:      "encode_errors_total",
			Help:      "Packets that failed to encode",
		}),
	}
}

func (m *Metrics) received(n int) {
	if m == nil {
		return
	}
	m.packetsReceived.Inc()
	m.bytesReceived.Add(float64(n))
}

func (m *Metrics) decodeFailed() {
	if m == nil {
		return
	}
	m.decodeErrors.Inc()
}

func (m *Metrics) sent(p Packet) {
	if m == nil {
		return
	}
	m.packetsSent.WithLabelValues(packetType(p)).Inc()
}

func (m *Metrics) encodeFailed() {
	if m == nil {
		return
	}
	m.encodeErrors.Inc()
}

func packetType(p Packet) string {
	switch p.(type) {
	case *Bundle:
		return "bundle"
	case *Message:
		return "message"
	}
	return "unknown"
}
