package admin

import (
	"io"

	"github.com/VictoriaMetrics/metrics"
)

// connMetrics groups the per-connection counters exposed via
// Connection.WritePrometheus, following the nested-struct-of-counters
// layout _examples/R2Northstar-Atlas/pkg/api/api0/metrics.go builds on top
// of github.com/VictoriaMetrics/metrics.
type connMetrics struct {
	set *metrics.Set

	packetsSent struct {
		total *metrics.Counter
	}
	packetsReceived struct {
		total   *metrics.Counter
		unknown *metrics.Counter
	}
	dispatchErrors *metrics.Counter
	reconnects     *metrics.Counter
	authFailures   *metrics.Counter
}

func newConnMetrics() *connMetrics {
	m := &connMetrics{set: metrics.NewSet()}
	m.packetsSent.total = m.set.NewCounter(`openttd_admin_packets_sent_total`)
	m.packetsReceived.total = m.set.NewCounter(`openttd_admin_packets_received_total`)
	m.packetsReceived.unknown = m.set.NewCounter(`openttd_admin_packets_received_unknown_total`)
	m.dispatchErrors = m.set.NewCounter(`openttd_admin_dispatch_errors_total`)
	m.reconnects = m.set.NewCounter(`openttd_admin_reconnects_total`)
	m.authFailures = m.set.NewCounter(`openttd_admin_auth_failures_total`)
	return m
}

// WritePrometheus renders the connection's counters in Prometheus text
// exposition format.
func (c *connMetrics) WritePrometheus(w io.Writer) {
	c.set.WritePrometheus(w)
}
