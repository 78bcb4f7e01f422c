package timer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var opDuration = promauto.NewSummaryVec(prometheus.SummaryOpts{
	Name: "influxstream_op_duration_seconds",
	Help: "Duration of client operations",
	Objectives: map[float64]float64{
		0.50: 0.05,
		0.90: 0.05,
		0.95: 0.02,
		0.99: 0.01,
	},
}, []string{"op"})

type Timer struct {
	timer *prometheus.Timer
}

func (t Timer) Stop() {
	t.timer.ObserveDuration()
}

func Start(op string) Timer {
	return Timer{
		timer: prometheus.NewTimer(opDuration.WithLabelValues(op)),
	}
}
