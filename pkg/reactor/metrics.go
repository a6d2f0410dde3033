//go:build linux

package reactor

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	submittedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opc_reactor_operations_submitted_total",
			Help: "Total number of operations submitted to the ring.",
		},
		[]string{"kind"},
	)

	completedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opc_reactor_operations_completed_total",
			Help: "Total number of operations completed successfully.",
		},
		[]string{"kind"},
	)

	failedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "opc_reactor_operations_failed_total",
			Help: "Total number of operations completed with an errno.",
		},
		[]string{"kind"},
	)

	inflightGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "opc_reactor_operations_inflight",
			Help: "Number of operations awaiting completion.",
		},
	)
)

func init() {
	prometheus.MustRegister(submittedTotal)
	prometheus.MustRegister(completedTotal)
	prometheus.MustRegister(failedTotal)
	prometheus.MustRegister(inflightGauge)
}
