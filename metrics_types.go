package votecount

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds Prometheus metrics for monitoring tabulations.
type metrics struct {
	// method is the method name used as a label for the metrics
	method string

	// tabulations is a counter of completed tabulations
	tabulations *prometheus.CounterVec

	// rounds is a counter of completed rounds
	rounds *prometheus.CounterVec

	// elected is a counter of candidates elected by a round
	elected *prometheus.CounterVec

	// defeated is a counter of candidates defeated by a round
	defeated *prometheus.CounterVec

	// tieDecisions is a counter of ties broken, per strategy
	tieDecisions *prometheus.CounterVec

	// tabulationDuration is an histogram that indicates how much time it took to tabulate
	tabulationDuration *prometheus.HistogramVec
}
