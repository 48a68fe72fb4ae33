package votecount

import (
	"errors"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// newMetrics initialize Prometheus metrics for monitoring tabulations.
// An error is returned when a collector cannot be registered
func newMetrics(method, namespace string) (*metrics, error) {
	z := &metrics{
		method: method,
		tabulations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "votecount",
				Name:      "tabulations_total",
				Help:      "Indicates how many tabulations completed",
			},
			[]string{"method"},
		),
		rounds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "votecount",
				Name:      "rounds_total",
				Help:      "Indicates how many tabulation rounds completed",
			},
			[]string{"method"},
		),
		elected: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "votecount",
				Name:      "candidates_elected_total",
				Help:      "Indicates how many candidates were elected by a round",
			},
			[]string{"method"},
		),
		defeated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "votecount",
				Name:      "candidates_defeated_total",
				Help:      "Indicates how many candidates were defeated by a round",
			},
			[]string{"method"},
		),
		tieDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "votecount",
				Name:      "tie_decisions_total",
				Help:      "Indicates how many ties were broken by each tiebreaker",
			},
			[]string{"method", "strategy"},
		),
		tabulationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "votecount",
			Name:      "tabulation_duration_seconds",
			Help:      "Indicates how much time it took to tabulate",
		},
			[]string{"method"},
		),
	}

	// Register the metrics with the default Prometheus registry.
	// Several tabulators share the same collectors
	if prometheus.DefaultRegisterer == nil {
		return z, nil
	}
	var err error
	if z.tabulations, err = registerCollector(z.tabulations); err != nil {
		return nil, err
	}
	if z.rounds, err = registerCollector(z.rounds); err != nil {
		return nil, err
	}
	if z.elected, err = registerCollector(z.elected); err != nil {
		return nil, err
	}
	if z.defeated, err = registerCollector(z.defeated); err != nil {
		return nil, err
	}
	if z.tieDecisions, err = registerCollector(z.tieDecisions); err != nil {
		return nil, err
	}
	if z.tabulationDuration, err = registerCollector(z.tabulationDuration); err != nil {
		return nil, err
	}
	return z, nil
}

// registerCollector registers c and returns it, or returns the collector
// already registered under the same description
func registerCollector[T prometheus.Collector](c T) (T, error) {
	if err := prometheus.DefaultRegisterer.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(T); ok {
				return existing, nil
			}
		}
		return c, fmt.Errorf("%w: %w", ErrInvalidMetrics, err)
	}
	return c, nil
}

// roundComplete records a completed round
func (m *metrics) roundComplete(elected, defeated int) {
	labels := prometheus.Labels{"method": m.method}
	m.rounds.With(labels).Inc()
	m.elected.With(labels).Add(float64(elected))
	m.defeated.With(labels).Add(float64(defeated))
}

// tieBroken records a tie decision taken by the strategy
func (m *metrics) tieBroken(strategy string) {
	m.tieDecisions.With(prometheus.Labels{"method": m.method, "strategy": strategy}).Inc()
}

// tabulationComplete records a completed tabulation and its duration
func (m *metrics) tabulationComplete(start time.Time) {
	elapsed := float64(time.Since(start)) / float64(time.Second)
	labels := prometheus.Labels{"method": m.method}
	m.tabulations.With(labels).Inc()
	m.tabulationDuration.With(labels).Observe(elapsed)
}
