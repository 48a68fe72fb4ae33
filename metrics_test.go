package votecount

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	assert := assert.New(t)

	t.Run("shared_collectors", func(t *testing.T) {
		a, err := newMetrics("irv", "metrics_shared")
		assert.Nil(err)
		b, err := newMetrics("meek", "metrics_shared")
		assert.Nil(err)
		assert.Same(a.rounds, b.rounds)
		assert.Same(a.tabulationDuration, b.tabulationDuration)
	})

	t.Run("counters", func(t *testing.T) {
		m, err := newMetrics("irv", "metrics_counters")
		assert.Nil(err)
		labels := prometheus.Labels{"method": "irv"}

		m.roundComplete(1, 2)
		m.tieBroken(PairwiseTiebreakerName)
		m.tabulationComplete(time.Now())

		assert.Equal(float64(1), testutil.ToFloat64(m.rounds.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(m.elected.With(labels)))
		assert.Equal(float64(2), testutil.ToFloat64(m.defeated.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(m.tabulations.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(m.tieDecisions.With(prometheus.Labels{"method": "irv", "strategy": PairwiseTiebreakerName})))
	})

	t.Run("tabulation", func(t *testing.T) {
		options := testOptions()
		options.MetricsNamespacePrefix = "metrics_tabulation"
		r := newTestTabulator(t, NewTidemansAlternative(), options)
		_, err := r.Tabulate(parseTestBallots(t, "A>B>C", "B>C>A", "C>A>B"), nil, 1)
		assert.Nil(err)

		labels := prometheus.Labels{"method": TidemansAlternativeName}
		assert.Equal(float64(3), testutil.ToFloat64(r.metrics.rounds.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(r.metrics.elected.With(labels)))
		assert.Equal(float64(2), testutil.ToFloat64(r.metrics.defeated.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(r.metrics.tabulations.With(labels)))
		assert.Equal(float64(1), testutil.ToFloat64(r.metrics.tieDecisions.With(prometheus.Labels{
			"method":   TidemansAlternativeName,
			"strategy": LexicographicTiebreakerName,
		})))
	})

	t.Run("conflicting_collector", func(t *testing.T) {
		conflict := prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "metrics_conflict",
			Subsystem: "votecount",
			Name:      "rounds_total",
			Help:      "Registered by somebody else",
		})
		assert.Nil(prometheus.Register(conflict))
		defer prometheus.Unregister(conflict)

		_, err := newMetrics("irv", "metrics_conflict")
		assert.ErrorIs(err, ErrInvalidMetrics)

		options := testOptions()
		options.MetricsNamespacePrefix = "metrics_conflict"
		_, err = NewTabulator(NewInstantRunoff(), options)
		assert.ErrorIs(err, ErrInvalidMetrics)
		assert.ErrorIs(err, ErrInvalidArgument)
	})
}
