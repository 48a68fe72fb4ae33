package votecount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediator(t *testing.T) {
	assert := assert.New(t)

	t.Run("event_kind", func(t *testing.T) {
		assert.Equal("tabulationBegin", TabulationBeginEvent{}.Kind().String())
		assert.Equal("roundComplete", RoundCompleteEvent{}.Kind().String())
		assert.Equal("tiebreakerStateChanged", TiebreakerStateEvent{}.Kind().String())
		assert.Equal("tabulationComplete", TabulationCompleteEvent{}.Kind().String())
	})

	t.Run("order", func(t *testing.T) {
		m := NewMediator()
		var calls []int
		m.Subscribe(ObserverFunc(func(Event) { calls = append(calls, 1) }))
		m.Subscribe(nil)
		m.Subscribe(ObserverFunc(func(Event) { calls = append(calls, 2) }))
		m.CompleteRound(RoundCompleteEvent{Round: 1})
		assert.Equal([]int{1, 2}, calls)
	})

	t.Run("copy_per_observer", func(t *testing.T) {
		m := NewMediator()
		alice := NewCandidate("Alice")
		m.Subscribe(ObserverFunc(func(event Event) {
			switch e := event.(type) {
			case RoundCompleteEvent:
				e.CandidateStates[alice] = CandidateState{Status: Elected}
			case TabulationCompleteEvent:
				e.CandidateStates[alice] = CandidateState{Status: Elected}
			}
		}))
		var seen CandidateState
		m.Subscribe(ObserverFunc(func(event Event) {
			switch e := event.(type) {
			case RoundCompleteEvent:
				seen = e.CandidateStates[alice]
			case TabulationCompleteEvent:
				seen = e.CandidateStates[alice]
			}
		}))

		states := testStates(map[string]CandidateState{"Alice": {Status: Hopeful, VoteCount: dec("1")}})
		m.CompleteRound(RoundCompleteEvent{CandidateStates: states})
		assert.Equal(Hopeful, seen.Status)
		assert.Equal(Hopeful, states[alice].Status)

		m.CompleteTabulation(TabulationCompleteEvent{CandidateStates: states})
		assert.Equal(Hopeful, seen.Status)
		assert.Equal(Hopeful, states[alice].Status)
	})

	t.Run("win_pairs_copied", func(t *testing.T) {
		m := NewMediator()
		alice, bob := NewCandidate("Alice"), NewCandidate("Bob")
		m.Subscribe(ObserverFunc(func(event Event) {
			event.(TiebreakerStateEvent).WinPairs[alice][bob] = false
		}))
		pairs := map[Candidate]map[Candidate]bool{alice: {bob: true}}
		m.ChangeTiebreakerState(TiebreakerStateEvent{WinPairs: pairs})
		assert.True(pairs[alice][bob])
	})

	t.Run("publish_from_observer", func(t *testing.T) {
		m := NewMediator()
		var kinds []EventKind
		m.Subscribe(ObserverFunc(func(event Event) {
			kinds = append(kinds, event.Kind())
			if event.Kind() == TabulationBegin {
				m.ChangeTiebreakerState(TiebreakerStateEvent{})
			}
		}))
		m.BeginTabulation(TabulationBeginEvent{Ballots: parseTestBallots(t, "Alice")})
		assert.Equal([]EventKind{TabulationBegin, TiebreakerStateChanged}, kinds)
	})

	t.Run("publish_from_observer_is_queued", func(t *testing.T) {
		m := NewMediator()
		var first, second []EventKind
		m.Subscribe(ObserverFunc(func(event Event) {
			first = append(first, event.Kind())
			switch event.Kind() {
			case TabulationBegin:
				m.ChangeTiebreakerState(TiebreakerStateEvent{Strategy: "a"})
				m.ChangeTiebreakerState(TiebreakerStateEvent{Strategy: "b"})
			case TiebreakerStateChanged:
				if event.(TiebreakerStateEvent).Strategy == "a" {
					m.CompleteRound(RoundCompleteEvent{Round: 1})
				}
			}
		}))
		var strategies []string
		m.Subscribe(ObserverFunc(func(event Event) {
			second = append(second, event.Kind())
			if e, ok := event.(TiebreakerStateEvent); ok {
				strategies = append(strategies, e.Strategy)
			}
		}))

		m.BeginTabulation(TabulationBeginEvent{})
		expected := []EventKind{TabulationBegin, TiebreakerStateChanged, TiebreakerStateChanged, RoundComplete}
		assert.Equal(expected, first)
		assert.Equal(expected, second)
		assert.Equal([]string{"a", "b"}, strategies)

		// the queue is drained so later publications are immediate
		m.CompleteRound(RoundCompleteEvent{Round: 2})
		assert.Equal(RoundComplete, second[len(second)-1])
		assert.Len(second, 5)
	})
}
