package votecount

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstantRunoff(t *testing.T) {
	assert := assert.New(t)

	t.Run("transfer", func(t *testing.T) {
		states := tabulate(t, InstantRunoffName, parseTestBallots(t, "4:A", "3:B", "2:C>B"), 1)
		assert.Equal(candidates("B"), states.Winners())
		assert.True(states[NewCandidate("B")].VoteCount.Equal(dec("5")))
		assert.Equal(Defeated, states[NewCandidate("A")].Status)
		assert.Equal(Defeated, states[NewCandidate("C")].Status)
	})

	t.Run("first_round_majority", func(t *testing.T) {
		var rounds []CandidateStates
		options := testOptions()
		options.Observers = []Observer{ObserverFunc(func(event Event) {
			if e, ok := event.(RoundCompleteEvent); ok {
				rounds = append(rounds, e.CandidateStates)
			}
		})}
		states, err := newTestTabulator(t, NewInstantRunoff(), options).Tabulate(parseTestBallots(t, "5:A", "3:B"), nil, 1)
		assert.Nil(err)
		assert.Equal(candidates("A"), states.Winners())
		assert.Equal(Elected, rounds[0][NewCandidate("A")].Status)
	})

	t.Run("condorcet_winner_eliminated_first", func(t *testing.T) {
		states := tabulate(t, InstantRunoffName, parseTestBallots(t, "4:B>A>C", "3:C>A>B", "2:A>B>C"), 1)
		assert.Equal(candidates("B"), states.Winners())
	})

	t.Run("batch_elimination", func(t *testing.T) {
		ballots := parseTestBallots(t, "8:A", "5:B", "C>B", "2:D>B")
		for _, batch := range []bool{false, true} {
			var first CandidateStates
			options := testOptions()
			options.BatchElimination = batch
			options.Observers = []Observer{ObserverFunc(func(event Event) {
				if e, ok := event.(RoundCompleteEvent); ok && e.Round == 1 {
					first = e.CandidateStates
				}
			})}
			states, err := newTestTabulator(t, NewInstantRunoff(), options).Tabulate(ballots, nil, 1)
			assert.Nil(err)
			assert.Equal(candidates("A"), states.Winners())
			if batch {
				assert.Equal(candidates("C", "D"), first.WithStatus(Defeated))
			} else {
				assert.Equal(candidates("C"), first.WithStatus(Defeated))
			}
		}
	})

	t.Run("exhausted_ballots", func(t *testing.T) {
		states := tabulate(t, InstantRunoffName, parseTestBallots(t, "3:A", "2:B", "2:C"), 1)
		assert.Equal(candidates("A"), states.Winners())
	})

	t.Run("single_seat", func(t *testing.T) {
		r := newTestTabulator(t, NewInstantRunoff(), testOptions())
		states, err := r.Tabulate(parseTestBallots(t, "6:A>B", "2:C", "B"), nil, 2)
		assert.ErrorIs(err, ErrSingleSeatMethod)
		assert.ErrorIs(err, ErrInvalidArgument)
		assert.Nil(states)

		states = tabulate(t, MeekSTVName, parseTestBallots(t, "6:A>B", "2:C", "B"), 2)
		assert.Equal(candidates("A", "B"), states.Winners())
	})
}
