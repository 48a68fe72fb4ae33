package votecount

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRunoffBatchEliminator(t *testing.T) {
	assert := assert.New(t)

	lexicographic := NewTiebreakerChain(LexicographicTiebreaker{})
	states := testStates(map[string]CandidateState{
		"A": {VoteCount: dec("10")},
		"B": {VoteCount: dec("4")},
		"C": {VoteCount: dec("1")},
		"D": {VoteCount: dec("2")},
		"E": {Status: Defeated},
	})

	t.Run("single_lowest", func(t *testing.T) {
		b := NewRunoffBatchEliminator(lexicographic, 1, false)
		losers, err := b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("C"), losers)
	})

	t.Run("tie_broken_by_chain", func(t *testing.T) {
		spy := &spyTiebreaker{}
		b := NewRunoffBatchEliminator(NewTiebreakerChain(spy, LexicographicTiebreaker{}), 1, false)
		tied := testStates(map[string]CandidateState{
			"A": {VoteCount: dec("3")},
			"B": {VoteCount: dec("1")},
			"C": {VoteCount: dec("1")},
		})
		losers, err := b.GetEliminationCandidates(tied, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("C"), losers)
		assert.Equal(1, spy.calls)
	})

	t.Run("batch", func(t *testing.T) {
		b := NewRunoffBatchEliminator(lexicographic, 1, true)
		losers, err := b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("B", "C", "D"), losers)
	})

	t.Run("batch_keeps_enough_contenders", func(t *testing.T) {
		b := NewRunoffBatchEliminator(lexicographic, 2, true)
		losers, err := b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("C", "D"), losers)
	})

	t.Run("batch_with_surplus", func(t *testing.T) {
		b := NewRunoffBatchEliminator(lexicographic, 2, true)
		losers, err := b.GetEliminationCandidates(states, dec("2"))
		assert.Nil(err)
		assert.Equal(candidates("C"), losers)
	})

	t.Run("no_hopeful", func(t *testing.T) {
		b := NewRunoffBatchEliminator(lexicographic, 1, true)
		losers, err := b.GetEliminationCandidates(testStates(map[string]CandidateState{
			"A": {Status: Elected},
		}), decimal.Zero)
		assert.Nil(err)
		assert.Empty(losers)
	})
}

func TestTidemansAlternativeBatchEliminator(t *testing.T) {
	assert := assert.New(t)

	lexicographic := NewTiebreakerChain(LexicographicTiebreaker{})
	tc := NewTopCycle(NewPairwiseGraph(parseTestBallots(t,
		"A>B>C>D",
		"B>C>A>D",
		"C>A>B>D",
	)))
	runoff := NewRunoffBatchEliminator(lexicographic, 1, false)

	t.Run("outside_retain_set", func(t *testing.T) {
		b := NewTidemansAlternativeBatchEliminator(runoff, tc, SmithSet)
		losers, err := b.GetEliminationCandidates(testStates(map[string]CandidateState{
			"A": {VoteCount: dec("1")},
			"B": {VoteCount: dec("1")},
			"C": {VoteCount: dec("1")},
			"D": {},
		}), decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("D"), losers)
	})

	t.Run("runoff_fallback", func(t *testing.T) {
		b := NewTidemansAlternativeBatchEliminator(runoff, tc, SmithSet)
		losers, err := b.GetEliminationCandidates(testStates(map[string]CandidateState{
			"A": {VoteCount: dec("1")},
			"B": {VoteCount: dec("2")},
			"C": {VoteCount: dec("1")},
			"D": {Status: Defeated},
		}), decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("C"), losers)
	})

	t.Run("retain_set_over_hopefuls", func(t *testing.T) {
		// without C, A beats B
		b := NewTidemansAlternativeBatchEliminator(runoff, tc, SchwartzSet)
		losers, err := b.GetEliminationCandidates(testStates(map[string]CandidateState{
			"A": {VoteCount: dec("2")},
			"B": {VoteCount: dec("2")},
			"C": {Status: Defeated},
			"D": {Status: Defeated},
		}), decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("B"), losers)
	})

	t.Run("retain_set_keeps_seats_filled", func(t *testing.T) {
		tied := NewTopCycle(NewPairwiseGraph(parseTestBallots(t,
			"A>B>C>D>E",
			"B>A>E>D>C",
		)))
		states := testStates(map[string]CandidateState{
			"A": {VoteCount: dec("1")},
			"B": {VoteCount: dec("1")},
			"C": {},
			"D": {},
			"E": {},
		})

		b := NewTidemansAlternativeBatchEliminator(NewRunoffBatchEliminator(lexicographic, 2, false), tied, SmithSet)
		losers, err := b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("C", "D", "E"), losers)

		b = NewTidemansAlternativeBatchEliminator(NewRunoffBatchEliminator(lexicographic, 3, false), tied, SmithSet)
		losers, err = b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("E"), losers)

		states[NewCandidate("C")] = CandidateState{VoteCount: dec("1")}
		losers, err = b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("E"), losers)

		states[NewCandidate("E")] = CandidateState{Status: Defeated}
		losers, err = b.GetEliminationCandidates(states, decimal.Zero)
		assert.Nil(err)
		assert.Equal(candidates("D"), losers)
	})
}
