package votecount

import "github.com/shopspring/decimal"

// BatchEliminator decides which hopefuls to defeat when a round
// elected nobody
type BatchEliminator interface {
	// UpdateTiebreaker feeds the latest candidate states to the tiebreaker chain
	UpdateTiebreaker(states CandidateStates)

	// GetEliminationCandidates returns the candidates to defeat.
	// surplus is the vote weight still held above quota by elected candidates,
	// zero for methods without transfers
	GetEliminationCandidates(states CandidateStates, surplus decimal.Decimal) ([]Candidate, error)
}

// RunoffBatchEliminator defeats the weakest hopefuls
type RunoffBatchEliminator struct {
	// tiebreaker resolves ties between the weakest hopefuls
	tiebreaker *TiebreakerChain

	// seats to fill
	seats int

	// batch allows the defeat of several candidates at once
	batch bool
}

// TidemansAlternativeBatchEliminator defeats every hopeful outside
// the retain set and falls back to a runoff elimination otherwise
type TidemansAlternativeBatchEliminator struct {
	// runoff is used when every hopeful belongs to the retain set
	runoff *RunoffBatchEliminator

	// topCycle is built from the ballots of the tabulation
	topCycle *TopCycle

	// retainSet is the top cycle protected from elimination
	retainSet TopCycleSet
}
