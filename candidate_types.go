package votecount

import "github.com/shopspring/decimal"

// Candidate is the identity of a contender.
// Two candidates are the same when their names are equal
type Candidate struct {
	// Name of the candidate
	Name string
}

// CandidateStatus represent where a candidate stands in the tabulation.
// The status can only be Hopeful, Elected or Defeated
type CandidateStatus uint8

const (
	// Hopeful is a candidate that is still contending
	Hopeful CandidateStatus = iota

	// Elected is a candidate that won a seat.
	// It can never go back to Hopeful
	Elected

	// Defeated is a candidate that was eliminated or withdrawn.
	// It can never go back to Hopeful
	Defeated
)

// CandidateState holds the per round mutable state of a candidate
type CandidateState struct {
	// Status of the candidate
	Status CandidateStatus

	// VoteCount is the vote total of the current count.
	// It is reset to zero at the start of every count
	VoteCount decimal.Decimal

	// KeepFactor is the fraction of each ballot weight retained by the candidate.
	// It is only meaningful for Meek STV where hopefuls hold 1 and defeated hold 0
	KeepFactor decimal.Decimal
}

// CandidateStates is a snapshot of all candidate states.
// Values only hold immutable decimals so copying the map copies everything
type CandidateStates map[Candidate]CandidateState

// CandidateSet is an unordered set of candidates
type CandidateSet map[Candidate]struct{}

// candidateArena owns the candidate states of a single tabulation run.
// Candidates are indexed by a stable id in order of first observation
type candidateArena struct {
	// index maps a candidate to its id
	index map[Candidate]int

	// candidates holds candidates by id
	candidates []Candidate

	// states holds candidate states by id
	states []CandidateState
}
