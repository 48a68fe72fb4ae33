package votecount

import (
	"math/rand/v2"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	// LastDifferenceTiebreakerName is the name of LastDifferenceTiebreaker
	LastDifferenceTiebreakerName string = "last-difference"

	// FirstDifferenceTiebreakerName is the name of FirstDifferenceTiebreaker
	FirstDifferenceTiebreakerName string = "first-difference"

	// PairwiseTiebreakerName is the name of PairwiseTiebreaker
	PairwiseTiebreakerName string = "pairwise"

	// RandomTiebreakerName is the name of RandomTiebreaker
	RandomTiebreakerName string = "random"

	// LexicographicTiebreakerName is the name of LexicographicTiebreaker
	LexicographicTiebreakerName string = "lexicographic"
)

// DefaultTiebreakers is the chain used when none is configured
var DefaultTiebreakers = []string{
	LastDifferenceTiebreakerName,
	PairwiseTiebreakerName,
	LexicographicTiebreakerName,
}

// Tiebreaker is a strategy picking a winner or a loser among tied candidates
type Tiebreaker interface {
	// Name of the strategy
	Name() string

	// FullyInformed is true when a decision stays valid after a batch
	// elimination happening later in the same round
	FullyInformed() bool

	// BreakTie returns the winner when findWinner is true, the loser otherwise.
	// Candidates are distinct and sorted by name, ballotWeights is nil when
	// ballots are unweighted. The boolean is false when the strategy
	// cannot decide and the next one must be consulted
	BreakTie(candidates []Candidate, ballotWeights []decimal.Decimal, findWinner bool) (Candidate, bool)
}

// TabulationBeginHandler is implemented by strategies that need the ballots
type TabulationBeginHandler interface {
	BeginTabulation(ballots []Ballot, seats int)
}

// StateUpdater is implemented by strategies learning from vote counts.
// It must be idempotent and return true when its win pairs changed
type StateUpdater interface {
	UpdateTiebreaker(states CandidateStates) bool
}

// WinPairsReporter is implemented by strategies able to publish
// which candidate wins a tie against which
type WinPairsReporter interface {
	WinPairs() map[Candidate]map[Candidate]bool
}

// TieDecision is the outcome of a tie
type TieDecision struct {
	// Candidate is the winner or loser of the tie
	Candidate Candidate

	// Strategy is the name of the strategy that decided
	Strategy string

	// FullyInformed is copied from the deciding strategy
	FullyInformed bool
}

// TiebreakerChain consults strategies in order until one resolves the tie
type TiebreakerChain struct {
	// strategies in consultation order
	strategies []Tiebreaker

	// mediator is used to publish tiebreaker state changes
	mediator *Mediator

	// logger is inherited from the tabulator
	logger *zerolog.Logger

	// metrics counts tie decisions
	metrics *metrics

	// tabulationID is the id of the tabulation in progress
	tabulationID string
}

// winPairs[a][b] tells if a wins a tie against b
type winPairs map[Candidate]map[Candidate]bool

// LastDifferenceTiebreaker favours the candidate that had more votes in the
// most recent round where tied candidates differed
type LastDifferenceTiebreaker struct {
	pairs winPairs
}

// FirstDifferenceTiebreaker favours the candidate that had more votes in the
// earliest round where tied candidates differed
type FirstDifferenceTiebreaker struct {
	pairs winPairs
}

// PairwiseTiebreaker favours the candidate winning the head to head contest
type PairwiseTiebreaker struct {
	pairs winPairs
}

// RandomTiebreaker draws a random total order of candidates at the beginning
// of each tabulation. The same seed always gives the same order
type RandomTiebreaker struct {
	// seed of the random generator
	seed uint64

	// rng is reset at each tabulation
	rng *rand.Rand

	// order is the position of each candidate, lower wins
	order map[Candidate]int
}

// LexicographicTiebreaker favours the candidate whose name sorts first.
// It resolves any tie and is used to terminate chains
type LexicographicTiebreaker struct{}
