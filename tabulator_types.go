package votecount

import (
	"sync"

	"github.com/rs/zerolog"
)

const (
	// defaultPrecision is the number of fractional digits used by Meek STV
	defaultPrecision int = 9

	// maxPrecision is the highest precision accepted
	maxPrecision int = 28
)

// Options holds config that will be modified by users
type Options struct {
	// Logger expose zerolog so it can be override
	Logger *zerolog.Logger

	// Tiebreaker is the chain consulted when a tie must be broken.
	// When nil, a chain is built from TiebreakerNames.
	// A chain must not be shared between tabulators
	Tiebreaker *TiebreakerChain

	// TiebreakerNames is used to build the chain when Tiebreaker is nil.
	// Defaults to DefaultTiebreakers
	TiebreakerNames []string

	// TiebreakerSeed is the seed of the random tiebreaker
	TiebreakerSeed uint64

	// Observers are subscribed, in order, after the tiebreaker chain
	Observers []Observer

	// Precision is the number of fractional digits used by Meek STV.
	// Default to 9
	Precision int

	// BatchElimination allows runoff elimination to defeat several
	// hopeless candidates in the same round
	BatchElimination bool

	// MaxRounds aborts the tabulation after this number of rounds.
	// Zero means unlimited
	MaxRounds uint

	// MetricsNamespacePrefix is the namespace to use for all votecount metrics.
	// When set, the full metric name will be `<MetricsNamespacePrefix>_votecount_<metric_name>`.
	// Otherwise it will be `votecount_<metric_name>`.
	MetricsNamespacePrefix string
}

// Method is the method specific part of a tabulation
type Method interface {
	// Name of the method
	Name() string

	// InitializeTabulation is called once per Tabulate before the first count
	InitializeTabulation(t *Tabulation) error

	// CountBallot adds a single ballot to the vote counts
	CountBallot(t *Tabulation, ballot Ballot) error

	// TabulateRound elects and eliminates candidates for one round
	TabulateRound(t *Tabulation) (RoundResult, error)
}

// BallotsCounter is implemented by methods counting all ballots at once,
// like Meek STV. When implemented, CountBallot is never called
type BallotsCounter interface {
	CountBallots(t *Tabulation) error
}

// RoundResult is what a round changed
type RoundResult struct {
	// Elected are candidates elected during the round
	Elected []Candidate

	// Defeated are candidates defeated during the round
	Defeated []Candidate

	// Note is an optional description published with the round
	Note string
}

// Tabulation holds everything owned by a single Tabulate call
type Tabulation struct {
	// ID is the unique id of the tabulation run
	ID string

	// Seats to fill
	Seats int

	// Round is the current round number starting at 1
	Round uint

	// ballots being tabulated
	ballots []Ballot

	// arena owns candidate states
	arena *candidateArena

	// tiebreaker is the tabulator tiebreaker chain
	tiebreaker *TiebreakerChain

	// options are the tabulator options
	options Options

	// logger is the tabulator logger
	logger *zerolog.Logger
}

// Tabulator drives rounds of a method until no candidate is hopeful
type Tabulator struct {
	// mu serializes Tabulate calls
	mu sync.Mutex

	// Logger expose zerolog so it can be override
	Logger *zerolog.Logger

	// method is the tabulation method
	method Method

	// options are configuration options
	options Options

	// mediator dispatches notifications
	mediator *Mediator

	// tiebreaker is the chain consulted on ties
	tiebreaker *TiebreakerChain

	// metrics holds prometheus metrics
	metrics *metrics
}
