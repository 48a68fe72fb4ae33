package votecount

import (
	"sync"

	"github.com/rs/zerolog"
	bolt "go.etcd.io/bbolt"
)

const (
	// dbFileName is the name of the database file
	dbFileName string = "votecount.db"
	// bucketTabulationsName will be used to store tabulation metadata
	bucketTabulationsName string = "votecount_tabulations"
	// bucketRoundsName will be used to store one sub bucket of rounds per tabulation
	bucketRoundsName string = "votecount_rounds"
	// bucketResultsName will be used to store final results
	bucketResultsName string = "votecount_results"
)

// bucketNames are created when the database is opened
var bucketNames = []string{bucketTabulationsName, bucketRoundsName, bucketResultsName}

type BoltOptions struct {
	// DataDir is the default data directory that will be used to store all data on the disk. It's required
	DataDir string

	// Options hold all bolt options
	Options *bolt.Options

	// Logger is used to report errors happening while notified.
	// Defaults to logger.NewLogger()
	Logger *zerolog.Logger
}

// BoltStore persists tabulations. It is an Observer
// that can be subscribed to a Tabulator
type BoltStore struct {
	// dataDir is the default data directory that will be used to store all data on the disk
	dataDir string

	// db allows us to manipulate the k/v database
	db *bolt.DB

	// logger reports notification errors
	logger *zerolog.Logger

	// mu protects lastErr
	mu sync.Mutex

	// lastErr is the last error raised while notified
	lastErr error
}

// TabulationRecord describes a tabulation that began
type TabulationRecord struct {
	// TabulationID is the id of the tabulation
	TabulationID string

	// Method is the name of the method
	Method string

	// Seats to fill
	Seats int

	// Ballots is the number of ballots
	Ballots int
}

// RoundRecord is the persisted state of a completed round.
// The final result is stored with Round set to the number of rounds
type RoundRecord struct {
	// TabulationID is the id of the tabulation
	TabulationID string

	// Round number starting at 1
	Round uint64

	// Note published with the round
	Note string

	// CandidateStates at the end of the round
	CandidateStates CandidateStates
}
