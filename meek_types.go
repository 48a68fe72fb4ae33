package votecount

import "github.com/shopspring/decimal"

const (
	// MeekSTVName is the name of the Meek STV method
	MeekSTVName string = "meek"
)

// meekOmega is the surplus under which iterations stop
var meekOmega = decimal.New(1, -6)

// MeekVoteCount distributes ballots with keep factors at a fixed
// precision until a candidate reaches quota or the count stalls.
// Every rounding rounds up
type MeekVoteCount struct {
	// precision is the number of fractional digits
	precision int32

	// batchEliminator is refreshed once iterations stop
	batchEliminator BatchEliminator

	// quota of the last distribution
	quota decimal.Decimal

	// surplus of the last distribution
	surplus decimal.Decimal

	// iterations is the number of distributions of the last count
	iterations int
}

// MeekSTV is the Meek single transferable vote method.
// A value must not be shared between tabulators
type MeekSTV struct {
	// count is reset at each tabulation
	count *MeekVoteCount

	// batchEliminator picks defeated candidates when nobody reached quota
	batchEliminator BatchEliminator
}
