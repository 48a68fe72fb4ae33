package votecount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// InstantRunoffName is the name of the instant runoff method
const InstantRunoffName string = "irv"

// InstantRunoff transfers each ballot to its first candidate still
// contending. Ballots of elected candidates are never transferred, so the
// method fills a single seat. A value must not be shared between tabulators
type InstantRunoff struct {
	// batchEliminator picks defeated candidates
	batchEliminator BatchEliminator
}

// NewInstantRunoff returns an instant runoff method
func NewInstantRunoff() *InstantRunoff {
	return &InstantRunoff{}
}

// Name implements Method
func (m *InstantRunoff) Name() string {
	return InstantRunoffName
}

// InitializeTabulation builds the runoff eliminator of the run.
// Several seats are rejected, Meek STV fills them
func (m *InstantRunoff) InitializeTabulation(t *Tabulation) error {
	if t.Seats != 1 {
		return fmt.Errorf("%w: %s got %d seats", ErrSingleSeatMethod, InstantRunoffName, t.Seats)
	}
	m.batchEliminator = NewRunoffBatchEliminator(t.Tiebreaker(), t.Seats, t.BatchElimination())
	return nil
}

// CountBallot gives one vote to the first candidate not defeated
func (m *InstantRunoff) CountBallot(t *Tabulation, ballot Ballot) error {
	return countFirstContender(t, ballot)
}

// TabulateRound elects a hopeful holding a strict majority of active votes.
// Otherwise the weakest hopeful is defeated
func (m *InstantRunoff) TabulateRound(t *Tabulation) (RoundResult, error) {
	if t.IsFinalRound() {
		return t.SetFinalWinners()
	}

	var result RoundResult
	states := t.Snapshot()
	active := t.ActiveVotes()
	seats := decimal.NewFromInt(int64(t.Seats + 1))
	for _, c := range t.Hopefuls() {
		if states[c].VoteCount.Mul(seats).GreaterThan(active) {
			result.Elected = append(result.Elected, c)
		}
	}
	if len(result.Elected) > 0 {
		result.Note = fmt.Sprintf("majority of %s active votes", active)
		return result, t.setStatuses(result.Elected, Elected)
	}

	losers, err := m.batchEliminator.GetEliminationCandidates(states, decimal.Zero)
	if err != nil {
		return result, err
	}
	result.Defeated = losers
	result.Note = "no majority"
	return result, t.setStatuses(losers, Defeated)
}

// countFirstContender adds one vote to the first ranked candidate
// that is not defeated. Exhausted ballots are ignored
func countFirstContender(t *Tabulation, ballot Ballot) error {
	one := decimal.NewFromInt(1)
	for _, v := range ballot.votes {
		state, ok := t.State(v.Candidate)
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownCandidate, v.Candidate)
		}
		if state.Status != Defeated {
			return t.AddVotes(v.Candidate, one)
		}
	}
	return nil
}
