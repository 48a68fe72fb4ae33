package votecount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	// TidemansAlternativeName uses the Schwartz set to elect and the Smith set to retain
	TidemansAlternativeName string = "tideman"

	// TidemansAlternativeSmithName uses the Smith set to elect and retain
	TidemansAlternativeSmithName string = "tideman-smith"

	// TidemansAlternativeSchwartzName uses the Schwartz set to elect and retain
	TidemansAlternativeSchwartzName string = "tideman-schwartz"
)

// TidemansAlternative elects the sole member of the Condorcet set of
// hopefuls and otherwise defeats hopefuls outside the retain set.
// A value must not be shared between tabulators
type TidemansAlternative struct {
	// name of the variant
	name string

	// CondorcetSet is the top cycle that elects when it has a single member
	CondorcetSet TopCycleSet

	// RetainSet is the top cycle protected from elimination
	RetainSet TopCycleSet

	// topCycle is built from the ballots of the tabulation
	topCycle *TopCycle

	// batchEliminator picks defeated candidates
	batchEliminator BatchEliminator
}

// NewTidemansAlternative returns the Schwartz/Smith variant
func NewTidemansAlternative() *TidemansAlternative {
	return newTidemansAlternative(TidemansAlternativeName, SchwartzSet, SmithSet)
}

// NewTidemansAlternativeSmith returns the Smith/Smith variant
func NewTidemansAlternativeSmith() *TidemansAlternative {
	return newTidemansAlternative(TidemansAlternativeSmithName, SmithSet, SmithSet)
}

// NewTidemansAlternativeSchwartz returns the Schwartz/Schwartz variant
func NewTidemansAlternativeSchwartz() *TidemansAlternative {
	return newTidemansAlternative(TidemansAlternativeSchwartzName, SchwartzSet, SchwartzSet)
}

func newTidemansAlternative(name string, condorcetSet, retainSet TopCycleSet) *TidemansAlternative {
	return &TidemansAlternative{
		name:         name,
		CondorcetSet: condorcetSet,
		RetainSet:    retainSet,
	}
}

// Name implements Method
func (m *TidemansAlternative) Name() string {
	return m.name
}

// InitializeTabulation builds the pairwise graph of the ballots
func (m *TidemansAlternative) InitializeTabulation(t *Tabulation) error {
	m.topCycle = NewTopCycle(NewPairwiseGraph(t.ballots))
	runoff := NewRunoffBatchEliminator(t.Tiebreaker(), t.Seats, t.BatchElimination())
	m.batchEliminator = NewTidemansAlternativeBatchEliminator(runoff, m.topCycle, m.RetainSet)
	return nil
}

// CountBallot gives one vote to the first candidate not defeated
func (m *TidemansAlternative) CountBallot(t *Tabulation, ballot Ballot) error {
	return countFirstContender(t, ballot)
}

// TabulateRound implements Method
func (m *TidemansAlternative) TabulateRound(t *Tabulation) (RoundResult, error) {
	if t.IsFinalRound() {
		return t.SetFinalWinners()
	}

	var result RoundResult
	states := t.Snapshot()
	condorcet := m.topCycle.Get(m.CondorcetSet, nonHopefuls(states))
	if len(condorcet) == 1 {
		result.Elected = condorcet
		result.Note = fmt.Sprintf("%s set winner", m.CondorcetSet)
		return result, t.setStatuses(condorcet, Elected)
	}

	losers, err := m.batchEliminator.GetEliminationCandidates(states, decimal.Zero)
	if err != nil {
		return result, err
	}
	result.Defeated = losers
	result.Note = fmt.Sprintf("%s set has %d members", m.CondorcetSet, len(condorcet))
	return result, t.setStatuses(losers, Defeated)
}
