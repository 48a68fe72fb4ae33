package votecount

import (
	"slices"

	"github.com/shopspring/decimal"
)

// NewRunoffBatchEliminator returns a runoff eliminator.
// When batch is false, exactly one candidate is defeated per call
func NewRunoffBatchEliminator(tiebreaker *TiebreakerChain, seats int, batch bool) *RunoffBatchEliminator {
	return &RunoffBatchEliminator{
		tiebreaker: tiebreaker,
		seats:      seats,
		batch:      batch,
	}
}

// UpdateTiebreaker implements BatchEliminator
func (b *RunoffBatchEliminator) UpdateTiebreaker(states CandidateStates) {
	b.tiebreaker.UpdateTiebreaker(states)
}

// GetEliminationCandidates returns the largest group of weakest hopefuls
// that cannot catch up with the next hopeful even if they received the
// whole surplus. Without such a group, or when batching is disabled,
// the single weakest hopeful is returned and ties are broken by the chain.
// Batched groups are decided on vote counts alone so they never depend
// on a tiebreaker decision
func (b *RunoffBatchEliminator) GetEliminationCandidates(states CandidateStates, surplus decimal.Decimal) ([]Candidate, error) {
	hopefuls := states.WithStatus(Hopeful)
	if len(hopefuls) == 0 {
		return nil, nil
	}
	slices.SortStableFunc(hopefuls, func(x, y Candidate) int {
		return states[x].VoteCount.Cmp(states[y].VoteCount)
	})

	if b.batch {
		if group := b.batchGroup(states, hopefuls, surplus); len(group) > 0 {
			return sortCandidates(group), nil
		}
	}

	loser, err := b.weakest(states, hopefuls)
	if err != nil {
		return nil, err
	}
	return []Candidate{loser}, nil
}

// weakest returns the candidate with the fewest votes among the ones
// sorted by ascending vote count. Ties are broken by the chain
func (b *RunoffBatchEliminator) weakest(states CandidateStates, ascending []Candidate) (Candidate, error) {
	lowest := states[ascending[0]].VoteCount
	var tied []Candidate
	for _, c := range ascending {
		if !states[c].VoteCount.Equal(lowest) {
			break
		}
		tied = append(tied, c)
	}
	return b.tiebreaker.GetTieLoser(tied, nil)
}

// batchGroup returns the largest prefix of the ascending hopefuls list
// whose votes plus surplus stay below the next hopeful.
// The prefix never leaves fewer contenders than seats
func (b *RunoffBatchEliminator) batchGroup(states CandidateStates, hopefuls []Candidate, surplus decimal.Decimal) []Candidate {
	elected := len(states.WithStatus(Elected))
	best := 0
	sum := surplus
	for k := 1; k < len(hopefuls); k++ {
		sum = sum.Add(states[hopefuls[k-1]].VoteCount)
		if len(hopefuls)-k+elected < b.seats {
			break
		}
		if sum.LessThan(states[hopefuls[k]].VoteCount) {
			best = k
		}
	}
	return append([]Candidate(nil), hopefuls[:best]...)
}

// NewTidemansAlternativeBatchEliminator returns an eliminator protecting
// the retain set computed from the pairwise graph
func NewTidemansAlternativeBatchEliminator(runoff *RunoffBatchEliminator, topCycle *TopCycle, retainSet TopCycleSet) *TidemansAlternativeBatchEliminator {
	return &TidemansAlternativeBatchEliminator{
		runoff:    runoff,
		topCycle:  topCycle,
		retainSet: retainSet,
	}
}

// UpdateTiebreaker implements BatchEliminator
func (b *TidemansAlternativeBatchEliminator) UpdateTiebreaker(states CandidateStates) {
	b.runoff.UpdateTiebreaker(states)
}

// GetEliminationCandidates defeats every hopeful outside the retain set
// computed over hopefuls. When all hopefuls are retained, a runoff
// elimination happens instead. When defeating the whole group would leave
// seats unfilled, only its weakest member is defeated
func (b *TidemansAlternativeBatchEliminator) GetEliminationCandidates(states CandidateStates, surplus decimal.Decimal) ([]Candidate, error) {
	retain := NewCandidateSet(b.topCycle.Get(b.retainSet, nonHopefuls(states))...)
	var losers []Candidate
	for _, c := range states.WithStatus(Hopeful) {
		if !retain.Contains(c) {
			losers = append(losers, c)
		}
	}
	if len(losers) == 0 {
		return b.runoff.GetEliminationCandidates(states, surplus)
	}

	// the batch must leave enough contenders to fill every seat,
	// otherwise only the weakest candidate outside the retain set goes
	contenders := len(states.WithStatus(Hopeful)) + len(states.WithStatus(Elected))
	if contenders-len(losers) >= b.runoff.seats {
		return losers, nil
	}
	slices.SortStableFunc(losers, func(x, y Candidate) int {
		return states[x].VoteCount.Cmp(states[y].VoteCount)
	})
	loser, err := b.runoff.weakest(states, losers)
	if err != nil {
		return nil, err
	}
	return []Candidate{loser}, nil
}

// nonHopefuls returns elected and defeated candidates
func nonHopefuls(states CandidateStates) CandidateSet {
	set := make(CandidateSet)
	for c, state := range states {
		if state.Status != Hopeful {
			set[c] = struct{}{}
		}
	}
	return set
}
