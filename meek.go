package votecount

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// NewMeekVoteCount returns a vote count rounding at precision fractional digits
func NewMeekVoteCount(precision int, batchEliminator BatchEliminator) *MeekVoteCount {
	return &MeekVoteCount{
		precision:       int32(precision),
		batchEliminator: batchEliminator,
		quota:           decimal.Zero,
		surplus:         decimal.Zero,
	}
}

// Quota returns the quota of the last distribution
func (m *MeekVoteCount) Quota() decimal.Decimal {
	return m.quota
}

// Surplus returns the surplus of the last distribution
func (m *MeekVoteCount) Surplus() decimal.Decimal {
	return m.surplus
}

// Iterations returns the number of distributions done by the last count
func (m *MeekVoteCount) Iterations() int {
	return m.iterations
}

// unit returns the smallest representable amount
func (m *MeekVoteCount) unit() decimal.Decimal {
	return decimal.New(1, -m.precision)
}

// roundUp rounds d up to precision
func (m *MeekVoteCount) roundUp(d decimal.Decimal) decimal.Decimal {
	return d.RoundCeil(m.precision)
}

// divFloor returns a / b truncated to precision. Both must be positive
func (m *MeekVoteCount) divFloor(a, b decimal.Decimal) decimal.Decimal {
	q, _ := a.QuoRem(b, m.precision)
	return q
}

// divCeil returns a / b rounded up to precision. Both must be positive
func (m *MeekVoteCount) divCeil(a, b decimal.Decimal) decimal.Decimal {
	q, r := a.QuoRem(b, m.precision)
	if r.IsPositive() {
		q = q.Add(m.unit())
	}
	return q
}

// CountBallots iterates distributions until a hopeful reaches quota,
// the surplus stops decreasing or keep factors stall.
// When every seat can be decided by the tabulator, a single distribution
// is made to report vote totals
func (m *MeekVoteCount) CountBallots(t *Tabulation) error {
	m.iterations = 0
	if t.IsFinalRound() {
		if err := m.distributeVotes(t); err != nil {
			return err
		}
		m.quota = m.computeQuota(t)
		m.surplus = m.computeSurplus(t)
		return nil
	}

	// the first iteration never stops on surplus
	m.surplus = decimal.NewFromInt(int64(len(t.ballots) + 1))
	for {
		previous := m.surplus
		if err := m.distributeVotes(t); err != nil {
			return err
		}
		m.quota = m.computeQuota(t)
		m.surplus = m.computeSurplus(t)

		if len(m.getWinners(t)) > 0 {
			break
		}
		if m.surplus.GreaterThanOrEqual(previous) || m.surplus.LessThan(meekOmega) {
			break
		}
		if m.updateKeepFactors(t) {
			break
		}
	}

	if t.logger != nil {
		t.logger.Trace().
			Str("tabulationId", t.ID).
			Str("round", fmt.Sprintf("%d", t.Round)).
			Str("iterations", fmt.Sprintf("%d", m.iterations)).
			Str("quota", m.quota.String()).
			Str("surplus", m.surplus.String()).
			Msgf("Meek count complete")
	}
	m.batchEliminator.UpdateTiebreaker(t.Snapshot())
	return nil
}

// distributeVotes walks each ballot in preference order, every candidate
// keeping its keep factor share of the remaining weight
func (m *MeekVoteCount) distributeVotes(t *Tabulation) error {
	m.iterations++
	t.arena.zeroVoteCounts()
	one := decimal.NewFromInt(1)
	for _, b := range t.ballots {
		weight := one
		for _, v := range b.votes {
			state, ok := t.arena.get(v.Candidate)
			if !ok {
				return fmt.Errorf("%w: %s", ErrUnknownCandidate, v.Candidate)
			}
			value := m.roundUp(weight.Mul(state.KeepFactor))
			state.VoteCount = state.VoteCount.Add(value)
			weight = weight.Sub(value)
			if !weight.IsPositive() {
				break
			}
		}
	}
	return nil
}

// computeQuota returns the total votes divided by seats plus one,
// truncated to precision, plus one unit
func (m *MeekVoteCount) computeQuota(t *Tabulation) decimal.Decimal {
	total := t.arena.snapshot().TotalVotes()
	return m.divFloor(total, decimal.NewFromInt(int64(t.Seats+1))).Add(m.unit())
}

// getWinners returns hopefuls reaching quota in arena order
func (m *MeekVoteCount) getWinners(t *Tabulation) []Candidate {
	var winners []Candidate
	for i, c := range t.arena.candidates {
		state := t.arena.states[i]
		if state.Status == Hopeful && state.VoteCount.GreaterThanOrEqual(m.quota) {
			winners = append(winners, c)
		}
	}
	return winners
}

// computeSurplus returns the sum of elected votes above quota.
// The aggregate is floored at zero, so a candidate under quota
// reduces the surplus of the others
func (m *MeekVoteCount) computeSurplus(t *Tabulation) decimal.Decimal {
	surplus := decimal.Zero
	for i := range t.arena.states {
		if t.arena.states[i].Status == Elected {
			surplus = surplus.Add(t.arena.states[i].VoteCount.Sub(m.quota))
		}
	}
	if surplus.IsNegative() {
		return decimal.Zero
	}
	return surplus
}

// updateKeepFactors sets the keep factor of every elected candidate to
// kf * quota / votes rounded up once and capped at 1.
// It returns true on stasis, when nothing changed or a keep factor would
// increase. Keep factors are left untouched on stasis
func (m *MeekVoteCount) updateKeepFactors(t *Tabulation) bool {
	one := decimal.NewFromInt(1)
	updated := make(map[int]decimal.Decimal)
	changed, increased := false, false
	for i := range t.arena.states {
		state := t.arena.states[i]
		if state.Status != Elected || !state.VoteCount.IsPositive() {
			continue
		}
		kf := m.divCeil(state.KeepFactor.Mul(m.quota), state.VoteCount)
		if kf.GreaterThan(one) {
			kf = one
		}
		if !kf.Equal(state.KeepFactor) {
			changed = true
		}
		if kf.GreaterThan(state.KeepFactor) {
			increased = true
		}
		updated[i] = kf
	}
	if !changed || increased {
		return true
	}
	for i, kf := range updated {
		t.arena.states[i].KeepFactor = kf
	}
	return false
}

// NewMeekSTV returns a Meek STV method
func NewMeekSTV() *MeekSTV {
	return &MeekSTV{}
}

// Name implements Method
func (m *MeekSTV) Name() string {
	return MeekSTVName
}

// InitializeTabulation builds the vote count and runoff eliminator of the run
func (m *MeekSTV) InitializeTabulation(t *Tabulation) error {
	m.batchEliminator = NewRunoffBatchEliminator(t.Tiebreaker(), t.Seats, t.BatchElimination())
	m.count = NewMeekVoteCount(t.Precision(), m.batchEliminator)
	return nil
}

// CountBallots implements BallotsCounter
func (m *MeekSTV) CountBallots(t *Tabulation) error {
	return m.count.CountBallots(t)
}

// CountBallot is never called as MeekSTV counts all ballots at once
func (m *MeekSTV) CountBallot(*Tabulation, Ballot) error {
	return nil
}

// Quota returns the quota of the last count
func (m *MeekSTV) Quota() decimal.Decimal {
	if m.count == nil {
		return decimal.Zero
	}
	return m.count.Quota()
}

// TabulateRound elects hopefuls reaching quota, otherwise defeats the
// candidates returned by the batch eliminator
func (m *MeekSTV) TabulateRound(t *Tabulation) (RoundResult, error) {
	if t.IsFinalRound() {
		return t.SetFinalWinners()
	}

	var result RoundResult
	if winners := m.count.getWinners(t); len(winners) > 0 {
		result.Elected = winners
		result.Note = fmt.Sprintf("quota %s reached", m.count.Quota())
		return result, t.setStatuses(winners, Elected)
	}

	losers, err := m.batchEliminator.GetEliminationCandidates(t.Snapshot(), m.count.Surplus())
	if err != nil {
		return result, err
	}
	result.Defeated = losers
	result.Note = fmt.Sprintf("nobody reached quota %s", m.count.Quota())
	return result, t.setStatuses(losers, Defeated)
}
